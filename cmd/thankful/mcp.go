package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/unowned-ai/thankful/pkg/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the thankful MCP server (stdio)",
	Long: `Start a Model Context Protocol (MCP) server that exposes thankful entries,
reminders and the examples catalog as MCP tools via STDIO.

The --db flag is optional. If not provided, a system-specific default location will be used:
- Windows: %USERPROFILE%\AppData\Roaming\thankful\thankful.db
- macOS: ~/Library/Application Support/thankful/thankful.db
- Linux: ~/.local/share/thankful/thankful.db

Example:
  thankful mcp
  thankful mcp --db thankful.db`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		// The entry and reminder tools do not need the catalog.
		catalog, catalogErr := loadCatalog(a.cfg)
		if catalogErr != nil {
			a.logger.Warn("starting without the examples catalog", zap.Error(catalogErr))
		}

		srv := mcp.NewThankfulMCPServer(mcp.Deps{
			Store:       a.store,
			Editor:      a.editor,
			Scheduler:   a.scheduler,
			Examples:    catalog,
			ExamplesErr: catalogErr,
			Logger:      a.logger,
		})

		// Log to stderr so we don't contaminate the JSON-RPC stream on stdout.
		a.logger.Info("thankful MCP server started",
			zap.String("db", a.dbPath),
			zap.Bool("wal", a.cfg.DB.WAL),
			zap.String("sync", a.cfg.DB.Sync))
		fmt.Fprintln(os.Stderr, "Listening for MCP JSON-RPC on STDIN/STDOUT ... (Ctrl+C to quit)")

		return srv.Start()
	},
}
