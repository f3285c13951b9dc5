package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	thankful "github.com/unowned-ai/thankful/pkg"
	pkgdb "github.com/unowned-ai/thankful/pkg/db"
)

var (
	configPath string
	dbPath     string
	walMode    bool
	syncMode   string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:     "thankful",
	Short:   "A small journal of the things you are thankful for, with weekly reminders.",
	Version: fmt.Sprintf("v%s", thankful.Version),
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var completionShells = []string{"bash", "zsh", "fish", "powershell"}

var completionCmd = &cobra.Command{
	Use:   fmt.Sprintf("completion %s", strings.Join(completionShells, "|")),
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for thankful.

The command prints a completion script to stdout. You can source it in your shell
or install it to the appropriate location for your shell to enable completions permanently.

Examples:

  Bash (current shell):
    $ source <(thankful completion bash)

  Zsh:
    $ thankful completion zsh > "${fpath[1]}/_thankful"

  Fish:
    $ thankful completion fish > ~/.config/fish/completions/thankful.fish

  PowerShell:
    PS> thankful completion powershell | Out-String | Invoke-Expression`,
	DisableFlagsInUseLine: true,
	ValidArgs:             completionShells,
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(cmd.OutOrStdout())
		case "zsh":
			return rootCmd.GenZshCompletion(cmd.OutOrStdout())
		case "fish":
			return rootCmd.GenFishCompletion(cmd.OutOrStdout(), true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(cmd.OutOrStdout())
		default:
			return fmt.Errorf("unsupported shell: %s", args[0])
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of thankful",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(thankful.Version)
	},
}

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the thankful database",
}

var dbUpgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Upgrade the database schema to the latest version",
	Long: `Connects to the SQLite database and applies any schema migrations needed to bring
it up to the current version. A missing database is created and initialized.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		// openApp already upgraded the schema; report where it lives.
		version, err := pkgdb.GetComponentSchemaVersion(a.db, pkgdb.ThanksDBComponent)
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}
		fmt.Printf("Database %s is at schema version %d.\n", a.dbPath, version)
		return nil
	},
}

func initCmd() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the YAML config file (default: ~/.config/thankful/config.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the database file (overrides db.path; uses a system-specific default if empty)")
	rootCmd.PersistentFlags().BoolVar(&walMode, "wal", false, "Enable SQLite WAL (Write-Ahead Logging) mode; overrides db.wal")
	rootCmd.PersistentFlags().StringVar(&syncMode, "sync", "", "SQLite synchronous pragma (OFF, NORMAL, FULL, EXTRA); overrides db.sync")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	dbCmd.AddCommand(dbUpgradeCmd)

	initThanksCmd()
	initRemindersCmd()
	rootCmd.AddCommand(completionCmd, versionCmd, dbCmd, thanksCmd, remindersCmd, examplesCmd, mcpCmd)
}

func main() {
	initCmd()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
