package mcp

import (
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	thankful "github.com/unowned-ai/thankful/pkg"
	"github.com/unowned-ai/thankful/pkg/examples"
	"github.com/unowned-ai/thankful/pkg/reminders"
	"github.com/unowned-ai/thankful/pkg/thanks"
)

// Deps are the components the tools operate on. The caller owns their
// lifecycle, including closing the database.
type Deps struct {
	Store     *thanks.Store
	Editor    *thanks.Editor
	Scheduler *reminders.Scheduler
	Examples  *examples.Catalog

	// ExamplesErr is why Examples is nil, reported by common_examples.
	ExamplesErr error
	Logger      *zap.Logger
}

type ThankfulMCPServer struct {
	mcpServer *server.MCPServer
	store     *thanks.Store
	editor    *thanks.Editor
	scheduler *reminders.Scheduler
	catalog   *examples.Catalog
	logger    *zap.Logger

	// catalogErr explains a nil catalog.
	catalogErr error
}

// NewThankfulMCPServer builds an MCP server with every thankful tool registered.
func NewThankfulMCPServer(deps Deps) *ThankfulMCPServer {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	editor := deps.Editor
	if editor == nil {
		editor = thanks.NewEditor(deps.Store, logger)
	}

	s := &ThankfulMCPServer{
		mcpServer: server.NewMCPServer(
			"Thankful MCP Server",
			thankful.Version,
			server.WithLogging(),
			server.WithRecovery(),
		),
		store:     deps.Store,
		editor:    editor,
		scheduler: deps.Scheduler,
		catalog:    deps.Examples,
		catalogErr: deps.ExamplesErr,
		logger:     logger.Named("mcp"),
	}
	s.registerTools()
	return s
}

// Start runs the stdio event loop until stdin closes.
func (s *ThankfulMCPServer) Start() error {
	s.logger.Info("serving MCP over stdio")
	return server.ServeStdio(s.mcpServer)
}

// MCPRawServer exposes the raw mcp-go server (useful for additional configuration).
func (s *ThankfulMCPServer) MCPRawServer() *server.MCPServer {
	return s.mcpServer
}
