package mcpserver

import (
	"log"

	"github.com/mark3labs/mcp-go/server"

	"tally/internal/config"
)

// Server is the MCP server for tally. It exposes the schema registry
// and the recency engine as tools so AI agents can query and add
// entries.
type Server struct {
	mcp *server.MCPServer
	cfg *config.Config
}

// New creates a configured MCP server.
func New(cfg *config.Config) *Server {
	s := &Server{cfg: cfg}
	s.mcp = server.NewMCPServer(
		"tally-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
	)
	s.registerTools()
	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	log.Println("[MCP] Starting stdio server...")
	return server.ServeStdio(s.mcp)
}
