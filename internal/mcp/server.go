package mcp

import (
	"fmt"

	"vfsutil/internal/config"
	"vfsutil/internal/logging"
	"vfsutil/pkg/fileops"
	"vfsutil/pkg/location"
	"vfsutil/pkg/volume"

	"github.com/mark3labs/mcp-go/server"
)

const (
	serverName    = "vfsutil"
	serverVersion = "1.0.0"
)

// Server represents an MCP server instance using mcp-go
type Server struct {
	config    *config.Config
	logger    *logging.AppLogger
	files     *fileops.Manager
	volumes   *volume.Table
	roots     []location.Location
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance with all tools registered.
// A nil cfg uses the defaults.
func NewServer(cfg *config.Config, logger *logging.AppLogger, files *fileops.Manager, volumes *volume.Table) (*Server, error) {
	if cfg == nil {
		def := config.DefaultConfig()
		cfg = &def
	}
	if logger == nil {
		logger = logging.GetDefault()
	}
	if files == nil {
		files = fileops.NewManager(nil, logger)
	}
	if volumes == nil {
		volumes = volume.NewTable(files.Fs(), nil, logger)
	}

	roots, err := cfg.Roots()
	if err != nil {
		return nil, fmt.Errorf("failed to load allowed roots: %w", err)
	}

	s := &Server{
		config:  cfg,
		logger:  logger,
		files:   files,
		volumes: volumes,
		roots:   roots,
	}

	s.mcpServer = server.NewMCPServer(serverName, serverVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	s.registerTools()

	s.logger.Info("MCP server created", "tools", len(s.tools()), "allowedRoots", len(roots))
	return s, nil
}

// Start serves MCP requests on stdin/stdout until EOF or termination.
func (s *Server) Start() error {
	s.logger.Info("Starting MCP server on stdio")
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the MCP server
func (s *Server) Stop() error {
	s.logger.Info("Stopping MCP server")
	// The mcp-go server will handle cleanup when context is cancelled
	return nil
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	for _, t := range s.tools() {
		s.mcpServer.AddTool(t.tool, t.handler)
		s.logger.Debug("Registered tool", "name", t.tool.Name)
	}
}
