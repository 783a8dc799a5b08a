package cli

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/runnerr0/recalldoc/internal/mcptools"
)

// Execute implements the go-flags Commander interface for MCPCommand.
// stdout carries the protocol, so all logging goes to stderr.
func (c *MCPCommand) Execute(args []string) error {
	e, err := openEnv(c.globals)
	if err != nil {
		return err
	}
	defer e.Close()

	e.logger.Info("serving MCP over stdio", "db", e.dbPath)
	return server.ServeStdio(mcptools.NewServer(e.repo, e.cfg.Search.DefaultLimit, c.version))
}
