package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/runnerr0/recalldoc/internal/daemon"
	"github.com/runnerr0/recalldoc/internal/logging"
)

// Execute implements the go-flags Commander interface for IngestCommand.
func (c *IngestCommand) Execute(args []string) error {
	e, err := openEnv(c.globals)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := c.server(e)
	if err != nil {
		return err
	}
	return srv.ListenAndServe(ctx)
}

// server applies the flag overrides and builds the daemon.
func (c *IngestCommand) server(e *env) (*daemon.Server, error) {
	if c.Host != "" {
		e.cfg.Daemon.Host = c.Host
	}
	if c.Port != 0 {
		e.cfg.Daemon.Port = c.Port
	}
	logger := e.logger
	if c.LogLevel != "" {
		if _, err := logging.ParseLevel(c.LogLevel); err != nil {
			return nil, err
		}
		e.cfg.Logging.Level = c.LogLevel
		logger = logging.New(c.LogLevel, os.Stderr)
	}
	if err := e.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid daemon settings: %w", err)
	}
	return daemon.New(e.repo, e.cfg, logger, c.version), nil
}
