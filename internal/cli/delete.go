package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/runnerr0/recalldoc/internal/storage"
)

// Execute implements the go-flags Commander interface for DeleteCommand.
func (c *DeleteCommand) Execute(args []string) error {
	e, err := openEnv(c.globals)
	if err != nil {
		return err
	}
	defer e.Close()

	return c.executeWithEnv(e)
}

// executeWithEnv deletes the footprint against an open env (for testing).
func (c *DeleteCommand) executeWithEnv(e *env) error {
	if c.URL == "" {
		return fmt.Errorf("--url is required")
	}

	ctx := context.Background()
	scope, err := resolveScope(ctx, e.repo, c.ScopeFlags)
	if err != nil {
		return err
	}

	history, err := e.repo.DeleteFootprint(ctx, scope, c.URL)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("no footprint %s in %s", c.URL, scope)
	}
	if err != nil {
		return fmt.Errorf("delete footprint: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		return printJSON(map[string]interface{}{
			"deleted": c.URL,
			"site":    scope.SiteID,
			"team":    scope.TeamID,
			"total":   len(history),
		})
	}

	fmt.Printf("Deleted %s from %s (%d footprints left)\n", c.URL, scope, len(history))
	return nil
}
