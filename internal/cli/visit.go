package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/runnerr0/recalldoc/internal/footprint"
)

// visitResultJSON is the JSON output structure for the visit command.
type visitResultJSON struct {
	Site      string              `json:"site"`
	Team      string              `json:"team"`
	Footprint footprint.Footprint `json:"footprint"`
	Total     int                 `json:"total"`
}

// Execute implements the go-flags Commander interface for VisitCommand.
func (c *VisitCommand) Execute(args []string) error {
	e, err := openEnv(c.globals)
	if err != nil {
		return err
	}
	defer e.Close()

	return c.executeWithEnv(e)
}

// executeWithEnv records the visit against an open env (for testing).
func (c *VisitCommand) executeWithEnv(e *env) error {
	if c.URL == "" {
		return fmt.Errorf("--url is required")
	}

	v := footprint.Visit{URL: c.URL, Name: c.Name}
	if c.Directories != "" {
		v.Directories = strings.Split(c.Directories, "/")
	}

	scope, fp, err := footprint.FromVisit(v)
	if err != nil {
		return fmt.Errorf("record visit: %w", err)
	}

	history, err := e.repo.UpdateFootprint(context.Background(), scope, fp)
	if err != nil {
		return fmt.Errorf("record visit: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		return printJSON(visitResultJSON{
			Site:      scope.SiteID,
			Team:      scope.TeamID,
			Footprint: fp,
			Total:     len(history),
		})
	}

	fmt.Printf("Recorded %s in %s (%d footprints)\n", formatFootprint(fp), scope, len(history))
	return nil
}
