package cli

import (
	"context"
	"fmt"

	"github.com/runnerr0/recalldoc/internal/footprint"
)

// Execute implements the go-flags Commander interface for SettingsCommand.
func (c *SettingsCommand) Execute(args []string) error {
	e, err := openEnv(c.globals)
	if err != nil {
		return err
	}
	defer e.Close()

	return c.executeWithEnv(e)
}

// executeWithEnv shows or updates the search settings (for testing).
// Without flags the stored settings are printed unchanged.
func (c *SettingsCommand) executeWithEnv(e *env) error {
	ctx := context.Background()
	searchCfg, err := e.repo.LoadConfig(ctx)
	if err != nil {
		return fmt.Errorf("load search config: %w", err)
	}

	changed := false
	switch c.Romaji {
	case "on":
		searchCfg.EnableRomajiSearch = true
		changed = true
	case "off":
		searchCfg.EnableRomajiSearch = false
		changed = true
	case "":
	default:
		return fmt.Errorf("--romaji must be on or off, got %q", c.Romaji)
	}
	if c.Startup != "" {
		combo, err := footprint.ParseStartupKeyCombination(c.Startup)
		if err != nil {
			return err
		}
		searchCfg.StartupKeyCombination = combo
		changed = true
	}

	if changed {
		if err := e.repo.SaveConfig(ctx, searchCfg); err != nil {
			return fmt.Errorf("save search config: %w", err)
		}
	}

	if c.globals != nil && c.globals.JSON {
		return printJSON(searchCfg)
	}

	romaji := "off"
	if searchCfg.EnableRomajiSearch {
		romaji = "on"
	}
	fmt.Printf("Romaji search: %s\n", romaji)
	fmt.Printf("Startup keys:  %s (%s)\n", searchCfg.StartupKeyCombination, string(searchCfg.StartupKeyCombination))
	return nil
}
