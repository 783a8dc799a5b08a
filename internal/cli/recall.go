package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/runnerr0/recalldoc/internal/tui"
)

// Execute implements the go-flags Commander interface for RecallCommand.
func (c *RecallCommand) Execute(args []string) error {
	e, err := openEnv(c.globals)
	if err != nil {
		return err
	}
	defer e.Close()

	return c.executeWithEnv(e, args)
}

// executeWithEnv runs the overlay against an open env (for testing).
func (c *RecallCommand) executeWithEnv(e *env, args []string) error {
	ctx := context.Background()
	scope, err := resolveScope(ctx, e.repo, c.ScopeFlags)
	if err != nil {
		return err
	}

	history, err := e.repo.LoadFootprints(ctx, scope)
	if err != nil {
		return fmt.Errorf("load footprints: %w", err)
	}
	searchCfg, err := e.repo.LoadConfig(ctx)
	if err != nil {
		return fmt.Errorf("load search config: %w", err)
	}

	opts := []tui.Option{
		tui.WithQuery(strings.Join(args, " ")),
		tui.WithContext(ctx),
	}
	if c.copy != nil {
		opts = append(opts, tui.WithClipboard(c.copy))
	}
	model := tui.New(scope, history, searchCfg, e.repo, opts...)

	run := c.run
	if run == nil {
		run = func(m tea.Model) (tea.Model, error) {
			return tea.NewProgram(m, tea.WithAltScreen()).Run()
		}
	}
	final, err := run(model)
	if err != nil {
		return fmt.Errorf("run overlay: %w", err)
	}

	m, ok := final.(*tui.Model)
	if !ok {
		return nil
	}
	if err := m.Err(); err != nil {
		return err
	}
	if fp, ok := m.Selected(); ok {
		if c.globals != nil && c.globals.JSON {
			return printJSON(fp)
		}
		fmt.Println(fp.URL)
	}
	return nil
}
