package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/runnerr0/recalldoc/internal/footprint"
)

// searchResultJSON is the JSON output structure for the search command.
type searchResultJSON struct {
	Site    string                `json:"site"`
	Team    string                `json:"team"`
	Query   string                `json:"query"`
	Romaji  bool                  `json:"romaji"`
	Total   int                   `json:"total"`
	Matched int                   `json:"matched"`
	Results []footprint.Footprint `json:"results"`
}

// Execute implements the go-flags Commander interface for SearchCommand.
func (c *SearchCommand) Execute(args []string) error {
	e, err := openEnv(c.globals)
	if err != nil {
		return err
	}
	defer e.Close()

	return c.executeWithEnv(e, args)
}

// executeWithEnv runs the search against an open env (for testing).
func (c *SearchCommand) executeWithEnv(e *env, args []string) error {
	if c.Romaji && c.NoRomaji {
		return fmt.Errorf("--romaji and --no-romaji are mutually exclusive")
	}
	if c.Limit < 0 {
		return fmt.Errorf("--limit must not be negative")
	}

	ctx := context.Background()
	scope, err := resolveScope(ctx, e.repo, c.ScopeFlags)
	if err != nil {
		return err
	}

	romaji := c.Romaji
	if !c.Romaji && !c.NoRomaji {
		searchCfg, err := e.repo.LoadConfig(ctx)
		if err != nil {
			return fmt.Errorf("load search config: %w", err)
		}
		romaji = searchCfg.EnableRomajiSearch
	}

	history, err := e.repo.LoadFootprints(ctx, scope)
	if err != nil {
		return fmt.Errorf("load footprints: %w", err)
	}

	query := strings.Join(args, " ")
	matcher, err := footprint.NewMatcher(query, romaji)
	if err != nil {
		return err
	}
	matched := matcher.Filter(history)

	limit := c.Limit
	if limit == 0 {
		limit = e.cfg.Search.DefaultLimit
	}
	results := matched
	if len(results) > limit {
		results = results[:limit]
	}
	e.logger.Debug("search", "scope", scope.String(), "query", query, "romaji", romaji, "matched", len(matched))

	if c.globals != nil && c.globals.JSON {
		return printJSON(searchResultJSON{
			Site:    scope.SiteID,
			Team:    scope.TeamID,
			Query:   query,
			Romaji:  romaji,
			Total:   len(history),
			Matched: len(matched),
			Results: results,
		})
	}

	fmt.Printf("%d/%d footprints in %s\n", len(matched), len(history), scope)
	for i, fp := range results {
		fmt.Printf("%3d. %s\n", i+1, formatFootprint(fp))
	}
	if rest := len(matched) - len(results); rest > 0 {
		fmt.Printf("... and %d more\n", rest)
	}
	return nil
}
