package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/runnerr0/recalldoc/internal/footprint"
)

const recentAuditLimit = 5

// statusJSON is the JSON output structure for the status command.
type statusJSON struct {
	Version           string           `json:"version"`
	DatabasePath      string           `json:"database_path"`
	DatabaseSizeBytes int64            `json:"database_size_bytes"`
	TotalItems        int64            `json:"total_items"`
	TotalAuditEntries int64            `json:"total_audit_entries"`
	OldestUpdate      string           `json:"oldest_update,omitempty"`
	NewestUpdate      string           `json:"newest_update,omitempty"`
	Histories         []scopeCountJSON `json:"histories"`
	RomajiSearch      bool             `json:"romaji_search"`
	StartupKeys       string           `json:"startup_keys"`
	DaemonAddr        string           `json:"daemon_addr"`
	DaemonRunning     bool             `json:"daemon_running"`
}

type scopeCountJSON struct {
	Site       string `json:"site"`
	Team       string `json:"team"`
	Footprints int    `json:"footprints"`
}

// Execute implements the go-flags Commander interface for StatusCommand.
func (c *StatusCommand) Execute(args []string) error {
	e, err := openEnv(c.globals)
	if err != nil {
		return err
	}
	defer e.Close()

	return c.executeWithEnv(e)
}

// executeWithEnv runs status against an open env (for testing).
func (c *StatusCommand) executeWithEnv(e *env) error {
	ctx := context.Background()

	stats, err := e.store.GetStats(ctx)
	if err != nil {
		return fmt.Errorf("get stats: %w", err)
	}

	scopes, err := e.repo.Scopes(ctx)
	if err != nil {
		return fmt.Errorf("list scopes: %w", err)
	}
	histories := make([]scopeCountJSON, 0, len(scopes))
	for _, s := range scopes {
		fps, err := e.repo.LoadFootprints(ctx, s)
		if err != nil {
			return fmt.Errorf("load %s: %w", s, err)
		}
		histories = append(histories, scopeCountJSON{Site: s.SiteID, Team: s.TeamID, Footprints: len(fps)})
	}

	searchCfg, err := e.repo.LoadConfig(ctx)
	if err != nil {
		return fmt.Errorf("load search config: %w", err)
	}

	out := statusJSON{
		Version:           c.version,
		DatabasePath:      e.dbPath,
		DatabaseSizeBytes: getDatabaseSize(e.db, e.dbPath),
		TotalItems:        stats.TotalItems,
		TotalAuditEntries: stats.TotalAuditEntries,
		Histories:         histories,
		RomajiSearch:      searchCfg.EnableRomajiSearch,
		StartupKeys:       string(searchCfg.StartupKeyCombination),
		DaemonAddr:        e.cfg.Addr(),
		DaemonRunning:     checkDaemon(e.cfg.Addr()),
	}
	if stats.TotalItems > 0 {
		out.OldestUpdate = stats.OldestUpdate.UTC().Format(time.RFC3339)
		out.NewestUpdate = stats.NewestUpdate.UTC().Format(time.RFC3339)
	}

	if c.globals != nil && c.globals.JSON {
		return printJSON(out)
	}
	return c.printStatusHuman(ctx, e, out, searchCfg)
}

func (c *StatusCommand) printStatusHuman(ctx context.Context, e *env, out statusJSON, searchCfg footprint.Config) error {
	fmt.Println("recalldoc Status")
	fmt.Println("================")
	fmt.Printf("Version:       %s\n", out.Version)
	fmt.Printf("Database:      %s (%s)\n", out.DatabasePath, formatBytes(out.DatabaseSizeBytes))
	fmt.Printf("Items:         %s\n", formatNumber(out.TotalItems))
	fmt.Printf("Audit entries: %s\n", formatNumber(out.TotalAuditEntries))
	if out.TotalItems > 0 {
		fmt.Printf("Last update:   %s\n", out.NewestUpdate)
	}

	fmt.Println()
	if len(out.Histories) == 0 {
		fmt.Println("Histories:     none")
	} else {
		fmt.Println("Histories:")
		for _, h := range out.Histories {
			fmt.Printf("  %-24s %s\n", h.Site+"/"+h.Team, formatNumber(int64(h.Footprints)))
		}
	}

	fmt.Println()
	romaji := "off"
	if searchCfg.EnableRomajiSearch {
		romaji = "on"
	}
	fmt.Printf("Romaji search: %s\n", romaji)
	fmt.Printf("Startup keys:  %s\n", searchCfg.StartupKeyCombination)

	entries, err := e.store.RecentAudit(ctx, recentAuditLimit)
	if err != nil {
		return fmt.Errorf("recent audit: %w", err)
	}
	if len(entries) > 0 {
		fmt.Println()
		fmt.Println("Recent activity:")
		for _, a := range entries {
			fmt.Printf("  %s  %-16s %s\n", a.Timestamp.Local().Format("2006-01-02 15:04"), a.Action, a.Key)
		}
	}

	fmt.Println()
	if out.DaemonRunning {
		fmt.Printf("Daemon:        running (%s)\n", out.DaemonAddr)
	} else {
		fmt.Printf("Daemon:        not running (%s)\n", out.DaemonAddr)
	}
	return nil
}
