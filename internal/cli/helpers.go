package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/runnerr0/recalldoc/internal/config"
	"github.com/runnerr0/recalldoc/internal/footprint"
	"github.com/runnerr0/recalldoc/internal/logging"
	"github.com/runnerr0/recalldoc/internal/storage"
)

// env is everything a command needs once config and storage are open.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
	dbPath string
	db     *sql.DB
	store  *storage.SQLiteStore
	repo   *storage.Repository
}

func (e *env) Close() error {
	e.store.Close()
	return e.db.Close()
}

// loadConfig reads --config when given, otherwise the default config file
// (created with defaults on first run).
func loadConfig(globals *GlobalFlags) (*config.Config, error) {
	if globals != nil && globals.Config != "" {
		return config.LoadOrCreateAt(globals.Config)
	}
	return config.LoadOrCreate()
}

func newLogger(globals *GlobalFlags, cfg *config.Config) *slog.Logger {
	level := cfg.Logging.Level
	if globals != nil && globals.Verbose {
		level = "debug"
	}
	return logging.New(level, os.Stderr)
}

// resolveDBPath returns --db-path when given, otherwise the configured path.
func resolveDBPath(globals *GlobalFlags, cfg *config.Config) (string, error) {
	if globals != nil && globals.DBPath != "" {
		return config.ExpandPath(globals.DBPath)
	}
	return cfg.DBPath()
}

// openEnv loads config, opens the database, runs migrations, and returns
// a ready-to-use repository.
func openEnv(globals *GlobalFlags) (*env, error) {
	cfg, err := loadConfig(globals)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := newLogger(globals, cfg)

	dbPath, err := resolveDBPath(globals, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve db path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	runner, err := storage.NewMigrationRunner(db).WithJournalMode(cfg.Storage.SQLiteJournalMode)
	if err != nil {
		db.Close()
		return nil, err
	}
	if err := runner.Run(); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	e, err := newEnv(cfg, logger, db, dbPath)
	if err != nil {
		db.Close()
		return nil, err
	}
	logger.Debug("database opened", "path", dbPath, "journal_mode", cfg.Storage.SQLiteJournalMode)
	return e, nil
}

// newEnv wraps an already migrated database.
func newEnv(cfg *config.Config, logger *slog.Logger, db *sql.DB, dbPath string) (*env, error) {
	store, err := storage.NewSQLiteStore(db)
	if err != nil {
		return nil, fmt.Errorf("create store: %w", err)
	}
	return &env{
		cfg:    cfg,
		logger: logger,
		dbPath: dbPath,
		db:     db,
		store:  store,
		repo:   storage.NewRepository(store, logger, cfg.Logging.AuditLog),
	}, nil
}

// resolveScope turns --site/--team into a scope. With neither flag set and
// exactly one stored history, that history is used.
func resolveScope(ctx context.Context, repo *storage.Repository, flags ScopeFlags) (footprint.Scope, error) {
	if flags.Site != "" || flags.Team != "" {
		scope := footprint.Scope{SiteID: flags.Site, TeamID: flags.Team}
		if err := scope.Validate(); err != nil {
			return scope, fmt.Errorf("invalid scope: %w", err)
		}
		return scope, nil
	}

	scopes, err := repo.Scopes(ctx)
	if err != nil {
		return footprint.Scope{}, fmt.Errorf("list scopes: %w", err)
	}
	switch len(scopes) {
	case 0:
		return footprint.Scope{}, fmt.Errorf("no footprints recorded yet; pass --site and --team")
	case 1:
		return scopes[0], nil
	}
	names := make([]string, len(scopes))
	for i, s := range scopes {
		names[i] = s.String()
	}
	return footprint.Scope{}, fmt.Errorf("several histories stored (%s); pass --site and --team", strings.Join(names, ", "))
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// getDatabaseSize returns the database file size in bytes.
// For on-disk databases, it uses os.Stat. For in-memory databases,
// it queries page_count * page_size.
func getDatabaseSize(db *sql.DB, dbPath string) int64 {
	if info, err := os.Stat(dbPath); err == nil {
		return info.Size()
	}

	var pageCount, pageSize int64
	if err := db.QueryRow("PRAGMA page_count").Scan(&pageCount); err != nil {
		return 0
	}
	if err := db.QueryRow("PRAGMA page_size").Scan(&pageSize); err != nil {
		return 0
	}
	return pageCount * pageSize
}

// checkDaemon reports whether a daemon answers GET /status at addr within
// one second.
func checkDaemon(addr string) bool {
	client := &http.Client{Timeout: 1 * time.Second}
	resp, err := client.Get("http://" + addr + "/status")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// formatBytes formats a byte count into a human-readable string.
func formatBytes(b int64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(b)/float64(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/float64(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// formatNumber formats an int64 with comma separators.
func formatNumber(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if i > 0 {
			result.WriteString(",")
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// formatFootprint renders one result line: directories joined by "/" and
// the name, followed by the URL.
func formatFootprint(fp footprint.Footprint) string {
	label := fp.SearchText()
	if fp.Name == "" {
		label = strings.TrimSuffix(label, "/")
	}
	return fmt.Sprintf("%s  %s", label, fp.URL)
}
