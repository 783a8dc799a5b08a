package cli

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/recalldoc/internal/config"
	"github.com/runnerr0/recalldoc/internal/footprint"
	"github.com/runnerr0/recalldoc/internal/logging"
	"github.com/runnerr0/recalldoc/internal/storage"
)

var esaFoo = footprint.Scope{SiteID: "esa", TeamID: "foo"}

// captureOutput captures stdout during fn execution and returns it as a string.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// newTestEnv creates an env over a migrated in-memory database. The daemon
// address points at a port nothing listens on.
func newTestEnv(t *testing.T) *env {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, storage.NewMigrationRunner(db).Run())

	cfg := config.DefaultConfig()
	cfg.Daemon.Port = 1
	e, err := newEnv(cfg, logging.Discard(), db, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { e.store.Close() })
	return e
}

// seedHistory records the standard esa/foo history. Newest first it reads:
// posts/3 "ops/aiu runbook", posts/2 "dev/api/あいう", posts/1 "dev/設計".
func seedHistory(t *testing.T, e *env) {
	t.Helper()
	ctx := context.Background()
	for _, fp := range []footprint.Footprint{
		{Directories: []string{"dev"}, Name: "設計", URL: "https://foo.esa.io/posts/1"},
		{Directories: []string{"dev", "api"}, Name: "あいう", URL: "https://foo.esa.io/posts/2"},
		{Directories: []string{"ops"}, Name: "aiu runbook", URL: "https://foo.esa.io/posts/3"},
	} {
		_, err := e.repo.UpdateFootprint(ctx, esaFoo, fp)
		require.NoError(t, err)
	}
}

// tempGlobalArgs points --config and --db-path into a fresh temp directory.
func tempGlobalArgs(t *testing.T) []string {
	t.Helper()
	dir := t.TempDir()
	return []string{
		"--config", filepath.Join(dir, "config.yaml"),
		"--db-path", filepath.Join(dir, "recalldoc.db"),
	}
}
