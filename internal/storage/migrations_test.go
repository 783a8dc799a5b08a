package storage

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrationRunner_FreshDB(t *testing.T) {
	db := openTestDB(t)
	runner := NewMigrationRunner(db)

	err := runner.Run()
	require.NoError(t, err)

	for _, table := range []string{"items", "audit_log", "schema_migrations"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrationRunner_IndexesCreated(t *testing.T) {
	db := openTestDB(t)
	runner := NewMigrationRunner(db)
	require.NoError(t, runner.Run())

	expectedIndexes := []string{
		"idx_items_updated_at",
		"idx_audit_log_ts",
		"idx_audit_log_action",
		"idx_audit_log_item_key",
	}
	for _, idx := range expectedIndexes {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='index' AND name=?", idx,
		).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
		assert.Equal(t, idx, name)
	}
}

func TestMigrationRunner_Idempotent(t *testing.T) {
	db := openTestDB(t)
	runner := NewMigrationRunner(db)

	require.NoError(t, runner.Run())
	require.NoError(t, runner.Run())

	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 2, count, "each migration should be recorded once after double-run")
}

func TestMigrationRunner_SchemaMigrationsTracking(t *testing.T) {
	db := openTestDB(t)
	runner := NewMigrationRunner(db)
	require.NoError(t, runner.Run())

	var name string
	err := db.QueryRow("SELECT name FROM schema_migrations WHERE version = 1").Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "initial_schema", name)

	v, err := runner.Version()
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestMigrationRunner_VersionBeforeRun(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Exec(`CREATE TABLE schema_migrations (version INTEGER PRIMARY KEY, name TEXT NOT NULL, applied_at DATETIME)`)
	require.NoError(t, err)

	v, err := NewMigrationRunner(db).Version()
	require.NoError(t, err)
	assert.Equal(t, 0, v)
}

func TestMigrationRunner_WALMode(t *testing.T) {
	db := openTestDB(t)
	runner := NewMigrationRunner(db)
	require.NoError(t, runner.Run())

	var journalMode string
	err := db.QueryRow("PRAGMA journal_mode").Scan(&journalMode)
	require.NoError(t, err)
	// In-memory databases always report "memory"; WAL only takes effect on
	// file-backed databases.
	assert.Contains(t, []string{"wal", "memory"}, journalMode)
}

func TestMigrationRunner_FileBackedJournalMode(t *testing.T) {
	db, err := sql.Open("sqlite3", t.TempDir()+"/recalldoc.db")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	db.SetMaxOpenConns(1)

	runner, err := NewMigrationRunner(db).WithJournalMode("DELETE")
	require.NoError(t, err)
	require.NoError(t, runner.Run())

	var journalMode string
	require.NoError(t, db.QueryRow("PRAGMA journal_mode").Scan(&journalMode))
	assert.Equal(t, "delete", journalMode)
}

func TestMigrationRunner_RejectsUnknownJournalMode(t *testing.T) {
	db := openTestDB(t)
	_, err := NewMigrationRunner(db).WithJournalMode("wal; DROP TABLE items")
	assert.Error(t, err)

	runner, err := NewMigrationRunner(db).WithJournalMode("")
	require.NoError(t, err)
	assert.Equal(t, "wal", runner.journalMode)
}

func TestMigrationRunner_ForeignKeys(t *testing.T) {
	db := openTestDB(t)
	runner := NewMigrationRunner(db)
	require.NoError(t, runner.Run())

	var fk int
	err := db.QueryRow("PRAGMA foreign_keys").Scan(&fk)
	require.NoError(t, err)
	assert.Equal(t, 1, fk, "foreign_keys should be enabled")
}

func TestMigrationRunner_ItemsTableColumns(t *testing.T) {
	db := openTestDB(t)
	runner := NewMigrationRunner(db)
	require.NoError(t, runner.Run())

	_, err := db.Exec(`INSERT INTO items (key, value) VALUES ('config', '{}')`)
	require.NoError(t, err)

	var key, value, created, updated string
	err = db.QueryRow("SELECT key, value, created_at, updated_at FROM items WHERE key = 'config'").
		Scan(&key, &value, &created, &updated)
	require.NoError(t, err)
	assert.Equal(t, "config", key)
	assert.Equal(t, "{}", value)
	assert.NotEmpty(t, created)
	assert.NotEmpty(t, updated)

	_, err = db.Exec(`INSERT INTO items (key, value) VALUES ('config', '[]')`)
	assert.Error(t, err, "key should be unique")
}
