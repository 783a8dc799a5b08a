package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Store defines the key/value operations recalldoc persists through.
type Store interface {
	LoadItem(ctx context.Context, key string) ([]byte, error)
	SaveItem(ctx context.Context, key string, value []byte) error
	DeleteItem(ctx context.Context, key string) error
	ListKeys(ctx context.Context, prefix string) ([]string, error)
	RecordAudit(ctx context.Context, action, key, detail string) error
	RecentAudit(ctx context.Context, limit int) ([]AuditEntry, error)
	PurgeAll(ctx context.Context) error
	GetStats(ctx context.Context) (*Stats, error)
	Close() error
}

// SQLiteStore implements Store backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB

	// Prepared statements
	getItem     *sql.Stmt
	upsertItem  *sql.Stmt
	deleteItem  *sql.Stmt
	insertAudit *sql.Stmt
}

// NewSQLiteStore creates a new SQLiteStore from an already-opened and migrated database.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}

	if err := s.prepareStatements(); err != nil {
		return nil, fmt.Errorf("prepare statements: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.getItem, err = s.db.Prepare(`SELECT value FROM items WHERE key = ?`)
	if err != nil {
		return err
	}

	s.upsertItem, err = s.db.Prepare(`
		INSERT INTO items (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`)
	if err != nil {
		return err
	}

	s.deleteItem, err = s.db.Prepare(`DELETE FROM items WHERE key = ?`)
	if err != nil {
		return err
	}

	s.insertAudit, err = s.db.Prepare(`
		INSERT INTO audit_log (action, item_key, detail, ts) VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}

	return nil
}

// parseTimestamp tries several common SQLite timestamp formats.
func parseTimestamp(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse timestamp: %s", s)
}

// escapeLike escapes LIKE wildcards so prefix matches are literal.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// LoadItem returns the stored value for key, or ErrNotFound.
func (s *SQLiteStore) LoadItem(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.getItem.QueryRowContext(ctx, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return []byte(value), nil
}

// SaveItem inserts or replaces the value stored under key.
func (s *SQLiteStore) SaveItem(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return fmt.Errorf("save item: empty key")
	}
	ts := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := s.upsertItem.ExecContext(ctx, key, string(value), ts); err != nil {
		return fmt.Errorf("save item %s: %w", key, err)
	}
	return nil
}

// DeleteItem removes key. Missing keys return ErrNotFound.
func (s *SQLiteStore) DeleteItem(ctx context.Context, key string) error {
	res, err := s.deleteItem.ExecContext(ctx, key)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}

	return nil
}

// ListKeys returns all keys starting with prefix, sorted.
func (s *SQLiteStore) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key FROM items WHERE key LIKE ? ESCAPE '\' ORDER BY key`,
		escapeLike(prefix)+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// RecordAudit appends an entry to the audit log.
func (s *SQLiteStore) RecordAudit(ctx context.Context, action, key, detail string) error {
	ts := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := s.insertAudit.ExecContext(ctx, action, key, detail, ts); err != nil {
		return fmt.Errorf("record audit: %w", err)
	}
	return nil
}

// RecentAudit returns the newest audit entries first.
func (s *SQLiteStore) RecentAudit(ctx context.Context, limit int) ([]AuditEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, action, item_key, detail, ts FROM audit_log ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query audit log: %w", err)
	}
	defer rows.Close()

	entries := []AuditEntry{}
	for rows.Next() {
		var e AuditEntry
		var tsStr string
		if err := rows.Scan(&e.ID, &e.Action, &e.Key, &e.Detail, &tsStr); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		e.Timestamp, _ = parseTimestamp(tsStr)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// PurgeAll deletes every item and audit entry.
func (s *SQLiteStore) PurgeAll(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, stmt := range []string{"DELETE FROM items", "DELETE FROM audit_log"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("purge (%s): %w", stmt, err)
		}
	}
	return tx.Commit()
}

// GetStats returns aggregate statistics about the database.
func (s *SQLiteStore) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM items").Scan(&stats.TotalItems)
	if err != nil {
		return nil, fmt.Errorf("count items: %w", err)
	}

	err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM audit_log").Scan(&stats.TotalAuditEntries)
	if err != nil {
		return nil, fmt.Errorf("count audit entries: %w", err)
	}

	if stats.TotalItems > 0 {
		var oldestStr, newestStr string
		err = s.db.QueryRowContext(ctx, "SELECT MIN(updated_at), MAX(updated_at) FROM items").Scan(&oldestStr, &newestStr)
		if err != nil {
			return nil, fmt.Errorf("item time range: %w", err)
		}
		stats.OldestUpdate, _ = parseTimestamp(oldestStr)
		stats.NewestUpdate, _ = parseTimestamp(newestStr)
	}

	var pageCount, pageSize int64
	if err := s.db.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount); err != nil {
		return nil, fmt.Errorf("page count: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize); err != nil {
		return nil, fmt.Errorf("page size: %w", err)
	}
	stats.DatabaseSizeBytes = pageCount * pageSize

	rows, err := s.db.QueryContext(ctx,
		"SELECT key, LENGTH(CAST(value AS BLOB)) AS size FROM items ORDER BY size DESC, key LIMIT 10",
	)
	if err != nil {
		return nil, fmt.Errorf("largest items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ks KeySize
		if err := rows.Scan(&ks.Key, &ks.Size); err != nil {
			return nil, err
		}
		stats.LargestItems = append(stats.LargestItems, ks)
	}

	return stats, rows.Err()
}

// Close releases all prepared statements. The underlying *sql.DB is NOT
// closed; that is the caller's responsibility.
func (s *SQLiteStore) Close() error {
	stmts := []*sql.Stmt{s.getItem, s.upsertItem, s.deleteItem, s.insertAudit}
	for _, stmt := range stmts {
		if stmt != nil {
			stmt.Close()
		}
	}
	return nil
}
