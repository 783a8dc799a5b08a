package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/runnerr0/recalldoc/internal/storage"
)

// setDB allows tests to inject a migrated database connection.
func (c *PurgeCommand) setDB(db *sql.DB) {
	c.db = db
}

// Execute implements the go-flags Commander interface for PurgeCommand.
func (c *PurgeCommand) Execute(args []string) error {
	if !c.All {
		return fmt.Errorf("purge requires --all flag for safety")
	}

	if !c.Force {
		fmt.Println("⚠ WARNING: This will permanently delete ALL recalldoc data.")
		fmt.Println("  - All footprint histories")
		fmt.Println("  - Search settings (romaji, startup keys)")
		fmt.Println("  - The audit log")
		fmt.Println()
		fmt.Println("This action cannot be undone.")
		fmt.Println()
		fmt.Print(`Type "PURGE" to confirm: `)

		scanner := bufio.NewScanner(os.Stdin)
		if !scanner.Scan() {
			return fmt.Errorf("aborted: no input received")
		}
		input := strings.TrimSpace(scanner.Text())
		if input != "PURGE" {
			return fmt.Errorf("aborted: confirmation text did not match")
		}
	}

	var store *storage.SQLiteStore
	if c.db != nil {
		s, err := storage.NewSQLiteStore(c.db)
		if err != nil {
			return fmt.Errorf("init store: %w", err)
		}
		defer s.Close()
		store = s
	} else {
		e, err := openEnv(c.globals)
		if err != nil {
			return err
		}
		defer e.Close()
		store = e.store
	}

	if err := store.PurgeAll(context.Background()); err != nil {
		return fmt.Errorf("purge failed: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		return printJSON(map[string]interface{}{
			"purged":  true,
			"message": "all data deleted",
		})
	}

	fmt.Println("Purged all data. recalldoc is empty.")
	return nil
}
