package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// requiredColumns is the schema contract for the notes table. Migrate
// refuses to proceed when an existing database is missing any of them.
var requiredColumns = []string{"id", "title", "content", "created_at", "updated_at"}

type DB struct {
	*sql.DB
}

// SchemaError reports required columns absent from an existing table.
// Recreating the table would lose data, so startup fails instead.
type SchemaError struct {
	Table   string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("table %q is missing required columns: %s", e.Table, strings.Join(e.Missing, ", "))
}

func New(dbPath string) (*DB, error) {
	// Ensure directory exists
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// _foreign_keys applies to every connection the pool opens
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	// Enable WAL mode so readers proceed alongside an in-flight write.
	// Journal mode is a database-level setting, so once is enough.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	return &DB{db}, nil
}

// Migrate creates the notes table if absent and asserts the schema
// contract. It is idempotent and must run before any repository operation.
func (db *DB) Migrate() error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS notes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%d %H:%M:%f', 'now')),
		updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%d %H:%M:%f', 'now'))
	)`)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	return db.checkSchema()
}

// checkSchema compares the actual column set of the notes table against
// requiredColumns. Evolving the schema needs an explicit additive migration;
// silently serving from an incompatible table is never acceptable.
func (db *DB) checkSchema() error {
	rows, err := db.Query("PRAGMA table_info(notes)")
	if err != nil {
		return fmt.Errorf("failed to introspect notes table: %w", err)
	}
	defer rows.Close()

	existing := make(map[string]bool)
	for rows.Next() {
		var (
			cid, notNull, pk int
			name, colType    string
			dflt             sql.NullString
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return fmt.Errorf("failed to read notes table info: %w", err)
		}
		existing[name] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read notes table info: %w", err)
	}

	var missing []string
	for _, col := range requiredColumns {
		if !existing[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return &SchemaError{Table: "notes", Missing: missing}
	}

	return nil
}

func (db *DB) Close() error {
	return db.DB.Close()
}
