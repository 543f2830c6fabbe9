package ledger

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore keeps ledger entries in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens the database at path and creates the schema.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger database: %w", err)
	}
	// a single connection keeps ":memory:" databases shared
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping ledger database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initTables(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (store *SQLiteStore) initTables() error {
	_, err := store.db.Exec(`
        CREATE TABLE IF NOT EXISTS time_entries (
            id TEXT PRIMARY KEY,
            work_item_id INTEGER NOT NULL,
            start_time INTEGER NOT NULL,
            end_time INTEGER NOT NULL,
            duration INTEGER NOT NULL
        )
    `)
	if err != nil {
		return fmt.Errorf("create time_entries table: %w", err)
	}
	_, err = store.db.Exec(`CREATE INDEX IF NOT EXISTS idx_time_entries_start ON time_entries(start_time)`)
	if err != nil {
		return fmt.Errorf("create time_entries index: %w", err)
	}
	return nil
}

// SaveEntry inserts entry. Entries are immutable, so a repeated id is ignored.
func (store *SQLiteStore) SaveEntry(entry TimeEntry) error {
	_, err := store.db.Exec(`
        INSERT OR IGNORE INTO time_entries (id, work_item_id, start_time, end_time, duration)
        VALUES (?, ?, ?, ?, ?)
    `, entry.ID, entry.WorkItemID, entry.StartTime, entry.EndTime, entry.Duration)
	if err != nil {
		return fmt.Errorf("insert time entry: %w", err)
	}
	return nil
}

// LoadEntries returns every entry ordered by start time.
func (store *SQLiteStore) LoadEntries() ([]TimeEntry, error) {
	rows, err := store.db.Query(`
        SELECT id, work_item_id, start_time, end_time, duration
        FROM time_entries
        ORDER BY start_time ASC, rowid ASC
    `)
	if err != nil {
		return nil, fmt.Errorf("query time entries: %w", err)
	}
	defer rows.Close()

	var entries []TimeEntry
	for rows.Next() {
		var entry TimeEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.WorkItemID,
			&entry.StartTime,
			&entry.EndTime,
			&entry.Duration,
		); err != nil {
			return nil, fmt.Errorf("scan time entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate time entries: %w", err)
	}
	return entries, nil
}

// Close releases the database.
func (store *SQLiteStore) Close() error {
	return store.db.Close()
}
