package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one recorded save.
type Entry struct {
	Filename   string
	Bytes      int64
	RequestID  string
	RemoteAddr string
	ReceivedAt time.Time
}

// Stats summarizes journal contents for status reporting.
type Stats struct {
	Saves        int64     `json:"saves"`
	BytesWritten int64     `json:"bytes_written"`
	LastFilename string    `json:"last_filename"`
	LastSaveAt   time.Time `json:"last_save_at"`
}

// Store manages journal persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the journal database and applies the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applySchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) applySchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS saves (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    filename TEXT NOT NULL,
    bytes INTEGER NOT NULL,
    request_id TEXT,
    remote_addr TEXT,
    received_at TEXT NOT NULL
)`)
	if err != nil {
		return fmt.Errorf("apply journal schema: %w", err)
	}
	return nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record appends one save to the journal.
func (s *Store) Record(ctx context.Context, entry Entry) error {
	if s == nil {
		return nil
	}
	receivedAt := entry.ReceivedAt
	if receivedAt.IsZero() {
		receivedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO saves (filename, bytes, request_id, remote_addr, received_at)
         VALUES (?, ?, ?, ?, ?)`,
		entry.Filename,
		entry.Bytes,
		nullableString(entry.RequestID),
		nullableString(entry.RemoteAddr),
		receivedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record save: %w", err)
	}
	return nil
}

// Stats aggregates the journal for operator-facing status output.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	if s == nil {
		return Stats{}, nil
	}

	var stats Stats
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(SUM(bytes), 0) FROM saves`)
	if err := row.Scan(&stats.Saves, &stats.BytesWritten); err != nil {
		return Stats{}, fmt.Errorf("aggregate journal: %w", err)
	}

	if stats.Saves > 0 {
		var filename, receivedAt string
		row = s.db.QueryRowContext(ctx,
			`SELECT filename, received_at FROM saves ORDER BY id DESC LIMIT 1`)
		if err := row.Scan(&filename, &receivedAt); err != nil {
			return Stats{}, fmt.Errorf("read last save: %w", err)
		}
		stats.LastFilename = filename
		if parsed, err := time.Parse(time.RFC3339Nano, receivedAt); err == nil {
			stats.LastSaveAt = parsed
		}
	}
	return stats, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
