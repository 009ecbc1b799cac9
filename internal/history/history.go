// Package history journals every bookmark outcome to an embedded SQLite
// database so past additions, navigations and prunes can be reviewed.
//
// The database runs in WAL mode with a busy timeout, which lets a `watch`
// or `serve` process read while another command writes.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/pencils57/scenenav/internal/registry"
)

// timeLayout is fixed width so timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Event is one journaled outcome.
type Event struct {
	ID      string
	At      time.Time
	Command string
	Name    string
	Path    string
	Outcome registry.Outcome
	Message string
}

// Query filters Recent. Zero values mean no filter.
type Query struct {
	Since   time.Time
	Outcome registry.Outcome
	Name    string
	Limit   int
}

// DB is the history journal.
type DB struct {
	conn *sql.DB
	path string
	now  func() time.Time
}

// Open opens or creates the journal at path and ensures its schema.
// The caller must Close it.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping history database: %w", err)
	}

	db := &DB{conn: conn, path: path, now: time.Now}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := conn.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	if err := db.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Path returns the database file location.
func (db *DB) Path() string {
	return db.path
}

// Close checkpoints the WAL and closes the connection.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	if _, err := db.conn.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to checkpoint history WAL: %v\n", err)
	}
	if err := db.conn.Close(); err != nil {
		return fmt.Errorf("failed to close history database: %w", err)
	}
	db.conn = nil
	return nil
}

func (db *DB) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		at TEXT NOT NULL,
		command TEXT NOT NULL,
		name TEXT NOT NULL,
		path TEXT,
		outcome TEXT NOT NULL,
		message TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_events_at ON events(at);
	CREATE INDEX IF NOT EXISTS idx_events_outcome ON events(outcome);
	CREATE INDEX IF NOT EXISTS idx_events_name ON events(name);
	`
	if _, err := db.conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize history schema: %w", err)
	}
	return nil
}

// Record journals the diagnostics produced by one command in a single
// transaction, all stamped with the same time.
func (db *DB) Record(ctx context.Context, command string, diags []registry.Diagnostic) error {
	if len(diags) == 0 {
		return nil
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	at := db.now().UTC().Format(timeLayout)
	query := `
	INSERT INTO events (id, at, command, name, path, outcome, message)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	for _, d := range diags {
		if _, err := tx.ExecContext(ctx, query,
			uuid.NewString(),
			at,
			command,
			d.Name,
			d.Path,
			string(d.Outcome),
			d.Message,
		); err != nil {
			return fmt.Errorf("failed to record %s: %w", d.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit history: %w", err)
	}
	return nil
}

// Recent returns matching events, newest first.
func (db *DB) Recent(ctx context.Context, q Query) ([]Event, error) {
	var (
		where []string
		args  []any
	)
	if !q.Since.IsZero() {
		where = append(where, "at >= ?")
		args = append(args, q.Since.UTC().Format(timeLayout))
	}
	if q.Outcome != "" {
		where = append(where, "outcome = ?")
		args = append(args, string(q.Outcome))
	}
	if q.Name != "" {
		where = append(where, "name = ?")
		args = append(args, q.Name)
	}

	query := `SELECT id, at, command, name, COALESCE(path, ''), outcome, COALESCE(message, '') FROM events`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY at DESC, rowid DESC"
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			e       Event
			at      string
			outcome string
		)
		if err := rows.Scan(&e.ID, &at, &e.Command, &e.Name, &e.Path, &outcome, &e.Message); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		e.At, err = time.Parse(timeLayout, at)
		if err != nil {
			return nil, fmt.Errorf("invalid timestamp %q: %w", at, err)
		}
		e.Outcome = registry.Outcome(outcome)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}
	return events, nil
}

// Count returns the number of events per outcome.
func (db *DB) Count(ctx context.Context) (map[registry.Outcome]int, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT outcome, COUNT(*) FROM events GROUP BY outcome`)
	if err != nil {
		return nil, fmt.Errorf("failed to count history: %w", err)
	}
	defer rows.Close()

	counts := make(map[registry.Outcome]int)
	for rows.Next() {
		var (
			outcome string
			n       int
		)
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[registry.Outcome(outcome)] = n
	}
	return counts, rows.Err()
}
