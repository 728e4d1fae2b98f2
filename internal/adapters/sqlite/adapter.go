// Package sqlite provides a SQLite-backed implementation of the playlist ledger port.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // Import the driver anonymously

	"github.com/ewilliams-labs/genrelay/internal/core/domain"
)

// DefaultRecentLimit caps history reads when the caller passes no limit.
const DefaultRecentLimit = 20

// Adapter implements ports.PlaylistLedger for SQLite.
type Adapter struct {
	db *sql.DB
}

// NewAdapter opens the database and runs the schema migration.
func NewAdapter(storagePath string) (*Adapter, error) {
	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	// One connection: SQLite serialises writers anyway, and ":memory:"
	// databases are per connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	adapter := &Adapter{db: db}
	if err := adapter.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return adapter, nil
}

// Close closes the underlying connection.
func (a *Adapter) Close() error {
	return a.db.Close()
}

// Record inserts a ledger entry. Re-recording an ID overwrites the earlier row.
func (a *Adapter) Record(ctx context.Context, e domain.LedgerEntry) error {
	if e.ID == "" {
		return fmt.Errorf("%w: ledger entry id is required", domain.ErrBadRequest)
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO playlist_ledger (
			id, playlist_id, name, query, tracks_requested, tracks_added, status, error, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			playlist_id=excluded.playlist_id,
			name=excluded.name,
			query=excluded.query,
			tracks_requested=excluded.tracks_requested,
			tracks_added=excluded.tracks_added,
			status=excluded.status,
			error=excluded.error,
			created_at=excluded.created_at;
	`
	if _, err := a.db.ExecContext(
		ctx,
		query,
		e.ID,
		e.PlaylistID,
		e.Name,
		e.Query,
		e.TracksRequested,
		e.TracksAdded,
		string(e.Status),
		e.Error,
		e.CreatedAt.UnixNano(),
	); err != nil {
		return fmt.Errorf("failed to record ledger entry %s: %w", e.ID, err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (a *Adapter) Recent(ctx context.Context, limit int) ([]domain.LedgerEntry, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	rows, err := a.db.QueryContext(ctx, `
		SELECT id, IFNULL(playlist_id, ''), name, IFNULL(query, ''),
			tracks_requested, tracks_added, status, IFNULL(error, ''), created_at
		FROM playlist_ledger
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}
	defer rows.Close()

	entries := []domain.LedgerEntry{}
	for rows.Next() {
		var e domain.LedgerEntry
		var status string
		var created int64
		if err := rows.Scan(
			&e.ID,
			&e.PlaylistID,
			&e.Name,
			&e.Query,
			&e.TracksRequested,
			&e.TracksAdded,
			&status,
			&e.Error,
			&created,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		e.Status = domain.LedgerStatus(status)
		e.CreatedAt = time.Unix(0, created).UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger: %w", err)
	}

	return entries, nil
}

func (a *Adapter) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS playlist_ledger (
		id TEXT PRIMARY KEY,
		playlist_id TEXT,
		name TEXT NOT NULL,
		tracks_requested INTEGER NOT NULL DEFAULT 0,
		tracks_added INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_playlist_ledger_created ON playlist_ledger(created_at);
	`
	if _, err := a.db.Exec(query); err != nil {
		return err
	}

	// Columns added after the first release.
	for _, col := range []string{"query TEXT", "error TEXT"} {
		if _, err := a.db.Exec("ALTER TABLE playlist_ledger ADD COLUMN " + col); err != nil {
			if !isDuplicateColumnError(err) {
				return err
			}
		}
	}

	return nil
}

func isDuplicateColumnError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "duplicate column") || strings.Contains(err.Error(), "already exists"))
}
