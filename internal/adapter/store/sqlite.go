package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"packdeck/internal/domain"
)

// timeLayout is fixed width so started_at sorts chronologically as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLite implements the preference and run-history ports on one database file.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (or creates) a SQLite database at dbPath and runs the
// schema migration.
func NewSQLite(dbPath string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store db: %w", err)
	}
	// WAL mode for better concurrent reads.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate store db: %w", err)
	}
	return &SQLite{db: db}, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS preferences (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS runs (
			id         TEXT PRIMARY KEY,
			command    TEXT NOT NULL,
			status     TEXT NOT NULL,
			exit_code  INTEGER NOT NULL,
			cancelled  INTEGER NOT NULL DEFAULT 0,
			started_at TEXT NOT NULL,
			ended_at   TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS runs_started_at ON runs (started_at);
	`)
	return err
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// GetBool returns the stored value for key, or def when unset. An
// unreadable value also yields def, together with the error.
func (s *SQLite) GetBool(ctx context.Context, key string, def bool) (bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM preferences WHERE key = ?", key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return def, nil
	}
	if err != nil {
		return def, domain.NewSubSystemError("store", "SQLite.GetBool", domain.ErrPreferenceStore, err.Error())
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def, domain.NewSubSystemError("store", "SQLite.GetBool", domain.ErrPreferenceStore,
			fmt.Sprintf("key %q holds %q", key, raw))
	}
	return v, nil
}

// SetBool upserts key.
func (s *SQLite) SetBool(ctx context.Context, key string, value bool) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, strconv.FormatBool(value), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return domain.NewSubSystemError("store", "SQLite.SetBool", domain.ErrPreferenceStore, err.Error())
	}
	return nil
}

// RecordRun inserts rec, replacing an earlier record with the same ID.
func (s *SQLite) RecordRun(ctx context.Context, rec domain.RunRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO runs (id, command, status, exit_code, cancelled, started_at, ended_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Command, string(rec.Status), rec.ExitCode, boolToInt(rec.Cancelled),
		rec.StartedAt.UTC().Format(timeLayout), rec.EndedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return domain.NewSubSystemError("store", "SQLite.RecordRun", domain.ErrHistoryStore, err.Error())
	}
	return nil
}

// RecentRuns returns up to limit records, newest first.
func (s *SQLite) RecentRuns(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, command, status, exit_code, cancelled, started_at, ended_at
		FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, domain.NewSubSystemError("store", "SQLite.RecentRuns", domain.ErrHistoryStore, err.Error())
	}
	defer rows.Close()

	var out []domain.RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, domain.NewSubSystemError("store", "SQLite.RecentRuns", domain.ErrHistoryStore, err.Error())
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanRun(rows *sql.Rows) (domain.RunRecord, error) {
	var (
		rec                domain.RunRecord
		status             string
		cancelled          int
		startedAt, endedAt string
	)
	if err := rows.Scan(&rec.ID, &rec.Command, &status, &rec.ExitCode, &cancelled, &startedAt, &endedAt); err != nil {
		return rec, err
	}
	rec.Status = domain.RunStatus(status)
	rec.Cancelled = cancelled != 0
	var err error
	if rec.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
		return rec, fmt.Errorf("parse started_at: %w", err)
	}
	if rec.EndedAt, err = time.Parse(time.RFC3339Nano, endedAt); err != nil {
		return rec, fmt.Errorf("parse ended_at: %w", err)
	}
	return rec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
