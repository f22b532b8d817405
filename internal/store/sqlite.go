package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/searchsync/searchsync/internal/model"
)

// schema creates the three tables the store needs. Preferences are a single
// JSON row; the sanitizer owns their internal shape, so the store does not
// model individual options as columns.
const schema = `
CREATE TABLE IF NOT EXISTS engines (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	url         TEXT NOT NULL,
	icon        TEXT NOT NULL DEFAULT '',
	color       TEXT NOT NULL DEFAULT '',
	enabled     INTEGER NOT NULL DEFAULT 1,
	is_default  INTEGER NOT NULL DEFAULT 0,
	sort_order  INTEGER NOT NULL DEFAULT 0,
	created_at  INTEGER NOT NULL,
	modified_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS preferences (
	id      INTEGER PRIMARY KEY CHECK (id = 1),
	payload TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS search_history (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	query         TEXT NOT NULL,
	engine        TEXT NOT NULL,
	results_count INTEGER NOT NULL DEFAULT 0,
	created_at    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_history_created_at ON search_history (created_at DESC);
`

// SQLite is a Store backed by a local SQLite database.
type SQLite struct {
	db *sql.DB
}

var _ Store = (*SQLite)(nil)

// OpenSQLite opens (creating if necessary) the database at path and ensures
// the schema exists.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// The store is used from one goroutine at a time; a single connection
	// keeps SQLite's locking out of the picture.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("configure database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// GetAllEngines returns every engine ordered by sort order, then name.
func (s *SQLite) GetAllEngines(ctx context.Context) ([]model.EngineRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, url, icon, color, enabled, is_default, sort_order, created_at, modified_at
		FROM engines
		ORDER BY sort_order, name`)
	if err != nil {
		return nil, fmt.Errorf("query engines: %w", err)
	}
	defer rows.Close()

	var engines []model.EngineRecord
	for rows.Next() {
		var e model.EngineRecord
		var enabled, isDefault int
		var createdAt, modifiedAt int64
		if err := rows.Scan(&e.ID, &e.Name, &e.URL, &e.Icon, &e.Color,
			&enabled, &isDefault, &e.SortOrder, &createdAt, &modifiedAt); err != nil {
			return nil, fmt.Errorf("scan engine: %w", err)
		}
		e.Enabled = enabled != 0
		e.IsDefault = isDefault != 0
		e.CreatedAt = time.Unix(createdAt, 0).UTC()
		e.ModifiedAt = time.Unix(modifiedAt, 0).UTC()
		engines = append(engines, e)
	}
	return engines, rows.Err()
}

// AddEngine stores a new engine record.
func (s *SQLite) AddEngine(ctx context.Context, e model.EngineRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO engines (id, name, url, icon, color, enabled, is_default, sort_order, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Name, e.URL, e.Icon, e.Color,
		boolToInt(e.Enabled), boolToInt(e.IsDefault), e.SortOrder,
		e.CreatedAt.Unix(), e.ModifiedAt.Unix())
	if err != nil {
		return fmt.Errorf("insert engine %q: %w", e.Name, err)
	}
	return nil
}

// UpdateEngine replaces the stored record with the same identifier.
func (s *SQLite) UpdateEngine(ctx context.Context, e model.EngineRecord) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE engines
		SET name = ?, url = ?, icon = ?, color = ?, enabled = ?, is_default = ?, sort_order = ?, modified_at = ?
		WHERE id = ?`,
		e.Name, e.URL, e.Icon, e.Color,
		boolToInt(e.Enabled), boolToInt(e.IsDefault), e.SortOrder,
		e.ModifiedAt.Unix(), e.ID)
	if err != nil {
		return fmt.Errorf("update engine %q: %w", e.Name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("update engine %q: no such engine %q", e.Name, e.ID)
	}
	return nil
}

// DeleteEngine removes the engine with the given identifier.
func (s *SQLite) DeleteEngine(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM engines WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete engine %q: %w", id, err)
	}
	return nil
}

// GetPreferences returns the stored preferences, or nil when none exist.
func (s *SQLite) GetPreferences(ctx context.Context) (*model.PreferencesRecord, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM preferences WHERE id = 1`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query preferences: %w", err)
	}

	var prefs model.PreferencesRecord
	if err := json.Unmarshal([]byte(payload), &prefs); err != nil {
		return nil, fmt.Errorf("decode preferences: %w", err)
	}
	return &prefs, nil
}

// UpdatePreferences stores the preferences record.
func (s *SQLite) UpdatePreferences(ctx context.Context, prefs model.PreferencesRecord) error {
	payload, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO preferences (id, payload) VALUES (1, ?)
		ON CONFLICT (id) DO UPDATE SET payload = excluded.payload`,
		string(payload))
	if err != nil {
		return fmt.Errorf("store preferences: %w", err)
	}
	return nil
}

// GetSearchHistory returns history entries, newest first.
func (s *SQLite) GetSearchHistory(ctx context.Context, limit int) ([]model.HistoryEntry, error) {
	query := `
		SELECT query, engine, results_count, created_at
		FROM search_history
		ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []model.HistoryEntry
	for rows.Next() {
		var h model.HistoryEntry
		var createdAt int64
		if err := rows.Scan(&h.Query, &h.Engine, &h.ResultsCount, &createdAt); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		h.Timestamp = time.Unix(createdAt, 0).UTC()
		entries = append(entries, h)
	}
	return entries, rows.Err()
}

// AddSearchHistory appends a history entry.
func (s *SQLite) AddSearchHistory(ctx context.Context, entry model.HistoryEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO search_history (query, engine, results_count, created_at)
		VALUES (?, ?, ?, ?)`,
		entry.Query, entry.Engine, entry.ResultsCount, entry.Timestamp.Unix())
	if err != nil {
		return fmt.Errorf("insert history entry: %w", err)
	}
	return nil
}

// ClearSearchHistory removes all history entries.
func (s *SQLite) ClearSearchHistory(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM search_history`); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

// GetStats returns summary counts over the store.
func (s *SQLite) GetStats(ctx context.Context) (Stats, error) {
	var stats Stats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM engines),
			(SELECT COUNT(*) FROM engines WHERE enabled = 1),
			(SELECT COUNT(*) FROM search_history),
			(SELECT COUNT(*) FROM preferences)`).
		Scan(&stats.TotalEngines, &stats.EnabledEngines, &stats.HistoryEntries, &stats.HasPreferences)
	if err != nil {
		return Stats{}, fmt.Errorf("query stats: %w", err)
	}
	return stats, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
