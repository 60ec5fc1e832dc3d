// Package storage keeps the history of cleared levels in SQLite.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// DefaultPath is where the history lives unless --db says otherwise.
const DefaultPath = "~/.patternia/history.db"

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// ClearEntry is one finished level.
type ClearEntry struct {
	ID        string
	LevelID   int
	Deaths    int
	Steps     int
	Ticks     int
	CreatedAt time.Time
}

// LevelStats aggregates the clears of one level.
type LevelStats struct {
	LevelID     int
	Clears      int
	BestDeaths  int
	BestSteps   int
	LastCleared time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return store, nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS clears (
			id TEXT PRIMARY KEY,
			level_id INTEGER NOT NULL,
			deaths INTEGER NOT NULL DEFAULT 0,
			steps INTEGER NOT NULL DEFAULT 0,
			ticks INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_clears_level ON clears(level_id);
		CREATE INDEX IF NOT EXISTS idx_clears_best ON clears(level_id, deaths, steps, ticks);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordClear stores a finished level and returns its id.
func (s *Store) RecordClear(levelID, deaths, steps, ticks int) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(
		"INSERT INTO clears (id, level_id, deaths, steps, ticks) VALUES (?, ?, ?, ?, ?)",
		id, levelID, deaths, steps, ticks,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot record clear: %w", err)
	}
	return id, nil
}

// BestClears returns the best clears of a level: fewest deaths, then
// fewest steps, then fewest ticks.
func (s *Store) BestClears(levelID, limit int) ([]ClearEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, level_id, deaths, steps, ticks, created_at
		 FROM clears
		 WHERE level_id = ?
		 ORDER BY deaths ASC, steps ASC, ticks ASC, created_at ASC
		 LIMIT ?`,
		levelID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query clears: %w", err)
	}
	defer rows.Close()

	var entries []ClearEntry
	for rows.Next() {
		var e ClearEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.LevelID, &e.Deaths, &e.Steps, &e.Ticks, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// LevelStats returns aggregated statistics for one level. A level never
// cleared has zero Clears.
func (s *Store) LevelStats(levelID int) (*LevelStats, error) {
	stats := &LevelStats{LevelID: levelID}

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MIN(deaths), 0), COALESCE(MIN(steps), 0)
		 FROM clears WHERE level_id = ?`,
		levelID,
	).Scan(&stats.Clears, &stats.BestDeaths, &stats.BestSteps)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get level stats: %w", err)
	}

	var last any
	err = s.db.QueryRow(
		`SELECT created_at FROM clears WHERE level_id = ? ORDER BY created_at DESC LIMIT 1`,
		levelID,
	).Scan(&last)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last clear: %w", err)
	}
	if err == nil {
		stats.LastCleared = parseTime(last)
	}
	return stats, nil
}

// AllLevelStats returns statistics for every level cleared at least once.
func (s *Store) AllLevelStats() (map[int]*LevelStats, error) {
	rows, err := s.db.Query(
		`SELECT level_id, COUNT(*), MIN(deaths), MIN(steps), MAX(created_at)
		 FROM clears
		 GROUP BY level_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all level stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[int]*LevelStats)
	for rows.Next() {
		var ls LevelStats
		var last any
		if err := rows.Scan(&ls.LevelID, &ls.Clears, &ls.BestDeaths, &ls.BestSteps, &last); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		ls.LastCleared = parseTime(last)
		stats[ls.LevelID] = &ls
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}

// ClearedLevels returns the ids of levels cleared at least once, ascending.
func (s *Store) ClearedLevels() ([]int, error) {
	rows, err := s.db.Query(`SELECT DISTINCT level_id FROM clears ORDER BY level_id`)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query cleared levels: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return ids, nil
}

// ForgetLevel deletes the history of one level.
func (s *Store) ForgetLevel(levelID int) error {
	if _, err := s.db.Exec("DELETE FROM clears WHERE level_id = ?", levelID); err != nil {
		return fmt.Errorf("storage: cannot clear history: %w", err)
	}
	return nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
