// Package history persists one row per diff run in a local SQLite
// database so past runs can be listed and summarized.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jasontally/semdiff/internal/pipeline"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    ts          TEXT NOT NULL,
    old_file    TEXT NOT NULL,
    new_file    TEXT NOT NULL,
    language    TEXT NOT NULL,
    added       INTEGER NOT NULL,
    removed     INTEGER NOT NULL,
    modified    INTEGER NOT NULL,
    moved       INTEGER NOT NULL,
    sliders     INTEGER NOT NULL,
    fast_mode   INTEGER NOT NULL,
    limit_reason TEXT NOT NULL DEFAULT '',
    duration_ms INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(ts);
`

// Run is one recorded pipeline invocation.
type Run struct {
	ID         int
	Ts         string
	OldFile    string
	NewFile    string
	Language   string
	Stats      pipeline.Stats
	FastMode   bool
	Reason     string
	DurationMS int64
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing history schema: %w", err)
	}
	return db, nil
}

// Record inserts one run row.
func Record(db *sql.DB, run Run) error {
	if run.Ts == "" {
		run.Ts = time.Now().UTC().Format(time.RFC3339)
	}
	_, err := db.Exec(`
        INSERT INTO runs (ts, old_file, new_file, language,
            added, removed, modified, moved, sliders,
            fast_mode, limit_reason, duration_ms)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.Ts, run.OldFile, run.NewFile, run.Language,
		run.Stats.Added, run.Stats.Removed, run.Stats.Modified,
		run.Stats.Moved, run.Stats.SliderCorrections,
		boolInt(run.FastMode), run.Reason, run.DurationMS,
	)
	return err
}

// Recent returns the most recent runs, newest first.
func Recent(db *sql.DB, limit int) ([]Run, error) {
	rows, err := db.Query(`
        SELECT id, ts, old_file, new_file, language,
            added, removed, modified, moved, sliders,
            fast_mode, limit_reason, duration_ms
        FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var fast int
		err := rows.Scan(&r.ID, &r.Ts, &r.OldFile, &r.NewFile, &r.Language,
			&r.Stats.Added, &r.Stats.Removed, &r.Stats.Modified,
			&r.Stats.Moved, &r.Stats.SliderCorrections,
			&fast, &r.Reason, &r.DurationMS)
		if err != nil {
			return nil, err
		}
		r.FastMode = fast != 0
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Summary aggregates the whole history table.
type Summary struct {
	TotalRuns    int
	TotalChanges int
	FastRuns     int
	TopLanguages []LanguageCount
}

// LanguageCount pairs a language tag with its run count.
type LanguageCount struct {
	Language string
	Count    int
}

// Summarize computes aggregate statistics over all recorded runs.
func Summarize(db *sql.DB) (Summary, error) {
	var s Summary
	err := db.QueryRow(`
        SELECT COUNT(*),
            COALESCE(SUM(added + removed + modified + moved), 0),
            COALESCE(SUM(fast_mode), 0)
        FROM runs`).Scan(&s.TotalRuns, &s.TotalChanges, &s.FastRuns)
	if err != nil {
		return s, err
	}

	rows, err := db.Query(`
        SELECT language, COUNT(*) AS cnt FROM runs
        GROUP BY language ORDER BY cnt DESC LIMIT 5`)
	if err != nil {
		return s, err
	}
	defer rows.Close()
	for rows.Next() {
		var lc LanguageCount
		if err := rows.Scan(&lc.Language, &lc.Count); err != nil {
			return s, err
		}
		s.TopLanguages = append(s.TopLanguages, lc)
	}
	return s, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
