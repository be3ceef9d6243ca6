// Copyright (c) 2025 Wisteria Research
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/wisteria-research/wisteria-tui/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrArchiveClosed = errors.New("archive is closed")
	ErrDatabaseError = errors.New("database error")
)

// =============================================================================
// SCHEMA
// =============================================================================

const archiveSchema = `
CREATE TABLE IF NOT EXISTS hypotheses (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL,
	number INTEGER NOT NULL,
	version TEXT NOT NULL,
	title TEXT NOT NULL,
	description TEXT NOT NULL,
	research_goal TEXT NOT NULL,
	avg_score REAL,
	payload TEXT NOT NULL,
	archived_at INTEGER NOT NULL,
	UNIQUE(session_id, number, version)
);

CREATE INDEX IF NOT EXISTS idx_hypotheses_session ON hypotheses(session_id);
CREATE INDEX IF NOT EXISTS idx_hypotheses_title ON hypotheses(title);
`

// =============================================================================
// ARCHIVE
// =============================================================================

// Archive stores hypotheses across sessions in SQLite for keyword search.
// Sessions come and go as JSON files; the archive is the durable record.
type Archive struct {
	db *sql.DB
}

// ArchiveEntry is one archived hypothesis row, without the full payload.
type ArchiveEntry struct {
	SessionID    string
	Number       int
	Version      string
	Title        string
	ResearchGoal string
	AvgScore     float64
	ArchivedAt   time.Time
}

// DefaultArchivePath returns ~/.wisteria/archive.db.
func DefaultArchivePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".wisteria", "archive.db"), nil
}

// OpenArchive opens (creating if needed) the archive database at path.
func OpenArchive(path string) (*Archive, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(archiveSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Archive{db: db}, nil
}

// Close releases the database handle.
func (a *Archive) Close() error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}

// =============================================================================
// WRITE
// =============================================================================

// Put archives one hypothesis version under its session. Re-archiving the
// same session/number/version replaces the previous row.
func (a *Archive) Put(sessionID, researchGoal string, h *model.Hypothesis) error {
	if a.db == nil {
		return ErrArchiveClosed
	}

	payload, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("failed to encode hypothesis: %w", err)
	}

	var avg sql.NullFloat64
	if h.Scores != nil {
		avg = sql.NullFloat64{Float64: h.Scores.Average(), Valid: true}
	}

	_, err = a.db.Exec(`
		INSERT INTO hypotheses (session_id, number, version, title, description, research_goal, avg_score, payload, archived_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id, number, version) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			research_goal = excluded.research_goal,
			avg_score = excluded.avg_score,
			payload = excluded.payload,
			archived_at = excluded.archived_at
	`, sessionID, h.Number, h.Version, h.Title, h.Description, researchGoal, avg, string(payload), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return nil
}

// PutSession archives every hypothesis version in the session.
func (a *Archive) PutSession(sess *Session) error {
	for _, h := range sess.Hypotheses {
		if err := a.Put(sess.ID, sess.ResearchGoal, h); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// SEARCH
// =============================================================================

// Search finds archived hypotheses whose title, description, or research
// goal contains the query, newest first. Empty query lists everything.
func (a *Archive) Search(query string, limit int) ([]ArchiveEntry, error) {
	if a.db == nil {
		return nil, ErrArchiveClosed
	}
	if limit <= 0 {
		limit = 50
	}

	where := ""
	args := []any{}
	if q := strings.TrimSpace(query); q != "" {
		pattern := "%" + q + "%"
		where = "WHERE title LIKE ? OR description LIKE ? OR research_goal LIKE ?"
		args = append(args, pattern, pattern, pattern)
	}
	args = append(args, limit)

	rows, err := a.db.Query(`
		SELECT session_id, number, version, title, research_goal, avg_score, archived_at
		FROM hypotheses `+where+`
		ORDER BY archived_at DESC, number ASC
		LIMIT ?
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var entries []ArchiveEntry
	for rows.Next() {
		var e ArchiveEntry
		var avg sql.NullFloat64
		var archived int64
		if err := rows.Scan(&e.SessionID, &e.Number, &e.Version, &e.Title, &e.ResearchGoal, &avg, &archived); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		if avg.Valid {
			e.AvgScore = avg.Float64
		}
		e.ArchivedAt = time.Unix(archived, 0)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Get loads the full archived hypothesis for a session/number/version.
func (a *Archive) Get(sessionID string, number int, version string) (*model.Hypothesis, error) {
	if a.db == nil {
		return nil, ErrArchiveClosed
	}

	var payload string
	err := a.db.QueryRow(`
		SELECT payload FROM hypotheses
		WHERE session_id = ? AND number = ? AND version = ?
	`, sessionID, number, version).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	var h model.Hypothesis
	if err := json.Unmarshal([]byte(payload), &h); err != nil {
		return nil, fmt.Errorf("failed to decode archived hypothesis: %w", err)
	}
	return &h, nil
}

// Count returns the number of archived hypothesis rows.
func (a *Archive) Count() (int, error) {
	if a.db == nil {
		return 0, ErrArchiveClosed
	}
	var n int
	if err := a.db.QueryRow("SELECT COUNT(*) FROM hypotheses").Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return n, nil
}
