// Copyright (c) 2025 Wisteria Research
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists research sessions and the hypothesis archive.
package storage

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/wisteria-research/wisteria-tui/internal/model"
	"github.com/wisteria-research/wisteria-tui/internal/util"
)

// =============================================================================
// SESSION TYPE
// =============================================================================

// Session is one persisted research session: the goal, the model that ran
// it, and every hypothesis version produced.
type Session struct {
	ID           string    `json:"id"`
	ResearchGoal string    `json:"research_goal"`
	Model        string    `json:"model"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Hypotheses []*model.Hypothesis `json:"hypotheses"`
}

// SessionMeta contains metadata for listing sessions.
type SessionMeta struct {
	ID              string    `json:"id"`
	ResearchGoal    string    `json:"research_goal"`
	Model           string    `json:"model"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	HypothesisCount int       `json:"hypothesis_count"`
}

// LatestVersions filters the session down to the newest version of each
// hypothesis number, ordered by number.
func (s *Session) LatestVersions() []*model.Hypothesis {
	latest := make(map[int]*model.Hypothesis)
	for _, h := range s.Hypotheses {
		cur, ok := latest[h.Number]
		if !ok || h.Version > cur.Version {
			latest[h.Number] = h
		}
	}
	out := make([]*model.Hypothesis, 0, len(latest))
	for _, h := range latest {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// Clone returns a deep copy of the session, safe to serialize or archive
// while the original keeps changing under its owner's lock.
func (s *Session) Clone() *Session {
	out := &Session{
		ID:           s.ID,
		ResearchGoal: s.ResearchGoal,
		Model:        s.Model,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
	if s.Hypotheses != nil {
		out.Hypotheses = make([]*model.Hypothesis, len(s.Hypotheses))
		for i, h := range s.Hypotheses {
			out.Hypotheses[i] = h.Clone()
		}
	}
	return out
}

// =============================================================================
// SESSION STORE
// =============================================================================

// SessionStore handles session persistence.
type SessionStore struct {
	// BaseDir is the directory for storing sessions
	// Default: ~/.wisteria/sessions/
	BaseDir string
}

// NewSessionStore creates a store under the user's home directory.
func NewSessionStore() (*SessionStore, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewSessionStoreWithDir(filepath.Join(homeDir, ".wisteria", "sessions"))
}

// NewSessionStoreWithDir creates a store with a custom directory.
func NewSessionStoreWithDir(baseDir string) (*SessionStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}
	return &SessionStore{BaseDir: baseDir}, nil
}

// =============================================================================
// SAVE / LOAD
// =============================================================================

// Save persists a session and returns its ID.
func (s *SessionStore) Save(sess *Session) (string, error) {
	if sess.ID == "" {
		sess.ID = generateSessionID()
	}
	sess.UpdatedAt = time.Now()
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = sess.UpdatedAt
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return "", err
	}

	// Atomic write with fsync so a crash mid-save never corrupts a session
	if err := util.AtomicWriteFile(s.filePath(sess.ID), data, 0644); err != nil {
		return "", err
	}
	return sess.ID, nil
}

// Load retrieves a session by ID.
func (s *SessionStore) Load(id string) (*Session, error) {
	data, err := os.ReadFile(s.filePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// LoadLatest loads the most recently updated session, or
// ErrSessionNotFound when the store is empty.
func (s *SessionStore) LoadLatest() (*Session, error) {
	metas, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(metas) == 0 {
		return nil, ErrSessionNotFound
	}
	return s.Load(metas[0].ID)
}

// =============================================================================
// LIST / DELETE
// =============================================================================

// List returns all saved sessions, most recently updated first.
func (s *SessionStore) List() ([]SessionMeta, error) {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []SessionMeta{}, nil
		}
		return nil, err
	}

	var metas []SessionMeta
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		sess, err := s.Load(id)
		if err != nil {
			continue // Skip corrupted files
		}
		metas = append(metas, SessionMeta{
			ID:              sess.ID,
			ResearchGoal:    sess.ResearchGoal,
			Model:           sess.Model,
			CreatedAt:       sess.CreatedAt,
			UpdatedAt:       sess.UpdatedAt,
			HypothesisCount: len(sess.Hypotheses),
		})
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].UpdatedAt.After(metas[j].UpdatedAt)
	})
	return metas, nil
}

// Delete removes a session by ID.
func (s *SessionStore) Delete(id string) error {
	if err := os.Remove(s.filePath(id)); err != nil {
		if os.IsNotExist(err) {
			return ErrSessionNotFound
		}
		return err
	}
	return nil
}

// =============================================================================
// EXPORT
// =============================================================================

// ExportMarkdown renders the session as a Markdown document: the goal,
// then the latest version of each hypothesis with its hallmark analysis
// and references.
func (sess *Session) ExportMarkdown() string {
	var sb strings.Builder
	sb.WriteString("# Research Session " + sess.ID + "\n\n")
	sb.WriteString("**Goal:** " + sess.ResearchGoal + "\n\n")
	sb.WriteString("**Model:** " + sess.Model + "\n\n")
	sb.WriteString("Created: " + sess.CreatedAt.Format(time.RFC3339) + "\n\n")
	sb.WriteString("---\n\n")

	for _, h := range sess.LatestVersions() {
		sb.WriteString("## " + h.Label() + "\n\n")
		sb.WriteString(h.Description + "\n\n")
		if h.ExperimentalValidation != "" {
			sb.WriteString("**Experimental validation:** " + h.ExperimentalValidation + "\n\n")
		}
		if h.Scores != nil {
			sb.WriteString("**Scores:** " + h.Scores.Summary() + "\n\n")
		}
		writeHallmark(&sb, "Testability", h.Hallmarks.Testability)
		writeHallmark(&sb, "Specificity", h.Hallmarks.Specificity)
		writeHallmark(&sb, "Grounded knowledge", h.Hallmarks.GroundedKnowledge)
		writeHallmark(&sb, "Predictive power", h.Hallmarks.PredictivePower)
		writeHallmark(&sb, "Parsimony", h.Hallmarks.Parsimony)
		if len(h.References) > 0 {
			sb.WriteString("**References:**\n\n")
			for i, ref := range h.References {
				fmt.Fprintf(&sb, "%d. %s\n", i+1, ref.Citation)
				if ref.Annotation != "" {
					fmt.Fprintf(&sb, "   %s\n", ref.Annotation)
				}
				if ref.Abstract != "" {
					fmt.Fprintf(&sb, "   Abstract: %s\n", ref.Abstract)
				}
			}
			sb.WriteString("\n")
		}
		if h.Notes != "" {
			sb.WriteString("**Notes:** " + h.Notes + "\n\n")
		}
		sb.WriteString("---\n\n")
	}
	return sb.String()
}

func writeHallmark(sb *strings.Builder, name, text string) {
	if text == "" {
		return
	}
	sb.WriteString("**" + name + ":** " + text + "\n\n")
}

// =============================================================================
// HELPERS
// =============================================================================

func (s *SessionStore) filePath(id string) string {
	return filepath.Join(s.BaseDir, id+".json")
}

func generateSessionID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "session_" + hex.EncodeToString(bytes)
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrSessionNotFound is returned when a session doesn't exist.
// Use errors.Is(err, ErrSessionNotFound) to check for this error.
var ErrSessionNotFound = &SessionError{Message: "session not found"}

// SessionError represents a session storage error.
type SessionError struct {
	Message string
}

func (e *SessionError) Error() string {
	return e.Message
}

// Is implements errors.Is support.
func (e *SessionError) Is(target error) bool {
	t, ok := target.(*SessionError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}
