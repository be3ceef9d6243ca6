// wisteria TUI - A terminal workbench for AI-assisted research hypotheses.
//
// Copyright (c) 2025 Wisteria Research
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wisteria-research/wisteria-tui/internal/config"
	"github.com/wisteria-research/wisteria-tui/internal/llm"
	"github.com/wisteria-research/wisteria-tui/internal/papers"
	"github.com/wisteria-research/wisteria-tui/internal/status"
	"github.com/wisteria-research/wisteria-tui/internal/storage"
	"github.com/wisteria-research/wisteria-tui/internal/tasks"
	"github.com/wisteria-research/wisteria-tui/internal/ui"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	var (
		goal      = flag.String("goal", "", "research goal for a new session")
		modelName = flag.String("model", "", "model server shortname from config (default: config default_model)")
		sessionID = flag.String("session", "", "resume the session with this ID")
		resume    = flag.Bool("resume", false, "resume the most recently saved session")
		workers   = flag.Int("workers", 0, "override the number of task workers")
		version   = flag.Bool("version", false, "print version and exit")
	)
	flag.Usage = usage
	flag.Parse()

	if *version {
		fmt.Printf("wisteria %s (%s, built %s)\n", Version, GitCommit, BuildDate)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fatal("config: %v", err)
	}
	if *workers > 0 {
		cfg.Tasks.Workers = *workers
	}

	shortname := *modelName
	if shortname == "" {
		shortname = cfg.DefaultModel
	}
	server, err := cfg.FindModel(shortname)
	if err != nil {
		fatal("%v", err)
	}

	store, err := storage.NewSessionStore()
	if err != nil {
		fatal("sessions: %v", err)
	}
	session, err := resolveSession(store, *sessionID, *resume, *goal, server.Model)
	if err != nil {
		fatal("%v", err)
	}

	// The archive is best-effort: a broken database should not keep the
	// app from starting.
	var archive *storage.Archive
	if dir, dirErr := config.Dir(); dirErr == nil {
		archive, err = storage.OpenArchive(filepath.Join(dir, "archive.db"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: archive unavailable: %v\n", err)
			archive = nil
		}
	}

	sink := status.NewSinkWithTimeout(cfg.StatusTimeout())
	tracker := status.NewTracker()
	pool := tasks.NewPool()
	publisher := status.NewPublisher(pool, tracker, sink, cfg.PublishInterval())

	pool.Start(cfg.Tasks.Workers)
	publisher.Start()

	m := ui.New(ui.Options{
		Config:    cfg,
		Pool:      pool,
		Sink:      sink,
		Tracker:   tracker,
		LLM:       llm.NewClient(server),
		Papers:    papers.NewClient(cfg.Papers),
		Store:     store,
		Archive:   archive,
		Session:   session,
		ModelName: server.Model,
	})

	_, runErr := tea.NewProgram(m, tea.WithAltScreen()).Run()

	publisher.Stop()
	pool.Stop()

	// Save on the way out so nothing generated this session is lost.
	if len(session.Hypotheses) > 0 {
		if id, saveErr := store.Save(session); saveErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to save session: %v\n", saveErr)
		} else {
			fmt.Printf("Session saved as %s\n", id)
		}
	}
	if archive != nil {
		archive.Close()
	}

	if runErr != nil {
		fatal("%v", runErr)
	}
}

// resolveSession loads the requested session or starts a fresh one.
func resolveSession(store *storage.SessionStore, id string, resume bool, goal, modelName string) (*storage.Session, error) {
	switch {
	case id != "":
		session, err := store.Load(id)
		if err != nil {
			return nil, fmt.Errorf("session %s: %w", id, err)
		}
		return session, nil

	case resume:
		session, err := store.LoadLatest()
		if errors.Is(err, storage.ErrSessionNotFound) {
			return nil, errors.New("no saved sessions to resume; start one with --goal")
		}
		if err != nil {
			return nil, err
		}
		return session, nil

	default:
		if strings.TrimSpace(goal) == "" {
			return nil, errors.New("a new session needs --goal (or resume one with --resume / --session)")
		}
		return &storage.Session{
			ResearchGoal: strings.TrimSpace(goal),
			Model:        modelName,
		}, nil
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `wisteria - AI-assisted research hypothesis workbench

Usage:
  wisteria --goal "why do ..."       start a new session
  wisteria --resume                  resume the latest session
  wisteria --session <id>            resume a specific session

Options:
`)
	flag.PrintDefaults()
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
