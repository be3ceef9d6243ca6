// Copyright (c) 2025 Wisteria Research
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists research sessions and the hypothesis archive.
//
// Sessions are JSON files under ~/.wisteria/sessions/, written atomically
// so an interrupted save never corrupts an existing session. The archive
// is a SQLite database at ~/.wisteria/archive.db holding every hypothesis
// version across sessions for keyword search.
//
// # Key Types
//
//   - SessionStore: save/load/list/delete for session JSON files
//   - Session: one research session (goal, model, hypothesis versions)
//   - Archive: cross-session SQLite store with LIKE-based search
//
// # Usage
//
// Save and reload a session:
//
//	store, err := storage.NewSessionStore()
//	id, err := store.Save(sess)
//	sess, err = store.Load(id)
//
// Archive a finished session and search later:
//
//	archive, err := storage.OpenArchive(path)
//	err = archive.PutSession(sess)
//	entries, err := archive.Search("mitochondria", 20)
package storage
