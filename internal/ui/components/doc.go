// Copyright (c) 2025 Wisteria Research
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the wisteria TUI.
//
// Each component owns its dimensions and renders to a string with View();
// the root model decides when a component is dirty and needs re-rendering.
//
//   - Header: app title, research goal, model and session identity
//   - ListPane: hypothesis list with selection and score badges
//   - DetailPane: scrollable hypothesis detail with hallmark sections
//   - StatusBar: published status message, running count, key hints
package components
