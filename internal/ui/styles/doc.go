// Copyright (c) 2025 Wisteria Research
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the wisteria TUI.
//
// Colors are Lip Gloss AdaptiveColor pairs so the interface reads well on
// both light and dark terminals. Theme bundles the composed styles that
// the panes and status bar share; components take a *Theme rather than
// reaching for colors directly.
package styles
