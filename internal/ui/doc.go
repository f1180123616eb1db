// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for playlist analysis:
//  1. [InputView] : Enter a playlist ID or share link
//  2. [TrackListView] : Preview the fetched tracks
//  3. [AnalyzeView] : Monitor per-track enrichment progress
//  4. [ResultView] : Browse the filtered facet records, copy them or open a song page
//  5. [FilterView] : Toggle style, tag and language selections and edit the BPM range
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Enrichment steps flow through a channel fed from the engine's step stream and are applied to the shared [state.App],
// so the TUI and the HTTP server see the same state when run together.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
