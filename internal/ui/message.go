package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/sfx/internal/models"
	"github.com/desertthunder/sfx/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgPlaylistFetched MsgKind = iota
	MsgStep
	MsgAnalysisComplete
	MsgStatus
)

type playlistFetched struct {
	playlist *models.Playlist
	err      error
}

// playlistFetchedMsg is the constructor for [MsgPlaylistFetched]
func playlistFetchedMsg(playlist *models.Playlist, err error) Msg {
	return Msg{kind: MsgPlaylistFetched, data: playlistFetched{playlist, err}}
}

// stepMsg is the constructor for [MsgStep]
func stepMsg(step tasks.Step) Msg {
	return Msg{kind: MsgStep, data: step}
}

// analysisCompleteMsg is the constructor for [MsgAnalysisComplete]
func analysisCompleteMsg() Msg {
	return Msg{kind: MsgAnalysisComplete}
}

type status struct {
	text string
	err  error
}

// statusMsg is the constructor for [MsgStatus]
func statusMsg(text string, err error) Msg {
	return Msg{kind: MsgStatus, data: status{text, err}}
}
