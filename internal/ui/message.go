package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/nowplaying/internal/tasks"
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
	MsgProgressUpdate MsgKind = iota
	MsgMonitorStopped
)

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// monitorStoppedMsg is the constructor for [MsgMonitorStopped]; err is nil on a clean stop.
func monitorStoppedMsg(err error) Msg {
	return Msg{kind: MsgMonitorStopped, data: err}
}
