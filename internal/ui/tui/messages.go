package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/arnevik/readygate/internal/pipeline"
)

// EventMsg wraps a pipeline event for the Bubble Tea loop.
type EventMsg pipeline.Event

// TickMsg refreshes the spinner.
type TickMsg struct{}

// DoneMsg signals that the run has finished and the view can exit.
type DoneMsg struct{}

// tickCmd schedules the next spinner frame.
func tickCmd() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}
