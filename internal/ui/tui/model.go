// Package tui provides a Bubble Tea-based live view of a validation run.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/arnevik/readygate/internal/pipeline"
)

// checkState tracks one check's progress for display.
type checkState int

const (
	checkPending checkState = iota
	checkRunning
	checkDone
	checkFailed
	checkSkipped
)

// checkView is one check row.
type checkView struct {
	Name    string
	State   checkState
	Message string
	Attempt int
}

// phaseView is one phase section.
type phaseView struct {
	Name    string
	Active  bool
	Skipped bool
	Checks  []checkView
}

// Model is the Bubble Tea model for a running validation.
type Model struct {
	Target    string
	Phases    []phaseView
	StartTime time.Time

	SpinnerFrame int
	Done         bool
	Width        int
	Height       int
}

// NewModel creates a model pre-populated with the declared phases so the
// view shows pending work before any event arrives.
func NewModel(target string, phases []pipeline.Phase) Model {
	m := Model{
		Target:    target,
		StartTime: time.Now(),
	}
	for _, phase := range phases {
		pv := phaseView{Name: phase.Name}
		for _, member := range phase.Members {
			pv.Checks = append(pv.Checks, checkView{Name: member.Name})
		}
		m.Phases = append(m.Phases, pv)
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case TickMsg:
		m.SpinnerFrame++
		if m.Done {
			return m, tea.Quit
		}
		return m, tickCmd()

	case EventMsg:
		m.apply(pipeline.Event(msg))

	case DoneMsg:
		m.Done = true
		return m, tea.Quit
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	return renderView(m)
}

// apply folds one pipeline event into the display state.
func (m *Model) apply(event pipeline.Event) {
	switch event.Type {
	case pipeline.EventPhaseStarted:
		if pv := m.phase(event.Phase); pv != nil {
			pv.Active = true
		}

	case pipeline.EventPhaseCompleted:
		if pv := m.phase(event.Phase); pv != nil {
			pv.Active = false
		}

	case pipeline.EventPhaseSkipped:
		if pv := m.phase(event.Phase); pv != nil {
			pv.Skipped = true
			for i := range pv.Checks {
				pv.Checks[i].State = checkSkipped
				pv.Checks[i].Message = event.Message
			}
		}

	case pipeline.EventCheckStarted:
		if cv := m.check(event.Phase, event.Member); cv != nil {
			cv.State = checkRunning
			cv.Message = event.Message
		}

	case pipeline.EventCheckFinished:
		if cv := m.check(event.Phase, event.Member); cv != nil {
			cv.Attempt = event.Attempt
			cv.Message = event.Message
			if event.Message == "Succeeded" {
				cv.State = checkDone
			} else {
				cv.State = checkFailed
			}
		}

	case pipeline.EventRunCompleted:
		m.Done = true
	}
}

func (m *Model) phase(name string) *phaseView {
	for i := range m.Phases {
		if m.Phases[i].Name == name {
			return &m.Phases[i]
		}
	}
	return nil
}

func (m *Model) check(phase, name string) *checkView {
	pv := m.phase(phase)
	if pv == nil {
		return nil
	}
	for i := range pv.Checks {
		if pv.Checks[i].Name == name {
			return &pv.Checks[i]
		}
	}
	return nil
}
