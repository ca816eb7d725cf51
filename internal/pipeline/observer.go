package pipeline

import (
	"fmt"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
)

// Observer receives progress events while a run is executing. Renderers
// (console, TUI) and the verbose logger implement it; the pipeline never
// prints directly.
type Observer interface {
	Event(event Event)
}

// Event is one structured progress notification.
type Event struct {
	Type      EventType
	Phase     string
	Member    string
	Message   string
	Attempt   int
	Timestamp time.Time
}

// EventType identifies the kind of progress event.
type EventType string

const (
	// EventRunStarted marks the start of a validation run.
	EventRunStarted EventType = "run.started"
	// EventRunCompleted marks the end of a validation run.
	EventRunCompleted EventType = "run.completed"

	// EventPhaseStarted marks a phase beginning execution.
	EventPhaseStarted EventType = "phase.started"
	// EventPhaseCompleted marks a phase having run all its members.
	EventPhaseCompleted EventType = "phase.completed"
	// EventPhaseSkipped marks a phase skipped because its dependency
	// failed entirely.
	EventPhaseSkipped EventType = "phase.skipped"

	// EventCheckStarted marks one member beginning its poll.
	EventCheckStarted EventType = "check.started"
	// EventCheckFinished marks one member's poll reaching a terminal
	// status.
	EventCheckFinished EventType = "check.finished"

	// EventDiagnostic carries supplementary poller diagnostics emitted
	// between backoff tiers.
	EventDiagnostic EventType = "diagnostic"
)

// NopObserver discards all events.
type NopObserver struct{}

// Event implements Observer.
func (NopObserver) Event(Event) {}

// LogObserver writes events as structured key=value lines through logr.
// Used for --verbose runs.
type LogObserver struct {
	log logr.Logger
}

// NewLogObserver creates an observer logging to stderr.
func NewLogObserver() *LogObserver {
	log := funcr.New(func(prefix, args string) {
		fmt.Fprintln(os.Stderr, args)
	}, funcr.Options{})
	return &LogObserver{log: log}
}

// Event implements Observer.
func (o *LogObserver) Event(event Event) {
	keysAndValues := []any{"event", string(event.Type)}
	if event.Phase != "" {
		keysAndValues = append(keysAndValues, "phase", event.Phase)
	}
	if event.Member != "" {
		keysAndValues = append(keysAndValues, "check", event.Member)
	}
	if event.Attempt > 0 {
		keysAndValues = append(keysAndValues, "attempt", event.Attempt)
	}
	o.log.Info(event.Message, keysAndValues...)
}

// MultiObserver fans events out to several observers.
type MultiObserver []Observer

// Event implements Observer.
func (m MultiObserver) Event(event Event) {
	for _, o := range m {
		o.Event(event)
	}
}

// ChanObserver forwards events to a channel, dropping events when the
// receiver lags. Used to feed the live TUI.
type ChanObserver struct {
	C chan Event
}

// NewChanObserver creates a buffered channel observer.
func NewChanObserver() *ChanObserver {
	return &ChanObserver{C: make(chan Event, 128)}
}

// Event implements Observer.
func (o *ChanObserver) Event(event Event) {
	select {
	case o.C <- event:
	default:
	}
}
