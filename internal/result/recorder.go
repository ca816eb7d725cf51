package result

import (
	"time"

	"github.com/google/uuid"
)

// Recorder owns the mutable record list of a run in flight. All appends
// funnel through a single goroutine, so concurrently completing probes
// never touch shared state directly.
type Recorder struct {
	records chan CheckRecord
	done    chan struct{}
	run     *Run
}

// NewRecorder starts a recorder for a new run.
func NewRecorder(name string) *Recorder {
	r := &Recorder{
		records: make(chan CheckRecord, 64),
		done:    make(chan struct{}),
		run: &Run{
			ID:        uuid.NewString(),
			Name:      name,
			StartedAt: time.Now().UTC(),
		},
	}

	go func() {
		defer close(r.done)
		for rec := range r.records {
			if rec.Timestamp.IsZero() {
				rec.Timestamp = time.Now().UTC()
			}
			r.run.Records = append(r.run.Records, rec)
		}
	}()

	return r
}

// Append queues a record for the run. Must not be called after Finalize.
func (r *Recorder) Append(rec CheckRecord) {
	r.records <- rec
}

// AddPhase registers a declared phase name on the run, in declaration
// order. Called by the pipeline before any of the phase's records arrive.
func (r *Recorder) AddPhase(name string) {
	r.run.Phases = append(r.run.Phases, name)
}

// Finalize drains pending appends, computes the summary and overall
// status, and returns the frozen run. The record list is immutable from
// here on; every report renders from this one snapshot.
func (r *Recorder) Finalize(state RunState) *Run {
	close(r.records)
	<-r.done

	r.run.FinishedAt = time.Now().UTC()
	r.run.State = state
	r.run.Summary = Summarize(r.run.Records)
	r.run.Overall = Overall(r.run.Summary)
	return r.run
}
