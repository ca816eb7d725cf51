// Package result holds the reporting data model: check records, the
// run-level aggregate, and the classification of raw probe outcomes.
package result

import (
	"time"
)

// Status classifies a single check.
type Status string

const (
	// StatusPass means the checked condition was satisfied.
	StatusPass Status = "PASS"
	// StatusFail means a required condition was not satisfied.
	StatusFail Status = "FAIL"
	// StatusWarn means an advisory condition was not satisfied.
	StatusWarn Status = "WARN"
)

// RunState is the terminal state of a validation run.
type RunState string

const (
	// StateCompleted means every phase was run or dependency-skipped.
	StateCompleted RunState = "Completed"
	// StateAborted means the run was cancelled before completion.
	StateAborted RunState = "Aborted"
)

// CheckRecord is the atomic unit of reporting: one classified check with
// its captured detail and optional remediation hint.
type CheckRecord struct {
	Phase       string    `json:"phase"`
	Test        string    `json:"test"`
	Status      Status    `json:"status"`
	Details     string    `json:"details"`
	Remediation string    `json:"remediation,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Summary counts records by status. Passed+Failed+Warned always equals
// Total.
type Summary struct {
	Total  int `json:"total"`
	Passed int `json:"passed"`
	Failed int `json:"failed"`
	Warned int `json:"warned"`
}

// Run is the aggregated result of one pipeline execution. It owns all
// check records for the run and is frozen once finalized.
type Run struct {
	ID         string        `json:"run_id"`
	Name       string        `json:"name"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	State      RunState      `json:"state"`
	Phases     []string      `json:"phases"`
	Records    []CheckRecord `json:"records"`
	Summary    Summary       `json:"summary"`
	Overall    Status        `json:"overall_status"`
}

// PhaseRecords returns the records belonging to one phase, preserving
// record order.
func (r *Run) PhaseRecords(phase string) []CheckRecord {
	var records []CheckRecord
	for _, rec := range r.Records {
		if rec.Phase == phase {
			records = append(records, rec)
		}
	}
	return records
}

// Summarize counts records by status.
func Summarize(records []CheckRecord) Summary {
	s := Summary{Total: len(records)}
	for _, rec := range records {
		switch rec.Status {
		case StatusPass:
			s.Passed++
		case StatusWarn:
			s.Warned++
		case StatusFail:
			s.Failed++
		}
	}
	return s
}

// Overall reduces a summary to the run-level status: FAIL if any record
// failed, else WARN if any warned, else PASS. This rule is fixed and is
// never overridden per phase.
func Overall(s Summary) Status {
	switch {
	case s.Failed > 0:
		return StatusFail
	case s.Warned > 0:
		return StatusWarn
	default:
		return StatusPass
	}
}
