// Package pipeline orchestrates validation phases in dependency order,
// runs their probes through the backoff poller, and feeds classified
// results to the run recorder.
package pipeline

import (
	"github.com/arnevik/readygate/internal/poll"
	"github.com/arnevik/readygate/internal/probe"
)

// Member is one check inside a phase: a probe plus its polling policy and
// classification hints.
type Member struct {
	Name        string
	Probe       probe.Probe
	Poller      *poll.Poller
	Advisory    bool
	Remediation string
}

// Phase is an ordered group of related checks representing one validation
// concern. Static configuration; never mutated at runtime.
type Phase struct {
	Name      string
	DependsOn string

	// ShortCircuit stops evaluating remaining members after the first
	// FAIL. Short-circuit phases run their members sequentially;
	// non-short-circuit phases run them through the worker pool.
	ShortCircuit bool

	Members []Member
}
