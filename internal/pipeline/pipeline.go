package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/arnevik/readygate/internal/poll"
	"github.com/arnevik/readygate/internal/result"
)

// DefaultConcurrency bounds how many independent probes of one phase run
// at once. Kept small so the validator does not hammer the target's API
// server.
const DefaultConcurrency = 5

// MaxConcurrency is the hard upper bound for the worker pool.
const MaxConcurrency = 10

// Pipeline executes phases sequentially, members concurrently where the
// phase allows it, and owns the run lifecycle from Pending to Completed
// or Aborted.
type Pipeline struct {
	name        string
	phases      []Phase
	concurrency int
	observer    Observer
	metrics     MetricsSink
}

// MetricsSink receives per-check measurements as polls finish. Optional.
type MetricsSink interface {
	ObserveCheck(phase, check string, status result.Status, attempts int, elapsed time.Duration)
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithConcurrency sets the per-phase worker pool size, clamped to
// [1, MaxConcurrency].
func WithConcurrency(n int) Option {
	return func(p *Pipeline) {
		if n < 1 {
			return
		}
		if n > MaxConcurrency {
			n = MaxConcurrency
		}
		p.concurrency = n
	}
}

// WithObserver installs a progress observer.
func WithObserver(o Observer) Option {
	return func(p *Pipeline) {
		if o != nil {
			p.observer = o
		}
	}
}

// WithMetrics installs a metrics sink.
func WithMetrics(m MetricsSink) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// New creates a pipeline over the declared phases.
func New(name string, phases []Phase, opts ...Option) *Pipeline {
	p := &Pipeline{
		name:        name,
		phases:      phases,
		concurrency: DefaultConcurrency,
		observer:    NopObserver{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes all phases and returns the finalized run. It never returns
// an error: probe failures become check records, and cancellation
// finalizes the run as Aborted with whatever records exist. Retry happens
// strictly at the poller level; whole phases are never re-run.
func (p *Pipeline) Run(ctx context.Context) *result.Run {
	recorder := result.NewRecorder(p.name)
	p.observer.Event(Event{Type: EventRunStarted, Message: p.name, Timestamp: time.Now()})

	// Phase-level FAIL (every member failed) drives dependency skips.
	failedEntirely := make(map[string]bool)
	aborted := false

	for _, phase := range p.phases {
		if ctx.Err() != nil {
			aborted = true
			break
		}

		recorder.AddPhase(phase.Name)

		if phase.DependsOn != "" && failedEntirely[phase.DependsOn] {
			p.skipPhase(recorder, phase)
			continue
		}

		phaseAborted := p.runPhase(ctx, recorder, phase, failedEntirely)
		if phaseAborted {
			aborted = true
			break
		}
	}

	state := result.StateCompleted
	if aborted {
		state = result.StateAborted
	}

	run := recorder.Finalize(state)
	p.observer.Event(Event{
		Type:      EventRunCompleted,
		Message:   string(run.Overall),
		Timestamp: time.Now(),
	})
	return run
}

// skipPhase records every member of a dependent phase as FAIL with an
// explicit skip marker instead of silently omitting it.
func (p *Pipeline) skipPhase(recorder *result.Recorder, phase Phase) {
	p.observer.Event(Event{
		Type:      EventPhaseSkipped,
		Phase:     phase.Name,
		Message:   fmt.Sprintf("dependency %s failed", phase.DependsOn),
		Timestamp: time.Now(),
	})
	for _, member := range phase.Members {
		recorder.Append(result.Skipped(result.Check{
			Phase:       phase.Name,
			Test:        member.Name,
			Advisory:    member.Advisory,
			Remediation: member.Remediation,
		}, phase.DependsOn))
	}
}

// runPhase executes one phase's members and reports whether the run was
// aborted mid-phase. Records are appended in declaration order regardless
// of completion order so reports stay deterministic.
func (p *Pipeline) runPhase(ctx context.Context, recorder *result.Recorder, phase Phase, failedEntirely map[string]bool) bool {
	start := time.Now()
	p.observer.Event(Event{Type: EventPhaseStarted, Phase: phase.Name, Timestamp: start})

	var results []memberResult
	if phase.ShortCircuit {
		results = p.runSequential(ctx, phase)
	} else {
		results = p.runPooled(ctx, phase)
	}

	failures := 0
	evaluated := 0
	aborted := false
	for _, mr := range results {
		if mr.res.Final == poll.Aborted {
			// Cancelled mid-poll: the condition was never evaluated to a
			// terminal answer, so no record is fabricated for it.
			aborted = true
			continue
		}
		evaluated++

		rec := result.Classify(result.Check{
			Phase:       phase.Name,
			Test:        mr.member.Name,
			Advisory:    mr.member.Advisory,
			Remediation: mr.member.Remediation,
		}, mr.res)
		recorder.Append(rec)

		if rec.Status == result.StatusFail {
			failures++
		}
		if p.metrics != nil {
			p.metrics.ObserveCheck(phase.Name, mr.member.Name, rec.Status, len(mr.res.Attempts), mr.res.Elapsed)
		}
	}

	// Phase-level FAIL means every evaluated member failed.
	if evaluated > 0 && failures == evaluated {
		failedEntirely[phase.Name] = true
	}

	p.observer.Event(Event{
		Type:      EventPhaseCompleted,
		Phase:     phase.Name,
		Message:   fmt.Sprintf("completed in %v", time.Since(start).Round(time.Millisecond)),
		Timestamp: time.Now(),
	})

	if ctx.Err() != nil {
		aborted = true
	}
	return aborted
}

// memberResult pairs a member with its poll result, keyed by declaration
// index for deterministic ordering.
type memberResult struct {
	index  int
	member Member
	res    poll.Result
}

// runSequential evaluates members one at a time, stopping after the first
// blocking failure. Used by short-circuit phases.
func (p *Pipeline) runSequential(ctx context.Context, phase Phase) []memberResult {
	var results []memberResult
	for i, member := range phase.Members {
		if ctx.Err() != nil {
			break
		}
		res := p.runMember(ctx, phase.Name, member)
		results = append(results, memberResult{index: i, member: member, res: res})

		// Advisory members classify as WARN and do not halt the rest of
		// the phase.
		if res.Final != poll.Succeeded && !member.Advisory {
			break
		}
	}
	return results
}

// runPooled evaluates all members through a bounded worker pool. Results
// land at their declaration index, so the returned slice is ordered no
// matter the completion order. Cancellation does not block collection:
// members that never got to run report Aborted without an attempt, and
// in-flight polls unwind as soon as their sleep or probe observes the
// cancelled context.
func (p *Pipeline) runPooled(ctx context.Context, phase Phase) []memberResult {
	results := make([]memberResult, len(phase.Members))
	sem := make(chan struct{}, p.concurrency)

	var wg sync.WaitGroup
	for i, member := range phase.Members {
		wg.Add(1)
		go func(i int, member Member) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				results[i] = memberResult{
					index:  i,
					member: member,
					res:    poll.Result{ProbeID: member.Probe.ID(), Final: poll.Aborted},
				}
				return
			}

			results[i] = memberResult{
				index:  i,
				member: member,
				res:    p.runMember(ctx, phase.Name, member),
			}
		}(i, member)
	}
	wg.Wait()

	return results
}

// runMember polls one member's probe, emitting progress events around it.
func (p *Pipeline) runMember(ctx context.Context, phaseName string, member Member) poll.Result {
	p.observer.Event(Event{
		Type:      EventCheckStarted,
		Phase:     phaseName,
		Member:    member.Name,
		Message:   member.Probe.Describe(),
		Timestamp: time.Now(),
	})

	poller := member.Poller
	if poller == nil {
		poller = poll.New(poll.WithMaxAttempts(1))
	}
	poller.SetDiagnostic(func(_ context.Context, attempt int) {
		p.observer.Event(Event{
			Type:      EventDiagnostic,
			Phase:     phaseName,
			Member:    member.Name,
			Message:   "still failing, backoff slowing",
			Attempt:   attempt,
			Timestamp: time.Now(),
		})
	})
	res := poller.Run(ctx, member.Probe)

	p.observer.Event(Event{
		Type:      EventCheckFinished,
		Phase:     phaseName,
		Member:    member.Name,
		Message:   string(res.Final),
		Attempt:   len(res.Attempts),
		Timestamp: time.Now(),
	})
	return res
}
