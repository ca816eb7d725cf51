// Package poll retries a probe on a tiered backoff schedule until it
// succeeds, the attempt budget is exhausted, or the caller cancels.
//
// Backoff is tiered rather than exponential: a fixed delay applies for a
// fixed number of attempts before the next tier takes over. This mirrors
// how deployment readiness behaves in practice: fast early retries while
// a service is starting, slower ones once it is clearly taking a while.
package poll

import (
	"context"
	"time"

	"github.com/arnevik/readygate/internal/probe"
)

// FinalStatus is the terminal state of a polling run.
type FinalStatus string

const (
	// Succeeded means the probe's last attempt passed.
	Succeeded FinalStatus = "Succeeded"
	// TimedOut means the attempt budget was exhausted without success.
	TimedOut FinalStatus = "TimedOut"
	// Aborted means the caller cancelled before success or exhaustion.
	Aborted FinalStatus = "Aborted"
)

// Tier is one rung of the backoff schedule: Delay between attempts, for
// Attempts attempts. The last tier's Attempts may be 0, meaning it applies
// to every remaining attempt.
type Tier struct {
	Delay    time.Duration `mapstructure:"delay"`
	Attempts int           `mapstructure:"attempts"`
}

// DefaultTiers is the schedule used when none is configured: quick retries
// for the first ten attempts, then progressively slower.
func DefaultTiers() []Tier {
	return []Tier{
		{Delay: 5 * time.Second, Attempts: 10},
		{Delay: 10 * time.Second, Attempts: 10},
		{Delay: 15 * time.Second},
	}
}

// DefaultMaxAttempts caps a poll when the configuration does not.
const DefaultMaxAttempts = 40

// Result records a full polling run: every attempt's outcome, in order,
// plus the terminal status. Consumed read-only downstream.
type Result struct {
	ProbeID  string          `json:"probe_id"`
	Attempts []probe.Outcome `json:"attempts"`
	Final    FinalStatus     `json:"final_status"`
	Elapsed  time.Duration   `json:"total_elapsed"`
}

// LastOutcome returns the outcome of the final attempt. The zero Outcome
// is returned for an empty result.
func (r Result) LastOutcome() probe.Outcome {
	if len(r.Attempts) == 0 {
		return probe.Outcome{}
	}
	return r.Attempts[len(r.Attempts)-1]
}

// Diagnostic runs between backoff tiers purely for operator visibility.
// It must not block for long and never affects the stop decision.
type Diagnostic func(ctx context.Context, attempt int)

// Poller drives a probe through the backoff schedule.
type Poller struct {
	tiers       []Tier
	maxAttempts int
	diagnostic  Diagnostic
}

// Option configures a Poller.
type Option func(*Poller)

// WithTiers sets the backoff schedule.
func WithTiers(tiers []Tier) Option {
	return func(p *Poller) {
		if len(tiers) > 0 {
			p.tiers = tiers
		}
	}
}

// WithMaxAttempts caps the number of attempts.
func WithMaxAttempts(n int) Option {
	return func(p *Poller) {
		if n > 0 {
			p.maxAttempts = n
		}
	}
}

// WithDiagnostic installs a hook invoked when the schedule crosses into a
// new tier.
func WithDiagnostic(d Diagnostic) Option {
	return func(p *Poller) {
		p.diagnostic = d
	}
}

// SetDiagnostic installs the hook after construction unless one is
// already configured. The pipeline uses it to surface tier transitions
// as observer events.
func (p *Poller) SetDiagnostic(d Diagnostic) {
	if p.diagnostic == nil {
		p.diagnostic = d
	}
}

// New creates a Poller with the default schedule, adjusted by opts.
func New(opts ...Option) *Poller {
	p := &Poller{
		tiers:       DefaultTiers(),
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run invokes the probe until it succeeds, maxAttempts is reached, or ctx
// is cancelled. Every attempt's outcome is retained regardless of the
// terminal status.
func (p *Poller) Run(ctx context.Context, pr probe.Probe) Result {
	result := Result{ProbeID: pr.ID()}
	start := time.Now()

	for attempt := 1; ; attempt++ {
		out := pr.Invoke(ctx)
		result.Attempts = append(result.Attempts, out)

		if out.Success {
			result.Final = Succeeded
			break
		}
		if attempt >= p.maxAttempts {
			result.Final = TimedOut
			break
		}
		if ctx.Err() != nil {
			result.Final = Aborted
			break
		}

		if p.diagnostic != nil && p.tierIndex(attempt+1) != p.tierIndex(attempt) {
			p.diagnostic(ctx, attempt)
		}

		select {
		case <-ctx.Done():
			result.Final = Aborted
		case <-time.After(p.DelayFor(attempt)):
			continue
		}
		break
	}

	result.Elapsed = time.Since(start)
	return result
}

// DelayFor returns the backoff delay that follows the given attempt
// number (1-based).
func (p *Poller) DelayFor(attempt int) time.Duration {
	return p.tiers[p.tierIndex(attempt)].Delay
}

// tierIndex maps a 1-based attempt number onto the schedule. Attempts
// beyond the configured tiers stay on the last tier.
func (p *Poller) tierIndex(attempt int) int {
	remaining := attempt
	for i, tier := range p.tiers {
		if tier.Attempts == 0 || remaining <= tier.Attempts {
			return i
		}
		remaining -= tier.Attempts
	}
	return len(p.tiers) - 1
}
