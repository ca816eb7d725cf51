// Package probe defines the readiness probe contract and the concrete
// probes shipped with readygate.
//
// A Probe is a single observable unit of readiness (TCP port open, SSH
// shell responding, Kubernetes pods Ready, HTTP endpoint healthy). Probes
// never return Go errors to their caller: every external failure mode
// (connection refused, DNS failure, unexpected HTTP status, non-zero
// remote exit) is converted into an Outcome value so the polling and
// classification layers see one uniform shape.
package probe

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Outcome is the result of one probe invocation. It is produced fresh on
// every invocation and never mutated afterwards.
type Outcome struct {
	Success  bool          `json:"success"`
	Detail   string        `json:"detail"`
	ExitCode *int          `json:"exit_code,omitempty"`
	Elapsed  time.Duration `json:"elapsed"`
}

// Probe is a single readiness check against an external system.
//
// Invoke may have side effects on the system under test (it issues a
// network call) but must not mutate any pipeline state. Implementations
// must respect the context deadline and report a timeout as a failed
// Outcome rather than hang.
type Probe interface {
	// ID returns a stable identifier for this probe, used in reports
	// and poll results.
	ID() string

	// Describe returns a human-readable description of what the probe
	// checks.
	Describe() string

	// Invoke runs the check once and reports the outcome.
	Invoke(ctx context.Context) Outcome
}

// Func adapts a plain function into a Probe. Used by tests and for
// one-off checks that do not warrant a dedicated type.
type Func struct {
	Name string
	Desc string
	Fn   func(ctx context.Context) Outcome
}

func (f Func) ID() string       { return f.Name }
func (f Func) Describe() string { return f.Desc }

func (f Func) Invoke(ctx context.Context) Outcome {
	return f.Fn(ctx)
}

// Pass builds a successful Outcome with the given detail.
func Pass(detail string) Outcome {
	return Outcome{Success: true, Detail: detail}
}

// Passf builds a successful Outcome with a formatted detail.
func Passf(format string, args ...any) Outcome {
	return Pass(fmt.Sprintf(format, args...))
}

// Fail builds a failed Outcome with the given detail.
func Fail(detail string) Outcome {
	return Outcome{Success: false, Detail: detail}
}

// Failf builds a failed Outcome with a formatted detail.
func Failf(format string, args ...any) Outcome {
	return Fail(fmt.Sprintf(format, args...))
}

// FailErr builds a failed Outcome from an error. A context deadline is
// normalized to the detail "timeout" so downstream classification can
// distinguish it from other failures.
func FailErr(err error) Outcome {
	if errors.Is(err, context.DeadlineExceeded) {
		return Fail("timeout")
	}
	return Fail(err.Error())
}

// run applies the probe timeout to ctx, times the check, and normalizes
// a deadline overrun into a "timeout" failure. All concrete probes funnel
// their Invoke through this helper.
func run(ctx context.Context, timeout time.Duration, check func(ctx context.Context) Outcome) Outcome {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	out := check(ctx)
	out.Elapsed = time.Since(start)

	if !out.Success && ctx.Err() == context.DeadlineExceeded {
		out.Detail = "timeout"
	}
	return out
}
