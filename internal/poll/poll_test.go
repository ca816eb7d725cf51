package poll

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnevik/readygate/internal/probe"
)

// flaky fails until the given attempt number, then succeeds.
func flaky(succeedOn int) probe.Probe {
	attempt := 0
	return probe.Func{
		Name: "flaky",
		Fn: func(context.Context) probe.Outcome {
			attempt++
			if attempt >= succeedOn {
				return probe.Passf("ok on attempt %d", attempt)
			}
			return probe.Failf("not ready (attempt %d)", attempt)
		},
	}
}

func fastTiers() []Tier {
	return []Tier{{Delay: time.Millisecond}}
}

func TestRunSucceedsImmediately(t *testing.T) {
	p := New(WithTiers(fastTiers()))

	res := p.Run(context.Background(), flaky(1))

	assert.Equal(t, Succeeded, res.Final)
	require.Len(t, res.Attempts, 1)
	assert.True(t, res.LastOutcome().Success)
	assert.Equal(t, "flaky", res.ProbeID)
}

func TestRunRetriesUntilSuccess(t *testing.T) {
	p := New(WithTiers(fastTiers()), WithMaxAttempts(10))

	res := p.Run(context.Background(), flaky(4))

	assert.Equal(t, Succeeded, res.Final)
	require.Len(t, res.Attempts, 4)
	for _, out := range res.Attempts[:3] {
		assert.False(t, out.Success)
	}
	assert.True(t, res.LastOutcome().Success)
}

func TestRunExhaustsAttemptBudget(t *testing.T) {
	p := New(WithTiers(fastTiers()), WithMaxAttempts(3))

	res := p.Run(context.Background(), flaky(100))

	assert.Equal(t, TimedOut, res.Final)
	require.Len(t, res.Attempts, 3)
	assert.False(t, res.LastOutcome().Success)
	assert.Contains(t, res.LastOutcome().Detail, "attempt 3")
}

func TestRunAbortedDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := New(WithTiers([]Tier{{Delay: time.Minute}}), WithMaxAttempts(10))

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	res := p.Run(ctx, flaky(100))

	assert.Equal(t, Aborted, res.Final)
	assert.Len(t, res.Attempts, 1)
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestRunKeepsFailedAttemptRecords(t *testing.T) {
	p := New(WithTiers(fastTiers()), WithMaxAttempts(2))

	res := p.Run(context.Background(), flaky(100))

	require.Len(t, res.Attempts, 2)
	assert.Equal(t, "not ready (attempt 1)", res.Attempts[0].Detail)
	assert.Equal(t, "not ready (attempt 2)", res.Attempts[1].Detail)
}

func TestDiagnosticFiresAtTierTransitions(t *testing.T) {
	var fired []int
	p := New(
		WithTiers([]Tier{
			{Delay: time.Millisecond, Attempts: 2},
			{Delay: time.Millisecond, Attempts: 2},
			{Delay: time.Millisecond},
		}),
		WithMaxAttempts(6),
		WithDiagnostic(func(_ context.Context, attempt int) {
			fired = append(fired, attempt)
		}),
	)

	res := p.Run(context.Background(), flaky(100))

	assert.Equal(t, TimedOut, res.Final)
	assert.Equal(t, []int{2, 4}, fired)
}

func TestSetDiagnosticKeepsExistingHook(t *testing.T) {
	configured := 0
	p := New(WithDiagnostic(func(context.Context, int) { configured++ }))

	p.SetDiagnostic(func(context.Context, int) { t.Fatal("configured hook was replaced") })
	p.diagnostic(context.Background(), 1)

	assert.Equal(t, 1, configured)
}

func TestDelayForFollowsSchedule(t *testing.T) {
	p := New(WithTiers([]Tier{
		{Delay: 5 * time.Second, Attempts: 10},
		{Delay: 10 * time.Second, Attempts: 10},
		{Delay: 15 * time.Second},
	}))

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 5 * time.Second},
		{10, 5 * time.Second},
		{11, 10 * time.Second},
		{20, 10 * time.Second},
		{21, 15 * time.Second},
		{40, 15 * time.Second},
		{100, 15 * time.Second},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, p.DelayFor(tt.attempt), "attempt %d", tt.attempt)
	}
}

func TestDefaultsAreApplied(t *testing.T) {
	p := New()

	assert.Equal(t, DefaultMaxAttempts, p.maxAttempts)
	assert.Equal(t, DefaultTiers(), p.tiers)
}

func TestLastOutcomeEmptyResult(t *testing.T) {
	assert.Equal(t, probe.Outcome{}, Result{}.LastOutcome())
}
