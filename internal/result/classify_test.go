package result

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arnevik/readygate/internal/poll"
	"github.com/arnevik/readygate/internal/probe"
)

func pollResult(final poll.FinalStatus, attempts ...probe.Outcome) poll.Result {
	return poll.Result{ProbeID: "probe", Attempts: attempts, Final: final}
}

func TestClassifySuccess(t *testing.T) {
	rec := Classify(
		Check{Phase: "connectivity", Test: "ssh shell"},
		pollResult(poll.Succeeded, probe.Pass("shell responding")),
	)

	assert.Equal(t, StatusPass, rec.Status)
	assert.Equal(t, "shell responding", rec.Details)
	assert.Empty(t, rec.Remediation)
}

func TestClassifySuccessAfterRetries(t *testing.T) {
	rec := Classify(
		Check{Phase: "connectivity", Test: "ssh shell"},
		pollResult(poll.Succeeded, probe.Fail("refused"), probe.Fail("refused"), probe.Pass("shell responding")),
	)

	assert.Equal(t, StatusPass, rec.Status)
	assert.Equal(t, "shell responding (after 3 attempts)", rec.Details)
}

func TestClassifyRequiredFailure(t *testing.T) {
	rec := Classify(
		Check{Phase: "services", Test: "api health", Remediation: "check the api logs"},
		pollResult(poll.TimedOut, probe.Fail("unexpected status 503")),
	)

	assert.Equal(t, StatusFail, rec.Status)
	assert.Equal(t, "unexpected status 503", rec.Details)
	assert.Equal(t, "check the api logs", rec.Remediation)
}

func TestClassifyAdvisoryFailureWarns(t *testing.T) {
	rec := Classify(
		Check{Phase: "capacity", Test: "disk usage", Advisory: true},
		pollResult(poll.TimedOut, probe.Fail("/ is 93% full (limit 90%)")),
	)

	assert.Equal(t, StatusWarn, rec.Status)
}

func TestClassifyEmptyDetailFallsBackToFinal(t *testing.T) {
	rec := Classify(Check{Phase: "p", Test: "t"}, poll.Result{Final: poll.Aborted})
	assert.Equal(t, string(poll.Aborted), rec.Details)
}

func TestClassifyRendersRemediationTemplate(t *testing.T) {
	rec := Classify(
		Check{Phase: "services", Test: "api", Remediation: "probe {{.Probe}} failed after {{.Attempts}} attempts: {{.Detail}}"},
		pollResult(poll.TimedOut, probe.Fail("refused"), probe.Fail("refused")),
	)

	assert.Equal(t, "probe probe failed after 2 attempts: refused", rec.Remediation)
}

func TestSkipped(t *testing.T) {
	rec := Skipped(Check{Phase: "services", Test: "api health"}, "connectivity")

	assert.Equal(t, StatusFail, rec.Status)
	assert.Equal(t, "services", rec.Phase)
	assert.Equal(t, "skipped: dependency connectivity failed", rec.Details)
}

func TestRenderRemediation(t *testing.T) {
	tests := []struct {
		name string
		tmpl string
		want string
	}{
		{"empty", "", ""},
		{"plain text", "restart the service", "restart the service"},
		{"with detail", "saw: {{.Detail}}", "saw: boom"},
		{"broken template returned verbatim", "fix {{.Nope", "fix {{.Nope"},
		{"unknown field returned verbatim", "fix {{.Missing}}", "fix {{.Missing}}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderRemediation(tt.tmpl, remediationData{Detail: "boom"})
			assert.Equal(t, tt.want, got)
		})
	}
}
