package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnevik/readygate/internal/result"
)

func sampleRun() *result.Run {
	started := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	records := []result.CheckRecord{
		{Phase: "connectivity", Test: "tcp port", Status: result.StatusPass, Details: "port 22 open", Timestamp: started},
		{Phase: "connectivity", Test: "ssh shell", Status: result.StatusPass, Details: "shell responding (after 3 attempts)", Timestamp: started},
		{Phase: "services", Test: "api health", Status: result.StatusFail, Details: "unexpected status 503", Remediation: "check the api logs", Timestamp: started},
		{Phase: "capacity", Test: "disk | usage", Status: result.StatusWarn, Details: "/ is 93% full", Remediation: "expand the volume", Timestamp: started},
	}
	summary := result.Summarize(records)

	return &result.Run{
		ID:         "run-123",
		Name:       "staging",
		StartedAt:  started,
		FinishedAt: started.Add(90 * time.Second),
		State:      result.StateCompleted,
		Phases:     []string{"connectivity", "services", "capacity"},
		Records:    records,
		Summary:    summary,
		Overall:    result.Overall(summary),
	}
}

func TestBuildDocument(t *testing.T) {
	doc := Build(sampleRun(), "1.2.3")

	assert.Equal(t, "readygate", doc.Metadata.Tool)
	assert.Equal(t, "1.2.3", doc.Metadata.Version)
	assert.Equal(t, "staging", doc.Metadata.Target)
	assert.Equal(t, "run-123", doc.Metadata.RunID)
	assert.Equal(t, "1m30s", doc.Metadata.Duration)
	assert.Equal(t, "Completed", doc.Metadata.State)
	assert.Equal(t, result.StatusFail, doc.Overall)
	assert.Len(t, doc.Results, 4)
	assert.NotEmpty(t, doc.SystemInfo.OS)
	assert.NotEmpty(t, doc.SystemInfo.GoVersion)
}

func TestJSONRoundTrip(t *testing.T) {
	doc := Build(sampleRun(), "1.2.3")

	data, err := RenderJSON(doc)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"overall_status": "FAIL"`)

	parsed, err := ParseJSON(data)
	require.NoError(t, err)
	assert.Equal(t, doc.Metadata, parsed.Metadata)
	assert.Equal(t, doc.Summary, parsed.Summary)
	assert.Len(t, parsed.Results, len(doc.Results))

	summary, overall := Recompute(parsed)
	assert.Equal(t, parsed.Summary, summary)
	assert.Equal(t, parsed.Overall, overall)
}

func TestParseJSONInvalid(t *testing.T) {
	_, err := ParseJSON([]byte("{not json"))
	assert.Error(t, err)
}

func TestRenderYAML(t *testing.T) {
	doc := Build(sampleRun(), "1.2.3")

	data, err := RenderYAML(doc)
	require.NoError(t, err)
	assert.Contains(t, string(data), "overall_status: FAIL")
	assert.Contains(t, string(data), "target: staging")
}

func TestRenderMarkdownSections(t *testing.T) {
	doc := Build(sampleRun(), "1.2.3")
	md := string(RenderMarkdown(doc))

	assert.Contains(t, md, "# Deployment Readiness Report")

	// Section order is fixed.
	sections := []string{"## Metadata", "## Executive Summary", "## Detailed Results", "## Remediation"}
	last := -1
	for _, section := range sections {
		idx := strings.Index(md, section)
		require.GreaterOrEqual(t, idx, 0, section)
		assert.Greater(t, idx, last, "%s out of order", section)
		last = idx
	}

	assert.Contains(t, md, "**Overall status: FAIL**")
	assert.Contains(t, md, "### connectivity")
	assert.Contains(t, md, "| ssh shell | ✅ PASS |")
	assert.Contains(t, md, "❌ FAIL")
	assert.Contains(t, md, "- **services / api health** (FAIL): check the api logs")

	// Pipes in details must not break table cells.
	assert.Contains(t, md, "disk \\| usage")
}

func TestRenderMarkdownNoRemediation(t *testing.T) {
	run := sampleRun()
	run.Records = run.Records[:2]
	run.Summary = result.Summarize(run.Records)
	run.Overall = result.Overall(run.Summary)

	md := string(RenderMarkdown(Build(run, "dev")))
	assert.Contains(t, md, "No remediation required.")
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name    string
		overall result.Status
		state   result.RunState
		want    int
	}{
		{"pass", result.StatusPass, result.StateCompleted, ExitOK},
		{"warnings do not fail the build", result.StatusWarn, result.StateCompleted, ExitOK},
		{"failure", result.StatusFail, result.StateCompleted, ExitFailed},
		{"aborted clean run", result.StatusPass, result.StateAborted, ExitAborted},
		{"aborted with failures", result.StatusFail, result.StateAborted, ExitFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := &result.Run{Overall: tt.overall, State: tt.state}
			assert.Equal(t, tt.want, ExitCode(run))
		})
	}
}
