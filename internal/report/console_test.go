package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arnevik/readygate/internal/result"
)

func TestConsoleRender(t *testing.T) {
	var buf bytes.Buffer
	NewConsole(&buf).Render(Build(sampleRun(), "dev"))
	out := buf.String()

	assert.Contains(t, out, "readygate · staging")
	assert.Contains(t, out, "run run-123")
	assert.Contains(t, out, "connectivity")
	assert.Contains(t, out, "✓ tcp port")
	assert.Contains(t, out, "✗ api health")
	assert.Contains(t, out, "! disk | usage")
	assert.Contains(t, out, "Overall: FAIL")
	assert.Contains(t, out, "4 checks, 2 passed, 1 failed, 1 warnings")
	assert.Contains(t, out, "→ api health: check the api logs")
	assert.NotContains(t, out, "\x1b[", "plain writers must not receive escape codes")
}

func TestConsoleRenderAborted(t *testing.T) {
	run := sampleRun()
	run.State = result.StateAborted
	doc := Build(run, "dev")

	var buf bytes.Buffer
	NewConsole(&buf).Render(doc)

	assert.Contains(t, buf.String(), "(aborted)")
}
