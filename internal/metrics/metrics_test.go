package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnevik/readygate/internal/result"
)

func TestCollectorWritesTextfile(t *testing.T) {
	c := NewCollector()
	c.ObserveCheck("connectivity", "tcp", result.StatusPass, 1, 200*time.Millisecond)
	c.ObserveCheck("connectivity", "ssh", result.StatusPass, 4, 21*time.Second)
	c.ObserveCheck("services", "api", result.StatusFail, 40, 10*time.Minute)
	c.ObserveRun(&result.Run{Overall: result.StatusFail})

	path := filepath.Join(t.TempDir(), "readygate.prom")
	require.NoError(t, c.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, `readygate_checks_total{phase="connectivity",status="PASS"} 2`)
	assert.Contains(t, text, `readygate_checks_total{phase="services",status="FAIL"} 1`)
	assert.Contains(t, text, `readygate_probe_attempts_total{check="ssh",phase="connectivity"} 4`)
	assert.Contains(t, text, `readygate_run_status{status="FAIL"} 1`)
	assert.Contains(t, text, `readygate_run_status{status="PASS"} 0`)
	assert.Contains(t, text, "readygate_check_duration_seconds_bucket")

	// No leftover temp files from the atomic write.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteTextfileBadDirectory(t *testing.T) {
	c := NewCollector()
	err := c.WriteTextfile("/nonexistent-dir/readygate.prom")
	assert.Error(t, err)
}
