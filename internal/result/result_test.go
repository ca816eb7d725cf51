package result

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarizePartitionsRecords(t *testing.T) {
	records := []CheckRecord{
		{Test: "a", Status: StatusPass},
		{Test: "b", Status: StatusPass},
		{Test: "c", Status: StatusFail},
		{Test: "d", Status: StatusWarn},
		{Test: "e", Status: StatusWarn},
	}

	s := Summarize(records)

	assert.Equal(t, 5, s.Total)
	assert.Equal(t, 2, s.Passed)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 2, s.Warned)
	assert.Equal(t, s.Total, s.Passed+s.Failed+s.Warned)
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestOverall(t *testing.T) {
	tests := []struct {
		name    string
		summary Summary
		want    Status
	}{
		{"all passed", Summary{Total: 3, Passed: 3}, StatusPass},
		{"any failure dominates", Summary{Total: 3, Passed: 1, Failed: 1, Warned: 1}, StatusFail},
		{"warnings without failures", Summary{Total: 3, Passed: 2, Warned: 1}, StatusWarn},
		{"empty run passes", Summary{}, StatusPass},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overall(tt.summary))
		})
	}
}

func TestPhaseRecords(t *testing.T) {
	run := &Run{
		Records: []CheckRecord{
			{Phase: "connectivity", Test: "tcp"},
			{Phase: "services", Test: "api"},
			{Phase: "connectivity", Test: "ssh"},
		},
	}

	recs := run.PhaseRecords("connectivity")
	assert.Len(t, recs, 2)
	assert.Equal(t, "tcp", recs[0].Test)
	assert.Equal(t, "ssh", recs[1].Test)

	assert.Empty(t, run.PhaseRecords("missing"))
}
