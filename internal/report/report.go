// Package report renders a finalized validation run as console output,
// Markdown, and JSON/YAML documents, and maps the run to a process exit
// code. All renderers consume the same frozen run, so the formats cannot
// drift from each other.
package report

import (
	"os"
	"runtime"
	"time"

	"github.com/arnevik/readygate/internal/result"
)

// Metadata describes the tool and invocation that produced a report.
type Metadata struct {
	Tool      string    `json:"tool"`
	Version   string    `json:"version"`
	Target    string    `json:"target"`
	RunID     string    `json:"run_id"`
	StartedAt time.Time `json:"started_at"`
	Duration  string    `json:"duration"`
	State     string    `json:"state"`
}

// SystemInfo captures the environment the validator ran in.
type SystemInfo struct {
	Hostname  string `json:"hostname"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	GoVersion string `json:"go_version"`
}

// Document is the machine-readable report shape consumed by CI systems.
type Document struct {
	Metadata   Metadata             `json:"metadata"`
	Summary    result.Summary       `json:"summary"`
	Overall    result.Status        `json:"overall_status"`
	Results    []result.CheckRecord `json:"results"`
	SystemInfo SystemInfo           `json:"system_info"`
}

// Build assembles the document for a finalized run.
func Build(run *result.Run, version string) Document {
	hostname, _ := os.Hostname()

	return Document{
		Metadata: Metadata{
			Tool:      "readygate",
			Version:   version,
			Target:    run.Name,
			RunID:     run.ID,
			StartedAt: run.StartedAt,
			Duration:  run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond).String(),
			State:     string(run.State),
		},
		Summary:    run.Summary,
		Overall:    run.Overall,
		Results:    run.Records,
		SystemInfo: SystemInfo{
			Hostname:  hostname,
			OS:        runtime.GOOS,
			Arch:      runtime.GOARCH,
			GoVersion: runtime.Version(),
		},
	}
}

// Recompute derives summary and overall status from a document's result
// list. Used to verify that a deserialized report is self-consistent.
func Recompute(doc Document) (result.Summary, result.Status) {
	summary := result.Summarize(doc.Results)
	return summary, result.Overall(summary)
}
