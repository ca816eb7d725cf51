package report

import (
	"github.com/arnevik/readygate/internal/result"
)

// Process exit codes. WARN alone does not fail a build; a run that never
// finished must not green-light one either, so Aborted gets its own code.
const (
	ExitOK          = 0
	ExitFailed      = 1
	ExitConfigError = 2
	ExitAborted     = 3
)

// ExitCode maps a finalized run to the process exit code. This is the
// only place that decision is made.
func ExitCode(run *result.Run) int {
	if run.Overall == result.StatusFail {
		return ExitFailed
	}
	if run.State == result.StateAborted {
		return ExitAborted
	}
	return ExitOK
}
