package result

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/arnevik/readygate/internal/poll"
)

// Check describes how one probe's raw result maps onto a record: which
// phase it reports under, whether its condition is required or advisory,
// and the remediation shown when it does not pass.
type Check struct {
	Phase       string
	Test        string
	Advisory    bool
	Remediation string
}

// Classify reduces a polling result to a check record using the fixed
// decision table: success is PASS; exhausted attempts are FAIL for
// required conditions and WARN for advisory ones.
func Classify(check Check, res poll.Result) CheckRecord {
	rec := CheckRecord{
		Phase:   check.Phase,
		Test:    check.Test,
		Details: res.LastOutcome().Detail,
	}

	if res.Final == poll.Succeeded {
		rec.Status = StatusPass
		if len(res.Attempts) > 1 {
			rec.Details = fmt.Sprintf("%s (after %d attempts)", rec.Details, len(res.Attempts))
		}
		return rec
	}

	if check.Advisory {
		rec.Status = StatusWarn
	} else {
		rec.Status = StatusFail
	}
	if rec.Details == "" {
		rec.Details = string(res.Final)
	}
	rec.Remediation = RenderRemediation(check.Remediation, remediationData{
		Probe:    res.ProbeID,
		Detail:   rec.Details,
		Attempts: len(res.Attempts),
	})
	return rec
}

// Skipped builds the record for a check whose phase was not executed
// because a prerequisite phase fully failed. Recorded as FAIL per the
// dependency-skip rule so reports account for every declared check.
func Skipped(check Check, dependency string) CheckRecord {
	return CheckRecord{
		Phase:   check.Phase,
		Test:    check.Test,
		Status:  StatusFail,
		Details: fmt.Sprintf("skipped: dependency %s failed", dependency),
	}
}

// remediationData is the template context for remediation hints.
type remediationData struct {
	Probe    string
	Detail   string
	Attempts int
}

// RenderRemediation renders a remediation template with the captured
// failure detail. A template that fails to parse or execute is returned
// verbatim.
func RenderRemediation(tmpl string, data any) string {
	if tmpl == "" {
		return ""
	}

	t, err := template.New("remediation").Parse(tmpl)
	if err != nil {
		return tmpl
	}

	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return tmpl
	}
	return sb.String()
}
