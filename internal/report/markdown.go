package report

import (
	"fmt"
	"strings"

	"github.com/arnevik/readygate/internal/result"
)

// RenderMarkdown produces the Markdown report: metadata header, executive
// summary table, detailed results grouped by phase, and a remediation
// appendix. Section order is fixed.
func RenderMarkdown(doc Document) []byte {
	var sb strings.Builder

	sb.WriteString("# Deployment Readiness Report\n\n")

	// Metadata
	sb.WriteString("## Metadata\n\n")
	fmt.Fprintf(&sb, "| Field | Value |\n|---|---|\n")
	fmt.Fprintf(&sb, "| Target | %s |\n", doc.Metadata.Target)
	fmt.Fprintf(&sb, "| Run ID | %s |\n", doc.Metadata.RunID)
	fmt.Fprintf(&sb, "| Started | %s |\n", doc.Metadata.StartedAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&sb, "| Duration | %s |\n", doc.Metadata.Duration)
	fmt.Fprintf(&sb, "| State | %s |\n", doc.Metadata.State)
	fmt.Fprintf(&sb, "| Tool | %s %s |\n", doc.Metadata.Tool, doc.Metadata.Version)
	sb.WriteString("\n")

	// Executive summary
	sb.WriteString("## Executive Summary\n\n")
	fmt.Fprintf(&sb, "**Overall status: %s**\n\n", doc.Overall)
	fmt.Fprintf(&sb, "| Total | Passed | Failed | Warnings |\n|---|---|---|---|\n")
	fmt.Fprintf(&sb, "| %d | %d | %d | %d |\n\n",
		doc.Summary.Total, doc.Summary.Passed, doc.Summary.Failed, doc.Summary.Warned)

	// Detailed results, grouped by phase in record order
	sb.WriteString("## Detailed Results\n\n")
	for _, phase := range phaseOrder(doc.Results) {
		fmt.Fprintf(&sb, "### %s\n\n", phase)
		fmt.Fprintf(&sb, "| Check | Status | Details |\n|---|---|---|\n")
		for _, rec := range doc.Results {
			if rec.Phase != phase {
				continue
			}
			fmt.Fprintf(&sb, "| %s | %s %s | %s |\n",
				escapePipes(rec.Test), statusIcon(rec.Status), rec.Status, escapePipes(rec.Details))
		}
		sb.WriteString("\n")
	}

	// Remediation appendix
	remediations := collectRemediations(doc.Results)
	sb.WriteString("## Remediation\n\n")
	if len(remediations) == 0 {
		sb.WriteString("No remediation required.\n")
	} else {
		for _, rec := range remediations {
			fmt.Fprintf(&sb, "- **%s / %s** (%s): %s\n", rec.Phase, rec.Test, rec.Status, rec.Remediation)
		}
	}

	return []byte(sb.String())
}

// phaseOrder returns phase names in first-appearance order.
func phaseOrder(records []result.CheckRecord) []string {
	var order []string
	seen := make(map[string]bool)
	for _, rec := range records {
		if !seen[rec.Phase] {
			seen[rec.Phase] = true
			order = append(order, rec.Phase)
		}
	}
	return order
}

// collectRemediations filters FAIL/WARN records that carry a hint.
func collectRemediations(records []result.CheckRecord) []result.CheckRecord {
	var out []result.CheckRecord
	for _, rec := range records {
		if rec.Status != result.StatusPass && rec.Remediation != "" {
			out = append(out, rec)
		}
	}
	return out
}

// statusIcon maps a status to its report marker.
func statusIcon(status result.Status) string {
	switch status {
	case result.StatusPass:
		return "✅"
	case result.StatusWarn:
		return "⚠️"
	default:
		return "❌"
	}
}

// escapePipes keeps free-form detail text from breaking table cells.
func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
