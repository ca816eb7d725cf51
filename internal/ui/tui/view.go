package tui

import (
	"fmt"
	"strings"
	"time"
)

func renderView(m Model) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("readygate: %s", m.Target)))
	b.WriteString("\n")

	for _, phase := range m.Phases {
		renderPhase(&b, m, phase)
	}

	elapsed := time.Since(m.StartTime).Round(time.Second)
	b.WriteString(footerStyle.Render(fmt.Sprintf("elapsed %s · q to quit", elapsed)))
	b.WriteString("\n")

	return b.String()
}

func renderPhase(b *strings.Builder, m Model, phase phaseView) {
	header := phase.Name
	switch {
	case phase.Skipped:
		header += " " + skippedStyle.Render("(skipped)")
	case phase.Active:
		header += " " + dimStyle.Render(currentSpinner(m.SpinnerFrame))
	}
	b.WriteString(sectionStyle.Render(header))
	b.WriteString("\n")

	for _, check := range phase.Checks {
		renderCheck(b, m, check)
	}
}

func renderCheck(b *strings.Builder, m Model, check checkView) {
	var marker string
	switch check.State {
	case checkDone:
		marker = doneStyle.Render("✓")
	case checkFailed:
		marker = failedStyle.Render("✗")
	case checkSkipped:
		marker = skippedStyle.Render("-")
	case checkRunning:
		marker = currentSpinner(m.SpinnerFrame)
	default:
		marker = dimStyle.Render("·")
	}

	line := fmt.Sprintf("  %s %-32s", marker, check.Name)
	if check.Attempt > 1 {
		line += dimStyle.Render(fmt.Sprintf(" attempt %d", check.Attempt))
	}
	if check.Message != "" && check.State != checkPending {
		line += " " + dimStyle.Render(check.Message)
	}
	b.WriteString(line)
	b.WriteString("\n")
}
