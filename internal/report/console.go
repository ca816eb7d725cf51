package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/arnevik/readygate/internal/result"
)

var (
	colorGreen  = lipgloss.Color("#22c55e")
	colorRed    = lipgloss.Color("#ef4444")
	colorYellow = lipgloss.Color("#eab308")
	colorBlue   = lipgloss.Color("#3b82f6")
	colorDim    = lipgloss.Color("#6b7280")

	titleStyle   = lipgloss.NewStyle().Bold(true)
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
	passStyle    = lipgloss.NewStyle().Foreground(colorGreen)
	failStyle    = lipgloss.NewStyle().Foreground(colorRed)
	warnStyle    = lipgloss.NewStyle().Foreground(colorYellow)
	dimStyle     = lipgloss.NewStyle().Foreground(colorDim)
)

// Console renders a run summary for terminals, mirroring the Markdown
// report's structure with status icons. Styling is dropped when the
// writer is not a TTY.
type Console struct {
	out    io.Writer
	styled bool
}

// NewConsole creates a console renderer for the given writer.
func NewConsole(out io.Writer) *Console {
	styled := false
	if f, ok := out.(*os.File); ok {
		styled = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Console{out: out, styled: styled}
}

// Render writes the grouped results and summary line.
func (c *Console) Render(doc Document) {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "  "+c.style(titleStyle, fmt.Sprintf("readygate · %s", doc.Metadata.Target)))
	fmt.Fprintln(c.out, "  "+c.style(dimStyle, fmt.Sprintf("run %s · %s", doc.Metadata.RunID, doc.Metadata.StartedAt.Format("2006-01-02 15:04:05 UTC"))))

	for _, phase := range phaseOrder(doc.Results) {
		fmt.Fprintln(c.out)
		fmt.Fprintln(c.out, "  "+c.style(sectionStyle, phase))
		fmt.Fprintln(c.out, "  "+strings.Repeat("─", 45))
		for _, rec := range doc.Results {
			if rec.Phase != phase {
				continue
			}
			c.renderRow(rec)
		}
	}

	fmt.Fprintln(c.out)
	c.renderSummary(doc)
	fmt.Fprintln(c.out)
}

// renderRow prints one check line: icon, name, dimmed detail.
func (c *Console) renderRow(rec result.CheckRecord) {
	var icon string
	switch rec.Status {
	case result.StatusPass:
		icon = c.style(passStyle, "✓")
	case result.StatusWarn:
		icon = c.style(warnStyle, "!")
	default:
		icon = c.style(failStyle, "✗")
	}

	line := fmt.Sprintf("  %s %-32s", icon, rec.Test)
	if rec.Details != "" {
		line += " " + c.style(dimStyle, rec.Details)
	}
	fmt.Fprintln(c.out, line)
}

// renderSummary prints the run-level result and counts.
func (c *Console) renderSummary(doc Document) {
	var overall string
	switch doc.Overall {
	case result.StatusPass:
		overall = c.style(passStyle, "PASS")
	case result.StatusWarn:
		overall = c.style(warnStyle, "WARN")
	default:
		overall = c.style(failStyle, "FAIL")
	}

	state := ""
	if doc.Metadata.State == string(result.StateAborted) {
		state = " " + c.style(warnStyle, "(aborted)")
	}

	fmt.Fprintf(c.out, "  Overall: %s%s · %d checks, %d passed, %d failed, %d warnings · %s\n",
		overall, state,
		doc.Summary.Total, doc.Summary.Passed, doc.Summary.Failed, doc.Summary.Warned,
		doc.Metadata.Duration)

	for _, rec := range collectRemediations(doc.Results) {
		fmt.Fprintf(c.out, "  %s %s: %s\n", c.style(dimStyle, "→"), rec.Test, rec.Remediation)
	}
}

// style applies a lipgloss style only when writing to a terminal.
func (c *Console) style(s lipgloss.Style, text string) string {
	if !c.styled {
		return text
	}
	return s.Render(text)
}
