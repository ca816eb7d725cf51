package probe

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Command runs a local command and succeeds when it exits zero,
// optionally requiring a substring in the combined output.
type Command struct {
	Name           string        `mapstructure:"-"`
	Cmd            string        `mapstructure:"command"`
	Args           []string      `mapstructure:"args"`
	OutputContains string        `mapstructure:"output_contains"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

func (p *Command) ID() string { return p.Name }

func (p *Command) Describe() string {
	return fmt.Sprintf("command %s", strings.Join(append([]string{p.Cmd}, p.Args...), " "))
}

func (p *Command) Invoke(ctx context.Context) Outcome {
	return run(ctx, p.Timeout, func(ctx context.Context) Outcome {
		// #nosec G204
		cmd := exec.CommandContext(ctx, p.Cmd, p.Args...)
		output, err := cmd.CombinedOutput()
		text := strings.TrimSpace(string(output))

		if err != nil {
			out := Failf("command failed: %v", err)
			if text != "" {
				out = Failf("command failed: %v: %s", err, firstLine(text))
			}
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				code := exitErr.ExitCode()
				out.ExitCode = &code
			}
			return out
		}

		if p.OutputContains != "" && !strings.Contains(text, p.OutputContains) {
			return Failf("exit 0 but output does not contain %q", p.OutputContains)
		}

		zero := 0
		out := Pass(firstLine(text))
		if out.Detail == "" {
			out.Detail = "exit 0"
		}
		out.ExitCode = &zero
		return out
	})
}

// firstLine truncates multi-line command output so record details stay
// single-line.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
