package probe

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// DiskSpace checks filesystem usage of a path via df and fails when usage
// is at or above MaxUsedPercent. Typically configured as an advisory check
// so high-but-survivable usage reports WARN instead of blocking.
type DiskSpace struct {
	Name           string        `mapstructure:"-"`
	Path           string        `mapstructure:"path"`
	MaxUsedPercent int           `mapstructure:"max_used_percent"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

func (p *DiskSpace) ID() string { return p.Name }

func (p *DiskSpace) Describe() string {
	return fmt.Sprintf("disk usage of %s below %d%%", p.path(), p.maxUsed())
}

func (p *DiskSpace) Invoke(ctx context.Context) Outcome {
	return run(ctx, p.Timeout, func(ctx context.Context) Outcome {
		cmd := exec.CommandContext(ctx, "df", "-P", p.path())
		output, err := cmd.CombinedOutput()
		if err != nil {
			return Failf("df failed: %v", err)
		}

		used, err := parseDfUsedPercent(string(output))
		if err != nil {
			return Failf("failed to parse df output: %v", err)
		}

		if used >= p.maxUsed() {
			return Failf("%s is %d%% full (limit %d%%)", p.path(), used, p.maxUsed())
		}
		return Passf("%s is %d%% full", p.path(), used)
	})
}

func (p *DiskSpace) path() string {
	if p.Path == "" {
		return "/"
	}
	return p.Path
}

func (p *DiskSpace) maxUsed() int {
	if p.MaxUsedPercent == 0 {
		return 90
	}
	return p.MaxUsedPercent
}

// parseDfUsedPercent extracts the Use% column from POSIX df output.
func parseDfUsedPercent(output string) (int, error) {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) < 2 {
		return 0, fmt.Errorf("unexpected df output: %q", output)
	}

	fields := strings.Fields(lines[len(lines)-1])
	if len(fields) < 5 {
		return 0, fmt.Errorf("unexpected df line: %q", lines[len(lines)-1])
	}

	percent := strings.TrimSuffix(fields[4], "%")
	used, err := strconv.Atoi(percent)
	if err != nil {
		return 0, fmt.Errorf("unexpected use%% field %q: %w", fields[4], err)
	}
	return used, nil
}
