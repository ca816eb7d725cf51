package handlers

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/arnevik/readygate/internal/config"
)

// Init generates a starter validation plan at outputPath. It runs the
// interactive wizard on a terminal and falls back to sensible defaults
// when stdin is not a TTY.
func Init(outputPath string) error {
	if _, err := os.Stat(outputPath); err == nil {
		return fmt.Errorf("%s already exists, refusing to overwrite", outputPath)
	}

	answers := config.DefaultAnswers()
	if isatty.IsTerminal(os.Stdin.Fd()) {
		a, err := config.RunWizard()
		if err != nil {
			return fmt.Errorf("wizard failed: %w", err)
		}
		answers = a
	}

	plan := config.GeneratePlan(answers)
	if err := os.WriteFile(outputPath, []byte(plan), 0o644); err != nil {
		return fmt.Errorf("failed to write plan: %w", err)
	}

	fmt.Printf("Wrote %s. Review the plan, then run: readygate run -c %s\n", outputPath, outputPath)
	return nil
}
