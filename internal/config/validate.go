package config

import (
	"fmt"

	"github.com/arnevik/readygate/internal/pipeline"
)

// Validate checks the plan for structural errors. Validation runs before
// the pipeline starts; any error here is fatal.
func (c *Config) Validate() error {
	if len(c.Phases) == 0 {
		return fmt.Errorf("at least one phase is required")
	}

	if c.Settings.Concurrency < 0 || c.Settings.Concurrency > pipeline.MaxConcurrency {
		return fmt.Errorf("concurrency %d out of range (0-%d)", c.Settings.Concurrency, pipeline.MaxConcurrency)
	}
	if c.Settings.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}

	seen := make(map[string]bool)
	for i, phase := range c.Phases {
		if err := validatePhase(phase, seen); err != nil {
			return fmt.Errorf("phase %d (%q): %w", i+1, phase.Name, err)
		}
		seen[phase.Name] = true
	}
	return nil
}

// validatePhase checks one phase against the phases declared before it.
func validatePhase(phase PhaseConfig, earlier map[string]bool) error {
	if phase.Name == "" {
		return fmt.Errorf("name is required")
	}
	if earlier[phase.Name] {
		return fmt.Errorf("duplicate phase name")
	}

	// Dependencies must point at an earlier phase so the sequential
	// pipeline has evaluated them by the time they are consulted.
	if phase.DependsOn != "" && !earlier[phase.DependsOn] {
		return fmt.Errorf("depends_on %q does not reference an earlier phase", phase.DependsOn)
	}

	if len(phase.Checks) == 0 {
		return fmt.Errorf("at least one check is required")
	}

	names := make(map[string]bool)
	for j, check := range phase.Checks {
		if err := validateCheck(check); err != nil {
			return fmt.Errorf("check %d (%q): %w", j+1, check.Name, err)
		}
		if names[check.Name] {
			return fmt.Errorf("check %d: duplicate check name %q", j+1, check.Name)
		}
		names[check.Name] = true
	}
	return nil
}

// validateCheck checks one check declaration.
func validateCheck(check CheckConfig) error {
	if check.Name == "" {
		return fmt.Errorf("name is required")
	}
	if check.Type == "" {
		return fmt.Errorf("type is required")
	}
	if !ProbeTypes[check.Type] {
		return fmt.Errorf("unknown check type %q", check.Type)
	}

	if check.Retry != nil {
		if check.Retry.MaxAttempts < 1 {
			return fmt.Errorf("retry.max_attempts must be at least 1")
		}
		for k, tier := range check.Retry.Tiers {
			if tier.Delay <= 0 {
				return fmt.Errorf("retry.tiers[%d].delay must be positive", k)
			}
			if tier.Attempts < 0 {
				return fmt.Errorf("retry.tiers[%d].attempts must not be negative", k)
			}
		}
	}
	return nil
}
