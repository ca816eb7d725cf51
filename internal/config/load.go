package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/arnevik/readygate/internal/poll"
)

// ErrInvalid marks configuration errors. The CLI maps these to a distinct
// exit code: a misconfigured validator must refuse to run rather than
// risk a false PASS.
var ErrInvalid = errors.New("invalid configuration")

// LoadFile reads and parses a validation plan from a YAML file.
func LoadFile(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read config file: %v", ErrInvalid, err)
	}
	return Load(data)
}

// Load parses a validation plan from YAML bytes, applies defaults, and
// validates it.
func Load(data []byte) (*Config, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal yaml: %v", ErrInvalid, err)
	}

	var cfg Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: failed to decode config: %v", ErrInvalid, err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return &cfg, nil
}

// applyDefaults fills unset fields before validation.
func applyDefaults(cfg *Config) {
	if cfg.Name == "" {
		cfg.Name = "deployment"
	}

	for i := range cfg.Phases {
		for j := range cfg.Phases[i].Checks {
			check := &cfg.Phases[i].Checks[j]
			if check.Retry == nil {
				continue
			}
			if check.Retry.MaxAttempts == 0 {
				check.Retry.MaxAttempts = defaultMaxAttempts(check.Retry)
			}
		}
	}
}

// defaultMaxAttempts caps an open-ended retry policy: the sum of bounded
// tiers, or the library default when the schedule is fully unbounded.
func defaultMaxAttempts(retry *RetryConfig) int {
	total := 0
	for _, tier := range retry.Tiers {
		if tier.Attempts == 0 {
			return poll.DefaultMaxAttempts
		}
		total += tier.Attempts
	}
	if total == 0 {
		return poll.DefaultMaxAttempts
	}
	return total
}
