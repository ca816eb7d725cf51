// Package config loads and validates the declarative validation plan: an
// ordered list of phases, each with its checks, polling policy, and
// classification flags. The plan is read-only input to the pipeline;
// a malformed plan is fatal before any probe runs.
package config

import (
	"time"

	"github.com/arnevik/readygate/internal/poll"
)

// Config is the root of a validation plan.
type Config struct {
	// Name identifies the validated target in reports.
	Name string `mapstructure:"name"`

	// Kubeconfig is the kubeconfig path shared by kube and helm checks.
	Kubeconfig string `mapstructure:"kubeconfig"`

	Settings Settings      `mapstructure:"settings"`
	Phases   []PhaseConfig `mapstructure:"phases"`
}

// Settings holds run-wide tuning.
type Settings struct {
	// Concurrency bounds how many independent checks of a phase run at
	// once. Zero means the pipeline default.
	Concurrency int `mapstructure:"concurrency"`

	// Timeout bounds the whole run. Zero means no overall deadline.
	Timeout time.Duration `mapstructure:"timeout"`
}

// PhaseConfig declares one validation phase.
type PhaseConfig struct {
	Name         string        `mapstructure:"name"`
	DependsOn    string        `mapstructure:"depends_on"`
	ShortCircuit bool          `mapstructure:"short_circuit"`
	Checks       []CheckConfig `mapstructure:"checks"`
}

// CheckConfig declares one check: the probe type, its parameters, the
// retry policy, and how a terminal failure is classified.
type CheckConfig struct {
	Name string `mapstructure:"name"`
	Type string `mapstructure:"type"`

	// Advisory marks the checked condition as non-blocking: exhausted
	// retries classify as WARN instead of FAIL.
	Advisory bool `mapstructure:"advisory"`

	// Remediation is a template rendered with the captured failure
	// detail ({{.Probe}}, {{.Detail}}, {{.Attempts}}).
	Remediation string `mapstructure:"remediation"`

	Retry  *RetryConfig           `mapstructure:"retry"`
	Params map[string]interface{} `mapstructure:"params"`
}

// RetryConfig is the tiered backoff policy for one check. A check without
// one is invoked exactly once.
type RetryConfig struct {
	MaxAttempts int         `mapstructure:"max_attempts"`
	Tiers       []poll.Tier `mapstructure:"tiers"`
}

// ProbeTypes lists the supported check types.
var ProbeTypes = map[string]bool{
	"tcp":            true,
	"http":           true,
	"command":        true,
	"ssh":            true,
	"disk_space":     true,
	"kube_pods":      true,
	"kube_nodes":     true,
	"kube_endpoints": true,
	"kube_condition": true,
	"helm_release":   true,
	"hcloud_server":  true,
}

// DefaultProbeTimeout applies when a check declares no timeout of its own.
const DefaultProbeTimeout = 10 * time.Second
