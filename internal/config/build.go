package config

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"

	"github.com/arnevik/readygate/internal/pipeline"
	"github.com/arnevik/readygate/internal/poll"
	"github.com/arnevik/readygate/internal/probe"
)

// Builder turns a validated plan into pipeline phases. Shared clients
// (kube, hcloud token) are resolved once and reused by every check that
// needs them.
type Builder struct {
	cfg         *Config
	kubeClients *probe.KubeClients
	hcloudToken string
}

// NewBuilder creates a builder for the plan.
func NewBuilder(cfg *Config) *Builder {
	return &Builder{
		cfg:         cfg,
		hcloudToken: os.Getenv("HCLOUD_TOKEN"),
	}
}

// Phases instantiates every declared check's probe and poller.
func (b *Builder) Phases() ([]pipeline.Phase, error) {
	phases := make([]pipeline.Phase, 0, len(b.cfg.Phases))
	for _, pc := range b.cfg.Phases {
		phase := pipeline.Phase{
			Name:         pc.Name,
			DependsOn:    pc.DependsOn,
			ShortCircuit: pc.ShortCircuit,
		}

		for _, check := range pc.Checks {
			member, err := b.buildMember(check)
			if err != nil {
				return nil, fmt.Errorf("%w: phase %q check %q: %v", ErrInvalid, pc.Name, check.Name, err)
			}
			phase.Members = append(phase.Members, member)
		}
		phases = append(phases, phase)
	}
	return phases, nil
}

// buildMember constructs one check's probe and polling policy.
func (b *Builder) buildMember(check CheckConfig) (pipeline.Member, error) {
	p, err := b.buildProbe(check)
	if err != nil {
		return pipeline.Member{}, err
	}

	member := pipeline.Member{
		Name:        check.Name,
		Probe:       p,
		Advisory:    check.Advisory,
		Remediation: check.Remediation,
	}

	if check.Retry != nil {
		member.Poller = poll.New(
			poll.WithTiers(check.Retry.Tiers),
			poll.WithMaxAttempts(check.Retry.MaxAttempts),
		)
	}
	return member, nil
}

// buildProbe decodes the check's params into the concrete probe type.
func (b *Builder) buildProbe(check CheckConfig) (probe.Probe, error) {
	switch check.Type {
	case "tcp":
		p := &probe.TCP{Name: check.Name, Timeout: DefaultProbeTimeout}
		return p, decodeParams(check.Params, p)

	case "http":
		p := &probe.HTTP{Name: check.Name, Timeout: DefaultProbeTimeout}
		return p, decodeParams(check.Params, p)

	case "command":
		p := &probe.Command{Name: check.Name, Timeout: DefaultProbeTimeout}
		return p, decodeParams(check.Params, p)

	case "ssh":
		p := &probe.SSH{Name: check.Name, Timeout: DefaultProbeTimeout}
		return p, decodeParams(check.Params, p)

	case "disk_space":
		p := &probe.DiskSpace{Name: check.Name, Timeout: DefaultProbeTimeout}
		return p, decodeParams(check.Params, p)

	case "kube_pods":
		clients, err := b.kube()
		if err != nil {
			return nil, err
		}
		p := &probe.KubePods{Name: check.Name, Clients: clients, Timeout: DefaultProbeTimeout}
		return p, decodeParams(check.Params, p)

	case "kube_nodes":
		clients, err := b.kube()
		if err != nil {
			return nil, err
		}
		p := &probe.KubeNodes{Name: check.Name, Clients: clients, Timeout: DefaultProbeTimeout}
		return p, decodeParams(check.Params, p)

	case "kube_endpoints":
		clients, err := b.kube()
		if err != nil {
			return nil, err
		}
		p := &probe.KubeEndpoints{Name: check.Name, Clients: clients, Timeout: DefaultProbeTimeout}
		return p, decodeParams(check.Params, p)

	case "kube_condition":
		clients, err := b.kube()
		if err != nil {
			return nil, err
		}
		p := &probe.KubeCondition{Name: check.Name, Clients: clients, Timeout: DefaultProbeTimeout}
		return p, decodeParams(check.Params, p)

	case "helm_release":
		p := &probe.HelmRelease{Name: check.Name, Kubeconfig: b.cfg.Kubeconfig, Timeout: 3 * DefaultProbeTimeout}
		return p, decodeParams(check.Params, p)

	case "hcloud_server":
		if b.hcloudToken == "" {
			return nil, fmt.Errorf("HCLOUD_TOKEN is not set")
		}
		p := &probe.HCloudServer{Name: check.Name, Token: b.hcloudToken, Timeout: DefaultProbeTimeout}
		return p, decodeParams(check.Params, p)

	default:
		return nil, fmt.Errorf("unknown check type %q", check.Type)
	}
}

// kube builds the shared Kubernetes clients on first use.
func (b *Builder) kube() (*probe.KubeClients, error) {
	if b.kubeClients != nil {
		return b.kubeClients, nil
	}
	if b.cfg.Kubeconfig == "" {
		return nil, fmt.Errorf("kubeconfig is required for kube checks")
	}

	clients, err := probe.NewKubeClients(b.cfg.Kubeconfig)
	if err != nil {
		return nil, err
	}
	b.kubeClients = clients
	return clients, nil
}

// decodeParams maps the free-form params block onto a probe struct,
// rejecting unknown keys.
func decodeParams(params map[string]interface{}, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return fmt.Errorf("failed to build decoder: %w", err)
	}
	if err := decoder.Decode(params); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}
	return nil
}
