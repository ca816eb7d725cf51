package probe

import (
	"context"
	"fmt"
	"sync"
	"time"

	"helm.sh/helm/v3/pkg/action"
	"helm.sh/helm/v3/pkg/kube"
	"helm.sh/helm/v3/pkg/release"
)

// HelmRelease checks that a Helm release exists and has status deployed.
type HelmRelease struct {
	Name       string        `mapstructure:"-"`
	Kubeconfig string        `mapstructure:"kubeconfig"`
	Namespace  string        `mapstructure:"namespace"`
	Release    string        `mapstructure:"release"`
	Timeout    time.Duration `mapstructure:"timeout"`

	// statusFn is swapped in tests; the default runs a helm status
	// action against the cluster.
	statusFn func() (*release.Release, error)
	initOnce sync.Once
	initErr  error
}

func (p *HelmRelease) ID() string { return p.Name }

func (p *HelmRelease) Describe() string {
	return fmt.Sprintf("helm release %s/%s deployed", p.Namespace, p.Release)
}

func (p *HelmRelease) Invoke(ctx context.Context) Outcome {
	return run(ctx, p.Timeout, func(ctx context.Context) Outcome {
		p.initOnce.Do(p.init)
		if p.initErr != nil {
			return Failf("helm setup failed: %v", p.initErr)
		}

		// The status action has no cancellation hook, so it runs in a
		// goroutine and is abandoned when the deadline passes. A hung
		// API server must not block the poller.
		type statusResult struct {
			rel *release.Release
			err error
		}
		resCh := make(chan statusResult, 1)
		go func() {
			rel, err := p.statusFn()
			resCh <- statusResult{rel: rel, err: err}
		}()

		var rel *release.Release
		select {
		case <-ctx.Done():
			return FailErr(ctx.Err())
		case r := <-resCh:
			if r.err != nil {
				return Failf("release %s not found in %s: %v", p.Release, p.Namespace, r.err)
			}
			rel = r.rel
		}

		status := release.StatusUnknown
		if rel.Info != nil {
			status = rel.Info.Status
		}
		if status != release.StatusDeployed {
			return Failf("release %s has status %s", p.Release, status)
		}
		return Passf("release %s deployed (revision %d)", p.Release, rel.Version)
	})
}

// init builds the helm action configuration once per probe definition.
// The status action itself opens fresh connections per invocation.
func (p *HelmRelease) init() {
	if p.statusFn != nil {
		return
	}

	actionConfig := new(action.Configuration)
	getter := kube.GetConfig(p.Kubeconfig, "", p.Namespace)
	if err := actionConfig.Init(getter, p.Namespace, "secret", func(format string, v ...interface{}) {}); err != nil {
		p.initErr = fmt.Errorf("failed to initialize helm action config: %w", err)
		return
	}

	p.statusFn = func() (*release.Release, error) {
		status := action.NewStatus(actionConfig)
		return status.Run(p.Release)
	}
}
