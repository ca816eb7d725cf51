package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// ServerLister is the subset of the hcloud server API the probe needs.
type ServerLister interface {
	GetByName(ctx context.Context, name string) (*hcloud.Server, *hcloud.Response, error)
}

// HCloudServer checks that a cloud server exists and has booted
// (status running). Used to monitor VM boot before SSH is attempted.
type HCloudServer struct {
	Name    string        `mapstructure:"-"`
	Server  string        `mapstructure:"server"`
	Token   string        `mapstructure:"-"`
	Timeout time.Duration `mapstructure:"timeout"`

	// Servers is injected in tests; defaults to a real hcloud client
	// built from Token.
	Servers ServerLister `mapstructure:"-"`
}

func (p *HCloudServer) ID() string { return p.Name }

func (p *HCloudServer) Describe() string {
	return fmt.Sprintf("hcloud server %s running", p.Server)
}

func (p *HCloudServer) Invoke(ctx context.Context) Outcome {
	return run(ctx, p.Timeout, func(ctx context.Context) Outcome {
		servers := p.Servers
		if servers == nil {
			client := hcloud.NewClient(hcloud.WithToken(p.Token))
			servers = &client.Server
		}

		server, _, err := servers.GetByName(ctx, p.Server)
		if err != nil {
			return FailErr(err)
		}
		if server == nil {
			return Failf("server %s not found", p.Server)
		}

		if server.Status != hcloud.ServerStatusRunning {
			return Failf("server %s is %s", p.Server, server.Status)
		}
		return Passf("server %s running", p.Server)
	})
}
