package probe

import (
	"context"
	"fmt"
	"net"
	"time"
)

// TCP checks that a TCP connection to host:port can be established.
type TCP struct {
	Name    string        `mapstructure:"-"`
	Host    string        `mapstructure:"host"`
	Port    int           `mapstructure:"port"`
	Timeout time.Duration `mapstructure:"timeout"`
}

func (p *TCP) ID() string { return p.Name }

func (p *TCP) Describe() string {
	return fmt.Sprintf("TCP connect to %s", p.addr())
}

func (p *TCP) Invoke(ctx context.Context) Outcome {
	return run(ctx, p.Timeout, func(ctx context.Context) Outcome {
		var d net.Dialer
		conn, err := d.DialContext(ctx, "tcp", p.addr())
		if err != nil {
			return FailErr(err)
		}
		_ = conn.Close()
		return Passf("port %d open on %s", p.Port, p.Host)
	})
}

func (p *TCP) addr() string {
	return net.JoinHostPort(p.Host, fmt.Sprintf("%d", p.Port))
}
