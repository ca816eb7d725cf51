package probe

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"
)

// HTTP checks that an endpoint responds with one of the expected status
// codes, optionally requiring a substring in the response body.
type HTTP struct {
	Name            string        `mapstructure:"-"`
	URL             string        `mapstructure:"url"`
	Method          string        `mapstructure:"method"`
	ExpectedStatus  []int         `mapstructure:"expected_status"`
	BodyContains    string        `mapstructure:"body_contains"`
	InsecureSkipTLS bool          `mapstructure:"insecure_skip_tls"`
	Timeout         time.Duration `mapstructure:"timeout"`

	transportOnce sync.Once
	transport     *http.Transport
}

func (p *HTTP) ID() string { return p.Name }

func (p *HTTP) Describe() string {
	return fmt.Sprintf("HTTP %s %s", p.method(), p.URL)
}

func (p *HTTP) Invoke(ctx context.Context) Outcome {
	return run(ctx, p.Timeout, func(ctx context.Context) Outcome {
		req, err := http.NewRequestWithContext(ctx, p.method(), p.URL, nil)
		if err != nil {
			return Failf("invalid request: %v", err)
		}

		client := &http.Client{}
		if p.InsecureSkipTLS {
			client.Transport = p.insecureTransport()
		}

		resp, err := client.Do(req)
		if err != nil {
			return FailErr(err)
		}
		defer resp.Body.Close()

		expected := p.ExpectedStatus
		if len(expected) == 0 {
			expected = []int{http.StatusOK}
		}
		if !slices.Contains(expected, resp.StatusCode) {
			return Failf("unexpected status %d (want one of %v)", resp.StatusCode, expected)
		}

		if p.BodyContains != "" {
			body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
			if err != nil {
				return Failf("failed to read body: %v", err)
			}
			if !strings.Contains(string(body), p.BodyContains) {
				return Failf("status %d but body does not contain %q", resp.StatusCode, p.BodyContains)
			}
		}

		return Passf("status %d in %s", resp.StatusCode, resp.Request.URL.Host)
	})
}

// insecureTransport is built once per probe so repeated attempts reuse
// the same connection pool instead of stranding idle TLS connections.
func (p *HTTP) insecureTransport() *http.Transport {
	p.transportOnce.Do(func() {
		p.transport = &http.Transport{
			// #nosec G402
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	})
	return p.transport
}

func (p *HTTP) method() string {
	if p.Method == "" {
		return http.MethodGet
	}
	return strings.ToUpper(p.Method)
}
