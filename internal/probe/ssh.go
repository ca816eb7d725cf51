package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"
)

// SSH checks that a host accepts an SSH connection and that a shell
// command executes successfully over it. Each invocation dials a fresh
// connection; retry scheduling belongs to the poller, not the probe.
type SSH struct {
	Name           string        `mapstructure:"-"`
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	User           string        `mapstructure:"user"`
	PrivateKeyPath string        `mapstructure:"private_key"`
	Cmd            string        `mapstructure:"command"`
	ExpectOutput   string        `mapstructure:"expect_output"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

func (p *SSH) ID() string { return p.Name }

func (p *SSH) Describe() string {
	return fmt.Sprintf("SSH %s@%s", p.User, p.Host)
}

func (p *SSH) Invoke(ctx context.Context) Outcome {
	return run(ctx, p.Timeout, func(ctx context.Context) Outcome {
		// #nosec G304
		key, err := os.ReadFile(p.PrivateKeyPath)
		if err != nil {
			return Failf("failed to read private key: %v", err)
		}

		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			return Failf("failed to parse private key: %v", err)
		}

		config := &ssh.ClientConfig{
			User: p.User,
			Auth: []ssh.AuthMethod{
				ssh.PublicKeys(signer),
			},
			HostKeyCallback: ssh.InsecureIgnoreHostKey(), // #nosec G106
			Timeout:         p.dialTimeout(ctx),
		}

		client, err := ssh.Dial("tcp", p.addr(), config)
		if err != nil {
			return FailErr(err)
		}
		defer client.Close()

		session, err := client.NewSession()
		if err != nil {
			return Failf("failed to create session: %v", err)
		}
		defer session.Close()

		command := p.Cmd
		if command == "" {
			command = "echo ready"
		}

		// CombinedOutput cannot be interrupted directly; closing the
		// client unblocks it when the deadline passes, so a shell that
		// accepts the session but never returns cannot hang the poller.
		type execResult struct {
			output []byte
			err    error
		}
		resCh := make(chan execResult, 1)
		go func() {
			output, err := session.CombinedOutput(command)
			resCh <- execResult{output: output, err: err}
		}()

		var output []byte
		var runErr error
		select {
		case <-ctx.Done():
			_ = client.Close()
			return FailErr(ctx.Err())
		case r := <-resCh:
			output, runErr = r.output, r.err
		}

		text := strings.TrimSpace(string(output))
		if runErr != nil {
			out := Failf("remote command failed: %v", runErr)
			var exitErr *ssh.ExitError
			if errors.As(runErr, &exitErr) {
				code := exitErr.ExitStatus()
				out.ExitCode = &code
			}
			return out
		}

		if p.ExpectOutput != "" && !strings.Contains(text, p.ExpectOutput) {
			return Failf("shell responded but output does not contain %q", p.ExpectOutput)
		}

		return Passf("shell responding on %s", p.addr())
	})
}

func (p *SSH) addr() string {
	port := p.Port
	if port == 0 {
		port = 22
	}
	return net.JoinHostPort(p.Host, fmt.Sprintf("%d", port))
}

// dialTimeout bounds the TCP/handshake phase by the remaining context
// deadline so a single dial can never outlive the probe timeout.
func (p *SSH) dialTimeout(ctx context.Context) time.Duration {
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining > 0 {
			return remaining
		}
	}
	return 10 * time.Second
}
