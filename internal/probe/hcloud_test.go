package probe

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
	"github.com/stretchr/testify/assert"
)

type fakeServerLister struct {
	server *hcloud.Server
	err    error
}

func (f *fakeServerLister) GetByName(context.Context, string) (*hcloud.Server, *hcloud.Response, error) {
	return f.server, nil, f.err
}

func TestHCloudServerRunning(t *testing.T) {
	p := &HCloudServer{
		Name:    "cp-1",
		Server:  "control-plane-1",
		Timeout: 2 * time.Second,
		Servers: &fakeServerLister{server: &hcloud.Server{Name: "control-plane-1", Status: hcloud.ServerStatusRunning}},
	}

	out := p.Invoke(context.Background())
	assert.True(t, out.Success)
	assert.Contains(t, out.Detail, "running")
}

func TestHCloudServerNotRunning(t *testing.T) {
	p := &HCloudServer{
		Name:    "cp-1",
		Server:  "control-plane-1",
		Timeout: 2 * time.Second,
		Servers: &fakeServerLister{server: &hcloud.Server{Status: hcloud.ServerStatusStarting}},
	}

	out := p.Invoke(context.Background())
	assert.False(t, out.Success)
	assert.Contains(t, out.Detail, "starting")
}

func TestHCloudServerMissing(t *testing.T) {
	p := &HCloudServer{
		Name:    "cp-1",
		Server:  "ghost",
		Timeout: 2 * time.Second,
		Servers: &fakeServerLister{},
	}

	out := p.Invoke(context.Background())
	assert.False(t, out.Success)
	assert.Contains(t, out.Detail, "not found")
}

func TestHCloudServerAPIError(t *testing.T) {
	p := &HCloudServer{
		Name:    "cp-1",
		Server:  "control-plane-1",
		Timeout: 2 * time.Second,
		Servers: &fakeServerLister{err: errors.New("hcloud: unauthorized")},
	}

	out := p.Invoke(context.Background())
	assert.False(t, out.Success)
	assert.Contains(t, out.Detail, "unauthorized")
}
