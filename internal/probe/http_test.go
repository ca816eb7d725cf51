package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPDefaultsToStatusOK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	p := &HTTP{Name: "health", URL: server.URL, Timeout: 2 * time.Second}

	out := p.Invoke(context.Background())
	assert.True(t, out.Success)
	assert.Contains(t, out.Detail, "status 200")
}

func TestHTTPUnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	p := &HTTP{Name: "health", URL: server.URL, Timeout: 2 * time.Second}

	out := p.Invoke(context.Background())
	assert.False(t, out.Success)
	assert.Contains(t, out.Detail, "unexpected status 503")
}

func TestHTTPCustomExpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	p := &HTTP{
		Name:           "auth-gate",
		URL:            server.URL,
		ExpectedStatus: []int{401, 403},
		Timeout:        2 * time.Second,
	}

	out := p.Invoke(context.Background())
	assert.True(t, out.Success)
}

func TestHTTPBodyContains(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	}))
	defer server.Close()

	tests := []struct {
		name    string
		needle  string
		success bool
	}{
		{"substring present", "healthy", true},
		{"substring missing", "degraded", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &HTTP{Name: "api", URL: server.URL, BodyContains: tt.needle, Timeout: 2 * time.Second}
			out := p.Invoke(context.Background())
			assert.Equal(t, tt.success, out.Success)
		})
	}
}

func TestHTTPConnectionError(t *testing.T) {
	p := &HTTP{Name: "down", URL: "http://127.0.0.1:1", Timeout: time.Second}

	out := p.Invoke(context.Background())
	assert.False(t, out.Success)
	assert.NotEmpty(t, out.Detail)
}

func TestHTTPInsecureSkipTLSReusesTransport(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	p := &HTTP{
		Name:            "self-signed",
		URL:             server.URL,
		InsecureSkipTLS: true,
		Timeout:         2 * time.Second,
	}

	out := p.Invoke(context.Background())
	assert.True(t, out.Success)
	first := p.transport
	require.NotNil(t, first)

	out = p.Invoke(context.Background())
	assert.True(t, out.Success)
	assert.Same(t, first, p.transport)
}

func TestHTTPMethodDefaultsToGet(t *testing.T) {
	p := &HTTP{Name: "api", URL: "http://example.com"}
	assert.Equal(t, "HTTP GET http://example.com", p.Describe())

	p.Method = "post"
	assert.Equal(t, "HTTP POST http://example.com", p.Describe())
}
