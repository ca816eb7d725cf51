package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot(t *testing.T) {
	cmd := Root()

	require.NotNil(t, cmd)
	assert.Equal(t, "readygate", cmd.Use)
	assert.True(t, cmd.SilenceUsage)
	assert.True(t, cmd.SilenceErrors)
}

func TestRoot_HasSubcommands(t *testing.T) {
	cmd := Root()

	expectedSubcommands := []string{
		"run",
		"init",
		"version",
		"completion",
	}

	subcommands := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		subcommands[sub.Name()] = true
	}

	for _, expected := range expectedSubcommands {
		assert.True(t, subcommands[expected], "Expected subcommand %s not found", expected)
	}
}

func TestRunCommandFlags(t *testing.T) {
	cmd := Run()

	for _, flag := range []string{"config", "json-report", "md-report", "metrics-file", "upload", "output", "timeout", "live", "verbose"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %s not registered", flag)
	}

	assert.Equal(t, "readygate.yaml", cmd.Flags().Lookup("config").DefValue)
}

func TestInitCommandFlags(t *testing.T) {
	cmd := Init()

	flag := cmd.Flags().Lookup("output")
	require.NotNil(t, flag)
	assert.Equal(t, "readygate.yaml", flag.DefValue)
}
