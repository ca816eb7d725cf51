// Package main is the entry point for the readygate CLI.
//
// readygate is a deployment-readiness gate: it probes an already-deploying
// system (hosts, VMs, Kubernetes, services) until it is ready or provably
// not, and reports the result to humans and CI systems.
//
// Commands: run, init, version, completion.
//
// For detailed usage information, run:
//
//	readygate --help
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/arnevik/readygate/cmd/readygate/commands"
	"github.com/arnevik/readygate/cmd/readygate/handlers"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		var exitErr *handlers.ExitError
		if errors.As(err, &exitErr) {
			if exitErr.Message != "" {
				fmt.Fprintln(os.Stderr, exitErr.Message)
			}
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
