// Package main is the entry point for the deskforge CLI.
//
// deskforge provisions Windows cloud workstations on AWS EC2 or Azure,
// pre-configured with a network-filesystem client, and manages their
// lifecycle: deploy, credential rollout, remote-desktop connection files,
// stop/start and destroy.
//
// Commands: init, config, deploy, status, connect, start, stop, destroy,
// doctor, version.
//
// For detailed usage information, run:
//
//	deskforge --help
package main

import (
	"fmt"
	"os"

	"github.com/deskforge/deskforge/cmd/deskforge/commands"
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
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
