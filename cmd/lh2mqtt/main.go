// Package main is the entry point for the lh2mqtt CLI application.
// lh2mqtt manages the configuration of the lh2mqtt TeamSpeak 3 plugin and
// replays talk events against the configured MQTT broker.
package main

import (
	"fmt"
	"os"

	"github.com/lh2mqtt/lh2mqtt/internal/cmd"
	apperrors "github.com/lh2mqtt/lh2mqtt/internal/pkg/errors"
)

// Version information - set via ldflags during build
var (
	version = "1.26.2"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := cmd.NewRootCmd(version, commit, date)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, apperrors.FormatError(err))
		os.Exit(apperrors.GetExitCode(err))
	}
}
