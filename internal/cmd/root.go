// Package cmd contains the CLI command definitions for lh2mqtt.
package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the lh2mqtt CLI.
func NewRootCmd(version, commitHash, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lh2mqtt",
		Short: "LastHeard relay configuration and test tool",
		Long: `lh2mqtt manages the configuration of the lh2mqtt TeamSpeak 3 plugin.

The plugin announces the currently speaking user (LastHeard) in the channel
tab and publishes it to an MQTT broker through mosquitto_pub. This tool
creates and repairs lh2mqtt.ini, edits single values, and replays talk
events against the configured broker.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Set version template
	rootCmd.SetVersionTemplate(`lh2mqtt {{.Version}}
Commit: ` + commitHash + `
Built:  ` + date + "\n")

	// Global flags
	rootCmd.PersistentFlags().StringP("file", "f", "", "Configuration file (default: <TeamSpeak plugins dir>/lh2mqtt.ini)")
	rootCmd.PersistentFlags().String("backend", "", "Profile backend: auto, file or native")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	rootCmd.AddCommand(NewInitCmd())
	rootCmd.AddCommand(NewConfigCmd())
	rootCmd.AddCommand(NewTalkCmd())
	rootCmd.AddCommand(NewWatchCmd())
	rootCmd.AddCommand(NewAboutCmd())

	return rootCmd
}
