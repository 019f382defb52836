package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lh2mqtt/lh2mqtt/internal/pkg/relay"
)

// TalkFlags holds the flags for the talk command.
type TalkFlags struct {
	DryRun bool
}

// NewTalkCmd creates the talk command.
func NewTalkCmd() *cobra.Command {
	flags := &TalkFlags{}

	cmd := &cobra.Command{
		Use:   "talk <start|stop> <name>",
		Short: "Replay a talk status change",
		Long: `Handle a talk start or stop of a client the way the plugin does.

The channel-tab message is printed to stdout when SHOW_START/SHOW_STOP is
enabled, and mosquitto_pub is run when SEND_START/SEND_STOP is enabled.

Examples:
  lh2mqtt talk start "Little.Ben"
  lh2mqtt talk stop "Little.Ben" --dry-run`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTalk(cmd, args[0], args[1], flags)
		},
	}

	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "Log the publisher command instead of running it")

	return cmd
}

// runTalk executes the talk command logic.
func runTalk(cmd *cobra.Command, statusName, name string, flags *TalkFlags) error {
	status, err := relay.ParseStatus(statusName)
	if err != nil {
		return err
	}

	rt, err := loadSession(cmd)
	if err != nil {
		return err
	}

	// Channel messages are held back until the spinner is gone.
	printer := &bufferedPrinter{}
	plugin := rt.newPluginWith(printer, relay.WithDryRun(flags.DryRun))
	if err := plugin.Init(rt.opts.File); err != nil {
		return err
	}
	if !flags.DryRun {
		warnPublisher(rt, plugin.Settings().MQTT)
	}

	spinner := rt.ui.ShowSpinner(fmt.Sprintf("Relaying talk %s of %s...", status, name))
	spinner.Start()
	err = plugin.OnTalkStatus(cmd.Context(), status, name)
	spinner.Stop()

	for _, msg := range printer.messages {
		fmt.Fprintln(rt.out, msg)
	}
	return err
}

// bufferedPrinter collects channel messages.
type bufferedPrinter struct {
	messages []string
}

func (p *bufferedPrinter) PrintChannel(message string) {
	p.messages = append(p.messages, message)
}
