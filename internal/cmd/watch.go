package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lh2mqtt/lh2mqtt/internal/pkg/watch"
)

// NewWatchCmd creates the watch command.
func NewWatchCmd() *cobra.Command {
	var delay time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reload the configuration whenever the file changes",
		Long: `Run the start-up sequence, then reload lh2mqtt.ini each time it is
written or replaced. Bursts of changes are coalesced. Stop with Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadSession(cmd)
			if err != nil {
				return err
			}

			plugin := rt.newPlugin()
			if err := plugin.Init(rt.opts.File); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			w := watch.New(rt.opts.File, watch.WithDelay(delay), watch.WithLogger(rt.log))
			rt.ui.ShowSuccess(fmt.Sprintf("Watching %s (Ctrl+C to stop)", rt.opts.File))

			return w.Run(ctx, func() {
				if err := plugin.Reload(); err != nil {
					rt.ui.ShowError(err)
					return
				}
				rt.ui.ShowSuccess(plugin.Texts().ReloadHint)
			})
		},
	}

	cmd.Flags().DurationVar(&delay, "delay", watch.DefaultDelay, "Quiet period before a reload")

	return cmd
}
