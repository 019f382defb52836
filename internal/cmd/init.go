package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	apperrors "github.com/lh2mqtt/lh2mqtt/internal/pkg/errors"
)

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create or repair the configuration file",
		Long: `Run the plugin start-up sequence on the configuration file.

A missing file is created with default values and a random topic token.
Missing LOG_MQTT_MSG and LANGUAGE entries are added. The file is created
with permissions 0600 (user read/write only) as it may hold a broker password.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadSession(cmd)
			if err != nil {
				return err
			}

			dir := filepath.Dir(rt.opts.File)
			if err := os.MkdirAll(dir, 0o700); err != nil {
				return apperrors.NewWriteFailureError(dir, err)
			}

			plugin := rt.newPlugin()
			if err := plugin.Init(rt.opts.File); err != nil {
				return err
			}

			rt.ui.ShowSuccess(fmt.Sprintf("Configuration ready at %s", rt.opts.File))
			mqtt := plugin.Settings().MQTT
			warnCredentials(rt, mqtt.User, mqtt.Password, mqtt.Cafile)
			warnPublisher(rt, mqtt)
			return nil
		},
	}
}
