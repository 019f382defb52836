package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lh2mqtt/lh2mqtt/internal/pkg/codec"
	"github.com/lh2mqtt/lh2mqtt/internal/pkg/config"
	apperrors "github.com/lh2mqtt/lh2mqtt/internal/pkg/errors"
	"github.com/lh2mqtt/lh2mqtt/internal/pkg/pathcheck"
	"github.com/lh2mqtt/lh2mqtt/internal/pkg/schema"
	"github.com/lh2mqtt/lh2mqtt/internal/pkg/security"
	"github.com/lh2mqtt/lh2mqtt/internal/pkg/store"
	"github.com/lh2mqtt/lh2mqtt/internal/pkg/ui"
)

// NewConfigCmd creates the config command and its subcommands.
func NewConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and modify lh2mqtt.ini",
		Long: `Inspect and modify the lh2mqtt plugin configuration.

Fields are addressed as SECTION.KEY, e.g. MQTT.HOST or GENERAL.LANGUAGE.
Values longer than the field allows are truncated. The plugin picks up
changes after "Konfiguration neu laden" in the plugins menu.`,
	}

	configCmd.AddCommand(newConfigPathCmd())
	configCmd.AddCommand(newConfigGetCmd())
	configCmd.AddCommand(newConfigSetCmd())
	configCmd.AddCommand(newConfigListCmd())
	configCmd.AddCommand(newConfigShowCmd())
	configCmd.AddCommand(newConfigEditCmd())
	configCmd.AddCommand(newConfigExportCmd())

	return configCmd
}

// newConfigPathCmd creates the 'config path' subcommand.
func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadSession(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintln(rt.out, rt.opts.File)
			return nil
		},
	}
}

// newConfigGetCmd creates the 'config get' subcommand.
func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <SECTION.KEY>",
		Short: "Print one configuration value",
		Long: `Print the stored value of one field. Passwords are printed as-is.

Examples:
  lh2mqtt config get MQTT.HOST
  lh2mqtt config get general.language`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			field, err := parseFieldKey(args[0])
			if err != nil {
				return err
			}

			rt, err := loadSession(cmd)
			if err != nil {
				return err
			}
			if err := requireFile(rt.opts.File); err != nil {
				return err
			}
			f, err := rt.openFacade()
			if err != nil {
				return err
			}

			value, err := f.Get(string(field.Section), field.Name)
			if err != nil {
				return err
			}
			fmt.Fprintln(rt.out, value)
			return nil
		},
	}
}

// newConfigSetCmd creates the 'config set' subcommand.
func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <SECTION.KEY> <value>",
		Short: "Set a configuration value",
		Long: `Set one field and write the file.

Examples:
  lh2mqtt config set MQTT.HOST broker.example.org
  lh2mqtt config set MQTT.SEND_START 1
  lh2mqtt config set CHANNELTAB.COLOR_START "#FF0000"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			field, err := parseFieldKey(args[0])
			if err != nil {
				return err
			}

			rt, err := loadSession(cmd)
			if err != nil {
				return err
			}
			if err := requireFile(rt.opts.File); err != nil {
				return err
			}
			f, err := rt.openFacade()
			if err != nil {
				return err
			}

			truncated, err := f.Set(string(field.Section), field.Name, args[1])
			if err != nil {
				return err
			}
			if err := f.Flush(); err != nil {
				return err
			}

			value, _ := field.Truncate(args[1])
			if field.Sensitive {
				value = apperrors.MaskSecret(value)
			}
			if truncated {
				rt.ui.ShowWarning(fmt.Sprintf("%s truncated to %d characters", field.Key, field.MaxLen()))
			}
			rt.ui.ShowSuccess(fmt.Sprintf("Set %s = %s", field.Key, value))
			return nil
		},
	}
}

// newConfigListCmd creates the 'config list' subcommand.
func newConfigListCmd() *cobra.Command {
	var showSecrets bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all configuration values",
		Long: `Print every field as [SECTION]KEY=value in file order.

The broker password is masked unless --show-secrets is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, f, err := openExisting(cmd)
			if err != nil {
				return err
			}

			for _, e := range f.Snapshot().Entries() {
				value := e.Value
				if e.Field.Sensitive && !showSecrets {
					value = apperrors.MaskSecret(value)
				}
				fmt.Fprintf(rt.out, "%s=%s\n", e.Field.Key, value)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "Print the broker password in clear text")
	return cmd
}

// newConfigShowCmd creates the 'config show' subcommand.
func newConfigShowCmd() *cobra.Command {
	var showSecrets bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Render the configuration with security hints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, f, err := openExisting(cmd)
			if err != nil {
				return err
			}

			snap := f.Snapshot()
			rt.ui.RenderSettings(rt.opts.File, snap.Entries(), showSecrets)

			mqtt := mqttSettings(snap)
			warnCredentials(rt, mqtt.User, mqtt.Password, mqtt.Cafile)
			warnPublisher(rt, mqtt)
			return nil
		},
	}

	cmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "Print the broker password in clear text")
	return cmd
}

// newConfigEditCmd creates the 'config edit' subcommand.
func newConfigEditCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit the configuration interactively",
		Long: `Open a form with every field of lh2mqtt.ini.

Input is limited to the length each field can store. Changed fields are
written after confirmation.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, f, err := openExisting(cmd)
			if err != nil {
				return err
			}

			changes, err := rt.ui.EditFields(f.Snapshot().Entries())
			if err != nil {
				return err
			}
			if len(changes) == 0 {
				rt.ui.ShowSuccess("No changes")
				return nil
			}

			if !yes {
				confirmed, err := rt.ui.PromptConfirm(fmt.Sprintf("Write %d change(s) to %s?", len(changes), rt.opts.File))
				if err != nil {
					return fmt.Errorf("failed to prompt user: %w", err)
				}
				if !confirmed {
					rt.ui.ShowWarning("Changes discarded")
					return nil
				}
			}

			if err := applyChanges(f, changes); err != nil {
				return err
			}
			rt.ui.ShowSuccess(fmt.Sprintf("%d change(s) written to %s", len(changes), rt.opts.File))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Write changes without confirmation")
	return cmd
}

// newConfigExportCmd creates the 'config export' subcommand.
func newConfigExportCmd() *cobra.Command {
	var (
		format      string
		showSecrets bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the configuration as ini, json, yaml or toml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ft, err := codec.ParseFormat(format)
			if err != nil {
				return err
			}

			rt, f, err := openExisting(cmd)
			if err != nil {
				return err
			}

			snap := f.Snapshot()
			if !showSecrets {
				snap = maskSecrets(snap)
			}
			return codec.Export(rt.out, snap, ft)
		},
	}

	cmd.Flags().StringVar(&format, "format", string(codec.FormatINI), "Output format: ini, json, yaml or toml")
	cmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "Export the broker password in clear text")
	return cmd
}

// parseFieldKey resolves SECTION.KEY. Names are matched in upper case.
func parseFieldKey(arg string) (schema.Field, error) {
	section, key, ok := strings.Cut(arg, ".")
	if !ok || section == "" || key == "" {
		return schema.Field{}, apperrors.NewInvalidArgumentsError(
			fmt.Sprintf("invalid field %q: expected SECTION.KEY", arg)).
			WithSuggestion("Run 'lh2mqtt config list' to see all fields")
	}

	section, key = strings.ToUpper(section), strings.ToUpper(key)
	field, found := schema.Lookup(section, key)
	if !found {
		return schema.Field{}, apperrors.NewUnrecognizedKeyError(section, key)
	}
	return field, nil
}

// requireFile fails when the configuration file has not been created yet.
func requireFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return apperrors.NewInvalidArgumentsError(fmt.Sprintf("configuration file not found: %s", path)).
				WithSuggestion("Run 'lh2mqtt init' first")
		}
		return apperrors.NewReadFailureError(path, err)
	}
	return nil
}

// openExisting loads the runtime and a facade for an existing file.
func openExisting(cmd *cobra.Command) (*session, *config.Facade, error) {
	rt, err := loadSession(cmd)
	if err != nil {
		return nil, nil, err
	}
	if err := requireFile(rt.opts.File); err != nil {
		return nil, nil, err
	}
	f, err := rt.openFacade()
	if err != nil {
		return nil, nil, err
	}
	return rt, f, nil
}

// applyChanges writes every change and flushes once.
func applyChanges(f *config.Facade, changes []ui.Change) error {
	for _, c := range changes {
		if _, err := f.Set(string(c.Field.Section), c.Field.Name, c.New); err != nil {
			return err
		}
	}
	return f.Flush()
}

// maskSecrets returns a copy of s with sensitive values masked.
func maskSecrets(s *store.Store) *store.Store {
	masked := s.Clone()
	for _, e := range masked.Entries() {
		if e.Field.Sensitive {
			_, _ = masked.Set(string(e.Field.Section), e.Field.Name, apperrors.MaskSecret(e.Value))
		}
	}
	return masked
}

// warnCredentials shows credential and file permission hints.
func warnCredentials(rt *session, user, password, cafile string) {
	for _, w := range security.CredentialWarnings(user, password, cafile) {
		rt.ui.ShowWarning(w)
	}
	if msg, err := security.FilePermissionWarning(rt.opts.File, password != ""); err == nil && msg != "" {
		rt.ui.ShowWarning(msg)
	}
}

// warnPublisher checks [MQTT]PATH when publishing is enabled.
func warnPublisher(rt *session, m config.MQTTSettings) {
	if !m.SendStartEnabled() && !m.SendStopEnabled() {
		return
	}
	if r := pathcheck.Check(m.Path); !r.OK() {
		rt.ui.ShowWarning(r.Message())
	}
}

// mqttSettings extracts the [MQTT] section of a snapshot.
func mqttSettings(s *store.Store) config.MQTTSettings {
	get := func(key string) string {
		v, _ := s.Get(string(schema.SectionMQTT), key)
		return v
	}
	return config.MQTTSettings{
		Path:       get("PATH"),
		Host:       get("HOST"),
		Port:       get("PORT"),
		User:       get("USER"),
		Password:   get("PASSWORD"),
		Qos:        get("QOS"),
		Cafile:     get("CAFILE"),
		SendStart:  get("SEND_START"),
		SendStop:   get("SEND_STOP"),
		TopicStart: get("TOPIC_START"),
		TopicStop:  get("TOPIC_STOP"),
	}
}
