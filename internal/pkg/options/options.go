// Package options resolves the command-line tool's own settings from flags,
// environment variables and defaults.
package options

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lh2mqtt/lh2mqtt/internal/pkg/profile"
)

const (
	// EnvPrefix prefixes every environment variable, e.g. LH2MQTT_FILE.
	EnvPrefix = "LH2MQTT"
	// FileName is the configuration file name inside the plugins directory.
	FileName = "lh2mqtt.ini"
)

// Keys of the option table.
const (
	KeyFile    = "file"
	KeyBackend = "backend"
	KeyVerbose = "verbose"
	KeyColor   = "color"
)

// Options is the resolved tool configuration.
type Options struct {
	File    string       `mapstructure:"file"`
	Backend profile.Kind `mapstructure:"backend"`
	Verbose bool         `mapstructure:"verbose"`
	Color   bool         `mapstructure:"color"`
}

// Loader resolves Options. Priority: flags > env > defaults.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a loader with defaults and environment bindings.
func NewLoader() *Loader {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindEnvVars(v)

	return &Loader{v: v}
}

// setDefaults sets the default option values.
func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyFile, "")
	v.SetDefault(KeyBackend, string(profile.KindAuto))
	v.SetDefault(KeyVerbose, false)
	v.SetDefault(KeyColor, true)
}

// bindEnvVars binds the environment variables explicitly so Unmarshal sees them.
func bindEnvVars(v *viper.Viper) {
	_ = v.BindEnv(KeyFile, EnvPrefix+"_FILE")
	_ = v.BindEnv(KeyBackend, EnvPrefix+"_BACKEND")
	_ = v.BindEnv(KeyVerbose, EnvPrefix+"_VERBOSE")
	_ = v.BindEnv(KeyColor, EnvPrefix+"_COLOR")
}

// BindFlags binds the persistent flags of cmd that share a key with the
// option table. Flags that are not defined are skipped.
func (l *Loader) BindFlags(cmd *cobra.Command) error {
	for _, key := range []string{KeyFile, KeyBackend, KeyVerbose, KeyColor} {
		flag := cmd.PersistentFlags().Lookup(key)
		if flag == nil {
			continue
		}
		if err := l.v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", key, err)
		}
	}
	return nil
}

// Set overrides a key for this loader only.
func (l *Loader) Set(key string, value interface{}) {
	l.v.Set(key, value)
}

// Load resolves the options and fills in the default file path.
func (l *Loader) Load() (*Options, error) {
	var opts Options
	if err := l.v.Unmarshal(&opts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal options: %w", err)
	}

	kind, err := profile.ParseKind(string(opts.Backend))
	if err != nil {
		return nil, err
	}
	opts.Backend = kind

	if opts.File == "" {
		path, err := DefaultFilePath()
		if err != nil {
			return nil, err
		}
		opts.File = path
	}
	opts.File = expandHome(opts.File)

	return &opts, nil
}

// DefaultPluginsDir returns the TeamSpeak 3 client plugins directory.
func DefaultPluginsDir() (string, error) {
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "TS3Client", "plugins"), nil
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(homeDir, "AppData", "Roaming", "TS3Client", "plugins"), nil
	}
	return filepath.Join(homeDir, ".ts3client", "plugins"), nil
}

// DefaultFilePath returns the default configuration file path.
func DefaultFilePath() (string, error) {
	dir, err := DefaultPluginsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(homeDir, strings.TrimPrefix(path, "~"))
}
