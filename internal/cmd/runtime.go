package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/lh2mqtt/lh2mqtt/internal/app"
	"github.com/lh2mqtt/lh2mqtt/internal/pkg/config"
	apperrors "github.com/lh2mqtt/lh2mqtt/internal/pkg/errors"
	"github.com/lh2mqtt/lh2mqtt/internal/pkg/options"
	"github.com/lh2mqtt/lh2mqtt/internal/pkg/profile"
	"github.com/lh2mqtt/lh2mqtt/internal/pkg/relay"
	"github.com/lh2mqtt/lh2mqtt/internal/pkg/ui"
)

// newUIManager is a variable to allow replacing the terminal UI in tests.
var newUIManager = func(colorEnabled bool, out, errOut io.Writer) ui.Manager {
	m := ui.NewDefaultManager(colorEnabled)
	m.SetOutput(out, errOut)
	return m
}

// session bundles what every command needs.
type session struct {
	opts *options.Options
	log  *apperrors.Logger
	ui   ui.Manager
	out  io.Writer
}

// loadSession resolves options from flags and environment.
func loadSession(cmd *cobra.Command) (*session, error) {
	loader := options.NewLoader()
	if err := loader.BindFlags(cmd.Root()); err != nil {
		return nil, err
	}
	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		loader.Set(options.KeyColor, false)
	}

	opts, err := loader.Load()
	if err != nil {
		return nil, err
	}

	log := apperrors.NewLogger(cmd.ErrOrStderr(), opts.Verbose)
	log.Debug("Using configuration file: %s (backend %s)", opts.File, opts.Backend)

	return &session{
		opts: opts,
		log:  log,
		ui:   newUIManager(opts.Color, cmd.OutOrStdout(), cmd.ErrOrStderr()),
		out:  cmd.OutOrStdout(),
	}, nil
}

// openBackend opens the configured profile backend for path.
func (rt *session) openBackend(path string) (profile.Backend, error) {
	return profile.New(rt.opts.Backend, path)
}

// openFacade returns a facade whose backend has read the current file. The
// file is neither created nor repaired.
func (rt *session) openFacade() (*config.Facade, error) {
	backend, err := rt.openBackend(rt.opts.File)
	if err != nil {
		return nil, err
	}
	if err := backend.Load(); err != nil {
		return nil, err
	}
	return config.NewFacade(backend, rt.opts.File, rt.log), nil
}

// newPlugin creates a plugin printing channel messages to the command output.
func (rt *session) newPlugin(opts ...relay.Option) *app.Plugin {
	return rt.newPluginWith(channelPrinter{w: rt.out}, opts...)
}

func (rt *session) newPluginWith(printer relay.Printer, opts ...relay.Option) *app.Plugin {
	return app.NewPlugin(rt.openBackend, printer, rt.log, opts...)
}

// channelPrinter writes channel-tab messages as lines.
type channelPrinter struct {
	w io.Writer
}

func (p channelPrinter) PrintChannel(message string) {
	fmt.Fprintln(p.w, message)
}
