// Package app contains the host-facing orchestration of the lh2mqtt plugin.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/lh2mqtt/lh2mqtt/internal/pkg/config"
	apperrors "github.com/lh2mqtt/lh2mqtt/internal/pkg/errors"
	"github.com/lh2mqtt/lh2mqtt/internal/pkg/profile"
	"github.com/lh2mqtt/lh2mqtt/internal/pkg/relay"
)

// BackendFactory opens the profile backend for a configuration file.
type BackendFactory func(path string) (profile.Backend, error)

// Plugin ties the configuration lifecycle to talk-status events.
//
// Init, Reload and OnTalkStatus are serialized, so a file watcher may call
// Reload while events are being handled.
type Plugin struct {
	mu         sync.Mutex
	newBackend BackendFactory
	relay      *relay.Relay
	log        *apperrors.Logger
	now        func() time.Time

	facade   *config.Facade
	settings config.Settings
}

// NewPlugin creates a plugin. printer receives channel-tab messages; relay
// options configure the publisher.
func NewPlugin(newBackend BackendFactory, printer relay.Printer, log *apperrors.Logger, opts ...relay.Option) *Plugin {
	if log == nil {
		log = apperrors.Default()
	}
	return &Plugin{
		newBackend: newBackend,
		relay:      relay.New(printer, log, opts...),
		log:        log,
		now:        time.Now,
	}
}

// Init opens the configuration at path and runs the startup sequence.
// A failed Init keeps the previously loaded settings.
func (p *Plugin) Init(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	backend, err := p.newBackend(path)
	if err != nil {
		p.log.Error("Konfiguration konnte nicht geoeffnet werden: %s (%v)", path, err)
		return err
	}

	facade := config.NewFacade(backend, path, p.log)
	settings, err := facade.Init()
	if err != nil {
		return err
	}

	p.facade = facade
	p.settings = settings
	return nil
}

// Reload repeats the startup sequence for the file passed to Init.
func (p *Plugin) Reload() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.facade == nil {
		return apperrors.NewInvalidArgumentsError("plugin is not initialized")
	}
	settings, err := p.facade.Reload()
	if err != nil {
		return err
	}
	p.settings = settings
	return nil
}

// Facade returns the active configuration facade, or nil before Init.
func (p *Plugin) Facade() *config.Facade {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.facade
}

// Settings returns the settings of the last successful Init or Reload.
func (p *Plugin) Settings() config.Settings {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.settings
}

// OnTalkStatus relays a talk start or stop of the client with the given
// display name.
func (p *Plugin) OnTalkStatus(ctx context.Context, status relay.Status, name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.facade == nil {
		return apperrors.NewInvalidArgumentsError("plugin is not initialized")
	}
	return p.relay.Handle(ctx, p.settings, relay.Event{Status: status, Name: name, At: p.now()})
}

// Texts returns the user-facing texts in the configured language.
func (p *Plugin) Texts() Texts {
	p.mu.Lock()
	defer p.mu.Unlock()

	path := ""
	if p.facade != nil {
		path = p.facade.Path()
	}
	return TextsFor(p.settings.General, path, p.now())
}
