package relay

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/lh2mqtt/lh2mqtt/internal/pkg/config"
	apperrors "github.com/lh2mqtt/lh2mqtt/internal/pkg/errors"
	"github.com/lh2mqtt/lh2mqtt/internal/pkg/security"
)

// PublishTimeout bounds a single publisher run.
const PublishTimeout = 10 * time.Second

// Runner executes a program and returns its combined output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs the program with os/exec.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Printer receives channel-tab messages.
type Printer interface {
	PrintChannel(message string)
}

// Relay dispatches talk events to the channel tab and the publisher.
type Relay struct {
	run     Runner
	printer Printer
	log     *apperrors.Logger
	timeout time.Duration
	dryRun  bool
}

// Option configures a Relay.
type Option func(*Relay)

// WithRunner replaces the process runner.
func WithRunner(r Runner) Option {
	return func(rl *Relay) { rl.run = r }
}

// WithTimeout overrides PublishTimeout.
func WithTimeout(d time.Duration) Option {
	return func(rl *Relay) { rl.timeout = d }
}

// WithDryRun logs the publisher command instead of running it.
func WithDryRun(dryRun bool) Option {
	return func(rl *Relay) { rl.dryRun = dryRun }
}

// New creates a relay. A nil logger uses the package default.
func New(printer Printer, log *apperrors.Logger, opts ...Option) *Relay {
	if log == nil {
		log = apperrors.Default()
	}
	r := &Relay{
		run:     ExecRunner,
		printer: printer,
		log:     log,
		timeout: PublishTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Handle prints and publishes ev according to s. Publisher failures are
// logged and returned; the channel message is printed regardless.
func (r *Relay) Handle(ctx context.Context, s config.Settings, ev Event) error {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	if msg, ok := ChannelMessage(s.ChannelTab, ev); ok && r.printer != nil {
		r.printer.PrintChannel(msg)
	}

	return r.Publish(ctx, s, ev)
}

// Publish runs the publisher for ev when sending is enabled for its status.
func (r *Relay) Publish(ctx context.Context, s config.Settings, ev Event) error {
	args, ok := PublishArgs(s.MQTT, ev)
	if !ok {
		return nil
	}
	cmdline := security.CommandLine(args)
	r.log.Debug("publisher: %s", cmdline)

	if r.dryRun {
		r.log.Info("[DRY-RUN] %s", cmdline)
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	output, err := r.run(ctx, args[0], args[1:]...)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("timed out after %v: %w", r.timeout, err)
		} else if out := strings.TrimSpace(string(output)); out != "" {
			err = fmt.Errorf("%w: %s", err, security.SanitizeForLogging(out))
		}
		r.log.Error("Fehler beim Ausfuehren des Befehls: %s (%v)", cmdline, err)
		return apperrors.NewPublishError(cmdline, err)
	}

	if ev.Name != "" && s.Logging.LogMessages() {
		r.log.Info("[MQTT] Topic=%s, Msg=%s", Topic(s.MQTT, ev.Status), ev.Name)
	}
	return nil
}
