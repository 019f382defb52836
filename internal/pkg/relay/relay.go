// Package relay turns talk-status changes into channel-tab messages and
// mosquitto_pub invocations.
package relay

import (
	"fmt"
	"strings"
	"time"

	"github.com/lh2mqtt/lh2mqtt/internal/pkg/config"
	apperrors "github.com/lh2mqtt/lh2mqtt/internal/pkg/errors"
)

// DefaultColor is used when no channel-tab color is configured.
const DefaultColor = "#5472CA"

// TimeLayout formats the time shown in channel-tab messages.
const TimeLayout = "15:04:05"

// Status is a client's talk state.
type Status int

const (
	// StatusStart means the client started talking.
	StatusStart Status = iota
	// StatusStop means the client stopped talking.
	StatusStop
)

// String returns the status name.
func (s Status) String() string {
	if s == StatusStart {
		return "start"
	}
	return "stop"
}

// ParseStatus resolves "start" or "stop".
func ParseStatus(name string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "start":
		return StatusStart, nil
	case "stop":
		return StatusStop, nil
	default:
		return 0, apperrors.NewInvalidValueError("status", name, "expected start or stop")
	}
}

// Event is one talk-status change.
type Event struct {
	Status Status
	Name   string
	At     time.Time
}

// ChannelMessage formats the channel-tab line for ev. ok is false when the
// channel tab is disabled for this status.
func ChannelMessage(s config.ChannelTabSettings, ev Event) (msg string, ok bool) {
	enabled, color, prefix := s.ShowStartEnabled(), s.ColorStart, s.PrefixStart
	if ev.Status == StatusStop {
		enabled, color, prefix = s.ShowStopEnabled(), s.ColorStop, s.PrefixStop
	}
	if !enabled {
		return "", false
	}

	if color == "" {
		color = DefaultColor
	}
	if prefix != "" {
		prefix += " -> "
	}

	return fmt.Sprintf("[color=%s][b]<%s> *** %s%s[/b][/color]", color, ev.At.Format(TimeLayout), prefix, ev.Name), true
}

// Topic returns the topic configured for status.
func Topic(m config.MQTTSettings, status Status) string {
	if status == StatusStop {
		return m.TopicStop
	}
	return m.TopicStart
}

// PublishArgs builds the publisher argv for ev. ok is false when publishing
// is disabled for this status. Arguments are passed without a shell.
func PublishArgs(m config.MQTTSettings, ev Event) (args []string, ok bool) {
	enabled := m.SendStartEnabled()
	if ev.Status == StatusStop {
		enabled = m.SendStopEnabled()
	}
	if !enabled {
		return nil, false
	}

	args = []string{m.Path, "-h", m.Host}
	if m.Port != "" {
		args = append(args, "-p", m.Port)
	}
	if m.User != "" {
		args = append(args, "-u", m.User, "-P", m.Password)
	}
	args = append(args, "-t", Topic(m, ev.Status))
	if m.Qos != "" {
		args = append(args, "-q", m.Qos)
	}
	args = append(args, "-m", ev.Name)
	if m.Cafile != "" {
		args = append(args, "--cafile", m.Cafile)
	}
	return args, true
}
