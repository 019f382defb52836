package config

import (
	"github.com/lh2mqtt/lh2mqtt/internal/pkg/codec"
	apperrors "github.com/lh2mqtt/lh2mqtt/internal/pkg/errors"
	"github.com/lh2mqtt/lh2mqtt/internal/pkg/profile"
	"github.com/lh2mqtt/lh2mqtt/internal/pkg/schema"
	"github.com/lh2mqtt/lh2mqtt/internal/pkg/store"
)

// repairHints is the expected value named in repair failure messages when it
// differs from the default that is written.
var repairHints = map[schema.Key]string{
	{Section: schema.SectionGeneral, Name: "LANGUAGE"}: "DE oder EN",
}

// Facade runs the configuration lifecycle against a profile backend.
//
// A Facade is not reentrant: Init, Reload, Set and Flush must not run
// concurrently with each other.
type Facade struct {
	backend  profile.Backend
	path     string
	log      *apperrors.Logger
	create   func(path string) (bool, error)
	settings Settings
}

// NewFacade creates a facade for the file at path. A nil logger uses the
// package default.
func NewFacade(backend profile.Backend, path string, log *apperrors.Logger) *Facade {
	if log == nil {
		log = apperrors.Default()
	}
	return &Facade{
		backend: backend,
		path:    path,
		log:     log,
		create:  codec.CreateDefault,
	}
}

// Path returns the configuration file path.
func (f *Facade) Path() string {
	return f.path
}

// Backend returns the profile in use.
func (f *Facade) Backend() profile.Backend {
	return f.backend
}

// Settings returns the values cached by the last Load or Set.
func (f *Facade) Settings() Settings {
	return f.settings
}

// EnsureFileExists creates a default file when none exists. An existing file
// is left untouched.
func (f *Facade) EnsureFileExists() error {
	created, err := f.create(f.path)
	if err != nil {
		f.log.Error("Konfigurationsdatei konnte nicht angelegt werden: %s (%v)", f.path, err)
		return err
	}
	if created {
		f.log.Info("Standard-Konfigurationsdatei angelegt: %s", f.path)
	}
	return nil
}

// ReadField reads one field with an empty default. sensitive masks the value
// in the debug echo only; the result is never masked.
func (f *Facade) ReadField(section, key string, capacity int, sensitive bool) string {
	v := f.backend.ReadString(section, key, "", capacity)
	f.log.LogFieldRead(section, key, v, sensitive)
	return v
}

// RepairMissingField writes def when the field reads empty. It reports whether
// a value was written. On success the cached settings are updated.
func (f *Facade) RepairMissingField(section, key, def string) (bool, error) {
	field, ok := schema.Lookup(section, key)
	if !ok {
		return false, apperrors.NewUnrecognizedKeyError(section, key)
	}
	if f.ReadField(section, key, field.Capacity, field.Sensitive) != "" {
		return false, nil
	}

	if err := f.backend.WriteString(section, key, def); err != nil {
		hint := def
		if h, ok := repairHints[field.Key]; ok {
			hint = h
		}
		f.log.Error("Konfigurationsdatei konnte NICHT um fehlenden Schluessel ergaenzt werden - soll: [%s]%s=%s in %s",
			section, key, hint, f.path)
		return false, err
	}

	value, _ := field.Truncate(def)
	f.settings.set(field.Key, value)
	f.log.Info("Konfigurationsdatei wurde um fehlenden Schluessel ergaenzt: [%s]%s=%s", section, key, value)
	return true, nil
}

// Load reads the backing file and every field in schema order, then repairs
// the self-healing fields. Repair failures are logged, not returned.
func (f *Facade) Load() (Settings, error) {
	if err := f.backend.Load(); err != nil {
		f.log.Error("Konfigurationsdatei konnte nicht gelesen werden: %s (%v)", f.path, err)
		return f.settings, err
	}

	var s Settings
	for _, field := range schema.Fields() {
		s.set(field.Key, f.ReadField(string(field.Section), field.Name, field.Capacity, field.Sensitive))
	}
	f.settings = s

	for _, field := range schema.Fields() {
		if !field.Repair {
			continue
		}
		_, _ = f.RepairMissingField(string(field.Section), field.Name, field.Default)
	}

	return f.settings, nil
}

// Flush persists pending writes. Backends without pending writes do nothing.
func (f *Facade) Flush() error {
	if err := f.backend.Flush(); err != nil {
		f.log.Error("Konfigurationsdatei konnte nicht geschrieben werden: %s (%v)", f.path, err)
		return err
	}
	return nil
}

// Init runs the startup sequence: create a default file if needed, load and
// repair, flush, then log the summary.
func (f *Facade) Init() (Settings, error) {
	if err := f.EnsureFileExists(); err != nil {
		return f.settings, err
	}
	if _, err := f.Load(); err != nil {
		return f.settings, err
	}
	if err := f.Flush(); err != nil {
		return f.settings, err
	}
	f.logSummary()
	return f.settings, nil
}

// Reload repeats Init for the same file.
func (f *Facade) Reload() (Settings, error) {
	return f.Init()
}

// Get returns the current backend value of a known field.
func (f *Facade) Get(section, key string) (string, error) {
	field, ok := schema.Lookup(section, key)
	if !ok {
		return "", apperrors.NewUnrecognizedKeyError(section, key)
	}
	return f.ReadField(section, key, field.Capacity, field.Sensitive), nil
}

// Set writes one field through the backend without flushing. It reports
// whether the value was truncated to the field's capacity.
func (f *Facade) Set(section, key, value string) (bool, error) {
	field, ok := schema.Lookup(section, key)
	if !ok {
		return false, apperrors.NewUnrecognizedKeyError(section, key)
	}
	stored, truncated := field.Truncate(value)

	if err := f.backend.WriteString(section, key, value); err != nil {
		return false, err
	}
	f.log.LogFieldWrite(section, key, stored, field.Sensitive)
	if truncated {
		f.log.Warn("Wert fuer [%s]%s auf %d Zeichen gekuerzt", section, key, field.MaxLen())
	}
	f.settings.set(field.Key, stored)
	return truncated, nil
}

// Snapshot reads every field from the backend into a clean store. Values
// are not echoed to the log.
func (f *Facade) Snapshot() *store.Store {
	s := store.New()
	for _, field := range schema.Fields() {
		v := f.backend.ReadString(string(field.Section), field.Name, "", field.Capacity)
		_, _ = s.Set(string(field.Section), field.Name, v)
	}
	s.MarkClean()
	return s
}

func (f *Facade) logSummary() {
	s := f.settings

	f.log.Info("Konfigurationsdatei neu einlesen: %s", f.path)
	f.log.Info("[INI-MQTT|1] Path=%s, Host=%s, Port=%s, User=%s, Password=%s, Qos=%s, Cafile=%s",
		s.MQTT.Path, s.MQTT.Host, s.MQTT.Port, s.MQTT.User, apperrors.MaskedValue, s.MQTT.Qos, s.MQTT.Cafile)
	if s.MQTT.SendStartEnabled() || s.MQTT.SendStopEnabled() {
		f.log.Info("[INI-MQTT|2] SendStart=%s, SendStop=%s, TopicStart=%s, TopicStop=%s",
			s.MQTT.SendStart, s.MQTT.SendStop, s.MQTT.TopicStart, s.MQTT.TopicStop)
	}
	f.log.Info("[INI-CHANNELTAB] ShowStart=%s, ShowStop=%s, ColorStart=%s, ColorStop=%s, PrefixStart=%s, PrefixStop=%s",
		s.ChannelTab.ShowStart, s.ChannelTab.ShowStop, s.ChannelTab.ColorStart, s.ChannelTab.ColorStop,
		s.ChannelTab.PrefixStart, s.ChannelTab.PrefixStop)
	f.log.Info("[INI-LOGGING] LogMqttMsg=%s", s.Logging.LogMqttMsg)
	f.log.Info("[INI-GENERAL] Language=%s", s.General.Language)
}
