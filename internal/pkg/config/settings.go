// Package config owns the startup, repair and flush sequence of the lh2mqtt
// configuration and exposes the loaded values as typed settings.
package config

import (
	"fmt"
	"reflect"

	"github.com/lh2mqtt/lh2mqtt/internal/pkg/schema"
)

// Settings is the typed view of every configuration field. The ini tags
// name the section and key each field is loaded from.
type Settings struct {
	MQTT       MQTTSettings       `ini:"MQTT"`
	ChannelTab ChannelTabSettings `ini:"CHANNELTAB"`
	Logging    LoggingSettings    `ini:"LOGGING"`
	General    GeneralSettings    `ini:"GENERAL"`
}

// MQTTSettings holds the [MQTT] section.
type MQTTSettings struct {
	Path       string `ini:"PATH"`
	Host       string `ini:"HOST"`
	Port       string `ini:"PORT"`
	User       string `ini:"USER"`
	Password   string `ini:"PASSWORD"`
	Qos        string `ini:"QOS"`
	Cafile     string `ini:"CAFILE"`
	SendStart  string `ini:"SEND_START"`
	SendStop   string `ini:"SEND_STOP"`
	TopicStart string `ini:"TOPIC_START"`
	TopicStop  string `ini:"TOPIC_STOP"`
}

// SendStartEnabled reports whether talk start is published.
func (m MQTTSettings) SendStartEnabled() bool { return flagEnabled(m.SendStart) }

// SendStopEnabled reports whether talk stop is published.
func (m MQTTSettings) SendStopEnabled() bool { return flagEnabled(m.SendStop) }

// ChannelTabSettings holds the [CHANNELTAB] section.
type ChannelTabSettings struct {
	ShowStart   string `ini:"SHOW_START"`
	ShowStop    string `ini:"SHOW_STOP"`
	ColorStart  string `ini:"COLOR_START"`
	ColorStop   string `ini:"COLOR_STOP"`
	PrefixStart string `ini:"PREFIX_START"`
	PrefixStop  string `ini:"PREFIX_STOP"`
}

// ShowStartEnabled reports whether talk start is printed to the channel tab.
func (c ChannelTabSettings) ShowStartEnabled() bool { return flagEnabled(c.ShowStart) }

// ShowStopEnabled reports whether talk stop is printed to the channel tab.
func (c ChannelTabSettings) ShowStopEnabled() bool { return flagEnabled(c.ShowStop) }

// LoggingSettings holds the [LOGGING] section.
type LoggingSettings struct {
	LogMqttMsg string `ini:"LOG_MQTT_MSG"`
}

// LogMessages reports whether published messages are logged.
func (l LoggingSettings) LogMessages() bool { return flagEnabled(l.LogMqttMsg) }

// GeneralSettings holds the [GENERAL] section.
type GeneralSettings struct {
	Language string `ini:"LANGUAGE"`
}

// IsGerman reports whether German texts are selected. Any other value means English.
func (g GeneralSettings) IsGerman() bool { return g.Language == "DE" }

// slots maps each schema key to the field index path of its Settings slot.
var slots = buildSlots()

func buildSlots() map[schema.Key][]int {
	out := make(map[schema.Key][]int, len(schema.Fields()))
	st := reflect.TypeOf(Settings{})
	for i := 0; i < st.NumField(); i++ {
		sec := st.Field(i)
		section, ok := sec.Tag.Lookup("ini")
		if !ok {
			continue
		}
		for j := 0; j < sec.Type.NumField(); j++ {
			leaf := sec.Type.Field(j)
			name, ok := leaf.Tag.Lookup("ini")
			if !ok {
				continue
			}
			f, known := schema.Lookup(section, name)
			if !known || leaf.Type.Kind() != reflect.String {
				panic(fmt.Sprintf("config: field %s.%s is not a schema string", sec.Name, leaf.Name))
			}
			out[f.Key] = []int{i, j}
		}
	}
	for _, f := range schema.Fields() {
		if _, ok := out[f.Key]; !ok {
			panic(fmt.Sprintf("config: no settings field for %s", f.Key))
		}
	}
	return out
}

// ref returns the settings slot for a schema key, or nil for unknown keys.
func (s *Settings) ref(k schema.Key) *string {
	path, ok := slots[k]
	if !ok {
		return nil
	}
	return reflect.ValueOf(s).Elem().FieldByIndex(path).Addr().Interface().(*string)
}

// Value returns the setting for section and key. ok is false for unknown pairs.
func (s Settings) Value(section, key string) (value string, ok bool) {
	p := s.ref(schema.Key{Section: schema.Section(section), Name: key})
	if p == nil {
		return "", false
	}
	return *p, true
}

func (s *Settings) set(k schema.Key, value string) {
	if p := s.ref(k); p != nil {
		*p = value
	}
}

// flagEnabled reads a flag the way C's atoi would and compares it with 1:
// leading blanks and an optional sign, then digits up to the first non-digit.
func flagEnabled(v string) bool {
	i := 0
	for i < len(v) && (v[i] == ' ' || v[i] == '\t') {
		i++
	}
	neg := false
	if i < len(v) && (v[i] == '+' || v[i] == '-') {
		neg = v[i] == '-'
		i++
	}
	n := 0
	digits := 0
	for i < len(v) && v[i] >= '0' && v[i] <= '9' {
		n = n*10 + int(v[i]-'0')
		digits++
		i++
		if n > 1 {
			return false
		}
	}
	return digits > 0 && n == 1 && !neg
}
