// Package schema declares the closed set of configuration fields understood by lh2mqtt.
//
// Every component that reads, writes, parses or serializes configuration values
// consults the same table, so the recognized keys can never diverge between them.
package schema

import (
	"strings"
	"unicode/utf8"
)

// Section is a named group of configuration keys.
type Section string

const (
	// SectionMQTT holds the publisher settings.
	SectionMQTT Section = "MQTT"
	// SectionChannelTab holds the channel tab message settings.
	SectionChannelTab Section = "CHANNELTAB"
	// SectionLogging holds the logging switches.
	SectionLogging Section = "LOGGING"
	// SectionGeneral holds general plugin settings.
	SectionGeneral Section = "GENERAL"
)

// Field capacities in bytes, including the terminator slot of the on-disk
// format. A stored value never exceeds Capacity-1 bytes.
const (
	PathLen     = 256
	HostLen     = 64
	PortLen     = 8
	UserLen     = 64
	PasswordLen = 64
	QosLen      = 8
	CafileLen   = 256
	TopicLen    = 128
	ColorLen    = 16
	PrefixLen   = 64
	FlagLen     = 8
	LangLen     = 8
)

// TokenPlaceholder is substituted with the per-installation random token
// when a default topic is materialized.
const TokenPlaceholder = "{token}"

// Key identifies a field by section and key name. Matching is exact and case-sensitive.
type Key struct {
	Section Section
	Name    string
}

// String returns the "[SECTION]KEY" form used in diagnostics.
func (k Key) String() string {
	return "[" + string(k.Section) + "]" + k.Name
}

// Field describes one configuration slot.
type Field struct {
	Key
	// Capacity is the maximum size in bytes including the terminator slot.
	Capacity int
	// Default is the documented default value. It may contain TokenPlaceholder.
	Default string
	// Repair marks fields that older files may lack and that are added with
	// their default when found empty during load.
	Repair bool
	// Sensitive fields are masked in diagnostic output.
	Sensitive bool
}

// MaxLen returns the maximum number of bytes a stored value may have.
func (f Field) MaxLen() int {
	if f.Capacity <= 0 {
		return 0
	}
	return f.Capacity - 1
}

// DefaultValue returns the default with the token placeholder replaced.
func (f Field) DefaultValue(token string) string {
	return strings.ReplaceAll(f.Default, TokenPlaceholder, token)
}

// Truncate applies the field's capacity to value.
func (f Field) Truncate(value string) (string, bool) {
	return Truncate(value, f.Capacity)
}

// fields is the declarative table in serialization order.
var fields = []Field{
	{Key: Key{SectionMQTT, "PATH"}, Capacity: PathLen, Default: DefaultPublisherPath},
	{Key: Key{SectionMQTT, "HOST"}, Capacity: HostLen, Default: "test.mosquitto.org"},
	{Key: Key{SectionMQTT, "PORT"}, Capacity: PortLen},
	{Key: Key{SectionMQTT, "USER"}, Capacity: UserLen},
	{Key: Key{SectionMQTT, "PASSWORD"}, Capacity: PasswordLen, Sensitive: true},
	{Key: Key{SectionMQTT, "QOS"}, Capacity: QosLen, Default: "0"},
	{Key: Key{SectionMQTT, "CAFILE"}, Capacity: CafileLen},
	{Key: Key{SectionMQTT, "SEND_START"}, Capacity: FlagLen, Default: "0"},
	{Key: Key{SectionMQTT, "SEND_STOP"}, Capacity: FlagLen, Default: "0"},
	{Key: Key{SectionMQTT, "TOPIC_START"}, Capacity: TopicLen, Default: "lh2mqtt/" + TokenPlaceholder + "/start"},
	{Key: Key{SectionMQTT, "TOPIC_STOP"}, Capacity: TopicLen, Default: "lh2mqtt/" + TokenPlaceholder + "/stop"},

	{Key: Key{SectionChannelTab, "SHOW_START"}, Capacity: FlagLen, Default: "1"},
	{Key: Key{SectionChannelTab, "SHOW_STOP"}, Capacity: FlagLen, Default: "1"},
	{Key: Key{SectionChannelTab, "COLOR_START"}, Capacity: ColorLen, Default: "red"},
	{Key: Key{SectionChannelTab, "COLOR_STOP"}, Capacity: ColorLen, Default: "#008000"},
	{Key: Key{SectionChannelTab, "PREFIX_START"}, Capacity: PrefixLen, Default: "Start talking"},
	{Key: Key{SectionChannelTab, "PREFIX_STOP"}, Capacity: PrefixLen, Default: "Stop talking"},

	{Key: Key{SectionLogging, "LOG_MQTT_MSG"}, Capacity: FlagLen, Default: "1", Repair: true},

	{Key: Key{SectionGeneral, "LANGUAGE"}, Capacity: LangLen, Default: "DE", Repair: true},
}

var sections = []Section{SectionMQTT, SectionChannelTab, SectionLogging, SectionGeneral}

var index = func() map[Key]int {
	m := make(map[Key]int, len(fields))
	for i, f := range fields {
		m[f.Key] = i
	}
	return m
}()

// Fields returns every field in serialization order.
func Fields() []Field {
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

// Sections returns the sections in serialization order.
func Sections() []Section {
	out := make([]Section, len(sections))
	copy(out, sections)
	return out
}

// SectionFields returns the fields of one section in declared order.
func SectionFields(section Section) []Field {
	var out []Field
	for _, f := range fields {
		if f.Section == section {
			out = append(out, f)
		}
	}
	return out
}

// Lookup finds the field for a section and key name.
func Lookup(section, key string) (Field, bool) {
	i, ok := index[Key{Section(section), key}]
	if !ok {
		return Field{}, false
	}
	return fields[i], true
}

// MustLookup is Lookup for keys known at compile time. It panics on unknown keys.
func MustLookup(section Section, key string) Field {
	f, ok := Lookup(string(section), key)
	if !ok {
		panic("schema: unknown field " + Key{section, key}.String())
	}
	return f
}

// Truncate bounds value to its first line, without surrounding whitespace,
// and to capacity-1 bytes. Parse trims values the same way, so a stored
// value always reads back unchanged.
// The cut backs off to a rune boundary so the result stays valid UTF-8.
// The second result reports whether anything was removed.
func Truncate(value string, capacity int) (string, bool) {
	in := value
	if i := strings.IndexAny(value, "\r\n"); i >= 0 {
		value = value[:i]
	}
	value = strings.TrimSpace(value)

	limit := capacity - 1
	if limit < 0 {
		limit = 0
	}
	if len(value) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(value[cut]) {
			cut--
		}
		value = strings.TrimSpace(value[:cut])
	}
	return value, value != in
}
