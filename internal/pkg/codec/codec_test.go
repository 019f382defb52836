package codec

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	apperrors "github.com/lh2mqtt/lh2mqtt/internal/pkg/errors"
	"github.com/lh2mqtt/lh2mqtt/internal/pkg/schema"
	"github.com/lh2mqtt/lh2mqtt/internal/pkg/store"
)

func get(t *testing.T, s *store.Store, section, key string) string {
	t.Helper()
	v, ok := s.Get(section, key)
	require.True(t, ok, "[%s]%s", section, key)
	return v
}

func TestParse(t *testing.T) {
	input := strings.Join([]string{
		"; comment",
		"# another comment",
		"HOST=outside",
		"[MQTT]",
		"  HOST = broker.local  ",
		"PORT=1883",
		"PASSWORD=a=b",
		"NOT_A_KEY=ignored",
		"no equals sign",
		"[UNKNOWN]",
		"HOST=ignored",
		"[GENERAL]",
		"LANGUAGE=EN",
		"",
	}, "\n")

	s, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	assert.False(t, s.Dirty())
	assert.Equal(t, "broker.local", get(t, s, "MQTT", "HOST"))
	assert.Equal(t, "1883", get(t, s, "MQTT", "PORT"))
	assert.Equal(t, "a=b", get(t, s, "MQTT", "PASSWORD"))
	assert.Equal(t, "EN", get(t, s, "GENERAL", "LANGUAGE"))
	assert.Empty(t, get(t, s, "LOGGING", "LOG_MQTT_MSG"))
}

func TestParseBOMAndCRLF(t *testing.T) {
	input := "\ufeff[LOGGING]\r\nLOG_MQTT_MSG=1\r\n"

	s, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, "1", get(t, s, "LOGGING", "LOG_MQTT_MSG"))
}

func TestParseTruncatesLongValues(t *testing.T) {
	input := "[MQTT]\nPORT=123456789\n"

	s, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, "1234567", get(t, s, "MQTT", "PORT"))
}

func TestParseUnterminatedSection(t *testing.T) {
	input := "[MQTT]\nHOST=a\n[BROKEN\nPORT=99\n"

	s, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, "a", get(t, s, "MQTT", "HOST"))
	assert.Empty(t, get(t, s, "MQTT", "PORT"))
}

func TestParseSkipsOversizedLine(t *testing.T) {
	input := "[MQTT]\nHOST=broker\nUSER=" + strings.Repeat("x", 2<<20) +
		"\nPORT=1883\n[GENERAL]\nLANGUAGE=EN\n"

	s, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, "broker", get(t, s, "MQTT", "HOST"))
	assert.Empty(t, get(t, s, "MQTT", "USER"))
	assert.Equal(t, "1883", get(t, s, "MQTT", "PORT"))
	assert.Equal(t, "EN", get(t, s, "GENERAL", "LANGUAGE"))
}

func TestParseKeepsLineAtLimit(t *testing.T) {
	line := "USER=" + strings.Repeat("y", maxLineSize-len("USER="))
	input := "[MQTT]\n" + line + "\nPORT=1883\n"

	s, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("y", schema.UserLen-1), get(t, s, "MQTT", "USER"))
	assert.Equal(t, "1883", get(t, s, "MQTT", "PORT"))
}

func TestRoundTripSurroundingBlanks(t *testing.T) {
	s := store.New()
	truncated, err := s.Set("CHANNELTAB", "PREFIX_START", "Start talking ")
	require.NoError(t, err)
	assert.True(t, truncated)
	_, err = s.Set("MQTT", "PASSWORD", " secret")
	require.NoError(t, err)
	_, err = s.Set("MQTT", "TOPIC_START", "a = b ; #c")
	require.NoError(t, err)

	assert.Equal(t, "Start talking", get(t, s, "CHANNELTAB", "PREFIX_START"))

	back, err := Parse(bytes.NewReader(Marshal(s)))
	require.NoError(t, err)
	assert.True(t, back.Equal(s))
	assert.Equal(t, "secret", get(t, back, "MQTT", "PASSWORD"))
	assert.Equal(t, "a = b ; #c", get(t, back, "MQTT", "TOPIC_START"))
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "missing.ini"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func TestSerializeLayout(t *testing.T) {
	s := DefaultStore("ABC1234")

	var buf bytes.Buffer
	require.NoError(t, serialize(&buf, s, "Linux"))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "; lh2mqtt - LastHeard To Mqtt - TeamSpeak 3 Plugin (Linux)\n"))
	assert.Contains(t, out, ";   siehe: whereis mosquitto_pub\n")
	assert.Contains(t, out, "; Lizenz: LGPL\n")

	body := out[strings.Index(out, "[MQTT]"):]
	assert.True(t, strings.HasPrefix(body, "[MQTT]\nPATH="))
	assert.Contains(t, body, "TOPIC_STOP=lh2mqtt/ABC1234/stop\n\n[CHANNELTAB]\nSHOW_START=1\n")
	assert.Contains(t, body, "PREFIX_STOP=Stop talking\n\n[LOGGING]\nLOG_MQTT_MSG=1\n\n[GENERAL]\nLANGUAGE=DE\n\n")
	assert.True(t, strings.HasSuffix(body, "LANGUAGE=DE\n\n"))

	// every line before the first section is a comment
	for _, line := range strings.Split(out[:strings.Index(out, "[MQTT]")], "\n") {
		if line != "" {
			assert.True(t, strings.HasPrefix(line, ";"), line)
		}
	}
}

func TestHeaderWindows(t *testing.T) {
	h := Header("Windows")

	assert.True(t, strings.HasPrefix(h, "; lh2mqtt - LastHeard To Mqtt - TeamSpeak 3 Plugin (Windows)\n"))
	assert.Contains(t, h, "mosquitto_pub.exe (inkl. EXE)")
	assert.NotContains(t, h, "whereis")
}

func TestSerializeEmptyValues(t *testing.T) {
	out := string(Marshal(store.New()))

	assert.Contains(t, out, "[MQTT]\nPATH=\nHOST=\n")
	assert.Contains(t, out, "[GENERAL]\nLANGUAGE=\n")
}

func TestDefaultStore(t *testing.T) {
	s := DefaultStore("0A1B2C3")

	assert.False(t, s.Dirty())
	assert.Equal(t, schema.DefaultPublisherPath, get(t, s, "MQTT", "PATH"))
	assert.Equal(t, "test.mosquitto.org", get(t, s, "MQTT", "HOST"))
	assert.Equal(t, "lh2mqtt/0A1B2C3/start", get(t, s, "MQTT", "TOPIC_START"))
	assert.Equal(t, "#008000", get(t, s, "CHANNELTAB", "COLOR_STOP"))
	assert.Equal(t, "DE", get(t, s, "GENERAL", "LANGUAGE"))
}

func TestNewToken(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		tok := NewToken()
		require.Len(t, tok, TokenLength)
		assert.Equal(t, strings.ToUpper(tok), tok)
		for _, r := range tok {
			assert.True(t, strings.ContainsRune("0123456789ABCDEF", r), tok)
		}
		seen[tok] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestCreateDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lh2mqtt.ini")

	created, err := CreateDefault(path)
	require.NoError(t, err)
	assert.True(t, created)

	s, err := ParseFile(path)
	require.NoError(t, err)
	topic := get(t, s, "MQTT", "TOPIC_START")
	assert.True(t, strings.HasPrefix(topic, "lh2mqtt/"))
	assert.True(t, strings.HasSuffix(topic, "/start"))

	token := strings.TrimSuffix(strings.TrimPrefix(topic, "lh2mqtt/"), "/start")
	assert.Len(t, token, TokenLength)
	assert.Equal(t, "lh2mqtt/"+token+"/stop", get(t, s, "MQTT", "TOPIC_STOP"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, FileMode, info.Mode().Perm())
}

func TestCreateDefaultKeepsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lh2mqtt.ini")
	content := []byte("not an ini file at all\n")
	require.NoError(t, os.WriteFile(path, content, 0644))

	created, err := CreateDefault(path)
	require.NoError(t, err)
	assert.False(t, created)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestCreateDefaultIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lh2mqtt.ini")

	_, err := CreateDefault(path)
	require.NoError(t, err)
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	created, err := CreateDefault(path)
	require.NoError(t, err)
	assert.False(t, created)

	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestWriteFileMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "lh2mqtt.ini")

	err := WriteFile(path, []byte("x"))
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrWriteFailure))
}

func TestWriteFileReplaces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lh2mqtt.ini")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0644))

	require.NoError(t, WriteFile(path, []byte("new")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestExport(t *testing.T) {
	s := DefaultStore("ABC1234")

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Export(&buf, s, FormatJSON))

		var got map[string]map[string]string
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, "DE", got["GENERAL"]["LANGUAGE"])
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Export(&buf, s, FormatYAML))

		var got map[string]map[string]string
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, "lh2mqtt/ABC1234/start", got["MQTT"]["TOPIC_START"])
	})

	t.Run("toml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Export(&buf, s, FormatTOML))

		var got map[string]map[string]string
		_, err := toml.Decode(buf.String(), &got)
		require.NoError(t, err)
		assert.Equal(t, "#008000", got["CHANNELTAB"]["COLOR_STOP"])
	})

	t.Run("ini", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Export(&buf, s, FormatINI))

		back, err := Parse(&buf)
		require.NoError(t, err)
		assert.True(t, back.Equal(s))
	})

	t.Run("unknown", func(t *testing.T) {
		err := Export(&bytes.Buffer{}, s, Format("xml"))
		assert.True(t, apperrors.HasCode(err, apperrors.ErrInvalidValue))
	})
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" YAML ")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

// Property: a serialized store parses back to the same values.
func TestRoundTrip_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(1234)

	properties := gopter.NewProperties(parameters)
	fields := schema.Fields()

	// Values mix blanks, INI punctuation and multi-byte runes. Line breaks
	// are left out since a value never spans lines.
	alphabet := []rune("abcXYZ019 \t=;#[]äé€😀")
	valueGen := gen.SliceOfN(len(fields), gen.SliceOf(gen.IntRange(0, len(alphabet)-1)).Map(
		func(idx []int) string {
			var b strings.Builder
			for _, i := range idx {
				b.WriteRune(alphabet[i])
			}
			return b.String()
		},
	))

	properties.Property("parse(serialize(s)) equals s", prop.ForAll(
		func(values []string) bool {
			s := store.New()
			for i, f := range fields {
				if _, err := s.Set(string(f.Section), f.Name, values[i]); err != nil {
					return false
				}
			}

			back, err := Parse(bytes.NewReader(Marshal(s)))
			if err != nil {
				return false
			}
			return back.Equal(s)
		},
		valueGen,
	))

	properties.TestingRun(t)
}
