package profile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lh2mqtt/lh2mqtt/internal/pkg/codec"
	apperrors "github.com/lh2mqtt/lh2mqtt/internal/pkg/errors"
	"github.com/lh2mqtt/lh2mqtt/internal/pkg/schema"
)

// countingWriter records Flush writes without touching the disk.
type countingWriter struct {
	calls int
	last  []byte
	err   error
}

func (c *countingWriter) write(_ string, data []byte) error {
	c.calls++
	c.last = data
	return c.err
}

func writeINI(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lh2mqtt.ini")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestFileBackedLoadMissing(t *testing.T) {
	fb := NewFileBacked(filepath.Join(t.TempDir(), "missing.ini"))

	require.NoError(t, fb.Load())
	assert.False(t, fb.Dirty())
	assert.Equal(t, "", fb.ReadString("MQTT", "HOST", "fallback", schema.HostLen))
}

func TestFileBackedLoadUnreadable(t *testing.T) {
	// a directory cannot be parsed as a file
	fb := NewFileBacked(t.TempDir())

	err := fb.Load()
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrReadFailure))
}

func TestFileBackedReadString(t *testing.T) {
	fb := NewFileBacked(writeINI(t, "[MQTT]\nHOST=broker.local\nPORT=\n"))
	require.NoError(t, fb.Load())

	assert.Equal(t, "broker.local", fb.ReadString("MQTT", "HOST", "", schema.HostLen))
	assert.Equal(t, "", fb.ReadString("MQTT", "PORT", "1883", schema.PortLen), "known empty fields ignore the default")
	assert.Equal(t, "dflt", fb.ReadString("MQTT", "NOT_A_KEY", "dflt", 16))
	assert.Equal(t, "dflt", fb.ReadString("NOPE", "HOST", "dflt", 16))
	assert.Equal(t, "brok", fb.ReadString("MQTT", "HOST", "", 5), "reads are bounded to size-1 bytes")
	assert.Equal(t, "", fb.ReadString("MQTT", "HOST", "", 0))
}

func TestFileBackedWriteString(t *testing.T) {
	fb := NewFileBacked(filepath.Join(t.TempDir(), "x.ini"))

	require.NoError(t, fb.WriteString("GENERAL", "LANGUAGE", "EN"))
	assert.True(t, fb.Dirty())
	assert.Equal(t, "EN", fb.ReadString("GENERAL", "LANGUAGE", "", schema.LangLen))

	err := fb.WriteString("GENERAL", "NOPE", "x")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrUnrecognizedKey))

	truncated, err := fb.Set("MQTT", "QOS", "123456789")
	require.NoError(t, err)
	assert.True(t, truncated)
}

func TestFileBackedFlushOnlyWhenDirty(t *testing.T) {
	cw := &countingWriter{}
	fb := NewFileBacked("unused.ini", WithWriter(cw.write))

	require.NoError(t, fb.Flush())
	assert.Equal(t, 0, cw.calls)

	require.NoError(t, fb.WriteString("LOGGING", "LOG_MQTT_MSG", "1"))
	require.NoError(t, fb.Flush())
	assert.Equal(t, 1, cw.calls)
	assert.False(t, fb.Dirty())
	assert.Contains(t, string(cw.last), "[LOGGING]\nLOG_MQTT_MSG=1\n")

	require.NoError(t, fb.Flush())
	assert.Equal(t, 1, cw.calls)
}

func TestFileBackedFlushFailureKeepsDirty(t *testing.T) {
	cw := &countingWriter{err: errors.New("disk full")}
	fb := NewFileBacked("unused.ini", WithWriter(cw.write))

	require.NoError(t, fb.WriteString("MQTT", "HOST", "h"))
	err := fb.Flush()
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrWriteFailure))
	assert.True(t, fb.Dirty())

	cw.err = nil
	require.NoError(t, fb.Flush())
	assert.Equal(t, 2, cw.calls)
	assert.False(t, fb.Dirty())
}

func TestFileBackedRoundTripOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lh2mqtt.ini")
	_, err := codec.CreateDefault(path)
	require.NoError(t, err)

	fb := NewFileBacked(path)
	require.NoError(t, fb.Load())
	require.NoError(t, fb.WriteString("MQTT", "HOST", "broker.local"))
	require.NoError(t, fb.Flush())

	again := NewFileBacked(path)
	require.NoError(t, again.Load())
	assert.Equal(t, "broker.local", again.ReadString("MQTT", "HOST", "", schema.HostLen))
	assert.True(t, again.Store().Equal(fb.Store()))
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"", KindAuto, false},
		{"auto", KindAuto, false},
		{" FILE ", KindFile, false},
		{"native", KindNative, false},
		{"registry", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if tt.wantErr {
				assert.True(t, apperrors.HasCode(err, apperrors.ErrInvalidValue))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewFileKind(t *testing.T) {
	b, err := New(KindFile, "x.ini")
	require.NoError(t, err)
	assert.Equal(t, KindFile, b.Kind())

	_, err = New(Kind("bogus"), "x.ini")
	assert.Error(t, err)
}

// Property: Flush writes exactly once after any non-empty run of writes and
// never when no write happened since the previous Flush.
func TestFlushWritesOnlyWhenDirty_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(99)

	properties := gopter.NewProperties(parameters)
	fields := schema.Fields()

	properties.Property("one disk write per dirty flush", prop.ForAll(
		func(batches []int) bool {
			cw := &countingWriter{}
			fb := NewFileBacked("unused.ini", WithWriter(cw.write))

			expected := 0
			for i, n := range batches {
				for j := 0; j < n; j++ {
					f := fields[(i+j)%len(fields)]
					if err := fb.WriteString(string(f.Section), f.Name, "v"); err != nil {
						return false
					}
				}
				if n > 0 {
					expected++
				}
				if err := fb.Flush(); err != nil {
					return false
				}
				if fb.Dirty() || cw.calls != expected {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 4)),
	))

	properties.TestingRun(t)
}
