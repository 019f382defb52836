package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/lh2mqtt/lh2mqtt/internal/pkg/errors"
	"github.com/lh2mqtt/lh2mqtt/internal/pkg/store"
)

func sampleEntries(t *testing.T) []store.Entry {
	t.Helper()
	s := store.New()
	_, err := s.Set("MQTT", "HOST", "broker.local")
	require.NoError(t, err)
	_, err = s.Set("MQTT", "PASSWORD", "hunter2")
	require.NoError(t, err)
	_, err = s.Set("GENERAL", "LANGUAGE", "EN")
	require.NoError(t, err)
	return s.Entries()
}

func TestRenderSettingsMasksPassword(t *testing.T) {
	var out bytes.Buffer
	m := NewNonInteractiveManager(false)
	m.SetOutput(&out, &bytes.Buffer{})

	m.RenderSettings("/tmp/lh2mqtt.ini", sampleEntries(t), false)

	got := out.String()
	assert.Contains(t, got, "/tmp/lh2mqtt.ini")
	assert.Contains(t, got, "[MQTT]")
	assert.Contains(t, got, "[GENERAL]")
	assert.Contains(t, got, "HOST")
	assert.Contains(t, got, "broker.local")
	assert.Contains(t, got, "***")
	assert.Contains(t, got, "(empty)")
	assert.NotContains(t, got, "hunter2")
	assert.Less(t, strings.Index(got, "[MQTT]"), strings.Index(got, "[CHANNELTAB]"))
}

func TestRenderSettingsReveal(t *testing.T) {
	var out bytes.Buffer
	m := NewDefaultManager(false)
	m.SetOutput(&out, &bytes.Buffer{})

	m.RenderSettings("x.ini", sampleEntries(t), true)
	assert.Contains(t, out.String(), "hunter2")
}

func TestMessages(t *testing.T) {
	var out, errOut bytes.Buffer
	m := NewNonInteractiveManager(false)
	m.SetOutput(&out, &errOut)

	m.ShowSuccess("saved")
	m.ShowWarning("careful")
	m.ShowError(apperrors.NewUnrecognizedKeyError("MQTT", "NOPE"))
	m.ShowError(nil)

	assert.Equal(t, "saved\n", out.String())
	assert.Contains(t, errOut.String(), "[WARN] careful")
	assert.Contains(t, errOut.String(), "unrecognized configuration key [MQTT]NOPE")
}

func TestNonInteractiveEditFails(t *testing.T) {
	m := NewNonInteractiveManager(false)

	_, err := m.EditFields(sampleEntries(t))
	assert.True(t, apperrors.HasCode(err, apperrors.ErrInvalidArguments))

	ok, err := m.PromptConfirm("sure?")
	require.NoError(t, err)
	assert.True(t, ok)

	sp := m.ShowSpinner("x")
	sp.Start()
	sp.UpdateText("y")
	sp.Stop()
}

func TestEditStateChanges(t *testing.T) {
	entries := sampleEntries(t)
	form, state := NewEditForm(entries)
	require.NotNil(t, form)

	assert.Empty(t, state.Changes())

	for i, e := range entries {
		switch e.Field.Name {
		case "HOST":
			state.values[i] = "other.host"
		case "PORT":
			state.values[i] = "1883"
		}
	}

	changes := state.Changes()
	require.Len(t, changes, 2)
	assert.Equal(t, "HOST", changes[0].Field.Name)
	assert.Equal(t, "broker.local", changes[0].Old)
	assert.Equal(t, "other.host", changes[0].New)
	assert.Equal(t, "PORT", changes[1].Field.Name)
	assert.Equal(t, "", changes[1].Old)
}

func TestConfirmModel(t *testing.T) {
	tests := []struct {
		name string
		keys []tea.KeyMsg
		want bool
	}{
		{"yes key", []tea.KeyMsg{{Type: tea.KeyRunes, Runes: []rune("y")}}, true},
		{"no key", []tea.KeyMsg{{Type: tea.KeyRunes, Runes: []rune("n")}}, false},
		{"enter defaults to yes", []tea.KeyMsg{{Type: tea.KeyEnter}}, true},
		{"right then enter", []tea.KeyMsg{{Type: tea.KeyRight}, {Type: tea.KeyEnter}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var model tea.Model = newConfirmModel("Write changes?")
			assert.Contains(t, model.View(), "Write changes?")
			for _, k := range tt.keys {
				model, _ = model.Update(k)
			}
			result := model.(confirmModel)
			assert.True(t, result.done)
			assert.Equal(t, tt.want, result.confirmed)
			assert.Empty(t, result.View())
		})
	}
}

func TestSpinnerModel(t *testing.T) {
	s := newBubbleSpinner("publishing")

	var model tea.Model = *s.model
	model, _ = model.Update(spinnerTextMsg{text: "still publishing"})
	assert.Contains(t, model.View(), "still publishing")

	model, cmd := model.Update(spinnerQuitMsg{})
	assert.NotNil(t, cmd)
	assert.Empty(t, model.View())
}

func TestShowErrorPlain(t *testing.T) {
	var errOut bytes.Buffer
	m := NewDefaultManager(false)
	m.SetOutput(&bytes.Buffer{}, &errOut)

	m.ShowError(errors.New("boom"))
	assert.Contains(t, errOut.String(), "Error: boom")
}
