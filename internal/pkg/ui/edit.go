package ui

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/lh2mqtt/lh2mqtt/internal/pkg/schema"
	"github.com/lh2mqtt/lh2mqtt/internal/pkg/store"
)

// Change is one field edited in the form.
type Change struct {
	Field schema.Field
	Old   string
	New   string
}

// EditState holds the form's bound values.
type EditState struct {
	entries []store.Entry
	values  []string
}

// Changes returns the fields whose value differs from the loaded one, in schema order.
func (s *EditState) Changes() []Change {
	var changes []Change
	for i, e := range s.entries {
		if s.values[i] != e.Value {
			changes = append(changes, Change{Field: e.Field, Old: e.Value, New: s.values[i]})
		}
	}
	return changes
}

// NewEditForm builds a form with one group per section and one input per
// field. Inputs are limited to the field's capacity; the password is hidden.
func NewEditForm(entries []store.Entry) (*huh.Form, *EditState) {
	state := &EditState{
		entries: entries,
		values:  make([]string, len(entries)),
	}

	var groups []*huh.Group
	var fields []huh.Field
	var current schema.Section
	flush := func() {
		if len(fields) > 0 {
			groups = append(groups, huh.NewGroup(fields...).Title(string(current)))
			fields = nil
		}
	}

	for i, e := range entries {
		if e.Field.Section != current {
			flush()
			current = e.Field.Section
		}
		state.values[i] = e.Value

		input := huh.NewInput().
			Title(e.Field.Name).
			Description(fmt.Sprintf("max. %d characters", e.Field.MaxLen())).
			CharLimit(e.Field.MaxLen()).
			Value(&state.values[i])
		if e.Field.Sensitive {
			input = input.EchoMode(huh.EchoModePassword)
		}
		fields = append(fields, input)
	}
	flush()

	return huh.NewForm(groups...), state
}
