// Package ui provides terminal rendering and interactive prompts for lh2mqtt.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	apperrors "github.com/lh2mqtt/lh2mqtt/internal/pkg/errors"
	"github.com/lh2mqtt/lh2mqtt/internal/pkg/schema"
	"github.com/lh2mqtt/lh2mqtt/internal/pkg/store"
)

// Spinner provides loading animation functionality.
type Spinner interface {
	Start()
	Stop()
	UpdateText(text string)
}

// Manager defines the interface for UI operations.
type Manager interface {
	RenderSettings(path string, entries []store.Entry, revealSecrets bool)
	EditFields(entries []store.Entry) ([]Change, error)
	ShowSpinner(text string) Spinner
	ShowError(err error)
	ShowWarning(message string)
	ShowSuccess(message string)
	PromptConfirm(message string) (bool, error)
}

// styles holds the lipgloss styles for UI rendering.
type styles struct {
	title      lipgloss.Style
	section    lipgloss.Style
	key        lipgloss.Style
	value      lipgloss.Style
	empty      lipgloss.Style
	success    lipgloss.Style
	warning    lipgloss.Style
	errorStyle lipgloss.Style
	border     lipgloss.Style
}

func newStyles(colorEnabled bool, bordered bool) *styles {
	if !colorEnabled {
		return &styles{
			title:      lipgloss.NewStyle(),
			section:    lipgloss.NewStyle(),
			key:        lipgloss.NewStyle(),
			value:      lipgloss.NewStyle(),
			empty:      lipgloss.NewStyle(),
			success:    lipgloss.NewStyle(),
			warning:    lipgloss.NewStyle(),
			errorStyle: lipgloss.NewStyle(),
			border:     lipgloss.NewStyle(),
		}
	}

	s := &styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")),
		section: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("220")),
		key: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		value: lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")),
		empty: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true),
		success: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42")),
		warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")),
		errorStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")),
		border: lipgloss.NewStyle(),
	}
	if bordered {
		s.border = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
	}
	return s
}

// DefaultManager implements Manager with lipgloss, bubbletea and huh.
type DefaultManager struct {
	out    io.Writer
	errOut io.Writer
	styles *styles
}

// NewDefaultManager creates an interactive manager writing to stdout.
func NewDefaultManager(colorEnabled bool) *DefaultManager {
	return &DefaultManager{
		out:    os.Stdout,
		errOut: os.Stderr,
		styles: newStyles(colorEnabled, true),
	}
}

// SetOutput redirects normal and error output.
func (m *DefaultManager) SetOutput(out, errOut io.Writer) {
	m.out, m.errOut = out, errOut
}

// RenderSettings prints every section and field. Sensitive values are masked
// unless revealSecrets is set.
func (m *DefaultManager) RenderSettings(path string, entries []store.Entry, revealSecrets bool) {
	fmt.Fprintln(m.out, m.styles.border.Render(renderSettings(m.styles, path, entries, revealSecrets)))
}

// EditFields runs the interactive edit form.
func (m *DefaultManager) EditFields(entries []store.Entry) ([]Change, error) {
	form, state := NewEditForm(entries)
	if err := form.Run(); err != nil {
		return nil, err
	}
	return state.Changes(), nil
}

// ShowSpinner creates and returns a spinner for loading states.
func (m *DefaultManager) ShowSpinner(text string) Spinner {
	return newBubbleSpinner(text)
}

// ShowError displays an error message to the user.
func (m *DefaultManager) ShowError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(m.errOut, m.styles.errorStyle.Render(apperrors.FormatError(err)))
}

// ShowWarning displays a warning.
func (m *DefaultManager) ShowWarning(message string) {
	fmt.Fprintln(m.errOut, m.styles.warning.Render("[WARN] "+message))
}

// ShowSuccess displays a success message to the user.
func (m *DefaultManager) ShowSuccess(message string) {
	fmt.Fprintln(m.out, m.styles.success.Render("[OK] "+message))
}

// PromptConfirm prompts for a yes/no confirmation.
func (m *DefaultManager) PromptConfirm(message string) (bool, error) {
	return runConfirm(message)
}

// NonInteractiveManager implements Manager without prompts, for scripts and --yes.
type NonInteractiveManager struct {
	out    io.Writer
	errOut io.Writer
	styles *styles
}

// NewNonInteractiveManager creates a new NonInteractiveManager.
func NewNonInteractiveManager(colorEnabled bool) *NonInteractiveManager {
	return &NonInteractiveManager{
		out:    os.Stdout,
		errOut: os.Stderr,
		styles: newStyles(colorEnabled, false),
	}
}

// SetOutput redirects normal and error output.
func (m *NonInteractiveManager) SetOutput(out, errOut io.Writer) {
	m.out, m.errOut = out, errOut
}

// RenderSettings prints every section and field.
func (m *NonInteractiveManager) RenderSettings(path string, entries []store.Entry, revealSecrets bool) {
	fmt.Fprintln(m.out, renderSettings(m.styles, path, entries, revealSecrets))
}

// EditFields is not available without a terminal.
func (m *NonInteractiveManager) EditFields([]store.Entry) ([]Change, error) {
	return nil, apperrors.NewInvalidArgumentsError("interactive editing needs a terminal; use 'lh2mqtt config set'")
}

// ShowSpinner returns a no-op spinner in non-interactive mode.
func (m *NonInteractiveManager) ShowSpinner(string) Spinner {
	return &noopSpinner{}
}

// ShowError displays an error message.
func (m *NonInteractiveManager) ShowError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(m.errOut, apperrors.FormatError(err))
}

// ShowWarning displays a warning.
func (m *NonInteractiveManager) ShowWarning(message string) {
	fmt.Fprintln(m.errOut, "[WARN] "+message)
}

// ShowSuccess displays a success message.
func (m *NonInteractiveManager) ShowSuccess(message string) {
	fmt.Fprintln(m.out, message)
}

// PromptConfirm always returns true in non-interactive mode.
func (m *NonInteractiveManager) PromptConfirm(string) (bool, error) {
	return true, nil
}

func renderSettings(st *styles, path string, entries []store.Entry, revealSecrets bool) string {
	var sb strings.Builder
	sb.WriteString(st.title.Render("lh2mqtt configuration"))
	sb.WriteString("\n")
	sb.WriteString(st.empty.Render(path))
	sb.WriteString("\n")

	width := 0
	for _, e := range entries {
		if len(e.Field.Name) > width {
			width = len(e.Field.Name)
		}
	}

	var current schema.Section
	for _, e := range entries {
		if e.Field.Section != current {
			current = e.Field.Section
			sb.WriteString("\n")
			sb.WriteString(st.section.Render("[" + string(current) + "]"))
			sb.WriteString("\n")
		}

		value := e.Value
		if e.Field.Sensitive && !revealSecrets {
			value = apperrors.MaskSecret(value)
		}
		rendered := st.value.Render(value)
		if value == "" {
			rendered = st.empty.Render("(empty)")
		}
		fmt.Fprintf(&sb, "  %s = %s\n", st.key.Render(fmt.Sprintf("%-*s", width, e.Field.Name)), rendered)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// noopSpinner is a no-op implementation of Spinner.
type noopSpinner struct{}

func (s *noopSpinner) Start()            {}
func (s *noopSpinner) Stop()             {}
func (s *noopSpinner) UpdateText(string) {}
