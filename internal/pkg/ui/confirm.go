package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func runConfirm(message string) (bool, error) {
	p := tea.NewProgram(newConfirmModel(message))

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}
	return finalModel.(confirmModel).confirmed, nil
}

// confirmModel is the Bubble Tea model for yes/no confirmation.
type confirmModel struct {
	message   string
	cursor    int // 0 = Yes, 1 = No
	confirmed bool
	done      bool
}

func newConfirmModel(message string) confirmModel {
	return confirmModel{message: message}
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "q", "n", "N", "esc":
			m.confirmed = false
			m.done = true
			return m, tea.Quit
		case "y", "Y", "j", "J":
			m.confirmed = true
			m.done = true
			return m, tea.Quit
		case "left", "h":
			m.cursor = 0
		case "right", "l":
			m.cursor = 1
		case "enter", " ":
			m.confirmed = m.cursor == 0
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.done {
		return ""
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
	selectedStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	normalStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	yesStyle, noStyle := selectedStyle, normalStyle
	if m.cursor == 1 {
		yesStyle, noStyle = normalStyle, selectedStyle
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(m.message))
	sb.WriteString(" ")
	sb.WriteString(yesStyle.Render("[Y]es"))
	sb.WriteString(" / ")
	sb.WriteString(noStyle.Render("[N]o"))
	return sb.String()
}
