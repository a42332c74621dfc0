package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// PromptModel asks for one line of text
type PromptModel struct {
	title     string
	input     textinput.Model
	done      bool
	cancelled bool
}

// NewPromptModel creates a text prompt
func NewPromptModel(title, placeholder string) PromptModel {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 200
	ti.Width = 40
	ti.Focus()

	return PromptModel{title: title, input: ti}
}

func (m PromptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m PromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			if strings.TrimSpace(m.input.Value()) == "" {
				return m, nil
			}
			m.done = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m PromptModel) View() string {
	if m.done || m.cancelled {
		return ""
	}
	return titleStyle.Render("? "+m.title) + "\n\n" +
		m.input.View() + "\n\n" +
		hintStyle.Render("(enter to confirm, esc to cancel)") + "\n"
}

// Value returns the trimmed input
func (m PromptModel) Value() string {
	return strings.TrimSpace(m.input.Value())
}

// Cancelled returns true if the user cancelled
func (m PromptModel) Cancelled() bool {
	return m.cancelled
}

// RunPrompt asks for a line of text. An empty string means cancelled.
func RunPrompt(title, placeholder string) (string, error) {
	p := tea.NewProgram(NewPromptModel(title, placeholder))

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	result := finalModel.(PromptModel)
	if result.Cancelled() {
		return "", nil
	}
	return result.Value(), nil
}
