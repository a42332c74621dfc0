package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// visibleRows bounds how many options are drawn at once
const visibleRows = 15

// CheckboxOption represents a checkbox choice
type CheckboxOption struct {
	Label   string
	Value   string
	Checked bool
}

// CheckboxModel is the bubbletea model for multi-selection, used to pick
// which videos to transcribe
type CheckboxModel struct {
	title     string
	options   []CheckboxOption
	cursor    int
	offset    int
	done      bool
	minSelect int
}

// NewCheckboxModel creates a new checkbox selector
func NewCheckboxModel(title string, options []CheckboxOption) CheckboxModel {
	return CheckboxModel{
		title:     title,
		options:   options,
		minSelect: 1,
	}
}

func (m CheckboxModel) Init() tea.Cmd {
	return nil
}

func (m CheckboxModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.options)-1 {
				m.cursor++
			}
		case " ", "x":
			if len(m.options) > 0 {
				m.options[m.cursor].Checked = !m.options[m.cursor].Checked
			}
		case "a":
			m.setAll(true)
		case "n":
			m.setAll(false)
		case "enter":
			if m.countSelected() >= m.minSelect {
				m.done = true
				return m, tea.Quit
			}
		case "q", "ctrl+c", "esc":
			m.done = false
			m.setAll(false)
			return m, tea.Quit
		}
		m.scroll()
	}
	return m, nil
}

func (m *CheckboxModel) setAll(checked bool) {
	for i := range m.options {
		m.options[i].Checked = checked
	}
}

// scroll keeps the cursor inside the visible window
func (m *CheckboxModel) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visibleRows {
		m.offset = m.cursor - visibleRows + 1
	}
}

func (m CheckboxModel) countSelected() int {
	count := 0
	for _, opt := range m.options {
		if opt.Checked {
			count++
		}
	}
	return count
}

func (m CheckboxModel) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(m.title))
	sb.WriteString("\n\n")

	end := min(m.offset+visibleRows, len(m.options))
	if m.offset > 0 {
		sb.WriteString(hintStyle.Render("  ↑ more"))
		sb.WriteString("\n")
	}
	for i := m.offset; i < end; i++ {
		opt := m.options[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		checkbox := "[ ]"
		style := uncheckedStyle
		if opt.Checked {
			checkbox = "[x]"
			style = checkedStyle
		}

		line := fmt.Sprintf("%s%s %s", cursor, checkbox, opt.Label)
		sb.WriteString(style.Render(line))
		sb.WriteString("\n")
	}
	if end < len(m.options) {
		sb.WriteString(hintStyle.Render("  ↓ more"))
		sb.WriteString("\n")
	}

	selected := m.countSelected()
	hint := fmt.Sprintf("\n%d selected", selected)
	if selected < m.minSelect {
		hint += fmt.Sprintf(" (select at least %d)", m.minSelect)
	}
	sb.WriteString(hint)
	sb.WriteString("\n")
	sb.WriteString(hintStyle.Render("(space=toggle, a=all, n=none, enter=confirm, q=cancel)"))
	sb.WriteString("\n")

	return sb.String()
}

// Selected returns the selected option values in display order
func (m CheckboxModel) Selected() []string {
	var result []string
	for _, opt := range m.options {
		if opt.Checked {
			result = append(result, opt.Value)
		}
	}
	return result
}

// Cancelled returns true if the user cancelled
func (m CheckboxModel) Cancelled() bool {
	return !m.done
}

// RunCheckbox displays checkboxes and returns selected values, nil when
// cancelled
func RunCheckbox(title string, options []CheckboxOption) ([]string, error) {
	p := tea.NewProgram(NewCheckboxModel(title, options))

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	result := finalModel.(CheckboxModel)
	if result.Cancelled() {
		return nil, nil
	}
	return result.Selected(), nil
}
