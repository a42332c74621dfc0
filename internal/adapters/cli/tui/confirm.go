package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// ConfirmModel is a yes/no question
type ConfirmModel struct {
	question string
	yes      bool
	answered bool
}

// NewConfirmModel creates a yes/no prompt with a default answer
func NewConfirmModel(question string, defaultYes bool) ConfirmModel {
	return ConfirmModel{question: question, yes: defaultYes}
}

func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "y", "Y":
			m.yes, m.answered = true, true
			return m, tea.Quit
		case "n", "N", "q", "esc", "ctrl+c":
			m.yes, m.answered = false, true
			return m, tea.Quit
		case "left", "right", "h", "l", "tab":
			m.yes = !m.yes
		case "enter":
			m.answered = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m ConfirmModel) View() string {
	if m.answered {
		return ""
	}
	yes, no := normalStyle.Render("Yes"), normalStyle.Render("No")
	if m.yes {
		yes = selectedStyle.Render("[Yes]")
	} else {
		no = selectedStyle.Render("[No]")
	}
	return titleStyle.Render("? "+m.question) + "  " + yes + " / " + no + "\n"
}

// Confirmed reports the answer
func (m ConfirmModel) Confirmed() bool {
	return m.yes
}

// RunConfirm asks a yes/no question
func RunConfirm(question string, defaultYes bool) (bool, error) {
	p := tea.NewProgram(NewConfirmModel(question, defaultYes))

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}
	return finalModel.(ConfirmModel).Confirmed(), nil
}
