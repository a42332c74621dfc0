package tui

import "github.com/charmbracelet/lipgloss"

var (
	selectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	normalStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	checkedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	uncheckedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	titleStyle     = lipgloss.NewStyle().Bold(true)
	hintStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	// Exported for result printing in the cli package
	MatchStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	TimestampStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	HeaderStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
	SuccessStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	ErrorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)
