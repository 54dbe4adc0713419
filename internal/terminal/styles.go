package terminal

import "github.com/charmbracelet/lipgloss"

var (
	separatorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))

	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	skippedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	ignoredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	summaryStyle = lipgloss.NewStyle().Bold(true).MarginTop(1)
)
