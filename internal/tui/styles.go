package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	Title     lipgloss.Style
	Subtle    lipgloss.Style
	Error     lipgloss.Style
	Info      lipgloss.Style
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Selected  lipgloss.Style
	Label     lipgloss.Style
	Box       lipgloss.Style
	Greeting  lipgloss.Style
}

func defaultStyles() styles {
	accent := lipgloss.Color("33")
	return styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(accent),
		Subtle:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Info:      lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Tab:       lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("250")),
		ActiveTab: lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("231")).Background(accent),
		Selected:  lipgloss.NewStyle().Bold(true).Foreground(accent),
		Label:     lipgloss.NewStyle().Width(14).Foreground(lipgloss.Color("245")),
		Box:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(1, 2),
		Greeting:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231")),
	}
}
