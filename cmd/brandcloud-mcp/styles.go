package main

import "github.com/charmbracelet/lipgloss"

var (
	orange      = lipgloss.AdaptiveColor{Light: "#EA580C", Dark: "#FB923C"}
	muted       = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(orange).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(muted)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#4ADE80"})
)
