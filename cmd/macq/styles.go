package main

import "github.com/charmbracelet/lipgloss"

// Layout constants
const (
	maxBarWidth   = 24 // probability bar width in characters
	maxAmpRows    = 16 // basis states shown in the state pane
	histogramRows = 10 // outcomes shown in the histogram pane
)

// Lipgloss styles used across the TUI.
var (
	editorStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7aa2f7")).
			Padding(1)

	stateStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#bb9af7")).
			Padding(1)

	histStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#9ece6a")).
			Padding(1)

	controlsStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#9ece6a")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff9e64"))

	basisStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7dcfff"))

	barStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#73daca"))

	ampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0caf5"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#565f89"))

	errStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#f7768e"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e0af68"))
)
