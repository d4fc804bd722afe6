package ui

import "github.com/charmbracelet/lipgloss"

var (
	// Color palette
	colorPrimary = lipgloss.Color("#00BFFF") // Deep sky blue
	colorAccent  = lipgloss.Color("#FFD93D") // Marker highlight
	colorDanger  = lipgloss.Color("#FF6B6B") // Errors
	colorSuccess = lipgloss.Color("#6BCF7F") // Playing
	colorMuted   = lipgloss.Color("#6C757D") // Gray
	colorBorder  = lipgloss.Color("#4A90E2") // Border blue

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(1, 0)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorDanger).
			Bold(true)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	// Map marker styles, by station density in a cell
	markerSparse = lipgloss.NewStyle().Foreground(lipgloss.Color("#2E8B57"))
	markerMedium = lipgloss.NewStyle().Foreground(lipgloss.Color("#3CB371"))
	markerDense  = lipgloss.NewStyle().Foreground(colorSuccess)
	markerFocus  = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)

	playingStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)

	volumeStyle = lipgloss.NewStyle().
			Foreground(colorPrimary)
)
