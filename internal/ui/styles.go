package ui

import "github.com/charmbracelet/lipgloss"

// Picker palette. Dark values match the chip and frame colors in components.
var (
	brandColor  = lipgloss.AdaptiveColor{Light: "#5a3d85", Dark: "#7f57b4"}
	promptColor = lipgloss.AdaptiveColor{Light: "#2f5561", Dark: "#436b77"}
	caretColor  = lipgloss.AdaptiveColor{Light: "#80573a", Dark: "#a7754e"}
	inkColor    = lipgloss.AdaptiveColor{Light: "#1f2330", Dark: "#d7d9da"}
	dimColor    = lipgloss.AdaptiveColor{Light: "#5c6078", Dark: "#9ba0bf"}
	okColor     = lipgloss.AdaptiveColor{Light: "#2c6b53", Dark: "#3f866b"}
	pausedColor = lipgloss.AdaptiveColor{Light: "#8f5a2c", Dark: "#c78854"}
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(promptColor).Bold(true)
	caretStyle  = lipgloss.NewStyle().Foreground(caretColor)

	// Candidate rows: the browsed row and the rest.
	cursorRowStyle = lipgloss.NewStyle().Foreground(brandColor).Bold(true)
	rowStyle       = lipgloss.NewStyle().Foreground(inkColor)

	localeBadgeStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#ffffff", Dark: "#16161d"}).
				Background(dimColor).
				Padding(0, 1)

	noteStyle   = lipgloss.NewStyle().Foreground(dimColor)
	enterStyle  = lipgloss.NewStyle().Foreground(caretColor).Italic(true)
	statusStyle = lipgloss.NewStyle().Foreground(okColor)
	pausedStyle = lipgloss.NewStyle().Foreground(pausedColor)
)
