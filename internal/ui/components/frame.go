package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const (
	minFrameWidth = 32
	maxFrameWidth = 72
)

var (
	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.AdaptiveColor{Light: "#b8bcc8", Dark: "#273540"}).
			Padding(0, 1)

	frameTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#5a3d85", Dark: "#7f57b4"}).
			Bold(true)

	frameSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#5c6078", Dark: "#9ba0bf"})

	errorMarkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e06c75")).
			Bold(true)

	errorTextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#8a2f3a", Dark: "#d6b5b5"})
)

// FrameWidth is the outer width of the picker frame on a terminal this wide.
// Zero means the terminal size is not known yet and the frame fits its content.
func FrameWidth(termWidth int) int {
	if termWidth <= 0 {
		return 0
	}
	w := min(termWidth-2, maxFrameWidth)
	if w < minFrameWidth {
		w = min(minFrameWidth, termWidth)
	}
	return w
}

// InnerWidth is the text width left inside the frame border and padding.
func InnerWidth(termWidth int) int {
	return max(FrameWidth(termWidth)-4, 0)
}

// Frame draws body in a rounded border under a header line. The subtitle is
// dimmed, e.g. the viewer's locale next to the "Tags" title.
func Frame(title, subtitle, body string, termWidth int) string {
	header := frameTitleStyle.Render(title)
	if subtitle != "" {
		header += " " + frameSubtitleStyle.Render(subtitle)
	}
	style := frameStyle
	if w := FrameWidth(termWidth); w > 0 {
		style = style.Width(w - 2)
		header = ansi.Truncate(header, w, "…")
	}
	return header + "\n" + style.Render(body)
}

// ErrorNote renders a one-paragraph error under the frame, wrapped to the
// frame's inner width.
func ErrorNote(message string, termWidth int) string {
	text := errorTextStyle
	if w := InnerWidth(termWidth); w > 2 {
		text = text.Width(w - 2)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, errorMarkStyle.Render("✗ "), text.Render(message))
}

// Clamp sanitizes text to one line and cuts it to width display cells,
// ending in an ellipsis when cut. A width of zero or less only sanitizes.
func Clamp(text string, width int) string {
	cleaned := SanitizeOneLine(text)
	if width <= 0 {
		return cleaned
	}
	return ansi.Truncate(cleaned, width, "…")
}
