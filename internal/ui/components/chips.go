package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	chipStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d7d9da")).
			Background(lipgloss.Color("#273540")).
			Padding(0, 1)

	chipActiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#16161d")).
			Background(lipgloss.Color("#7f57b4")).
			Bold(true).
			Padding(0, 1)

	chipPendingStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#9ba0bf")).
				Background(lipgloss.Color("#273540")).
				Italic(true).
				Padding(0, 1)

	hintKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#5a3d85", Dark: "#7f57b4"}).
			Bold(true)

	hintActionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#5c6078", Dark: "#9ba0bf"})
)

// Chip is one attached tag as shown in the chip row.
type Chip struct {
	Label   string
	Pending bool
}

// KeyHint is one key binding listed in the footer.
type KeyHint struct {
	Key    string
	Action string
}

// maxChipLabel caps a single chip so one long name cannot take a whole row.
const maxChipLabel = 24

// Chips renders chips inline, wrapping rows at width. active < 0 highlights
// none.
func Chips(chips []Chip, active, width int) string {
	segments := make([]string, 0, len(chips))
	for i, c := range chips {
		label := Clamp(c.Label, maxChipLabel)
		switch {
		case i == active:
			segments = append(segments, chipActiveStyle.Render(label))
		case c.Pending:
			segments = append(segments, chipPendingStyle.Render(label))
		default:
			segments = append(segments, chipStyle.Render(label))
		}
	}
	return strings.Join(flow(segments, 1, width), "\n")
}

// Footer lists key hints as "key action" pairs, wrapping rows at width.
func Footer(hints []KeyHint, width int) string {
	segments := make([]string, 0, len(hints))
	for _, h := range hints {
		segments = append(segments, hintKeyStyle.Render(h.Key)+" "+hintActionStyle.Render(h.Action))
	}
	return strings.Join(flow(segments, 3, width), "\n")
}

// flow packs single-line segments into rows no wider than width, gap spaces
// apart. A segment wider than width gets a row of its own.
func flow(segments []string, gap, width int) []string {
	var rows []string
	var row strings.Builder
	used := 0
	for _, seg := range segments {
		w := lipgloss.Width(seg)
		if used > 0 && width > 0 && used+gap+w > width {
			rows = append(rows, row.String())
			row.Reset()
			used = 0
		}
		if used > 0 {
			row.WriteString(strings.Repeat(" ", gap))
			used += gap
		}
		row.WriteString(seg)
		used += w
	}
	if used > 0 {
		rows = append(rows, row.String())
	}
	return rows
}
