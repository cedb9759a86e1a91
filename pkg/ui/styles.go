package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	accentCyan    = lipgloss.Color("#00FFFF")
	accentMagenta = lipgloss.Color("#FF00FF")
	accentGreen   = lipgloss.Color("#39FF14")
	accentYellow  = lipgloss.Color("#FFFF00")
	dimWhite      = lipgloss.Color("#B0B0B0")
)

// styles are bound to one output so that files and pipes get plain text
// while terminals get color
type styles struct {
	title    lipgloss.Style
	panel    lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	follower lipgloss.Style
	mention  lipgloss.Style
	dim      lipgloss.Style
	header   lipgloss.Style
	cell     lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title: r.NewStyle().
			Foreground(accentCyan).
			Bold(true),
		panel: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentMagenta).
			Padding(0, 1),
		label: r.NewStyle().
			Foreground(accentCyan).
			Bold(true),
		value: r.NewStyle().
			Foreground(accentYellow),
		follower: r.NewStyle().
			Foreground(accentGreen),
		mention: r.NewStyle().
			Foreground(accentMagenta),
		dim: r.NewStyle().
			Foreground(dimWhite).
			Faint(true),
		header: r.NewStyle().
			Foreground(accentCyan).
			Bold(true).
			Padding(0, 1),
		cell: r.NewStyle().
			Padding(0, 1),
	}
}
