// Package style holds the colors, icons and lipgloss styles shared by the
// logger, the line prompt and the retry dialog.
package style

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Cross   = "✗"
	Warning = "!"
	Arrow   = "→"
)

// Text styles.
var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(Red)
	Muted = lipgloss.NewStyle().Foreground(Slate)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(Iris)

	// Diagnostic frames compiler output in the retry dialog.
	Diagnostic = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Red).
			Padding(0, 1)
)
