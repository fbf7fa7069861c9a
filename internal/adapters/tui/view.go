package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/shadercache/internal/ui/style"
)

// View renders the dialog. Once a decision is made it renders a one-line summary.
//
//nolint:gocritic // hugeParam ignored
func (m Model) View() string {
	req := m.Failure.Request
	if m.Decided {
		return style.Muted.Render(fmt.Sprintf("%s %s: %s", style.Arrow, req.SourcePath, m.Decision)) + "\n"
	}

	title := fmt.Sprintf("%s Compile failed: %s", style.Cross, req.SourcePath)
	if m.Failure.Attempt > 1 {
		title += fmt.Sprintf(" (attempt %d)", m.Failure.Attempt)
	}

	details := fmt.Sprintf("entry %s, profile %s", req.EntryPoint, req.Profile)
	if len(req.Macros) > 0 {
		details += ", " + req.Macros.String()
	}

	parts := []string{
		style.Title.Render(title),
		style.Muted.Render(details),
		diagnosticStyle.Render(m.Viewport.View()),
	}
	if len(m.Failure.Files) > 0 {
		parts = append(parts, style.Muted.Render("Edit any of: "+strings.Join(m.Failure.Files, ", ")))
	}
	parts = append(parts, hints())

	return lipgloss.JoinVertical(lipgloss.Left, parts...) + "\n"
}

func hints() string {
	return fmt.Sprintf("%s retry  %s abort  %s scroll",
		style.Key.Render("r/enter"),
		style.Key.Render("a/esc"),
		style.Key.Render("↑/↓"),
	)
}
