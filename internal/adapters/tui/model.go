// Package tui provides the interactive retry dialog shown after a compile failure.
package tui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/shadercache/internal/core/domain"
)

const (
	defaultWidth  = 80
	chromeHeight  = 8
	minViewHeight = 3
	maxViewHeight = 20
)

// Model is the bubbletea model of the retry dialog.
type Model struct {
	Failure  domain.Failure
	Viewport viewport.Model
	Decision domain.Decision
	Decided  bool
}

// NewModel creates the dialog for a failure. The viewport is sized to the
// diagnostic until the first window size message arrives.
func NewModel(f domain.Failure) Model {
	vp := viewport.New(defaultWidth, clamp(lineCount(f.Diagnostic), minViewHeight, maxViewHeight))
	vp.SetContent(f.Diagnostic)
	return Model{
		Failure:  f,
		Viewport: vp,
		Decision: domain.DecisionAbort,
	}
}

// Init initializes the model.
//
//nolint:gocritic // hugeParam ignored
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles key presses and resizes.
//
//nolint:gocritic // hugeParam ignored
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "r", "enter":
			return m.decide(domain.DecisionRetry)
		case "a", "esc", "q", "ctrl+c":
			return m.decide(domain.DecisionAbort)
		}

	case tea.WindowSizeMsg:
		m.Viewport.Width = msg.Width - diagnosticStyle.GetHorizontalFrameSize()
		m.Viewport.Height = clamp(msg.Height-chromeHeight, minViewHeight, maxViewHeight)
		m.Viewport.SetContent(m.Failure.Diagnostic)
	}

	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	return m, cmd
}

//nolint:gocritic // hugeParam ignored
func (m Model) decide(d domain.Decision) (tea.Model, tea.Cmd) {
	m.Decision = d
	m.Decided = true
	return m, tea.Quit
}

func lineCount(s string) int {
	n := 1
	for _, r := range s {
		if r == '\n' {
			n++
		}
	}
	return n
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
