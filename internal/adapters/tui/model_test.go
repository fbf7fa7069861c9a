package tui_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/shadercache/internal/adapters/tui"
	"go.trai.ch/shadercache/internal/core/domain"
)

func failure() domain.Failure {
	return domain.Failure{
		Request: domain.CompileRequest{
			SourcePath: "shaders/mesh.wgsl",
			EntryPoint: "fs_main",
			Profile:    "spirv",
			Macros:     domain.Macros{{Name: "SHADOWS", Value: "1"}},
		},
		Diagnostic: "3:5 unexpected token",
		Attempt:    2,
		Files:      []string{"shaders/mesh.wgsl", "shaders/common.wgsl"},
	}
}

func press(m tea.Model, key string) (tui.Model, tea.Cmd) {
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		msg = tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, cmd := m.Update(msg)
	return next.(tui.Model), cmd
}

func TestModel_Keys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key  string
		want domain.Decision
	}{
		{"r", domain.DecisionRetry},
		{"enter", domain.DecisionRetry},
		{"a", domain.DecisionAbort},
		{"q", domain.DecisionAbort},
		{"esc", domain.DecisionAbort},
		{"ctrl+c", domain.DecisionAbort},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Parallel()

			m, cmd := press(tui.NewModel(failure()), tt.key)
			assert.True(t, m.Decided)
			assert.Equal(t, tt.want, m.Decision)
			require.NotNil(t, cmd)
			assert.IsType(t, tea.QuitMsg{}, cmd())
		})
	}
}

func TestModel_OtherKeysDoNotDecide(t *testing.T) {
	t.Parallel()

	m, _ := press(tui.NewModel(failure()), "x")
	assert.False(t, m.Decided)
	assert.Equal(t, domain.DecisionAbort, m.Decision)
}

func TestModel_WindowSize(t *testing.T) {
	t.Parallel()

	next, _ := tui.NewModel(failure()).Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m := next.(tui.Model)
	assert.Equal(t, 20, m.Viewport.Height)
	assert.Less(t, m.Viewport.Width, 100)

	next, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 5})
	assert.Equal(t, 3, next.(tui.Model).Viewport.Height)
}

func TestModel_View(t *testing.T) {
	t.Parallel()

	view := tui.NewModel(failure()).View()
	assert.Contains(t, view, "Compile failed: shaders/mesh.wgsl (attempt 2)")
	assert.Contains(t, view, "entry fs_main, profile spirv, SHADOWS=1")
	assert.Contains(t, view, "3:5 unexpected token")
	assert.Contains(t, view, "Edit any of: shaders/mesh.wgsl, shaders/common.wgsl")
	assert.Contains(t, view, "retry")

	m, _ := press(tui.NewModel(failure()), "r")
	assert.Equal(t, 1, strings.Count(m.View(), "\n"))
	assert.Contains(t, m.View(), "shaders/mesh.wgsl: retry")
}

func TestDecider_Decide(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	d := tui.NewDecider(strings.NewReader("r"), &out)

	decision, err := d.Decide(context.Background(), failure())
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionRetry, decision)
}

func TestDecider_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	decision, err := tui.NewDecider(strings.NewReader(""), &out).Decide(ctx, failure())
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, domain.DecisionAbort, decision)
}
