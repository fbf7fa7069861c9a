package tui

import (
	"context"
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/shadercache/internal/core/domain"
	"go.trai.ch/shadercache/internal/core/ports"
)

var _ ports.RetryDecider = (*Decider)(nil)

// Decider shows the retry dialog on a terminal.
type Decider struct {
	in  io.Reader
	out io.Writer
}

// NewDecider creates a Decider. A nil in or out uses the process terminal.
func NewDecider(in io.Reader, out io.Writer) *Decider {
	return &Decider{in: in, out: out}
}

// Decide runs the dialog until the user answers or ctx is cancelled.
func (d *Decider) Decide(ctx context.Context, f domain.Failure) (domain.Decision, error) {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if d.in != nil {
		opts = append(opts, tea.WithInput(d.in))
	}
	if d.out != nil {
		opts = append(opts, tea.WithOutput(d.out))
	}

	final, err := tea.NewProgram(NewModel(f), opts...).Run()
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, tea.ErrProgramKilled) {
			return domain.DecisionAbort, ctx.Err()
		}
		return domain.DecisionAbort, err
	}

	m, ok := final.(Model)
	if !ok || !m.Decided {
		return domain.DecisionAbort, nil
	}
	return m.Decision, nil
}
