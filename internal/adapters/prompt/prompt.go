// Package prompt implements retry deciders for non-interactive and line-based terminals.
package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/muesli/termenv"
	"go.trai.ch/shadercache/internal/core/domain"
	"go.trai.ch/shadercache/internal/core/ports"
	"go.trai.ch/shadercache/internal/ui/output"
	"go.trai.ch/shadercache/internal/ui/style"
)

var (
	_ ports.RetryDecider = (*Linear)(nil)
	_ ports.RetryDecider = Abort{}
)

// Abort never retries.
type Abort struct{}

// Decide always returns DecisionAbort.
func (Abort) Decide(_ context.Context, _ domain.Failure) (domain.Decision, error) {
	return domain.DecisionAbort, nil
}

type lineResult struct {
	line string
	err  error
}

// Linear asks on a line-oriented terminal whether to retry a failed compile.
// A single reader goroutine owns the input so a cancelled prompt does not lose
// the next answer.
type Linear struct {
	in  io.Reader
	out *termenv.Output

	once  sync.Once
	lines chan lineResult
}

// NewLinear creates a Linear prompt reading answers from in and writing to out.
func NewLinear(in io.Reader, out io.Writer) *Linear {
	return &Linear{
		in:    in,
		out:   output.NewWithProfile(out, output.ColorProfileANSI),
		lines: make(chan lineResult),
	}
}

// Decide prints the diagnostic and waits for an answer. EOF on the input aborts.
func (l *Linear) Decide(ctx context.Context, f domain.Failure) (domain.Decision, error) {
	l.once.Do(func() { go l.read() })

	l.printFailure(f)
	for {
		l.printf("%s ", style.Key.Render("[r]etry / [a]bort?"))

		select {
		case <-ctx.Done():
			l.printf("\n")
			return domain.DecisionAbort, ctx.Err()
		case res, ok := <-l.lines:
			if !ok || res.err != nil {
				l.printf("\n")
				return domain.DecisionAbort, nil
			}
			if d, valid := ParseAnswer(res.line); valid {
				return d, nil
			}
		}
	}
}

func (l *Linear) read() {
	defer close(l.lines)

	scanner := bufio.NewScanner(l.in)
	for scanner.Scan() {
		l.lines <- lineResult{line: scanner.Text()}
	}
	if err := scanner.Err(); err != nil {
		l.lines <- lineResult{err: err}
	}
}

func (l *Linear) printFailure(f domain.Failure) {
	title := fmt.Sprintf("%s compile failed: %s (%s, entry %s)",
		style.Cross, f.Request.SourcePath, f.Request.Profile, f.Request.EntryPoint)
	if f.Attempt > 1 {
		title += fmt.Sprintf(" attempt %d", f.Attempt)
	}

	l.printf("%s\n", l.out.String(title).Foreground(l.out.Color(string(style.Red))).Bold())
	for line := range strings.SplitSeq(f.Diagnostic, "\n") {
		l.printf("  %s\n", line)
	}
	if len(f.Files) > 0 {
		l.printf("%s\n", l.out.String("fix any of: "+strings.Join(f.Files, ", ")).Faint())
	}
}

func (l *Linear) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(l.out, format, args...)
}

// ParseAnswer maps a typed answer to a decision. The second result is false for
// answers that should be asked again.
func ParseAnswer(s string) (domain.Decision, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "r", "retry", "y", "yes":
		return domain.DecisionRetry, true
	case "a", "abort", "n", "no", "q", "quit":
		return domain.DecisionAbort, true
	default:
		return domain.DecisionAbort, false
	}
}
