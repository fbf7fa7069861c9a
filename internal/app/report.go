package app

import (
	"fmt"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/shadercache/internal/adapters/telemetry"
	"go.trai.ch/shadercache/internal/ui/output"
	"go.trai.ch/shadercache/internal/ui/style"
)

// printTimings writes one line per compile span followed by a total.
func (a *App) printTimings(spans []telemetry.SpanSummary) {
	out := output.New(a.errOut)

	var total time.Duration
	hits := 0
	for _, s := range spans {
		total += s.Duration
		state, color := "compiled", style.Green
		switch {
		case s.Failed:
			state, color = "failed", style.Red
		case s.CacheHit:
			state, color = "cached", style.Slate
			hits++
		}
		line := fmt.Sprintf("%8s  %-8s  %s", round(s.Duration), state, s.Name)
		if s.Attempts > 1 {
			line += fmt.Sprintf(" (%d attempts)", s.Attempts)
		}
		_, _ = out.WriteString(out.String(line).Foreground(termenv.RGBColor(string(color))).String() + "\n")
	}

	_, _ = fmt.Fprintf(out, "%8s  %d compile(s), %d cached\n", round(total), len(spans), hits)
}

func round(d time.Duration) time.Duration {
	return d.Round(time.Millisecond)
}
