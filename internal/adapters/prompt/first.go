package prompt

import (
	"context"

	"go.trai.ch/shadercache/internal/core/domain"
	"go.trai.ch/shadercache/internal/core/ports"
	"golang.org/x/sync/errgroup"
)

var _ ports.RetryDecider = (*FirstOf)(nil)

// FirstOf races several deciders and returns the first answer. The others are
// cancelled, so every decider must return promptly once its context is done.
type FirstOf struct {
	deciders []ports.RetryDecider
}

// NewFirstOf creates a FirstOf over deciders.
func NewFirstOf(deciders ...ports.RetryDecider) *FirstOf {
	return &FirstOf{deciders: deciders}
}

type answer struct {
	decision domain.Decision
	err      error
}

// Decide returns the first decision made by any decider. Decider errors are
// returned only when every decider failed.
func (r *FirstOf) Decide(ctx context.Context, f domain.Failure) (domain.Decision, error) {
	switch len(r.deciders) {
	case 0:
		return domain.DecisionAbort, nil
	case 1:
		return r.deciders[0].Decide(ctx, f)
	}

	raceCtx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(raceCtx)
	answers := make(chan answer, len(r.deciders))

	for _, d := range r.deciders {
		g.Go(func() error {
			decision, err := d.Decide(gctx, f)
			if gctx.Err() == nil {
				answers <- answer{decision: decision, err: err}
			}
			return nil
		})
	}

	first := answer{decision: domain.DecisionAbort}
	for pending := len(r.deciders); pending > 0; pending-- {
		select {
		case a := <-answers:
			first = a
		case <-ctx.Done():
			first = answer{decision: domain.DecisionAbort, err: ctx.Err()}
		}
		// A decider that failed to run leaves the decision to the others.
		if first.err == nil || ctx.Err() != nil {
			break
		}
	}
	cancel()
	_ = g.Wait()
	return first.decision, first.err
}
