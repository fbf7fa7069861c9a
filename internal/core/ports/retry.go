package ports

import (
	"context"

	"go.trai.ch/shadercache/internal/core/domain"
)

// RetryDecider chooses between retrying and aborting after a rejected compile.
//
//go:generate mockgen -source=retry.go -destination=mocks/mock_retry.go -package=mocks
type RetryDecider interface {
	// Decide blocks until a decision is made. Implementations return
	// domain.DecisionAbort when ctx is done.
	Decide(ctx context.Context, f domain.Failure) (domain.Decision, error)
}
