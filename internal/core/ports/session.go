package ports

import (
	"context"

	"go.trai.ch/shadercache/internal/core/domain"
)

// CompileSession compiles one request through the cache.
//
//go:generate mockgen -source=session.go -destination=mocks/mock_session.go -package=mocks
type CompileSession interface {
	// CompileResult compiles req, serving it from the cache when the stored hash matches.
	CompileResult(ctx context.Context, req domain.CompileRequest) (domain.CompileResult, error)
}
