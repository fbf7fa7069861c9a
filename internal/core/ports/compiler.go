// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/shadercache/internal/core/domain"
)

// Compiler turns expanded shader source into a binary artifact.
//
//go:generate mockgen -source=compiler.go -destination=mocks/mock_compiler.go -package=mocks
type Compiler interface {
	// Compile compiles the input.
	//
	// A source the compiler rejects is reported as a *domain.Diagnostic so callers
	// can offer a retry. Any other error means the compiler itself failed.
	Compile(ctx context.Context, in domain.CompileInput) (domain.Artifact, error)
}
