package matrix

import (
	"context"
	"errors"
	"fmt"

	"go.trai.ch/shadercache/internal/core/domain"
	"go.trai.ch/shadercache/internal/core/ports"
	"go.trai.ch/zerr"
)

// Builder compiles every retained variant of a matrix through a compile session.
type Builder struct {
	session ports.CompileSession
	tracer  ports.Tracer
	logger  ports.Logger
}

// NewBuilder creates a Builder.
func NewBuilder(session ports.CompileSession, tracer ports.Tracer, logger ports.Logger) *Builder {
	return &Builder{
		session: session,
		tracer:  tracer,
		logger:  logger,
	}
}

// Build compiles the variants of spec one at a time and returns the grid.
// The first failing variant fails the whole build.
func (b *Builder) Build(ctx context.Context, spec domain.MatrixSpec) (*domain.VariantGrid, error) {
	skip, err := Rules(spec)
	if err != nil {
		return nil, zerr.With(err, "matrix", spec.Name)
	}

	variants, err := Enumerate(spec.Axes, skip)
	if err != nil {
		return nil, zerr.With(err, "matrix", spec.Name)
	}

	ctx, span := b.tracer.Start(ctx, "matrix "+spec.Name, ports.WithAttribute("matrix.variants", len(variants)))
	defer span.End()

	grid := domain.NewVariantGrid(spec.Name, spec.Axes)
	hits := 0
	for i, v := range variants {
		if err := ctx.Err(); err != nil {
			span.RecordError(err)
			return nil, buildError(spec, v, err)
		}

		res, err := b.session.CompileResult(ctx, spec.Request(v))
		if err != nil {
			span.RecordError(err)
			return nil, buildError(spec, v, err)
		}

		state := "compiled"
		if res.CacheHit {
			state = "cached"
			hits++
		}
		b.logger.Info(fmt.Sprintf("[%d/%d] %s %s", i+1, len(variants), describe(spec, v), state))

		grid.Add(domain.GridEntry{
			Variant:  v,
			Artifact: res.Artifact,
			CacheKey: res.Key,
			CacheHit: res.CacheHit,
		})
	}

	span.SetAttribute("matrix.cache_hits", hits)
	return grid, nil
}

func describe(spec domain.MatrixSpec, v domain.Variant) string {
	if sel := v.Selection.String(spec.Axes); sel != "" {
		return spec.Name + " {" + sel + "}"
	}
	return spec.Name
}

func buildError(spec domain.MatrixSpec, v domain.Variant, cause error) error {
	err := zerr.With(errors.Join(domain.ErrMatrixBuildFailed, cause), "matrix", spec.Name)
	return zerr.With(err, "variant", v.Key.String())
}
