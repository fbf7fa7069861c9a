package app

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/shadercache/internal/adapters/cas"
	"go.trai.ch/shadercache/internal/core/domain"
	"go.trai.ch/shadercache/internal/engine/matrix"
	"go.trai.ch/zerr"
)

// MatrixOptions configuration for the Matrix method.
type MatrixOptions struct {
	Options

	// Names selects matrices to build. Empty builds all of them.
	Names []string
	// List prints the retained variants without compiling.
	List bool
	// Skip holds extra conditions that together form one skip rule.
	Skip []string
	// OutDir receives <matrix>/<variant>.bin for every compiled variant.
	OutDir string
}

// Matrix builds the variant matrices defined in the configuration file.
func (a *App) Matrix(ctx context.Context, opts MatrixOptions) error {
	return a.traced(ctx, opts.Options, func() error {
		e, err := a.prepare(opts.Options, true)
		if err != nil {
			return err
		}

		specs, err := selectMatrices(e.project, opts.Names)
		if err != nil {
			return err
		}

		builder := matrix.NewBuilder(e.session, e.tracer, a.logger)
		for _, spec := range specs {
			if len(opts.Skip) > 0 {
				spec.SkipWhen = append(slices.Clip(spec.SkipWhen), opts.Skip)
			}

			if opts.List {
				if err := a.listVariants(spec); err != nil {
					return err
				}
				continue
			}

			grid, err := builder.Build(ctx, spec)
			if err != nil {
				return err
			}
			a.logger.Info(summarize(grid))

			if opts.OutDir != "" {
				if err := a.writeGrid(opts.OutDir, grid); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func selectMatrices(project *domain.Project, names []string) ([]domain.MatrixSpec, error) {
	if len(names) == 0 {
		names = project.MatrixNames()
	}

	specs := make([]domain.MatrixSpec, 0, len(names))
	for _, name := range names {
		spec, ok := project.Matrices[name]
		if !ok {
			err := zerr.With(zerr.Wrap(domain.ErrMatrixNotFound, "failed to select matrix"), "matrix", name)
			return nil, zerr.With(err, "available", strings.Join(project.MatrixNames(), ", "))
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func (a *App) listVariants(spec domain.MatrixSpec) error {
	skip, err := matrix.Rules(spec)
	if err != nil {
		return zerr.With(err, "matrix", spec.Name)
	}
	variants, err := matrix.Enumerate(spec.Axes, skip)
	if err != nil {
		return zerr.With(err, "matrix", spec.Name)
	}

	for _, v := range variants {
		_, _ = fmt.Fprintf(a.out, "%s\t%s\n", spec.Name, variantName(v))
	}
	return nil
}

// writeGrid writes every artifact of grid under outDir/<matrix>/. Names are
// sanitized to single path components, so no axis value can leave outDir.
func (a *App) writeGrid(outDir string, grid *domain.VariantGrid) error {
	dir := filepath.Join(outDir, cas.SanitizeName(grid.Name))
	written := make(map[string]string, grid.Len())

	for _, e := range grid.Entries() {
		name := variantFileName(e.Variant)
		if prev, dup := written[name]; dup {
			err := zerr.With(zerr.Wrap(domain.ErrOutputWriteFailed, "variants share an output file name"), "file", name)
			return zerr.With(zerr.With(err, "variant", variantName(e.Variant)), "previous", prev)
		}
		written[name] = variantName(e.Variant)

		if err := a.writeArtifact(filepath.Join(dir, name), e.Artifact); err != nil {
			return err
		}
	}
	return nil
}

func summarize(grid *domain.VariantGrid) string {
	hits := 0
	for _, e := range grid.Entries() {
		if e.CacheHit {
			hits++
		}
	}
	return fmt.Sprintf("%s: %d variant(s), %d cached, %d compiled", grid.Name, grid.Len(), hits, grid.Len()-hits)
}

// variantName renders a variant key, e.g. "A=0,B=1".
func variantName(v domain.Variant) string {
	if len(v.Key) == 0 {
		return "default"
	}
	return strings.Join(v.Key.Strings(), ",")
}

func variantFileName(v domain.Variant) string {
	if len(v.Key) == 0 {
		return "default.bin"
	}
	parts := make([]string, len(v.Key))
	for i, m := range v.Key {
		parts[i] = cas.SanitizeName(m.String())
	}
	return strings.Join(parts, ",") + ".bin"
}
