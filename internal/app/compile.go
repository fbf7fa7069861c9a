package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"go.trai.ch/shadercache/internal/core/domain"
	"go.trai.ch/zerr"
)

// CompileOptions configuration for the Compile method.
type CompileOptions struct {
	Options

	Source  string
	Entry   string
	Profile string
	// Defines are NAME=VALUE bindings in command-line order.
	Defines []string
	// Output receives the artifact. "-" writes to standard output; empty keeps
	// the artifact in the cache only.
	Output string
}

// Compile compiles one shader through the cache.
func (a *App) Compile(ctx context.Context, opts CompileOptions) error {
	var macros domain.Macros
	if len(opts.Defines) > 0 {
		var err error
		if macros, err = domain.ParseMacros(opts.Defines); err != nil {
			return err
		}
	}

	return a.traced(ctx, opts.Options, func() error {
		e, err := a.prepare(opts.Options, false)
		if err != nil {
			return err
		}

		req := domain.CompileRequest{
			SourcePath: opts.Source,
			EntryPoint: opts.Entry,
			Profile:    opts.Profile,
			Macros:     macros,
		}

		res, err := e.session.CompileResult(ctx, req)
		if err != nil {
			return err
		}

		if res.CacheHit {
			a.logger.Info(fmt.Sprintf("%s: cached (%s)", opts.Source, res.Key))
		} else {
			a.logger.Info(fmt.Sprintf("%s: compiled (%s, %d attempt(s))", opts.Source, res.Key, res.Attempts))
		}

		return a.writeArtifact(opts.Output, res.Artifact)
	})
}

func (a *App) writeArtifact(path string, artifact domain.Artifact) error {
	switch path {
	case "":
		return nil
	case "-":
		if _, err := a.out.Write(artifact); err != nil {
			return zerr.With(errors.Join(domain.ErrOutputWriteFailed, err), "path", "stdout")
		}
		return nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := a.fs.MkdirAll(dir, domain.DirPerm); err != nil {
			return zerr.With(errors.Join(domain.ErrOutputWriteFailed, err), "path", path)
		}
	}
	if err := afero.WriteFile(a.fs, path, artifact, domain.FilePerm); err != nil {
		return zerr.With(errors.Join(domain.ErrOutputWriteFailed, err), "path", path)
	}
	return nil
}
