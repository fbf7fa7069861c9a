package app

import (
	"context"
	"errors"
	"fmt"

	"go.trai.ch/zerr"
)

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	Options

	// All removes the whole cache root instead of the current mode's directory.
	All bool
}

// Clean removes cached artifacts.
func (a *App) Clean(_ context.Context, opts CleanOptions) error {
	project, err := a.project(opts.Options, false)
	if err != nil {
		return err
	}

	if opts.All {
		root := project.Cache.Root
		a.logger.Info(fmt.Sprintf("removing %s...", root))
		if err := a.fs.RemoveAll(root); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to remove cache root"), "path", root)
		}
		a.logger.Info(fmt.Sprintf("removed %s", root))
		return nil
	}

	store := a.opener.Open(project.Cache)
	dir := store.Dir()
	a.logger.Info(fmt.Sprintf("removing %s...", dir))
	if err := store.Clear(); err != nil {
		return err
	}
	a.logger.Info(fmt.Sprintf("removed %s", dir))
	return nil
}

// CacheList prints every entry of the current mode's cache directory.
func (a *App) CacheList(_ context.Context, opts Options) error {
	project, err := a.project(opts, false)
	if err != nil {
		return err
	}

	store := a.opener.Open(project.Cache)
	records, err := store.Entries()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		a.logger.Info(fmt.Sprintf("no cache entries in %s", store.Dir()))
		return nil
	}

	var errs error
	for _, r := range records {
		if _, err := fmt.Fprintf(a.out, "%s\t%d\t%s\n", r.Key, r.Size, r.ModTime.UTC().Format("2006-01-02T15:04:05Z")); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	return errs
}
