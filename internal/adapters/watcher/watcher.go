// Package watcher implements a retry decider that retries as soon as one of the
// files behind a failed compile is saved.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/shadercache/internal/core/domain"
	"go.trai.ch/shadercache/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.RetryDecider = (*Decider)(nil)

// DefaultWindow is the debounce window applied to file events.
const DefaultWindow = 150 * time.Millisecond

// Decider waits for a change to any file of the failed expansion and then retries.
type Decider struct {
	logger ports.Logger
	window time.Duration
}

// NewDecider creates a Decider with the given debounce window.
func NewDecider(logger ports.Logger, window time.Duration) *Decider {
	return &Decider{logger: logger, window: window}
}

// Decide blocks until a watched file changes or ctx is cancelled.
// Cancellation aborts with ctx.Err().
func (d *Decider) Decide(ctx context.Context, f domain.Failure) (domain.Decision, error) {
	if len(f.Files) == 0 {
		return domain.DecisionAbort, zerr.New("no files to watch")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return domain.DecisionAbort, zerr.Wrap(err, "failed to create file watcher")
	}
	defer func() { _ = fw.Close() }()

	// Directories are watched instead of files so atomic saves (write to a
	// temp file, rename over the original) are seen.
	files := make(map[string]struct{}, len(f.Files))
	var dirs []string
	for _, p := range f.Files {
		abs, err := filepath.Abs(p)
		if err != nil {
			return domain.DecisionAbort, zerr.With(zerr.Wrap(err, "failed to resolve path"), "path", p)
		}
		files[abs] = struct{}{}
		if dir := filepath.Dir(abs); !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}
	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			return domain.DecisionAbort, zerr.With(zerr.Wrap(err, "failed to watch directory"), "path", dir)
		}
	}

	changed := make(chan []string, 1)
	debouncer := NewDebouncer(d.window, func(paths []string) {
		select {
		case changed <- paths:
		default:
		}
	})
	defer debouncer.Stop()

	d.logger.Info(fmt.Sprintf("waiting for changes to %d file(s), press ctrl+c to abort", len(files)))

	for {
		select {
		case <-ctx.Done():
			return domain.DecisionAbort, ctx.Err()

		case paths := <-changed:
			slices.Sort(paths)
			d.logger.Info(fmt.Sprintf("%s changed, recompiling", paths[0]))
			return domain.DecisionRetry, nil

		case event, ok := <-fw.Events:
			if !ok {
				return domain.DecisionAbort, nil
			}
			if !relevant(event) {
				continue
			}
			if _, watched := files[filepath.Clean(event.Name)]; watched {
				debouncer.Add(event.Name)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return domain.DecisionAbort, nil
			}
			d.logger.Warn(fmt.Sprintf("file watcher error: %v", err))
		}
	}
}

func relevant(event fsnotify.Event) bool {
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
