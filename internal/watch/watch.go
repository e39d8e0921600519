// Package watch re-runs a caller-supplied check whenever a watched
// document file settles after a change. This is the explicit-invocation
// replacement for a reactive signal graph: the callback typically calls
// Session.DetectAndValidate on the re-parsed document.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/objedit/jsonshape/internal/errors"
)

// Watcher debounces filesystem events for one document file.
type Watcher struct {
	path     string
	debounce time.Duration
	onChange func()
	onError  func(error)
}

// New creates a watcher for path. onChange fires after the file has been
// quiet for the debounce interval; onError receives watcher-level
// failures and may be nil.
func New(path string, debounce time.Duration, onChange func(), onError func(error)) *Watcher {
	return &Watcher{
		path:     path,
		debounce: debounce,
		onChange: onChange,
		onError:  onError,
	}
}

// Run watches until ctx is canceled. The watched file's directory is
// watched too, so deletes followed by re-creates (the usual editor save
// dance) keep working.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.NewInputError("failed to create file watcher", err)
	}
	defer watcher.Close()

	absPath, err := filepath.Abs(w.path)
	if err != nil {
		return errors.NewInputError(fmt.Sprintf("failed to resolve path '%s'", w.path), err)
	}
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		return errors.NewInputError(fmt.Sprintf("failed to watch directory of '%s'", w.path), err)
	}

	debounce := time.NewTimer(w.debounce)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-debounce.C:
			// Expiry is handled here rather than on a timer goroutine so
			// callbacks never overlap: onChange mutates caller state that
			// must be accessed from one goroutine at a time.
			w.onChange()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != absPath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			// Debounce: restart the timer on each event so rapid write
			// bursts produce one callback.
			debounce.Reset(w.debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if w.onError != nil {
				w.onError(err)
			}
		}
	}
}
