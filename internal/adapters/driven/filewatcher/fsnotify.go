// Package filewatcher provides the fsnotify-based directory watcher used by
// watch-mode ingestion.
package filewatcher

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/copilot-cli/internal/core/ports/driven"
	"github.com/custodia-labs/copilot-cli/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driven.FileWatcher = (*Watcher)(nil)

// Watcher emits events for supported document files in a directory.
type Watcher struct {
	watcher    *fsnotify.Watcher
	extensions map[string]bool
}

// New creates a watcher filtering on the given extensions (lowercase, with
// leading dot). Typically these come from the extractor registry so the
// watcher only reports files ingestion can handle.
func New(extensions []string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	exts := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		exts[strings.ToLower(e)] = true
	}

	return &Watcher{
		watcher:    w,
		extensions: exts,
	}, nil
}

// Watch starts monitoring dir. The returned channel closes when ctx is
// cancelled or the underlying watcher shuts down.
func (w *Watcher) Watch(ctx context.Context, dir string) (<-chan driven.FileEvent, error) {
	if err := w.watcher.Add(dir); err != nil {
		return nil, err
	}

	events := make(chan driven.FileEvent, 100)

	go func() {
		defer close(events)
		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if !w.watched(event.Name) {
					continue
				}

				var op driven.FileOp
				switch {
				case event.Op.Has(fsnotify.Create):
					op = driven.FileCreated
				case event.Op.Has(fsnotify.Write):
					op = driven.FileModified
				case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
					op = driven.FileDeleted
				default:
					continue
				}

				select {
				case events <- driven.FileEvent{Path: event.Name, Op: op}:
				case <-ctx.Done():
					return
				}

			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("File watch error: %v", err)
			}
		}
	}()

	return events, nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) watched(path string) bool {
	return w.extensions[strings.ToLower(filepath.Ext(path))]
}
