package driven

import "context"

// FileOp is the kind of filesystem change a watcher reports.
type FileOp int

const (
	// FileCreated indicates a new file appeared.
	FileCreated FileOp = iota

	// FileModified indicates a file's content changed.
	FileModified

	// FileDeleted indicates a file was removed.
	FileDeleted
)

// FileEvent is one filesystem change in a watched directory.
type FileEvent struct {
	Path string
	Op   FileOp
}

// FileWatcher monitors a directory for document changes, feeding the
// watch-mode ingestion loop.
type FileWatcher interface {
	// Watch starts monitoring dir and emits events until ctx is cancelled.
	Watch(ctx context.Context, dir string) (<-chan FileEvent, error)

	// Close releases resources.
	Close() error
}
