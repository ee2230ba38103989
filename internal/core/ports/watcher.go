package ports

import "context"

// WatchOp represents the type of file system operation.
type WatchOp uint8

const (
	// OpCreate indicates a file or directory was created.
	OpCreate WatchOp = iota
	// OpWrite indicates a file was modified.
	OpWrite
	// OpRemove indicates a file or directory was removed.
	OpRemove
	// OpRename indicates a file or directory was renamed.
	OpRename
	// OpOther covers every remaining notification, such as permission changes.
	OpOther
)

// WatchEvent represents a file system event from the watcher.
type WatchEvent struct {
	// Path is the absolute path of the file or directory that changed.
	Path string
	// Operation is the type of change that occurred.
	Operation WatchOp
}

// Watcher defines the interface for watching file system changes.
// Delivery is at-least-once and may contain duplicates.
//
//go:generate mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks
type Watcher interface {
	// Start begins watching the given root directory recursively.
	Start(ctx context.Context, root string) error
	// Stop stops the watcher and releases all resources.
	Stop() error
	// Events returns the event stream. It is closed when the watcher stops.
	Events() <-chan WatchEvent
	// Errors returns errors reported by the event source itself.
	Errors() <-chan error
}
