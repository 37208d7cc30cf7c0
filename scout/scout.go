package scout

import (
	"context"

	internal "github.com/treadway/prowl/internal/scout"
)

// Re-export the types and constants from the internal package
type (
	// Options configures a traversal.
	Options = internal.Options

	// Stats holds traversal counters that are updated atomically during the walk.
	Stats = internal.Stats

	// Match describes one file entry offered to the sink.
	Match = internal.Match

	// MatchFunc reports whether a base name satisfies a pattern.
	MatchFunc = internal.MatchFunc

	// Pool is a fixed-capacity registry of worker slots.
	Pool = internal.Pool

	// SlotID identifies one slot of the worker pool.
	SlotID = internal.SlotID

	// LogLevel defines the verbosity of diagnostics.
	LogLevel = internal.LogLevel

	// Watch types
	WatchEvent   = internal.WatchEvent
	WatchOptions = internal.WatchOptions
	WatchResult  = internal.WatchResult
	WatchHandler = internal.WatchHandler
)

// Re-export the constants
const (
	MaxWorkers = internal.MaxWorkers
	SlotMain   = internal.SlotMain

	// Log levels
	LogLevelTrace   = internal.LogLevelTrace
	LogLevelVerbose = internal.LogLevelVerbose
	LogLevelNormal  = internal.LogLevelNormal
	LogLevelError   = internal.LogLevelError
	LogLevelOff     = internal.LogLevelOff

	// Watch event types
	EventCreate = internal.EventCreate
	EventModify = internal.EventModify
	EventDelete = internal.EventDelete
)

// Re-export the sentinel errors
var (
	ErrInvalidCapacity = internal.ErrInvalidCapacity
	ErrNotFound        = internal.ErrNotFound
	ErrNotDirectory    = internal.ErrNotDirectory
	ErrBadPattern      = internal.ErrBadPattern
)

// Traverse walks the tree rooted at root and emits every matching file path.
// See the internal package for the full contract.
func Traverse(root string, opts Options) (*Stats, error) {
	return internal.Traverse(root, opts)
}

// Glob matches with shell glob semantics; wildcards never cross a path separator.
func Glob(pattern, name string) (bool, error) {
	return internal.Glob(pattern, name)
}

// Regexp compiles expr into a MatchFunc testing base names against it.
func Regexp(expr string) (MatchFunc, error) {
	return internal.Regexp(expr)
}

// NewPool creates a worker pool with the given capacity.
func NewPool(capacity int) (*Pool, error) {
	return internal.NewPool(capacity)
}

// ParseLogLevel converts a level name into a LogLevel.
func ParseLogLevel(name string) (LogLevel, error) {
	return internal.ParseLogLevel(name)
}

// Watch reports files appearing, changing or disappearing under root whose
// base name matches the pattern.
func Watch(ctx context.Context, root string, opts WatchOptions, handler WatchHandler) error {
	return internal.Watch(ctx, root, opts, handler)
}
