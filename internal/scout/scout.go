// Package prowl implements a bounded-concurrency recursive file finder.
//
// A traversal lists directories depth-first and matches file names against a
// glob pattern. Each subdirectory discovered along the way is opportunistically
// offloaded to a worker goroutine drawn from a fixed-size slot pool; when the
// pool is saturated the subdirectory is walked inline in the discovering
// goroutine. Total concurrency is therefore bounded by the pool capacity
// regardless of tree depth or fan-out, and a capacity of zero degenerates to
// ordinary sequential depth-first traversal.
package prowl

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync/atomic"

	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned when the traversal root does not exist.
	ErrNotFound = errors.New("prowl: no such directory or file")
	// ErrNotDirectory is returned when the traversal root is not a directory.
	ErrNotDirectory = errors.New("prowl: not a directory")
	// ErrBadPattern is returned when the configured glob pattern is malformed
	// or empty.
	ErrBadPattern = errors.New("prowl: invalid pattern")
)

// Options configures a traversal. It is immutable once Traverse has been
// called with it: workers read it without synchronization, which is safe
// only because no writer exists after the traversal starts.
type Options struct {
	// Pattern is the glob pattern matched against base names. Required
	// unless Match is set.
	Pattern string

	// Recursive enables descending into subdirectories. When false, nothing
	// more than one level below the root is visited.
	Recursive bool

	// Workers is the pool capacity: the maximum number of goroutines walking
	// subtrees in addition to the calling goroutine. Zero means fully inline.
	Workers int

	// LogLevel gates diagnostics. Defaults to LogLevelNormal.
	LogLevel LogLevel

	// Match overrides the glob predicate. When set, Pattern is passed through
	// to it but otherwise unused.
	Match MatchFunc

	// Output receives one matched path per line. Defaults to os.Stdout.
	Output io.Writer

	// Logger overrides the logger built from LogLevel.
	Logger *zap.Logger
}

// Stats holds traversal counters that are updated atomically during the walk.
type Stats struct {
	FilesSeen  int64 // File and symlink entries offered to the matcher
	DirsWalked int64 // Directories successfully listed
	Matched    int64 // Paths emitted
	DirErrors  int64 // Directories that could not be listed
}

// Traverse walks the tree rooted at root and emits every matching file path.
//
// The capacity and root are validated before any directory is listed. Failure
// to list a directory underneath the root is local: it is logged and the
// traversal continues, so the returned error is nil in that case. Traverse
// does not return until every offloaded worker has finished; after it
// returns, no slot remains busy.
func Traverse(root string, opts Options) (*Stats, error) {
	logger := opts.Logger
	if logger == nil {
		logger = createLogger(opts.LogLevel)
		defer logger.Sync()
	}

	match := opts.Match
	if match == nil {
		if opts.Pattern == "" {
			return nil, fmt.Errorf("%w: pattern must be provided", ErrBadPattern)
		}
		if _, err := Glob(opts.Pattern, ""); err != nil {
			return nil, fmt.Errorf("%w: %q", ErrBadPattern, opts.Pattern)
		}
		match = Glob
	}

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	// Capacity is checked before any filesystem access.
	pool, err := NewPool(opts.Workers)
	if err != nil {
		return nil, err
	}

	info, err := os.Lstat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, root)
		}
		return nil, fmt.Errorf("error accessing directory or file %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, root)
	}

	logger.Info("starting traversal",
		zap.String("root", root),
		zap.String("pattern", opts.Pattern),
		zap.Bool("recursive", opts.Recursive),
		zap.Int("workers", pool.Capacity()),
	)

	stats := &Stats{}
	w := &walker{
		opts: &opts,
		pool: pool,
		sink: &sink{
			out:     out,
			pattern: opts.Pattern,
			match:   match,
			matched: &stats.Matched,
			log:     logger,
		},
		stats: stats,
		log:   logger,
	}

	// The root walk runs under the main sentinel, which never occupies a
	// pool slot. Workers it spawned may still be running when it returns.
	rootErr := w.walk(Task{Dir: root, Slot: SlotMain})

	logger.Info("waiting on active workers")
	pool.Join()

	// An unreadable directory below the root is local, but an unreadable
	// root means the whole traversal produced nothing: report it.
	if rootErr != nil {
		return stats, fmt.Errorf("cannot access root %s: %w", root, rootErr)
	}

	logger.Info("traversal complete",
		zap.Int64("dirs", atomic.LoadInt64(&stats.DirsWalked)),
		zap.Int64("files", atomic.LoadInt64(&stats.FilesSeen)),
		zap.Int64("matched", atomic.LoadInt64(&stats.Matched)),
		zap.Int64("dir_errors", atomic.LoadInt64(&stats.DirErrors)),
	)
	return stats, nil
}
