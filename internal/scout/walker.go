package prowl

import (
	"path/filepath"
	"sync/atomic"

	"github.com/karrick/godirwalk"
	"go.uber.org/zap"
)

// Task describes one pending directory traversal: the directory to list and
// the identity of the slot executing it. Task is passed by value; dispatch
// hands each offloaded worker its own copy and the caller's copy is never
// touched again.
type Task struct {
	Dir  string
	Slot SlotID
}

// walker runs the traversal proper: it lists one directory, feeds file and
// symlink entries to the sink, and hands subdirectories to dispatch. All
// fields are read-only once the traversal starts.
type walker struct {
	opts  *Options
	pool  *Pool
	sink  *sink
	stats *Stats
	log   *zap.Logger
}

// walk lists the directory named by task and processes its entries in the
// order the filesystem yields them. A directory that cannot be listed is a
// local failure: it is logged and yields no matches, and siblings and
// ancestors are unaffected. The listing error is returned so the top-level
// call can distinguish an unreadable root; dispatch ignores it.
func (w *walker) walk(task Task) error {
	w.log.Info("visiting directory", zap.String("path", task.Dir), zap.Int("slot", int(task.Slot)))

	dirents, err := godirwalk.ReadDirents(task.Dir, nil)
	if err != nil {
		atomic.AddInt64(&w.stats.DirErrors, 1)
		w.log.Error("could not access file or directory",
			zap.String("path", task.Dir), zap.Error(err))
		return err
	}
	atomic.AddInt64(&w.stats.DirsWalked, 1)

	for _, de := range dirents {
		full := filepath.Join(task.Dir, de.Name())
		switch {
		case de.IsRegular(), de.IsSymlink():
			w.log.Debug("file entry", zap.String("path", full))
			atomic.AddInt64(&w.stats.FilesSeen, 1)
			w.sink.offer(Match{Path: full, Name: de.Name()})
		case de.IsDir():
			if !w.opts.Recursive {
				w.log.Debug("skipping directory entry", zap.String("path", full))
				continue
			}
			w.log.Debug("directory entry", zap.String("path", full))
			w.dispatch(Task{Dir: full, Slot: task.Slot})
		default:
			// Sockets, devices, fifos and the like are skipped.
		}
	}
	return nil
}

// dispatch decides how a subdirectory runs. If a pool slot is free, the task
// is copied to a new worker bound to that slot and dispatch returns at once;
// the worker releases the slot after its whole subtree (including anything it
// ran inline) has finished. With no slot free, the subtree runs synchronously
// right here, under the caller's slot identity, so total concurrency stays
// bounded by the pool capacity and saturation degrades to plain depth-first
// recursion instead of queueing.
func (w *walker) dispatch(task Task) {
	if id, ok := w.pool.TryAcquire(); ok {
		task.Slot = id
		w.log.Info("offloading directory to worker",
			zap.String("path", task.Dir), zap.Int("slot", int(id)))
		go func(t Task) {
			_ = w.walk(t)
			w.pool.Release(t.Slot)
		}(task)
		return
	}
	w.log.Debug("pool saturated, walking inline", zap.String("path", task.Dir))
	_ = w.walk(task)
}
