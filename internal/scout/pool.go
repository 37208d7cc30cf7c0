package prowl

import (
	"errors"
	"fmt"
	"sync"
)

// MaxWorkers is the hard upper bound on worker pool capacity.
const MaxWorkers = 255

// SlotMain is the slot identity used by the initiating caller. It is a
// sentinel, never a real pool slot, and is never released through the pool.
const SlotMain SlotID = -1

// ErrInvalidCapacity is returned when a requested pool capacity exceeds MaxWorkers.
var ErrInvalidCapacity = errors.New("prowl: invalid worker capacity")

// SlotID identifies one slot of the worker pool.
type SlotID int

// slot is one unit of pool capacity. While busy, done is the handle of the
// worker bound to the slot and is closed when that worker finishes.
type slot struct {
	busy bool
	done chan struct{}
}

// Pool is a fixed-capacity registry of worker slots. A capacity of zero is
// valid and forces every subtree to run inline in the calling goroutine.
//
// The mutex guards the slot table and the available count only; it is never
// held across directory I/O or goroutine startup.
type Pool struct {
	mu        sync.Mutex
	slots     []slot
	available int
}

// NewPool creates a pool with the given capacity. Capacities above MaxWorkers
// are rejected with ErrInvalidCapacity.
func NewPool(capacity int) (*Pool, error) {
	if capacity < 0 || capacity > MaxWorkers {
		return nil, fmt.Errorf("%w: %d (must be 0..%d)", ErrInvalidCapacity, capacity, MaxWorkers)
	}
	return &Pool{
		slots:     make([]slot, capacity),
		available: capacity,
	}, nil
}

// Capacity returns the fixed number of slots.
func (p *Pool) Capacity() int {
	return len(p.slots)
}

// Available returns the number of slots currently free.
func (p *Pool) Available() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.available
}

// TryAcquire claims the first free slot, if any. It never blocks: when the
// pool is saturated it reports false and the caller is expected to do the
// work in its own goroutine.
func (p *Pool) TryAcquire() (SlotID, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.available == 0 {
		return 0, false
	}
	for i := range p.slots {
		if !p.slots[i].busy {
			p.slots[i].busy = true
			p.slots[i].done = make(chan struct{})
			p.available--
			return SlotID(i), true
		}
	}
	// available > 0 guarantees a free slot exists.
	panic("prowl: available count out of sync with slot table")
}

// Release marks the slot free and signals anyone joining on its worker.
// Callers must release each acquired slot exactly once, after all work
// attributable to it (including inline sub-recursion) has finished.
func (p *Pool) Release(id SlotID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := &p.slots[id]
	s.busy = false
	p.available++
	close(s.done)
}

// Join blocks until every worker has finished. A joined worker may itself
// have handed slots to new workers before terminating, so Join snapshots
// the busy slots under one lock acquisition, waits on every worker in the
// snapshot, and rescans. A worker always holds its own slot while it runs
// (release is its last act), so a snapshot that observes every slot free
// in a single critical section proves no worker is left to hand off.
func (p *Pool) Join() {
	for {
		p.mu.Lock()
		var busy []chan struct{}
		for i := range p.slots {
			if p.slots[i].busy {
				busy = append(busy, p.slots[i].done)
			}
		}
		p.mu.Unlock()

		if len(busy) == 0 {
			return
		}
		for _, done := range busy {
			<-done
		}
	}
}
