package prowl

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// TestNewPoolCapacityBounds tests capacity validation
func TestNewPoolCapacityBounds(t *testing.T) {
	for _, capacity := range []int{-1, MaxWorkers + 1, 10000} {
		if _, err := NewPool(capacity); !errors.Is(err, ErrInvalidCapacity) {
			t.Errorf("NewPool(%d): expected ErrInvalidCapacity, got %v", capacity, err)
		}
	}

	for _, capacity := range []int{0, 1, MaxWorkers} {
		p, err := NewPool(capacity)
		if err != nil {
			t.Fatalf("NewPool(%d) failed: %v", capacity, err)
		}
		if p.Capacity() != capacity {
			t.Errorf("Capacity() = %d, want %d", p.Capacity(), capacity)
		}
		if p.Available() != capacity {
			t.Errorf("Available() = %d, want %d", p.Available(), capacity)
		}
	}
}

// TestTryAcquireExhaustion tests that acquisition stops at capacity
func TestTryAcquireExhaustion(t *testing.T) {
	p, err := NewPool(2)
	if err != nil {
		t.Fatalf("NewPool failed: %v", err)
	}

	a, ok := p.TryAcquire()
	if !ok {
		t.Fatal("first TryAcquire should succeed")
	}
	b, ok := p.TryAcquire()
	if !ok {
		t.Fatal("second TryAcquire should succeed")
	}
	if a == b {
		t.Errorf("two acquisitions returned the same slot %d", a)
	}
	if _, ok := p.TryAcquire(); ok {
		t.Error("TryAcquire succeeded on a saturated pool")
	}
	if p.Available() != 0 {
		t.Errorf("Available() = %d, want 0", p.Available())
	}

	p.Release(a)
	if p.Available() != 1 {
		t.Errorf("Available() after release = %d, want 1", p.Available())
	}
	c, ok := p.TryAcquire()
	if !ok {
		t.Fatal("TryAcquire after release should succeed")
	}
	if c != a {
		t.Errorf("expected released slot %d to be reused, got %d", a, c)
	}
	p.Release(b)
	p.Release(c)
	if p.Available() != 2 {
		t.Errorf("Available() = %d, want 2", p.Available())
	}
}

// TestTryAcquireZeroCapacity tests the fully inline configuration
func TestTryAcquireZeroCapacity(t *testing.T) {
	p, err := NewPool(0)
	if err != nil {
		t.Fatalf("NewPool(0) failed: %v", err)
	}
	if _, ok := p.TryAcquire(); ok {
		t.Error("TryAcquire on a zero-capacity pool should never succeed")
	}
}

// TestConcurrentAcquireUniqueness tests that no two concurrent acquisitions
// ever hold the same slot
func TestConcurrentAcquireUniqueness(t *testing.T) {
	const capacity = 8
	p, err := NewPool(capacity)
	if err != nil {
		t.Fatalf("NewPool failed: %v", err)
	}

	var mu sync.Mutex
	held := make(map[SlotID]bool)
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, ok := p.TryAcquire()
			if !ok {
				return
			}
			mu.Lock()
			if held[id] {
				t.Errorf("slot %d acquired while already held", id)
			}
			held[id] = true
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			held[id] = false
			mu.Unlock()
			p.Release(id)
		}()
	}
	wg.Wait()

	if p.Available() != capacity {
		t.Errorf("Available() = %d after all releases, want %d", p.Available(), capacity)
	}
}

// TestJoinWaitsForWorkers tests that Join blocks until every busy slot is released
func TestJoinWaitsForWorkers(t *testing.T) {
	p, err := NewPool(3)
	if err != nil {
		t.Fatalf("NewPool failed: %v", err)
	}

	var finished int32
	var mu sync.Mutex
	done := func() int32 {
		mu.Lock()
		defer mu.Unlock()
		return finished
	}

	for i := 0; i < 3; i++ {
		id, ok := p.TryAcquire()
		if !ok {
			t.Fatalf("TryAcquire %d failed", i)
		}
		go func(id SlotID) {
			time.Sleep(20 * time.Millisecond)
			mu.Lock()
			finished++
			mu.Unlock()
			p.Release(id)
		}(id)
	}

	p.Join()

	if got := done(); got != 3 {
		t.Errorf("Join returned before all workers finished: %d/3", got)
	}
	if p.Available() != 3 {
		t.Errorf("Available() = %d after Join, want 3", p.Available())
	}
}

// TestJoinSeesLateAcquisitions tests that a worker handing work to a fresh
// slot after Join has already scanned past it is still waited for
func TestJoinSeesLateAcquisitions(t *testing.T) {
	p, err := NewPool(2)
	if err != nil {
		t.Fatalf("NewPool failed: %v", err)
	}

	var mu sync.Mutex
	var finished []SlotID

	second, ok := p.TryAcquire()
	if !ok {
		t.Fatal("TryAcquire failed")
	}
	first, ok := p.TryAcquire()
	if !ok {
		t.Fatal("TryAcquire failed")
	}

	// The first worker releases its slot, then a moment later that slot is
	// taken again by a new worker spawned from the second one.
	go func(id SlotID) {
		time.Sleep(10 * time.Millisecond)
		p.Release(id)
	}(second)

	go func(id SlotID) {
		time.Sleep(30 * time.Millisecond)
		late, ok := p.TryAcquire()
		if ok {
			go func() {
				time.Sleep(30 * time.Millisecond)
				mu.Lock()
				finished = append(finished, late)
				mu.Unlock()
				p.Release(late)
			}()
		}
		mu.Lock()
		finished = append(finished, id)
		mu.Unlock()
		p.Release(id)
	}(first)

	p.Join()

	mu.Lock()
	defer mu.Unlock()
	if len(finished) != 2 {
		t.Errorf("Join returned with %d of 2 workers finished", len(finished))
	}
	if p.Available() != 2 {
		t.Errorf("Available() = %d after Join, want 2", p.Available())
	}
}

// TestJoinSlotHandoffQuiescence tests that Join cannot return on a stale
// all-free observation while workers keep hopping between slots. Each worker
// acquires the next slot and spawns its successor before releasing its own,
// the same order dispatch uses, so the busy slot migrates across the table
// while Join is scanning it.
func TestJoinSlotHandoffQuiescence(t *testing.T) {
	for iter := 0; iter < 500; iter++ {
		p, err := NewPool(2)
		if err != nil {
			t.Fatalf("NewPool failed: %v", err)
		}

		var running int32
		var hop func(id SlotID, depth int)
		hop = func(id SlotID, depth int) {
			if depth == 0 {
				return
			}
			if next, ok := p.TryAcquire(); ok {
				atomic.AddInt32(&running, 1)
				go func() {
					hop(next, depth-1)
					atomic.AddInt32(&running, -1)
					p.Release(next)
				}()
			}
		}

		first, ok := p.TryAcquire()
		if !ok {
			t.Fatal("TryAcquire failed")
		}
		atomic.AddInt32(&running, 1)
		go func() {
			hop(first, 64)
			atomic.AddInt32(&running, -1)
			p.Release(first)
		}()

		p.Join()

		if n := atomic.LoadInt32(&running); n != 0 {
			t.Fatalf("iteration %d: Join returned while %d worker(s) still running on a busy slot", iter, n)
		}
		if p.Available() != 2 {
			t.Fatalf("iteration %d: Available() = %d after Join, want 2", iter, p.Available())
		}
	}
}
