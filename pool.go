package beamrt

import (
	"container/heap"
	"sync"
)

// freeIndexHeap is a min-heap of free slot indices, so Pool always hands out
// the lowest-index free slot, per spec.md §4.1. Grounded on the same
// container/heap idiom the teacher uses for its timer heap (see timer.go).
type freeIndexHeap []int32

func (h freeIndexHeap) Len() int            { return len(h) }
func (h freeIndexHeap) Less(i, j int) bool  { return h[i] < h[j] }
func (h freeIndexHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *freeIndexHeap) Push(x any)         { *h = append(*h, x.(int32)) }
func (h *freeIndexHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// Pool is a fixed-capacity slab of PCBs, addressed by stable slot index.
// Allocation returns the lowest-index free slot; freeing returns a slot to
// the free set so it is the first candidate for reuse when it is the only
// free slot available ("free-then-alloc, uncontended, yields the same
// address" - spec.md §8 scenario 1).
//
// Grounded on the free-list-of-slabs design in cloudfly-readgo's mcentral
// (non-teacher supplementary grounding, see DESIGN.md): a central structure
// owns fixed-size storage and a list of reclaimable slots, rather than the
// teacher's own registry.go, whose weak-pointer GC-observed reuse is the
// opposite of the stable, explicitly-owned addresses this spec requires.
type Pool struct {
	mu      sync.Mutex
	slots   []PCB
	used    []bool
	free    freeIndexHeap
	nextPID uint64
}

// NewPool allocates a fixed-capacity slab of n PCBs. n must be >= 10 per
// spec.md §4.1 ("minimum 10"); NewRuntime enforces this, NewPool itself
// trusts the caller (it is an internal building block, not a validated
// public entry point on its own).
func NewPool(n int) *Pool {
	p := &Pool{
		slots:   make([]PCB, n),
		used:    make([]bool, n),
		free:    make(freeIndexHeap, n),
		nextPID: 1,
	}
	for i := range p.slots {
		p.slots[i].index = int32(i)
		p.free[i] = int32(i)
	}
	heap.Init(&p.free)
	return p
}

// Capacity returns the fixed number of slots in the pool.
func (p *Pool) Capacity() int {
	return len(p.slots)
}

// Allocate returns the lowest-index free PCB slot, zero-initialized (save
// for its stable index) and marked used. Returns nil if the pool is full.
func (p *Pool) Allocate() *PCB {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.free) == 0 {
		return nil
	}
	idx := heap.Pop(&p.free).(int32)

	slot := &p.slots[idx]
	*slot = PCB{index: idx}
	p.used[idx] = true

	slot.pid = p.nextPID
	p.nextPID++
	slot.next = -1
	slot.prev = -1

	return slot
}

// isLiveSlot reports whether pcb is a slot address owned by this pool.
func (p *Pool) isLiveSlot(pcb *PCB) bool {
	if pcb == nil {
		return false
	}
	idx := pcb.index
	if idx < 0 || int(idx) >= len(p.slots) {
		return false
	}
	return &p.slots[idx] == pcb
}

// Free releases pcb back to the pool. It rejects (returns false) a nil
// pointer, a pointer not live in this pool, and double-frees; otherwise it
// marks the slot free and returns true.
func (p *Pool) Free(pcb *PCB) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.isLiveSlot(pcb) {
		return false
	}
	idx := pcb.index
	if !p.used[idx] {
		// double-free
		return false
	}
	p.used[idx] = false
	heap.Push(&p.free, idx)
	return true
}

// Len returns the number of currently allocated (live) PCBs.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, u := range p.used {
		if u {
			n++
		}
	}
	return n
}
