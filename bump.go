package beamrt

// InitStack assigns the fixed stack region for pcb and resets its bump
// cursor to the region base. Intended to be called once, right after
// Pool.Allocate, by whatever owns page mapping for the region (see
// pagealloc.go for the out-of-scope map_pages contract this plugs into).
func (p *PCB) InitStack(base, size uintptr) {
	p.stackBase = base
	p.stackSize = size
	p.stackPointer = base
	p.stackLimit = base + size
}

// InitHeap assigns the fixed heap region for pcb and resets its bump cursor
// to the region base.
func (p *PCB) InitHeap(base, size uintptr) {
	p.heapBase = base
	p.heapSize = size
	p.heapPointer = base
	p.heapLimit = base + size
}

// AllocateStack bump-allocates size bytes (rounded up to 8) from pcb's stack
// region, returning the allocated address. Returns (0, false) for a nil pcb,
// a zero size, or insufficient remaining room - the caller must invoke
// TriggerGarbageCollection(pcb) before retrying, per spec.md §4.2.
func AllocateStack(pcb *PCB, size uintptr) (uintptr, bool) {
	if pcb == nil {
		return 0, false
	}
	return bumpAlloc(pcb, size, &pcb.stackPointer, &pcb.stackLimit)
}

// AllocateHeap bump-allocates size bytes (rounded up to 8) from pcb's heap
// region. Same guards as AllocateStack.
func AllocateHeap(pcb *PCB, size uintptr) (uintptr, bool) {
	if pcb == nil {
		return 0, false
	}
	return bumpAlloc(pcb, size, &pcb.heapPointer, &pcb.heapLimit)
}

// bumpAlloc is the shared monotonic-cursor allocation primitive behind both
// per-PCB bump regions: no wrap, no partial allocation, 8-byte alignment.
func bumpAlloc(pcb *PCB, size uintptr, cursor, limit *uintptr) (uintptr, bool) {
	if pcb == nil || size == 0 {
		return 0, false
	}
	size = roundUp8(size)
	if size == 0 {
		// defensive: roundUp8 clamps overflow to the largest multiple of 8
		// and never returns 0 for a non-zero size, but a zero-byte
		// reservation must never be reported as a success.
		return 0, false
	}

	cur := *cursor
	lim := *limit
	if cur > lim || size > lim-cur {
		// would overflow the region: no wrap, no partial allocation.
		return 0, false
	}

	result := cur
	*cursor = cur + size
	return result, true
}

// TriggerGarbageCollection is an inert stub, per the open question recorded
// in spec.md §9 / DESIGN.md: it accepts a nil pcb (returning the failure
// sentinel, false) and otherwise returns true, without altering either bump
// region. No compaction semantics are mandated at this layer.
func TriggerGarbageCollection(pcb *PCB) bool {
	if pcb == nil {
		return false
	}
	return true
}
