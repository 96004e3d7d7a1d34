package beamrt

import "sync/atomic"

// PageAllocator is the opaque OS page-mapping capability spec.md §1 and §6
// name as an external collaborator: beamrt only ever calls Map/Unmap, never
// interprets what backs them (anonymous mmap, a slab arena, a test fake).
type PageAllocator interface {
	// Map requests a contiguous, page-aligned region of at least bytes
	// length. It returns (0, false) on failure.
	Map(bytes uintptr) (addr uintptr, ok bool)
	// Unmap releases a region previously returned by Map.
	Unmap(addr, bytes uintptr)
}

const (
	// maxExpansionBlocks caps a single ExpandMemoryPool call, per spec.md §6.
	maxExpansionBlocks = 1024
	// maxExpansionBytes caps total pool growth across the pool's lifetime.
	maxExpansionBytes = 1 << 20 // 1 MiB
)

// expandMemoryPoolState tracks cumulative expansion against maxExpansionBytes
// for a single pool's lifetime; ExpandMemoryPool is a free function (matching
// spec.md §6's C-style contract), so callers that want the cumulative cap
// enforced share one of these across calls.
type expandMemoryPoolState struct {
	grown atomic.Uint64
}

// NewExpansionBudget returns a fresh cumulative-expansion tracker for use
// with ExpandMemoryPool.
func NewExpansionBudget() *expandMemoryPoolState { return &expandMemoryPoolState{} }

// ExpandMemoryPool implements the pool-expansion wrapper contract from
// spec.md §6: it requests a new region from alloc sized blockSize*blocks
// bytes and accepts it only if it abuts poolEnd (the current end of the
// existing pool). A non-contiguous region is immediately unmapped and the
// call fails. Expansion is further capped at maxExpansionBlocks blocks per
// call and maxExpansionBytes cumulative bytes, tracked in budget.
//
// Returns true on a successful, contiguous, in-budget expansion (the newly
// mapped address, equal to poolEnd, is the start of the grown region); false
// otherwise, with no mapping left behind.
func ExpandMemoryPool(alloc PageAllocator, budget *expandMemoryPoolState, poolEnd uintptr, blockSize uintptr, blocks int) bool {
	if alloc == nil || budget == nil || blockSize == 0 || blocks <= 0 {
		return false
	}
	if blocks > maxExpansionBlocks {
		return false
	}

	bytes := blockSize * uintptr(blocks)
	if uint64(bytes) > maxExpansionBytes {
		return false
	}

	for {
		cur := budget.grown.Load()
		next := cur + uint64(bytes)
		if next > maxExpansionBytes {
			return false
		}
		if budget.grown.CompareAndSwap(cur, next) {
			break
		}
	}

	refund := func() { budget.grown.Add(uint64(-int64(bytes))) }

	addr, ok := alloc.Map(bytes)
	if !ok {
		refund()
		return false
	}
	if addr != poolEnd {
		// Non-contiguous: unmap immediately, leak nothing, fail.
		alloc.Unmap(addr, bytes)
		refund()
		return false
	}
	return true
}
