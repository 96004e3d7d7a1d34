package beamrt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fakePageAllocator struct {
	next    uintptr
	mapped  map[uintptr]uintptr
	failMap bool
}

func newFakePageAllocator(start uintptr) *fakePageAllocator {
	return &fakePageAllocator{next: start, mapped: make(map[uintptr]uintptr)}
}

func (f *fakePageAllocator) Map(bytes uintptr) (uintptr, bool) {
	if f.failMap {
		return 0, false
	}
	addr := f.next
	f.next += bytes
	f.mapped[addr] = bytes
	return addr, true
}

func (f *fakePageAllocator) Unmap(addr, bytes uintptr) {
	delete(f.mapped, addr)
}

func TestExpandMemoryPool_GuardsNilArgs(t *testing.T) {
	budget := NewExpansionBudget()
	require.False(t, ExpandMemoryPool(nil, budget, 0, 8, 1))
	require.False(t, ExpandMemoryPool(newFakePageAllocator(0), nil, 0, 8, 1))
	require.False(t, ExpandMemoryPool(newFakePageAllocator(0), budget, 0, 0, 1))
	require.False(t, ExpandMemoryPool(newFakePageAllocator(0), budget, 0, 8, 0))
}

func TestExpandMemoryPool_ContiguousSucceeds(t *testing.T) {
	alloc := newFakePageAllocator(0x10000)
	budget := NewExpansionBudget()
	ok := ExpandMemoryPool(alloc, budget, 0x10000, 4096, 4)
	require.True(t, ok)
}

func TestExpandMemoryPool_NonContiguousFailsAndUnmaps(t *testing.T) {
	alloc := newFakePageAllocator(0x20000) // does not match poolEnd
	budget := NewExpansionBudget()
	ok := ExpandMemoryPool(alloc, budget, 0x10000, 4096, 4)
	require.False(t, ok)
	require.Empty(t, alloc.mapped, "non-contiguous region must be unmapped")
}

func TestExpandMemoryPool_RejectsOverBlockCap(t *testing.T) {
	alloc := newFakePageAllocator(0x10000)
	budget := NewExpansionBudget()
	ok := ExpandMemoryPool(alloc, budget, 0x10000, 4096, maxExpansionBlocks+1)
	require.False(t, ok)
}

func TestExpandMemoryPool_RejectsOverCumulativeBudget(t *testing.T) {
	alloc := newFakePageAllocator(0x10000)
	budget := NewExpansionBudget()

	blockSize := uintptr(maxExpansionBytes / 2)
	ok := ExpandMemoryPool(alloc, budget, 0x10000, blockSize, 1)
	require.True(t, ok)

	ok = ExpandMemoryPool(alloc, budget, 0x10000+blockSize, blockSize, 1)
	require.True(t, ok)

	// a third expansion of any size now exceeds the cumulative budget
	ok = ExpandMemoryPool(alloc, budget, 0x10000+2*blockSize, 8, 1)
	require.False(t, ok)
}

func TestExpandMemoryPool_RefundsOnMapFailure(t *testing.T) {
	alloc := newFakePageAllocator(0x10000)
	alloc.failMap = true
	budget := NewExpansionBudget()

	require.False(t, ExpandMemoryPool(alloc, budget, 0x10000, 4096, 1))
	require.Equal(t, uint64(0), budget.grown.Load())
}
