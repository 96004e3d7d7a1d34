package beamrt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBumpAlloc_NilOrZeroSize(t *testing.T) {
	pcb := &PCB{}
	pcb.InitStack(0x1000, 256)

	_, ok := AllocateStack(nil, 8)
	require.False(t, ok)

	_, ok = AllocateStack(pcb, 0)
	require.False(t, ok)
}

func TestBumpAlloc_SequentialAllocationsAdvanceCursor(t *testing.T) {
	pcb := &PCB{}
	pcb.InitStack(0x1000, 64)

	a, ok := AllocateStack(pcb, 10) // rounds up to 16
	require.True(t, ok)
	require.Equal(t, uintptr(0x1000), a)

	b, ok := AllocateStack(pcb, 8)
	require.True(t, ok)
	require.Equal(t, uintptr(0x1010), b)
}

func TestBumpAlloc_NoWrapNoPartial(t *testing.T) {
	pcb := &PCB{}
	pcb.InitHeap(0x2000, 16)

	_, ok := AllocateHeap(pcb, 24)
	require.False(t, ok)

	// region still fully available after the failed attempt (no partial consumption)
	a, ok := AllocateHeap(pcb, 16)
	require.True(t, ok)
	require.Equal(t, uintptr(0x2000), a)

	_, ok = AllocateHeap(pcb, 8)
	require.False(t, ok)
}

func TestBumpAlloc_AlignmentRoundsUpTo8(t *testing.T) {
	pcb := &PCB{}
	pcb.InitStack(0, 64)

	a, ok := AllocateStack(pcb, 1)
	require.True(t, ok)
	b, ok := AllocateStack(pcb, 1)
	require.True(t, ok)
	require.Equal(t, uintptr(8), b-a)
}

func TestTriggerGarbageCollection(t *testing.T) {
	require.False(t, TriggerGarbageCollection(nil))

	pcb := &PCB{}
	pcb.InitStack(0, 32)
	require.True(t, TriggerGarbageCollection(pcb))

	// no compaction semantics: bump state is untouched
	require.Equal(t, uintptr(0), pcb.stackPointer)
	require.Equal(t, uintptr(32), pcb.stackLimit)
}
