package beamrt

import (
	"encoding/binary"
)

// Registers is the fixed-size saved-register area: 31 general purpose
// register slots. The runtime treats it as an opaque byte block; only an
// architecture-specific context-switch primitive (out of scope here, see
// SPEC_FULL.md §9) interprets the contents.
type Registers [31]uint64

// PCB is the Process Control Block: the core entity of the runtime, described
// in full in spec.md §3 and laid out, byte for byte, per spec.md §6. Exactly
// one PCB backs one lightweight process for the lifetime of that process;
// pool.go owns allocation/reuse, the field values below are everything the
// scheduler, timer engine and work-stealing protocol read or mutate.
type PCB struct { // betteralign:ignore (field order mirrors the contractual offset table)
	// Queue linkage: intrusive doubly-linked list position, not ownership.
	// next/prev are indices into the owning pool, or -1 when untied from any
	// list (RUNNING or freshly allocated).
	next int32
	prev int32

	// Identity.
	pid          uint64
	schedulerID  int32
	_            int32 // padding to keep 8-byte alignment of the next field
	state        ProcessState
	priority     Priority
	reductionCount int64

	// Execution context.
	registers Registers
	sp        uint64
	lr        uint64
	pc        uint64
	pstate    uint64

	// Memory regions: fixed stack/heap, with bump cursors.
	stackBase  uintptr
	stackSize  uintptr
	heapBase   uintptr
	heapSize   uintptr

	messageQueue   uint64
	lastScheduled  int64
	affinityMask   uint64
	migrationCount uint64

	stackPointer uintptr
	stackLimit   uintptr
	heapPointer  uintptr
	heapLimit    uintptr

	// Blocking.
	blockingReason BlockingReason
	_              int32
	blockingData   uint64
	wakeTime       int64
	messagePattern uint64

	// index is this PCB's fixed slot index within its owning pool; it never
	// changes across reuse, which is what makes pool slot addresses stable.
	index int32

	// timerID is the id of the outstanding wake timer, if blockingReason ==
	// ReasonTimer; 0 when none is outstanding.
	timerID uint64
}

// PID returns the process's unique identifier.
func (p *PCB) PID() uint64 { return p.pid }

// State returns the process's current scheduling state.
func (p *PCB) State() ProcessState { return p.state }

// Priority returns the process's scheduling priority.
func (p *PCB) Priority() Priority { return p.priority }

// SchedulerID returns the core that last dispatched this PCB, or that work
// stealing or load balancing last moved it to. RunQueues.Enqueue does not
// update it, so a PCB enqueued on a core it has never run on still reports
// its previous core (0 for a fresh PCB).
func (p *PCB) SchedulerID() int32 { return p.schedulerID }

// ReductionCount returns the PCB's reduction_count field, as carried in the
// binary layout. The Scheduler keeps the live per-dispatch budget in its own
// counter (Scheduler.ReductionCount) and does not write this field.
func (p *PCB) ReductionCount() int64 { return p.reductionCount }

// BlockingReason returns the typed reason a WAITING process is parked, or
// ReasonNone otherwise.
func (p *PCB) BlockingReason() BlockingReason { return p.blockingReason }

// MigrationCount returns how many times work stealing has retargeted this
// PCB to a different core.
func (p *PCB) MigrationCount() uint64 { return p.migrationCount }

// Address returns a stable integer identity for this PCB slot, suitable for
// the pool-reuse identity checks in SPEC_FULL.md §8 ("same address").
// It is derived from the slot index, not a real pointer cast, since the Go
// runtime may move objects that aren't pinned; spec.md's "stable address"
// requirement is honored at the level the pool actually guarantees: a
// stable, unique slot identity for the lifetime of the allocation.
func (p *PCB) Address() uintptr {
	return uintptr(p.index)*pcbStride + pcbAlignment
}

// pcbLayout documents the contractual byte offsets from spec.md §6.
const (
	offNext           = 0
	offPrev           = 8
	offPID            = 16
	offSchedulerID    = 24
	offState          = 32
	offPriority       = 40
	offReductionCount = 48
	offRegisters      = 56
	offSP             = 304
	offLR             = 312
	offPC             = 320
	offPState         = 328
	offStackBase      = 336
	offStackSize      = 344
	offHeapBase       = 352
	offHeapSize       = 360
	offMessageQueue   = 368
	offLastScheduled  = 376
	offAffinityMask   = 384
	offMigrationCount = 392
	offStackPointer   = 400
	offStackLimit     = 408
	offHeapPointer    = 416
	offHeapLimit      = 424
	offBlockingReason = 432
	offBlockingData   = 440
	offWakeTime       = 448
	offMessagePattern = 456
)

// Encode serializes the PCB into the contractual 512-byte binary layout,
// for interop with the out-of-scope assembly context-switch primitive and
// with external test harnesses that validate the layout directly.
func (p *PCB) Encode() [pcbStride]byte {
	var buf [pcbStride]byte
	le := binary.LittleEndian
	le.PutUint64(buf[offNext:], uint64(uint32(p.next)))
	le.PutUint64(buf[offPrev:], uint64(uint32(p.prev)))
	le.PutUint64(buf[offPID:], p.pid)
	le.PutUint64(buf[offSchedulerID:], uint64(uint32(p.schedulerID)))
	le.PutUint64(buf[offState:], uint64(p.state))
	le.PutUint64(buf[offPriority:], uint64(p.priority))
	le.PutUint64(buf[offReductionCount:], uint64(p.reductionCount))
	for i, r := range p.registers {
		le.PutUint64(buf[offRegisters+i*8:], r)
	}
	le.PutUint64(buf[offSP:], p.sp)
	le.PutUint64(buf[offLR:], p.lr)
	le.PutUint64(buf[offPC:], p.pc)
	le.PutUint64(buf[offPState:], p.pstate)
	le.PutUint64(buf[offStackBase:], uint64(p.stackBase))
	le.PutUint64(buf[offStackSize:], uint64(p.stackSize))
	le.PutUint64(buf[offHeapBase:], uint64(p.heapBase))
	le.PutUint64(buf[offHeapSize:], uint64(p.heapSize))
	le.PutUint64(buf[offMessageQueue:], p.messageQueue)
	le.PutUint64(buf[offLastScheduled:], uint64(p.lastScheduled))
	le.PutUint64(buf[offAffinityMask:], p.affinityMask)
	le.PutUint64(buf[offMigrationCount:], p.migrationCount)
	le.PutUint64(buf[offStackPointer:], uint64(p.stackPointer))
	le.PutUint64(buf[offStackLimit:], uint64(p.stackLimit))
	le.PutUint64(buf[offHeapPointer:], uint64(p.heapPointer))
	le.PutUint64(buf[offHeapLimit:], uint64(p.heapLimit))
	le.PutUint64(buf[offBlockingReason:], uint64(p.blockingReason))
	le.PutUint64(buf[offBlockingData:], p.blockingData)
	le.PutUint64(buf[offWakeTime:], uint64(p.wakeTime))
	le.PutUint64(buf[offMessagePattern:], p.messagePattern)
	return buf
}

// roundUp8 rounds n up to the next multiple of 8, per the bump allocator's
// 8-byte alignment contract.
func roundUp8(n uintptr) uintptr {
	const mask = 8 - 1
	maxUintptr := ^uintptr(0)
	if n > maxUintptr-mask {
		return maxUintptr &^ mask
	}
	return (n + mask) &^ mask
}
