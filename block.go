package beamrt

import "sync"

// SchedulerLookup resolves a core id to the Scheduler instance that owns it,
// so a timer callback firing on any core can route a wake back to the
// process's owning core's run queues, without BlockTable needing to know
// about Runtime (avoiding an import-cycle-shaped dependency the other way).
type SchedulerLookup func(coreID int32) *Scheduler

// BlockTable is the globally-shared wait-set registry of spec.md §4.5/§5:
// one set of WAITING processes per BlockingReason, mutually exclusive with
// process_block/process_wake.
type BlockTable struct {
	mu      sync.Mutex
	waiting [4]map[int32]*PCB // indexed by BlockingReason; key is pcb.index
	timers  *TimerWheel
	lookup  SchedulerLookup
}

// NewBlockTable creates an empty wait-set registry backed by timers for
// timer-driven wakes, and lookup to resolve a PCB's owning core back to a
// Scheduler.
func NewBlockTable(timers *TimerWheel, lookup SchedulerLookup) *BlockTable {
	bt := &BlockTable{timers: timers, lookup: lookup}
	for i := range bt.waiting {
		bt.waiting[i] = make(map[int32]*PCB)
	}
	return bt
}

// Block implements process_block: transition RUNNING->WAITING, remove from
// the current slot, record blocking_reason, and add to the wait set for
// that reason. Always returns nil, per spec.md §4.5.
func (bt *BlockTable) Block(s *Scheduler, pcb *PCB, reason BlockingReason) *PCB {
	if s == nil || pcb == nil || s.current != pcb {
		return nil
	}
	s.recordHoldTime()
	s.current = nil
	pcb.state = StateWaiting
	pcb.blockingReason = reason

	bt.mu.Lock()
	bt.waiting[reason][pcb.index] = pcb
	bt.mu.Unlock()
	return nil
}

// BlockOnReceive implements process_block_on_receive: stores the message
// pattern a wake must match; actual pattern matching happens externally
// (spec.md §1 scopes message-queue payload semantics out).
func (bt *BlockTable) BlockOnReceive(s *Scheduler, pcb *PCB, pattern uint64) *PCB {
	if pcb != nil {
		pcb.messagePattern = pattern
	}
	return bt.Block(s, pcb, ReasonReceive)
}

// BlockOnTimer implements process_block_on_timer: computes wake_time = now +
// timeoutTicks, clamped to MaxBlockingTime worth of ticks, and inserts a
// timer that calls Wake on this PCB's owning core when it fires.
func (bt *BlockTable) BlockOnTimer(s *Scheduler, pcb *PCB, timeoutTicks int64) *PCB {
	if s == nil || pcb == nil || bt.timers == nil {
		return nil
	}
	if timeoutTicks > int64(MaxBlockingTime) {
		timeoutTicks = int64(MaxBlockingTime)
	}
	now := bt.timers.GetSystemTicks()
	pcb.wakeTime = now + timeoutTicks

	result := bt.Block(s, pcb, ReasonTimer)

	owningCore := s.coreID
	timerID := bt.timers.ScheduleTimeout(timeoutTicks, pcb.pid, func(pid uint64) {
		target := bt.lookup(owningCore)
		if target != nil {
			bt.Wake(target, pcb)
		}
	})
	pcb.timerID = timerID
	return result
}

// BlockOnIO implements process_block_on_io: stores the IO descriptor; wake
// is driven externally by whoever observes the IO completion.
func (bt *BlockTable) BlockOnIO(s *Scheduler, pcb *PCB, ioDescriptor uint64) *PCB {
	if pcb != nil {
		pcb.blockingData = ioDescriptor
	}
	return bt.Block(s, pcb, ReasonIO)
}

// Wake implements process_wake: guards WAITING state, transitions
// WAITING->READY, clears blocking_reason, and enqueues pcb at the tail of
// its priority queue on s. Returns 1 on success, 0 if pcb was not WAITING.
func (bt *BlockTable) Wake(s *Scheduler, pcb *PCB) int {
	if s == nil || pcb == nil {
		return 0
	}

	bt.mu.Lock()
	reason := pcb.blockingReason
	set := bt.waiting[reason]
	if pcb.state != StateWaiting || set[pcb.index] != pcb {
		bt.mu.Unlock()
		return 0
	}
	delete(set, pcb.index)
	bt.mu.Unlock()

	pcb.state = StateReady
	pcb.blockingReason = ReasonNone
	s.queues.Enqueue(pcb.priority, pcb)
	return 1
}

// CheckTimerWakeups implements process_check_timer_wakeups: runs
// ProcessTimers (each firing timer's callback, installed by BlockOnTimer,
// performs the actual wake) and returns the count of timers fired.
func (bt *BlockTable) CheckTimerWakeups() int {
	if bt.timers == nil {
		return 0
	}
	return bt.timers.ProcessTimers()
}
