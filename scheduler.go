package beamrt

// Scheduler is one core's private dispatch state: §3 "Scheduler state (per
// core)". Every field here is owned exclusively by the core it belongs to
// for writes; other cores only ever touch it through the narrow stealer
// capability in steal.go (spec.md §5, §9).
type Scheduler struct {
	coreID         int32
	current        *PCB
	reductionCount int64
	queues         *RunQueues
	pool           *Pool
	idle           bool
	tick           int64

	logger  Logger
	metrics *Metrics
}

// NewScheduler initializes core coreID's scheduler state: scheduler_init.
// Zeroes the slot, sets reduction_count to DefaultReductions, clears
// current_process. metrics may be nil, in which case hold-time and
// preemption recording is skipped.
func NewScheduler(coreID int32, pool *Pool, logger Logger, metrics *Metrics) *Scheduler {
	if logger == nil {
		logger = NewNoOpLogger()
	}
	return &Scheduler{
		coreID:         coreID,
		reductionCount: DefaultReductions,
		queues:         NewRunQueues(pool),
		pool:           pool,
		logger:         logger,
		metrics:        metrics,
	}
}

// CoreID returns the id of the core this scheduler dispatches for.
func (s *Scheduler) CoreID() int32 { return s.coreID }

// Current returns the PCB currently RUNNING on this core, or nil if the
// core is idle.
func (s *Scheduler) Current() *PCB { return s.current }

// Idle reports whether the core parked with no runnable work on its last
// Schedule call.
func (s *Scheduler) Idle() bool { return s.idle }

// Queues exposes the per-priority run queues, for enqueueing newly created
// or woken processes.
func (s *Scheduler) Queues() *RunQueues { return s.queues }

// ReductionCount returns the core's remaining reduction budget for the
// currently dispatched process.
func (s *Scheduler) ReductionCount() int64 { return s.reductionCount }

// SetReductionCount sets the core's reduction counter to k, for any k
// (including negative, which DecrementReductions then immediately floors to
// zero on its next call - spec.md §8 law).
func (s *Scheduler) SetReductionCount(k int64) { s.reductionCount = k }

// DecrementReductions decrements the core's reduction counter, saturating
// at zero: a decrement at zero is a no-op (spec.md §3 invariant).
func (s *Scheduler) DecrementReductions() {
	if s.reductionCount > 0 {
		s.reductionCount--
	} else if s.reductionCount < 0 {
		s.reductionCount = 0
	}
}

// Stealer is the callback Schedule uses to pull work from peers once the
// local queues are exhausted; it is the only point at which a Scheduler
// reaches outside its own state (spec.md §4.7/§9's "narrow stealer
// capability").
type Stealer func() *PCB

// Schedule implements scheduler_schedule (spec.md §4.4):
//
//  1. If current is set, still RUNNING, and has reductions remaining,
//     return it unchanged (no switch).
//  2. Otherwise, if current is set and still RUNNING (its reductions ran
//     out without an explicit yield/block/preempt call already having
//     cleared the slot), move it back to its priority queue as READY.
//     A WAITING or already-cleared current is left alone - it belongs to a
//     wait set or nothing at all.
//  3. Dequeue the highest-priority non-empty local queue, promote it to
//     RUNNING, reset the reduction budget, and return it.
//  4. If local queues are empty, consult steal. If that also yields
//     nothing, mark the core idle and return nil.
func (s *Scheduler) Schedule(steal Stealer) *PCB {
	if s.current != nil {
		if s.current.state == StateRunning && s.reductionCount > 0 {
			return s.current
		}
		if s.current.state == StateRunning {
			s.requeueCurrent()
		}
	}

	next := s.queues.Dequeue()
	if next == nil && steal != nil {
		next = steal()
	}
	if next == nil {
		s.idle = true
		s.current = nil
		return nil
	}

	s.idle = false
	next.state = StateRunning
	next.schedulerID = s.coreID
	next.lastScheduled = s.tick
	s.reductionCount = DefaultReductions
	s.current = next
	return next
}

// requeueCurrent moves the current (still RUNNING) process back to READY at
// the tail of its priority queue, and clears the current slot. Reaching here
// means the process ran out its full reduction budget without an explicit
// yield/block/preempt call having already cleared current.
func (s *Scheduler) requeueCurrent() {
	prev := s.current
	s.current = nil
	s.recordHoldTime()
	prev.state = StateReady
	s.queues.Enqueue(prev.priority, prev)
}

// recordHoldTime reports how many reductions the current process consumed
// before leaving RUNNING, into the scheduler's Metrics (a no-op if none was
// wired). Must be called before s.reductionCount is reset for the next
// process.
func (s *Scheduler) recordHoldTime() {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordHoldTime(DefaultReductions - s.reductionCount)
}

// Tick advances the scheduler's local tick snapshot by one, used only for
// PCB.lastScheduled bookkeeping; the timer engine's tick source (timer.go)
// is the authoritative monotonic clock.
func (s *Scheduler) Tick() { s.tick++ }

// yieldOrPreempt is the shared implementation behind ProcessYield and
// ProcessPreempt: both transition RUNNING->READY, clear the current slot,
// enqueue at the tail of the process's priority queue, and reset the core's
// reduction counter. The only difference is which party initiates it.
func (s *Scheduler) yieldOrPreempt(pcb *PCB) {
	s.recordHoldTime()
	pcb.state = StateReady
	s.current = nil
	s.queues.Enqueue(pcb.priority, pcb)
	s.reductionCount = DefaultReductions
}

// coreGuard centralizes the "valid core id, non-nil PCB, PCB currently
// running on this core" guard shared by yield/preempt.
func (s *Scheduler) coreGuard(coreID int32, pcb *PCB) bool {
	if coreID < 0 || coreID >= MaxCores || pcb == nil {
		return false
	}
	return s.current == pcb
}

// ProcessYield implements process_yield (spec.md §4.4): a voluntary
// relinquish of the CPU. Guards: an invalid coreID or nil pcb is a no-op,
// returning nil with no state change. On success, always returns nil - per
// the open question in spec.md §9, this is the null-returning variant;
// callers re-enter via Schedule.
func ProcessYield(s *Scheduler, coreID int32, pcb *PCB) *PCB {
	if !s.coreGuard(coreID, pcb) {
		return nil
	}
	s.yieldOrPreempt(pcb)
	return nil
}

// ProcessPreempt implements process_preempt (spec.md §4.4): identical end
// state to ProcessYield, but invoked by the scheduler itself once the
// reduction budget is exhausted; it does not require the process's
// cooperation. It takes no core id; like ProcessYield, it is a no-op unless
// pcb is this core's current process.
func ProcessPreempt(s *Scheduler, pcb *PCB) {
	if pcb == nil || s.current != pcb {
		return
	}
	s.yieldOrPreempt(pcb)
	if s.metrics != nil {
		s.metrics.RecordPreemption()
	}
}

// ProcessYieldCheck implements process_yield_check /
// process_decrement_reductions_with_check (spec.md §4.4): decrement the
// reduction counter, and if it has reached zero, preempt the current
// process and report 1; otherwise report 0.
func ProcessYieldCheck(s *Scheduler) int {
	s.DecrementReductions()
	if s.reductionCount == 0 && s.current != nil {
		ProcessPreempt(s, s.current)
		return 1
	}
	return 0
}
