package beamrt

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

const (
	runtimeStateIdle int32 = iota
	runtimeStateRunning
	runtimeStateClosed
)

// Runtime is the top-level facade aggregating one Scheduler per core over a
// shared PCB pool, timer table, and work-stealing coordinator: scheduler
// state init/destroy from spec.md §3, generalized from a single core to
// MAX_CORES of them. Grounded on the teacher's eventloop.Loop, whose
// New/Run/Shutdown lifecycle this mirrors one level up (N cores instead of
// one JS thread).
type Runtime struct {
	opts runtimeOptions

	pool       *Pool
	schedulers []*Scheduler
	timers     *TimerWheel
	blocks     *BlockTable
	stealers   *Stealers
	topology   TopologyMap
	metrics    *Metrics
	logger     Logger

	state   atomic.Int32
	wg      sync.WaitGroup
	cancel  context.CancelFunc
	closeMu sync.Mutex
}

// NewRuntime constructs a Runtime from the given options. Core count and
// pool size are clamped to their spec-mandated floors (16 cores, 10 PCBs).
func NewRuntime(options ...RuntimeOption) *Runtime {
	opts := defaultRuntimeOptions()
	for _, o := range options {
		o.apply(&opts)
	}
	if opts.coreCount < 16 {
		opts.coreCount = 16
	}
	if opts.coreCount > MaxCores {
		opts.coreCount = MaxCores
	}
	if opts.poolSize < 10 {
		opts.poolSize = 10
	}

	logger := opts.logger
	if logger == nil {
		logger = getDefaultLogger()
	}
	metrics := opts.metrics
	if metrics == nil {
		metrics = NewMetrics()
	}

	rt := &Runtime{
		opts:    opts,
		pool:    NewPool(opts.poolSize),
		timers:  NewTimerWheel(opts.timerCapacity),
		metrics: metrics,
		logger:  logger,
	}
	rt.timers.Init()

	rt.schedulers = make([]*Scheduler, opts.coreCount)
	queues := make([]*RunQueues, opts.coreCount)
	for i := 0; i < opts.coreCount; i++ {
		s := NewScheduler(int32(i), rt.pool, logger, metrics)
		rt.schedulers[i] = s
		queues[i] = s.Queues()
	}
	rt.stealers = NewStealers(queues, opts.stealSeed)
	rt.blocks = NewBlockTable(rt.timers, func(coreID int32) *Scheduler {
		if coreID < 0 || int(coreID) >= len(rt.schedulers) {
			return nil
		}
		return rt.schedulers[coreID]
	})
	DetectAppleSiliconCoreTypes(&rt.topology)

	return rt
}

// Pool exposes the shared PCB pool.
func (rt *Runtime) Pool() *Pool { return rt.pool }

// Scheduler returns the Scheduler owning coreID, or nil if out of range.
func (rt *Runtime) Scheduler(coreID int32) *Scheduler {
	if coreID < 0 || int(coreID) >= len(rt.schedulers) {
		return nil
	}
	return rt.schedulers[coreID]
}

// CoreCount reports how many cores this Runtime schedules across.
func (rt *Runtime) CoreCount() int { return len(rt.schedulers) }

// Timers exposes the shared timer table.
func (rt *Runtime) Timers() *TimerWheel { return rt.timers }

// Blocks exposes the shared blocking/wake wait-set registry.
func (rt *Runtime) Blocks() *BlockTable { return rt.blocks }

// Stealers exposes the work-stealing coordinator.
func (rt *Runtime) Stealers() *Stealers { return rt.stealers }

// Topology returns the (immutable after detection) core classification map.
func (rt *Runtime) Topology() TopologyMap { return rt.topology }

// Metrics exposes the runtime's counters.
func (rt *Runtime) Metrics() *Metrics { return rt.metrics }

// Run starts one dispatch goroutine per core plus a shared timer-tick
// goroutine, and blocks until ctx is cancelled or Close is called. Returns
// ErrRuntimeAlreadyRunning on a concurrent or reentrant call, and
// ErrRuntimeClosed if the Runtime was already closed.
func (rt *Runtime) Run(ctx context.Context) error {
	if !rt.state.CompareAndSwap(runtimeStateIdle, runtimeStateRunning) {
		switch rt.state.Load() {
		case runtimeStateRunning:
			return ErrRuntimeAlreadyRunning
		default:
			return ErrRuntimeClosed
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	rt.cancel = cancel

	rt.wg.Add(1)
	go rt.tickLoop(runCtx)

	for _, s := range rt.schedulers {
		rt.wg.Add(1)
		go rt.dispatchLoop(runCtx, s)
	}

	<-runCtx.Done()
	rt.wg.Wait()
	return nil
}

// dispatchLoop is one core's cooperative scheduling loop: schedule, charge
// the dispatched process one reduction (preempting it once its budget
// reaches zero), and repeat, parking briefly when idle rather than
// spinning. It runs no process code of its own.
func (rt *Runtime) dispatchLoop(ctx context.Context, s *Scheduler) {
	defer rt.wg.Done()
	idleBackoff := time.Millisecond
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		pcb := s.Schedule(func() *PCB {
			stolen := rt.stealers.WorkStealProcess(s.CoreID())
			if stolen != nil {
				rt.metrics.RecordSteal()
			} else {
				rt.metrics.RecordStealFailure()
			}
			return stolen
		})
		if pcb == nil {
			select {
			case <-ctx.Done():
				return
			case <-time.After(idleBackoff):
			}
			continue
		}
		ProcessYieldCheck(s)
		s.Tick()
	}
}

// tickLoop advances the shared timer wheel and processes expirations, on
// behalf of every core, until ctx is cancelled.
func (rt *Runtime) tickLoop(ctx context.Context) {
	defer rt.wg.Done()
	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rt.timers.Tick()
			if n := rt.blocks.CheckTimerWakeups(); n > 0 {
				rt.metrics.timeouts.Add(uint64(n))
			}
		}
	}
}

// Close stops all dispatch loops and releases Run's blocking caller.
// Idempotent: a second Close returns ErrRuntimeClosed.
func (rt *Runtime) Close() error {
	rt.closeMu.Lock()
	defer rt.closeMu.Unlock()

	prev := rt.state.Swap(runtimeStateClosed)
	switch prev {
	case runtimeStateClosed:
		return ErrRuntimeClosed
	case runtimeStateIdle:
		return ErrRuntimeNotRunning
	}
	if rt.cancel != nil {
		rt.cancel()
	}
	rt.wg.Wait()
	return nil
}
