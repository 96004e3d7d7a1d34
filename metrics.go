package beamrt

import (
	"sync"
	"sync/atomic"
)

// LatencyMetrics summarizes a P²-estimated distribution: grounded on the
// teacher's event loop metrics, which reports p50/p90/p99 the same way
// instead of retaining raw samples.
type LatencyMetrics struct {
	P50 float64
	P90 float64
	P99 float64
}

// QueueMetrics summarizes run-queue occupancy across one core's priorities
// at the moment Snapshot was called.
type QueueMetrics struct {
	Low, Normal, High, Max int
	Total                  int
}

// Metrics aggregates the runtime's counters: reductions held per dispatch,
// steal, preemption and timeout counts. Queue depths are not stored here;
// SnapshotQueues reads them from a RunQueues on demand. Safe for concurrent use; every core
// and the stealer both record into the same instance.
type Metrics struct {
	mu          sync.Mutex
	holdTime    *pSquare // distribution of reductions actually consumed per dispatch
	steals      atomic.Uint64
	stealFails  atomic.Uint64
	preemptions atomic.Uint64
	timeouts    atomic.Uint64
}

// NewMetrics creates an empty Metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		holdTime: newPSquare(0.5),
	}
}

// RecordHoldTime records how many reductions a process actually consumed
// before it yielded, blocked, or was preempted.
func (m *Metrics) RecordHoldTime(reductionsConsumed int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holdTime.observe(float64(reductionsConsumed))
}

// HoldTimeP50 reports the current median reductions-consumed-per-dispatch
// estimate.
func (m *Metrics) HoldTimeP50() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.holdTime.value()
}

// RecordSteal increments the successful-steal counter.
func (m *Metrics) RecordSteal() { m.steals.Add(1) }

// RecordStealFailure increments the failed-steal-attempt counter.
func (m *Metrics) RecordStealFailure() { m.stealFails.Add(1) }

// RecordPreemption increments the reduction-exhaustion preemption counter.
func (m *Metrics) RecordPreemption() { m.preemptions.Add(1) }

// RecordTimeout increments the timer-driven-wake counter.
func (m *Metrics) RecordTimeout() { m.timeouts.Add(1) }

// Steals reports the cumulative successful-steal count.
func (m *Metrics) Steals() uint64 { return m.steals.Load() }

// StealFailures reports the cumulative failed-steal-attempt count.
func (m *Metrics) StealFailures() uint64 { return m.stealFails.Load() }

// Preemptions reports the cumulative preemption count.
func (m *Metrics) Preemptions() uint64 { return m.preemptions.Load() }

// Timeouts reports the cumulative timer-driven-wake count.
func (m *Metrics) Timeouts() uint64 { return m.timeouts.Load() }

// SnapshotQueues reports queue occupancy for rq at the moment of the call.
func SnapshotQueues(rq *RunQueues) QueueMetrics {
	return QueueMetrics{
		Low:    rq.Length(PriorityLow),
		Normal: rq.Length(PriorityNormal),
		High:   rq.Length(PriorityHigh),
		Max:    rq.Length(PriorityMax),
		Total:  rq.Total(),
	}
}
