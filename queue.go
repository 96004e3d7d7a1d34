package beamrt

import "sync"

// priorityQueue is one intrusive, doubly-linked FIFO. Links are PCB slot
// indices into the owning Pool, not pointers: per SPEC_FULL.md §9 ("model as
// an arena plus indices"), queue membership is a position, never ownership.
// -1 denotes "no node" (empty list, or a node's missing neighbor).
type priorityQueue struct {
	head, tail int32
	length     int
}

func newPriorityQueue() priorityQueue {
	return priorityQueue{head: -1, tail: -1}
}

// RunQueues is the full set of per-priority FIFOs for one core. Dispatch is
// strict priority order: a non-empty higher-priority queue always wins, with
// no aging (spec.md §4.3/§5).
//
// A core's owner dispatches against it from one goroutine, but spec.md §5
// requires work stealing to take "a per-victim lock or a lock-free MPSC/SPMC
// scheme on the queue tail" — and the timer-wake path enqueues onto it from
// the shared tick goroutine too. mu serializes every access accordingly; it
// guards the queues array and the next/prev links of whichever PCB slots are
// currently linked into it.
type RunQueues struct {
	pool   *Pool
	mu     sync.Mutex
	queues [NumPriorities]priorityQueue
}

// NewRunQueues creates an empty set of run queues backed by pool.
func NewRunQueues(pool *Pool) *RunQueues {
	rq := &RunQueues{pool: pool}
	for i := range rq.queues {
		rq.queues[i] = newPriorityQueue()
	}
	return rq
}

// Enqueue appends pcb to the tail of its priority's FIFO in O(1). The caller
// is responsible for having already set pcb.priority and pcb.state; Enqueue
// only manages list linkage.
func (rq *RunQueues) Enqueue(priority Priority, pcb *PCB) {
	rq.mu.Lock()
	defer rq.mu.Unlock()
	if pcb == nil || !priority.valid() {
		return
	}
	q := &rq.queues[priority]
	idx := pcb.index

	pcb.next = -1
	pcb.prev = q.tail
	if q.tail == -1 {
		q.head = idx
	} else {
		rq.pool.slots[q.tail].next = idx
	}
	q.tail = idx
	q.length++
}

// Dequeue removes and returns the head of the highest-priority non-empty
// queue, or nil if every queue is empty.
func (rq *RunQueues) Dequeue() *PCB {
	rq.mu.Lock()
	defer rq.mu.Unlock()
	for p := PriorityMax; p >= PriorityLow; p-- {
		if pcb := rq.dequeueFrom(p); pcb != nil {
			return pcb
		}
	}
	return nil
}

// dequeueFrom removes and returns the head of priority's queue, or nil if empty.
func (rq *RunQueues) dequeueFrom(priority Priority) *PCB {
	q := &rq.queues[priority]
	if q.head == -1 {
		return nil
	}
	idx := q.head
	pcb := &rq.pool.slots[idx]

	q.head = pcb.next
	if q.head == -1 {
		q.tail = -1
	} else {
		rq.pool.slots[q.head].prev = -1
	}
	pcb.next = -1
	pcb.prev = -1
	q.length--
	return pcb
}

// DequeueTail removes and returns the *tail* (coldest) entry of priority's
// queue - the most recently enqueued one, which would otherwise run last -
// used by work stealing to steal from the cold end (spec.md §4.7). Returns nil if that queue is empty. Safe to call
// against another core's RunQueues concurrently with its owner's Dequeue.
func (rq *RunQueues) DequeueTail(priority Priority) *PCB {
	rq.mu.Lock()
	defer rq.mu.Unlock()
	q := &rq.queues[priority]
	if q.tail == -1 {
		return nil
	}
	idx := q.tail
	pcb := &rq.pool.slots[idx]

	q.tail = pcb.prev
	if q.tail == -1 {
		q.head = -1
	} else {
		rq.pool.slots[q.tail].next = -1
	}
	pcb.next = -1
	pcb.prev = -1
	q.length--
	return pcb
}

// Length reports the current count of queued PCBs at priority.
func (rq *RunQueues) Length(priority Priority) int {
	rq.mu.Lock()
	defer rq.mu.Unlock()
	if !priority.valid() {
		return 0
	}
	return rq.queues[priority].length
}

// Total reports the count of queued PCBs across all priorities.
func (rq *RunQueues) Total() int {
	rq.mu.Lock()
	defer rq.mu.Unlock()
	n := 0
	for i := range rq.queues {
		n += rq.queues[i].length
	}
	return n
}

// LowestNonEmpty returns the lowest priority with a non-empty queue, and
// true, or (0, false) if every queue is empty. Used by work stealing, which
// steals from the victim's coldest (lowest-priority) non-empty queue.
func (rq *RunQueues) LowestNonEmpty() (Priority, bool) {
	rq.mu.Lock()
	defer rq.mu.Unlock()
	for p := PriorityLow; p <= PriorityMax; p++ {
		if rq.queues[p].length > 0 {
			return p, true
		}
	}
	return 0, false
}
