package beamrt

import (
	"container/heap"
	"sync"
)

// Timer is one entry in the timer table: spec.md §3 "Timer entity". Callers
// hold only the id InsertTimer returns; the table keeps the record itself.
type Timer struct {
	ID         uint64
	ExpiryTick int64
	Callback   func(pid uint64)
	ProcessID  uint64
	cancelled  bool
	seq        uint64 // insertion sequence, breaks expiry ties in FIFO order
	index      int    // heap.Interface bookkeeping
}

// Cancelled reports whether cancel_timer has already been called on t.
func (t *Timer) Cancelled() bool { return t.cancelled }

// timerHeap is a min-heap ordered by (ExpiryTick, seq), so timers sharing an
// expiry tick fire in insertion order (spec.md §4.6 "Ordering"). Grounded on
// the teacher's eventloop timer heap, which orders pending callbacks the
// same way via container/heap.
type timerHeap []*Timer

func (h timerHeap) Len() int { return len(h) }
func (h timerHeap) Less(i, j int) bool {
	if h[i].ExpiryTick != h[j].ExpiryTick {
		return h[i].ExpiryTick < h[j].ExpiryTick
	}
	return h[i].seq < h[j].seq
}
func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *timerHeap) Push(x any) {
	t := x.(*Timer)
	t.index = len(*h)
	*h = append(*h, t)
}
func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}

// TimerWheel is the globally-shared timer table of spec.md §4.6/§5: a
// monotonic tick source plus a bounded table of pending timers, insertion,
// cancellation, and expiry-scan all under one mutex ("mutually exclude").
type TimerWheel struct {
	mu       sync.Mutex
	ticks    int64
	capacity int
	nextID   uint64
	nextSeq  uint64
	byID     map[uint64]*Timer
	pending  timerHeap
}

// NewTimerWheel creates a timer table with room for at most capacity
// simultaneous live timers. capacity <= 0 means unbounded.
func NewTimerWheel(capacity int) *TimerWheel {
	return &TimerWheel{
		capacity: capacity,
		byID:     make(map[uint64]*Timer),
	}
}

// GetSystemTicks implements get_system_ticks: a non-decreasing monotonic
// counter.
func (w *TimerWheel) GetSystemTicks() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ticks
}

// Tick implements timer_tick: advances the monotonic counter by one.
func (w *TimerWheel) Tick() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ticks++
	return w.ticks
}

// Init implements timer_init: clears the table. Returns 1 always, per
// spec.md §4.6.
func (w *TimerWheel) Init() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ticks = 0
	w.nextID = 0
	w.nextSeq = 0
	w.byID = make(map[uint64]*Timer)
	w.pending = nil
	return 1
}

// InsertTimer implements insert_timer: rejects expiryTicks == 0, a nil
// callback, or a full table with id 0; otherwise allocates a non-zero timer
// id, records the timer, and returns the id.
func (w *TimerWheel) InsertTimer(expiryTicks int64, callback func(pid uint64), processID uint64) uint64 {
	if expiryTicks == 0 || callback == nil {
		return 0
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.capacity > 0 && len(w.byID) >= w.capacity {
		return 0
	}
	w.nextID++
	w.nextSeq++
	t := &Timer{
		ID:         w.nextID,
		ExpiryTick: expiryTicks,
		Callback:   callback,
		ProcessID:  processID,
		seq:        w.nextSeq,
	}
	w.byID[t.ID] = t
	heap.Push(&w.pending, t)
	return t.ID
}

// CancelTimer implements cancel_timer: marks the timer cancelled and
// returns 1 if id was found and still live, else 0. Idempotent after first
// success (spec.md §5): a second call against the same id returns 0.
func (w *TimerWheel) CancelTimer(id uint64) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	t, ok := w.byID[id]
	if !ok || t.cancelled {
		return 0
	}
	t.cancelled = true
	return 1
}

// ProcessTimers implements process_timers: scans for records with
// expiry_tick <= now that are not cancelled, invokes each callback, removes
// the record, and returns the count processed. Cancelled records encountered
// along the way are discarded without counting.
func (w *TimerWheel) ProcessTimers() int {
	w.mu.Lock()
	now := w.ticks
	var fired []*Timer
	for w.pending.Len() > 0 && w.pending[0].ExpiryTick <= now {
		t := heap.Pop(&w.pending).(*Timer)
		delete(w.byID, t.ID)
		if t.cancelled {
			continue
		}
		fired = append(fired, t)
	}
	w.mu.Unlock()

	for _, t := range fired {
		t.Callback(t.ProcessID)
	}
	return len(fired)
}

// ScheduleTimeout implements schedule_timeout: a thin wrapper tying a timer
// to a PCB's timer-wait slot. Zero ticks or zero pid is rejected (returns 0),
// matching InsertTimer's guard plus the extra pid == 0 check spec.md §4.6
// calls out.
func (w *TimerWheel) ScheduleTimeout(ticks int64, pid uint64, onExpire func(pid uint64)) uint64 {
	if ticks == 0 || pid == 0 {
		return 0
	}
	now := w.GetSystemTicks()
	return w.InsertTimer(now+ticks, onExpire, pid)
}

// CancelTimeout implements cancel_timeout.
func (w *TimerWheel) CancelTimeout(id uint64) int {
	return w.CancelTimer(id)
}
