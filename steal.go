package beamrt

import (
	"time"

	"github.com/joeycumines/go-catrate"
)

// stealRates bounds how often any single victim may be probed, so a
// persistently-empty victim doesn't get hammered every dispatch cycle;
// grounded on github.com/joeycumines/go-catrate's per-category
// sliding-window limiter, keyed here by victim core id only. One limiter
// serves a whole Stealers, so every thief sharing it draws on the same
// per-victim budget.
var stealRates = map[time.Duration]int{
	time.Second: 50,
}

// Stealers is the cross-core view work stealing needs: every core's run
// queues, indexed by core id, plus a seeded pseudo-random victim sequence.
// Exactly the "narrow stealer capability" spec.md §9 calls for - a Stealers
// never reaches into a Scheduler's current-process slot or reduction
// counter, only its RunQueues.
type Stealers struct {
	queues  []*RunQueues // indexed by core id
	seed    uint64
	limiter *catrate.Limiter
}

// NewStealers builds a work-stealing coordinator over queues (indexed by
// core id), seeded for deterministic victim selection.
func NewStealers(queues []*RunQueues, seed uint64) *Stealers {
	if seed == 0 {
		seed = 0x9e3779b97f4a7c15 // a zero seed selects this fixed default
	}
	return &Stealers{
		queues:  queues,
		seed:    seed,
		limiter: catrate.NewLimiter(stealRates),
	}
}

// selectVictimCore implements select_victim_core: returns a core id != self,
// pseudo-random but deterministic given the Stealers' seed and attempt
// index; returns -1 if maxCores <= 1.
func (st *Stealers) selectVictimCore(self int32, maxCores int, attempt int) int32 {
	if maxCores <= 1 {
		return -1
	}
	// splitmix64-style mix, cheap and deterministic for a given (seed, self, attempt).
	x := st.seed + uint64(self)*0x2545F4914F6CDD1D + uint64(attempt+1)*0xBF58476D1CE4E5B9
	x ^= x >> 30
	x *= 0xBF58476D1CE4E5B9
	x ^= x >> 27
	x *= 0x94D049BB133111EB
	x ^= x >> 31

	victim := int32(x % uint64(maxCores))
	if victim == self {
		victim = (victim + 1) % int32(maxCores)
	}
	return victim
}

// WorkStealProcess implements work_steal_process: picks a victim core, and
// atomically removes the tail PCB from the victim's lowest-priority
// non-empty queue (stealing from the cold end to bias fairness), retargets
// scheduler_id to self, and returns it. Tries up to maxCores victims before
// giving up and returning nil.
func (st *Stealers) WorkStealProcess(self int32) *PCB {
	maxCores := len(st.queues)
	for attempt := 0; attempt < maxCores; attempt++ {
		victim := st.selectVictimCore(self, maxCores, attempt)
		if victim < 0 {
			return nil
		}
		if _, ok := st.limiter.Allow(victim); !ok {
			continue
		}
		vq := st.queues[victim]
		if vq == nil {
			continue
		}
		priority, ok := vq.LowestNonEmpty()
		if !ok {
			continue
		}
		pcb := vq.DequeueTail(priority)
		if pcb == nil {
			continue
		}
		pcb.schedulerID = self
		pcb.migrationCount++
		return pcb
	}
	return nil
}

// LoadBalanceProcesses implements load_balance_processes: a periodic,
// best-effort variant that may move multiple PCBs at once. Policy (spec.md
// §4.7): if self's queue depth exceeds twice the average across all cores,
// shed half the surplus to the most-idle peer (the one with the smallest
// total queue depth). No fairness guarantee beyond not starving a core when
// others have backlog.
func (st *Stealers) LoadBalanceProcesses(self int32) int {
	n := len(st.queues)
	if n <= 1 || st.queues[self] == nil {
		return 0
	}

	total := 0
	for _, q := range st.queues {
		if q != nil {
			total += q.Total()
		}
	}
	average := total / n
	selfDepth := st.queues[self].Total()
	if average == 0 || selfDepth <= 2*average {
		return 0
	}

	peer := int32(-1)
	peerDepth := -1
	for i, q := range st.queues {
		if int32(i) == self || q == nil {
			continue
		}
		depth := q.Total()
		if peer == -1 || depth < peerDepth {
			peer = int32(i)
			peerDepth = depth
		}
	}
	if peer == -1 {
		return 0
	}

	surplus := selfDepth - average
	toMove := surplus / 2
	moved := 0
	for ; moved < toMove; moved++ {
		priority, ok := st.queues[self].LowestNonEmpty()
		if !ok {
			break
		}
		pcb := st.queues[self].DequeueTail(priority)
		if pcb == nil {
			break
		}
		pcb.schedulerID = peer
		pcb.migrationCount++
		st.queues[peer].Enqueue(priority, pcb)
	}
	return moved
}
