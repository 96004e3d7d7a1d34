package beamrt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSelectVictimCore_SingleCoreReturnsNegativeOne(t *testing.T) {
	st := NewStealers(nil, 1)
	require.Equal(t, int32(-1), st.selectVictimCore(0, 1, 0))
}

func TestSelectVictimCore_NeverReturnsSelf(t *testing.T) {
	st := NewStealers(nil, 1234)
	for self := int32(0); self < 8; self++ {
		for attempt := 0; attempt < 20; attempt++ {
			v := st.selectVictimCore(self, 8, attempt)
			require.NotEqual(t, self, v)
			require.GreaterOrEqual(t, v, int32(0))
			require.Less(t, v, int32(8))
		}
	}
}

func TestSelectVictimCore_DeterministicGivenSeed(t *testing.T) {
	a := NewStealers(nil, 99)
	b := NewStealers(nil, 99)
	for attempt := 0; attempt < 10; attempt++ {
		require.Equal(t, a.selectVictimCore(0, 16, attempt), b.selectVictimCore(0, 16, attempt))
	}
}

func newStealTestQueues(n int, pool *Pool) []*RunQueues {
	qs := make([]*RunQueues, n)
	for i := range qs {
		qs[i] = NewRunQueues(pool)
	}
	return qs
}

func TestWorkStealProcess_StealsFromVictimColdEnd(t *testing.T) {
	pool := NewPool(10)
	qs := newStealTestQueues(2, pool)
	a := pool.Allocate()
	b := pool.Allocate()
	qs[1].Enqueue(PriorityLow, a)
	qs[1].Enqueue(PriorityLow, b)

	st := NewStealers(qs, 1)
	stolen := st.WorkStealProcess(0)
	require.Equal(t, b, stolen, "steal takes the tail (coldest) entry")
	require.Equal(t, int32(0), stolen.schedulerID)
	require.Equal(t, uint64(1), stolen.migrationCount)
}

func TestWorkStealProcess_NoWorkReturnsNil(t *testing.T) {
	pool := NewPool(10)
	qs := newStealTestQueues(4, pool)
	st := NewStealers(qs, 1)
	require.Nil(t, st.WorkStealProcess(0))
}

func TestWorkStealProcess_SingleCoreReturnsNil(t *testing.T) {
	pool := NewPool(10)
	qs := newStealTestQueues(1, pool)
	st := NewStealers(qs, 1)
	require.Nil(t, st.WorkStealProcess(0))
}

func TestLoadBalanceProcesses_ShedsHalfSurplusToMostIdlePeer(t *testing.T) {
	pool := NewPool(64)
	qs := newStealTestQueues(4, pool)
	st := NewStealers(qs, 1)

	// core 0 has 10, others have 0,0,0: average is 10/4=2 (integer division);
	// 10 > 2*2, so shed half the surplus (10-2)/2 = 4 to the most-idle peer.
	for i := 0; i < 10; i++ {
		qs[0].Enqueue(PriorityLow, pool.Allocate())
	}

	moved := st.LoadBalanceProcesses(0)
	require.Equal(t, 4, moved)
	require.Equal(t, 6, qs[0].Total())

	total := 0
	for _, q := range qs[1:] {
		total += q.Total()
	}
	require.Equal(t, 4, total)
}

func TestLoadBalanceProcesses_NoOpWhenBalanced(t *testing.T) {
	pool := NewPool(64)
	qs := newStealTestQueues(4, pool)
	st := NewStealers(qs, 1)
	qs[0].Enqueue(PriorityLow, pool.Allocate())

	require.Equal(t, 0, st.LoadBalanceProcesses(0))
}
