package beamrt

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewRuntime_ClampsToSpecFloors(t *testing.T) {
	rt := NewRuntime(WithCoreCount(1), WithPoolSize(1))
	require.Equal(t, 16, rt.CoreCount())
	require.Equal(t, 10, rt.Pool().Capacity())
}

func TestNewRuntime_DetectsTopologyOnConstruction(t *testing.T) {
	rt := NewRuntime()
	topo := rt.Topology()
	require.Equal(t, CorePerformance, topo[0])
	require.Equal(t, CoreEfficiency, topo[8])
}

func TestRuntime_RunAndClose(t *testing.T) {
	rt := NewRuntime(WithCoreCount(16), WithPoolSize(16))

	done := make(chan error, 1)
	go func() {
		done <- rt.Run(context.Background())
	}()

	// give the dispatch goroutines a moment to actually start
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, rt.Close())

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Close")
	}
}

func TestRuntime_RunTwiceFails(t *testing.T) {
	rt := NewRuntime()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() { _ = rt.Run(ctx) }()
	time.Sleep(10 * time.Millisecond)

	err := rt.Run(context.Background())
	require.ErrorIs(t, err, ErrRuntimeAlreadyRunning)

	cancel()
	rt.Close()
}

func TestRuntime_CloseBeforeRunFails(t *testing.T) {
	rt := NewRuntime()
	require.ErrorIs(t, rt.Close(), ErrRuntimeNotRunning)
}

func TestRuntime_DoubleCloseFails(t *testing.T) {
	rt := NewRuntime(WithCoreCount(16), WithPoolSize(16))
	go func() { _ = rt.Run(context.Background()) }()
	time.Sleep(10 * time.Millisecond)

	require.NoError(t, rt.Close())
	require.ErrorIs(t, rt.Close(), ErrRuntimeClosed)
}

func TestRuntime_SchedulerOutOfRangeReturnsNil(t *testing.T) {
	rt := NewRuntime()
	require.Nil(t, rt.Scheduler(-1))
	require.Nil(t, rt.Scheduler(int32(rt.CoreCount())))
}
