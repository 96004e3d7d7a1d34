package beamrt

// RuntimeOption configures a Runtime at construction, following the
// teacher's eventloop functional-options pattern (LoopOption/loopOptions).
type RuntimeOption interface {
	apply(*runtimeOptions)
}

type runtimeOptions struct {
	coreCount     int
	poolSize      int
	logger        Logger
	metrics       *Metrics
	timerCapacity int
	stealSeed     uint64
}

type runtimeOptionFunc func(*runtimeOptions)

func (f runtimeOptionFunc) apply(o *runtimeOptions) { f(o) }

func defaultRuntimeOptions() runtimeOptions {
	return runtimeOptions{
		coreCount:     MaxCores,
		poolSize:      1024,
		timerCapacity: 0, // unbounded
	}
}

// WithCoreCount sets the number of cores the Runtime schedules across. n
// must satisfy MAX_CORES >= 16 per spec.md §3; values below 16 are clamped
// up to 16 by NewRuntime rather than rejected, since "MAX_CORES >= 16" is a
// floor, not a caller-supplied invariant to fail on.
func WithCoreCount(n int) RuntimeOption {
	return runtimeOptionFunc(func(o *runtimeOptions) { o.coreCount = n })
}

// WithPoolSize sets the PCB pool's fixed capacity. Minimum 10 per spec.md
// §4.1; values below 10 are clamped up by NewRuntime.
func WithPoolSize(n int) RuntimeOption {
	return runtimeOptionFunc(func(o *runtimeOptions) { o.poolSize = n })
}

// WithLogger overrides the package-level default Logger for this Runtime
// only.
func WithLogger(l Logger) RuntimeOption {
	return runtimeOptionFunc(func(o *runtimeOptions) { o.logger = l })
}

// WithMetrics attaches a Metrics collector; if omitted, NewRuntime creates
// one internally.
func WithMetrics(m *Metrics) RuntimeOption {
	return runtimeOptionFunc(func(o *runtimeOptions) { o.metrics = m })
}

// WithTimerCapacity bounds the shared timer table's live-timer capacity; 0
// (the default) means unbounded.
func WithTimerCapacity(n int) RuntimeOption {
	return runtimeOptionFunc(func(o *runtimeOptions) { o.timerCapacity = n })
}

// WithStealSeed fixes the work-stealing victim-selection seed, so runs are
// reproducible in tests.
func WithStealSeed(seed uint64) RuntimeOption {
	return runtimeOptionFunc(func(o *runtimeOptions) { o.stealSeed = seed })
}
