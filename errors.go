package beamrt

import "errors"

// Sentinel errors returned by the Runtime facade (§4.9). Per-operation
// scheduler/pool/timer primitives follow the spec's {0,1}/nil return
// contract instead of Go errors (see SPEC_FULL.md §7); these exist only
// around the facade's lifecycle, the same way eventloop.Loop reports its
// lifecycle with sentinel errors while individual task operations stay
// return-code based.
var (
	// ErrRuntimeAlreadyRunning is returned when Run is called on a runtime
	// that is already running.
	ErrRuntimeAlreadyRunning = errors.New("beamrt: runtime is already running")

	// ErrRuntimeClosed is returned when operations are attempted on a
	// runtime that has been closed.
	ErrRuntimeClosed = errors.New("beamrt: runtime has been closed")

	// ErrRuntimeNotRunning is returned by Close when the runtime was never
	// started with Run.
	ErrRuntimeNotRunning = errors.New("beamrt: runtime is not running")
)
