//go:build !linux

package beamrt

import "runtime"

// detectHostCoreCount falls back to the Go runtime's own view of available
// CPUs on platforms without sched_getaffinity.
func detectHostCoreCount() int {
	return runtime.NumCPU()
}
