//go:build linux

package beamrt

import "golang.org/x/sys/unix"

// detectHostCoreCount reports the number of CPUs available to this process
// via sched_getaffinity, the same primitive the teacher's eventloop package
// reaches for (golang.org/x/sys/unix) when it needs kernel-level facts
// rather than the Go runtime's own view of GOMAXPROCS.
func detectHostCoreCount() int {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err != nil {
		return 0
	}
	return set.Count()
}
