// Package beamrt implements a BEAM-style preemptive user-space process
// scheduler: a fixed-capacity pool of process control blocks, per-core
// priority run queues, reduction-bounded dispatch, typed blocking/wake,
// a timer wheel for timeout-driven wake-ups, work stealing between cores,
// and topology-aware core classification for heterogeneous (P-core/E-core)
// hosts.
//
// The runtime never preempts at arbitrary instructions. A process keeps the
// CPU until it voluntarily yields, blocks, or its reduction budget (the only
// preemption clock) is exhausted. Everything else - message payloads, I/O
// readiness, wire formats - is external to this package; beamrt only
// supplies the blocking/wake contract those collaborators hook into.
package beamrt
