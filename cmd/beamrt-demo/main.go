// Command beamrt-demo exercises a small scripted scenario against a beamrt
// Runtime and prints pass/fail lines, in place of the out-of-scope test
// harness (test_init/test_assert_*/test_print_results - spec.md §1) beamrt
// itself never implements.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joeycumines/beamrt"
	"github.com/joeycumines/beamrt/telemetry"
)

func main() {
	logger := telemetry.NewSlogLogger(slog.NewTextHandler(os.Stderr, nil))
	beamrt.SetDefaultLogger(logger)

	rt := beamrt.NewRuntime(
		beamrt.WithCoreCount(16),
		beamrt.WithPoolSize(64),
		beamrt.WithLogger(logger),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	results := runScenarios(rt)

	go func() {
		_ = rt.Run(ctx)
	}()
	<-ctx.Done()
	_ = rt.Close()

	pass := true
	for _, r := range results {
		status := "PASS"
		if !r.ok {
			status = "FAIL"
			pass = false
		}
		fmt.Printf("[%s] %s\n", status, r.name)
	}
	if !pass {
		os.Exit(1)
	}
}

type scenarioResult struct {
	name string
	ok   bool
}

// runScenarios exercises the PCB pool, run queues, and scheduler dispatch
// directly (ahead of starting Run's goroutines), mirroring spec.md §8's
// concrete end-to-end scenarios.
func runScenarios(rt *beamrt.Runtime) []scenarioResult {
	var results []scenarioResult
	check := func(name string, ok bool) {
		results = append(results, scenarioResult{name: name, ok: ok})
	}

	pool := rt.Pool()
	a := pool.Allocate()
	check("allocate returns a live PCB", a != nil)

	freed := pool.Free(a)
	check("free accepts a live slot", freed)

	b := pool.Allocate()
	check("free-then-alloc reuses the same slot uncontested", b != nil && a.Address() == b.Address())

	s := rt.Scheduler(0)
	s.Queues().Enqueue(beamrt.PriorityNormal, b)
	dispatched := s.Schedule(nil)
	check("scheduler dispatches the only runnable process", dispatched == b)

	again := s.Schedule(nil)
	check("re-schedule keeps the same process while reductions remain", again == dispatched)

	return results
}
