package detectors

import (
	"sort"
	"time"

	"antiprobe/internal/evidence"
	"antiprobe/internal/primitives"
	"antiprobe/internal/sigcompat"
)

const (
	hardwareBpDeadline       = 50 * time.Millisecond
	hardwareBpBaselineRuns   = 10
	hardwareBpLoopIterations = 1000
)

// HardwareBp implements two sub-probes: a direct DR7 read under a
// fault watch, and a timing side-channel on a fixed NOP loop.
func HardwareBp() []evidence.Evidence {
	var out []evidence.Evidence

	if ev, ok := dr7Probe(); ok {
		out = append(out, ev)
	}
	if ev, ok := timingProbe(); ok {
		out = append(out, ev)
	}
	return out
}

// dr7Probe calls primitives.ReadDR7 under a SIGSEGV/SIGBUS watch. A
// fault means DR7 is honestly protected (native); a clean return
// means the read was allowed through, which only happens when DRx
// access isn't actually trapped.
func dr7Probe() (evidence.Evidence, bool) {
	_, completed := sigcompat.LatchFault(hardwareBpDeadline, func() {
		primitives.ReadDR7()
	})
	if !completed {
		return evidence.Evidence{}, false
	}
	return evidence.Evidence{
		Source:     evidence.SourceHardwareBp,
		Weight:     30,
		Confidence: 0.6,
		Details:    "DRx not trapping",
	}, true
}

// timingProbe times a fixed 1000-NOP loop and compares it against a
// 10-run baseline median; a hardware-breakpoint-aware hypervisor that
// emulates DR7 writes tends to add measurable per-instruction
// overhead even when the loop itself never touches a debug register.
func timingProbe() (evidence.Evidence, bool) {
	baseline := make([]uint64, hardwareBpBaselineRuns)
	for i := range baseline {
		baseline[i] = timedNopLoop()
	}
	median := medianOf(baseline)
	if median == 0 {
		return evidence.Evidence{}, false
	}

	sample := timedNopLoop()
	if sample >= 3*median {
		return evidence.Evidence{
			Source:     evidence.SourceHardwareBp,
			Weight:     15,
			Confidence: 0.4,
			Details:    "nop loop 3x baseline median",
		}, true
	}
	return evidence.Evidence{}, false
}

// timedNopLoop sums ten 100-NOP brackets (primitives.MeasureNopJitter
// already brackets exactly 100 NOPs) to cover the full 1000-iteration
// timing window.
func timedNopLoop() uint64 {
	var total uint64
	for i := 0; i < hardwareBpLoopIterations/100; i++ {
		total += primitives.MeasureNopJitter()
	}
	return total
}

func medianOf(samples []uint64) uint64 {
	sorted := append([]uint64(nil), samples...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	if len(sorted) == 0 {
		return 0
	}
	return sorted[len(sorted)/2]
}
