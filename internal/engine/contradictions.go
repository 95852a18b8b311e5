package engine

import (
	"antiprobe/internal/envprobe"
	"antiprobe/internal/evidence"
)

// DetectContradictions runs the three contradiction rules from spec §4.11
// against the engine's (unscaled) history and records any that fire. It
// must be called after all detectors have run and after
// ApplyEnvironmentalAdjustment, but it reasons about the unscaled
// Evidence weights in the history, not the adjusted Score, so "heavy
// timing" thresholds keep their documented meaning regardless of
// environmental scaling.
func (e *Engine) DetectContradictions(snap envprobe.Snapshot) {
	var (
		timingWeight  uint
		int3Present   bool
		int3Weight    uint
		hwbpPresent   bool
		hwbpWeight    uint
		tracerPresent bool
	)

	for _, ev := range e.history {
		switch ev.Source {
		case evidence.SourceTiming:
			timingWeight += ev.Weight
		case evidence.SourceInt3:
			int3Present = true
			int3Weight += ev.Weight
		case evidence.SourceHardwareBp:
			hwbpPresent = true
			hwbpWeight += ev.Weight
		case evidence.SourceTracerPid, evidence.SourcePtrace:
			tracerPresent = true
		}
	}

	// Rule 1: heavy timing anomaly but no tracer and no hardware-bp evidence.
	if timingWeight >= 40 && !tracerPresent && !hwbpPresent {
		e.RecordContradiction(evidence.Contradiction{
			A:      evidence.SourceTiming,
			B:      evidence.SourcePtrace,
			Reason: "Heavy timing anomaly but no tracer",
		})
	}

	// Rule 2: hypervisor present but totally clean timing.
	if snap.HypervisorPresent && timingWeight == 0 {
		e.RecordContradiction(evidence.Contradiction{
			A:      evidence.SourceTiming,
			B:      evidence.SourceEnvironment,
			Reason: "Hypervisor present but clean timing — possible TSC virtualization",
		})
	}

	// Rule 3: multiple breakpoint classes plus a hostile (traced) environment,
	// all at high weight.
	if int3Present && hwbpPresent && tracerPresent &&
		int3Weight >= evidence.MaxWeight[evidence.SourceInt3] &&
		hwbpWeight >= 30 {
		e.RecordContradiction(evidence.Contradiction{
			A:      evidence.SourceInt3,
			B:      evidence.SourceHardwareBp,
			Reason: "Multiple breakpoint classes, hostile environment",
		})
	}
}
