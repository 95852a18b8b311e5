// Package evidence defines the shared data model for antiprobe: the
// tagged Evidence observation a detector emits, the Contradiction an
// inter-detector check can record, and the ordered Verdict the policy
// engine ultimately derives.
package evidence

import "fmt"

// Source tags the detector that produced an Evidence record. It is also
// used as the key type for Contradiction pairs.
type Source int

const (
	// SourcePtrace marks a failed PTRACE_TRACEME self-trace attempt.
	SourcePtrace Source = iota
	// SourceTracerPid marks a non-zero TracerPid in /proc/self/status.
	SourceTracerPid
	// SourceTiming marks an elevated or high-variance timing measurement.
	SourceTiming
	// SourceInt3 marks scattered software-breakpoint bytes.
	SourceInt3
	// SourceTrapFlag marks an intercepted single-step trap.
	SourceTrapFlag
	// SourceHardwareBp marks unprotected or anomalously slow debug-register access.
	SourceHardwareBp
	// SourceJitter marks amplified single-step overhead.
	SourceJitter
	// SourceRecordReplay marks accumulated record/replay sub-signals.
	SourceRecordReplay
	// SourceEbpfCompare marks an eBPF-assisted timing comparison.
	SourceEbpfCompare
	// SourceEnvironment is not a detector tag — no detector ever emits
	// Evidence with this Source. It exists solely as the "Environment"
	// half of contradiction rule 2 in spec §4.11, which names a
	// contradiction pair (Timing, Environment) even though Environment
	// is not itself one of the detector sources enumerated in §3.
	SourceEnvironment
)

func (s Source) String() string {
	switch s {
	case SourcePtrace:
		return "Ptrace"
	case SourceTracerPid:
		return "TracerPid"
	case SourceTiming:
		return "Timing"
	case SourceInt3:
		return "Int3"
	case SourceTrapFlag:
		return "TrapFlag"
	case SourceHardwareBp:
		return "HardwareBp"
	case SourceJitter:
		return "Jitter"
	case SourceRecordReplay:
		return "RecordReplay"
	case SourceEbpfCompare:
		return "EbpfCompare"
	case SourceEnvironment:
		return "Environment"
	default:
		return "Unknown"
	}
}

// MaxWeight bounds the total weight a single Evidence record may
// contribute, per source. Detectors must stay within these caps so no
// single observation can dominate the score; the engine does not
// second-guess them.
var MaxWeight = map[Source]uint{
	SourcePtrace:       100,
	SourceTracerPid:    100,
	SourceTiming:       55,
	SourceInt3:         25,
	SourceTrapFlag:     40,
	SourceHardwareBp:   30,
	SourceJitter:       30,
	SourceRecordReplay: 100,
	SourceEbpfCompare:  50,
}

// Evidence is a single detector observation.
type Evidence struct {
	Source     Source
	Weight     uint
	Confidence float64 // [0.0, 1.0]
	Details    string
}

func (e Evidence) String() string {
	return fmt.Sprintf("%s: weight=%d confidence=%.2f (%s)", e.Source, e.Weight, e.Confidence, e.Details)
}

// Contradiction records an inconsistency between two Evidence sources.
type Contradiction struct {
	A, B   Source
	Reason string
}

func (c Contradiction) String() string {
	return fmt.Sprintf("contradiction(%s, %s): %s", c.A, c.B, c.Reason)
}

// Verdict is the engine's final classification, ordered Clean < Suspicious
// < Instrumented < Deceptive.
type Verdict int

const (
	Clean Verdict = iota
	Suspicious
	Instrumented
	Deceptive
)

func (v Verdict) String() string {
	switch v {
	case Clean:
		return "Clean"
	case Suspicious:
		return "Suspicious"
	case Instrumented:
		return "Instrumented"
	case Deceptive:
		return "Deceptive"
	default:
		return "Unknown"
	}
}

// ExitCode maps a Verdict to the process exit code the test harness expects.
func (v Verdict) ExitCode() int {
	switch v {
	case Clean:
		return 0
	case Suspicious:
		return 10
	case Instrumented:
		return 20
	case Deceptive:
		return 30
	default:
		return 1
	}
}
