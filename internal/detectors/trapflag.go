package detectors

import (
	"time"

	"antiprobe/internal/evidence"
	"antiprobe/internal/primitives"
	"antiprobe/internal/sigcompat"
)

const trapFlagDeadline = 50 * time.Millisecond

// TrapFlag sets EFLAGS.TF and races a SIGTRAP watch against the
// resulting single-step trap. tracerPidNonZero is the result already
// computed by the Ptrace detector: when a tracer is already known to
// be attached there is nothing left to learn by also racing the trap
// flag, so this detector is skipped outright rather than risking a
// livelock against an attached debugger's own trap handling.
func TrapFlag(tracerPidNonZero bool) []evidence.Evidence {
	if sigcompat.GDBCompatible() {
		return nil
	}
	if tracerPidNonZero {
		return nil
	}

	trapReceived := sigcompat.LatchTrapFlag(trapFlagDeadline, primitives.TriggerTrapFlag)
	if trapReceived {
		return nil
	}

	return []evidence.Evidence{{
		Source:     evidence.SourceTrapFlag,
		Weight:     40,
		Confidence: 0.9,
		Details:    "SIGTRAP intercepted before return",
	}}
}
