//go:build amd64

package primitives

import "testing"

func TestSerializedRDTSCMonotonic(t *testing.T) {
	a := SerializedRDTSC()
	b := SerializedRDTSC()
	if b < a {
		t.Fatalf("SerializedRDTSC went backwards: %d -> %d", a, b)
	}
}

func TestJitterMeasurersReturnNonZero(t *testing.T) {
	measurers := map[string]func() uint64{
		"nop":           MeasureNopJitter,
		"mov":           MeasureMovJitter,
		"xor":           MeasureXorJitter,
		"amplification": MeasureAmplificationJitter,
	}
	for name, m := range measurers {
		if got := m(); got == 0 {
			t.Errorf("%s jitter measurer returned 0 cycles", name)
		}
	}
}

func TestReadDR7Runs(t *testing.T) {
	// DR7 is readable from ring 3 on real hardware; this only asserts
	// the call completes and returns some value, not any particular
	// bit pattern, since the default value is environment-dependent.
	_ = ReadDR7()
}

func TestCPUIDLeafZeroReportsMaxLeaf(t *testing.T) {
	maxLeaf, _, _, _ := CPUID(0, 0)
	if maxLeaf == 0 {
		t.Fatal("CPUID leaf 0 returned max supported leaf of 0")
	}
}

func TestTriggerTrapFlagReturns(t *testing.T) {
	// TriggerTrapFlag must return normally; whether the TF it sets
	// actually raises a #DB on the NOP is the TrapFlag detector's
	// concern (internal/sigcompat owns catching it), not this test's.
	TriggerTrapFlag()
}
