package detectors

import "testing"

func TestGapEntropyZeroForIdenticalGaps(t *testing.T) {
	gaps := []int64{5000, 5000, 5000, 5000}
	if h := gapEntropy(gaps); h != 0 {
		t.Fatalf("gapEntropy(identical) = %v, want 0", h)
	}
}

func TestGapEntropyPositiveForVariedGaps(t *testing.T) {
	gaps := []int64{1000, 50000, 2000, 90000, 3000}
	if h := gapEntropy(gaps); h <= 0 {
		t.Fatalf("gapEntropy(varied) = %v, want > 0", h)
	}
}

func TestGapEntropySingleSampleIsZero(t *testing.T) {
	if h := gapEntropy([]int64{1234}); h != 0 {
		t.Fatalf("gapEntropy(single) = %v, want 0", h)
	}
}

func TestRRPrefixEnvVarDetection(t *testing.T) {
	t.Setenv("RR_TEST_MARKER", "1")
	if !rrEnvVarsPresent() {
		t.Fatal("rrEnvVarsPresent() = false with RR_TEST_MARKER set")
	}
}
