package engine

import (
	"testing"

	"antiprobe/internal/envprobe"
	"antiprobe/internal/evidence"
)

func TestAddNeverDecreasesScore(t *testing.T) {
	e := New()
	prev := e.RawScore()
	for _, w := range []uint{5, 0, 30, 1} {
		e.Add(evidence.Evidence{Source: evidence.SourceTiming, Weight: w, Confidence: 0.5})
		if e.RawScore() < prev {
			t.Fatalf("score decreased: %d -> %d", prev, e.RawScore())
		}
		prev = e.RawScore()
	}
}

func TestApplyEnvironmentalAdjustmentOnce(t *testing.T) {
	e := New()
	e.Add(evidence.Evidence{Source: evidence.SourceTiming, Weight: 100})
	e.ApplyEnvironmentalAdjustment(0.5)
	if e.Score() != 50 {
		t.Fatalf("Score() = %d, want 50", e.Score())
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on second ApplyEnvironmentalAdjustment call")
		}
	}()
	e.ApplyEnvironmentalAdjustment(0.5)
}

func TestApplyEnvironmentalAdjustmentIdempotentAtOne(t *testing.T) {
	e := New()
	e.Add(evidence.Evidence{Source: evidence.SourceTiming, Weight: 37})
	before := e.RawScore()
	e.ApplyEnvironmentalAdjustment(1.0)
	if e.Score() != before {
		t.Fatalf("Score() = %d, want unchanged %d", e.Score(), before)
	}
}

func TestDeriveVerdictBands(t *testing.T) {
	cases := []struct {
		score uint
		want  evidence.Verdict
	}{
		{0, evidence.Clean},
		{19, evidence.Clean},
		{20, evidence.Suspicious},
		{49, evidence.Suspicious},
		{50, evidence.Instrumented},
		{89, evidence.Instrumented},
		{90, evidence.Deceptive},
	}
	for _, c := range cases {
		e := New()
		e.Add(evidence.Evidence{Source: evidence.SourceTiming, Weight: c.score})
		e.ApplyEnvironmentalAdjustment(1.0)
		if got := e.DeriveVerdict(); got != c.want {
			t.Errorf("score=%d DeriveVerdict() = %s, want %s", c.score, got, c.want)
		}
	}
}

func TestContradictionForcesNonClean(t *testing.T) {
	e := New()
	e.ApplyEnvironmentalAdjustment(1.0)
	e.RecordContradiction(evidence.Contradiction{A: evidence.SourceTiming, B: evidence.SourcePtrace, Reason: "test"})
	if got := e.DeriveVerdict(); got == evidence.Clean {
		t.Fatal("verdict must not be Clean once a contradiction is recorded")
	}
}

func TestDetectContradictionsRule1(t *testing.T) {
	e := New()
	e.Add(evidence.Evidence{Source: evidence.SourceTiming, Weight: 55})
	e.ApplyEnvironmentalAdjustment(1.0)
	e.DetectContradictions(envprobe.Snapshot{})
	if len(e.Contradictions()) != 1 {
		t.Fatalf("want 1 contradiction, got %d", len(e.Contradictions()))
	}
}

func TestDetectContradictionsRule1SuppressedByTracer(t *testing.T) {
	e := New()
	e.Add(evidence.Evidence{Source: evidence.SourceTiming, Weight: 55})
	e.Add(evidence.Evidence{Source: evidence.SourceTracerPid, Weight: 100})
	e.ApplyEnvironmentalAdjustment(1.0)
	e.DetectContradictions(envprobe.Snapshot{})
	if len(e.Contradictions()) != 0 {
		t.Fatalf("want 0 contradictions when a tracer is present, got %d", len(e.Contradictions()))
	}
}

func TestDetectContradictionsRule2(t *testing.T) {
	e := New()
	e.ApplyEnvironmentalAdjustment(1.0)
	e.DetectContradictions(envprobe.Snapshot{HypervisorPresent: true})
	if len(e.Contradictions()) != 1 {
		t.Fatalf("want 1 contradiction, got %d", len(e.Contradictions()))
	}
}
