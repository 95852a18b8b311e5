package metrics

import (
	"testing"
	"time"

	"antiprobe/internal/evidence"
)

func TestProbeMetricsRecordRun(t *testing.T) {
	reg := NewRegistry("antiprobe_test", "")
	m := NewProbeMetrics(reg)

	history := []evidence.Evidence{
		{Source: evidence.SourceTiming, Weight: 30, Confidence: 0.7},
		{Source: evidence.SourceTiming, Weight: 10, Confidence: 0.5},
	}

	m.RecordRun(evidence.Suspicious, 28, 40, 0.7, history, 1, 50*time.Millisecond)

	if got := m.RunsTotal.Value(); got != 1 {
		t.Errorf("RunsTotal = %d, want 1", got)
	}
	if got := m.VerdictsTotal[evidence.Suspicious].Value(); got != 1 {
		t.Errorf("VerdictsTotal[Suspicious] = %d, want 1", got)
	}
	if got := m.VerdictsTotal[evidence.Clean].Value(); got != 0 {
		t.Errorf("VerdictsTotal[Clean] = %d, want 0", got)
	}
	if got := m.ContradictionsTotal.Value(); got != 1 {
		t.Errorf("ContradictionsTotal = %d, want 1", got)
	}
	if got := m.CumulativeScore.Value(); got != 28 {
		t.Errorf("CumulativeScore = %d, want 28", got)
	}
	if got := m.RawScore.Value(); got != 40 {
		t.Errorf("RawScore = %d, want 40", got)
	}
	if got := m.DetectorWeight[evidence.SourceTiming].Value(); got != 40 {
		t.Errorf("DetectorWeight[SourceTiming] = %d, want 40 (30+10 summed)", got)
	}
	if got := m.RunDuration.Count(); got != 1 {
		t.Errorf("RunDuration.Count() = %d, want 1", got)
	}
}

func TestProbeMetricsResetsStaleWeights(t *testing.T) {
	reg := NewRegistry("antiprobe_test2", "")
	m := NewProbeMetrics(reg)

	m.RecordRun(evidence.Suspicious, 30, 30, 1.0, []evidence.Evidence{
		{Source: evidence.SourceTiming, Weight: 30},
	}, 0, time.Millisecond)
	if got := m.DetectorWeight[evidence.SourceTiming].Value(); got != 30 {
		t.Fatalf("DetectorWeight[SourceTiming] = %d, want 30", got)
	}

	m.RecordRun(evidence.Clean, 0, 0, 1.0, nil, 0, time.Millisecond)
	if got := m.DetectorWeight[evidence.SourceTiming].Value(); got != 0 {
		t.Errorf("DetectorWeight[SourceTiming] = %d after empty-evidence run, want 0", got)
	}
}

func TestRecordError(t *testing.T) {
	reg := NewRegistry("antiprobe_test3", "")
	m := NewProbeMetrics(reg)

	m.RecordError()
	m.RecordError()

	if got := m.ErrorsTotal.Value(); got != 2 {
		t.Errorf("ErrorsTotal = %d, want 2", got)
	}
}

func TestGetMetricsSingleton(t *testing.T) {
	defaultProbeMetrics = nil
	m1 := GetMetrics()
	m2 := GetMetrics()
	if m1 != m2 {
		t.Error("GetMetrics returned different instances on repeated calls")
	}
}
