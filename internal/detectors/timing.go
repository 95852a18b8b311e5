package detectors

import (
	"math"
	"sort"

	"antiprobe/internal/primitives"
	"antiprobe/internal/evidence"
)

const (
	timingWarmupSamples = 100
	timingSamples       = 100
	timingTrimFraction  = 0.05
)

// These thresholds are empirically tuned on one platform; treat them
// as a starting point — internal/config overrides them.
var (
	TimingElevatedMeanCycles uint64  = 2000
	TimingHighMeanCycles     uint64  = 10000
	TimingHighCV             float64 = 0.5
)

//go:noinline
func timingTarget() {
	// Deliberately empty: the detector measures the call/return
	// overhead around a no-op, not any particular workload. Marked
	// noinline so the compiler can't fold the call away entirely.
}

// Timing runs a serialized-RDTSC timing protocol against a no-op
// target and emits zero or more Evidence records — each of the four
// decision rules is evaluated independently, so a sufficiently slow
// target can produce more than one Evidence in a single run.
func Timing() []evidence.Evidence {
	for i := 0; i < timingWarmupSamples; i++ {
		timingTarget()
	}

	samples := make([]uint64, timingSamples)
	for i := range samples {
		start := primitives.SerializedRDTSC()
		timingTarget()
		end := primitives.SerializedRDTSC()
		samples[i] = end - start
	}

	trimmed := trim(samples, timingTrimFraction)
	if len(trimmed) == 0 {
		return nil
	}

	mean, stddev := meanStddev(trimmed)
	cv := 0.0
	if mean != 0 {
		cv = stddev / mean
	}

	var out []evidence.Evidence

	if mean > float64(TimingHighMeanCycles) {
		out = append(out, evidence.Evidence{
			Source:     evidence.SourceTiming,
			Weight:     55,
			Confidence: 0.85,
			Details:    "elevated mean, high magnitude",
		})
	}
	if mean > float64(TimingElevatedMeanCycles) {
		out = append(out, evidence.Evidence{
			Source:     evidence.SourceTiming,
			Weight:     35,
			Confidence: 0.7,
			Details:    "elevated mean",
		})
	}
	if cv > TimingHighCV {
		out = append(out, evidence.Evidence{
			Source:     evidence.SourceTiming,
			Weight:     25,
			Confidence: 0.65,
			Details:    "high variance",
		})
	}
	if outliers := countOutliers(trimmed, mean, stddev); outliers >= 5 {
		out = append(out, evidence.Evidence{
			Source:     evidence.SourceTiming,
			Weight:     20,
			Confidence: 0.6,
			Details:    "outlier cluster beyond mean+4sigma",
		})
	}

	return out
}

// trim sorts samples and drops the lowest and highest fraction from
// each end.
func trim(samples []uint64, fraction float64) []uint64 {
	sorted := append([]uint64(nil), samples...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	cut := int(float64(len(sorted)) * fraction)
	if 2*cut >= len(sorted) {
		return sorted
	}
	return sorted[cut : len(sorted)-cut]
}

func meanStddev(samples []uint64) (mean, stddev float64) {
	if len(samples) == 0 {
		return 0, 0
	}
	var sum float64
	for _, s := range samples {
		sum += float64(s)
	}
	mean = sum / float64(len(samples))

	var variance float64
	for _, s := range samples {
		d := float64(s) - mean
		variance += d * d
	}
	variance /= float64(len(samples))
	return mean, math.Sqrt(variance)
}

func countOutliers(samples []uint64, mean, stddev float64) int {
	threshold := mean + 4*stddev
	count := 0
	for _, s := range samples {
		if float64(s) > threshold {
			count++
		}
	}
	return count
}
