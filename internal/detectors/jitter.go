package detectors

import (
	"antiprobe/internal/evidence"
	"antiprobe/internal/primitives"
)

const jitterRuns = 30

// Jitter compares timing variance between a plain NOP sequence and a
// branch-heavy one: a single-step trap handler pays disproportionate
// overhead on branchy instruction sequences, so an amplified variance
// ratio between the two is evidence of an attached stepper.
func Jitter() []evidence.Evidence {
	nopSamples := sampleN(primitives.MeasureNopJitter, jitterRuns)
	ampSamples := sampleN(primitives.MeasureAmplificationJitter, jitterRuns)

	nopMean, nopVariance := meanVariance(nopSamples)
	_, ampVariance := meanVariance(ampSamples)

	if nopVariance > 0 && ampVariance >= 5*nopVariance && nopMean > 200 {
		return []evidence.Evidence{{
			Source:     evidence.SourceJitter,
			Weight:     30,
			Confidence: 0.5,
			Details:    "amplification variance >= 5x nop variance",
		}}
	}
	return nil
}

func sampleN(measure func() uint64, n int) []uint64 {
	samples := make([]uint64, n)
	for i := range samples {
		samples[i] = measure()
	}
	return samples
}

func meanVariance(samples []uint64) (mean, variance float64) {
	if len(samples) == 0 {
		return 0, 0
	}
	var sum float64
	for _, s := range samples {
		sum += float64(s)
	}
	mean = sum / float64(len(samples))

	for _, s := range samples {
		d := float64(s) - mean
		variance += d * d
	}
	variance /= float64(len(samples))
	return mean, variance
}
