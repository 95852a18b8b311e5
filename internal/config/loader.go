package config

import (
	"antiprobe/internal/detectors"
	"antiprobe/internal/engine"
)

// Apply pushes cfg's thresholds into the package-level vars the
// engine and detectors read at run time. It must run before
// orchestrator.Run, and is safe to call again on every watch-mode
// reload since orchestrator.Run always constructs a fresh Engine and
// these vars are read fresh on each call, never cached per-run.
func Apply(cfg *Config) {
	detectors.Int3ClusterMinLen = cfg.Int3ClusterMinLen
	detectors.Int3ScatterMinGap = cfg.Int3ScatterMinGap
	detectors.Int3ScatterMaxCount = cfg.Int3ScatterMaxCount

	detectors.TimingElevatedMeanCycles = cfg.TimingElevatedMeanCycles
	detectors.TimingHighMeanCycles = cfg.TimingHighMeanCycles
	detectors.TimingHighCV = cfg.TimingHighCV

	engine.SuspiciousScore = cfg.VerdictSuspiciousScore
	engine.InstrumentedScore = cfg.VerdictInstrumentedScore
	engine.DeceptiveScore = cfg.VerdictDeceptiveScore
}
