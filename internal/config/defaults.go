package config

// DefaultConfig returns the baseline thresholds every detector and
// the engine use out of the box. A config file only needs to set the
// fields it wants to diverge from these.
func DefaultConfig() *Config {
	return &Config{
		Int3ClusterMinLen:   16,
		Int3ScatterMinGap:   64,
		Int3ScatterMaxCount: 20,

		TimingElevatedMeanCycles: 2000,
		TimingHighMeanCycles:     10000,
		TimingHighCV:             0.5,

		VerdictSuspiciousScore:   20,
		VerdictInstrumentedScore: 50,
		VerdictDeceptiveScore:    90,

		HistoryPath: "",
		MetricsAddr: "",
	}
}
