package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a single configuration validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// ValidationErrors collects every failure found in one pass over a Config.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// ValidateConfig checks a decoded Config for internally consistent
// thresholds. A schema-violating JSON policy file (per §7) never
// reaches this far — rejecting it is schemavalidation's job — but a
// hand-edited TOML file can still describe nonsensical bands, which
// this catches before Apply pushes them into the running detectors.
func ValidateConfig(c *Config) error {
	var errs ValidationErrors

	if c.Int3ClusterMinLen < 1 {
		errs = append(errs, ValidationError{"int3_cluster_min_len", "must be at least 1"})
	}
	if c.Int3ScatterMinGap < 1 {
		errs = append(errs, ValidationError{"int3_scatter_min_gap", "must be at least 1"})
	}
	if c.Int3ScatterMaxCount < 1 {
		errs = append(errs, ValidationError{"int3_scatter_max_count", "must be at least 1"})
	}

	if c.TimingElevatedMeanCycles == 0 {
		errs = append(errs, ValidationError{"timing_elevated_mean_cycles", "must be positive"})
	}
	if c.TimingHighMeanCycles <= c.TimingElevatedMeanCycles {
		errs = append(errs, ValidationError{"timing_high_mean_cycles", "must exceed timing_elevated_mean_cycles"})
	}
	if c.TimingHighCV <= 0 {
		errs = append(errs, ValidationError{"timing_high_cv", "must be positive"})
	}

	if !(c.VerdictSuspiciousScore < c.VerdictInstrumentedScore && c.VerdictInstrumentedScore < c.VerdictDeceptiveScore) {
		errs = append(errs, ValidationError{"verdict_*_score", "bands must satisfy suspicious < instrumented < deceptive"})
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
