// Package config handles loading and validating antiprobe's tunable
// thresholds from a TOML file. Every field has a sensible built-in
// default (see defaults.go); a config file only needs to name the
// fields it wants to override. Thresholds like the INT3 clustering
// bounds are tunable here rather than hardcoded, generalized to the
// rest of the run's numeric knobs — the detector/engine code itself
// never hands back to config after Load, it only reads the values
// Apply pushed into it.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config holds every threshold and ambient-output setting antiprobe
// accepts from a config file.
type Config struct {
	Int3ClusterMinLen   int `toml:"int3_cluster_min_len" yaml:"int3_cluster_min_len"`
	Int3ScatterMinGap   int `toml:"int3_scatter_min_gap" yaml:"int3_scatter_min_gap"`
	Int3ScatterMaxCount int `toml:"int3_scatter_max_count" yaml:"int3_scatter_max_count"`

	TimingElevatedMeanCycles uint64  `toml:"timing_elevated_mean_cycles" yaml:"timing_elevated_mean_cycles"`
	TimingHighMeanCycles     uint64  `toml:"timing_high_mean_cycles" yaml:"timing_high_mean_cycles"`
	TimingHighCV             float64 `toml:"timing_high_cv" yaml:"timing_high_cv"`

	VerdictSuspiciousScore   uint `toml:"verdict_suspicious_score" yaml:"verdict_suspicious_score"`
	VerdictInstrumentedScore uint `toml:"verdict_instrumented_score" yaml:"verdict_instrumented_score"`
	VerdictDeceptiveScore    uint `toml:"verdict_deceptive_score" yaml:"verdict_deceptive_score"`

	HistoryPath string `toml:"history_path" yaml:"history_path"`
	MetricsAddr string `toml:"metrics_addr" yaml:"metrics_addr"`
}

// ConfigPath returns the default configuration file location,
// $XDG_CONFIG_HOME/antiprobe/config.toml (falling back to
// ~/.config/antiprobe/config.toml).
func ConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "antiprobe", "config.toml")
	}
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "antiprobe", "config.toml")
}

// Load reads configuration from path, falling back silently to
// DefaultConfig when the file does not exist — a missing config file
// is the common case, not an error, per the conservative-fallback
// I/O-failure policy. The format is chosen by file extension: .toml
// is the default and recommended format, .yaml/.yml is accepted for
// operators migrating config from another tool in their stack.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = ConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := decode(path, data, cfg); err != nil {
		return nil, err
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	case ".toml", "":
		_, err := toml.Decode(string(data), cfg)
		return err
	default:
		return fmt.Errorf("config: unrecognized extension for %q, want .toml or .yaml", path)
	}
}
