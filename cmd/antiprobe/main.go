// antiprobe runs a fixed sequence of anti-analysis detectors against
// its own process and reports whether it is likely being debugged,
// traced, or run inside an instrumentation sandbox.
//
//	antiprobe                         Run once, print the stdout contract
//	antiprobe --format json           Also emit a machine-readable report
//	antiprobe --watch                 Re-run on a timer and on config change
//	antiprobe --history <path>        Append the run to a SQLite history
//	antiprobe --metrics-addr <addr>   Serve Prometheus gauges for the last run
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"antiprobe/internal/audit"
	"antiprobe/internal/config"
	"antiprobe/internal/logging"
	"antiprobe/internal/metrics"
	"antiprobe/internal/orchestrator"
	"antiprobe/internal/response"
	"antiprobe/internal/schemavalidation"
	"antiprobe/internal/security"
	"antiprobe/internal/watchconfig"
)

func main() {
	format := flag.String("format", "text", "output format: text or json")
	configPath := flag.String("config", "", "TOML config path (default $XDG_CONFIG_HOME/antiprobe/config.toml)")
	policyJSON := flag.String("policy-json", "", "JSON policy override, validated against the policy schema before applying")
	historyPath := flag.String("history", "", "append this run to a SQLite history database at the given path")
	metricsAddr := flag.String("metrics-addr", "", "serve Prometheus-text-format gauges for the last run on this address")
	watch := flag.Bool("watch", false, "re-run continuously on a timer and on config-file change")
	watchInterval := flag.Duration("watch-interval", 5*time.Minute, "interval between re-runs in --watch mode")
	flag.Parse()

	if err := security.SecureEnvironment(); err != nil {
		logging.Default().Warn("failed to harden process environment", "error", err)
	}

	cfg, err := loadConfig(*configPath, *policyJSON)
	if err != nil {
		fmt.Fprintf(os.Stderr, "antiprobe: %v\n", err)
		os.Exit(1)
	}
	config.Apply(cfg)

	effectiveMetricsAddr := *metricsAddr
	if effectiveMetricsAddr == "" {
		effectiveMetricsAddr = cfg.MetricsAddr
	}
	if effectiveMetricsAddr != "" {
		startMetricsServer(effectiveMetricsAddr)
	}

	policy := response.NewPolicy()

	if !*watch {
		runOnce(cfg, *format, *historyPath, policy)
		return
	}

	runWatch(cfg, *format, *historyPath, *watchInterval, policy)
}

// loadConfig loads the TOML config, then applies an optional
// --policy-json override on top of it. A schema-invalid policy file
// is a parse failure: antiprobe logs it and falls back to the TOML
// config rather than applying a partially valid override.
func loadConfig(configPath, policyPath string) (*config.Config, error) {
	if configPath != "" {
		validated, err := security.DefaultPathValidator().ValidatePath(configPath)
		if err != nil {
			return nil, fmt.Errorf("config path: %w", err)
		}
		configPath = validated
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if policyPath == "" {
		return cfg, nil
	}

	policyPath, err = security.DefaultPathValidator().ValidatePath(policyPath)
	if err != nil {
		return nil, fmt.Errorf("policy-json path: %w", err)
	}

	data, err := security.ReadSecureFile(policyPath, 1<<20)
	if err != nil {
		return nil, fmt.Errorf("read policy-json: %w", err)
	}

	if err := schemavalidation.ValidatePolicy(data); err != nil {
		logging.Default().Warn("policy-json failed schema validation, falling back to config defaults",
			"path", policyPath, "error", security.SanitizeLogOutput(err.Error()))
		return cfg, nil
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		logging.Default().Warn("policy-json did not decode, falling back to config defaults",
			"path", policyPath, "error", security.SanitizeLogOutput(err.Error()))
		return config.Load(configPath)
	}

	if err := config.ValidateConfig(cfg); err != nil {
		logging.Default().Warn("policy-json produced an invalid config, falling back to config defaults",
			"path", policyPath, "error", security.SanitizeLogOutput(err.Error()))
		return config.Load(configPath)
	}

	return cfg, nil
}

func runOnce(cfg *config.Config, format, historyPath string, policy *response.Policy) {
	start := time.Now()
	report := orchestrator.Run()
	duration := time.Since(start)

	orchestrator.WriteStdout(os.Stdout, report)

	if format == "json" {
		if err := writeJSONReport(os.Stdout, report); err != nil {
			logging.Default().Error("failed to emit json report", "error", err)
		}
	}

	metrics.GetMetrics().RecordRun(report.Verdict, report.Score, report.RawScore, report.EnvFactor,
		report.History, len(report.Contradictions), duration)

	recordHistory(historyPath, cfg, report, start)

	policy.Dispatch(report.Verdict).Run()

	os.Exit(orchestrator.ExitCode(report))
}

func runWatch(cfg *config.Config, format, historyPath string, interval time.Duration, policy *response.Policy) {
	logger := logging.Default()

	cfgPath := config.ConfigPath()
	if v := flag.Lookup("config").Value.String(); v != "" {
		cfgPath = v
	}

	watcher, err := watchconfig.New(cfgPath, 2*time.Second)
	if err != nil {
		logger.Warn("failed to start config watcher, --watch will only re-run on its timer", "error", err)
	} else {
		watcher.Start()
		defer watcher.Stop()
	}

	runWatchIteration(cfg, format, historyPath, policy)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var reloads <-chan struct{}
	var errs <-chan error
	if watcher != nil {
		reloads = watcher.Reloads()
		errs = watcher.Errors()
	}

	for {
		select {
		case <-ticker.C:
			runWatchIteration(cfg, format, historyPath, policy)

		case <-reloads:
			fresh, err := loadConfig(cfgPath, "")
			if err != nil {
				logger.Error("failed to reload config, keeping previous thresholds", "error", err)
				continue
			}
			cfg = fresh
			config.Apply(cfg)
			logger.Info("config reloaded")
			runWatchIteration(cfg, format, historyPath, policy)

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logger.Warn("config watcher error", "error", err)
		}
	}
}

// runWatchIteration mirrors runOnce but never calls os.Exit: watch
// mode keeps going across runs and its exit code is meaningless until
// the process is actually stopped.
func runWatchIteration(cfg *config.Config, format, historyPath string, policy *response.Policy) {
	start := time.Now()
	report := orchestrator.Run()
	duration := time.Since(start)

	orchestrator.WriteStdout(os.Stdout, report)
	if format == "json" {
		if err := writeJSONReport(os.Stdout, report); err != nil {
			logging.Default().Error("failed to emit json report", "error", err)
		}
	}

	metrics.GetMetrics().RecordRun(report.Verdict, report.Score, report.RawScore, report.EnvFactor,
		report.History, len(report.Contradictions), duration)

	recordHistory(historyPath, cfg, report, start)

	policy.Dispatch(report.Verdict).Run()
}

func recordHistory(historyPath string, cfg *config.Config, report orchestrator.Report, start time.Time) {
	path := historyPath
	if path == "" {
		path = cfg.HistoryPath
	}
	if path == "" {
		return
	}

	store, err := audit.Open(path)
	if err != nil {
		logging.Default().Error("failed to open history store", "path", path, "error", err)
		return
	}
	defer store.Close()

	hostID, err := audit.HostID()
	if err != nil {
		logging.Default().Warn("failed to derive host id for history record", "error", err)
		hostID = "unknown"
	}

	runID := logging.Default().NewRunID()
	if err := store.RecordRun(runID, hostID, start, report); err != nil {
		logging.Default().Error("failed to record run history", "error", err)
	}
}

func writeJSONReport(w *os.File, r orchestrator.Report) error {
	doc := reportDocument{
		Verdict:             r.Verdict.String(),
		Score:               r.Score,
		RawScore:            r.RawScore,
		EnvironmentalFactor: r.EnvFactor,
		Evidence:            make([]evidenceDocument, len(r.History)),
		Contradictions:      make([]contradictionDocument, len(r.Contradictions)),
	}
	for i, ev := range r.History {
		doc.Evidence[i] = evidenceDocument{
			Source:     ev.Source.String(),
			Weight:     ev.Weight,
			Confidence: ev.Confidence,
			Details:    ev.Details,
		}
	}
	for i, c := range r.Contradictions {
		doc.Contradictions[i] = contradictionDocument{
			A:      c.A.String(),
			B:      c.B.String(),
			Reason: c.Reason,
		}
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	if err := schemavalidation.ValidateReport(data); err != nil {
		return fmt.Errorf("report failed its own schema: %w", err)
	}

	_, err = w.Write(append(data, '\n'))
	return err
}

// reportDocument mirrors schemavalidation's report schema field by field.
type reportDocument struct {
	Verdict             string                  `json:"verdict"`
	Score                uint                    `json:"score"`
	RawScore             uint                    `json:"raw_score"`
	EnvironmentalFactor  float64                 `json:"environmental_factor"`
	Evidence             []evidenceDocument      `json:"evidence"`
	Contradictions       []contradictionDocument `json:"contradictions"`
}

type evidenceDocument struct {
	Source     string  `json:"source"`
	Weight     uint    `json:"weight"`
	Confidence float64 `json:"confidence"`
	Details    string  `json:"details"`
}

type contradictionDocument struct {
	A      string `json:"a"`
	B      string `json:"b"`
	Reason string `json:"reason"`
}

func startMetricsServer(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Default().HTTPHandler())

	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Default().Error("metrics server stopped", "error", err)
		}
	}()
}

