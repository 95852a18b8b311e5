// Package orchestrator runs the fixed detector sequence, finalizes the
// engine exactly once, and renders the stable stdout lines the
// response layer and any external harness key off of.
package orchestrator

import (
	"fmt"
	"io"

	"antiprobe/internal/detectors"
	"antiprobe/internal/engine"
	"antiprobe/internal/envprobe"
	"antiprobe/internal/evidence"
)

// Report is the finalized outcome of a single Run.
type Report struct {
	Verdict        evidence.Verdict
	Score          uint
	RawScore       uint
	EnvFactor      float64
	History        []evidence.Evidence
	Contradictions []evidence.Contradiction
	Environment    envprobe.Snapshot
}

// Run executes every detector in the fixed order (Ptrace → Timing →
// Int3 → TrapFlag → HardwareBp → Jitter → RecordReplay →
// EbpfCompare), applies the environmental adjustment exactly once,
// runs contradiction detection, and derives the final verdict. It
// constructs a brand-new Engine and returns a fully finalized Report;
// callers that want a fresh run (e.g. watch mode) must call Run again
// rather than reuse anything from a prior Report.
func Run() Report {
	e := engine.New()
	snap := envprobe.Probe()

	tracerPidNonZero := false
	for _, ev := range detectors.Ptrace() {
		e.Add(ev)
		if ev.Source == evidence.SourceTracerPid {
			tracerPidNonZero = true
		}
	}

	for _, ev := range detectors.Timing() {
		e.Add(ev)
	}
	for _, ev := range detectors.Int3() {
		e.Add(ev)
	}
	for _, ev := range detectors.TrapFlag(tracerPidNonZero) {
		e.Add(ev)
	}
	for _, ev := range detectors.HardwareBp() {
		e.Add(ev)
	}
	for _, ev := range detectors.Jitter() {
		e.Add(ev)
	}
	for _, ev := range detectors.RecordReplay() {
		e.Add(ev)
	}
	for _, ev := range detectors.EbpfCompare() {
		e.Add(ev)
	}

	rawScore := e.RawScore()
	factor := envprobe.Factor(snap)
	e.ApplyEnvironmentalAdjustment(factor)
	e.DetectContradictions(snap)

	return Report{
		Verdict:        e.DeriveVerdict(),
		Score:          e.Score(),
		RawScore:       rawScore,
		EnvFactor:      factor,
		History:        e.History(),
		Contradictions: e.Contradictions(),
		Environment:    snap,
	}
}

// WriteStdout renders the Report's stable contract lines to w — an
// exact prefix match guarantee — followed by unspecified but
// human-readable per-detector diagnostics.
func WriteStdout(w io.Writer, r Report) {
	fmt.Fprintf(w, "Final Verdict: %s\n", r.Verdict)
	fmt.Fprintf(w, "Cumulative Score: %d\n", r.Score)

	fmt.Fprintf(w, "Raw Score: %d (environmental factor %.2f)\n", r.RawScore, r.EnvFactor)
	for _, ev := range r.History {
		fmt.Fprintln(w, "  "+ev.String())
	}
	for _, c := range r.Contradictions {
		fmt.Fprintln(w, "  "+c.String())
	}
}

// ExitCode is a small convenience wrapper so cmd/antiprobe doesn't
// need to import internal/evidence just to call one method.
func ExitCode(r Report) int {
	return r.Verdict.ExitCode()
}
