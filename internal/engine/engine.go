// Package engine implements the policy/decision engine: evidence
// accumulation, contradiction detection, environmental scaling, and
// verdict derivation. An Engine is constructed once per run, mutated by
// detectors in sequence on a single goroutine, finalized once, and then
// only read.
package engine

import (
	"fmt"
	"math"

	"antiprobe/internal/evidence"
)

// Engine accumulates Evidence during a single detection run.
type Engine struct {
	score          uint
	history        []evidence.Evidence
	contradictions []evidence.Contradiction
	envFactor      float64
	adjusted       bool
}

// New returns a fresh, unfinalized Engine.
func New() *Engine {
	return &Engine{envFactor: 1.0}
}

// Add appends an Evidence record to the history and adds its weight to
// the running score. The score never decreases as a result of Add.
func (e *Engine) Add(ev evidence.Evidence) {
	if e.adjusted {
		panic("engine: Add called after environmental adjustment")
	}
	e.history = append(e.history, ev)
	e.score += ev.Weight
}

// RecordContradiction appends a Contradiction. Once any Contradiction is
// recorded, DeriveVerdict can never return Clean.
func (e *Engine) RecordContradiction(c evidence.Contradiction) {
	e.contradictions = append(e.contradictions, c)
}

// History returns the accumulated Evidence in firing order.
func (e *Engine) History() []evidence.Evidence {
	return append([]evidence.Evidence(nil), e.history...)
}

// Contradictions returns the accumulated Contradiction records.
func (e *Engine) Contradictions() []evidence.Contradiction {
	return append([]evidence.Contradiction(nil), e.contradictions...)
}

// RawScore returns the pre-adjustment cumulative score: the sum of every
// Evidence weight in the history, whether or not
// ApplyEnvironmentalAdjustment has run.
func (e *Engine) RawScore() uint {
	var raw uint
	for _, ev := range e.history {
		raw += ev.Weight
	}
	return raw
}

// ApplyEnvironmentalAdjustment scales the accumulated score by factor,
// which must be the single environmental factor computed after all
// detectors have run. It may be called exactly once; a second call
// panics, since §3 requires the adjustment be applied exactly once.
func (e *Engine) ApplyEnvironmentalAdjustment(factor float64) {
	if e.adjusted {
		panic("engine: environmental adjustment already applied")
	}
	if factor < 0 {
		factor = 0
	}
	e.envFactor = factor
	e.score = uint(math.Floor(float64(e.score) * factor))
	e.adjusted = true
}

// Score returns the current score: pre-adjustment if
// ApplyEnvironmentalAdjustment has not yet run, post-adjustment after.
func (e *Engine) Score() uint {
	return e.score
}

// Adjusted reports whether ApplyEnvironmentalAdjustment has run.
func (e *Engine) Adjusted() bool {
	return e.adjusted
}

// Verdict score bands. Exported as vars (not const) so internal/config
// can override them from the policy file per the §9 Open Question on
// configurable thresholds; DeriveVerdict always reads the current
// values.
var (
	DeceptiveScore    uint = 90
	InstrumentedScore uint = 50
	SuspiciousScore   uint = 20
)

// DeriveVerdict computes the final Verdict from the (adjusted) score and
// any recorded contradictions. It does not mutate the Engine and may be
// called repeatedly.
func (e *Engine) DeriveVerdict() evidence.Verdict {
	switch {
	case len(e.contradictions) > 0 || e.score >= DeceptiveScore:
		return evidence.Deceptive
	case e.score >= InstrumentedScore:
		return evidence.Instrumented
	case e.score >= SuspiciousScore:
		return evidence.Suspicious
	default:
		return evidence.Clean
	}
}

// Summary renders a short human-readable description of the finalized
// engine state, used by the orchestrator's stdout diagnostics.
func (e *Engine) Summary() string {
	return fmt.Sprintf("score=%d evidence=%d contradictions=%d", e.score, len(e.history), len(e.contradictions))
}
