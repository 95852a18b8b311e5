// Package response models the verdict-to-action seam as an external
// collaborator: Dispatch(Verdict) Action. The actual protected payload
// (what a Deceptive verdict should ultimately trigger) is out of
// scope; this package only wires the mapping (the process exit code is
// set by the orchestrator's ExitCode, not here), so a caller can plug
// in a real action without touching the detector/engine core.
package response

import "antiprobe/internal/evidence"

// Action is run by the caller once a verdict is finalized.
type Action interface {
	Run()
}

// ActionFunc adapts a plain function to Action.
type ActionFunc func()

func (f ActionFunc) Run() {
	if f != nil {
		f()
	}
}

// noop is the default Action for verdicts that don't warrant a response.
var noop = ActionFunc(nil)

// Policy maps a Verdict to the Action that should run for it. The
// zero Policy is all no-ops; callers assemble the Instrumented/
// Deceptive behavior they actually want via WithInstrumented and
// WithDeceptive.
type Policy struct {
	onInstrumented Action
	onDeceptive    Action
}

// NewPolicy returns a Policy where every verdict dispatches to a
// no-op Action.
func NewPolicy() *Policy {
	return &Policy{onInstrumented: noop, onDeceptive: noop}
}

// WithInstrumented sets the Action dispatched for an Instrumented verdict.
func (p *Policy) WithInstrumented(a Action) *Policy {
	p.onInstrumented = a
	return p
}

// WithDeceptive sets the Action dispatched for a Deceptive verdict.
func (p *Policy) WithDeceptive(a Action) *Policy {
	p.onDeceptive = a
	return p
}

// Dispatch returns the Action configured for v. Clean and Suspicious
// always dispatch to a no-op: only Instrumented and Deceptive carry a
// caller-supplied response in this policy.
func (p *Policy) Dispatch(v evidence.Verdict) Action {
	switch v {
	case evidence.Instrumented:
		if p.onInstrumented != nil {
			return p.onInstrumented
		}
	case evidence.Deceptive:
		if p.onDeceptive != nil {
			return p.onDeceptive
		}
	}
	return noop
}
