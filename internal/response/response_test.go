package response

import (
	"testing"

	"antiprobe/internal/evidence"
)

func TestDefaultPolicyDispatchesNoopEverywhere(t *testing.T) {
	p := NewPolicy()
	for _, v := range []evidence.Verdict{evidence.Clean, evidence.Suspicious, evidence.Instrumented, evidence.Deceptive} {
		// Must not panic and must be runnable.
		p.Dispatch(v).Run()
	}
}

func TestCleanAndSuspiciousNeverRunCustomAction(t *testing.T) {
	ran := false
	p := NewPolicy().
		WithInstrumented(ActionFunc(func() { ran = true })).
		WithDeceptive(ActionFunc(func() { ran = true }))

	p.Dispatch(evidence.Clean).Run()
	p.Dispatch(evidence.Suspicious).Run()
	if ran {
		t.Fatal("Clean/Suspicious dispatched a custom action")
	}
}

func TestDeceptiveDispatchesConfiguredAction(t *testing.T) {
	ran := false
	p := NewPolicy().WithDeceptive(ActionFunc(func() { ran = true }))
	p.Dispatch(evidence.Deceptive).Run()
	if !ran {
		t.Fatal("Deceptive verdict did not run the configured action")
	}
}
