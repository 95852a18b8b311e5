package orchestrator

import (
	"bytes"
	"strings"
	"testing"

	"antiprobe/internal/evidence"
)

func TestRunProducesFinalizedReport(t *testing.T) {
	r := Run()
	if r.Verdict < evidence.Clean || r.Verdict > evidence.Deceptive {
		t.Fatalf("Verdict out of range: %v", r.Verdict)
	}
	if r.EnvFactor < 0.30 || r.EnvFactor > 1.00 {
		t.Fatalf("EnvFactor out of clamp range: %v", r.EnvFactor)
	}
	if r.Score > r.RawScore {
		t.Fatalf("adjusted score %d exceeds raw score %d", r.Score, r.RawScore)
	}
}

func TestWriteStdoutContractLines(t *testing.T) {
	r := Run()
	var buf bytes.Buffer
	WriteStdout(&buf, r)

	out := buf.String()
	lines := strings.Split(out, "\n")
	if !strings.HasPrefix(lines[0], "Final Verdict: ") {
		t.Fatalf("first line %q does not match the stable contract", lines[0])
	}
	if !strings.HasPrefix(lines[1], "Cumulative Score: ") {
		t.Fatalf("second line %q does not match the stable contract", lines[1])
	}
}

func TestExitCodeMatchesVerdict(t *testing.T) {
	r := Run()
	if ExitCode(r) != r.Verdict.ExitCode() {
		t.Fatal("ExitCode(r) != r.Verdict.ExitCode()")
	}
}
