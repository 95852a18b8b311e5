package detectors

import (
	"os"
	"path/filepath"
	"testing"
)

func writeStatusFixture(t *testing.T, tracerPid string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "status")
	content := "Name:\tfixture\nState:\tR (running)\nTracerPid:\t" + tracerPid + "\nUid:\t0\t0\t0\t0\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadTracerPidZero(t *testing.T) {
	path := writeStatusFixture(t, "0")
	pid, err := readTracerPid(path)
	if err != nil {
		t.Fatal(err)
	}
	if pid != 0 {
		t.Fatalf("readTracerPid = %d, want 0", pid)
	}
}

func TestReadTracerPidNonZero(t *testing.T) {
	path := writeStatusFixture(t, "1337")
	pid, err := readTracerPid(path)
	if err != nil {
		t.Fatal(err)
	}
	if pid != 1337 {
		t.Fatalf("readTracerPid = %d, want 1337", pid)
	}
}

func TestReadTracerPidMissingFile(t *testing.T) {
	if _, err := readTracerPid("/nonexistent/status"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
