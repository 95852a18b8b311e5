package watchconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherSignalsReloadAfterDebouncedWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("int3_scatter_max_count = 10\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(path, 50*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	w.Start()
	defer w.Stop()

	time.Sleep(20 * time.Millisecond)
	if err := os.WriteFile(path, []byte("int3_scatter_max_count = 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-w.Reloads():
	case <-time.After(2 * time.Second):
		t.Fatal("did not receive a reload signal after a debounced write")
	}
}

func TestWatcherIgnoresUnrelatedFilesInSameDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(path, 50*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	w.Start()
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("noise"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-w.Reloads():
		t.Fatal("reload signaled for an unrelated file write")
	case <-time.After(300 * time.Millisecond):
	}
}
