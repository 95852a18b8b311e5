package audit

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"antiprobe/internal/evidence"
	"antiprobe/internal/orchestrator"
)

func TestRecordAndReadRun(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(filepath.Join(dir, "history.sqlite3"))
	require.NoError(t, err)
	defer store.Close()

	report := orchestrator.Report{
		Verdict:   evidence.Suspicious,
		Score:     20,
		RawScore:  25,
		EnvFactor: 0.8,
		History: []evidence.Evidence{
			{Source: evidence.SourceTiming, Weight: 25, Confidence: 0.65, Details: "elevated mean cycles"},
		},
		Contradictions: []evidence.Contradiction{
			{A: evidence.SourceTiming, B: evidence.SourceEnvironment, Reason: "test reason"},
		},
	}

	require.NoError(t, store.RecordRun("run-1", "host-abc", time.Unix(1000, 0), report))

	runs, err := store.RecentRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-1", runs[0].RunID)
	assert.Equal(t, "Suspicious", runs[0].Verdict)
	assert.EqualValues(t, 20, runs[0].Score)
}

func TestRecordRunRejectsDuplicateID(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(filepath.Join(dir, "history.sqlite3"))
	require.NoError(t, err)
	defer store.Close()

	report := orchestrator.Report{Verdict: evidence.Clean, EnvFactor: 1.0}
	require.NoError(t, store.RecordRun("dup", "host", time.Unix(0, 0), report))
	assert.Error(t, store.RecordRun("dup", "host", time.Unix(0, 0), report),
		"expected duplicate run_id to be rejected")
}

func TestHostIDStableAcrossCalls(t *testing.T) {
	id1, err := HostID()
	require.NoError(t, err)
	id2, err := HostID()
	require.NoError(t, err)
	assert.Equal(t, id1, id2, "HostID not stable across calls")
	assert.Len(t, id1, 32, "expected 32-char hex host id")
}
