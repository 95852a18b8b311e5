package detectors

import "testing"

func TestClassifyLongRunIsCluster(t *testing.T) {
	hits := make([]int, 0, 20)
	for i := 0; i < 20; i++ {
		hits = append(hits, i)
	}
	clusters, scattered := classify(hits)
	if clusters != 1 {
		t.Fatalf("clusters = %d, want 1", clusters)
	}
	if len(scattered) != 0 {
		t.Fatalf("scattered = %v, want none", scattered)
	}
}

func TestClassifyIsolatedSingleByteIsScattered(t *testing.T) {
	hits := []int{10, 500, 1000}
	clusters, scattered := classify(hits)
	if clusters != 0 {
		t.Fatalf("clusters = %d, want 0", clusters)
	}
	if len(scattered) != 3 {
		t.Fatalf("scattered = %v, want 3 entries", scattered)
	}
}

func TestClassifyMixedRunAndScatter(t *testing.T) {
	var hits []int
	for i := 0; i < 16; i++ {
		hits = append(hits, i) // one 16-byte cluster
	}
	hits = append(hits, 2000) // far isolated byte
	clusters, scattered := classify(hits)
	if clusters != 1 {
		t.Fatalf("clusters = %d, want 1", clusters)
	}
	if len(scattered) != 1 {
		t.Fatalf("scattered = %v, want 1 entry", scattered)
	}
}

func TestClassifyShortRunBelowClusterMinNotCounted(t *testing.T) {
	hits := []int{100, 101, 102} // run of 3, below the 16-byte cluster floor
	clusters, scattered := classify(hits)
	if clusters != 0 {
		t.Fatalf("clusters = %d, want 0 (run too short)", clusters)
	}
	// Each byte in the run is within 64 bytes of its neighbor, so
	// none qualifies as isolated either.
	if len(scattered) != 0 {
		t.Fatalf("scattered = %v, want 0 (neighbors too close to be isolated)", scattered)
	}
}
