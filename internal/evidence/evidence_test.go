package evidence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerdictOrdering(t *testing.T) {
	assert.True(t, Clean < Suspicious && Suspicious < Instrumented && Instrumented < Deceptive,
		"verdict ordinal ordering broken")
}

func TestVerdictExitCode(t *testing.T) {
	cases := map[Verdict]int{
		Clean:        0,
		Suspicious:   10,
		Instrumented: 20,
		Deceptive:    30,
	}
	for v, want := range cases {
		assert.Equal(t, want, v.ExitCode(), "%s.ExitCode()", v)
	}
}

func TestSourceStringKnown(t *testing.T) {
	for s := SourcePtrace; s <= SourceEbpfCompare; s++ {
		assert.NotEqual(t, "Unknown", s.String(), "Source(%d) stringified as Unknown", s)
	}
}

func TestMaxWeightCoversAllSources(t *testing.T) {
	for s := SourcePtrace; s <= SourceEbpfCompare; s++ {
		_, ok := MaxWeight[s]
		assert.True(t, ok, "MaxWeight missing entry for %s", s)
	}
}
