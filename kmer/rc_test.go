package kmer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReverseComplement(t *testing.T) {
	assert.Equal(t, "ACGT", ReverseComplement("ACGT"))
	assert.Equal(t, "TTTT", ReverseComplement("AAAA"))
	assert.Equal(t, "CCGT", ReverseComplement("ACGG"))
}

// Property 7: RC canonicalisation.
func TestCanonicalFormStable(t *testing.T) {
	seqs := []string{"ACGGT", "GATTACA", "TTTTAAA", "ACGT"}
	for _, s := range seqs {
		canonical := func(x string) string {
			rc := ReverseComplement(x)
			if rc < x {
				return rc
			}
			return x
		}
		assert.Equal(t, canonical(s), canonical(ReverseComplement(s)))
	}
}

// S5 RC merge.
func TestMergeReverseComplementsPalindrome(t *testing.T) {
	counts := map[string]uint64{"ACGT": 5}
	results := MergeReverseComplements(counts, true)
	require1Result(t, results)
	assert.False(t, results[0].Merged)
	assert.Equal(t, "ACGT", results[0].CanonicalSeq)
	assert.Equal(t, uint64(5), results[0].ForwardCount)
}

func TestMergeReverseComplementsMerged(t *testing.T) {
	counts := map[string]uint64{"ACGG": 5, "CCGT": 3}
	results := MergeReverseComplements(counts, true)
	require1Result(t, results)
	m := results[0]
	assert.True(t, m.Merged)
	assert.Equal(t, "ACGG", m.CanonicalSeq)
	assert.Equal(t, uint64(5), m.ForwardCount)
	assert.Equal(t, uint64(3), m.ReverseCount)
	assert.Equal(t, uint64(8), m.TotalCount)
}

func TestMergeReverseComplementsOff(t *testing.T) {
	counts := map[string]uint64{"ACGG": 5, "CCGT": 3}
	results := MergeReverseComplements(counts, false)
	assert.Len(t, results, 2)
	for _, r := range results {
		assert.False(t, r.Merged)
	}
}

func require1Result(t *testing.T, results []MergeResult) {
	t.Helper()
	if len(results) != 1 {
		t.Fatalf("expected exactly 1 result, got %d", len(results))
	}
}
