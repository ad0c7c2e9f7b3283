package kmer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpectedCount(t *testing.T) {
	assert.InDelta(t, 93.0/65536.0, expectedCount(100, 8), 1e-9)
	assert.Equal(t, 0.0, expectedCount(5, 8))
}

func TestMinCountForZ(t *testing.T) {
	assert.Equal(t, uint64(0), minCountForZ(0, 5))
	got := minCountForZ(4, 2)
	assert.Equal(t, uint64(8), got) // ceil(4 + 2*2) = 8
}

// Property 5: significance monotonicity.
func TestNegLog10PMonotonicity(t *testing.T) {
	expected := 10.0
	prev := negLog10P(expected, expected)
	for observed := expected + 1; observed < expected+50; observed++ {
		cur := negLog10P(observed, expected)
		assert.GreaterOrEqual(t, cur, prev)
		prev = cur
	}
}

func TestSqrtDevianceClampedUnderExpected(t *testing.T) {
	assert.Equal(t, 0.0, sqrtDeviance(5, 10))
	assert.Equal(t, 0.0, sqrtDeviance(10, 10))
	assert.Greater(t, sqrtDeviance(20, 10), 0.0)
}

func TestLog2EnrichmentInfWhenExpectedZero(t *testing.T) {
	v := log2Enrichment(5, 0)
	assert.True(t, v > 1e300)
}

// S4 homopolymer predicate.
func TestIsHomopolymer(t *testing.T) {
	assert.True(t, isHomopolymer("AAAAAAAA"))
	assert.True(t, isHomopolymer("AAAAAAAT"))
	assert.False(t, isHomopolymer("ATCGATCG"))
	assert.False(t, isHomopolymer("ATACCACTGC"))
}
