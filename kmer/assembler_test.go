package kmer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// S6 assembly linear.
func TestAssembleLinear(t *testing.T) {
	stats := map[string]KmerStats{
		"ACGT": statsFor("ACGT", 10),
		"CGTA": statsFor("CGTA", 10),
		"GTAC": statsFor("GTAC", 10),
	}
	assemblies := Assemble(stats, 4)
	require.Len(t, assemblies, 1)
	assert.Equal(t, "ACGTAC", assemblies[0].Sequence)
	assert.InDelta(t, 10.0, assemblies[0].Count, 1e-9)
}

func TestAssembleSingletonsDiscarded(t *testing.T) {
	stats := map[string]KmerStats{
		"AAAA": statsFor("AAAA", 10),
		"CCCC": statsFor("CCCC", 5),
	}
	assemblies := Assemble(stats, 4)
	assert.Empty(t, assemblies)
}

// Property 8: assembler acyclicity.
func TestAssembleAcyclic(t *testing.T) {
	stats := map[string]KmerStats{
		"ACGT": statsFor("ACGT", 10),
		"CGTA": statsFor("CGTA", 10),
		"GTAC": statsFor("GTAC", 10),
		"TACG": statsFor("TACG", 10), // would cycle back to ACGT
	}
	assemblies := Assemble(stats, 4)
	for _, a := range assemblies {
		seen := make(map[string]bool)
		for _, km := range a.Kmers {
			assert.False(t, seen[km], "k-mer %s repeated in assembly %s", km, a.Sequence)
			seen[km] = true
		}
	}
}

func TestBestOverlap(t *testing.T) {
	assert.Equal(t, 3, bestOverlap("ACGT", "CGTA", 2, 3))
	assert.Equal(t, 0, bestOverlap("AAAA", "CCCC", 2, 3))
}

func TestMinOverlap(t *testing.T) {
	assert.Equal(t, 4, minOverlap(8))
	assert.Equal(t, 3, minOverlap(5))
	assert.Equal(t, 3, minOverlap(4))
}
