package kmer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// S3 substring filter simple.
func TestFilterRedundantSimple(t *testing.T) {
	byK := map[int]map[string]KmerStats{
		8: {"AAAAAAAA": statsFor("AAAAAAAA", 100)},
		9: {"AAAAAAAAA": statsFor("AAAAAAAAA", 90)},
	}
	FilterRedundant(byK)
	assert.Empty(t, byK[8])
	assert.Len(t, byK[9], 1)
}

func TestFilterRedundantBelowRatioSurvives(t *testing.T) {
	byK := map[int]map[string]KmerStats{
		8: {"AAAAAAAA": statsFor("AAAAAAAA", 100)},
		9: {"AAAAAAAAA": statsFor("AAAAAAAAA", 70)},
	}
	FilterRedundant(byK)
	assert.Len(t, byK[8], 1)
	assert.Len(t, byK[9], 1)
}

// Property 6: filter dominance.
func TestFilterDominanceProperty(t *testing.T) {
	byK := map[int]map[string]KmerStats{
		4: {"ACGT": statsFor("ACGT", 50)},
		6: {"GGACGT": statsFor("GGACGT", 45)},
	}
	FilterRedundant(byK)
	for k, m := range byK {
		if k == 6 {
			continue
		}
		for s, stat := range m {
			for k2, m2 := range byK {
				if k2 <= k {
					continue
				}
				for l, lstat := range m2 {
					if containsSubstring(l, s) {
						ratio := float64(lstat.Observed) / float64(stat.Observed)
						assert.Less(t, ratio, 0.8, "surviving %s should not be dominated by %s", s, l)
					}
				}
			}
		}
	}
}

func containsSubstring(haystack, needle string) bool {
	if len(needle) > len(haystack) {
		return false
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}
