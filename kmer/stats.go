package kmer

import (
	"math"
)

// KmerStats holds the derived significance values for one observed k-mer.
// Immutable once constructed.
type KmerStats struct {
	Sequence       string
	Observed       uint64
	Expected       float64
	NegLog10P      float64
	SqrtDeviance   float64
	Log2Enrichment float64
}

// ExpectedCount is the exported form of expectedCount, used by callers that
// need expected(k) without a full KmerStats (e.g. picking a count
// threshold before counting).
func ExpectedCount(totalLength, k int) float64 {
	return expectedCount(totalLength, k)
}

// MinCountForZ returns the minimum observed count required to clear a
// z-score threshold Z at length k, given the dataset's total base count.
func MinCountForZ(totalLength, k int, z float64) uint64 {
	return minCountForZ(expectedCount(totalLength, k), z)
}

// expectedCount returns the count a k-mer of length k would have under a
// uniform i.i.d. base model, given the total number of bases available to
// slide a length-k window over.
func expectedCount(totalLength, k int) float64 {
	n := totalLength - k + 1
	if n < 0 {
		n = 0
	}
	return float64(n) / math.Pow(4, float64(k))
}

// minCountForZ returns the minimum observed count required to clear a
// z-score threshold Z against a Poisson(expected) null, per the variance
// approximation sqrt(expected).
func minCountForZ(expected, z float64) uint64 {
	raw := expected + z*math.Sqrt(expected)
	if raw < 0 {
		raw = 0
	}
	return uint64(math.Ceil(raw))
}

// newKmerStats derives the full significance record for one (sequence,
// observed) pair against a fixed expected count.
func newKmerStats(sequence string, observed uint64, expected float64) KmerStats {
	obs := float64(observed)
	return KmerStats{
		Sequence:       sequence,
		Observed:       observed,
		Expected:       expected,
		NegLog10P:      negLog10P(obs, expected),
		SqrtDeviance:   sqrtDeviance(obs, expected),
		Log2Enrichment: log2Enrichment(obs, expected),
	}
}

// negLog10P computes the closed-form Poisson upper-tail significance: the
// large-deviation rate function h(x) = x*ln(x) - x + 1 scaled by expected
// and converted from nats to log10.
func negLog10P(observed, expected float64) float64 {
	if expected == 0 {
		if observed == 0 {
			return 0
		}
		return math.Inf(1)
	}
	x := observed / expected
	h := x*math.Log(x) - x + 1
	return expected * h / math.Ln10
}

// sqrtDeviance is the square root of twice the Poisson log-likelihood ratio
// of observed vs expected, clamped to 0 when observed does not exceed
// expected (i.e. not over-represented).
func sqrtDeviance(observed, expected float64) float64 {
	if observed <= expected || expected == 0 {
		return 0
	}
	dev := 2 * (observed*math.Log(observed/expected) - (observed - expected))
	if dev < 0 {
		dev = 0
	}
	return math.Sqrt(dev)
}

// log2Enrichment is log2(observed/expected), or +Inf when expected == 0 and
// observed > 0.
func log2Enrichment(observed, expected float64) float64 {
	if expected == 0 {
		if observed == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return math.Log2(observed / expected)
}

// homopolymerThreshold is floor(0.8*k).
func homopolymerThreshold(k int) int {
	return int(0.8 * float64(k))
}

// isHomopolymer reports whether seq's most frequent base among A/T/G/C
// (case-insensitive; other bytes ignored) accounts for at least
// floor(0.8*len(seq)) positions.
func isHomopolymer(seq string) bool {
	var counts [4]int
	for i := 0; i < len(seq); i++ {
		switch seq[i] {
		case 'A', 'a':
			counts[0]++
		case 'T', 't':
			counts[1]++
		case 'G', 'g':
			counts[2]++
		case 'C', 'c':
			counts[3]++
		}
	}
	max := 0
	for _, c := range counts {
		if c > max {
			max = c
		}
	}
	return max >= homopolymerThreshold(len(seq))
}
