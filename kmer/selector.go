package kmer

import "sort"

// homopolymerQuotaMin and homopolymerQuotaMax bound the reserved slots for
// homopolymer k-mers regardless of N.
const (
	homopolymerQuotaMin = 4
	homopolymerQuotaMax = 20
)

// SelectTopN picks at most N k-mers from stats, reserving a bounded quota
// for homopolymers so that a handful of highly-repetitive motifs cannot
// crowd out every other candidate. Ties in observed count are broken by
// lexicographic order of the sequence, so the result is deterministic.
func SelectTopN(stats map[string]KmerStats, n int) map[string]KmerStats {
	if len(stats) <= n {
		out := make(map[string]KmerStats, len(stats))
		for k, v := range stats {
			out[k] = v
		}
		return out
	}

	var homo, other []KmerStats
	for _, s := range stats {
		if isHomopolymer(s.Sequence) {
			homo = append(homo, s)
		} else {
			other = append(other, s)
		}
	}
	sortByCountThenSeq(homo)
	sortByCountThenSeq(other)

	quota := n / 10
	if quota < homopolymerQuotaMin {
		quota = homopolymerQuotaMin
	}
	if quota > homopolymerQuotaMax {
		quota = homopolymerQuotaMax
	}

	takeHomo := quota
	if takeHomo > len(homo) {
		takeHomo = len(homo)
	}

	out := make(map[string]KmerStats, n)
	for _, s := range homo[:takeHomo] {
		out[s.Sequence] = s
	}
	remaining := n - takeHomo
	if remaining > len(other) {
		remaining = len(other)
	}
	for _, s := range other[:remaining] {
		out[s.Sequence] = s
	}
	return out
}

func sortByCountThenSeq(s []KmerStats) {
	sort.Slice(s, func(i, j int) bool {
		if s[i].Observed != s[j].Observed {
			return s[i].Observed > s[j].Observed
		}
		return s[i].Sequence < s[j].Sequence
	})
}
