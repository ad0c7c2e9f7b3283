package kmer

// complementTable maps each byte to its complement under reverse-complement,
// following the source's 256-entry lookup-table style (fusion/kmer.go):
// A<->T and G<->C, case preserved; any other byte (including ambiguity
// codes) passes through unchanged.
var complementTable [256]byte

func init() {
	for i := 0; i < 256; i++ {
		complementTable[i] = byte(i)
	}
	complementTable['A'] = 'T'
	complementTable['a'] = 't'
	complementTable['T'] = 'A'
	complementTable['t'] = 'a'
	complementTable['G'] = 'C'
	complementTable['g'] = 'c'
	complementTable['C'] = 'G'
	complementTable['c'] = 'g'
}

// ReverseComplement reverses s and complements each base.
func ReverseComplement(s string) string {
	n := len(s)
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[n-1-i] = complementTable[s[i]]
	}
	return string(out)
}

// MergeResult is either a single observation or a canonicalised pair of a
// sequence and its reverse complement.
type MergeResult struct {
	CanonicalSeq string
	ForwardCount uint64
	ReverseCount uint64
	TotalCount   uint64
	Merged       bool // false => single; ForwardCount holds the lone count.
}

// MergeReverseComplements canonicalises reverse-complement duplicates among
// counts. When detectRC is false every entry passes through as a single. A
// palindrome (s == rc(s)) always emits as a single, even when detectRC is
// on, since there is nothing to merge it with.
func MergeReverseComplements(counts map[string]uint64, detectRC bool) []MergeResult {
	if !detectRC {
		out := make([]MergeResult, 0, len(counts))
		for s, c := range counts {
			out = append(out, MergeResult{CanonicalSeq: s, ForwardCount: c, TotalCount: c})
		}
		return out
	}

	processed := make(map[string]bool, len(counts))
	var out []MergeResult
	for s, c := range counts {
		if processed[s] {
			continue
		}
		rc := ReverseComplement(s)
		if rc == s {
			processed[s] = true
			out = append(out, MergeResult{CanonicalSeq: s, ForwardCount: c, TotalCount: c})
			continue
		}
		rcCount, rcPresent := counts[rc]
		if !rcPresent || processed[rc] {
			processed[s] = true
			out = append(out, MergeResult{CanonicalSeq: s, ForwardCount: c, TotalCount: c})
			continue
		}
		canonical := s
		fwd, rev := c, rcCount
		if rc < s {
			canonical = rc
			fwd, rev = rcCount, c
		}
		processed[s] = true
		processed[rc] = true
		out = append(out, MergeResult{
			CanonicalSeq: canonical,
			ForwardCount: fwd,
			ReverseCount: rev,
			TotalCount:   fwd + rev,
			Merged:       true,
		})
	}
	return out
}
