package kmer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func statsFor(seq string, observed uint64) KmerStats {
	return newKmerStats(seq, observed, 1.0)
}

func TestSelectTopNUnderLimit(t *testing.T) {
	in := map[string]KmerStats{
		"AAAA": statsFor("AAAA", 10),
		"CCCC": statsFor("CCCC", 5),
	}
	out := SelectTopN(in, 5)
	assert.Len(t, out, 2)
}

func TestSelectTopNReservesHomopolymerQuota(t *testing.T) {
	in := make(map[string]KmerStats)
	// 30 homopolymers, all beating the 20 "others" on count.
	for i := 0; i < 30; i++ {
		seq := homopolymerSeq(8, i)
		in[seq] = statsFor(seq, uint64(1000-i))
	}
	for i := 0; i < 20; i++ {
		seq := diverseSeq(8, i)
		in[seq] = statsFor(seq, uint64(500-i))
	}
	out := SelectTopN(in, 20)
	assert.Len(t, out, 20)

	homoCount, otherCount := 0, 0
	for s := range out {
		if isHomopolymer(s) {
			homoCount++
		} else {
			otherCount++
		}
	}
	// quota = clamp(20/10, 4, 20) = 4
	assert.Equal(t, 4, homoCount)
	assert.Equal(t, 16, otherCount)
}

func homopolymerSeq(k, variant int) string {
	b := make([]byte, k)
	for i := range b {
		b[i] = 'A'
	}
	b[0] = byte('B' + variant) // distinct first byte per variant so each seq is unique; the 7 trailing A's keep it a homopolymer
	return string(b)
}

func diverseSeq(k, variant int) string {
	bases := []byte{'A', 'C', 'G', 'T'}
	b := make([]byte, k)
	for i := range b {
		b[i] = bases[(i+variant)%4]
	}
	b[0] = byte('a' + variant%26)
	return string(b)
}
