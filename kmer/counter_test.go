package kmer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/grailbio/motifscan/encoding/seq"
)

func mkRecord(id, sequence string) *seq.Record {
	return &seq.Record{
		Format:   seq.FormatFASTA,
		ID:       id,
		SeqBytes: []byte(sequence),
	}
}

// Property 4: count conservation.
func TestCountKmersMatchesSequentialTally(t *testing.T) {
	records := []*seq.Record{
		mkRecord("r1", "ACGTACGTACGT"),
		mkRecord("r2", "TTTTACGTGGGG"),
		mkRecord("r3", "AC"),
		mkRecord("r4", "ACGTACGTACGTACGTACGT"),
	}
	k := 4

	got := CountKmers(records, k)

	want := make(map[string]uint64)
	for _, r := range records {
		s := r.Seq()
		for i := 0; i+k <= len(s); i++ {
			want[string(s[i:i+k])]++
		}
	}

	assert.Equal(t, want, got)
}

func TestCountKmersEmptyForShortRecords(t *testing.T) {
	records := []*seq.Record{mkRecord("r1", "AC")}
	got := CountKmers(records, 4)
	assert.Empty(t, got)
}

func TestTotalBases(t *testing.T) {
	records := []*seq.Record{mkRecord("r1", "ACGT"), mkRecord("r2", "AC")}
	assert.Equal(t, 6, TotalBases(records))
}

func TestStatsForCounts(t *testing.T) {
	counts := map[string]uint64{"AAAA": 10, "CCCC": 1}
	out := StatsForCounts(counts, 100, 4, 5)
	assert.Contains(t, out, "AAAA")
	assert.NotContains(t, out, "CCCC")
}
