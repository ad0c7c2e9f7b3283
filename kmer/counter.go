package kmer

import (
	"sync"

	"blainsmith.com/go/seahash"
	"github.com/grailbio/base/traverse"

	"github.com/grailbio/motifscan/encoding/seq"
)

// shardCount is the number of independent count-map shards used to reduce
// lock contention during the parallel merge. Each k-mer is routed to a
// shard deterministically by seahash so runs are reproducible regardless of
// goroutine scheduling order.
const shardCount = 32

type countShard struct {
	mu     sync.Mutex
	counts map[string]uint64
}

func newCountShards() []*countShard {
	shards := make([]*countShard, shardCount)
	for i := range shards {
		shards[i] = &countShard{counts: make(map[string]uint64)}
	}
	return shards
}

func shardFor(shards []*countShard, kmer string) *countShard {
	h := seahash.Sum64([]byte(kmer))
	return shards[h%uint64(len(shards))]
}

// CountKmers tallies every length-k window across records in parallel. The
// work-stealing split is over records first, then the sliding window within
// a record is swept sequentially by the worker that owns that record.
// Partial per-record tallies are merged into shared shards via an
// associative, order-independent reduction, so the result is identical to a
// single-threaded scan regardless of scheduling.
func CountKmers(records []*seq.Record, k int) map[string]uint64 {
	if k <= 0 {
		return map[string]uint64{}
	}
	shards := newCountShards()

	traverse.Each(len(records), func(i int) error { // nolint: errcheck
		local := countWindowsInRecord(records[i].Seq(), k)
		for kmer, n := range local {
			shard := shardFor(shards, kmer)
			shard.mu.Lock()
			shard.counts[kmer] += n
			shard.mu.Unlock()
		}
		return nil
	})

	merged := make(map[string]uint64)
	for _, shard := range shards {
		for kmer, n := range shard.counts {
			merged[kmer] += n
		}
	}
	return merged
}

// countWindowsInRecord slides a length-k window over seqBytes, counting
// every occurrence as a separate observation.
func countWindowsInRecord(seqBytes []byte, k int) map[string]uint64 {
	counts := make(map[string]uint64)
	if len(seqBytes) < k {
		return counts
	}
	for i := 0; i+k <= len(seqBytes); i++ {
		counts[string(seqBytes[i:i+k])]++
	}
	return counts
}

// TotalBases returns the sum of sequence lengths across records, the
// total_length term feeding expectedCount.
func TotalBases(records []*seq.Record) int {
	total := 0
	for _, r := range records {
		total += len(r.Seq())
	}
	return total
}

// StatsForCounts converts surviving (kmer, count) pairs into KmerStats,
// retaining only those meeting minCount.
func StatsForCounts(counts map[string]uint64, totalLength, k int, minCount uint64) map[string]KmerStats {
	expected := expectedCount(totalLength, k)
	out := make(map[string]KmerStats)
	for kmer, observed := range counts {
		if observed < minCount {
			continue
		}
		out[kmer] = newKmerStats(kmer, observed, expected)
	}
	return out
}
