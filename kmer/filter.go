package kmer

import (
	"sync"

	farm "github.com/dgryski/go-farm"
	"github.com/grailbio/base/traverse"
)

// dominanceRatio is the minimum count(L)/count(s) required for a longer
// k-mer L to absorb a shorter k-mer s as redundant.
const dominanceRatio = 0.8

// substringIndex maps a short k-mer sequence to the highest observed count
// among all longer k-mers it appears in as a contiguous substring. Entries
// live in maps sharded by farm fingerprint of the substring; lookups go
// straight to the owning shard, and the shards are never merged into one
// map. This is package-level, not shared code with the counter's shards,
// since the two serve different key spaces.
type substringIndex struct {
	shards []map[string]uint64
}

const indexShardCount = 32

func newSubstringIndex() *substringIndex {
	shards := make([]map[string]uint64, indexShardCount)
	for i := range shards {
		shards[i] = make(map[string]uint64)
	}
	return &substringIndex{shards: shards}
}

func (idx *substringIndex) shardFor(s string) map[string]uint64 {
	h := farm.Fingerprint64([]byte(s))
	return idx.shards[h%uint64(len(idx.shards))]
}

func (idx *substringIndex) observe(s string, count uint64) {
	shard := idx.shardFor(s)
	if cur, ok := shard[s]; !ok || count > cur {
		shard[s] = count
	}
}

func (idx *substringIndex) maxCount(s string) (uint64, bool) {
	shard := idx.shardFor(s)
	c, ok := shard[s]
	return c, ok
}

// buildSubstringIndex enumerates every contiguous length-shortK substring of
// every k-mer in longer, recording the maximum longer-k-mer count each
// substring is covered by. Runs in parallel across the longer k-mers; the
// reduction into shard maps is associative so merge order cannot affect the
// result.
func buildSubstringIndex(longer map[string]KmerStats, shortK int) *substringIndex {
	idx := newSubstringIndex()
	keys := make([]string, 0, len(longer))
	for k := range longer {
		keys = append(keys, k)
	}

	var mu sync.Mutex
	traverse.Each(len(keys), func(i int) error { // nolint: errcheck
		L := keys[i]
		count := longer[L].Observed
		if len(L) < shortK {
			return nil
		}
		local := make(map[string]uint64)
		for off := 0; off+shortK <= len(L); off++ {
			s := L[off : off+shortK]
			if cur, ok := local[s]; !ok || count > cur {
				local[s] = count
			}
		}
		mu.Lock()
		for s, c := range local {
			idx.observe(s, c)
		}
		mu.Unlock()
		return nil
	})
	return idx
}

// FilterRedundant removes short k-mers dominated by a longer, more frequent
// k-mer they are a substring of. byK maps k -> selected kmer -> stats;
// filtering proceeds in ascending k order, excluding the largest k, and each
// short-k map is read against all longer-k maps immutably before any
// mutation happens, per §4.8.
func FilterRedundant(byK map[int]map[string]KmerStats) {
	ks := sortedKeys(byK)
	if len(ks) <= 1 {
		return
	}
	for i, k := range ks[:len(ks)-1] {
		keep := filterOneLevel(byK, ks[i+1:], k)
		byK[k] = keep
	}
}

func filterOneLevel(byK map[int]map[string]KmerStats, longerKs []int, shortK int) map[string]KmerStats {
	short := byK[shortK]
	if len(short) == 0 {
		return short
	}

	indexes := make([]*substringIndex, len(longerKs))
	for i, lk := range longerKs {
		indexes[i] = buildSubstringIndex(byK[lk], shortK)
	}

	shortKeys := make([]string, 0, len(short))
	for s := range short {
		shortKeys = append(shortKeys, s)
	}
	removed := make([]bool, len(shortKeys))

	traverse.Each(len(shortKeys), func(i int) error { // nolint: errcheck
		s := shortKeys[i]
		countS := short[s].Observed
		for _, idx := range indexes {
			if countL, ok := idx.maxCount(s); ok {
				if float64(countL)/float64(countS) >= dominanceRatio {
					removed[i] = true
					return nil
				}
			}
		}
		return nil
	})

	kept := make(map[string]KmerStats)
	for i, s := range shortKeys {
		if !removed[i] {
			kept[s] = short[s]
		}
	}
	return kept
}

func sortedKeys(byK map[int]map[string]KmerStats) []int {
	ks := make([]int, 0, len(byK))
	for k := range byK {
		ks = append(ks, k)
	}
	for i := 1; i < len(ks); i++ {
		for j := i; j > 0 && ks[j-1] > ks[j]; j-- {
			ks[j-1], ks[j] = ks[j], ks[j-1]
		}
	}
	return ks
}
