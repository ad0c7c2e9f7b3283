package kmer

import "sort"

// Assembly is one greedily-extended consensus motif.
type Assembly struct {
	Sequence string
	Count    float64 // (sum of member k-mer counts) / path length
	Kmers    []string
}

type overlapEdge struct {
	to      string
	overlap int
}

// minOverlap is the minimum suffix/prefix overlap considered when wiring two
// k-mers of length k into the assembly graph.
func minOverlap(k int) int {
	m := k / 2
	if m < 3 {
		m = 3
	}
	return m
}

// Assemble builds a directed overlap graph over the k-mers in stats (all of
// the same length k_max) and greedily extends each unvisited start into a
// linear consensus path, per §4.9.
func Assemble(stats map[string]KmerStats, k int) []Assembly {
	kmers := make([]string, 0, len(stats))
	for s := range stats {
		kmers = append(kmers, s)
	}
	sort.Strings(kmers)

	edges, hasPredecessor := buildOverlapGraph(kmers, stats, k)

	starts := selectStarts(kmers, stats, hasPredecessor)

	processed := make(map[string]bool, len(kmers))
	var assemblies []Assembly
	for _, start := range starts {
		if processed[start] {
			continue
		}
		path := walk(start, edges, stats, processed)
		if len(path.Kmers) <= 1 {
			continue
		}
		assemblies = append(assemblies, path)
	}
	return assemblies
}

func buildOverlapGraph(kmers []string, stats map[string]KmerStats, k int) (map[string][]overlapEdge, map[string]bool) {
	edges := make(map[string][]overlapEdge, len(kmers))
	hasPredecessor := make(map[string]bool, len(kmers))
	minO := minOverlap(k)

	for _, a := range kmers {
		countA := float64(stats[a].Observed)
		for _, b := range kmers {
			if a == b {
				continue
			}
			countB := float64(stats[b].Observed)
			if countA == 0 {
				continue
			}
			ratio := countB / countA
			if ratio < 0.3 || ratio > 3.0 {
				continue
			}
			if o := bestOverlap(a, b, minO, k-1); o > 0 {
				edges[a] = append(edges[a], overlapEdge{to: b, overlap: o})
				hasPredecessor[b] = true
			}
		}
	}
	for a := range edges {
		sort.Slice(edges[a], func(i, j int) bool {
			ci, cj := stats[edges[a][i].to].Observed, stats[edges[a][j].to].Observed
			if ci != cj {
				return ci > cj
			}
			return edges[a][i].to < edges[a][j].to
		})
	}
	return edges, hasPredecessor
}

// bestOverlap finds the longest o in [lo, hi] such that the last o bytes of
// a equal the first o bytes of b.
func bestOverlap(a, b string, lo, hi int) int {
	if hi > len(a) {
		hi = len(a)
	}
	if hi > len(b) {
		hi = len(b)
	}
	for o := hi; o >= lo; o-- {
		if a[len(a)-o:] == b[:o] {
			return o
		}
	}
	return 0
}

// selectStarts returns nodes with no predecessor; if the graph has none
// (fully cyclic/connected), falls back to the 5 highest-count nodes.
func selectStarts(kmers []string, stats map[string]KmerStats, hasPredecessor map[string]bool) []string {
	var starts []string
	for _, s := range kmers {
		if !hasPredecessor[s] {
			starts = append(starts, s)
		}
	}
	if len(starts) == 0 {
		ranked := append([]string(nil), kmers...)
		sort.Slice(ranked, func(i, j int) bool {
			ci, cj := stats[ranked[i]].Observed, stats[ranked[j]].Observed
			if ci != cj {
				return ci > cj
			}
			return ranked[i] < ranked[j]
		})
		if len(ranked) > 5 {
			ranked = ranked[:5]
		}
		return ranked
	}
	sort.Slice(starts, func(i, j int) bool {
		ci, cj := stats[starts[i]].Observed, stats[starts[j]].Observed
		if ci != cj {
			return ci > cj
		}
		return starts[i] < starts[j]
	})
	return starts
}

// walk extends forward from start choosing, at each step, the unvisited
// successor with the highest count, stopping when none remains. Assembles
// the path sequence by appending each transition's non-overlapping suffix.
func walk(start string, edges map[string][]overlapEdge, stats map[string]KmerStats, processed map[string]bool) Assembly {
	seq := start
	kmers := []string{start}
	processed[start] = true
	sum := float64(stats[start].Observed)

	cur := start
	for {
		var next string
		var overlap int
		found := false
		for _, e := range edges[cur] {
			if !processed[e.to] {
				next, overlap, found = e.to, e.overlap, true
				break
			}
		}
		if !found {
			break
		}
		seq += next[overlap:]
		kmers = append(kmers, next)
		processed[next] = true
		sum += float64(stats[next].Observed)
		cur = next
	}
	return Assembly{Sequence: seq, Kmers: kmers, Count: sum / float64(len(kmers))}
}
