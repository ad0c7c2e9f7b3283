package main

// motif-scan discovers statistically over-represented k-mers across a range
// of lengths in a FASTQ/FASTA input, prunes redundant substrings, and
// stitches survivors into longer consensus motifs via an overlap graph.

import (
	"flag"
	"fmt"
	"os"

	"github.com/grailbio/base/log"

	"github.com/grailbio/motifscan/encoding/seqio"
	"github.com/grailbio/motifscan/kmer"
)

var (
	output     = flag.String("output", "", "Output CSV report path (required)")
	kMin       = flag.Int("k-min", 8, "Minimum k-mer length")
	kMax       = flag.Int("k-max", 12, "Maximum k-mer length")
	kStep      = flag.Int("k-step", 2, "Step between k-mer lengths")
	topKmers   = flag.Int("top-kmers", 200, "Number of k-mers retained per length after selection")
	minCount   = flag.Int("min-count", 0, "Minimum observed count to retain a k-mer; 0 uses the z-score threshold instead")
	zThreshold = flag.Float64("z-score-threshold", 5.0, "Z-score threshold for the Poisson significance cutoff")
	detectRC   = flag.Bool("detect-reverse-complement", false, "Merge reverse-complement k-mer pairs in the report")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] <sequence-file>\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("exactly one positional argument (the sequence file path) is required")
	}
	inputPath := flag.Arg(0)

	cfg := &kmer.Config{
		Output:     *output,
		KMin:       *kMin,
		KMax:       *kMax,
		KStep:      *kStep,
		TopKmers:   *topKmers,
		MinCount:   *minCount,
		ZThreshold: *zThreshold,
		DetectRC:   *detectRC,
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("%v", err)
	}
	log.Printf("motif-scan: %s", cfg.FilterDescription())

	if err := run(inputPath, cfg); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(inputPath string, cfg *kmer.Config) error {
	reader, err := seqio.Open(inputPath)
	if err != nil {
		return err
	}
	defer reader.Close()

	records, err := reader.ReadAll()
	if err != nil {
		return err
	}
	log.Printf("motif-scan: read %d records from %s", len(records), inputPath)

	totalLength := kmer.TotalBases(records)
	byK := make(map[int]map[string]kmer.KmerStats)

	for _, k := range cfg.KValues() {
		counts := kmer.CountKmers(records, k)

		var threshold uint64
		if cfg.HasMinCount() {
			threshold = uint64(cfg.MinCount)
		} else {
			threshold = kmer.MinCountForZ(totalLength, k, cfg.ZThreshold)
		}

		stats := kmer.StatsForCounts(counts, totalLength, k, threshold)
		selected := kmer.SelectTopN(stats, cfg.TopKmers)
		byK[k] = selected
		log.Debug.Printf("motif-scan: k=%d observed=%d selected=%d threshold=%d", k, len(counts), len(selected), threshold)
	}

	kmer.FilterRedundant(byK)

	kMaxPresent := maxKey(byK)
	var assemblies []kmer.Assembly
	if kMaxPresent > 0 {
		assemblies = kmer.Assemble(byK[kMaxPresent], kMaxPresent)
	}

	rows := kmer.BuildReport(byK, assemblies, totalLength, cfg.DetectRC)
	return kmer.WriteReport(cfg, rows)
}

func maxKey(byK map[int]map[string]kmer.KmerStats) int {
	max := 0
	for k := range byK {
		if k > max {
			max = k
		}
	}
	return max
}
