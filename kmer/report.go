package kmer

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/grailbio/base/log"
	"gonum.org/v1/gonum/stat"
)

var reportHeader = []string{
	"sequence", "length", "estimated_count", "source_k", "sqrt_deviance", "log_fold_enrichment",
}

type reportRow struct {
	sequence     string
	length       int
	estimated    string
	sourceK      string
	sqrtDeviance float64
	logFold      float64
}

// BuildReport composes the ranked row list: assembled sequences first, then
// surviving k-mers from k_max down to k_min (after RC merging, if enabled),
// omitting any k-mer that is a substring of an assembled sequence (or, with
// RC merging on, of an assembly's reverse complement).
func BuildReport(byK map[int]map[string]KmerStats, assemblies []Assembly, totalLength int, detectRC bool) []reportRow {
	var rows []reportRow
	assembledSeqs := make([]string, 0, len(assemblies))
	for _, a := range assemblies {
		assembledSeqs = append(assembledSeqs, a.Sequence)
		if detectRC {
			assembledSeqs = append(assembledSeqs, ReverseComplement(a.Sequence))
		}
		stats := newKmerStats(a.Sequence, uint64(math.Round(a.Count)), expectedCount(totalLength, len(a.Sequence)))
		rows = append(rows, reportRow{
			sequence:     a.Sequence,
			length:       len(a.Sequence),
			estimated:    fmt.Sprintf("%.0f", a.Count),
			sourceK:      fmt.Sprintf("assembled from k=%d", sourceKOfAssemblies(byK)),
			sqrtDeviance: stats.SqrtDeviance,
			logFold:      stats.Log2Enrichment,
		})
	}

	ks := sortedKeys(byK)
	for i := len(ks) - 1; i >= 0; i-- {
		k := ks[i]
		merged := MergeReverseComplements(observedCounts(byK[k]), detectRC)
		for _, m := range merged {
			if isSubstringOfAny(m.CanonicalSeq, assembledSeqs) {
				continue
			}
			exp := expectedCount(totalLength, k)
			s := newKmerStats(m.CanonicalSeq, m.TotalCount, exp)
			rows = append(rows, reportRow{
				sequence:     m.CanonicalSeq,
				length:       len(m.CanonicalSeq),
				estimated:    formatEstimate(m),
				sourceK:      fmt.Sprintf("%d", k),
				sqrtDeviance: s.SqrtDeviance,
				logFold:      s.Log2Enrichment,
			})
		}
	}

	stableSortByDeviance(rows)
	return rows
}

func sourceKOfAssemblies(byK map[int]map[string]KmerStats) int {
	ks := sortedKeys(byK)
	if len(ks) == 0 {
		return 0
	}
	return ks[len(ks)-1]
}

func observedCounts(stats map[string]KmerStats) map[string]uint64 {
	out := make(map[string]uint64, len(stats))
	for s, v := range stats {
		out[s] = v.Observed
	}
	return out
}

func formatEstimate(m MergeResult) string {
	if !m.Merged {
		return fmt.Sprintf("%d", m.ForwardCount)
	}
	return fmt.Sprintf("%d (+%d-%d)", m.TotalCount, m.ForwardCount, m.ReverseCount)
}

func isSubstringOfAny(s string, haystacks []string) bool {
	for _, h := range haystacks {
		if strings.Contains(h, s) {
			return true
		}
	}
	return false
}

// stableSortByDeviance sorts descending by sqrt_deviance, leaving NaN
// entries (which compare false in every direction) in their input order.
func stableSortByDeviance(rows []reportRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].sqrtDeviance > rows[j].sqrtDeviance
	})
}

func formatLogFold(v float64) string {
	if math.IsInf(v, 1) {
		return "inf"
	}
	if math.IsInf(v, -1) {
		return "-inf"
	}
	return fmt.Sprintf("%.1f", v)
}

// WriteReport writes rows as CSV to cfg.Output. It writes to a fresh
// temporary file in the destination directory and renames it into place
// only after a successful flush, so a write failure never leaves a partial
// file at the destination path.
func WriteReport(cfg *Config, rows []reportRow) error {
	dir := filepath.Dir(cfg.Output)
	tmp, err := os.CreateTemp(dir, ".motif-scan-report-*.csv.tmp")
	if err != nil {
		return newErr(IO, err, "creating temp report file in %s", dir)
	}
	tmpPath := tmp.Name()
	succeeded := false
	defer func() {
		tmp.Close()
		if !succeeded {
			if rmErr := os.Remove(tmpPath); rmErr != nil && !os.IsNotExist(rmErr) {
				log.Error.Printf("kmer: failed to remove incomplete report temp file %s: %v", tmpPath, rmErr)
			}
		}
	}()

	w := csv.NewWriter(tmp)
	if err := w.Write(reportHeader); err != nil {
		return newErr(IO, err, "writing report header")
	}
	for _, r := range rows {
		rec := []string{
			r.sequence,
			fmt.Sprintf("%d", r.length),
			r.estimated,
			r.sourceK,
			fmt.Sprintf("%.4f", r.sqrtDeviance),
			formatLogFold(r.logFold),
		}
		if err := w.Write(rec); err != nil {
			return newErr(IO, err, "writing report row for %s", r.sequence)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return newErr(IO, err, "flushing report")
	}
	if err := tmp.Close(); err != nil {
		return newErr(IO, err, "closing temp report file")
	}
	if err := os.Rename(tmpPath, cfg.Output); err != nil {
		return newErr(IO, err, "renaming report into place at %s", cfg.Output)
	}
	succeeded = true

	var deviances []float64
	for _, r := range rows {
		if !math.IsInf(r.sqrtDeviance, 0) {
			deviances = append(deviances, r.sqrtDeviance)
		}
	}
	if len(deviances) > 0 {
		mean, stddev := stat.MeanStdDev(deviances, nil)
		log.Printf("kmer: wrote %d rows to %s (sqrt_deviance mean=%.3f stddev=%.3f)", len(rows), cfg.Output, mean, stddev)
	} else {
		log.Printf("kmer: wrote %d rows to %s", len(rows), cfg.Output)
	}
	return nil
}
