// Package kmer implements the enrichment and assembly engine: parallel
// k-mer counting, a Poisson-tail significance model, multi-length
// cross-filtering, a greedy overlap-graph assembler, optional
// reverse-complement merging, and CSV report output.
package kmer

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the validated tunables for a single enrichment run. All
// fields are set once from CLI flags and never mutated afterward; there is
// no global state anywhere in this package.
type Config struct {
	Output     string
	KMin       int
	KMax       int
	KStep      int
	TopKmers   int
	MinCount   int // <=0 means unset: fall back to the z-score threshold.
	ZThreshold float64
	DetectRC   bool
}

// KValues returns the ascending sequence {KMin, KMin+KStep, ...} intersected
// with [KMin, KMax].
func (c *Config) KValues() []int {
	var ks []int
	for k := c.KMin; k <= c.KMax; k += c.KStep {
		ks = append(ks, k)
	}
	return ks
}

// HasMinCount reports whether MinCount was explicitly supplied, overriding
// the z-score threshold.
func (c *Config) HasMinCount() bool {
	return c.MinCount > 0
}

// Validate checks entry-time invariants (spec.md §6) before any I/O is
// attempted. Returns an *Error with Kind InvalidConfig on failure.
func (c *Config) Validate() error {
	if c.KMin > c.KMax {
		return newErr(InvalidConfig, nil, "k-min (%d) must be <= k-max (%d)", c.KMin, c.KMax)
	}
	if c.KStep <= 0 {
		return newErr(InvalidConfig, nil, "k-step must be > 0, got %d", c.KStep)
	}
	if c.KStep > c.KMax-c.KMin && c.KMax != c.KMin {
		return newErr(InvalidConfig, nil, "k-step (%d) must be <= k-max - k-min (%d)", c.KStep, c.KMax-c.KMin)
	}
	if c.ZThreshold < 0.1 || c.ZThreshold > 20.0 {
		return newErr(InvalidConfig, nil, "z-score-threshold must be within [0.1, 20.0], got %v", c.ZThreshold)
	}
	if c.TopKmers <= 0 {
		return newErr(InvalidConfig, nil, "top-kmers must be > 0, got %d", c.TopKmers)
	}
	if c.Output == "" {
		return newErr(InvalidConfig, nil, "output path is required")
	}
	dir := filepath.Dir(c.Output)
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		return newErr(InvalidConfig, nil, "output parent directory %s does not exist", dir)
	}
	return nil
}

// FilterDescription renders the active selection/filter parameters for
// inclusion in diagnostic logging.
func (c *Config) FilterDescription() string {
	thresh := fmt.Sprintf("z=%.2f", c.ZThreshold)
	if c.HasMinCount() {
		thresh = fmt.Sprintf("min-count=%d", c.MinCount)
	}
	rc := "off"
	if c.DetectRC {
		rc = "on"
	}
	return fmt.Sprintf("k=[%d..%d step %d], top=%d, threshold=%s, rc-merge=%s",
		c.KMin, c.KMax, c.KStep, c.TopKmers, thresh, rc)
}
