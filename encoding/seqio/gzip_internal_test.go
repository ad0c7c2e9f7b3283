package seqio

import (
	"testing"

	"github.com/grailbio/motifscan/encoding/seq"
	"github.com/stretchr/testify/assert"
)

func TestLastFASTQBoundary(t *testing.T) {
	data := []byte("@a\nAC\n+\nII\n@b\nAC\n+\nI")
	// Only the first record (4 lines) is complete; the second is cut mid quality line.
	got := lastFASTQBoundary(data)
	assert.Equal(t, "@a\nAC\n+\nII\n", string(data[:got]))
}

func TestLastFASTABoundary(t *testing.T) {
	data := []byte(">a\nACGT\n>b\nACG")
	got := lastFASTABoundary(data)
	assert.Equal(t, ">a\nACGT\n", string(data[:got]))
}

func TestLastRecordBoundaryDispatch(t *testing.T) {
	fq := []byte("@a\nAC\n+\nII\n")
	assert.Equal(t, len(fq), lastRecordBoundary(fq, seq.FormatFASTQ))
	fa := []byte(">a\nACGT\n")
	assert.Equal(t, len(fa), lastRecordBoundary(append(fa, []byte(">b\nAC")...), seq.FormatFASTA))
}
