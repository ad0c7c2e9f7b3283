package seqio

import (
	"bufio"
	"os"
	"strings"

	"github.com/grailbio/base/log"
	"github.com/grailbio/motifscan/encoding/seq"
	"github.com/pkg/errors"
)

// DetectFormat classifies path as FASTQ or FASTA. It first tries the
// filename, then falls back to reading the first non-empty byte of the file.
func DetectFormat(path string) (seq.Format, error) {
	lower := strings.ToLower(path)
	switch {
	case strings.Contains(lower, ".fastq"), strings.Contains(lower, ".fq"):
		return seq.FormatFASTQ, nil
	case strings.Contains(lower, ".fasta"), strings.Contains(lower, ".fna"), strings.Contains(lower, ".fa"):
		return seq.FormatFASTA, nil
	}
	log.Debug.Printf("seqio: %s has no recognized extension, probing first byte", path)
	return detectFromContent(path)
}

func detectFromContent(path string) (seq.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, newErr(IO, err, "opening %s to probe format", path)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, newErr(UnrecognizedFormat, errors.Wrap(err, "reading first byte"),
				"%s: could not determine format (file is empty or unreadable)", path)
		}
		switch b {
		case '\n', '\r':
			continue
		case '@':
			return seq.FormatFASTQ, nil
		case '>':
			return seq.FormatFASTA, nil
		default:
			return 0, newErr(UnrecognizedFormat, nil,
				"%s: first non-empty byte %q is neither '@' nor '>'", path, b)
		}
	}
}
