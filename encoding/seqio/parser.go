package seqio

import (
	"bufio"
	"bytes"
	"io"

	"github.com/grailbio/motifscan/encoding/seq"
)

// parseFASTQRecord reads one 4-line FASTQ record from r, whose cursor is
// assumed to sit at a record boundary. It returns (nil, nil) at a clean EOF
// (nothing read yet). A partial record is a *BadRecord error.
func parseFASTQRecord(sr *seekableReader) (*seq.Record, error) {
	r := sr.br
	idLine, err := readLine(r)
	if err == io.EOF && len(idLine) == 0 {
		return nil, nil
	}
	if err != nil && err != io.EOF {
		return nil, newErr(IO, err, "reading FASTQ id line")
	}
	if len(idLine) == 0 || idLine[0] != '@' {
		return nil, newErr(BadRecord, nil, "FASTQ id line must start with '@', got %q", idLine)
	}

	seqLine, err := readLine(r)
	if err == io.EOF && len(seqLine) == 0 {
		return nil, newErr(BadRecord, nil, "FASTQ record %q truncated: missing sequence line", idLine)
	}
	if err != nil && err != io.EOF {
		return nil, newErr(IO, err, "reading FASTQ sequence line")
	}

	plusLine, err := readLine(r)
	if err == io.EOF && len(plusLine) == 0 {
		return nil, newErr(BadRecord, nil, "FASTQ record %q truncated: missing '+' separator line", idLine)
	}
	if err != nil && err != io.EOF {
		return nil, newErr(IO, err, "reading FASTQ separator line")
	}
	if len(plusLine) == 0 || plusLine[0] != '+' {
		return nil, newErr(BadRecord, nil, "FASTQ record %q: line 3 must start with '+', got %q", idLine, plusLine)
	}

	qualLine, err := readLine(r)
	if err == io.EOF && len(qualLine) == 0 {
		return nil, newErr(BadRecord, nil, "FASTQ record %q truncated: missing quality line", idLine)
	}
	if err != nil && err != io.EOF {
		return nil, newErr(IO, err, "reading FASTQ quality line")
	}

	id, desc, hasDesc := splitIDLine(idLine[1:])
	return &seq.Record{
		Format:      seq.FormatFASTQ,
		ID:          id,
		Description: desc,
		HasDesc:     hasDesc,
		SeqBytes:    seqLine,
		QualBytes:   qualLine,
	}, nil
}

// parseFASTARecord reads one FASTA record: a header line, followed by
// sequence lines up to EOF or the next '>' header. On hitting the next
// header, it seeks the underlying reader back to the start of that line so
// the next call sees it.
func parseFASTARecord(r *seekableReader) (*seq.Record, error) {
	headerLine, err := readLine(r.br)
	if err == io.EOF && len(headerLine) == 0 {
		return nil, nil
	}
	if err != nil && err != io.EOF {
		return nil, newErr(IO, err, "reading FASTA header line")
	}
	if len(headerLine) == 0 || headerLine[0] != '>' {
		return nil, newErr(BadRecord, nil, "FASTA header must start with '>', got %q", headerLine)
	}
	id, desc, hasDesc := splitIDLine(headerLine[1:])

	var seqBuf bytes.Buffer
	for {
		lineStart := r.offset()
		line, lerr := readLine(r.br)
		if lerr == io.EOF && len(line) == 0 {
			break
		}
		if lerr != nil && lerr != io.EOF {
			return nil, newErr(IO, lerr, "reading FASTA sequence line")
		}
		if len(line) > 0 && line[0] == '>' {
			// Put the header back for the next call.
			if err := r.seekTo(lineStart); err != nil {
				return nil, newErr(IO, err, "rewinding to next FASTA header")
			}
			break
		}
		seqBuf.Write(line)
		if lerr == io.EOF {
			break
		}
	}
	return &seq.Record{
		Format:      seq.FormatFASTA,
		ID:          id,
		Description: desc,
		HasDesc:     hasDesc,
		SeqBytes:    append([]byte(nil), seqBuf.Bytes()...),
	}, nil
}

// readLine reads one line, trimming the trailing '\n' and any '\r' before
// it. It returns io.EOF alongside a non-empty final line with no trailing
// newline, matching bufio.Reader.ReadBytes semantics.
func readLine(r *bufio.Reader) ([]byte, error) {
	line, err := r.ReadBytes('\n')
	if err != nil && err != io.EOF {
		return nil, err
	}
	line = bytes.TrimRight(line, "\r\n")
	return line, err
}

// splitIDLine splits a header/id line (with the leading '@' or '>' already
// stripped) on the first space into id and optional description.
func splitIDLine(line []byte) (id string, desc string, hasDesc bool) {
	if i := bytes.IndexByte(line, ' '); i >= 0 {
		return string(line[:i]), string(line[i+1:]), true
	}
	return string(line), "", false
}

// skipFASTQRecords discards n complete FASTQ records (4 lines each) without
// allocating Record values, for the fast-skip path used by seekToRecord.
func skipFASTQRecords(sr *seekableReader, n int) error {
	for i := 0; i < n; i++ {
		for line := 0; line < 4; line++ {
			if _, err := sr.br.ReadBytes('\n'); err != nil {
				return newErr(BadRecord, err, "EOF while skipping FASTQ record %d/%d", i+1, n)
			}
		}
	}
	return nil
}

// skipFASTARecords discards n complete FASTA records using the real parser
// (FASTA records have no fixed line count, so there is no cheaper skip).
func skipFASTARecords(r *seekableReader, n int) error {
	for i := 0; i < n; i++ {
		rec, err := parseFASTARecord(r)
		if err != nil {
			return err
		}
		if rec == nil {
			return newErr(OutOfRange, nil, "EOF while skipping FASTA record %d/%d", i+1, n)
		}
	}
	return nil
}
