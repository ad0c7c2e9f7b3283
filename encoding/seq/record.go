// Package seq defines the record model shared by the FASTQ and FASTA readers:
// a single tagged type that can represent either format, the way callers
// expect to range over a batch without caring which file it came from.
package seq

import "github.com/grailbio/base/unsafe"

// Format identifies which file format a Record was parsed from.
type Format int

const (
	// FormatFASTQ marks a record that carries a quality string.
	FormatFASTQ Format = iota
	// FormatFASTA marks a record with sequence only.
	FormatFASTA
)

func (f Format) String() string {
	switch f {
	case FormatFASTQ:
		return "fastq"
	case FormatFASTA:
		return "fasta"
	default:
		return "unknown"
	}
}

// Record is a single FASTQ or FASTA entry. It is a tagged variant, not a
// subtype hierarchy: Format says which of Qual/no-Qual applies, and the
// accessors below hide the distinction from callers that don't care.
//
// Seq (and Qual, for FASTQ) are raw bytes; case and alphabet are the
// caller's concern.
type Record struct {
	Format      Format
	ID          string
	Description string
	HasDesc     bool
	SeqBytes    []byte
	QualBytes   []byte // nil for FASTA
}

// Id returns the record identifier (the text following '@' or '>', up to the
// first space).
func (r *Record) Id() string { return r.ID }

// Seq returns the raw sequence bytes.
func (r *Record) Seq() []byte { return r.SeqBytes }

// Desc returns the free-text description following the ID, if any.
func (r *Record) Desc() (string, bool) { return r.Description, r.HasDesc }

// Qual returns the quality bytes and true for a FASTQ record; for FASTA it
// returns (nil, false).
func (r *Record) Qual() ([]byte, bool) {
	if r.Format != FormatFASTQ {
		return nil, false
	}
	return r.QualBytes, true
}

// SeqString is a zero-copy view of Seq as a string, for callers (such as the
// k-mer counter) that only read the bytes.
func (r *Record) SeqString() string { return unsafe.BytesToString(r.SeqBytes) }

// Clone returns a deep copy of r, suitable for a caller-owned batch that will
// outlive the reader's internal buffer window.
func (r *Record) Clone() *Record {
	out := &Record{
		Format:      r.Format,
		ID:          r.ID,
		Description: r.Description,
		HasDesc:     r.HasDesc,
	}
	if r.SeqBytes != nil {
		out.SeqBytes = append([]byte(nil), r.SeqBytes...)
	}
	if r.QualBytes != nil {
		out.QualBytes = append([]byte(nil), r.QualBytes...)
	}
	return out
}
