package seqio

import (
	"bufio"
	"io"
)

// countingReader wraps an io.ReadSeeker and tracks the absolute file offset
// of the next byte it will hand out, so a bufio.Reader sitting on top of it
// can be asked "what's the real file offset under your buffer" without
// patching bufio itself.
type countingReader struct {
	r   io.ReadSeeker
	pos int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.pos += int64(n)
	return n, err
}

func (c *countingReader) Seek(offset int64, whence int) (int64, error) {
	n, err := c.r.Seek(offset, whence)
	if err == nil {
		c.pos = n
	}
	return n, err
}

// seekableReader pairs a bufio.Reader with the underlying countingReader so
// callers can ask "what absolute byte offset is the read cursor at" and
// "seek to offset X, discarding any buffered bytes". Both are needed by the
// FASTA parser's push-back-the-header trick and by the reader's
// seekToRecord.
type seekableReader struct {
	cr *countingReader
	br *bufio.Reader
}

func newSeekableReader(f io.ReadSeeker, bufSize int) *seekableReader {
	cr := &countingReader{r: f}
	return &seekableReader{cr: cr, br: bufio.NewReaderSize(cr, bufSize)}
}

// offset returns the absolute byte offset of the next byte the bufio.Reader
// will hand out.
func (s *seekableReader) offset() int64 {
	return s.cr.pos - int64(s.br.Buffered())
}

// seekTo discards buffered bytes and repositions the underlying file at off.
func (s *seekableReader) seekTo(off int64) error {
	if _, err := s.cr.Seek(off, io.SeekStart); err != nil {
		return err
	}
	s.br.Reset(s.cr)
	return nil
}
