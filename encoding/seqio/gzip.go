package seqio

import (
	"bytes"
	"io"
	"io/ioutil"
	"os"
	"strings"

	"github.com/grailbio/base/log"
	"github.com/grailbio/motifscan/encoding/seq"
	"github.com/klauspost/compress/gzip"
)

// stagingCap bounds the size of the temp file produced by StageGzip. The
// source truncates at this limit rather than buffering an unbounded
// decompressed file in the OS temp directory; see DESIGN.md's open-question
// decision on keeping this fixed. Do not silently raise it.
const stagingCap = 10 * 1024 * 1024 // 10 MiB

// IsGzipPath reports whether path names a gzip-compressed file by its
// (case-insensitive) ".gz" suffix.
func IsGzipPath(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".gz")
}

// StageGzip decompresses the gzip file at path into a new temp file capped at
// stagingCap bytes, truncating at the last complete record boundary if the
// cap is reached. It returns the temp file's path and whether truncation
// occurred. Callers own cleanup of the returned path.
func StageGzip(path string, format seq.Format) (tempPath string, wasTruncated bool, err error) {
	in, err := os.Open(path)
	if err != nil {
		return "", false, newErr(IO, err, "opening gzip input %s", path)
	}
	defer in.Close()

	gz, err := gzip.NewReader(in)
	if err != nil {
		return "", false, newErr(IO, err, "opening gzip stream %s", path)
	}
	defer gz.Close()

	out, err := ioutil.TempFile("", "motifscan-stage-*.tmp")
	if err != nil {
		return "", false, newErr(IO, err, "creating staging temp file for %s", path)
	}
	defer out.Close()

	n, truncated, err := copyBounded(out, gz, format, stagingCap)
	if err != nil {
		os.Remove(out.Name())
		return "", false, err
	}
	if truncated {
		log.Error.Printf(
			"seqio: gzip input %s exceeded the %d byte staging cap; truncated to %d bytes at the last complete record boundary. "+
				"Records past this point are silently dropped from the logical dataset.",
			path, stagingCap, n)
	}
	return out.Name(), truncated, nil
}

// copyBounded copies from src to dst up to capBytes. If src has more data
// than capBytes, the written bytes are truncated back to the last complete
// record boundary for format, and truncated is reported as true.
func copyBounded(dst *os.File, src io.Reader, format seq.Format, capBytes int64) (written int64, truncated bool, err error) {
	lr := &io.LimitedReader{R: src, N: capBytes + 1}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, lr); err != nil {
		return 0, false, newErr(IO, err, "decompressing gzip stream")
	}
	data := buf.Bytes()
	if int64(len(data)) <= capBytes {
		if _, err := dst.Write(data); err != nil {
			return 0, false, newErr(IO, err, "writing staged file")
		}
		return int64(len(data)), false, nil
	}

	data = data[:capBytes]
	boundary := lastRecordBoundary(data, format)
	if _, err := dst.Write(data[:boundary]); err != nil {
		return 0, false, newErr(IO, err, "writing truncated staged file")
	}
	return int64(boundary), true, nil
}

// lastRecordBoundary returns the length of the longest prefix of data that
// ends exactly at a record boundary for format.
func lastRecordBoundary(data []byte, format seq.Format) int {
	if format == seq.FormatFASTQ {
		return lastFASTQBoundary(data)
	}
	return lastFASTABoundary(data)
}

// lastFASTQBoundary finds the last newline ending a line whose 0-based index
// is 3 mod 4 (so the number of complete lines kept is divisible by 4), i.e.
// the end of the last complete 4-line record.
func lastFASTQBoundary(data []byte) int {
	lineIdx := -1
	lastGoodEnd := 0
	for i, b := range data {
		if b != '\n' {
			continue
		}
		lineIdx++
		if lineIdx%4 == 3 {
			lastGoodEnd = i + 1
		}
	}
	return lastGoodEnd
}

// lastFASTABoundary returns the byte offset of the last '>' header that
// begins a record after the first one. Since the cap may have cut that
// header's record off mid-sequence, we drop it and everything after it,
// keeping every fully-headed record before it.
func lastFASTABoundary(data []byte) int {
	headerCount := 0
	lastHeaderOffset := -1
	lineStart := 0
	for i := 0; i <= len(data); i++ {
		if i < len(data) && data[i] != '\n' {
			continue
		}
		if lineStart < len(data) && data[lineStart] == '>' {
			headerCount++
			if headerCount > 1 {
				lastHeaderOffset = lineStart
			}
		}
		lineStart = i + 1
	}
	if lastHeaderOffset < 0 {
		return 0
	}
	return lastHeaderOffset
}
