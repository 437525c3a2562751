package nafdata

import (
	"io"

	"github.com/klauspost/compress/zstd"
)

// OpenBlockReader opens an independent Zstandard reader over entry's
// compressed byte range of the shared source src. The returned ReadCloser
// decompresses lazily; Close releases the Zstandard decoder but does not
// close src.
func OpenBlockReader(src io.ReadSeeker, entry BlockEntry) (io.ReadCloser, error) {
	sr := newSectionReader(src, entry.Offset, int64(entry.CompressedSize))
	// concurrency 1: sr is only read from inside Read, never from a
	// background goroutine racing the other columns' readers.
	zr, err := zstd.NewReader(sr, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, &DecompressionError{Stream: flagName(entry.Flag), Cause: err}
	}
	return &lengthCheckedReader{
		rc:     zr.IOReadCloser(),
		zr:     zr,
		want:   entry.OriginalSize,
		stream: flagName(entry.Flag),
	}, nil
}

// lengthCheckedReader wraps a Zstandard decompressor and reports
// LengthMismatchError if, on Close, fewer or more bytes were produced than
// the block index promised.
type lengthCheckedReader struct {
	rc     io.ReadCloser
	zr     *zstd.Decoder
	want   uint64
	got    uint64
	stream string
}

func (l *lengthCheckedReader) Read(p []byte) (int, error) {
	n, err := l.rc.Read(p)
	l.got += uint64(n)
	if err != nil && err != io.EOF {
		err = &DecompressionError{Stream: l.stream, Cause: err}
	}
	return n, err
}

func (l *lengthCheckedReader) Close() error {
	err := l.rc.Close()
	l.zr.Close()
	if err != nil {
		return &IOError{Cause: err}
	}
	if l.got != l.want {
		return &LengthMismatchError{Declared: l.want, Actual: l.got}
	}
	return nil
}

// CompressBlock compresses the full contents of r (read to EOF) at the
// given level and returns the compressed bytes along with the uncompressed
// length. Because the block framing requires the compressed length to
// precede the payload, the compressed form is always fully materialized
// first; sizeHint, when known, preallocates the buffer the uncompressed
// input is gathered into, to avoid reallocation.
func CompressBlock(r io.Reader, level int, sizeHint int64) (compressed []byte, originalSize uint64, err error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstdLevel(level)))
	if err != nil {
		return nil, 0, &IOError{Cause: err}
	}
	defer enc.Close()

	var buf []byte
	if sizeHint > 0 {
		buf = make([]byte, 0, sizeHint)
	}
	n, err := io.Copy(sliceWriter{&buf}, r)
	if err != nil {
		return nil, 0, &IOError{Cause: err}
	}

	compressed = enc.EncodeAll(buf, make([]byte, 0, len(buf)/2+64))
	return compressed, uint64(n), nil
}

// sliceWriter appends writes to the pointed-to slice, for accumulating a
// spill's contents into a single buffer before compression.
type sliceWriter struct{ buf *[]byte }

func (s sliceWriter) Write(p []byte) (int, error) {
	*s.buf = append(*s.buf, p...)
	return len(p), nil
}

func zstdLevel(level int) zstd.EncoderLevel {
	switch {
	case level <= 1:
		return zstd.SpeedFastest
	case level <= 3:
		return zstd.SpeedDefault
	case level <= 6:
		return zstd.SpeedBetterCompression
	default:
		return zstd.SpeedBestCompression
	}
}

func flagName(f Flag) string {
	switch f {
	case FlagIDs:
		return "ids"
	case FlagComments:
		return "comments"
	case FlagLengths:
		return "lengths"
	case FlagMask:
		return "mask"
	case FlagSequence:
		return "sequence"
	case FlagQuality:
		return "quality"
	default:
		return "unknown"
	}
}
