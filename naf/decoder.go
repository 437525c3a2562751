package naf

import (
	"bufio"
	"io"

	"github.com/althonos/nafcodec/nafdata"
)

// VerifyMode controls when (if ever) a Decoder checks the optional archive
// checksum trailer.
type VerifyMode int

const (
	// VerifyLate checks the checksum when the Decoder is closed. This is
	// the default: decoding proceeds without paying for a second pass
	// over the archive body up front.
	VerifyLate VerifyMode = iota

	// VerifyEarly checks the checksum during NewDecoder, before any
	// record is yielded, at the cost of reading the entire archive body
	// once just to compute the digest.
	VerifyEarly

	// VerifyNever skips checksum verification entirely, even if a
	// trailer is present.
	VerifyNever
)

type decoderOptions struct {
	fields Fields
	verify VerifyMode
}

// DecoderOption configures a Decoder constructed by NewDecoder.
type DecoderOption func(*decoderOptions)

// WithDecoderFields restricts which columns the Decoder reads. Columns outside
// the mask are never opened, even if present in the archive, so their
// Zstandard decompressors are never instantiated. Fields the archive
// itself does not contain are silently excluded regardless of the mask.
//
// Decoder fields that other requested fields logically depend on (lengths
// when sequence or quality is requested; mask when sequence is requested
// and the archive has one) are consumed internally to keep cursors
// synchronized, even when not themselves selected for output.
func WithDecoderFields(f Fields) DecoderOption {
	return func(o *decoderOptions) { o.fields = f }
}

// WithChecksumVerification sets when the optional checksum trailer, if
// present, is verified.
func WithChecksumVerification(mode VerifyMode) DecoderOption {
	return func(o *decoderOptions) { o.verify = mode }
}

// source is what a Decoder reads from: a seekable byte stream, since
// independent per-column readers take turns seeking it to their own
// logical position before every read.
type source interface {
	io.Reader
	io.Seeker
}

type noopCloser struct{ source }

func (noopCloser) Close() error { return nil }

// Decoder reads records out of a NAF archive, one at a time, in archive
// order. It is a sequential iterator: concurrent use from multiple
// goroutines is undefined, matching the single-threaded cooperative model
// of the format itself.
type Decoder struct {
	src     source
	Header  *nafdata.Header
	entries []nafdata.BlockEntry

	opts decoderOptions

	ids      *bufio.Reader
	comments *bufio.Reader
	lengths  *bufio.Reader
	mask     *nafdata.MaskReader
	sequence io.Reader
	quality  io.Reader

	idsRC      io.ReadCloser
	commentsRC io.ReadCloser
	lengthsRC  io.ReadCloser
	maskRC     io.ReadCloser
	sequenceRC io.ReadCloser
	qualityRC  io.ReadCloser

	seqCache    byte
	seqHasCache bool

	index   uint64
	err     error
	checksum func() error
}

// NewDecoder parses the header of an archive read from src, opens one
// independent Zstandard reader per selected present column, and returns a
// Decoder ready to yield records. src must be seekable; the Decoder seeks
// it before every column read because columns are laid out one after
// another in the file rather than interleaved per record.
func NewDecoder(src source, options ...DecoderOption) (*Decoder, error) {
	opts := decoderOptions{fields: AllFields, verify: VerifyLate}
	for _, o := range options {
		o(&opts)
	}

	header, err := nafdata.ParseHeader(src)
	if err != nil {
		return nil, err
	}

	bodyStart, err := src.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, &nafdata.IOError{Cause: err}
	}

	flags := header.Flags
	entries, err := nafdata.ReadBlockIndex(src, flags)
	if err != nil {
		return nil, err
	}

	d := &Decoder{src: src, Header: header, entries: entries, opts: opts}

	if opts.verify != VerifyNever {
		if err := d.setupChecksum(bodyStart); err != nil {
			return nil, err
		}
	}

	want := func(f nafdata.Flag, sel Fields) bool {
		return flags.Has(f) && opts.fields.Has(sel)
	}
	// lengths must be opened whenever sequence or quality participates,
	// even if the caller did not select FieldLengths itself.
	needLengths := want(nafdata.FlagLengths, FieldLengths) ||
		(flags.Has(nafdata.FlagSequence) && opts.fields.Has(FieldSequence)) ||
		(flags.Has(nafdata.FlagQuality) && opts.fields.Has(FieldQuality))
	needMask := flags.Has(nafdata.FlagMask) && flags.Has(nafdata.FlagSequence) && opts.fields.Has(FieldSequence)

	if err := d.openColumn(nafdata.FlagIDs, want(nafdata.FlagIDs, FieldIDs), &d.idsRC, &d.ids); err != nil {
		return nil, err
	}
	if err := d.openColumn(nafdata.FlagComments, want(nafdata.FlagComments, FieldComments), &d.commentsRC, &d.comments); err != nil {
		return nil, err
	}
	if err := d.openColumn(nafdata.FlagLengths, needLengths, &d.lengthsRC, &d.lengths); err != nil {
		return nil, err
	}
	if needMask {
		rc, err := d.openRaw(nafdata.FlagMask)
		if err != nil {
			return nil, err
		}
		d.maskRC = rc
		if rc != nil {
			d.mask = nafdata.NewMaskReader(rc)
		}
	}
	if want(nafdata.FlagSequence, FieldSequence) {
		rc, err := d.openRaw(nafdata.FlagSequence)
		if err != nil {
			return nil, err
		}
		d.sequenceRC = rc
		d.sequence = rc
	}
	if want(nafdata.FlagQuality, FieldQuality) {
		rc, err := d.openRaw(nafdata.FlagQuality)
		if err != nil {
			return nil, err
		}
		d.qualityRC = rc
		d.quality = rc
	}

	if opts.verify == VerifyEarly {
		if err := d.verifyChecksum(); err != nil {
			return nil, err
		}
	}

	return d, nil
}

func (d *Decoder) openRaw(flag nafdata.Flag) (io.ReadCloser, error) {
	entry, ok := nafdata.Find(d.entries, flag)
	if !ok {
		return nil, nil
	}
	return nafdata.OpenBlockReader(d.src, entry)
}

func (d *Decoder) openColumn(flag nafdata.Flag, wanted bool, rc *io.ReadCloser, buffered **bufio.Reader) error {
	if !wanted {
		return nil
	}
	r, err := d.openRaw(flag)
	if err != nil {
		return err
	}
	*rc = r
	if r != nil {
		*buffered = bufio.NewReader(r)
	}
	return nil
}

// setupChecksum looks for a checksum trailer at the end of the source,
// covering the byte range [bodyStart, trailer) — everything written after
// the header. bodyStart is the position immediately following the header,
// captured by NewDecoder before the block index (and thus any column
// reader) touches the source. Verification itself is delegated to
// nafdata.ChecksumReader so there is exactly one place that parses and
// checks a trailer.
func (d *Decoder) setupChecksum(bodyStart int64) error {
	cur, err := d.src.Seek(0, io.SeekCurrent)
	if err != nil {
		return &nafdata.IOError{Cause: err}
	}
	if _, err := d.src.Seek(bodyStart, io.SeekStart); err != nil {
		return &nafdata.IOError{Cause: err}
	}

	// noopCloser: the Decoder never owns src, so ChecksumReader's Close
	// must not close it out from under the rest of the Decoder.
	rc, scheme, err := nafdata.ChecksumReader(noopCloser{d.src})
	if err != nil || scheme == nafdata.ChecksumNone {
		// no parseable trailer, or an explicit none-scheme trailer:
		// nothing to verify.
		d.checksum = nil
		if _, err := d.src.Seek(cur, io.SeekStart); err != nil {
			return &nafdata.IOError{Cause: err}
		}
		return nil
	}

	d.checksum = func() error {
		// column readers move the shared cursor; rc reads from it as is
		if _, err := d.src.Seek(bodyStart, io.SeekStart); err != nil {
			return &nafdata.IOError{Cause: err}
		}
		if _, err := io.Copy(io.Discard, rc); err != nil {
			return &nafdata.IOError{Cause: err}
		}
		if err := rc.Close(); err != nil {
			return err
		}
		if _, err := d.src.Seek(cur, io.SeekStart); err != nil {
			return &nafdata.IOError{Cause: err}
		}
		return nil
	}
	return nil
}

func (d *Decoder) verifyChecksum() error {
	if d.checksum == nil {
		return nil
	}
	return d.checksum()
}

// Len returns the total number of records in the archive.
func (d *Decoder) Len() uint64 { return d.Header.NumberOfRecords }

// Next returns the next record in the archive, or io.EOF once every record
// has been yielded. Once Next returns a non-EOF error the Decoder is
// poisoned: every subsequent call returns that same error.
func (d *Decoder) Next() (*Record, error) {
	if d.err != nil {
		return nil, d.err
	}
	if d.index >= d.Header.NumberOfRecords {
		return nil, io.EOF
	}

	rec, err := d.next()
	if err != nil {
		d.err = err
		return nil, err
	}
	d.index++
	return rec, nil
}

func (d *Decoder) next() (*Record, error) {
	rec := &Record{}

	if d.ids != nil {
		s, err := readCString(d.ids)
		if err != nil {
			return nil, &nafdata.TruncatedStreamError{Stream: "ids", Cause: err}
		}
		rec.ID, rec.HasID = s, true
	}

	if d.comments != nil {
		s, err := readCString(d.comments)
		if err != nil {
			return nil, &nafdata.TruncatedStreamError{Stream: "comments", Cause: err}
		}
		rec.Comment, rec.HasComment = s, true
	}

	var length uint64
	haveLength := false
	if d.lengths != nil {
		n, err := nafdata.ReadUvarint(d.lengths)
		if err != nil {
			return nil, err
		}
		length, haveLength = n, true
	} else if d.sequence != nil || d.quality != nil {
		return nil, &nafdata.FormatError{Reason: "sequence or quality present without lengths"}
	}
	rec.Length = length

	if d.sequence != nil && haveLength {
		seq, err := d.readSequence(length)
		if err != nil {
			return nil, err
		}
		rec.Sequence, rec.HasSequence = seq, true
	} else if d.mask != nil && haveLength {
		// sequence not selected but mask cursor must still advance so
		// later records line up.
		if err := d.mask.Advance(length, func(bool, uint64) {}); err != nil {
			return nil, err
		}
	}

	if d.quality != nil && haveLength {
		buf := make([]byte, length)
		if _, err := io.ReadFull(d.quality, buf); err != nil {
			return nil, &nafdata.TruncatedStreamError{Stream: "quality", Cause: err}
		}
		rec.Quality, rec.HasQuality = string(buf), true
	}

	return rec, nil
}

// readSequence decodes exactly length symbols from the packed sequence
// stream, applying the mask overlay if one is open. The half-byte nibble
// cursor persists across calls: record boundaries never realign to a
// fresh byte.
func (d *Decoder) readSequence(length uint64) (string, error) {
	t := d.Header.SequenceType
	out := make([]byte, length)

	if !t.IsNucleotide() {
		if _, err := io.ReadFull(d.sequence, out); err != nil {
			return "", &nafdata.TruncatedStreamError{Stream: "sequence", Cause: err}
		}
	} else {
		var i uint64
		if d.seqHasCache && i < length {
			nib, err := nafdata.DecodeNucleotide(t, d.seqCache)
			if err != nil {
				return "", err
			}
			out[i] = nib
			d.seqHasCache = false
			i++
		}
		var buf [1]byte
		for i < length {
			if _, err := io.ReadFull(d.sequence, buf[:]); err != nil {
				return "", &nafdata.TruncatedStreamError{Stream: "sequence", Cause: err}
			}
			lo, err := nafdata.DecodeNucleotide(t, buf[0]&0x0F)
			if err != nil {
				return "", err
			}
			out[i] = lo
			i++
			if i < length {
				hi, err := nafdata.DecodeNucleotide(t, buf[0]>>4)
				if err != nil {
					return "", err
				}
				out[i] = hi
				i++
			} else {
				hiNibble := buf[0] >> 4
				d.seqCache = hiNibble
				d.seqHasCache = true
			}
		}
	}

	if d.mask != nil {
		pos := uint64(0)
		if err := d.mask.Advance(length, func(masked bool, count uint64) {
			if masked {
				for j := pos; j < pos+count; j++ {
					out[j] = nafdata.ToLower(out[j])
				}
			}
			pos += count
		}); err != nil {
			return "", err
		}
	}

	return string(out), nil
}

func readCString(r *bufio.Reader) (string, error) {
	s, err := r.ReadString(0)
	if err != nil {
		return "", err
	}
	return s[:len(s)-1], nil
}

// Close releases the Decoder's column readers. If VerifyLate was
// requested and a checksum trailer is present, this is when it is
// verified.
func (d *Decoder) Close() error {
	var firstErr error
	for _, rc := range []io.ReadCloser{d.idsRC, d.commentsRC, d.lengthsRC, d.maskRC, d.sequenceRC, d.qualityRC} {
		if rc == nil {
			continue
		}
		if err := rc.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if d.opts.verify == VerifyLate {
		if err := d.verifyChecksum(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
