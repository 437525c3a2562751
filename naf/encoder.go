package naf

import (
	"io"

	"github.com/althonos/nafcodec/nafdata"
	"github.com/althonos/nafcodec/store"
)

type encoderOptions struct {
	sequenceType      SequenceType
	fields            Fields
	lineLength        byte
	nameSeparator     byte
	title             string
	hasTitle          bool
	spillFactory      store.Factory
	compressionLevel  int
	checksum          nafdata.ChecksumScheme
}

// EncoderOption configures an Encoder constructed by NewEncoder.
type EncoderOption func(*encoderOptions)

// WithSequenceType sets the archive's declared sequence type. Defaults to
// DNA.
func WithSequenceType(t SequenceType) EncoderOption {
	return func(o *encoderOptions) { o.sequenceType = t }
}

// WithFields sets which columns the Encoder writes. Defaults to AllFields.
func WithFields(f Fields) EncoderOption {
	return func(o *encoderOptions) { o.fields = f }
}

// WithLineLength sets the advisory re-wrap line length stored in the
// header. Defaults to 80.
func WithLineLength(n byte) EncoderOption {
	return func(o *encoderOptions) { o.lineLength = n }
}

// WithNameSeparator sets the byte used to split id from comment. Defaults
// to ' '.
func WithNameSeparator(b byte) EncoderOption {
	return func(o *encoderOptions) { o.nameSeparator = b }
}

// WithTitle sets an advisory title string, written using the v2 title
// extension. Implies a v2 archive.
func WithTitle(title string) EncoderOption {
	return func(o *encoderOptions) { o.title = title; o.hasTitle = true }
}

// WithSpillFactory sets the temporary storage factory used for column
// spills. Defaults to store.Memory{}.
func WithSpillFactory(f store.Factory) EncoderOption {
	return func(o *encoderOptions) { o.spillFactory = f }
}

// WithCompressionLevel sets the Zstandard compression level used when
// finalizing each column. Defaults to 3 (zstd's default level).
func WithCompressionLevel(level int) EncoderOption {
	return func(o *encoderOptions) { o.compressionLevel = level }
}

// WithChecksum enables an archive-wide checksum trailer using the given
// scheme. Defaults to ChecksumNone (no trailer), which is the common case
// and what every archive not produced with this option looks like.
func WithChecksum(scheme nafdata.ChecksumScheme) EncoderOption {
	return func(o *encoderOptions) { o.checksum = scheme }
}

// Encoder accumulates records into per-column spills and, on Close,
// finalizes them into a single well-formed archive. It is push-oriented
// and sequential: Push appends, Close finalizes; there is no way to revise
// a record once pushed.
type Encoder struct {
	dst  io.Writer
	opts encoderOptions

	ids      store.Spill
	comments store.Spill
	lengths  store.Spill
	mask     store.Spill
	sequence store.Spill
	quality  store.Spill

	maskWriter *nafdata.MaskWriter

	seqCache    byte
	seqHasCache bool

	count  uint64
	closed bool
}

// NewEncoder returns an Encoder that will write a single archive to dst
// once Close is called.
func NewEncoder(dst io.Writer, options ...EncoderOption) (*Encoder, error) {
	opts := encoderOptions{
		sequenceType:     DNA,
		fields:           AllFields,
		lineLength:       80,
		nameSeparator:    ' ',
		spillFactory:     store.Memory{},
		compressionLevel: 3,
		checksum:         nafdata.ChecksumNone,
	}
	for _, o := range options {
		o(&opts)
	}

	e := &Encoder{dst: dst, opts: opts}

	var err error
	if opts.fields.Has(FieldIDs) {
		if e.ids, err = opts.spillFactory.New(); err != nil {
			return nil, err
		}
	}
	if opts.fields.Has(FieldComments) {
		if e.comments, err = opts.spillFactory.New(); err != nil {
			return nil, err
		}
	}
	if opts.fields.Has(FieldLengths) || opts.fields.Has(FieldSequence) || opts.fields.Has(FieldQuality) {
		if e.lengths, err = opts.spillFactory.New(); err != nil {
			return nil, err
		}
	}
	if opts.fields.Has(FieldMask) {
		if e.mask, err = opts.spillFactory.New(); err != nil {
			return nil, err
		}
		e.maskWriter = nafdata.NewMaskWriter(e.mask)
	}
	if opts.fields.Has(FieldSequence) {
		if e.sequence, err = opts.spillFactory.New(); err != nil {
			return nil, err
		}
	}
	if opts.fields.Has(FieldQuality) {
		if e.quality, err = opts.spillFactory.New(); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Push appends a record to the archive. Pushing a record missing a value
// for an active column is MissingFieldError; a value supplied for an
// inactive column is silently ignored.
func (e *Encoder) Push(rec *Record) error {
	if e.closed {
		return &nafdata.FormatError{Reason: "push after close"}
	}

	if e.ids != nil {
		if !rec.HasID {
			return &nafdata.MissingFieldError{Field: "id"}
		}
		if _, err := io.WriteString(e.ids, rec.ID+"\x00"); err != nil {
			return &nafdata.IOError{Cause: err}
		}
	}
	if e.comments != nil {
		if !rec.HasComment {
			return &nafdata.MissingFieldError{Field: "comment"}
		}
		if _, err := io.WriteString(e.comments, rec.Comment+"\x00"); err != nil {
			return &nafdata.IOError{Cause: err}
		}
	}

	length := rec.Length
	if e.opts.fields.Has(FieldSequence) && rec.HasSequence {
		length = uint64(len(rec.Sequence))
	}
	if e.lengths != nil {
		if err := nafdata.WriteUvarint(e.lengths, length); err != nil {
			return err
		}
	}

	if e.sequence != nil {
		if !rec.HasSequence {
			return &nafdata.MissingFieldError{Field: "sequence"}
		}
		if err := e.writeSequence(rec.Sequence); err != nil {
			return err
		}
	}

	if e.quality != nil {
		if !rec.HasQuality || uint64(len(rec.Quality)) != length {
			return &nafdata.MissingFieldError{Field: "quality"}
		}
		if _, err := io.WriteString(e.quality, rec.Quality); err != nil {
			return &nafdata.IOError{Cause: err}
		}
	}

	e.count++
	return nil
}

// writeSequence packs seq into the sequence spill and, if mask tracking is
// active, accumulates soft-mask runs from its case, maintaining both
// cursors across record boundaries.
func (e *Encoder) writeSequence(seq string) error {
	t := e.opts.sequenceType

	if !t.IsNucleotide() {
		_, err := io.WriteString(e.sequence, seq)
		if err != nil {
			return &nafdata.IOError{Cause: err}
		}
		if e.maskWriter != nil {
			for i := 0; i < len(seq); {
				masked := nafdata.IsLower(seq[i])
				j := i + 1
				for j < len(seq) && nafdata.IsLower(seq[j]) == masked {
					j++
				}
				if err := e.maskWriter.Push(masked, uint64(j-i)); err != nil {
					return err
				}
				i = j
			}
		}
		return nil
	}

	for i := 0; i < len(seq); i++ {
		symbol := seq[i]
		nibble, err := nafdata.EncodeNucleotide(t, symbol)
		if err != nil {
			return err
		}
		if e.maskWriter != nil {
			if err := e.maskWriter.Push(nafdata.IsLower(symbol), 1); err != nil {
				return err
			}
		}
		if !e.seqHasCache {
			e.seqCache = nibble
			e.seqHasCache = true
		} else {
			b := e.seqCache | (nibble << 4)
			if _, err := e.sequence.Write([]byte{b}); err != nil {
				return &nafdata.IOError{Cause: err}
			}
			e.seqHasCache = false
		}
	}
	return nil
}

// Close flushes any trailing partial nibble and the final mask run, writes
// the header, then each active column's compressed block, in fixed order,
// and finally the checksum trailer if one was requested.
func (e *Encoder) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true

	if e.seqHasCache {
		if _, err := e.sequence.Write([]byte{e.seqCache}); err != nil {
			return &nafdata.IOError{Cause: err}
		}
		e.seqHasCache = false
	}
	if e.maskWriter != nil {
		if err := e.maskWriter.Close(); err != nil {
			return err
		}
	}

	for _, s := range []store.Spill{e.ids, e.comments, e.lengths, e.mask, e.sequence, e.quality} {
		if s == nil {
			continue
		}
		if err := s.Close(); err != nil {
			return &nafdata.IOError{Cause: err}
		}
	}

	flags := e.flags()
	header := &nafdata.Header{
		Version:         e.version(),
		SequenceType:    e.opts.sequenceType,
		Flags:           flags,
		NameSeparator:   e.opts.nameSeparator,
		LineLength:      e.opts.lineLength,
		NumberOfRecords: e.count,
		Title:           e.opts.title,
	}
	if e.maskWriter != nil {
		header.MaxRun = e.maskWriter.MaxUnmaskedRun()
	}

	if err := nafdata.WriteHeader(e.dst, header); err != nil {
		return err
	}

	// the checksum trailer covers everything written after the header
	dst := e.dst
	var trailerWriter io.WriteCloser
	if e.opts.checksum != nafdata.ChecksumNone {
		trailerWriter = e.opts.checksum.Writer(nopWriteCloser{dst})
		dst = trailerWriter
	}

	columns := []struct {
		flag  nafdata.Flag
		spill store.Spill
	}{
		{nafdata.FlagIDs, e.ids},
		{nafdata.FlagComments, e.comments},
		{nafdata.FlagLengths, e.lengths},
		{nafdata.FlagMask, e.mask},
		{nafdata.FlagSequence, e.sequence},
		{nafdata.FlagQuality, e.quality},
	}
	for _, col := range columns {
		if col.spill == nil {
			continue
		}
		if err := e.writeColumn(dst, col.spill); err != nil {
			return err
		}
	}

	if trailerWriter != nil {
		return trailerWriter.Close()
	}
	return nil
}

func (e *Encoder) writeColumn(dst io.Writer, spill store.Spill) error {
	r, err := spill.Reader()
	if err != nil {
		return &nafdata.IOError{Cause: err}
	}
	defer r.Close()

	compressed, originalSize, err := nafdata.CompressBlock(r, e.opts.compressionLevel, spill.Len())
	if err != nil {
		return err
	}
	if err := nafdata.WriteBlockEntry(dst, originalSize, uint64(len(compressed))); err != nil {
		return err
	}
	if _, err := dst.Write(compressed); err != nil {
		return &nafdata.IOError{Cause: err}
	}
	return nil
}

func (e *Encoder) version() byte {
	if e.opts.hasTitle {
		return nafdata.VersionV2
	}
	if e.opts.fields.Has(FieldQuality) {
		return nafdata.VersionV2
	}
	// a v1 header has no sequence type byte and always reads back as DNA
	if e.opts.sequenceType != DNA {
		return nafdata.VersionV2
	}
	return nafdata.VersionV1
}

func (e *Encoder) flags() nafdata.Flags {
	var f nafdata.Flags
	if e.opts.hasTitle {
		f = f.Set(nafdata.FlagTitle)
	}
	if e.ids != nil {
		f = f.Set(nafdata.FlagIDs)
	}
	if e.comments != nil {
		f = f.Set(nafdata.FlagComments)
	}
	if e.lengths != nil {
		f = f.Set(nafdata.FlagLengths)
	}
	if e.mask != nil {
		f = f.Set(nafdata.FlagMask)
	}
	if e.sequence != nil {
		f = f.Set(nafdata.FlagSequence)
	}
	if e.quality != nil {
		f = f.Set(nafdata.FlagQuality)
	}
	return f
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
