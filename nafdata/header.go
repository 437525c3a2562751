package nafdata

import "io"

// Header is the fixed prelude of an archive, together with the v2 title
// extension.
type Header struct {
	Version         byte
	SequenceType    SequenceType
	Flags           Flags
	NameSeparator   byte
	LineLength      byte
	NumberOfRecords uint64
	MaxRun          uint64

	// Title is populated only when Flags.Has(FlagTitle); it round-trips
	// verbatim and is otherwise opaque to the codec.
	Title string
}

// HasTitle reports whether the header carries a title string.
func (h *Header) HasTitle() bool { return h.Flags.Has(FlagTitle) }

// ParseHeader reads and validates a Header from r, including the magic
// bytes.
func ParseHeader(r io.Reader) (*Header, error) {
	if err := ReadMagic(r); err != nil {
		return nil, err
	}

	version, err := ReadVersion(r)
	if err != nil {
		return nil, err
	}

	h := &Header{Version: version}

	if version == VersionV1 {
		h.SequenceType = SequenceDNA
	} else {
		var buf [1]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, &TruncatedStreamError{Stream: "sequence type", Cause: err}
		}
		h.SequenceType = SequenceType(buf[0])
		if !h.SequenceType.Valid() {
			return nil, &FormatError{Reason: "unknown sequence type code"}
		}
	}

	var flagsBuf [1]byte
	if _, err := io.ReadFull(r, flagsBuf[:]); err != nil {
		return nil, &TruncatedStreamError{Stream: "flags", Cause: err}
	}
	h.Flags = Flags(flagsBuf[0])
	if h.Flags.Has(FlagExtended) {
		return nil, &FormatError{Reason: "reserved flag bit set"}
	}
	if h.Flags.Has(FlagTitle) && version == VersionV1 {
		return nil, &FormatError{Reason: "title flag set in v1 archive"}
	}

	var sepBuf [1]byte
	if _, err := io.ReadFull(r, sepBuf[:]); err != nil {
		return nil, &TruncatedStreamError{Stream: "name separator", Cause: err}
	}
	h.NameSeparator = sepBuf[0]

	if h.HasTitle() {
		br := byteReader{Reader: r}
		size, err := ReadUvarint(br)
		if err != nil {
			return nil, err
		}
		buf := make([]byte, size)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, &TruncatedStreamError{Stream: "title", Cause: err}
		}
		h.Title = string(buf)
	}

	var llBuf [1]byte
	if _, err := io.ReadFull(r, llBuf[:]); err != nil {
		return nil, &TruncatedStreamError{Stream: "line length", Cause: err}
	}
	h.LineLength = llBuf[0]

	br := byteReader{Reader: r}
	if h.NumberOfRecords, err = ReadUvarint(br); err != nil {
		return nil, err
	}
	if h.MaxRun, err = ReadUvarint(br); err != nil {
		return nil, err
	}

	return h, nil
}

// WriteHeader writes h to w, including the magic bytes.
func WriteHeader(w io.Writer, h *Header) error {
	if err := WriteMagic(w); err != nil {
		return err
	}
	if err := WriteVersion(w, h.Version); err != nil {
		return err
	}
	if h.Version != VersionV1 {
		if _, err := w.Write([]byte{byte(h.SequenceType)}); err != nil {
			return &IOError{Cause: err}
		}
	}
	if _, err := w.Write([]byte{h.Flags.Byte()}); err != nil {
		return &IOError{Cause: err}
	}
	if _, err := w.Write([]byte{h.NameSeparator}); err != nil {
		return &IOError{Cause: err}
	}
	if h.HasTitle() {
		if err := WriteUvarint(w, uint64(len(h.Title))); err != nil {
			return err
		}
		if _, err := io.WriteString(w, h.Title); err != nil {
			return &IOError{Cause: err}
		}
	}
	if _, err := w.Write([]byte{h.LineLength}); err != nil {
		return &IOError{Cause: err}
	}
	if err := WriteUvarint(w, h.NumberOfRecords); err != nil {
		return err
	}
	if err := WriteUvarint(w, h.MaxRun); err != nil {
		return err
	}
	return nil
}
