package nafdata

import "io"

// Magic is the 3-byte sequence that appears at offset 0 of every archive.
var Magic = [3]byte{0x01, 0xF9, 0xEC}

// Format versions recognized by this codec.
const (
	VersionV1 byte = 0x01
	VersionV2 byte = 0x02
)

// WriteMagic writes the magic bytes to w.
func WriteMagic(w io.Writer) error {
	_, err := w.Write(Magic[:])
	if err != nil {
		return &IOError{Cause: err}
	}
	return nil
}

// ReadMagic reads and validates the magic bytes from r.
func ReadMagic(r io.Reader) error {
	var buf [3]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return &TruncatedStreamError{Stream: "magic", Cause: err}
	}
	if buf != Magic {
		return &FormatError{Reason: "bad magic bytes"}
	}
	return nil
}

// ReadVersion reads and validates the single version byte that follows the
// magic bytes.
func ReadVersion(r io.Reader) (byte, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, &TruncatedStreamError{Stream: "version", Cause: err}
	}
	v := buf[0]
	if v != VersionV1 && v != VersionV2 {
		return 0, &UnsupportedVersionError{Version: v}
	}
	return v, nil
}

// WriteVersion writes the version byte to w.
func WriteVersion(w io.Writer, version byte) error {
	_, err := w.Write([]byte{version})
	if err != nil {
		return &IOError{Cause: err}
	}
	return nil
}
