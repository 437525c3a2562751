package nafdata

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is. Each concrete error type below,
// except IOError and ErrMismatchedChecksum, matches one of these through its
// Is method so that callers can test the error kind without inspecting
// fields.
var (
	// ErrFormat indicates the magic, flags, or sequence type code is
	// invalid, or the archive violates a structural invariant (e.g. a
	// sequence stream present without a lengths stream).
	ErrFormat = errors.New("naf: invalid format")

	// ErrUnsupportedVersion indicates an unrecognized version byte.
	ErrUnsupportedVersion = errors.New("naf: unsupported version")

	// ErrTruncatedStream indicates a sub-stream ended before its expected
	// per-record quantum was consumed.
	ErrTruncatedStream = errors.New("naf: truncated stream")

	// ErrInvalidSymbol indicates a nibble or byte outside the alphabet
	// declared for the archive's sequence type.
	ErrInvalidSymbol = errors.New("naf: invalid symbol")

	// ErrLengthMismatch indicates the aggregated record lengths disagree
	// with the actual sequence or mask stream consumption.
	ErrLengthMismatch = errors.New("naf: length mismatch")

	// ErrDecompression indicates the underlying Zstandard decoder
	// reported an error.
	ErrDecompression = errors.New("naf: decompression error")

	// ErrMissingField indicates an Encoder column received no value for
	// a record even though the column is active.
	ErrMissingField = errors.New("naf: missing field")
)

// FormatError reports a structural violation of the archive format.
type FormatError struct {
	Reason string
	Cause  error
}

func (e *FormatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("naf: invalid format: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("naf: invalid format: %s", e.Reason)
}

func (e *FormatError) Unwrap() error { return e.Cause }
func (e *FormatError) Is(target error) bool { return target == ErrFormat }

// UnsupportedVersionError reports an unrecognized version byte.
type UnsupportedVersionError struct {
	Version byte
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("naf: unsupported version 0x%02x", e.Version)
}

func (e *UnsupportedVersionError) Is(target error) bool { return target == ErrUnsupportedVersion }

// TruncatedStreamError reports a sub-stream that ended early.
type TruncatedStreamError struct {
	Stream string
	Cause  error
}

func (e *TruncatedStreamError) Error() string {
	return fmt.Sprintf("naf: truncated %s stream", e.Stream)
}

func (e *TruncatedStreamError) Unwrap() error { return e.Cause }
func (e *TruncatedStreamError) Is(target error) bool { return target == ErrTruncatedStream }

// InvalidSymbolError reports a nibble or byte outside the declared alphabet.
type InvalidSymbolError struct {
	SequenceType SequenceType
	Value        byte
}

func (e *InvalidSymbolError) Error() string {
	return fmt.Sprintf("naf: invalid symbol 0x%x for sequence type %s", e.Value, e.SequenceType)
}

func (e *InvalidSymbolError) Is(target error) bool { return target == ErrInvalidSymbol }

// LengthMismatchError reports disagreement between declared and actual
// lengths.
type LengthMismatchError struct {
	Declared uint64
	Actual   uint64
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("naf: length mismatch: declared %d, actual %d", e.Declared, e.Actual)
}

func (e *LengthMismatchError) Is(target error) bool { return target == ErrLengthMismatch }

// DecompressionError wraps an error reported by the underlying Zstandard
// codec.
type DecompressionError struct {
	Stream string
	Cause  error
}

func (e *DecompressionError) Error() string {
	return fmt.Sprintf("naf: decompressing %s stream: %v", e.Stream, e.Cause)
}

func (e *DecompressionError) Unwrap() error { return e.Cause }
func (e *DecompressionError) Is(target error) bool { return target == ErrDecompression }

// MissingFieldError reports that an active Encoder column received no
// value for a pushed record.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("naf: missing %s field for active column", e.Field)
}

func (e *MissingFieldError) Is(target error) bool { return target == ErrMissingField }

// IOError wraps an error from the underlying byte source or sink.
type IOError struct {
	Cause error
}

func (e *IOError) Error() string { return fmt.Sprintf("naf: io error: %v", e.Cause) }
func (e *IOError) Unwrap() error { return e.Cause }

// ErrMismatchedChecksum is returned from trailer verification if the
// recorded checksum does not match the recomputed one. This is an additive
// error kind for the optional integrity trailer; it has no equivalent in
// the base wire format.
type ErrMismatchedChecksum struct {
	Scheme   ChecksumScheme
	Nominal  []byte
	Actual   []byte
}

func (e *ErrMismatchedChecksum) Error() string {
	return fmt.Sprintf("naf: mismatched checksum (%s): got %x, want %x", e.Scheme, e.Actual, e.Nominal)
}
