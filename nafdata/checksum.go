package nafdata

import (
	"bytes"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"io"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/sha3"
)

// ChecksumScheme selects the hash algorithm used by the optional archive
// checksum trailer. This trailer is an extension this codec adds on top of
// the base wire format: most NAF archives carry none, and a Decoder
// configured with VerifyNever never looks for one.
type ChecksumScheme byte

// Available checksum algorithms.
const (
	ChecksumNone ChecksumScheme = iota
	ChecksumSHA256
	ChecksumSHA512
	ChecksumBLAKE2s
	ChecksumBLAKE2b
	ChecksumSHA3_256
	ChecksumSHA3_512
)

func (c ChecksumScheme) String() string {
	switch c {
	case ChecksumNone:
		return "none"
	case ChecksumSHA256:
		return "sha256"
	case ChecksumSHA512:
		return "sha512"
	case ChecksumBLAKE2s:
		return "blake2s"
	case ChecksumBLAKE2b:
		return "blake2b"
	case ChecksumSHA3_256:
		return "sha3-256"
	case ChecksumSHA3_512:
		return "sha3-512"
	default:
		return fmt.Sprintf("ChecksumScheme(%d)", byte(c))
	}
}

// Valid returns nil iff c is a known scheme.
func (c ChecksumScheme) Valid() error {
	switch c {
	case ChecksumNone, ChecksumSHA256, ChecksumSHA512, ChecksumBLAKE2s,
		ChecksumBLAKE2b, ChecksumSHA3_256, ChecksumSHA3_512:
		return nil
	default:
		return &FormatError{Reason: fmt.Sprintf("unknown checksum scheme 0x%x", byte(c))}
	}
}

type nullHash struct{}

func (nullHash) Reset()                    {}
func (nullHash) BlockSize() int            { return 0 }
func (nullHash) Size() int                 { return 0 }
func (nullHash) Sum(buf []byte) []byte     { return buf }
func (nullHash) Write([]byte) (int, error) { return 0, nil }

// Hash returns the hash.Hash for this scheme.
func (c ChecksumScheme) Hash() hash.Hash {
	switch c {
	case ChecksumSHA256:
		return sha256.New()
	case ChecksumSHA512:
		return sha512.New()
	case ChecksumBLAKE2s:
		h, _ := blake2s.New256(nil)
		return h
	case ChecksumBLAKE2b:
		h, _ := blake2b.New512(nil)
		return h
	case ChecksumSHA3_256:
		return sha3.New256()
	case ChecksumSHA3_512:
		return sha3.New512()
	case ChecksumNone:
		return nullHash{}
	default:
		panic(c.Valid())
	}
}

// Writer wraps w so that, on Close, a trailer of
// scheme-byte ++ digest ++ digest-length-byte is appended covering every
// byte written since this wrapper was created.
func (c ChecksumScheme) Writer(w io.WriteCloser) io.WriteCloser {
	if c == ChecksumNone {
		return writeCloseHook{
			w,
			func() error {
				if _, err := w.Write([]byte{byte(c), 0}); err != nil {
					return &IOError{Cause: err}
				}
				return w.Close()
			},
		}
	}

	h := c.Hash()
	return writeCloseHook{
		io.MultiWriter(w, h),
		func() error {
			buf := make([]byte, 0, h.Size()+2)
			buf = append(buf, byte(c))
			buf = h.Sum(buf)
			buf = append(buf, byte(h.Size()))
			if _, err := w.Write(buf); err != nil {
				return &IOError{Cause: err}
			}
			return w.Close()
		},
	}
}

type readSeekCloser interface {
	io.Reader
	io.Seeker
	io.Closer
}

// ParseTrailer seeks to the end of r, parses the checksum trailer, and
// returns the pertinent details. nominalEnd is an offset from the
// beginning of r, as defined by io.Seeker, not from r's current position.
func ParseTrailer(r readSeekCloser) (c ChecksumScheme, h hash.Hash, nominalEnd int64, nominalChecksum []byte, err error) {
	curOffset, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return
	}
	if _, err = r.Seek(-1, io.SeekEnd); err != nil {
		return
	}
	var one [1]byte
	if _, err = io.ReadFull(r, one[:]); err != nil {
		return
	}

	nominalSize := one[0]
	if nominalEnd, err = r.Seek(-(int64(nominalSize) + 2), io.SeekCurrent); err != nil {
		return
	}
	buf := make([]byte, nominalSize+1)
	if _, err = io.ReadFull(r, buf); err != nil {
		return
	}

	c = ChecksumScheme(buf[0])
	nominalChecksum = buf[1:]
	if err = c.Valid(); err != nil {
		return
	}
	h = c.Hash()
	if int(nominalSize) != h.Size() {
		err = &FormatError{Reason: fmt.Sprintf("mismatched hash size (%s): %d expected %d", c, nominalSize, h.Size())}
		return
	}

	_, err = r.Seek(curOffset, io.SeekStart)
	return
}

// checkTrailingJunk verifies that r's cursor landed exactly on nominalEnd,
// i.e. that nothing beyond the checksummed payload precedes the trailer.
func checkTrailingJunk(r readSeekCloser, nominalEnd int64) error {
	actualEnd, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return &IOError{Cause: err}
	}
	if actualEnd != nominalEnd {
		return &FormatError{Reason: fmt.Sprintf("junk after payload (%d bytes)", nominalEnd-actualEnd)}
	}
	return nil
}

// ChecksumReader returns a ReadCloser which verifies the trailing checksum
// of the stream contained by r when it is closed. It assumes the beginning
// of the checksummed range is the current position of r.
func ChecksumReader(r readSeekCloser) (ret io.ReadCloser, c ChecksumScheme, err error) {
	start, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, c, &IOError{Cause: err}
	}
	c, h, nominalEnd, nominalChecksum, err := ParseTrailer(r)
	if err != nil {
		return nil, c, err
	}
	remaining := nominalEnd - start

	if c == ChecksumNone {
		return readCloseHook{
			io.LimitReader(r, remaining),
			func() error {
				if err := checkTrailingJunk(r, nominalEnd); err != nil {
					return err
				}
				return r.Close()
			},
		}, c, nil
	}

	ret = readCloseHook{
		io.TeeReader(io.LimitReader(r, remaining), h),
		func() error {
			if err := checkTrailingJunk(r, nominalEnd); err != nil {
				return err
			}
			actualChecksum := h.Sum(nil)
			if !bytes.Equal(actualChecksum, nominalChecksum) {
				return &ErrMismatchedChecksum{Scheme: c, Nominal: nominalChecksum, Actual: actualChecksum}
			}
			return r.Close()
		},
	}
	return ret, c, nil
}
