package nafdata

import "io"

// writeCloseHook adapts an io.Writer into an io.WriteCloser by running an
// arbitrary closure on Close, e.g. to flush a block header once a
// compressed payload's length is known.
type writeCloseHook struct {
	io.Writer

	clsFn func() error
}

func (c writeCloseHook) Close() error {
	if c.clsFn != nil {
		return c.clsFn()
	}
	return nil
}

// readCloseHook adapts an io.Reader into an io.ReadCloser, running an
// arbitrary closure on Close, e.g. to verify a checksum trailer.
type readCloseHook struct {
	io.Reader

	clsFn func() error
}

func (c readCloseHook) Close() error {
	if c.clsFn != nil {
		return c.clsFn()
	}
	return nil
}

// byteReader adapts an io.Reader into an io.ByteReader one byte at a time,
// for use with binary.ReadUvarint and similar APIs.
type byteReader struct {
	io.Reader
	buf [1]byte
}

func (b byteReader) ReadByte() (byte, error) {
	_, err := io.ReadFull(b.Reader, b.buf[:])
	return b.buf[0], err
}
