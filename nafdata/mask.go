package nafdata

import "io"

// MaskReader consumes VarInt run-lengths from a mask stream and reports,
// for each symbol position, whether it falls within a masked run. Runs
// alternate starting with unmasked and may span record boundaries; the
// cursor advances only as far as records actually need.
type MaskReader struct {
	r io.ByteReader

	remaining uint64
	masked    bool
	started   bool
}

// NewMaskReader wraps r, which must yield the decompressed mask stream.
func NewMaskReader(r io.Reader) *MaskReader {
	return &MaskReader{r: byteReader{Reader: r}}
}

// firstRun reads the opening run length. Runs start unmasked, so this does
// not toggle m.masked away from its zero value.
func (m *MaskReader) firstRun() error {
	n, err := ReadUvarint(m.r)
	if err != nil {
		return err
	}
	m.remaining = n
	return nil
}

func (m *MaskReader) nextRun() error {
	n, err := ReadUvarint(m.r)
	if err != nil {
		return err
	}
	m.remaining = n
	m.masked = !m.masked
	return nil
}

// Advance reports, for the next n symbol positions starting at the current
// cursor, how many of them are masked versus unmasked, consuming exactly n
// positions' worth of run-length state. It may read multiple VarInts from
// the underlying stream if n spans a run boundary; it calls mark(isMasked,
// count) once per contiguous sub-run within n.
func (m *MaskReader) Advance(n uint64, mark func(masked bool, count uint64)) error {
	if !m.started {
		m.started = true
		if err := m.firstRun(); err != nil {
			return err
		}
	}
	for n > 0 {
		if m.remaining == 0 {
			if err := m.nextRun(); err != nil {
				return err
			}
			continue
		}
		take := m.remaining
		if take > n {
			take = n
		}
		mark(m.masked, take)
		m.remaining -= take
		n -= take
	}
	return nil
}

// MaskWriter accumulates a run-length-encoded mask stream from a sequence
// of per-symbol masked/unmasked observations, emitting a VarInt each time
// the state transitions. Runs start unmasked and may span record
// boundaries; the final run is flushed by Close.
type MaskWriter struct {
	w io.Writer

	run    uint64
	masked bool
	any    bool
	maxRun uint64
}

// NewMaskWriter wraps w, which receives the mask stream payload.
func NewMaskWriter(w io.Writer) *MaskWriter {
	return &MaskWriter{w: w}
}

// Push records count consecutive symbols with the given masked state.
func (m *MaskWriter) Push(masked bool, count uint64) error {
	if count == 0 {
		return nil
	}
	if !m.any {
		m.any = true
		m.masked = false // runs always start unmasked
		if masked {
			// an immediate masked run means an unmasked run of length
			// zero opens the stream
			if err := WriteUvarint(m.w, 0); err != nil {
				return err
			}
			m.masked = true
		}
	}
	if masked != m.masked {
		if err := m.flushRun(); err != nil {
			return err
		}
		m.masked = masked
	}
	m.run += count
	return nil
}

func (m *MaskWriter) flushRun() error {
	if !m.masked && m.run > m.maxRun {
		m.maxRun = m.run
	}
	if err := WriteUvarint(m.w, m.run); err != nil {
		return err
	}
	m.run = 0
	return nil
}

// MaxUnmaskedRun returns the longest unmasked run observed so far, for use
// as the header's advisory max_run field.
func (m *MaskWriter) MaxUnmaskedRun() uint64 { return m.maxRun }

// Close flushes the final open run.
func (m *MaskWriter) Close() error {
	if !m.any {
		return nil
	}
	return m.flushRun()
}
