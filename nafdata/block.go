package nafdata

import "io"

// BlockEntry is one entry of the block index: the position and sizes of a
// single column's compressed Zstandard frame within the archive.
type BlockEntry struct {
	Flag           Flag
	Offset         int64
	OriginalSize   uint64
	CompressedSize uint64
}

// ReadBlockIndex reads, in the fixed block order, the (original_size,
// compressed_size) VarInt pair for every column flagged present in flags,
// skipping forward over each block's compressed bytes without
// decompressing. r must support Seek; its position on return is just past
// the last indexed block (i.e. at the start of any trailer, or EOF).
func ReadBlockIndex(r io.ReadSeeker, flags Flags) ([]BlockEntry, error) {
	var entries []BlockEntry
	br := byteReader{Reader: r}

	for _, flag := range blockOrder {
		if !flags.Has(flag) {
			continue
		}

		originalSize, err := ReadUvarint(br)
		if err != nil {
			return nil, err
		}
		compressedSize, err := ReadUvarint(br)
		if err != nil {
			return nil, err
		}
		offset, err := r.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, &IOError{Cause: err}
		}

		entries = append(entries, BlockEntry{
			Flag:           flag,
			Offset:         offset,
			OriginalSize:   originalSize,
			CompressedSize: compressedSize,
		})

		if _, err := r.Seek(int64(compressedSize), io.SeekCurrent); err != nil {
			return nil, &IOError{Cause: err}
		}
	}

	return entries, nil
}

// WriteBlockEntry writes the (original_size, compressed_size) VarInt pair
// that precedes a block's compressed payload.
func WriteBlockEntry(w io.Writer, originalSize, compressedSize uint64) error {
	if err := WriteUvarint(w, originalSize); err != nil {
		return err
	}
	return WriteUvarint(w, compressedSize)
}

// Find returns the entry for flag, if present.
func Find(entries []BlockEntry, flag Flag) (BlockEntry, bool) {
	for _, e := range entries {
		if e.Flag == flag {
			return e, true
		}
	}
	return BlockEntry{}, false
}
