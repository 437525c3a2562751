// Package nafdata implements the low-level binary primitives of the
// Nucleotide Archive Format: VarInt encoding, the magic bytes and header,
// the flags bitfield and fixed block order, the block index, per-column
// Zstandard section readers, the 4-bit nucleotide alphabet tables, the
// soft-mask run-length codec, and the optional checksum trailer.
//
// Package naf builds the streaming Decoder and Encoder on top of these
// primitives; nothing in this package understands records or field
// selection.
package nafdata
