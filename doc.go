// Package nafcodec implements the Nucleotide Archive Format (NAF), a binary
// container for nucleotide or protein sequence collections.
//
// An archive bundles several homogeneous columns — identifiers, comments,
// per-record lengths, an optional soft-mask run-length stream, a 4-bit-packed
// sequence stream, and an optional quality stream — each independently
// compressed with Zstandard. Package naf implements the streaming Decoder and
// the push-oriented Encoder; package nafdata implements the low-level binary
// primitives (header, block index, alphabet tables, mask overlay) that naf
// builds on; package store implements the pluggable spill storage the Encoder
// uses while accumulating columns before it can finalize an archive.
//
// It has a fairly basic format:
//   - magic header (0x01 0xF9 0xEC), format version, flags, sequence type
//   - one-byte header fields: line length, name separator; then VarInt
//     record count and maximum unmasked run length
//   - one block per active column, in fixed order: ids, comments, lengths,
//     mask, sequence, quality
//
// Each block is a pair of VarInts (original size, compressed size) followed
// by that many bytes of an independent Zstandard frame. The streams are
// laid out column-wise, not record-wise, so a Decoder opens one independent
// reader per selected column over its own bounded byte range of the shared
// input and interleaves them to produce records.
package nafcodec
