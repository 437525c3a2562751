// Package naf implements the streaming Decoder and push-oriented Encoder
// for the Nucleotide Archive Format.
package naf

import "github.com/althonos/nafcodec/nafdata"

// SequenceType re-exports nafdata.SequenceType for callers of this package
// who have no other reason to import nafdata directly.
type SequenceType = nafdata.SequenceType

// Recognized sequence types.
const (
	DNA     = nafdata.SequenceDNA
	RNA     = nafdata.SequenceRNA
	Protein = nafdata.SequenceProtein
	Text    = nafdata.SequenceText
)

// Record is one entry of an archive: a tuple of optional fields. Which
// fields are populated depends on both what the archive contains and what
// the Decoder was configured to select; an Encoder rejects a Record that
// is missing a field for one of its active columns.
type Record struct {
	ID       string
	Comment  string
	Length   uint64
	Sequence string
	Quality  string

	// HasID, HasComment, HasSequence, and HasQuality distinguish an
	// absent field (column not active, or not selected) from a present
	// but empty one (e.g. an empty comment). Length has no such flag:
	// it is always meaningful whenever lengths are tracked at all.
	HasID       bool
	HasComment  bool
	HasSequence bool
	HasQuality  bool
}
