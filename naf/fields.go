package naf

import "github.com/althonos/nafcodec/nafdata"

// Fields is a bitmask of archive columns, used both to declare which
// columns an Encoder should write and to select which columns a Decoder
// should read. The zero value selects nothing; AllFields selects every
// column.
type Fields nafdata.Flags

// Individual selectable fields. These reuse the header's flag bit
// positions so that Fields(archive.Flags) is always a legal mask for that
// archive.
const (
	FieldIDs      Fields = Fields(nafdata.FlagIDs)
	FieldComments Fields = Fields(nafdata.FlagComments)
	FieldLengths  Fields = Fields(nafdata.FlagLengths)
	FieldMask     Fields = Fields(nafdata.FlagMask)
	FieldSequence Fields = Fields(nafdata.FlagSequence)
	FieldQuality  Fields = Fields(nafdata.FlagQuality)
)

// AllFields selects every column.
const AllFields Fields = FieldIDs | FieldComments | FieldLengths | FieldMask | FieldSequence | FieldQuality

// Has reports whether f is included in the mask.
func (m Fields) Has(f Fields) bool { return m&f != 0 }

// With returns m with f added.
func (m Fields) With(f Fields) Fields { return m | f }

// Without returns m with f removed.
func (m Fields) Without(f Fields) Fields { return m &^ f }
