package nafdata

// Flag is a single bit of the header's flags byte.
type Flag byte

// Flag bits, in the order the format defines them.
const (
	FlagExtended Flag = 1 << 0 // reserved
	FlagTitle    Flag = 1 << 1 // v2 only
	FlagIDs      Flag = 1 << 2
	FlagComments Flag = 1 << 3
	FlagLengths  Flag = 1 << 4
	FlagMask     Flag = 1 << 5
	FlagSequence Flag = 1 << 6
	FlagQuality  Flag = 1 << 7
)

// blockOrder is the fixed order in which present blocks appear in the
// archive after the header. Index position doubles as decode order.
var blockOrder = [6]Flag{FlagIDs, FlagComments, FlagLengths, FlagMask, FlagSequence, FlagQuality}

// Flags is the decoded form of the header's flags byte.
type Flags byte

// Has reports whether f is set.
func (flags Flags) Has(f Flag) bool { return byte(flags)&byte(f) != 0 }

// Set returns flags with f set.
func (flags Flags) Set(f Flag) Flags { return flags | Flags(f) }

// Clear returns flags with f cleared.
func (flags Flags) Clear(f Flag) Flags { return flags &^ Flags(f) }

// Byte returns the raw flags byte.
func (flags Flags) Byte() byte { return byte(flags) }
