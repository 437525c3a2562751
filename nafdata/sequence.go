package nafdata

import "fmt"

// SequenceType is the type of biological sequence an archive holds, as
// carried by the header's sequence type byte.
type SequenceType byte

// Recognized sequence types.
const (
	SequenceDNA     SequenceType = 0
	SequenceRNA     SequenceType = 1
	SequenceProtein SequenceType = 2
	SequenceText    SequenceType = 3
)

func (t SequenceType) String() string {
	switch t {
	case SequenceDNA:
		return "dna"
	case SequenceRNA:
		return "rna"
	case SequenceProtein:
		return "protein"
	case SequenceText:
		return "text"
	default:
		return fmt.Sprintf("SequenceType(%d)", byte(t))
	}
}

// Valid reports whether t is a recognized sequence type code.
func (t SequenceType) Valid() bool {
	switch t {
	case SequenceDNA, SequenceRNA, SequenceProtein, SequenceText:
		return true
	default:
		return false
	}
}

// IsNucleotide reports whether t is packed 4 bits per symbol (dna or rna).
// Protein and text sequences are stored one byte per symbol instead.
func (t SequenceType) IsNucleotide() bool {
	return t == SequenceDNA || t == SequenceRNA
}

// dnaNibbleToSymbol maps a 4-bit packed value to its IUPAC ambiguity code
// for DNA. Bit 0 = A, bit 1 = C, bit 2 = G, bit 3 = T; every other symbol is
// the OR-combination of the bases it may represent. Value 0 is a gap.
//
// This table must match the reference byte-for-byte: A=1, C=2, G=4, T=8.
var dnaNibbleToSymbol = [16]byte{
	0x0: '-',
	0x1: 'A',
	0x2: 'C',
	0x3: 'M',
	0x4: 'G',
	0x5: 'R',
	0x6: 'S',
	0x7: 'V',
	0x8: 'T',
	0x9: 'W',
	0xA: 'Y',
	0xB: 'H',
	0xC: 'K',
	0xD: 'D',
	0xE: 'B',
	0xF: 'N',
}

// rnaNibbleToSymbol is dnaNibbleToSymbol with T replaced by U; the
// ambiguity code letters for combinations involving the fourth base are
// unchanged since IUPAC reuses the same letters for T and U.
var rnaNibbleToSymbol = [16]byte{
	0x0: '-',
	0x1: 'A',
	0x2: 'C',
	0x3: 'M',
	0x4: 'G',
	0x5: 'R',
	0x6: 'S',
	0x7: 'V',
	0x8: 'U',
	0x9: 'W',
	0xA: 'Y',
	0xB: 'H',
	0xC: 'K',
	0xD: 'D',
	0xE: 'B',
	0xF: 'N',
}

var (
	dnaSymbolToNibble = invertTable(dnaNibbleToSymbol)
	rnaSymbolToNibble = invertTable(rnaNibbleToSymbol)
)

func invertTable(table [16]byte) map[byte]byte {
	out := make(map[byte]byte, 16)
	for nibble, symbol := range table {
		out[symbol] = byte(nibble)
		// Accept lowercase input too; soft-masking is applied after
		// lookup, never encoded into the nibble itself.
		lower := symbol
		if lower >= 'A' && lower <= 'Z' {
			lower += 'a' - 'A'
		}
		out[lower] = byte(nibble)
	}
	return out
}

func nibbleTable(t SequenceType) [16]byte {
	if t == SequenceRNA {
		return rnaNibbleToSymbol
	}
	return dnaNibbleToSymbol
}

func symbolTable(t SequenceType) map[byte]byte {
	if t == SequenceRNA {
		return rnaSymbolToNibble
	}
	return dnaSymbolToNibble
}

// DecodeNucleotide maps a 4-bit packed value to its upper-case IUPAC symbol
// for the given sequence type. It returns InvalidSymbolError for t that is
// not a nucleotide type, or for a nibble outside 0-15 (impossible for a
// proper nibble but checked for defense against malformed callers).
func DecodeNucleotide(t SequenceType, nibble byte) (byte, error) {
	if !t.IsNucleotide() {
		return 0, &InvalidSymbolError{SequenceType: t, Value: nibble}
	}
	if nibble > 0x0F {
		return 0, &InvalidSymbolError{SequenceType: t, Value: nibble}
	}
	return nibbleTable(t)[nibble], nil
}

// EncodeNucleotide maps an upper- or lower-case IUPAC symbol to its 4-bit
// packed value for the given sequence type. It returns InvalidSymbolError
// for a symbol outside the declared alphabet.
func EncodeNucleotide(t SequenceType, symbol byte) (byte, error) {
	table := symbolTable(t)
	nibble, ok := table[symbol]
	if !ok {
		return 0, &InvalidSymbolError{SequenceType: t, Value: symbol}
	}
	return nibble, nil
}

// IsLower reports whether symbol is a lowercase ASCII letter, i.e. whether
// it carries a soft-mask.
func IsLower(symbol byte) bool { return symbol >= 'a' && symbol <= 'z' }

// ToUpper returns the upper-case form of an ASCII letter, leaving all other
// bytes unchanged.
func ToUpper(symbol byte) byte {
	if symbol >= 'a' && symbol <= 'z' {
		return symbol - ('a' - 'A')
	}
	return symbol
}

// ToLower returns the lower-case form of an ASCII letter, leaving all other
// bytes unchanged.
func ToLower(symbol byte) byte {
	if symbol >= 'A' && symbol <= 'Z' {
		return symbol + ('a' - 'A')
	}
	return symbol
}
