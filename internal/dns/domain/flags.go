package domain

// Header flag layout (RFC 1035 Section 4.1.1).
//
//	+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+
//	|QR|   Opcode  |AA|TC|RD|RA|   Z    |   RCODE   |
//	+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+
//	 15 14 13 12 11 10  9  8  7  6  5  4  3  2  1  0
//
// Single-bit fields are described by their bit position; multi-bit fields
// by a shift and an unshifted width mask.
const (
	qrShift     = 15
	opcodeShift = 11
	aaShift     = 10
	tcShift     = 9
	rdShift     = 8
	raShift     = 7
	zShift      = 4
	rcodeShift  = 0

	bitMask    uint16 = 0x1
	opcodeMask uint16 = 0xF
	zMask      uint16 = 0x7
	rcodeMask  uint16 = 0xF
)

// HeaderSize is the fixed size of a DNS header on the wire.
const HeaderSize = 12

// Opcode is the 4-bit kind of query carried in the header.
type Opcode uint8

const (
	OpcodeQuery  Opcode = 0 // QUERY - standard query
	OpcodeIQuery Opcode = 1 // IQUERY - inverse query (obsolete)
	OpcodeStatus Opcode = 2 // STATUS - server status request
)

// String returns the textual representation of the Opcode.
func (o Opcode) String() string {
	switch o {
	case OpcodeQuery:
		return "QUERY"
	case OpcodeIQuery:
		return "IQUERY"
	case OpcodeStatus:
		return "STATUS"
	default:
		return "UNKNOWN"
	}
}

// getField extracts a field of the given width mask at shift from flags.
func getField(flags uint16, shift uint, mask uint16) uint16 {
	return (flags >> shift) & mask
}

// setField clears the target bits, then ORs in v masked to the field width.
func setField(flags uint16, shift uint, mask uint16, v uint16) uint16 {
	flags &^= mask << shift
	return flags | (v&mask)<<shift
}

func boolBit(b bool) uint16 {
	if b {
		return 1
	}
	return 0
}
