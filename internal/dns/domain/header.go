package domain

// Header is the fixed 12-byte DNS message header.
//
// Header is a value type: the With* builders return a modified copy and
// touch only the bits of their own field.
type Header struct {
	ID      uint16 // Transaction ID
	Flags   uint16 // QR, OPCODE, AA, TC, RD, RA, Z, RCODE
	QDCount uint16 // Question count
	ANCount uint16 // Answer count
	NSCount uint16 // Authority count
	ARCount uint16 // Additional count
}

// NewHeader returns a header carrying only the transaction ID and flags.
func NewHeader(id, flags uint16) Header {
	return Header{ID: id, Flags: flags}
}

// Response reports whether the QR bit is set.
func (h Header) Response() bool {
	return getField(h.Flags, qrShift, bitMask) == 1
}

// Opcode returns the 4-bit OPCODE field.
func (h Header) Opcode() Opcode {
	return Opcode(getField(h.Flags, opcodeShift, opcodeMask))
}

// Authoritative reports whether the AA bit is set.
func (h Header) Authoritative() bool {
	return getField(h.Flags, aaShift, bitMask) == 1
}

// Truncated reports whether the TC bit is set.
func (h Header) Truncated() bool {
	return getField(h.Flags, tcShift, bitMask) == 1
}

// RecursionDesired reports whether the RD bit is set.
func (h Header) RecursionDesired() bool {
	return getField(h.Flags, rdShift, bitMask) == 1
}

// RecursionAvailable reports whether the RA bit is set.
func (h Header) RecursionAvailable() bool {
	return getField(h.Flags, raShift, bitMask) == 1
}

// Z returns the 3 reserved bits.
func (h Header) Z() uint8 {
	return uint8(getField(h.Flags, zShift, zMask))
}

// RCode returns the 4-bit response code.
func (h Header) RCode() RCode {
	return RCode(getField(h.Flags, rcodeShift, rcodeMask))
}

// WithResponse sets or clears QR.
func (h Header) WithResponse(v bool) Header {
	h.Flags = setField(h.Flags, qrShift, bitMask, boolBit(v))
	return h
}

// WithOpcode sets OPCODE; values wider than 4 bits are masked.
func (h Header) WithOpcode(op Opcode) Header {
	h.Flags = setField(h.Flags, opcodeShift, opcodeMask, uint16(op))
	return h
}

// WithAuthoritative sets or clears AA.
func (h Header) WithAuthoritative(v bool) Header {
	h.Flags = setField(h.Flags, aaShift, bitMask, boolBit(v))
	return h
}

// WithTruncated sets or clears TC.
func (h Header) WithTruncated(v bool) Header {
	h.Flags = setField(h.Flags, tcShift, bitMask, boolBit(v))
	return h
}

// WithRecursionDesired sets or clears RD.
func (h Header) WithRecursionDesired(v bool) Header {
	h.Flags = setField(h.Flags, rdShift, bitMask, boolBit(v))
	return h
}

// WithRecursionAvailable sets or clears RA.
func (h Header) WithRecursionAvailable(v bool) Header {
	h.Flags = setField(h.Flags, raShift, bitMask, boolBit(v))
	return h
}

// WithZ sets the reserved bits; values wider than 3 bits are masked.
func (h Header) WithZ(z uint8) Header {
	h.Flags = setField(h.Flags, zShift, zMask, uint16(z))
	return h
}

// WithRCode sets RCODE; values wider than 4 bits are masked.
func (h Header) WithRCode(rc RCode) Header {
	h.Flags = setField(h.Flags, rcodeShift, rcodeMask, uint16(rc))
	return h
}

// WithoutCounts returns a copy with all four section counts reset to zero.
func (h Header) WithoutCounts() Header {
	h.QDCount, h.ANCount, h.NSCount, h.ARCount = 0, 0, 0, 0
	return h
}
