package wire

import (
	"encoding/binary"
	"fmt"

	"github.com/haukened/rr-relay/internal/dns/domain"
)

// rrFixedLen is TYPE + CLASS + TTL + RDLENGTH.
const rrFixedLen = 10

// recordLen returns the encoded size of rr.
func recordLen(rr domain.ResourceRecord) int {
	return rr.Name.WireLen() + rrFixedLen + rr.DataLen()
}

// WriteRecord encodes rr as NAME, TYPE, CLASS, TTL, RDLENGTH, RDATA.
func WriteRecord(dst []byte, rr domain.ResourceRecord) (int, error) {
	if rr.DataLen() > 0xFFFF {
		return 0, fmt.Errorf("resource record data too large: %d bytes (max 65535)", rr.DataLen())
	}
	if len(dst) < recordLen(rr) {
		return 0, fmt.Errorf("%w: record needs %d bytes, have %d", domain.ErrCapacityExceeded, recordLen(rr), len(dst))
	}
	off, err := WriteName(dst, rr.Name)
	if err != nil {
		return 0, err
	}
	binary.BigEndian.PutUint16(dst[off:off+2], uint16(rr.Type))
	binary.BigEndian.PutUint16(dst[off+2:off+4], uint16(rr.Class))
	binary.BigEndian.PutUint32(dst[off+4:off+8], rr.TTL)
	//gosec:disable G115 -- DataLen is bounded to 65535 above.
	binary.BigEndian.PutUint16(dst[off+8:off+10], uint16(rr.DataLen()))
	off += rrFixedLen
	off += rr.CopyData(dst[off:])
	return off, nil
}

// ReadRecord decodes a resource record starting at off in msg and returns
// the number of bytes consumed. RDATA is copied out of msg.
func ReadRecord(msg []byte, off int) (domain.ResourceRecord, int, error) {
	name, n, err := ReadName(msg, off)
	if err != nil {
		return domain.ResourceRecord{}, 0, fmt.Errorf("failed to decode record name: %w", err)
	}
	pos := off + n
	if pos+rrFixedLen > len(msg) {
		return domain.ResourceRecord{}, 0, fmt.Errorf("%w: record section after name", domain.ErrTruncated)
	}

	typ := binary.BigEndian.Uint16(msg[pos : pos+2])
	class := binary.BigEndian.Uint16(msg[pos+2 : pos+4])
	ttl := binary.BigEndian.Uint32(msg[pos+4 : pos+8])
	rdLen := int(binary.BigEndian.Uint16(msg[pos+8 : pos+10]))
	pos += rrFixedLen

	if pos+rdLen > len(msg) {
		return domain.ResourceRecord{}, 0, fmt.Errorf("%w: rdata", domain.ErrTruncated)
	}

	rr, err := domain.NewResourceRecord(name, domain.RRType(typ), domain.RRClass(class), ttl, msg[pos:pos+rdLen])
	if err != nil {
		return domain.ResourceRecord{}, 0, fmt.Errorf("invalid resource record: %w", err)
	}
	return rr, pos + rdLen - off, nil
}
