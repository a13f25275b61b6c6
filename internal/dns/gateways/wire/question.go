package wire

import (
	"encoding/binary"
	"fmt"

	"github.com/haukened/rr-relay/internal/dns/domain"
)

// questionLen returns the encoded size of q.
func questionLen(q domain.Question) int {
	return q.Name.WireLen() + 4
}

// WriteQuestion encodes q as NAME, QTYPE, QCLASS.
func WriteQuestion(dst []byte, q domain.Question) (int, error) {
	if len(dst) < questionLen(q) {
		return 0, fmt.Errorf("%w: question needs %d bytes, have %d", domain.ErrCapacityExceeded, questionLen(q), len(dst))
	}
	off, err := WriteName(dst, q.Name)
	if err != nil {
		return 0, err
	}
	binary.BigEndian.PutUint16(dst[off:off+2], uint16(q.Type))
	binary.BigEndian.PutUint16(dst[off+2:off+4], uint16(q.Class))
	return off + 4, nil
}

// ReadQuestion decodes a question starting at off in msg and returns the
// number of bytes consumed.
func ReadQuestion(msg []byte, off int) (domain.Question, int, error) {
	name, n, err := ReadName(msg, off)
	if err != nil {
		return domain.Question{}, 0, err
	}
	pos := off + n
	if pos+4 > len(msg) {
		return domain.Question{}, 0, fmt.Errorf("%w: question type/class at offset %d", domain.ErrTruncated, pos)
	}
	q, err := domain.NewQuestion(
		name,
		domain.RRType(binary.BigEndian.Uint16(msg[pos:pos+2])),
		domain.RRClass(binary.BigEndian.Uint16(msg[pos+2:pos+4])),
	)
	if err != nil {
		return domain.Question{}, 0, err
	}
	return q, n + 4, nil
}
