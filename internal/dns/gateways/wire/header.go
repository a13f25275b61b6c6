package wire

import (
	"encoding/binary"
	"fmt"

	"github.com/haukened/rr-relay/internal/dns/domain"
)

// WriteHeader writes h into the first 12 bytes of dst, big-endian.
// dst is left untouched when it is shorter than domain.HeaderSize.
func WriteHeader(dst []byte, h domain.Header) error {
	if len(dst) < domain.HeaderSize {
		return fmt.Errorf("%w: header needs %d bytes, have %d", domain.ErrBufferTooShort, domain.HeaderSize, len(dst))
	}
	binary.BigEndian.PutUint16(dst[0:2], h.ID)
	binary.BigEndian.PutUint16(dst[2:4], h.Flags)
	binary.BigEndian.PutUint16(dst[4:6], h.QDCount)
	binary.BigEndian.PutUint16(dst[6:8], h.ANCount)
	binary.BigEndian.PutUint16(dst[8:10], h.NSCount)
	binary.BigEndian.PutUint16(dst[10:12], h.ARCount)
	return nil
}

// ReadHeader decodes a header from the start of src and returns the number
// of bytes consumed, which is always domain.HeaderSize on success.
func ReadHeader(src []byte) (domain.Header, int, error) {
	if len(src) < domain.HeaderSize {
		return domain.Header{}, 0, fmt.Errorf("%w: header needs %d bytes, have %d", domain.ErrBufferTooShort, domain.HeaderSize, len(src))
	}
	h := domain.Header{
		ID:      binary.BigEndian.Uint16(src[0:2]),
		Flags:   binary.BigEndian.Uint16(src[2:4]),
		QDCount: binary.BigEndian.Uint16(src[4:6]),
		ANCount: binary.BigEndian.Uint16(src[6:8]),
		NSCount: binary.BigEndian.Uint16(src[8:10]),
		ARCount: binary.BigEndian.Uint16(src[10:12]),
	}
	return h, domain.HeaderSize, nil
}
