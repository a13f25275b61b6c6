package wire

import (
	"encoding/binary"
	"fmt"
	"slices"

	"github.com/haukened/rr-relay/internal/dns/domain"
)

const (
	labelKindMask    = 0xC0
	labelKindLiteral = 0x00
	labelKindPointer = 0xC0
	pointerMask      = 0x3FFF
)

// WriteName encodes name into dst as length-prefixed labels followed by a
// zero byte. Names are never compressed on output.
func WriteName(dst []byte, name domain.Name) (int, error) {
	labels := name.Labels()
	for _, label := range labels {
		if len(label) > domain.MaxLabelLength {
			return 0, fmt.Errorf("%w: %q", domain.ErrLabelTooLong, label)
		}
	}
	size := name.WireLen()
	if len(dst) < size {
		return 0, fmt.Errorf("%w: name needs %d bytes, have %d", domain.ErrCapacityExceeded, size, len(dst))
	}

	off := 0
	for _, label := range labels {
		dst[off] = byte(len(label))
		off++
		off += copy(dst[off:], label)
	}
	dst[off] = 0
	return off + 1, nil
}

// ReadName decodes a possibly compressed name that starts at off in msg.
// msg must be the complete datagram, since compression pointers are offsets
// from its first byte.
//
// The returned count is the number of bytes the name occupies at off: the
// literal labels up to and including either the zero terminator or the
// first 2-byte pointer. Bytes read at pointer targets are not counted.
//
// Pointers must point strictly backwards from their own position, and no
// target may be visited twice, so crafted input cannot loop.
func ReadName(msg []byte, off int) (domain.Name, int, error) {
	var (
		labels   []string
		visited  []int
		consumed = -1
		pos      = off
	)

	for {
		if pos >= len(msg) {
			return domain.Name{}, 0, fmt.Errorf("%w: name at offset %d", domain.ErrTruncated, off)
		}
		b := msg[pos]

		switch b & labelKindMask {
		case labelKindLiteral:
			if b == 0 {
				if consumed < 0 {
					consumed = pos + 1 - off
				}
				name, err := domain.NewName(labels...)
				if err != nil {
					return domain.Name{}, 0, err
				}
				return name, consumed, nil
			}
			end := pos + 1 + int(b)
			if end > len(msg) {
				return domain.Name{}, 0, fmt.Errorf("%w: label at offset %d runs past end", domain.ErrTruncated, pos)
			}
			labels = append(labels, string(msg[pos+1:end]))
			pos = end

		case labelKindPointer:
			if pos+1 >= len(msg) {
				return domain.Name{}, 0, fmt.Errorf("%w: pointer at offset %d", domain.ErrTruncated, pos)
			}
			target := int(binary.BigEndian.Uint16(msg[pos:pos+2]) & pointerMask)
			if target >= len(msg) {
				return domain.Name{}, 0, fmt.Errorf("%w: target %d outside %d-byte message", domain.ErrMalformedPointer, target, len(msg))
			}
			if target >= pos {
				return domain.Name{}, 0, fmt.Errorf("%w: target %d not before pointer at %d", domain.ErrMalformedPointer, target, pos)
			}
			if slices.Contains(visited, target) {
				return domain.Name{}, 0, fmt.Errorf("%w: loop through offset %d", domain.ErrMalformedPointer, target)
			}
			visited = append(visited, target)
			if consumed < 0 {
				consumed = pos + 2 - off
			}
			pos = target

		default:
			return domain.Name{}, 0, fmt.Errorf("%w: %#02x at offset %d", domain.ErrMalformedLabel, b, pos)
		}
	}
}
