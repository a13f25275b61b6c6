package wire

import (
	"fmt"

	"github.com/haukened/rr-relay/internal/dns/domain"
)

// MaxMessageSize is the working buffer size for a single datagram. It is
// larger than the classic 512-byte UDP limit of RFC 1035; messages are not
// truncated to 512 bytes.
const MaxMessageSize = 1024

// EncodedLen returns the number of bytes WriteMessage needs for msg.
func EncodedLen(msg domain.Message) int {
	size := domain.HeaderSize
	for _, q := range msg.Questions() {
		size += questionLen(q)
	}
	for _, rr := range msg.Answers() {
		size += recordLen(rr)
	}
	return size
}

// WriteMessage serializes the header, the questions and the answers into
// dst and returns the number of bytes written.
//
// Authority and additional sections are not modeled, so their counts are
// written as zero. On any error dst is left unmodified.
func WriteMessage(msg domain.Message, dst []byte) (int, error) {
	size := EncodedLen(msg)
	if len(dst) < size {
		return 0, fmt.Errorf("%w: message needs %d bytes, have %d", domain.ErrCapacityExceeded, size, len(dst))
	}

	buf := make([]byte, size)
	h := msg.Header()
	h.NSCount, h.ARCount = 0, 0
	if err := WriteHeader(buf, h); err != nil {
		return 0, err
	}
	off := domain.HeaderSize

	for i, q := range msg.Questions() {
		n, err := WriteQuestion(buf[off:], q)
		if err != nil {
			return 0, fmt.Errorf("question %d: %w", i, err)
		}
		off += n
	}
	for i, rr := range msg.Answers() {
		n, err := WriteRecord(buf[off:], rr)
		if err != nil {
			return 0, fmt.Errorf("answer %d: %w", i, err)
		}
		off += n
	}

	return copy(dst, buf[:off]), nil
}

// ReadMessage decodes the header, QDCount questions and ANCount answers from
// buf. Every name is decoded against the whole of buf so compression
// pointers resolve. Authority and additional records are left unparsed;
// their counts remain visible on the returned header.
func ReadMessage(buf []byte) (domain.Message, error) {
	h, off, err := ReadHeader(buf)
	if err != nil {
		return domain.Message{}, err
	}
	msg := domain.NewMessage(h)

	for i := 0; i < int(h.QDCount); i++ {
		q, n, err := ReadQuestion(buf, off)
		if err != nil {
			return domain.Message{}, fmt.Errorf("failed to parse question %d: %w", i, err)
		}
		if err := msg.AddQuestion(q); err != nil {
			return domain.Message{}, err
		}
		off += n
	}

	for i := 0; i < int(h.ANCount); i++ {
		rr, n, err := ReadRecord(buf, off)
		if err != nil {
			return domain.Message{}, fmt.Errorf("failed to parse answer record %d: %w", i, err)
		}
		if err := msg.AddAnswer(rr); err != nil {
			return domain.Message{}, err
		}
		off += n
	}

	return msg, nil
}
