// Package wire provides encoding and decoding of DNS messages for UDP transport.
// It handles the DNS wire format as specified in RFC 1035, including
// compressed names on input.
package wire

import (
	"fmt"

	"github.com/haukened/rr-relay/internal/dns/common/log"
	"github.com/haukened/rr-relay/internal/dns/common/rrdata"
	"github.com/haukened/rr-relay/internal/dns/domain"
)

// udpCodec implements the DNSCodec interface for standard DNS over UDP messages.
type udpCodec struct {
	logger log.Logger
}

// NewUDPCodec creates and returns a new instance of udpCodec using the provided logger.
// The logger is used for logging within the codec.
func NewUDPCodec(logger log.Logger) *udpCodec {
	return &udpCodec{
		logger: logger,
	}
}

// DecodeMessage parses a DNS message from data.
func (c *udpCodec) DecodeMessage(data []byte) (domain.Message, error) {
	if len(data) > MaxMessageSize {
		return domain.Message{}, fmt.Errorf("%w: datagram of %d bytes exceeds %d", domain.ErrCapacityExceeded, len(data), MaxMessageSize)
	}

	msg, err := ReadMessage(data)
	if err != nil {
		return domain.Message{}, err
	}

	h := msg.Header()
	c.logger.Debug(map[string]any{
		"step":   "decoded",
		"id":     h.ID,
		"qr":     h.Response(),
		"opcode": h.Opcode().String(),
		"rcode":  h.RCode().String(),
		"qd":     h.QDCount,
		"an":     h.ANCount,
		"ns":     h.NSCount,
		"ar":     h.ARCount,
	}, "Decoded DNS message")

	for _, q := range msg.Questions() {
		c.logger.Debug(map[string]any{
			"step":  "question_read",
			"name":  q.Name.String(),
			"type":  q.Type.String(),
			"class": q.Class.String(),
		}, "Read question")
	}

	return msg, nil
}

// EncodeMessage serializes a Message into a binary format suitable for sending via UDP.
func (c *udpCodec) EncodeMessage(msg domain.Message) ([]byte, error) {
	buf := make([]byte, MaxMessageSize)
	n, err := WriteMessage(msg, buf)
	if err != nil {
		return nil, err
	}

	h := msg.Header()
	c.logger.Debug(map[string]any{
		"step":  "header_written",
		"id":    h.ID,
		"qr":    h.Response(),
		"rcode": h.RCode().String(),
		"qd":    h.QDCount,
		"an":    h.ANCount,
	}, "Wrote DNS message header")

	for _, rr := range msg.Answers() {
		c.logger.Debug(map[string]any{
			"step":  "answer_written",
			"name":  rr.Name.String(),
			"type":  rr.Type.String(),
			"class": rr.Class.String(),
			"ttl":   rr.TTL,
			"data":  rrdata.Describe(rr.Type, rr.Data()),
		}, "Wrote answer record")
	}

	c.logger.Debug(map[string]any{
		"step": "final_packet",
		"size": n,
		"raw":  fmt.Sprintf("%x", buf[:n]),
	}, "Final encoded DNS message")

	return buf[:n], nil
}

var _ DNSCodec = &udpCodec{}
