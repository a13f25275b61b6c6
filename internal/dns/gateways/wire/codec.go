package wire

import (
	"github.com/haukened/rr-relay/internal/dns/domain"
)

// DNSCodec converts between datagrams and domain messages. The transport
// uses it for client traffic and the upstream gateway for forwarded
// sub-requests.
type DNSCodec interface {
	// DecodeMessage parses a received datagram. data may be reused by the
	// caller as soon as DecodeMessage returns.
	DecodeMessage(data []byte) (domain.Message, error)

	// EncodeMessage serializes msg into a new datagram of at most
	// MaxMessageSize bytes.
	EncodeMessage(msg domain.Message) ([]byte, error)
}
