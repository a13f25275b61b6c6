package relay

import (
	"context"
	"net"

	"github.com/haukened/rr-relay/internal/dns/domain"
)

// UpstreamClient performs one request/response exchange with an upstream
// resolver. Implementations must not have more than one exchange in flight.
type UpstreamClient interface {
	Exchange(ctx context.Context, query domain.Message) (domain.Message, error)
}

type DNSResponder interface {
	// HandleRequest processes a DNS request and returns the reply to send.
	// The transport handles all network protocol details - the handler only sees domain objects.
	HandleRequest(ctx context.Context, req domain.Message, clientAddr net.Addr) domain.Message
}

// ServerTransport defines the interface for DNS server transport implementations.
type ServerTransport interface {
	// Start begins listening for requests and handling them via the provided handler.
	// The transport handles all network protocol concerns and wire format conversion.
	Start(ctx context.Context, handler DNSResponder) error

	// Stop gracefully shuts down the transport, closing connections and cleaning up resources.
	Stop() error

	// Address returns the network address the transport is bound to.
	Address() string
}
