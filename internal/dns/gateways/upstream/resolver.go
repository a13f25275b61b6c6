package upstream

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/haukened/rr-relay/internal/dns/common/log"
	"github.com/haukened/rr-relay/internal/dns/domain"
	"github.com/haukened/rr-relay/internal/dns/gateways/wire"
	"github.com/haukened/rr-relay/internal/dns/services/relay"
)

// Error message constants for consistent error handling
const (
	errNoServerProvided = "no upstream DNS server provided"
	errCodecRequired    = "DNS codec is required"
	errFailedToConnect  = "failed to connect to %s: %w"
	errEncodeFailed     = "encode failed: %w"
	errWriteFailed      = "write failed: %w"
	errReadFailed       = "read failed: %w"
	errDecodeFailed     = "decode failed: %w"
	errIDMismatch       = "reply id %d does not match query id %d"
)

// Resolver forwards single messages to one upstream DNS server over a
// long-lived UDP socket. Exchanges are serialized: a second caller blocks
// until the first one has its reply.
type Resolver struct {
	server  string        // upstream address, e.g. "1.1.1.1:53"
	timeout time.Duration // per-exchange deadline, 0 disables it
	codec   wire.DNSCodec // Codec for encoding/decoding DNS messages
	dial    DialFunc      // Dial function to create network connections
	logger  log.Logger

	mu   sync.Mutex
	conn net.Conn
}

// DialFunc defines a function type for establishing a network connection.
// It takes a context for cancellation, the network type (e.g., "tcp", "udp"),
// and the address to connect to, returning a net.Conn and an error if any occurs.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// Options defines configuration parameters for the upstream DNS resolver.
type Options struct {
	// required parameters
	Server string
	Codec  wire.DNSCodec
	// Timeout bounds a single exchange. Zero waits for the reply forever.
	Timeout time.Duration
	// options to inject for testing purposes
	Dial   DialFunc
	Logger log.Logger
}

// NewResolver creates a new upstream resolver with the specified options.
// No socket is opened until the first exchange.
func NewResolver(opts Options) (*Resolver, error) {
	if opts.Server == "" {
		return nil, errors.New(errNoServerProvided)
	}
	if opts.Codec == nil {
		return nil, errors.New(errCodecRequired)
	}
	if opts.Timeout < 0 {
		opts.Timeout = 0
	}
	if opts.Dial == nil {
		opts.Dial = (&net.Dialer{}).DialContext
	}
	if opts.Logger == nil {
		opts.Logger = log.GetLogger()
	}
	return &Resolver{
		server:  opts.Server,
		timeout: opts.Timeout,
		codec:   opts.Codec,
		dial:    opts.Dial,
		logger:  opts.Logger,
	}, nil
}

// Server returns the configured upstream address.
func (r *Resolver) Server() string {
	return r.server
}

// Exchange sends query upstream and waits for the matching reply. Every
// failure is reported as domain.ErrUpstreamUnavailable and discards the
// socket so the next exchange dials again.
func (r *Resolver) Exchange(ctx context.Context, query domain.Message) (domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	payload, err := r.codec.EncodeMessage(query)
	if err != nil {
		return domain.Message{}, fmt.Errorf("%w: "+errEncodeFailed, domain.ErrUpstreamUnavailable, err)
	}

	conn, err := r.connect(ctx)
	if err != nil {
		return domain.Message{}, fmt.Errorf("%w: "+errFailedToConnect, domain.ErrUpstreamUnavailable, r.server, err)
	}

	reply, err := r.roundTrip(ctx, conn, payload)
	if err != nil {
		r.drop()
		return domain.Message{}, fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
	}

	msg, err := r.codec.DecodeMessage(reply)
	if err != nil {
		r.drop()
		return domain.Message{}, fmt.Errorf("%w: "+errDecodeFailed, domain.ErrUpstreamUnavailable, err)
	}

	queryID := query.Header().ID
	if replyID := msg.Header().ID; replyID != queryID {
		r.drop()
		return domain.Message{}, fmt.Errorf("%w: "+errIDMismatch, domain.ErrUpstreamUnavailable, replyID, queryID)
	}
	return msg, nil
}

// roundTrip writes payload and reads a single datagram back. Context
// cancellation unblocks the read by expiring the socket deadline.
func (r *Resolver) roundTrip(ctx context.Context, conn net.Conn, payload []byte) ([]byte, error) {
	if err := conn.SetDeadline(r.deadline(ctx)); err != nil {
		return nil, err
	}
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Now())
	})
	defer stop()

	if _, err := conn.Write(payload); err != nil {
		return nil, fmt.Errorf(errWriteFailed, err)
	}

	buffer := make([]byte, wire.MaxMessageSize)
	n, err := conn.Read(buffer)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf(errReadFailed, ctxErr)
		}
		return nil, fmt.Errorf(errReadFailed, err)
	}
	return buffer[:n], nil
}

// deadline picks the earlier of the context deadline and the configured
// timeout. The zero time clears any deadline left by a previous exchange.
func (r *Resolver) deadline(ctx context.Context) time.Time {
	var d time.Time
	if r.timeout > 0 {
		d = time.Now().Add(r.timeout)
	}
	if ctxDeadline, ok := ctx.Deadline(); ok && (d.IsZero() || ctxDeadline.Before(d)) {
		d = ctxDeadline
	}
	return d
}

// connect returns the cached socket, dialing it on first use.
func (r *Resolver) connect(ctx context.Context) (net.Conn, error) {
	if r.conn != nil {
		return r.conn, nil
	}
	conn, err := r.dial(ctx, "udp", r.server)
	if err != nil {
		return nil, err
	}
	r.logger.Debug(map[string]any{
		"server": r.server,
		"local":  conn.LocalAddr(),
	}, "Dialed upstream")
	r.conn = conn
	return conn, nil
}

func (r *Resolver) drop() {
	if r.conn == nil {
		return
	}
	if err := r.conn.Close(); err != nil {
		r.logger.Warn(map[string]any{"server": r.server, "error": err}, "Failed to close upstream socket")
	}
	r.conn = nil
}

// Close releases the upstream socket. The resolver stays usable and will
// dial again on the next exchange.
func (r *Resolver) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conn == nil {
		return nil
	}
	err := r.conn.Close()
	r.conn = nil
	return err
}

var _ relay.UpstreamClient = (*Resolver)(nil)
