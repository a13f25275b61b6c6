package transport

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/haukened/rr-relay/internal/dns/common/log"
	"github.com/haukened/rr-relay/internal/dns/domain"
	"github.com/haukened/rr-relay/internal/dns/gateways/wire"
	"github.com/haukened/rr-relay/internal/dns/services/relay"
)

// UDPTransport implements ServerTransport for standard DNS over UDP (RFC 1035).
// Requests are served one at a time: the loop reads a datagram, waits for
// the handler, writes the reply and only then reads the next datagram.
type UDPTransport struct {
	addr   string
	conn   *net.UDPConn
	codec  wire.DNSCodec
	logger log.Logger

	// Synchronization for graceful shutdown
	mu      sync.RWMutex
	running bool
	stopCh  chan struct{}
	done    chan struct{}
	// detaches the context watcher registered by Start
	unwatch func() bool
}

// NewUDPTransport creates a new UDP transport instance.
func NewUDPTransport(addr string, codec wire.DNSCodec, logger log.Logger) *UDPTransport {
	return &UDPTransport{
		addr:   addr,
		codec:  codec,
		logger: logger,
		stopCh: make(chan struct{}),
	}
}

// Start binds the UDP socket and starts the packet handling loop in the
// background. Cancelling ctx stops the transport.
func (t *UDPTransport) Start(ctx context.Context, handler relay.DNSResponder) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return fmt.Errorf("UDP transport already running")
	}

	// Parse and bind to UDP address
	udpAddr, err := net.ResolveUDPAddr("udp", t.addr)
	if err != nil {
		return fmt.Errorf("failed to resolve UDP address %s: %w", t.addr, err)
	}

	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return fmt.Errorf("failed to bind UDP socket on %s: %w", t.addr, err)
	}

	t.conn = conn
	t.running = true
	t.stopCh = make(chan struct{})
	t.done = make(chan struct{})

	t.logger.Info(map[string]any{
		"transport": "udp",
		"address":   conn.LocalAddr().String(),
	}, "DNS transport started")

	go t.listenLoop(ctx, conn, handler, t.stopCh, t.done)
	t.unwatch = context.AfterFunc(ctx, func() {
		_ = t.Stop()
	})

	return nil
}

// Stop closes the socket and waits for the packet loop to exit.
func (t *UDPTransport) Stop() error {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return nil
	}

	// Signal stop and close connection
	close(t.stopCh)
	t.running = false
	if t.unwatch != nil {
		t.unwatch()
	}

	var closeErr error
	if t.conn != nil {
		closeErr = t.conn.Close()
		if closeErr != nil {
			t.logger.Warn(map[string]any{
				"error": closeErr.Error(),
			}, "Error closing UDP connection")
		}
	}
	done := t.done
	t.mu.Unlock()

	if done != nil {
		<-done
	}

	t.logger.Info(map[string]any{
		"transport": "udp",
		"address":   t.Address(),
	}, "DNS transport stopped")

	return closeErr
}

// Address returns the bound address once started, the configured one before.
func (t *UDPTransport) Address() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.conn != nil {
		return t.conn.LocalAddr().String()
	}
	return t.addr
}

func (t *UDPTransport) isRunning() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.running
}

// listenLoop reads and serves datagrams until the transport stops.
func (t *UDPTransport) listenLoop(ctx context.Context, conn *net.UDPConn, handler relay.DNSResponder, stopCh <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	buffer := make([]byte, wire.MaxMessageSize)

	for {
		select {
		case <-ctx.Done():
			t.logger.Debug(nil, "UDP transport stopping due to context cancellation")
			return
		case <-stopCh:
			t.logger.Debug(nil, "UDP transport stopping due to stop signal")
			return
		default:
		}

		n, clientAddr, err := conn.ReadFromUDP(buffer)
		if err != nil {
			if !t.isRunning() {
				return // Normal shutdown
			}
			t.logger.Warn(map[string]any{
				"error": err.Error(),
			}, "Failed to read UDP packet")
			continue
		}

		t.handlePacket(ctx, conn, buffer[:n], clientAddr, handler)
	}
}

// handlePacket decodes one datagram, runs the handler and writes the reply.
// A datagram that fails to decode still gets a FORMERR reply when its header
// is readable; otherwise it is dropped.
func (t *UDPTransport) handlePacket(ctx context.Context, conn *net.UDPConn, data []byte, clientAddr *net.UDPAddr, handler relay.DNSResponder) {
	client := clientAddr.String()

	// Debug log raw incoming data
	t.logger.Debug(map[string]any{
		"client": client,
		"size":   len(data),
		"raw":    fmt.Sprintf("%x", data),
	}, "Received raw DNS query data")

	var response domain.Message
	request, err := t.codec.DecodeMessage(data)
	if err != nil {
		h, _, headerErr := wire.ReadHeader(data)
		if headerErr != nil {
			t.logger.Warn(map[string]any{
				"client": client,
				"error":  err.Error(),
				"size":   len(data),
			}, "Dropping undecodable DNS packet")
			return
		}
		t.logger.Warn(map[string]any{
			"client":   client,
			"query_id": h.ID,
			"error":    err.Error(),
			"size":     len(data),
		}, "Failed to decode DNS query")
		response, _ = domain.NewErrorResponse(h, nil, domain.RCodeFormErr)
	} else {
		t.logger.Debug(map[string]any{
			"client":    client,
			"query_id":  request.Header().ID,
			"questions": len(request.Questions()),
		}, "Received DNS query")

		response = handler.HandleRequest(ctx, request, clientAddr)
	}

	// Encode domain object back to wire format
	responseData, err := t.codec.EncodeMessage(response)
	if err != nil {
		t.logger.Error(map[string]any{
			"client":   client,
			"query_id": response.Header().ID,
			"error":    err.Error(),
		}, "Failed to encode DNS response")

		response, responseData, err = t.encodeServFail(response)
		if err != nil {
			t.logger.Error(map[string]any{
				"client":   client,
				"query_id": response.Header().ID,
				"error":    err.Error(),
			}, "Failed to encode SERVFAIL response")
			return
		}
	}

	// Send response back to client
	if _, err := conn.WriteToUDP(responseData, clientAddr); err != nil {
		t.logger.Error(map[string]any{
			"client":   client,
			"query_id": response.Header().ID,
			"error":    err.Error(),
		}, "Failed to send DNS response")
		return
	}

	t.logger.Debug(map[string]any{
		"client":   client,
		"query_id": response.Header().ID,
		"rcode":    response.Header().RCode().String(),
		"answers":  len(response.Answers()),
		"size":     len(responseData),
	}, "Sent DNS response")
}

// encodeServFail replaces a reply that could not be encoded with a SERVFAIL
// carrying the same header and questions, or no questions when those do not
// fit either. On failure the original reply is returned with the error.
func (t *UDPTransport) encodeServFail(orig domain.Message) (domain.Message, []byte, error) {
	var lastErr error
	for _, questions := range [][]domain.Question{orig.Questions(), nil} {
		msg, err := domain.NewErrorResponse(orig.Header(), questions, domain.RCodeServFail)
		if err != nil {
			lastErr = err
			continue
		}
		data, err := t.codec.EncodeMessage(msg)
		if err != nil {
			lastErr = err
			continue
		}
		return msg, data, nil
	}
	return orig, nil, lastErr
}

var _ relay.ServerTransport = (*UDPTransport)(nil)
