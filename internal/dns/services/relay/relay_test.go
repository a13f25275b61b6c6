package relay

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/haukened/rr-relay/internal/dns/common/clock"
	"github.com/haukened/rr-relay/internal/dns/common/log"
	"github.com/haukened/rr-relay/internal/dns/domain"
)

// MockUpstream implements UpstreamClient for testing
type MockUpstream struct {
	mock.Mock
}

func (m *MockUpstream) Exchange(ctx context.Context, query domain.Message) (domain.Message, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(domain.Message), args.Error(1)
}

// MockLogger implements log.Logger for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Info(fields map[string]any, msg string)  { m.Called(fields, msg) }
func (m *MockLogger) Error(fields map[string]any, msg string) { m.Called(fields, msg) }
func (m *MockLogger) Debug(fields map[string]any, msg string) { m.Called(fields, msg) }
func (m *MockLogger) Warn(fields map[string]any, msg string)  { m.Called(fields, msg) }
func (m *MockLogger) Panic(fields map[string]any, msg string) { m.Called(fields, msg) }
func (m *MockLogger) Fatal(fields map[string]any, msg string) { m.Called(fields, msg) }

var clientAddr = &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 40000}

func mustQuestion(t *testing.T, name string, rrtype domain.RRType) domain.Question {
	t.Helper()
	q, err := domain.NewQuestion(domain.MustParseName(name), rrtype, domain.RRClassIN)
	require.NoError(t, err)
	return q
}

func newRequest(t *testing.T, h domain.Header, questions ...domain.Question) domain.Message {
	t.Helper()
	msg := domain.NewMessage(h)
	for _, q := range questions {
		require.NoError(t, msg.AddQuestion(q))
	}
	return msg
}

// upstreamReply answers sub with one A record per address.
func upstreamReply(t *testing.T, sub domain.Message, addrs ...string) domain.Message {
	t.Helper()
	resp := domain.NewMessage(sub.Header().WithResponse(true))
	q := sub.Questions()[0]
	require.NoError(t, resp.AddQuestion(q))
	for _, a := range addrs {
		rr, err := domain.NewARecord(q.Name, 120, net.ParseIP(a))
		require.NoError(t, err)
		require.NoError(t, resp.AddAnswer(rr))
	}
	return resp
}

func newTestRelay(t *testing.T, opts Options) *Relay {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = log.NewNoopLogger()
	}
	r, err := NewRelay(opts)
	require.NoError(t, err)
	return r
}

func TestNewRelay(t *testing.T) {
	r, err := NewRelay(Options{Logger: log.NewNoopLogger()})
	require.NoError(t, err)
	assert.False(t, r.Forwarding())
	assert.Equal(t, []byte{8, 8, 8, 8}, r.stubData)
	assert.Equal(t, DefaultStubTTL, r.stubTTL)
	assert.IsType(t, clock.RealClock{}, r.clock)

	ttl := uint32(5)
	r, err = NewRelay(Options{Upstream: &MockUpstream{}, StubAddress: "10.0.0.1", StubTTL: &ttl})
	require.NoError(t, err)
	assert.True(t, r.Forwarding())
	assert.Equal(t, []byte{10, 0, 0, 1}, r.stubData)
	assert.Equal(t, uint32(5), r.stubTTL)

	_, err = NewRelay(Options{StubAddress: "::1"})
	assert.ErrorContains(t, err, "invalid stub address")
}

func TestRelay_StubAnswers(t *testing.T) {
	r := newTestRelay(t, Options{})
	hdr := domain.NewHeader(1234, 0).WithRecursionDesired(true)
	req := newRequest(t, hdr,
		mustQuestion(t, "codecrafters.io", domain.RRTypeA),
		mustQuestion(t, "abc.longassdomainname.com", domain.RRTypeAAAA),
	)

	resp := r.HandleRequest(context.Background(), req, clientAddr)

	h := resp.Header()
	assert.Equal(t, uint16(1234), h.ID)
	assert.True(t, h.Response())
	assert.True(t, h.RecursionDesired())
	assert.Equal(t, domain.OpcodeQuery, h.Opcode())
	assert.Equal(t, domain.RCodeNoError, h.RCode())
	assert.Equal(t, uint16(2), h.QDCount)
	assert.Equal(t, uint16(2), h.ANCount)
	assert.Equal(t, req.Questions(), resp.Questions())

	answers := resp.Answers()
	require.Len(t, answers, 2)
	for i, rr := range answers {
		assert.True(t, rr.Name.Equal(req.Questions()[i].Name))
		assert.Equal(t, domain.RRTypeA, rr.Type)
		assert.Equal(t, domain.RRClassIN, rr.Class)
		assert.Equal(t, uint32(60), rr.TTL)
		assert.Equal(t, []byte{8, 8, 8, 8}, rr.Data())
	}
}

func TestRelay_StubCustomAddress(t *testing.T) {
	ttl := uint32(300)
	r := newTestRelay(t, Options{StubAddress: "192.0.2.10", StubTTL: &ttl})
	req := newRequest(t, domain.NewHeader(7, 0), mustQuestion(t, "example.com", domain.RRTypeA))

	resp := r.HandleRequest(context.Background(), req, nil)

	require.Len(t, resp.Answers(), 1)
	assert.Equal(t, []byte{192, 0, 2, 10}, resp.Answers()[0].Data())
	assert.Equal(t, uint32(300), resp.Answers()[0].TTL)
}

func TestRelay_StubZeroTTL(t *testing.T) {
	var zero uint32
	r := newTestRelay(t, Options{StubTTL: &zero})
	req := newRequest(t, domain.NewHeader(8, 0), mustQuestion(t, "example.com", domain.RRTypeA))

	resp := r.HandleRequest(context.Background(), req, nil)

	require.Len(t, resp.Answers(), 1)
	assert.Equal(t, uint32(0), resp.Answers()[0].TTL)
}

func TestRelay_ResponseCodeFollowsOpcode(t *testing.T) {
	tests := []struct {
		name   string
		opcode domain.Opcode
		want   domain.RCode
	}{
		{"standard query", domain.OpcodeQuery, domain.RCodeNoError},
		{"inverse query", domain.OpcodeIQuery, domain.RCodeNotImp},
		{"status", domain.OpcodeStatus, domain.RCodeNotImp},
		{"unassigned", domain.Opcode(9), domain.RCodeNotImp},
	}

	r := newTestRelay(t, Options{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hdr := domain.NewHeader(42, 0).WithOpcode(tt.opcode)
			req := newRequest(t, hdr, mustQuestion(t, "example.com", domain.RRTypeA))

			resp := r.HandleRequest(context.Background(), req, clientAddr)

			assert.Equal(t, tt.want, resp.Header().RCode())
			assert.Equal(t, tt.opcode, resp.Header().Opcode())
			assert.True(t, resp.Header().Response())
			assert.Len(t, resp.Answers(), 1)
		})
	}
}

func TestRelay_ClearsClientRCode(t *testing.T) {
	r := newTestRelay(t, Options{})
	hdr := domain.NewHeader(42, 0).WithRCode(domain.RCodeRefused)
	req := newRequest(t, hdr, mustQuestion(t, "example.com", domain.RRTypeA))

	resp := r.HandleRequest(context.Background(), req, clientAddr)
	assert.Equal(t, domain.RCodeNoError, resp.Header().RCode())
}

func TestRelay_ForwardsEachQuestionInOrder(t *testing.T) {
	up := &MockUpstream{}
	hdr := domain.NewHeader(0xBEEF, 0).WithRecursionDesired(true)
	questions := []domain.Question{
		mustQuestion(t, "a.example", domain.RRTypeA),
		mustQuestion(t, "b.example", domain.RRTypeA),
		mustQuestion(t, "c.example", domain.RRTypeA),
	}
	ips := []string{"192.0.2.1", "192.0.2.2", "192.0.2.3"}

	var calls []*mock.Call
	for i, q := range questions {
		sub := newRequest(t, hdr, q)
		call := up.On("Exchange", mock.Anything, sub).Return(upstreamReply(t, sub, ips[i]), nil).Once()
		if len(calls) > 0 {
			call.NotBefore(calls[len(calls)-1])
		}
		calls = append(calls, call)
	}

	clk := &clock.MockClock{CurrentTime: time.Unix(0, 0), Step: 3 * time.Millisecond}
	r := newTestRelay(t, Options{Upstream: up, Clock: clk})
	resp := r.HandleRequest(context.Background(), newRequest(t, hdr, questions...), clientAddr)

	up.AssertExpectations(t)
	for _, c := range up.Calls {
		sub := c.Arguments.Get(1).(domain.Message)
		assert.Equal(t, uint16(0xBEEF), sub.Header().ID)
		assert.Equal(t, uint16(1), sub.Header().QDCount)
		assert.Equal(t, uint16(0), sub.Header().ANCount)
		assert.True(t, sub.Header().RecursionDesired())
		assert.False(t, sub.Header().Response())
	}

	h := resp.Header()
	assert.Equal(t, domain.RCodeNoError, h.RCode())
	assert.Equal(t, uint16(3), h.QDCount)
	assert.Equal(t, uint16(3), h.ANCount)
	assert.Equal(t, questions, resp.Questions())
	for i, rr := range resp.Answers() {
		assert.True(t, rr.Name.Equal(questions[i].Name))
		assert.Equal(t, net.ParseIP(ips[i]).To4(), net.IP(rr.Data()))
		assert.Equal(t, uint32(120), rr.TTL)
	}
}

func TestRelay_ForwardKeepsQuestionTypeAndClass(t *testing.T) {
	up := &MockUpstream{}
	q, err := domain.NewQuestion(domain.MustParseName("example.com"), domain.RRTypeMX, domain.RRClassCH)
	require.NoError(t, err)
	hdr := domain.NewHeader(9, 0)
	sub := newRequest(t, hdr, q)
	up.On("Exchange", mock.Anything, sub).Return(domain.NewMessage(hdr.WithResponse(true)), nil).Once()

	r := newTestRelay(t, Options{Upstream: up})
	resp := r.HandleRequest(context.Background(), newRequest(t, hdr, q), clientAddr)

	up.AssertExpectations(t)
	assert.Equal(t, []domain.Question{q}, resp.Questions())
	assert.Empty(t, resp.Answers())
	assert.Equal(t, uint16(0), resp.Header().ANCount)
}

func TestRelay_MergesMultipleAnswersPerQuestion(t *testing.T) {
	up := &MockUpstream{}
	hdr := domain.NewHeader(5, 0)
	q1 := mustQuestion(t, "multi.example", domain.RRTypeA)
	q2 := mustQuestion(t, "none.example", domain.RRTypeA)
	sub1 := newRequest(t, hdr, q1)
	sub2 := newRequest(t, hdr, q2)
	up.On("Exchange", mock.Anything, sub1).Return(upstreamReply(t, sub1, "192.0.2.1", "192.0.2.2"), nil).Once()
	up.On("Exchange", mock.Anything, sub2).Return(upstreamReply(t, sub2), nil).Once()

	r := newTestRelay(t, Options{Upstream: up})
	resp := r.HandleRequest(context.Background(), newRequest(t, hdr, q1, q2), clientAddr)

	up.AssertExpectations(t)
	assert.Equal(t, uint16(2), resp.Header().QDCount)
	assert.Equal(t, uint16(2), resp.Header().ANCount)
	for _, rr := range resp.Answers() {
		assert.True(t, rr.Name.Equal(q1.Name))
	}
}

func TestRelay_UpstreamFailureReturnsServFail(t *testing.T) {
	up := &MockUpstream{}
	hdr := domain.NewHeader(77, 0).WithRecursionDesired(true)
	q1 := mustQuestion(t, "ok.example", domain.RRTypeA)
	q2 := mustQuestion(t, "fail.example", domain.RRTypeA)
	q3 := mustQuestion(t, "never.example", domain.RRTypeA)
	sub1 := newRequest(t, hdr, q1)
	sub2 := newRequest(t, hdr, q2)
	up.On("Exchange", mock.Anything, sub1).Return(upstreamReply(t, sub1, "192.0.2.1"), nil).Once()
	up.On("Exchange", mock.Anything, sub2).
		Return(domain.Message{}, fmt.Errorf("%w: read failed", domain.ErrUpstreamUnavailable)).Once()

	logger := &MockLogger{}
	logger.On("Debug", mock.Anything, mock.Anything).Maybe()
	logger.On("Error", mock.MatchedBy(func(f map[string]any) bool {
		err, ok := f["error"].(error)
		return ok && errors.Is(err, domain.ErrUpstreamUnavailable) && f["id"] == uint16(77)
	}), "Failed to resolve request").Once()

	r := newTestRelay(t, Options{Upstream: up, Logger: logger})
	resp := r.HandleRequest(context.Background(), newRequest(t, hdr, q1, q2, q3), clientAddr)

	up.AssertExpectations(t)
	up.AssertNumberOfCalls(t, "Exchange", 2)
	logger.AssertExpectations(t)

	h := resp.Header()
	assert.Equal(t, uint16(77), h.ID)
	assert.True(t, h.Response())
	assert.True(t, h.RecursionDesired())
	assert.Equal(t, domain.RCodeServFail, h.RCode())
	assert.Equal(t, []domain.Question{q1, q2, q3}, resp.Questions())
	assert.Empty(t, resp.Answers())
	assert.Equal(t, uint16(0), h.ANCount)
}

func TestRelay_PassesContextToUpstream(t *testing.T) {
	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "marker")

	up := &MockUpstream{}
	hdr := domain.NewHeader(1, 0)
	sub := newRequest(t, hdr, mustQuestion(t, "example.com", domain.RRTypeA))
	up.On("Exchange", mock.MatchedBy(func(c context.Context) bool {
		return c.Value(ctxKey{}) == "marker"
	}), sub).Return(upstreamReply(t, sub, "192.0.2.1"), nil).Once()

	r := newTestRelay(t, Options{Upstream: up})
	resp := r.HandleRequest(ctx, sub, clientAddr)

	up.AssertExpectations(t)
	assert.Len(t, resp.Answers(), 1)
}

func TestRelay_LogsExchangeTiming(t *testing.T) {
	up := &MockUpstream{}
	hdr := domain.NewHeader(3, 0)
	sub := newRequest(t, hdr, mustQuestion(t, "example.com", domain.RRTypeA))
	up.On("Exchange", mock.Anything, sub).Return(upstreamReply(t, sub, "192.0.2.1"), nil).Once()

	logger := &MockLogger{}
	logger.On("Debug", mock.MatchedBy(func(f map[string]any) bool {
		return f["elapsed"] == 25*time.Millisecond && f["index"] == 0 && f["zone"] == "example.com"
	}), "Upstream exchange complete").Once()
	logger.On("Debug", mock.Anything, "Handled request").Once()

	clk := &clock.MockClock{CurrentTime: time.Unix(1700000000, 0), Step: 25 * time.Millisecond}
	r := newTestRelay(t, Options{Upstream: up, Logger: logger, Clock: clk})
	r.HandleRequest(context.Background(), sub, clientAddr)

	logger.AssertExpectations(t)
}

func TestRelay_NoQuestions(t *testing.T) {
	up := &MockUpstream{}
	r := newTestRelay(t, Options{Upstream: up})
	req := domain.NewMessage(domain.NewHeader(11, 0))

	resp := r.HandleRequest(context.Background(), req, clientAddr)

	up.AssertNotCalled(t, "Exchange", mock.Anything, mock.Anything)
	assert.Equal(t, uint16(11), resp.Header().ID)
	assert.True(t, resp.Header().Response())
	assert.Equal(t, uint16(0), resp.Header().QDCount)
	assert.Equal(t, uint16(0), resp.Header().ANCount)
}

func TestRelay_ImplementsResponder(t *testing.T) {
	var _ DNSResponder = (*Relay)(nil)
}
