package relay

import (
	"context"
	"fmt"
	"net"

	"github.com/haukened/rr-relay/internal/dns/common/clock"
	"github.com/haukened/rr-relay/internal/dns/common/log"
	"github.com/haukened/rr-relay/internal/dns/common/rrdata"
	"github.com/haukened/rr-relay/internal/dns/common/utils"
	"github.com/haukened/rr-relay/internal/dns/domain"
)

const (
	// DefaultStubAddress is the address every stub answer points at.
	DefaultStubAddress = "8.8.8.8"
	// DefaultStubTTL is the TTL carried by stub answers.
	DefaultStubTTL uint32 = 60
)

// Relay answers client requests either from a fixed stub address or by
// forwarding each question upstream on its own and merging the replies.
type Relay struct {
	upstream UpstreamClient
	logger   log.Logger
	clock    clock.Clock
	stubData []byte
	stubTTL  uint32
}

// Options configures a Relay. Zero fields take package defaults.
type Options struct {
	// Upstream enables forwarding mode. Nil selects stub mode.
	Upstream    UpstreamClient
	Logger      log.Logger
	Clock       clock.Clock
	StubAddress string
	// StubTTL overrides DefaultStubTTL when set. Zero is a valid TTL.
	StubTTL *uint32
}

// NewRelay builds a Relay. An empty StubAddress falls back to
// DefaultStubAddress and a nil StubTTL to DefaultStubTTL.
func NewRelay(opts Options) (*Relay, error) {
	if opts.Logger == nil {
		opts.Logger = log.GetLogger()
	}
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	if opts.StubAddress == "" {
		opts.StubAddress = DefaultStubAddress
	}
	ttl := DefaultStubTTL
	if opts.StubTTL != nil {
		ttl = *opts.StubTTL
	}
	data, err := rrdata.EncodeAData(opts.StubAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid stub address: %w", err)
	}
	return &Relay{
		upstream: opts.Upstream,
		logger:   opts.Logger,
		clock:    opts.Clock,
		stubData: data,
		stubTTL:  ttl,
	}, nil
}

// Forwarding reports whether requests are sent upstream.
func (r *Relay) Forwarding() bool {
	return r.upstream != nil
}

// HandleRequest builds the reply for req. The reply echoes the client ID,
// flags and questions with QR set. RCODE is NOTIMP when the client used an
// opcode other than QUERY and NOERROR otherwise. When forwarding fails the
// reply is a SERVFAIL without answers.
func (r *Relay) HandleRequest(ctx context.Context, req domain.Message, clientAddr net.Addr) domain.Message {
	h := req.Header()
	questions := req.Questions()
	fields := map[string]any{
		"id":        h.ID,
		"client":    addrString(clientAddr),
		"questions": len(questions),
		"opcode":    h.Opcode().String(),
	}

	var (
		answers []domain.ResourceRecord
		err     error
	)
	if r.upstream == nil {
		answers, err = r.stubAnswers(questions)
	} else {
		answers, err = r.forward(ctx, h, questions)
	}
	if err != nil {
		fields["error"] = err
		r.logger.Error(fields, "Failed to resolve request")
		return failure(h, questions)
	}

	resp, err := buildResponse(h, questions, answers)
	if err != nil {
		fields["error"] = err
		r.logger.Error(fields, "Failed to build response")
		return failure(h, questions)
	}

	fields["answers"] = len(answers)
	fields["rcode"] = resp.Header().RCode().String()
	r.logger.Debug(fields, "Handled request")
	return resp
}

// forward sends one sub-request per question, strictly in order, and
// concatenates the answers. The first failure aborts the rest.
func (r *Relay) forward(ctx context.Context, h domain.Header, questions []domain.Question) ([]domain.ResourceRecord, error) {
	var answers []domain.ResourceRecord
	for i, q := range questions {
		sub := domain.NewMessage(h.WithoutCounts())
		if err := sub.AddQuestion(q); err != nil {
			return nil, err
		}

		start := r.clock.Now()
		reply, err := r.upstream.Exchange(ctx, sub)
		elapsed := clock.Since(r.clock, start)
		if err != nil {
			return nil, fmt.Errorf("question %d (%s): %w", i, q, err)
		}

		got := reply.Answers()
		r.logger.Debug(map[string]any{
			"id":       h.ID,
			"index":    i,
			"question": q.String(),
			"zone":     utils.ApexDomain(q.Name),
			"answers":  len(got),
			"rcode":    reply.Header().RCode().String(),
			"elapsed":  elapsed,
		}, "Upstream exchange complete")
		answers = append(answers, got...)
	}
	return answers, nil
}

// stubAnswers fabricates one A record per question pointing at the stub
// address, whatever type the question asked for.
func (r *Relay) stubAnswers(questions []domain.Question) ([]domain.ResourceRecord, error) {
	answers := make([]domain.ResourceRecord, 0, len(questions))
	for _, q := range questions {
		rr, err := domain.NewResourceRecord(q.Name, domain.RRTypeA, domain.RRClassIN, r.stubTTL, r.stubData)
		if err != nil {
			return nil, err
		}
		answers = append(answers, rr)
	}
	return answers, nil
}

// buildResponse clones the client header with counts reset and re-adds the
// sections through the Message API so the counts follow the content.
func buildResponse(h domain.Header, questions []domain.Question, answers []domain.ResourceRecord) (domain.Message, error) {
	resp := domain.NewMessage(h.WithoutCounts().WithResponse(true).WithRCode(responseCode(h)))
	for _, q := range questions {
		if err := resp.AddQuestion(q); err != nil {
			return domain.Message{}, err
		}
	}
	for _, rr := range answers {
		if err := resp.AddAnswer(rr); err != nil {
			return domain.Message{}, err
		}
	}
	return resp, nil
}

func responseCode(h domain.Header) domain.RCode {
	if h.Opcode() != domain.OpcodeQuery {
		return domain.RCodeNotImp
	}
	return domain.RCodeNoError
}

// failure builds a SERVFAIL reply echoing the questions. A request too large
// to echo gets a bare SERVFAIL header.
func failure(h domain.Header, questions []domain.Question) domain.Message {
	resp, err := domain.NewErrorResponse(h, questions, domain.RCodeServFail)
	if err != nil {
		resp, _ = domain.NewErrorResponse(h, nil, domain.RCodeServFail)
	}
	return resp
}

func addrString(a net.Addr) string {
	if a == nil {
		return ""
	}
	return a.String()
}
