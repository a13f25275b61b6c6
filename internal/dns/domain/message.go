package domain

import (
	"fmt"
	"slices"
)

// Message is a DNS message with its question and answer sections.
//
// The section lists are private. AddQuestion and AddAnswer are the only
// mutation paths, and each one appends and bumps the matching header count
// in the same call, so len(Questions()) == Header().QDCount and
// len(Answers()) == Header().ANCount always hold. Authority and additional
// sections are counted in the header but not modeled.
type Message struct {
	header    Header
	questions []Question
	answers   []ResourceRecord
}

// NewMessage starts an empty message from h. The question and answer counts
// are reset; authority and additional counts are kept as given.
func NewMessage(h Header) Message {
	h.QDCount = 0
	h.ANCount = 0
	return Message{header: h}
}

// NewErrorResponse builds a response to req that echoes questions and
// carries no answers: QR is set, all counts are reset, RCODE is rcode.
func NewErrorResponse(req Header, questions []Question, rcode RCode) (Message, error) {
	msg := NewMessage(req.WithoutCounts().WithResponse(true).WithRCode(rcode))
	for _, q := range questions {
		if err := msg.AddQuestion(q); err != nil {
			return Message{}, err
		}
	}
	return msg, nil
}

// Header returns a copy of the header with counts matching the sections.
func (m Message) Header() Header {
	return m.header
}

// Questions returns a copy of the question section.
func (m Message) Questions() []Question {
	return slices.Clone(m.questions)
}

// Answers returns a copy of the answer section.
func (m Message) Answers() []ResourceRecord {
	return slices.Clone(m.answers)
}

// AddQuestion appends q and increments QDCount.
func (m *Message) AddQuestion(q Question) error {
	if m.header.QDCount == 0xFFFF {
		return fmt.Errorf("%w: too many questions", ErrCapacityExceeded)
	}
	m.questions = append(m.questions, q)
	m.header.QDCount++
	return nil
}

// AddAnswer appends rr and increments ANCount.
func (m *Message) AddAnswer(rr ResourceRecord) error {
	if m.header.ANCount == 0xFFFF {
		return fmt.Errorf("%w: too many answer records", ErrCapacityExceeded)
	}
	m.answers = append(m.answers, rr)
	m.header.ANCount++
	return nil
}

// IsError returns true if the message carries a non-zero RCODE.
func (m Message) IsError() bool {
	return m.header.RCode() != RCodeNoError
}
