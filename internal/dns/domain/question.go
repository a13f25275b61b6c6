package domain

import "fmt"

// Question is one entry of the question section.
type Question struct {
	Name  Name
	Type  RRType
	Class RRClass
}

// NewQuestion constructs a Question and validates its name.
func NewQuestion(name Name, rrtype RRType, class RRClass) (Question, error) {
	q := Question{
		Name:  name,
		Type:  rrtype,
		Class: class,
	}
	if err := q.Validate(); err != nil {
		return Question{}, err
	}
	return q, nil
}

// Validate checks whether the Question name is structurally valid. Type and
// class are not restricted: a relay forwards whatever the client asked.
func (q Question) Validate() error {
	if err := q.Name.Validate(); err != nil {
		return fmt.Errorf("invalid question name: %w", err)
	}
	return nil
}

// String returns a compact human-readable form used in logs.
func (q Question) String() string {
	return fmt.Sprintf("%s %s %s", q.Name, q.Class, q.Type)
}
