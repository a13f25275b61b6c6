package domain

import (
	"fmt"
	"slices"
	"strings"
)

const (
	// MaxLabelLength is the largest literal label a length byte can describe.
	MaxLabelLength = 63

	// MaxNameLength is the largest wire-encoded name, terminator included.
	MaxNameLength = 255
)

// Name is a domain name held as an ordered list of labels.
// The root name has no labels. Labels never contain the length prefix.
type Name struct {
	labels []string
}

// RootName returns the root domain name.
func RootName() Name {
	return Name{}
}

// NewName constructs a Name from labels and validates their lengths.
func NewName(labels ...string) (Name, error) {
	n := Name{labels: slices.Clone(labels)}
	if err := n.Validate(); err != nil {
		return Name{}, err
	}
	return n, nil
}

// ParseName splits a dotted presentation name such as "www.example.com."
// into labels. Both "" and "." yield the root name.
func ParseName(s string) (Name, error) {
	s = strings.TrimSuffix(s, ".")
	if s == "" {
		return RootName(), nil
	}
	return NewName(strings.Split(s, ".")...)
}

// MustParseName is like ParseName but panics on error.
// Intended for constants and tests.
func MustParseName(s string) Name {
	n, err := ParseName(s)
	if err != nil {
		panic(err)
	}
	return n
}

// Validate checks label and total wire lengths.
func (n Name) Validate() error {
	for _, l := range n.labels {
		if l == "" {
			return ErrEmptyLabel
		}
		if len(l) > MaxLabelLength {
			return fmt.Errorf("%w: %d bytes (max %d)", ErrLabelTooLong, len(l), MaxLabelLength)
		}
	}
	if n.WireLen() > MaxNameLength {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrNameTooLong, n.WireLen(), MaxNameLength)
	}
	return nil
}

// Labels returns a copy of the labels.
func (n Name) Labels() []string {
	return slices.Clone(n.labels)
}

// LabelCount returns the number of labels; zero for the root.
func (n Name) LabelCount() int {
	return len(n.labels)
}

// IsRoot reports whether n is the root name.
func (n Name) IsRoot() bool {
	return len(n.labels) == 0
}

// Append returns a new Name with the labels of suffix after those of n.
func (n Name) Append(suffix Name) Name {
	out := make([]string, 0, len(n.labels)+len(suffix.labels))
	out = append(out, n.labels...)
	out = append(out, suffix.labels...)
	return Name{labels: out}
}

// WireLen returns the uncompressed encoded length including the terminator.
func (n Name) WireLen() int {
	size := 1
	for _, l := range n.labels {
		size += 1 + len(l)
	}
	return size
}

// Equal reports whether both names carry the same labels. Comparison is
// byte-exact; case is preserved end to end by the relay.
func (n Name) Equal(other Name) bool {
	return slices.Equal(n.labels, other.labels)
}

// String renders the name in dotted form without a trailing dot; the root
// renders as ".".
func (n Name) String() string {
	if n.IsRoot() {
		return "."
	}
	return strings.Join(n.labels, ".")
}
