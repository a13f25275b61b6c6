// Package utils holds small helpers shared by the relay's log output.
package utils

import (
	"strings"

	"golang.org/x/net/publicsuffix"

	"github.com/haukened/rr-relay/internal/dns/domain"
)

// CanonicalName returns name lowercased and without a trailing dot. The root
// name canonicalizes to the empty string.
func CanonicalName(name domain.Name) string {
	if name.IsRoot() {
		return ""
	}
	return strings.ToLower(name.String())
}

// ApexDomain returns the registrable domain (eTLD+1) of name, falling back
// to the canonical name when the public suffix list has no answer.
func ApexDomain(name domain.Name) string {
	canonical := CanonicalName(name)
	apex, err := publicsuffix.EffectiveTLDPlusOne(canonical)
	if err != nil {
		return canonical
	}
	return apex
}
