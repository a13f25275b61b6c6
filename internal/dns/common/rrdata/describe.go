package rrdata

import (
	"encoding/hex"

	"github.com/haukened/rr-relay/internal/dns/domain"
)

// Describe renders RDATA for logs using Decode, falling back to lowercase hex
// for types without a decoder and for data that does not decode.
func Describe(rrType domain.RRType, data []byte) string {
	if s, err := Decode(rrType, data); err == nil {
		return s
	}
	return hex.EncodeToString(data)
}
