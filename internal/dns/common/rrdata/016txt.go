package rrdata

import (
	"fmt"
	"strings"
)

// decodeTXTData joins the character-strings of a TXT record with "; ".
// see RFC 1035 section 3.3.14
func decodeTXTData(b []byte) (string, error) {
	var segments []string
	for i := 0; i < len(b); {
		segLen := int(b[i])
		i++
		if i+segLen > len(b) {
			return "", fmt.Errorf("TXT segment length %d exceeds remaining %d bytes", segLen, len(b)-i)
		}
		segments = append(segments, string(b[i:i+segLen]))
		i += segLen
	}
	return strings.Join(segments, "; "), nil
}
