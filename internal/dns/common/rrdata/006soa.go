package rrdata

import (
	"encoding/binary"
	"fmt"
)

// decodeSOAData renders SOA RDATA as "mname rname serial refresh retry expire minimum".
func decodeSOAData(b []byte) (string, error) {
	mname, n, err := decodeDomainName(b)
	if err != nil {
		return "", fmt.Errorf("invalid SOA mname: %v", err)
	}
	rname, m, err := decodeDomainName(b[n:])
	if err != nil {
		return "", fmt.Errorf("invalid SOA rname: %v", err)
	}
	rest := b[n+m:]
	if len(rest) != 20 {
		return "", fmt.Errorf("invalid SOA integer fields length: %d", len(rest))
	}

	var u32 [5]uint32
	for i := range u32 {
		u32[i] = binary.BigEndian.Uint32(rest[i*4:])
	}
	return fmt.Sprintf("%s %s %d %d %d %d %d", mname, rname, u32[0], u32[1], u32[2], u32[3], u32[4]), nil
}
