package rrdata

import (
	"fmt"
	"net"
	"strings"
)

// decodeDomainName reads an uncompressed domain name from the start of b and
// returns it in presentation form along with the bytes consumed. Compression
// pointers are rejected since RDATA is decoded without the enclosing message.
func decodeDomainName(b []byte) (string, int, error) {
	var labels []string
	for i := 0; i < len(b); {
		labelLen := int(b[i])
		if labelLen == 0 {
			if len(labels) == 0 {
				return ".", i + 1, nil
			}
			return strings.Join(labels, ".") + ".", i + 1, nil
		}
		if labelLen&0xC0 != 0 {
			return "", 0, fmt.Errorf("compressed domain name at offset %d", i)
		}
		i++
		if i+labelLen > len(b) {
			return "", 0, fmt.Errorf("invalid domain name encoding")
		}
		labels = append(labels, string(b[i:i+labelLen]))
		i += labelLen
	}
	return "", 0, fmt.Errorf("domain name missing root label")
}

// decodeSingleName decodes RDATA that is exactly one domain name.
func decodeSingleName(b []byte) (string, error) {
	name, n, err := decodeDomainName(b)
	if err != nil {
		return "", err
	}
	if n != len(b) {
		return "", fmt.Errorf("%d trailing bytes after domain name", len(b)-n)
	}
	return name, nil
}

// isIPv4 checks whether the provided net.IP address is an IPv4 address.
// It returns true if the IP is not nil and can be converted to IPv4 format.
func isIPv4(ip net.IP) bool {
	return ip != nil && ip.To4() != nil
}
