package rrdata

// decodePTRData decodes a PTR (Pointer) record's RDATA from the given byte slice.
// It returns the domain name as a string and an error if decoding fails.
func decodePTRData(b []byte) (string, error) {
	return decodeSingleName(b)
}
