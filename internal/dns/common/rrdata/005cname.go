package rrdata

func decodeCNAMEData(b []byte) (string, error) {
	return decodeSingleName(b)
}
