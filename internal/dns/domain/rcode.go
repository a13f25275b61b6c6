package domain

import "fmt"

// RCode represents a DNS response code indicating the result of a query.
type RCode uint8

const (
	RCodeNoError  RCode = 0 // NOERROR
	RCodeFormErr  RCode = 1 // FORMERR - query could not be parsed
	RCodeServFail RCode = 2 // SERVFAIL - server failed to complete the request
	RCodeNXDomain RCode = 3 // NXDOMAIN
	RCodeNotImp   RCode = 4 // NOTIMP - opcode not supported
	RCodeRefused  RCode = 5 // REFUSED
)

// IsValid returns true if the RCode fits the 4-bit header field.
func (r RCode) IsValid() bool {
	return r <= 15
}

// String returns the textual representation of the RCode.
func (r RCode) String() string {
	switch r {
	case RCodeNoError:
		return "NOERROR"
	case RCodeFormErr:
		return "FORMERR"
	case RCodeServFail:
		return "SERVFAIL"
	case RCodeNXDomain:
		return "NXDOMAIN"
	case RCodeNotImp:
		return "NOTIMP"
	case RCodeRefused:
		return "REFUSED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", r)
	}
}

// ParseRCode converts a string name to an RCode value.
func ParseRCode(s string) RCode {
	switch s {
	case "FORMERR":
		return RCodeFormErr
	case "SERVFAIL":
		return RCodeServFail
	case "NXDOMAIN":
		return RCodeNXDomain
	case "NOTIMP":
		return RCodeNotImp
	case "REFUSED":
		return RCodeRefused
	default:
		return RCodeNoError
	}
}
