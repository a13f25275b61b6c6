package domain

import (
	"fmt"
	"net"
	"slices"
)

// ResourceRecord is one entry of the answer section.
//
// The record owns its RDATA: the constructor copies the input and Data
// returns a copy, so a decode buffer can be reused as soon as decoding
// returns.
type ResourceRecord struct {
	Name  Name
	Type  RRType
	Class RRClass
	TTL   uint32
	data  []byte
}

// NewResourceRecord constructs a ResourceRecord with a private copy of data.
func NewResourceRecord(name Name, rrtype RRType, class RRClass, ttl uint32, data []byte) (ResourceRecord, error) {
	rr := ResourceRecord{
		Name:  name,
		Type:  rrtype,
		Class: class,
		TTL:   ttl,
		data:  slices.Clone(data),
	}
	if err := rr.Validate(); err != nil {
		return ResourceRecord{}, err
	}
	return rr, nil
}

// NewARecord constructs a type A, class IN record for an IPv4 address.
func NewARecord(name Name, ttl uint32, ip net.IP) (ResourceRecord, error) {
	v4 := ip.To4()
	if v4 == nil {
		return ResourceRecord{}, fmt.Errorf("not an IPv4 address: %v", ip)
	}
	return NewResourceRecord(name, RRTypeA, RRClassIN, ttl, v4)
}

// Validate checks whether the ResourceRecord fields are valid.
func (rr ResourceRecord) Validate() error {
	if err := rr.Name.Validate(); err != nil {
		return fmt.Errorf("invalid record name: %w", err)
	}
	if len(rr.data) > 0xFFFF {
		return fmt.Errorf("resource record data too large: %d bytes (max 65535)", len(rr.data))
	}
	if rr.Type == RRTypeA && rr.Class == RRClassIN && len(rr.data) != net.IPv4len {
		return fmt.Errorf("A record data must be %d bytes, got %d", net.IPv4len, len(rr.data))
	}
	return nil
}

// Data returns a copy of the RDATA.
func (rr ResourceRecord) Data() []byte {
	return slices.Clone(rr.data)
}

// DataLen returns the RDATA length without copying.
func (rr ResourceRecord) DataLen() int {
	return len(rr.data)
}

// Equal reports whether two records carry identical fields and RDATA.
func (rr ResourceRecord) Equal(other ResourceRecord) bool {
	return rr.Name.Equal(other.Name) &&
		rr.Type == other.Type &&
		rr.Class == other.Class &&
		rr.TTL == other.TTL &&
		slices.Equal(rr.data, other.data)
}

// CopyData copies the RDATA into dst and returns the number of bytes copied.
func (rr ResourceRecord) CopyData(dst []byte) int {
	return copy(dst, rr.data)
}
