package domain

import "errors"

// Sentinel errors shared by the codec, the relay and the upstream gateway.
// Callers wrap them with fmt.Errorf("...: %w", err) and match with errors.Is.
var (
	// ErrBufferTooShort is returned when a header is read from, or written to,
	// a buffer shorter than the fixed 12-byte header.
	ErrBufferTooShort = errors.New("buffer too short")

	// ErrMalformedPointer is returned for compression pointers that point
	// forward, out of bounds, or into a cycle.
	ErrMalformedPointer = errors.New("malformed compression pointer")

	// ErrMalformedLabel is returned for label length bytes whose top two bits
	// are 01 or 10.
	ErrMalformedLabel = errors.New("malformed label length")

	// ErrTruncated is returned when a field runs past the end of the message.
	ErrTruncated = errors.New("message truncated")

	// ErrCapacityExceeded is returned when an encoded message does not fit the
	// destination buffer.
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrLabelTooLong is returned for labels longer than 63 bytes.
	ErrLabelTooLong = errors.New("label too long")

	// ErrEmptyLabel is returned when a non-root name contains a zero-length label.
	ErrEmptyLabel = errors.New("empty label")

	// ErrNameTooLong is returned for names whose wire form exceeds 255 bytes.
	ErrNameTooLong = errors.New("name too long")

	// ErrUpstreamUnavailable is returned when a forwarded exchange with the
	// upstream resolver fails to send or receive.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
