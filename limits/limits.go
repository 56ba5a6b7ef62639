// Package limits provides centralized size limits for tile packets and frames.
// This ensures consistent validation across the packetizer, the receiver and the transport.
package limits

import (
	"errors"
	"fmt"
)

const (
	// MaxDatagramSize is the largest UDP payload over IPv4 (65535 - 8 - 20 bytes).
	// Receive buffers are sized to this so no datagram is silently cut.
	MaxDatagramSize = 65507

	// DefaultMaxPacketSize keeps one tile packet inside a typical 1500-byte MTU
	// after IP and UDP headers.
	DefaultMaxPacketSize = 1400

	// MinPacketSize is the 24-byte tile header plus one payload byte.
	// Anything smaller cannot make progress through a frame.
	MinPacketSize = 25

	// MaxFrameSize is the largest frame the packetizer accepts (16 MiB).
	// This bounds reassembly memory per frame on the receiving side.
	MaxFrameSize = 16 * 1024 * 1024
)

var (
	// ErrFrameEmpty indicates an empty frame was provided
	ErrFrameEmpty = errors.New("empty frame")

	// ErrFrameTooLarge indicates a frame exceeds MaxFrameSize
	ErrFrameTooLarge = errors.New("frame too large")

	// ErrPacketSizeOutOfRange indicates a max packet size outside [MinPacketSize, MaxDatagramSize]
	ErrPacketSizeOutOfRange = errors.New("packet size out of range")

	// ErrDatagramTooLarge indicates a datagram exceeds MaxDatagramSize
	ErrDatagramTooLarge = errors.New("datagram too large")
)

// ValidateFrameSize validates a frame against the specified maximum size.
// Returns an error with context including the actual and maximum sizes.
func ValidateFrameSize(frame []byte, maxSize int) error {
	if len(frame) == 0 {
		return ErrFrameEmpty
	}
	if len(frame) > maxSize {
		return fmt.Errorf("%w: size %d exceeds limit %d", ErrFrameTooLarge, len(frame), maxSize)
	}
	return nil
}

// ValidateFrame validates a frame size against MaxFrameSize.
func ValidateFrame(frame []byte) error {
	return ValidateFrameSize(frame, MaxFrameSize)
}

// ValidatePacketSize checks a configured maximum packet size.
// The size includes the 24-byte tile header.
func ValidatePacketSize(size int) error {
	if size < MinPacketSize || size > MaxDatagramSize {
		return fmt.Errorf("%w: %d (must be %d-%d)", ErrPacketSizeOutOfRange, size, MinPacketSize, MaxDatagramSize)
	}
	return nil
}

// ValidateDatagram validates an outgoing datagram against MaxDatagramSize.
// Returns an error with context if the datagram is empty or exceeds the limit.
func ValidateDatagram(data []byte) error {
	if len(data) == 0 {
		return ErrFrameEmpty
	}
	if len(data) > MaxDatagramSize {
		return fmt.Errorf("%w: size %d exceeds limit %d", ErrDatagramTooLarge, len(data), MaxDatagramSize)
	}
	return nil
}
