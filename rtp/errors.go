package rtp

import "errors"

// Sentinel errors for the tile codec.
// Use errors.Is to classify them; callers get wrapped variants with context.
var (
	// ErrTruncated indicates a buffer too short to hold the fixed header,
	// or shorter than the length the caller claimed for it.
	ErrTruncated = errors.New("rtp: truncated packet")

	// ErrFieldOverflow indicates a strict encode input wider than its field.
	ErrFieldOverflow = errors.New("rtp: field overflow")

	// ErrBufferTooSmall indicates a destination buffer cannot hold the packet.
	ErrBufferTooSmall = errors.New("rtp: destination buffer too small")
)

// Reassembly errors.
var (
	// ErrInconsistentFrame indicates packets of one frame id disagree on the
	// frame length, or a payload runs past it.
	ErrInconsistentFrame = errors.New("rtp: inconsistent frame metadata")
)

// Interop errors.
var (
	// ErrNotTilePacket indicates a standard RTP packet that carries a CSRC list
	// or a header extension and therefore has no fixed tile header.
	ErrNotTilePacket = errors.New("rtp: not a tile packet")
)
