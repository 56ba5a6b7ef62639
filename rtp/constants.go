package rtp

// Wire layout of the tiled RTP header.
const (
	// StandardHeaderSize is the RFC 3550 fixed header without CSRC entries.
	StandardHeaderSize = 12

	// TileHeaderSize is the custom segmentation header following the standard one.
	TileHeaderSize = 12

	// HeaderSize is the total fixed header size of every unit.
	HeaderSize = StandardHeaderSize + TileHeaderSize

	// Version is the RTP version written by Encode.
	Version = 2

	// DefaultSourceID identifies the sending endpoint.
	DefaultSourceID uint32 = 1337
)

// Field widths and masks.
const (
	payloadTypeMask = 0x7F
	markerBit       = 0x80
	paddingBit      = 0x20
	extensionBit    = 0x10
	csrcCountMask   = 0x0F
	versionShift    = 6

	// MaxPayloadType is the largest value the 7-bit payload type can carry.
	MaxPayloadType = payloadTypeMask

	// MaxID is the largest value a 31-bit frame or packet id can carry.
	MaxID uint32 = 0x7FFFFFFF

	// packetEndFlag is the high bit of byte 20, shared with the packet id.
	packetEndFlag uint32 = 0x80000000
)

// Byte offsets inside the header.
const (
	offSequence    = 2
	offTimestamp   = 4
	offSourceID    = 8
	offFrameLength = 12
	offFrameID     = 16
	offPacketID    = 20
)
