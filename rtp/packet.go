package rtp

import (
	"encoding/binary"
	"fmt"
)

// Fields are the application-level values carried by one tile packet.
//
// PayloadType is 7 bits wide, FrameID and PacketID are 31 bits wide.
// Encode masks wider values; EncodeStrict rejects them.
type Fields struct {
	PayloadType    uint8
	SequenceNumber uint16
	Timestamp      uint32
	FrameLength    uint32
	FrameID        uint32
	PacketID       uint32
	PacketEnd      bool
}

// Packet is one immutable tile transport unit: a 24-byte header and an owned payload.
//
// A Packet is built by Encode, EncodeStrict, Decode or Unmarshal and never
// changes afterwards, so it can be shared between goroutines.
type Packet struct {
	version        uint8
	padding        bool
	extension      bool
	csrcCount      uint8
	payloadType    uint8
	sequenceNumber uint16
	timestamp      uint32
	sourceID       uint32

	frameLength uint32
	frameID     uint32
	packetID    uint32
	packetEnd   bool

	payload []byte
}

// Encode builds a packet from fields and payload. It never fails: the payload
// type is masked to 7 bits and the frame and packet ids to 31 bits.
// The payload is copied.
func Encode(f Fields, payload []byte) *Packet {
	return &Packet{
		version:        Version,
		payloadType:    f.PayloadType & payloadTypeMask,
		sequenceNumber: f.SequenceNumber,
		timestamp:      f.Timestamp,
		sourceID:       DefaultSourceID,
		frameLength:    f.FrameLength,
		frameID:        f.FrameID & MaxID,
		packetID:       f.PacketID & MaxID,
		packetEnd:      f.PacketEnd,
		payload:        cloneBytes(payload),
	}
}

// EncodeStrict is Encode but returns ErrFieldOverflow instead of masking.
func EncodeStrict(f Fields, payload []byte) (*Packet, error) {
	if err := checkFields(f); err != nil {
		return nil, err
	}
	return Encode(f, payload), nil
}

// Decode parses the first length bytes of buf.
//
// It returns ErrTruncated when length is below HeaderSize or beyond len(buf).
// Version, padding, extension and CSRC count are kept as received without
// validation; the marker bit and the reserved frame id bit are dropped.
// The payload is copied out of buf.
func Decode(buf []byte, length int) (*Packet, error) {
	if length < HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes, need at least %d", ErrTruncated, length, HeaderSize)
	}
	if length > len(buf) {
		return nil, fmt.Errorf("%w: length %d exceeds buffer of %d bytes", ErrTruncated, length, len(buf))
	}

	h := buf[:HeaderSize]
	p := &Packet{
		version:        h[0] >> versionShift,
		padding:        h[0]&paddingBit != 0,
		extension:      h[0]&extensionBit != 0,
		csrcCount:      h[0] & csrcCountMask,
		payloadType:    h[1] & payloadTypeMask,
		sequenceNumber: binary.BigEndian.Uint16(h[offSequence:]),
		timestamp:      binary.BigEndian.Uint32(h[offTimestamp:]),
		sourceID:       binary.BigEndian.Uint32(h[offSourceID:]),
		frameLength:    binary.BigEndian.Uint32(h[offFrameLength:]),
		frameID:        unpackFrameID(h[offFrameID:]),
		payload:        cloneBytes(buf[HeaderSize:length]),
	}
	p.packetID, p.packetEnd = unpackPacketID(h[offPacketID:])

	return p, nil
}

// Unmarshal parses a whole datagram. It is Decode(buf, len(buf)).
func Unmarshal(buf []byte) (*Packet, error) {
	return Decode(buf, len(buf))
}

// Marshal serializes the packet: the 24-byte header followed by the payload.
func (p *Packet) Marshal() []byte {
	buf := make([]byte, p.Len())
	p.putHeader(buf)
	copy(buf[HeaderSize:], p.payload)
	return buf
}

// MarshalTo writes the serialized packet into dst and returns the number of
// bytes written. It returns ErrBufferTooSmall if dst cannot hold the packet.
func (p *Packet) MarshalTo(dst []byte) (int, error) {
	n := p.Len()
	if len(dst) < n {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", ErrBufferTooSmall, n, len(dst))
	}
	p.putHeader(dst)
	copy(dst[HeaderSize:n], p.payload)
	return n, nil
}

func (p *Packet) putHeader(dst []byte) {
	dst[0] = packFirstByte(p.version, p.padding, p.extension, p.csrcCount)
	dst[1] = p.payloadType & payloadTypeMask // marker always clear
	binary.BigEndian.PutUint16(dst[offSequence:], p.sequenceNumber)
	binary.BigEndian.PutUint32(dst[offTimestamp:], p.timestamp)
	binary.BigEndian.PutUint32(dst[offSourceID:], p.sourceID)
	binary.BigEndian.PutUint32(dst[offFrameLength:], p.frameLength)
	packFrameID(dst[offFrameID:], p.frameID)
	packPacketID(dst[offPacketID:], p.packetID, p.packetEnd)
}

// Payload returns a copy of the payload bytes.
func (p *Packet) Payload() []byte {
	return cloneBytes(p.payload)
}

// PayloadLength returns the payload size in bytes.
func (p *Packet) PayloadLength() int {
	return len(p.payload)
}

// Len returns the serialized size, HeaderSize plus the payload length.
func (p *Packet) Len() int {
	return HeaderSize + len(p.payload)
}

// FrameLength returns the total size of the frame this packet belongs to.
func (p *Packet) FrameLength() uint32 { return p.frameLength }

// FrameID returns the 31-bit frame id.
func (p *Packet) FrameID() uint32 { return p.frameID }

// PacketID returns the 31-bit index of this packet within its frame.
func (p *Packet) PacketID() uint32 { return p.packetID }

// PacketEnd reports whether this is the last packet of its frame.
func (p *Packet) PacketEnd() bool { return p.packetEnd }

// Timestamp returns the RTP timestamp.
func (p *Packet) Timestamp() uint32 { return p.timestamp }

// SequenceNumber returns the RTP sequence number.
func (p *Packet) SequenceNumber() uint16 { return p.sequenceNumber }

// PayloadType returns the 7-bit payload type.
func (p *Packet) PayloadType() uint8 { return p.payloadType }

// Version returns the RTP version bits as received or encoded.
func (p *Packet) Version() uint8 { return p.version }

// SourceID returns the synchronization source identifier.
func (p *Packet) SourceID() uint32 { return p.sourceID }

// Fields returns the application-level view of the packet.
func (p *Packet) Fields() Fields {
	return Fields{
		PayloadType:    p.payloadType,
		SequenceNumber: p.sequenceNumber,
		Timestamp:      p.timestamp,
		FrameLength:    p.frameLength,
		FrameID:        p.frameID,
		PacketID:       p.packetID,
		PacketEnd:      p.packetEnd,
	}
}

// String renders the standard header fields, without the source identifier.
func (p *Packet) String() string {
	return fmt.Sprintf("[RTP-Header] Version: %d, Padding: %d, Extension: %d, CC: %d, Marker: 0, PayloadType: %d, SequenceNumber: %d, TimeStamp: %d",
		p.version, boolBit(p.padding), boolBit(p.extension), p.csrcCount,
		p.payloadType, p.sequenceNumber, p.timestamp)
}

func boolBit(b bool) int {
	if b {
		return 1
	}
	return 0
}

// cloneBytes returns an owned copy of b; nil and empty both become an empty slice.
func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
