package rtp

import (
	"encoding/binary"
	"fmt"

	pionrtp "github.com/pion/rtp"
)

// RTPHeader returns the standard RFC 3550 view of the first 12 bytes.
// The padding bit is not carried because tile packets have no padding trailer.
func (p *Packet) RTPHeader() pionrtp.Header {
	return pionrtp.Header{
		Version:        p.version,
		Extension:      p.extension,
		Marker:         false,
		PayloadType:    p.payloadType,
		SequenceNumber: p.sequenceNumber,
		Timestamp:      p.timestamp,
		SSRC:           p.sourceID,
	}
}

// RTPPacket returns the packet as a standard RTP packet whose payload is the
// 12-byte tile header followed by the tile payload. Its Marshal output equals
// p.Marshal() whenever the extension and CSRC bits are clear.
func (p *Packet) RTPPacket() *pionrtp.Packet {
	payload := make([]byte, TileHeaderSize+len(p.payload))
	tile := p.Marshal()
	copy(payload, tile[StandardHeaderSize:])
	return &pionrtp.Packet{
		Header:  p.RTPHeader(),
		Payload: payload,
	}
}

// FromRTPPacket builds a tile packet from a parsed standard RTP packet.
//
// The packet must not carry a CSRC list or a header extension, and its payload
// must start with a complete tile header.
func FromRTPPacket(rp *pionrtp.Packet) (*Packet, error) {
	if rp == nil {
		return nil, fmt.Errorf("%w: nil packet", ErrNotTilePacket)
	}
	if rp.Extension || len(rp.CSRC) > 0 {
		return nil, fmt.Errorf("%w: %d CSRC entries, extension=%t", ErrNotTilePacket, len(rp.CSRC), rp.Extension)
	}
	if len(rp.Payload) < TileHeaderSize {
		return nil, fmt.Errorf("%w: tile header needs %d bytes, payload has %d", ErrTruncated, TileHeaderSize, len(rp.Payload))
	}

	tile := rp.Payload[:TileHeaderSize]
	p := &Packet{
		version:        rp.Version,
		payloadType:    rp.PayloadType & payloadTypeMask,
		sequenceNumber: rp.SequenceNumber,
		timestamp:      rp.Timestamp,
		sourceID:       rp.SSRC,
		frameLength:    binary.BigEndian.Uint32(tile),
		frameID:        unpackFrameID(tile[offFrameID-StandardHeaderSize:]),
		payload:        cloneBytes(rp.Payload[TileHeaderSize:]),
	}
	p.packetID, p.packetEnd = unpackPacketID(tile[offPacketID-StandardHeaderSize:])
	return p, nil
}
