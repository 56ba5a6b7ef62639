// Package rtp implements the tiled RTP packet codec used to stream frames
// that are split across several datagrams.
//
// Every unit is a fixed 24-byte header followed by an opaque payload. The
// first 12 bytes are a standard RFC 3550 header with no CSRC list and no
// extension; the next 12 bytes carry segmentation metadata:
//
//	 0                   1                   2                   3
//	 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//	|V=2|P|X|  CC   |M|     PT      |       sequence number         |
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//	|                           timestamp                           |
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//	|                       source identifier                       |
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//	|                         frame length                          |
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//	|R|                         frame id                            |
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//	|E|                         packet id                           |
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//
// R is reserved and always zero; E marks the last packet of a frame.
//
// # Encoding and Decoding
//
//	pkt := rtp.Encode(rtp.Fields{
//	    PayloadType:    rtp.DefaultPayloadType,
//	    SequenceNumber: seq,
//	    Timestamp:      ts,
//	    FrameLength:    uint32(len(frame)),
//	    FrameID:        7,
//	    PacketID:       0,
//	    PacketEnd:      true,
//	}, frame)
//	datagram := pkt.Marshal()
//
//	received, err := rtp.Decode(buf, n)
//	if errors.Is(err, rtp.ErrTruncated) {
//	    // discard the datagram
//	}
//
// Encode masks values wider than their field (7-bit payload type, 31-bit
// frame and packet ids). EncodeStrict returns ErrFieldOverflow instead.
// Decode never reads past buf[:n] and returns ErrTruncated for n < 24.
//
// Packets are immutable and own their payload: Encode and Decode copy the
// caller's bytes, and Payload returns a copy.
//
// # Frame Segmentation
//
// Packetizer splits a frame into packets that fit a maximum datagram size,
// and Reassembler rebuilds frames on the receiving side:
//
//	packetizer, _ := rtp.NewPacketizer(rtp.DefaultPacketizerConfig())
//	packets, err := packetizer.Packetize(frame, timestamp)
//
//	reassembler := rtp.NewReassembler(rtp.DefaultReassemblerConfig())
//	frame, err := reassembler.Push(pkt) // nil until the frame is complete
//
// # Interoperability
//
// RTPPacket and FromRTPPacket convert to and from github.com/pion/rtp packets;
// a standard parser sees the tile header as the start of the payload.
//
// # Thread Safety
//
// Packet is immutable. Packetizer and Reassembler are safe for concurrent use.
package rtp
