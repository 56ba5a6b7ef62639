package rtp

import (
	"encoding/binary"
	"fmt"
)

// packFrameID writes a 31-bit frame id into dst[0:4]. The reserved high bit
// of dst[0] is always written as zero.
func packFrameID(dst []byte, id uint32) {
	binary.BigEndian.PutUint32(dst, id&MaxID)
}

// unpackFrameID reads a 31-bit frame id from src[0:4], ignoring the reserved bit.
func unpackFrameID(src []byte) uint32 {
	return binary.BigEndian.Uint32(src) & MaxID
}

// packPacketID writes the packet-end flag and a 31-bit packet id into dst[0:4].
func packPacketID(dst []byte, id uint32, end bool) {
	v := id & MaxID
	if end {
		v |= packetEndFlag
	}
	binary.BigEndian.PutUint32(dst, v)
}

// unpackPacketID splits src[0:4] into the 31-bit packet id and the packet-end flag.
func unpackPacketID(src []byte) (uint32, bool) {
	v := binary.BigEndian.Uint32(src)
	return v & MaxID, v&packetEndFlag != 0
}

// packFirstByte builds byte 0: version, padding, extension and CSRC count.
func packFirstByte(version uint8, padding, extension bool, csrcCount uint8) byte {
	b := (version & 0x03) << versionShift
	if padding {
		b |= paddingBit
	}
	if extension {
		b |= extensionBit
	}
	return b | csrcCount&csrcCountMask
}

// checkFields reports the first field that does not fit its wire width.
func checkFields(f Fields) error {
	if f.PayloadType > MaxPayloadType {
		return fmt.Errorf("%w: payload type %d exceeds %d", ErrFieldOverflow, f.PayloadType, MaxPayloadType)
	}
	if f.FrameID > MaxID {
		return fmt.Errorf("%w: frame id %d exceeds %d", ErrFieldOverflow, f.FrameID, MaxID)
	}
	if f.PacketID > MaxID {
		return fmt.Errorf("%w: packet id %d exceeds %d", ErrFieldOverflow, f.PacketID, MaxID)
	}
	return nil
}
