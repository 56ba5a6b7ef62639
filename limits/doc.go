// Package limits provides centralized size constants and validation functions
// for tile streaming. This package ensures consistent size enforcement across
// the packetizer, the stream receiver and the UDP transport.
//
// # Size Hierarchy
//
//   - MinPacketSize (25 bytes): the 24-byte tile header plus one payload byte.
//     A smaller maximum packet size could never carry frame data.
//
//   - DefaultMaxPacketSize (1400 bytes): keeps every tile packet inside a
//     1500-byte Ethernet MTU after IP and UDP headers, so frames are split by
//     the packetizer rather than fragmented by IP.
//
//   - MaxDatagramSize (65507 bytes): the largest IPv4 UDP payload. Receive
//     buffers use this size.
//
//   - MaxFrameSize (16 MiB): the largest frame accepted for packetization.
//
// # Validation Functions
//
//	if err := limits.ValidateFrame(frame); err != nil {
//	    // ErrFrameEmpty or ErrFrameTooLarge
//	}
//
//	if err := limits.ValidatePacketSize(cfg.MaxPacketSize); err != nil {
//	    // ErrPacketSizeOutOfRange
//	}
//
// All errors are sentinel values wrapped with context; classify them with errors.Is.
package limits
