package rtp

import (
	"fmt"
	"sync"

	"github.com/opd-ai/tilertp/limits"
	"github.com/sirupsen/logrus"
)

// DefaultPayloadType is the static RTP payload type for JPEG video (RFC 3551).
const DefaultPayloadType uint8 = 26

// PacketizerConfig configures frame splitting.
type PacketizerConfig struct {
	// PayloadType is written into every packet (7 bits).
	PayloadType uint8
	// MaxPacketSize bounds each serialized packet, header included.
	MaxPacketSize int
	// InitialSequence is the sequence number of the first packet.
	InitialSequence uint16
	// InitialFrameID is the id of the first frame.
	InitialFrameID uint32
}

// DefaultPacketizerConfig returns the settings used by the streaming CLI.
func DefaultPacketizerConfig() PacketizerConfig {
	return PacketizerConfig{
		PayloadType:   DefaultPayloadType,
		MaxPacketSize: limits.DefaultMaxPacketSize,
	}
}

// Validate checks the configuration.
func (c PacketizerConfig) Validate() error {
	if c.PayloadType > MaxPayloadType {
		return fmt.Errorf("%w: payload type %d exceeds %d", ErrFieldOverflow, c.PayloadType, MaxPayloadType)
	}
	if c.InitialFrameID > MaxID {
		return fmt.Errorf("%w: initial frame id %d exceeds %d", ErrFieldOverflow, c.InitialFrameID, MaxID)
	}
	return limits.ValidatePacketSize(c.MaxPacketSize)
}

// Packetizer splits application frames into tile packets.
//
// Every frame gets the next 31-bit frame id; its packets get packet ids
// 0..n-1, consecutive sequence numbers and the same timestamp. The last
// packet carries the packet-end flag.
type Packetizer struct {
	mu             sync.Mutex
	payloadType    uint8
	maxPayloadSize int
	sequenceNumber uint16
	frameID        uint32
}

// NewPacketizer creates a packetizer from a validated configuration.
func NewPacketizer(cfg PacketizerConfig) (*Packetizer, error) {
	logrus.WithFields(logrus.Fields{
		"function":        "NewPacketizer",
		"payload_type":    cfg.PayloadType,
		"max_packet_size": cfg.MaxPacketSize,
	}).Info("Creating new tile packetizer")

	if err := cfg.Validate(); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "NewPacketizer",
			"error":    err.Error(),
		}).Error("Invalid packetizer configuration")
		return nil, fmt.Errorf("invalid packetizer configuration: %w", err)
	}

	return &Packetizer{
		payloadType:    cfg.PayloadType,
		maxPayloadSize: cfg.MaxPacketSize - HeaderSize,
		sequenceNumber: cfg.InitialSequence,
		frameID:        cfg.InitialFrameID,
	}, nil
}

// Packetize splits one frame into packets sharing the given timestamp.
//
// Parameters:
//   - frame: Application frame data, 1 byte to limits.MaxFrameSize
//   - timestamp: RTP timestamp of the frame
//
// Returns:
//   - []*Packet: Packets in transmission order
//   - error: Frame size validation error
func (p *Packetizer) Packetize(frame []byte, timestamp uint32) ([]*Packet, error) {
	if err := limits.ValidateFrame(frame); err != nil {
		logrus.WithFields(logrus.Fields{
			"function":   "Packetizer.Packetize",
			"frame_size": len(frame),
			"error":      err.Error(),
		}).Error("Invalid frame")
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	count := (len(frame) + p.maxPayloadSize - 1) / p.maxPayloadSize
	packets := make([]*Packet, 0, count)

	for i := 0; i < count; i++ {
		start := i * p.maxPayloadSize
		end := start + p.maxPayloadSize
		if end > len(frame) {
			end = len(frame)
		}

		packets = append(packets, Encode(Fields{
			PayloadType:    p.payloadType,
			SequenceNumber: p.sequenceNumber,
			Timestamp:      timestamp,
			FrameLength:    uint32(len(frame)),
			FrameID:        p.frameID,
			PacketID:       uint32(i),
			PacketEnd:      i == count-1,
		}, frame[start:end]))

		p.sequenceNumber++
	}

	logrus.WithFields(logrus.Fields{
		"function":     "Packetizer.Packetize",
		"frame_id":     p.frameID,
		"frame_size":   len(frame),
		"packet_count": count,
		"timestamp":    timestamp,
	}).Debug("Frame packetized")

	p.frameID = (p.frameID + 1) & MaxID

	return packets, nil
}

// Stats returns the next sequence number and frame id.
func (p *Packetizer) Stats() (sequenceNumber uint16, frameID uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sequenceNumber, p.frameID
}

// MaxPayloadSize returns the payload capacity of one packet.
func (p *Packetizer) MaxPayloadSize() int {
	return p.maxPayloadSize
}
