package stream

import (
	"fmt"
	"time"

	"github.com/opd-ai/tilertp/limits"
	"github.com/opd-ai/tilertp/rtp"
)

// Config holds the settings shared by Sender and Receiver.
type Config struct {
	// PayloadType is the 7-bit RTP payload type of outgoing packets.
	PayloadType uint8 `yaml:"payload_type"`
	// MaxPacketSize bounds each datagram, tile header included.
	MaxPacketSize int `yaml:"max_packet_size"`
	// ClockRate is the RTP timestamp rate in Hz.
	ClockRate uint32 `yaml:"clock_rate"`
	// FrameRate is the nominal frames per second used to advance timestamps.
	FrameRate uint32 `yaml:"frame_rate"`
	// MaxPendingFrames bounds partial frames held by the receiver.
	MaxPendingFrames int `yaml:"max_pending_frames"`
	// FrameTimeout drops partial frames that stop receiving packets.
	FrameTimeout time.Duration `yaml:"frame_timeout"`
	// Strict rejects out-of-range fields in SendPacket instead of masking them.
	Strict bool `yaml:"strict"`
}

// DefaultConfig returns settings for 25 fps JPEG tiles on a 90 kHz clock.
func DefaultConfig() Config {
	rc := rtp.DefaultReassemblerConfig()
	return Config{
		PayloadType:      rtp.DefaultPayloadType,
		MaxPacketSize:    limits.DefaultMaxPacketSize,
		ClockRate:        90000,
		FrameRate:        25,
		MaxPendingFrames: rc.MaxFrames,
		FrameTimeout:     rc.Timeout,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.PayloadType > rtp.MaxPayloadType {
		return fmt.Errorf("payload type %d exceeds %d", c.PayloadType, rtp.MaxPayloadType)
	}
	if err := limits.ValidatePacketSize(c.MaxPacketSize); err != nil {
		return err
	}
	if c.ClockRate == 0 {
		return fmt.Errorf("clock rate cannot be zero")
	}
	if c.FrameRate == 0 {
		return fmt.Errorf("frame rate cannot be zero")
	}
	if c.MaxPendingFrames <= 0 {
		return fmt.Errorf("max pending frames must be positive")
	}
	if c.FrameTimeout <= 0 {
		return fmt.Errorf("frame timeout must be positive")
	}
	return nil
}

// TimestampStep is the RTP timestamp increment between consecutive frames.
func (c Config) TimestampStep() uint32 {
	return c.ClockRate / c.FrameRate
}

// FrameInterval is the wall-clock time between consecutive frames.
func (c Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.FrameRate)
}

func (c Config) packetizerConfig() rtp.PacketizerConfig {
	return rtp.PacketizerConfig{
		PayloadType:   c.PayloadType,
		MaxPacketSize: c.MaxPacketSize,
	}
}

func (c Config) reassemblerConfig() rtp.ReassemblerConfig {
	return rtp.ReassemblerConfig{
		MaxFrames: c.MaxPendingFrames,
		Timeout:   c.FrameTimeout,
	}
}
