package stream

import (
	"fmt"
	"net"
	"sync"

	"github.com/opd-ai/tilertp/rtp"
	"github.com/opd-ai/tilertp/transport"
	"github.com/sirupsen/logrus"
)

// Sender packetizes frames and transmits them over a Transport.
type Sender struct {
	mu            sync.Mutex
	packetizer    *rtp.Packetizer
	transport     transport.Transport
	remoteAddr    net.Addr
	timestamp     uint32
	timestampStep uint32
	strict        bool
	session       *Session
}

// NewSender creates a sender for one remote receiver.
//
// Parameters:
//   - cfg: Stream configuration
//   - tr: Transport used to send datagrams
//   - remoteAddr: Receiver address
//
// Returns:
//   - *Sender: New sender instance
//   - error: Any configuration error
func NewSender(cfg Config, tr transport.Transport, remoteAddr net.Addr) (*Sender, error) {
	if tr == nil {
		return nil, fmt.Errorf("transport cannot be nil")
	}
	if remoteAddr == nil {
		return nil, fmt.Errorf("remote address cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid stream configuration: %w", err)
	}

	packetizer, err := rtp.NewPacketizer(cfg.packetizerConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create packetizer: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"function":        "NewSender",
		"remote_addr":     remoteAddr.String(),
		"payload_type":    cfg.PayloadType,
		"max_packet_size": cfg.MaxPacketSize,
		"timestamp_step":  cfg.TimestampStep(),
	}).Info("Sender created")

	return &Sender{
		packetizer:    packetizer,
		transport:     tr,
		remoteAddr:    remoteAddr,
		timestampStep: cfg.TimestampStep(),
		strict:        cfg.Strict,
		session:       NewSession(),
	}, nil
}

// SendFrame sends a frame stamped with the next nominal timestamp.
func (s *Sender) SendFrame(frame []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.sendFrameLocked(frame, s.timestamp)
	if err == nil {
		s.timestamp += s.timestampStep
	}
	return err
}

// SendFrameAt sends a frame with an explicit RTP timestamp.
func (s *Sender) SendFrameAt(frame []byte, timestamp uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sendFrameLocked(frame, timestamp)
}

func (s *Sender) sendFrameLocked(frame []byte, timestamp uint32) error {
	packets, err := s.packetizer.Packetize(frame, timestamp)
	if err != nil {
		return fmt.Errorf("failed to packetize frame: %w", err)
	}

	for _, pkt := range packets {
		if err := s.send(pkt); err != nil {
			logrus.WithFields(logrus.Fields{
				"function":  "Sender.SendFrame",
				"frame_id":  pkt.FrameID(),
				"packet_id": pkt.PacketID(),
				"error":     err.Error(),
			}).Error("Failed to send tile packet")
			return err
		}
	}

	s.session.recordFrameSent()

	logrus.WithFields(logrus.Fields{
		"function":     "Sender.SendFrame",
		"frame_size":   len(frame),
		"packet_count": len(packets),
		"timestamp":    timestamp,
	}).Debug("Frame sent")

	return nil
}

// SendPacket encodes and sends a single packet with caller-chosen fields.
// With Config.Strict set, out-of-range fields fail with rtp.ErrFieldOverflow.
func (s *Sender) SendPacket(f rtp.Fields, payload []byte) error {
	var pkt *rtp.Packet
	if s.strict {
		var err error
		if pkt, err = rtp.EncodeStrict(f, payload); err != nil {
			return err
		}
	} else {
		pkt = rtp.Encode(f, payload)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.send(pkt)
}

func (s *Sender) send(pkt *rtp.Packet) error {
	data := pkt.Marshal()
	if err := s.transport.Send(data, s.remoteAddr); err != nil {
		return fmt.Errorf("failed to send tile packet: %w", err)
	}
	s.session.recordSent(len(data))
	return nil
}

// Statistics returns the sender counters.
func (s *Sender) Statistics() Statistics {
	return s.session.Statistics()
}
