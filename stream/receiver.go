package stream

import (
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/opd-ai/tilertp/rtp"
	"github.com/opd-ai/tilertp/transport"
	"github.com/sirupsen/logrus"
)

// FrameHandler receives every reassembled frame.
type FrameHandler func(frame *rtp.Frame, addr net.Addr)

// Receiver decodes tile datagrams and reassembles frames.
//
// Truncated datagrams are logged, counted and discarded. The first source id
// seen is accepted; datagrams from any other source are discarded.
type Receiver struct {
	mu             sync.Mutex
	reassembler    *rtp.Reassembler
	handler        FrameHandler
	expectedSource uint32
	hasSource      bool
	session        *Session
}

// NewReceiver creates a receiver and registers it as the transport's handler.
func NewReceiver(cfg Config, tr transport.Transport, handler FrameHandler) (*Receiver, error) {
	return NewReceiverWithTimeProvider(cfg, tr, handler, rtp.DefaultTimeProvider{})
}

// NewReceiverWithTimeProvider is NewReceiver with an injectable clock for
// deterministic frame timeout tests.
func NewReceiverWithTimeProvider(cfg Config, tr transport.Transport, handler FrameHandler, tp rtp.TimeProvider) (*Receiver, error) {
	if tr == nil {
		return nil, fmt.Errorf("transport cannot be nil")
	}
	if handler == nil {
		return nil, fmt.Errorf("frame handler cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid stream configuration: %w", err)
	}

	r := &Receiver{
		reassembler: rtp.NewReassemblerWithTimeProvider(cfg.reassemblerConfig(), tp),
		handler:     handler,
		session:     NewSession(),
	}
	tr.RegisterHandler(r.HandleDatagram)

	logrus.WithFields(logrus.Fields{
		"function":           "NewReceiver",
		"local_addr":         tr.LocalAddr().String(),
		"max_pending_frames": cfg.MaxPendingFrames,
		"frame_timeout":      cfg.FrameTimeout.String(),
	}).Info("Receiver created")

	return r, nil
}

// HandleDatagram processes one received datagram.
func (r *Receiver) HandleDatagram(data []byte, addr net.Addr) {
	frame, err := r.process(data)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function":  "Receiver.HandleDatagram",
			"data_size": len(data),
			"addr":      addrString(addr),
			"error":     err.Error(),
		}).Warn("Discarding datagram")
		return
	}
	if frame != nil {
		r.handler(frame, addr)
	}
}

func (r *Receiver) process(data []byte) (*rtp.Frame, error) {
	pkt, err := rtp.Unmarshal(data)
	if err != nil {
		if errors.Is(err, rtp.ErrTruncated) {
			r.session.recordTruncated()
		}
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.hasSource {
		r.expectedSource = pkt.SourceID()
		r.hasSource = true
		logrus.WithFields(logrus.Fields{
			"function":  "Receiver.HandleDatagram",
			"source_id": pkt.SourceID(),
		}).Info("Accepted source for stream")
	} else if pkt.SourceID() != r.expectedSource {
		r.session.recordForeign()
		return nil, fmt.Errorf("unexpected source id: expected %d, got %d", r.expectedSource, pkt.SourceID())
	}

	if gap := r.session.recordReceived(pkt.SequenceNumber(), pkt.Len()); gap > 0 {
		logrus.WithFields(logrus.Fields{
			"function":          "Receiver.HandleDatagram",
			"missing_packets":   gap,
			"received_sequence": pkt.SequenceNumber(),
		}).Warn("Sequence gap detected in tile stream")
	}

	if logrus.IsLevelEnabled(logrus.DebugLevel) {
		logrus.WithFields(logrus.Fields{
			"function": "Receiver.HandleDatagram",
			"packet":   pkt.String(),
			"frame_id": pkt.FrameID(),
		}).Debug("Decoded tile packet")
	}

	frame, err := r.reassembler.Push(pkt)
	r.session.setFramesDropped(r.reassembler.Dropped())
	if err != nil {
		return nil, err
	}
	if frame != nil {
		r.session.recordFrameCompleted()
	}
	return frame, nil
}

// Expire drops partial frames that timed out and returns how many.
func (r *Receiver) Expire() int {
	n := r.reassembler.Expire()
	r.session.setFramesDropped(r.reassembler.Dropped())
	return n
}

// PendingFrames returns the number of partially received frames.
func (r *Receiver) PendingFrames() int {
	return r.reassembler.Pending()
}

// Statistics returns the receiver counters.
func (r *Receiver) Statistics() Statistics {
	return r.session.Statistics()
}

func addrString(addr net.Addr) string {
	if addr == nil {
		return ""
	}
	return addr.String()
}
