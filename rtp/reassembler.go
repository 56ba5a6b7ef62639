package rtp

import (
	"fmt"
	"sync"
	"time"

	"github.com/opd-ai/tilertp/limits"
	"github.com/sirupsen/logrus"
)

// Frame is an application frame rebuilt from its tile packets.
type Frame struct {
	ID          uint32
	Timestamp   uint32
	PayloadType uint8
	Data        []byte
}

// ReassemblerConfig bounds the partial frames a Reassembler keeps.
type ReassemblerConfig struct {
	// MaxFrames is the number of partial frames kept at once.
	MaxFrames int
	// Timeout drops partial frames that received nothing for this long.
	Timeout time.Duration
}

// DefaultReassemblerConfig returns a 10 frame, 5 second window.
func DefaultReassemblerConfig() ReassemblerConfig {
	return ReassemblerConfig{
		MaxFrames: 10,
		Timeout:   5 * time.Second,
	}
}

// frameAssembly collects the packets of one frame id.
type frameAssembly struct {
	frameLength  uint32
	timestamp    uint32
	payloadType  uint8
	parts        map[uint32][]byte
	received     uint64
	endID        uint32
	hasEnd       bool
	lastActivity time.Time
}

// Reassembler rebuilds frames from decoded tile packets.
//
// A frame is complete once the packet-end packet has arrived, every packet id
// up to it is present and the payload sizes add up to the frame length.
// Packets may arrive in any order; duplicates are ignored. Only an empty
// frame may contain an empty packet. There is no reordering delay and no loss
// recovery: incomplete frames are dropped on timeout or when the buffer is full.
type Reassembler struct {
	mu           sync.Mutex
	frames       map[uint32]*frameAssembly
	maxFrames    int
	timeout      time.Duration
	dropped      uint64
	timeProvider TimeProvider
}

// NewReassembler creates a reassembler using the system clock.
func NewReassembler(cfg ReassemblerConfig) *Reassembler {
	return NewReassemblerWithTimeProvider(cfg, DefaultTimeProvider{})
}

// NewReassemblerWithTimeProvider creates a reassembler with a custom time provider.
// Use this for deterministic testing by injecting a mock time provider.
func NewReassemblerWithTimeProvider(cfg ReassemblerConfig, tp TimeProvider) *Reassembler {
	if cfg.MaxFrames <= 0 {
		cfg.MaxFrames = DefaultReassemblerConfig().MaxFrames
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultReassemblerConfig().Timeout
	}
	if tp == nil {
		tp = DefaultTimeProvider{}
	}
	return &Reassembler{
		frames:       make(map[uint32]*frameAssembly),
		maxFrames:    cfg.MaxFrames,
		timeout:      cfg.Timeout,
		timeProvider: tp,
	}
}

// Push adds a packet and returns the frame it completes, or nil.
//
// ErrInconsistentFrame is returned, and the partial frame discarded, when the
// packet contradicts what was already received for its frame id.
func (r *Reassembler) Push(p *Packet) (*Frame, error) {
	if p == nil {
		return nil, fmt.Errorf("packet cannot be nil")
	}
	if p.FrameLength() > limits.MaxFrameSize {
		return nil, fmt.Errorf("%w: frame %d declares %d bytes", limits.ErrFrameTooLarge, p.FrameID(), p.FrameLength())
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := p.FrameID()
	assembly := r.getOrCreate(p)

	if err := r.add(assembly, p); err != nil {
		delete(r.frames, id)
		r.dropped++
		logrus.WithFields(logrus.Fields{
			"function":  "Reassembler.Push",
			"frame_id":  id,
			"packet_id": p.PacketID(),
			"error":     err.Error(),
		}).Warn("Discarding inconsistent frame")
		return nil, err
	}

	if !assembly.complete() {
		return nil, nil
	}

	delete(r.frames, id)
	data := make([]byte, 0, assembly.frameLength)
	for i := uint32(0); i <= assembly.endID; i++ {
		data = append(data, assembly.parts[i]...)
	}

	logrus.WithFields(logrus.Fields{
		"function":     "Reassembler.Push",
		"frame_id":     id,
		"frame_size":   len(data),
		"packet_count": len(assembly.parts),
	}).Debug("Frame reassembled")

	return &Frame{
		ID:          id,
		Timestamp:   assembly.timestamp,
		PayloadType: assembly.payloadType,
		Data:        data,
	}, nil
}

// getOrCreate returns the assembly for the packet's frame id, making room if needed.
func (r *Reassembler) getOrCreate(p *Packet) *frameAssembly {
	now := r.timeProvider.Now()
	assembly, exists := r.frames[p.FrameID()]
	if exists {
		return assembly
	}

	if len(r.frames) >= r.maxFrames {
		r.cleanupStale(now)
		if len(r.frames) >= r.maxFrames {
			r.removeOldest()
		}
	}

	assembly = &frameAssembly{
		frameLength:  p.FrameLength(),
		timestamp:    p.Timestamp(),
		payloadType:  p.PayloadType(),
		parts:        make(map[uint32][]byte),
		lastActivity: now,
	}
	r.frames[p.FrameID()] = assembly
	return assembly
}

// add records one packet in its assembly.
func (r *Reassembler) add(a *frameAssembly, p *Packet) error {
	if p.FrameLength() != a.frameLength {
		return fmt.Errorf("%w: frame length %d, expected %d", ErrInconsistentFrame, p.FrameLength(), a.frameLength)
	}

	pid := p.PacketID()
	// Every packet but an empty frame's only one carries at least one byte.
	if uint64(pid) > uint64(a.frameLength) {
		return fmt.Errorf("%w: packet id %d beyond a %d byte frame", ErrInconsistentFrame, pid, a.frameLength)
	}
	if p.PayloadLength() == 0 && a.frameLength > 0 {
		return fmt.Errorf("%w: empty packet %d in a %d byte frame", ErrInconsistentFrame, pid, a.frameLength)
	}
	if _, dup := a.parts[pid]; dup {
		return nil
	}

	if p.PacketEnd() {
		if a.hasEnd && a.endID != pid {
			return fmt.Errorf("%w: second end packet %d, first was %d", ErrInconsistentFrame, pid, a.endID)
		}
		for stored := range a.parts {
			if stored > pid {
				return fmt.Errorf("%w: packet %d stored before end packet %d", ErrInconsistentFrame, stored, pid)
			}
		}
		a.endID = pid
		a.hasEnd = true
	}
	if a.hasEnd && pid > a.endID {
		return fmt.Errorf("%w: packet %d after end packet %d", ErrInconsistentFrame, pid, a.endID)
	}

	a.received += uint64(p.PayloadLength())
	if a.received > uint64(a.frameLength) {
		return fmt.Errorf("%w: %d bytes received for a %d byte frame", ErrInconsistentFrame, a.received, a.frameLength)
	}

	// Packet payloads are already private copies.
	a.parts[pid] = p.payload
	a.lastActivity = r.timeProvider.Now()
	return nil
}

func (a *frameAssembly) complete() bool {
	if !a.hasEnd || uint64(len(a.parts)) != uint64(a.endID)+1 || a.received != uint64(a.frameLength) {
		return false
	}
	for i := uint32(0); i <= a.endID; i++ {
		if _, ok := a.parts[i]; !ok {
			return false
		}
	}
	return true
}

// cleanupStale removes partial frames idle longer than the timeout.
func (r *Reassembler) cleanupStale(now time.Time) {
	cutoff := now.Add(-r.timeout)
	for id, a := range r.frames {
		if a.lastActivity.Before(cutoff) {
			delete(r.frames, id)
			r.dropped++
		}
	}
}

// removeOldest removes the partial frame with the oldest activity.
func (r *Reassembler) removeOldest() {
	var oldestID uint32
	var oldest time.Time
	first := true

	for id, a := range r.frames {
		if first || a.lastActivity.Before(oldest) {
			oldestID = id
			oldest = a.lastActivity
			first = false
		}
	}
	if !first {
		delete(r.frames, oldestID)
		r.dropped++
	}
}

// Expire drops partial frames idle longer than the timeout and returns how many.
func (r *Reassembler) Expire() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	before := len(r.frames)
	r.cleanupStale(r.timeProvider.Now())
	return before - len(r.frames)
}

// Pending returns the number of partial frames.
func (r *Reassembler) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

// Dropped returns the number of partial frames discarded so far.
func (r *Reassembler) Dropped() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}
