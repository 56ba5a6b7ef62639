package stream

import (
	"sync"
	"time"
)

// Statistics are the counters of one stream endpoint.
type Statistics struct {
	PacketsSent      uint64
	BytesSent        uint64
	FramesSent       uint64
	PacketsReceived  uint64
	BytesReceived    uint64
	PacketsTruncated uint64 // datagrams shorter than the tile header
	PacketsForeign   uint64 // datagrams from an unexpected source id
	PacketsLost      uint64 // sequence numbers skipped
	PacketsLate      uint64 // sequence numbers at or behind the highest seen
	FramesCompleted  uint64
	FramesDropped    uint64 // inconsistent or evicted partial frames
	Created          time.Time
}

// Session tracks statistics and sequence continuity for one endpoint.
type Session struct {
	mu         sync.RWMutex
	stats      Statistics
	lastSeq    uint16
	hasLastSeq bool
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{stats: Statistics{Created: time.Now()}}
}

// recordSent accounts for one transmitted datagram.
func (s *Session) recordSent(size int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.PacketsSent++
	s.stats.BytesSent += uint64(size)
}

func (s *Session) recordFrameSent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.FramesSent++
}

func (s *Session) recordTruncated() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.PacketsTruncated++
}

func (s *Session) recordForeign() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.PacketsForeign++
}

func (s *Session) recordFrameCompleted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.FramesCompleted++
}

func (s *Session) setFramesDropped(n uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.FramesDropped = n
}

// recordReceived accounts for one decoded packet and returns the number of
// sequence numbers skipped before it (0 when in order).
func (s *Session) recordReceived(seq uint16, size int) uint16 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.PacketsReceived++
	s.stats.BytesReceived += uint64(size)

	if !s.hasLastSeq {
		s.lastSeq = seq
		s.hasLastSeq = true
		return 0
	}

	delta := int16(seq - s.lastSeq)
	if delta <= 0 {
		s.stats.PacketsLate++
		return 0
	}

	gap := uint16(delta - 1)
	s.stats.PacketsLost += uint64(gap)
	s.lastSeq = seq
	return gap
}

// Statistics returns a snapshot of the counters.
func (s *Session) Statistics() Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}
