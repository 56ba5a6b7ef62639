package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSession_RecordReceived(t *testing.T) {
	tests := []struct {
		name     string
		seqs     []uint16
		wantGaps []uint16
		lost     uint64
		late     uint64
	}{
		{"In order", []uint16{10, 11, 12}, []uint16{0, 0, 0}, 0, 0},
		{"Gap", []uint16{10, 13}, []uint16{0, 2}, 2, 0},
		{"Wraparound", []uint16{65535, 0, 1}, []uint16{0, 0, 0}, 0, 0},
		{"Duplicate", []uint16{5, 5}, []uint16{0, 0}, 0, 1},
		{"Reordered", []uint16{5, 7, 6}, []uint16{0, 1, 0}, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession()
			for i, seq := range tt.seqs {
				assert.Equal(t, tt.wantGaps[i], s.recordReceived(seq, 30))
			}

			stats := s.Statistics()
			assert.Equal(t, uint64(len(tt.seqs)), stats.PacketsReceived)
			assert.Equal(t, uint64(30*len(tt.seqs)), stats.BytesReceived)
			assert.Equal(t, tt.lost, stats.PacketsLost)
			assert.Equal(t, tt.late, stats.PacketsLate)
		})
	}
}

func TestSession_Counters(t *testing.T) {
	s := NewSession()
	s.recordSent(100)
	s.recordSent(50)
	s.recordFrameSent()
	s.recordTruncated()
	s.recordForeign()
	s.recordFrameCompleted()
	s.setFramesDropped(3)

	stats := s.Statistics()
	assert.Equal(t, uint64(2), stats.PacketsSent)
	assert.Equal(t, uint64(150), stats.BytesSent)
	assert.Equal(t, uint64(1), stats.FramesSent)
	assert.Equal(t, uint64(1), stats.PacketsTruncated)
	assert.Equal(t, uint64(1), stats.PacketsForeign)
	assert.Equal(t, uint64(1), stats.FramesCompleted)
	assert.Equal(t, uint64(3), stats.FramesDropped)
	assert.False(t, stats.Created.IsZero())
}
