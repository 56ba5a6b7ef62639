package rtp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPackFrameID(t *testing.T) {
	tests := []struct {
		name     string
		id       uint32
		expected []byte
	}{
		{"Zero", 0, []byte{0x00, 0x00, 0x00, 0x00}},
		{"Small", 5, []byte{0x00, 0x00, 0x00, 0x05}},
		{"Max", MaxID, []byte{0x7F, 0xFF, 0xFF, 0xFF}},
		{"Reserved bit masked", 0x80000001, []byte{0x00, 0x00, 0x00, 0x01}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := []byte{0xAA, 0xAA, 0xAA, 0xAA}
			packFrameID(buf, tt.id)
			assert.Equal(t, tt.expected, buf)
			assert.Equal(t, tt.id&MaxID, unpackFrameID(buf))
		})
	}
}

func TestUnpackFrameID_IgnoresReservedBit(t *testing.T) {
	assert.Equal(t, uint32(0), unpackFrameID([]byte{0x80, 0x00, 0x00, 0x00}))
	assert.Equal(t, MaxID, unpackFrameID([]byte{0xFF, 0xFF, 0xFF, 0xFF}))
	assert.Equal(t, uint32(0x01020304), unpackFrameID([]byte{0x81, 0x02, 0x03, 0x04}))
}

func TestPackPacketID(t *testing.T) {
	tests := []struct {
		name     string
		id       uint32
		end      bool
		expected []byte
	}{
		{"Zero", 0, false, []byte{0x00, 0x00, 0x00, 0x00}},
		{"End only", 0, true, []byte{0x80, 0x00, 0x00, 0x00}},
		{"End with id", 5, true, []byte{0x80, 0x00, 0x00, 0x05}},
		{"Max id", MaxID, false, []byte{0x7F, 0xFF, 0xFF, 0xFF}},
		{"Max id with end", MaxID, true, []byte{0xFF, 0xFF, 0xFF, 0xFF}},
		{"Overflow does not set end", 0x80000000, false, []byte{0x00, 0x00, 0x00, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]byte, 4)
			packPacketID(buf, tt.id, tt.end)
			assert.Equal(t, tt.expected, buf)

			id, end := unpackPacketID(buf)
			assert.Equal(t, tt.id&MaxID, id)
			assert.Equal(t, tt.end, end)
		})
	}
}

func TestPackFirstByte(t *testing.T) {
	assert.Equal(t, byte(0x80), packFirstByte(2, false, false, 0))
	assert.Equal(t, byte(0xFF), packFirstByte(3, true, true, 15))
	assert.Equal(t, byte(0xA3), packFirstByte(2, true, false, 3))
	assert.Equal(t, byte(0x90), packFirstByte(2, false, true, 0))
	assert.Equal(t, byte(0x4F), packFirstByte(1, false, false, 0xFF))
}
