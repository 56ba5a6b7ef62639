package rtp

import (
	"testing"

	pionrtp "github.com/pion/rtp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardParserReadsTileHeader(t *testing.T) {
	pkt := Encode(Fields{
		PayloadType:    26,
		SequenceNumber: 4242,
		Timestamp:      90000,
		FrameLength:    3,
		FrameID:        17,
		PacketID:       0,
		PacketEnd:      true,
	}, []byte{7, 8, 9})
	wire := pkt.Marshal()

	parsed := &pionrtp.Packet{}
	require.NoError(t, parsed.Unmarshal(wire))

	assert.Equal(t, uint8(2), parsed.Version)
	assert.False(t, parsed.Marker)
	assert.False(t, parsed.Extension)
	assert.Empty(t, parsed.CSRC)
	assert.Equal(t, uint8(26), parsed.PayloadType)
	assert.Equal(t, uint16(4242), parsed.SequenceNumber)
	assert.Equal(t, uint32(90000), parsed.Timestamp)
	assert.Equal(t, DefaultSourceID, parsed.SSRC)
	assert.Equal(t, wire[StandardHeaderSize:], parsed.Payload)
}

func TestRTPPacket_MarshalMatches(t *testing.T) {
	pkt := Encode(Fields{PayloadType: 96, SequenceNumber: 1, Timestamp: 2, FrameLength: 10, FrameID: 3, PacketID: 4}, []byte{1, 2})

	standard := pkt.RTPPacket()
	wire, err := standard.Marshal()
	require.NoError(t, err)

	assert.Equal(t, pkt.Marshal(), wire)
	assert.Equal(t, pkt.RTPHeader(), standard.Header)
}

func TestFromRTPPacket(t *testing.T) {
	original := Encode(Fields{
		PayloadType:    26,
		SequenceNumber: 65535,
		Timestamp:      0xFFFFFFFF,
		FrameLength:    1000,
		FrameID:        MaxID,
		PacketID:       9,
		PacketEnd:      true,
	}, []byte("tile"))

	parsed := &pionrtp.Packet{}
	require.NoError(t, parsed.Unmarshal(original.Marshal()))

	converted, err := FromRTPPacket(parsed)
	require.NoError(t, err)
	assert.Equal(t, original.Fields(), converted.Fields())
	assert.Equal(t, original.SourceID(), converted.SourceID())
	assert.Equal(t, original.Marshal(), converted.Marshal())
}

func TestFromRTPPacket_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		packet  *pionrtp.Packet
		wantErr error
	}{
		{
			name:    "Nil packet",
			packet:  nil,
			wantErr: ErrNotTilePacket,
		},
		{
			name: "CSRC list",
			packet: &pionrtp.Packet{
				Header:  pionrtp.Header{Version: 2, CSRC: []uint32{1}},
				Payload: make([]byte, TileHeaderSize),
			},
			wantErr: ErrNotTilePacket,
		},
		{
			name: "Header extension",
			packet: &pionrtp.Packet{
				Header:  pionrtp.Header{Version: 2, Extension: true},
				Payload: make([]byte, TileHeaderSize),
			},
			wantErr: ErrNotTilePacket,
		},
		{
			name: "Short tile header",
			packet: &pionrtp.Packet{
				Header:  pionrtp.Header{Version: 2},
				Payload: make([]byte, TileHeaderSize-1),
			},
			wantErr: ErrTruncated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkt, err := FromRTPPacket(tt.packet)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, pkt)
		})
	}
}
