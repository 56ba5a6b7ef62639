package limits

import (
	"errors"
	"testing"
)

// TestMinPacketSizeCoversHeader verifies that the smallest packet still carries payload.
func TestMinPacketSizeCoversHeader(t *testing.T) {
	const tileHeader = 24
	if MinPacketSize != tileHeader+1 {
		t.Errorf("MinPacketSize = %d, want %d", MinPacketSize, tileHeader+1)
	}
	if DefaultMaxPacketSize < MinPacketSize || DefaultMaxPacketSize > MaxDatagramSize {
		t.Errorf("DefaultMaxPacketSize %d outside [%d, %d]", DefaultMaxPacketSize, MinPacketSize, MaxDatagramSize)
	}
}

// TestValidateFrameSize tests the generic frame validation function
func TestValidateFrameSize(t *testing.T) {
	tests := []struct {
		name    string
		frame   []byte
		maxSize int
		wantErr error
	}{
		{
			name:    "empty frame",
			frame:   []byte{},
			maxSize: 100,
			wantErr: ErrFrameEmpty,
		},
		{
			name:    "nil frame",
			frame:   nil,
			maxSize: 100,
			wantErr: ErrFrameEmpty,
		},
		{
			name:    "valid frame",
			frame:   []byte("tile"),
			maxSize: 100,
			wantErr: nil,
		},
		{
			name:    "exactly at limit",
			frame:   make([]byte, 100),
			maxSize: 100,
			wantErr: nil,
		},
		{
			name:    "one over limit",
			frame:   make([]byte, 101),
			maxSize: 100,
			wantErr: ErrFrameTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFrameSize(tt.frame, tt.maxSize)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateFrameSize() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestValidatePacketSize tests the packet size bounds
func TestValidatePacketSize(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr error
	}{
		{"header only", 24, ErrPacketSizeOutOfRange},
		{"minimum", MinPacketSize, nil},
		{"default", DefaultMaxPacketSize, nil},
		{"maximum", MaxDatagramSize, nil},
		{"over maximum", MaxDatagramSize + 1, ErrPacketSizeOutOfRange},
		{"negative", -1, ErrPacketSizeOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePacketSize(tt.size)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidatePacketSize(%d) error = %v, wantErr %v", tt.size, err, tt.wantErr)
			}
		})
	}
}

// TestValidateDatagram tests outgoing datagram validation
func TestValidateDatagram(t *testing.T) {
	if err := ValidateDatagram(nil); !errors.Is(err, ErrFrameEmpty) {
		t.Errorf("ValidateDatagram(nil) error = %v, want %v", err, ErrFrameEmpty)
	}
	if err := ValidateDatagram(make([]byte, MaxDatagramSize)); err != nil {
		t.Errorf("ValidateDatagram(max) error = %v, want nil", err)
	}
	if err := ValidateDatagram(make([]byte, MaxDatagramSize+1)); !errors.Is(err, ErrDatagramTooLarge) {
		t.Errorf("ValidateDatagram(max+1) error = %v, want %v", err, ErrDatagramTooLarge)
	}
}

// TestValidateFrame tests the MaxFrameSize wrapper
func TestValidateFrame(t *testing.T) {
	if err := ValidateFrame([]byte{1}); err != nil {
		t.Errorf("ValidateFrame() error = %v, want nil", err)
	}
	err := ValidateFrame(make([]byte, MaxFrameSize+1))
	if !errors.Is(err, ErrFrameTooLarge) {
		t.Errorf("ValidateFrame() error = %v, want %v", err, ErrFrameTooLarge)
	}
}
