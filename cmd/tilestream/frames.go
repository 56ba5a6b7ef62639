package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/opd-ai/tilertp/limits"
)

const (
	formatMJPEG = "mjpeg"
	formatRaw   = "raw"

	// mjpegLengthDigits is the ASCII decimal length prefix before each frame.
	mjpegLengthDigits = 5
)

// FrameReader yields frames from a source file.
type FrameReader struct {
	r         *bufio.Reader
	format    string
	frameSize int
	count     int
}

// NewFrameReader reads frames in the given format.
// Raw sources are cut into frameSize chunks; the last chunk may be shorter.
func NewFrameReader(r io.Reader, format string, frameSize int) (*FrameReader, error) {
	switch format {
	case formatMJPEG:
	case formatRaw:
		if frameSize <= 0 || frameSize > limits.MaxFrameSize {
			return nil, fmt.Errorf("invalid frame size %d (must be 1-%d)", frameSize, limits.MaxFrameSize)
		}
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}

	return &FrameReader{
		r:         bufio.NewReader(r),
		format:    format,
		frameSize: frameSize,
	}, nil
}

// Next returns the next frame, or io.EOF after the last one.
func (fr *FrameReader) Next() ([]byte, error) {
	var frame []byte
	var err error

	if fr.format == formatMJPEG {
		frame, err = fr.nextMJPEG()
	} else {
		frame, err = fr.nextRaw()
	}
	if err != nil {
		return nil, err
	}

	fr.count++
	return frame, nil
}

// Count returns the number of frames read so far.
func (fr *FrameReader) Count() int {
	return fr.count
}

func (fr *FrameReader) nextMJPEG() ([]byte, error) {
	prefix := make([]byte, mjpegLengthDigits)
	if _, err := io.ReadFull(fr.r, prefix); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("frame %d: truncated length prefix", fr.count)
		}
		return nil, err
	}

	length, err := strconv.Atoi(strings.TrimSpace(string(prefix)))
	if err != nil || length <= 0 {
		return nil, fmt.Errorf("frame %d: invalid length prefix %q", fr.count, prefix)
	}

	frame := make([]byte, length)
	if _, err := io.ReadFull(fr.r, frame); err != nil {
		return nil, fmt.Errorf("frame %d: %w", fr.count, io.ErrUnexpectedEOF)
	}
	return frame, nil
}

func (fr *FrameReader) nextRaw() ([]byte, error) {
	frame := make([]byte, fr.frameSize)
	n, err := io.ReadFull(fr.r, frame)
	if n > 0 && (err == nil || errors.Is(err, io.ErrUnexpectedEOF)) {
		return frame[:n], nil
	}
	if err == nil {
		err = io.EOF
	}
	return nil, err
}
