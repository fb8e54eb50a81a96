package protocol

import (
	"errors"
	"io"
)

// FrameHeaderSize is the size of the frame header in bytes.
const FrameHeaderSize = 6

// FrameType identifies the type of frame.
type FrameType uint8

const (
	FrameInit  FrameType = 0x01 // First frame after connecting
	FramePatch FrameType = 0x02 // A successful patch
	FrameError FrameType = 0x03 // A failed patch
)

// String returns the string representation of the frame type.
func (ft FrameType) String() string {
	switch ft {
	case FrameInit:
		return "Init"
	case FramePatch:
		return "Patch"
	case FrameError:
		return "Error"
	default:
		return "Unknown"
	}
}

// FrameFlags are optional flags for frame processing.
type FrameFlags uint8

const (
	FlagNoHTML FrameFlags = 0x01 // html field left empty on purpose
)

// Has reports whether ff contains flag.
func (ff FrameFlags) Has(flag FrameFlags) bool {
	return ff&flag != 0
}

// Frame errors.
var (
	ErrFrameTooLarge    = errors.New("protocol: frame payload too large")
	ErrInvalidFrameType = errors.New("protocol: invalid frame type")
)

// Frame is a header plus payload.
type Frame struct {
	Type    FrameType
	Flags   FrameFlags
	Payload []byte
}

// Encode encodes the frame including the header.
func (f *Frame) Encode() []byte {
	e := &Encoder{buf: make([]byte, 0, FrameHeaderSize+len(f.Payload))}
	e.WriteUint8(byte(f.Type))
	e.WriteUint8(byte(f.Flags))
	e.WriteUint32(uint32(len(f.Payload)))
	e.buf = append(e.buf, f.Payload...)
	return e.buf
}

// DecodeFrame decodes a frame. data must hold the header and the full
// payload; trailing bytes are ignored.
func DecodeFrame(data []byte) (*Frame, error) {
	if len(data) < FrameHeaderSize {
		return nil, io.ErrUnexpectedEOF
	}

	ft := FrameType(data[0])
	switch ft {
	case FrameInit, FramePatch, FrameError:
	default:
		return nil, ErrInvalidFrameType
	}

	length := uint64(data[2])<<24 | uint64(data[3])<<16 | uint64(data[4])<<8 | uint64(data[5])
	if length > MaxStringSize*2 {
		return nil, ErrFrameTooLarge
	}
	if uint64(len(data)-FrameHeaderSize) < length {
		return nil, io.ErrUnexpectedEOF
	}

	payload := make([]byte, length)
	copy(payload, data[FrameHeaderSize:])
	return &Frame{
		Type:    ft,
		Flags:   FrameFlags(data[1]),
		Payload: payload,
	}, nil
}
