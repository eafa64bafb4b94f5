// Package protocol encodes the clock reports firmware sends to the host.
//
// The framing is the one used by Klipper-style MCUs: each frame is
//
//	len, seq, payload..., crc_hi, crc_lo, 0x7E
//
// where len counts the whole frame, seq carries 0x10 in its high nibble and
// a rolling sequence number in the low nibble, and the CRC16 covers len
// through the end of the payload. Payloads are a VLQ message id followed by
// VLQ-encoded arguments.
package protocol

import "errors"

// Frame layout
const (
	FrameHeader  = 2 // len, seq
	FrameTrailer = 3 // crc_hi, crc_lo, sync
	FrameMin     = FrameHeader + FrameTrailer
	FrameMax     = 64

	PayloadMax = FrameMax - FrameMin

	SyncByte = 0x7E

	// SeqDest is the fixed high nibble of every seq byte
	SeqDest = 0x10
	SeqMask = 0x0F
)

// Message ids
const (
	MsgClockReport    = 1
	MsgRegisterReport = 2
)

var (
	// ErrFrameTooLarge is returned when a payload does not fit in a frame.
	ErrFrameTooLarge = errors.New("payload too large for frame")

	// ErrUnknownMessage is returned for payloads with an unknown message id.
	ErrUnknownMessage = errors.New("unknown message id")
)
