package protocol

import (
	"errors"
	"io"
)

// Frame is one validated frame.
type Frame struct {
	Seq     uint8 // Low nibble of the seq byte
	Payload []byte
}

// Encoder wraps payloads in frames with a rolling sequence number.
type Encoder struct {
	seq uint8
}

// Encode appends the frame carrying payload to dst.
func (e *Encoder) Encode(dst, payload []byte) ([]byte, error) {
	if len(payload) > PayloadMax {
		return dst, ErrFrameTooLarge
	}

	start := len(dst)
	dst = append(dst, byte(len(payload)+FrameMin), SeqDest|e.seq&SeqMask)
	dst = append(dst, payload...)
	crc := CRC16(dst[start:])
	dst = append(dst, byte(crc>>8), byte(crc), SyncByte)

	e.seq = (e.seq + 1) & SeqMask
	return dst, nil
}

// errRxFull is returned by Scanner.Write when bytes had to be dropped.
var errRxFull = errors.New("protocol: receive buffer full")

// Scanner splits a byte stream into frames. Garbage and corrupted frames
// are skipped by hunting for the next sync byte.
type Scanner struct {
	rx     *ring
	synced bool

	// BadFrames counts frames rejected for length, seq, sync or CRC
	BadFrames int
}

// NewScanner returns a Scanner that can buffer a few frames.
func NewScanner() *Scanner {
	return &Scanner{rx: newRing(FrameMax * 4), synced: true}
}

// Write buffers received bytes. It implements io.Writer.
func (s *Scanner) Write(p []byte) (int, error) {
	n := s.rx.push(p)
	if n < len(p) {
		return n, errRxFull
	}
	return n, nil
}

// Next returns the next complete frame, or false when more bytes are
// needed.
func (s *Scanner) Next() (Frame, bool) {
	for {
		data := s.rx.peek()

		if !s.synced {
			pos := -1
			for i, b := range data {
				if b == SyncByte {
					pos = i
					break
				}
			}
			if pos < 0 {
				s.rx.discard(len(data))
				return Frame{}, false
			}
			s.rx.discard(pos + 1)
			s.synced = true
			continue
		}

		if len(data) == 0 {
			return Frame{}, false
		}
		if data[0] == SyncByte {
			s.rx.discard(1)
			continue
		}
		if len(data) < FrameMin {
			return Frame{}, false
		}

		n := int(data[0])
		if n < FrameMin || n > FrameMax || data[1]&^SeqMask != SeqDest {
			s.desync()
			continue
		}
		if len(data) < n {
			return Frame{}, false
		}
		if data[n-1] != SyncByte {
			s.desync()
			continue
		}
		crc := uint16(data[n-3])<<8 | uint16(data[n-2])
		if crc != CRC16(data[:n-FrameTrailer]) {
			s.desync()
			continue
		}

		f := Frame{
			Seq:     data[1] & SeqMask,
			Payload: append([]byte(nil), data[FrameHeader:n-FrameTrailer]...),
		}
		s.rx.discard(n)
		return f, true
	}
}

func (s *Scanner) desync() {
	s.synced = false
	s.BadFrames++
}

// Reset drops buffered bytes.
func (s *Scanner) Reset() {
	s.rx.reset()
	s.synced = true
}

// Writer sends messages as frames.
type Writer struct {
	w       io.Writer
	enc     Encoder
	payload [PayloadMax]byte
	frame   [FrameMax]byte
}

// NewWriter returns a Writer sending frames to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteMessage frames m and writes it in one call.
func (w *Writer) WriteMessage(m Message) error {
	payload := m.AppendPayload(w.payload[:0])
	frame, err := w.enc.Encode(w.frame[:0], payload)
	if err != nil {
		return err
	}
	_, err = w.w.Write(frame)
	return err
}

// Reader reads messages from a framed stream.
type Reader struct {
	r     io.Reader
	sc    *Scanner
	chunk []byte
}

// NewReader returns a Reader consuming r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r, sc: NewScanner(), chunk: make([]byte, FrameMax)}
}

// BadFrames returns the number of corrupted frames skipped so far.
func (r *Reader) BadFrames() int {
	return r.sc.BadFrames
}

// ReadFrame blocks until a whole frame has arrived or r fails.
func (r *Reader) ReadFrame() (Frame, error) {
	for {
		if f, ok := r.sc.Next(); ok {
			return f, nil
		}
		n, err := r.r.Read(r.chunk)
		if n > 0 {
			r.sc.Write(r.chunk[:n])
		}
		if err != nil {
			return Frame{}, err
		}
	}
}

// ReadMessage reads and decodes the next frame.
func (r *Reader) ReadMessage() (Message, error) {
	f, err := r.ReadFrame()
	if err != nil {
		return nil, err
	}
	return DecodeMessage(f.Payload)
}
