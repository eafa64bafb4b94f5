package protocol

// ring is a fixed-capacity byte FIFO holding received bytes until a whole
// frame is available. One slot is kept free to tell full from empty.
type ring struct {
	buf   []byte
	read  int
	write int
}

func newRing(capacity int) *ring {
	return &ring{buf: make([]byte, capacity+1)}
}

// push appends as much of data as fits and returns the count stored.
func (r *ring) push(data []byte) int {
	n := 0
	for _, b := range data {
		next := (r.write + 1) % len(r.buf)
		if next == r.read {
			break
		}
		r.buf[r.write] = b
		r.write = next
		n++
	}
	return n
}

func (r *ring) len() int {
	if r.write >= r.read {
		return r.write - r.read
	}
	return len(r.buf) - r.read + r.write
}

func (r *ring) free() int {
	return len(r.buf) - 1 - r.len()
}

// peek returns the buffered bytes as one slice, copying only when the data
// wraps around the end of the buffer.
func (r *ring) peek() []byte {
	if r.read <= r.write {
		return r.buf[r.read:r.write]
	}
	out := make([]byte, 0, r.len())
	out = append(out, r.buf[r.read:]...)
	return append(out, r.buf[:r.write]...)
}

// discard drops up to n bytes from the front.
func (r *ring) discard(n int) {
	if n > r.len() {
		n = r.len()
	}
	r.read = (r.read + n) % len(r.buf)
}

func (r *ring) reset() {
	r.read, r.write = 0, 0
}
