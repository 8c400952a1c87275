package protocol

// OutputBuffer is where frames and message bodies are assembled before they
// are handed to the serial link.
type OutputBuffer interface {
	// Output appends data.
	Output(data []byte)

	// CurPosition is the offset the next Output writes to.
	CurPosition() int

	// Update patches one already written byte, e.g. a length prefix.
	Update(pos int, val byte)

	// DataSince returns everything written from pos on; EncodeFrame uses it
	// to checksum the header and payload of the frame in progress.
	DataSince(pos int) []byte
}

// ScratchOutput is an OutputBuffer backed by a fixed array sized for the
// largest message, so building a frame never allocates on the device.
// Writes past the end are truncated.
type ScratchOutput struct {
	buf [MessageMax]byte
	pos int
}

func NewScratchOutput() *ScratchOutput {
	return &ScratchOutput{}
}

func (s *ScratchOutput) Output(data []byte) {
	s.pos += copy(s.buf[s.pos:], data)
}

func (s *ScratchOutput) CurPosition() int { return s.pos }

func (s *ScratchOutput) Update(pos int, val byte) {
	if pos >= 0 && pos < s.pos {
		s.buf[pos] = val
	}
}

func (s *ScratchOutput) DataSince(pos int) []byte {
	if pos < 0 || pos > s.pos {
		return nil
	}
	return s.buf[pos:s.pos]
}

// Result is the assembled frame or message body.
func (s *ScratchOutput) Result() []byte { return s.buf[:s.pos] }

// Reset makes the buffer ready for the next message.
func (s *ScratchOutput) Reset() { s.pos = 0 }

// FifoBuffer is the receive window of a FrameDecoder: serial reads are
// appended at the tail, decoded frames are popped from the head. One slot
// stays unused to tell a full ring from an empty one.
type FifoBuffer struct {
	buf   []byte
	read  int
	write int
}

// NewFifoBuffer creates a ring holding up to capacity-1 bytes.
func NewFifoBuffer(capacity int) *FifoBuffer {
	return &FifoBuffer{buf: make([]byte, capacity)}
}

// Write appends as much of data as fits and returns the count.
func (f *FifoBuffer) Write(data []byte) int {
	n := min(len(data), f.Free())
	for i := 0; i < n; i++ {
		f.buf[f.write] = data[i]
		f.write = (f.write + 1) % len(f.buf)
	}
	return n
}

// Available is the number of buffered bytes.
func (f *FifoBuffer) Available() int {
	return (f.write - f.read + len(f.buf)) % len(f.buf)
}

// Free is the number of bytes Write can still accept.
func (f *FifoBuffer) Free() int {
	return len(f.buf) - 1 - f.Available()
}

// Data returns the buffered bytes in order. A contiguous window is returned
// in place; a wrapped one is copied.
func (f *FifoBuffer) Data() []byte {
	if f.read <= f.write {
		return f.buf[f.read:f.write]
	}
	out := make([]byte, 0, f.Available())
	out = append(out, f.buf[f.read:]...)
	return append(out, f.buf[:f.write]...)
}

// Pop discards up to n bytes from the head.
func (f *FifoBuffer) Pop(n int) {
	n = min(n, f.Available())
	f.read = (f.read + n) % len(f.buf)
}

func (f *FifoBuffer) IsEmpty() bool { return f.read == f.write }

// Reset drops everything buffered, e.g. after the port is reopened.
func (f *FifoBuffer) Reset() {
	f.read = 0
	f.write = 0
}
