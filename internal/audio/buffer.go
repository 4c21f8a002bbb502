package audio

import (
	"sync"
)

// RingBuffer is a thread-safe, bounded byte ring buffer. Each session uses
// one as its utterance capture buffer: decoded client audio is written by
// the session owner and drained by the transcription feeder. When the
// buffer is full, new writes are truncated rather than blocking.
type RingBuffer struct {
	mu    sync.Mutex
	buf   []byte
	start int
	count int
}

// NewRingBuffer creates a ring buffer holding up to size bytes.
func NewRingBuffer(size int) *RingBuffer {
	return &RingBuffer{buf: make([]byte, size)}
}

// Write appends data to the buffer and returns the number of bytes
// written, which may be less than len(data) if the buffer fills up.
func (rb *RingBuffer) Write(data []byte) int {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	free := len(rb.buf) - rb.count
	if len(data) > free {
		data = data[:free]
	}

	end := (rb.start + rb.count) % len(rb.buf)
	n := copy(rb.buf[end:], data)
	if n < len(data) {
		copy(rb.buf, data[n:])
	}
	rb.count += len(data)

	return len(data)
}

// Read copies up to len(dst) bytes out of the buffer in FIFO order and
// returns the number of bytes read.
func (rb *RingBuffer) Read(dst []byte) int {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	want := len(dst)
	if want > rb.count {
		want = rb.count
	}
	if want == 0 {
		return 0
	}

	n := copy(dst[:want], rb.buf[rb.start:])
	if n < want {
		copy(dst[n:want], rb.buf)
	}
	rb.start = (rb.start + want) % len(rb.buf)
	rb.count -= want

	return want
}

// Available returns the number of buffered bytes.
func (rb *RingBuffer) Available() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.count
}

// Clear drops all buffered bytes. Called on interrupt so a cancelled
// utterance's audio is not replayed into the transcriber.
func (rb *RingBuffer) Clear() {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.start = 0
	rb.count = 0
}

// IsEmpty reports whether the buffer holds no data.
func (rb *RingBuffer) IsEmpty() bool {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.count == 0
}
