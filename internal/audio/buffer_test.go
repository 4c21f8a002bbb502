package audio

import (
	"bytes"
	"testing"
)

func TestRingBuffer_WriteRead(t *testing.T) {
	rb := NewRingBuffer(16)

	written := rb.Write([]byte("hello"))
	if written != 5 {
		t.Errorf("Expected 5 bytes written, got %d", written)
	}
	if rb.Available() != 5 {
		t.Errorf("Expected 5 bytes available, got %d", rb.Available())
	}

	dst := make([]byte, 5)
	read := rb.Read(dst)
	if read != 5 {
		t.Errorf("Expected 5 bytes read, got %d", read)
	}
	if !bytes.Equal(dst, []byte("hello")) {
		t.Errorf("Expected 'hello', got %q", dst)
	}
	if !rb.IsEmpty() {
		t.Error("Expected buffer to be empty after full read")
	}
}

func TestRingBuffer_FIFOOrder(t *testing.T) {
	rb := NewRingBuffer(8)

	rb.Write([]byte("abcd"))
	dst := make([]byte, 2)
	rb.Read(dst)
	if !bytes.Equal(dst, []byte("ab")) {
		t.Errorf("Expected 'ab', got %q", dst)
	}

	// Wrap around the end of the backing array
	rb.Write([]byte("efgh"))
	dst = make([]byte, 6)
	read := rb.Read(dst)
	if read != 6 {
		t.Fatalf("Expected 6 bytes read, got %d", read)
	}
	if !bytes.Equal(dst, []byte("cdefgh")) {
		t.Errorf("Expected 'cdefgh', got %q", dst)
	}
}

func TestRingBuffer_BoundedWrite(t *testing.T) {
	rb := NewRingBuffer(4)

	written := rb.Write([]byte("abcdef"))
	if written != 4 {
		t.Errorf("Expected write truncated to 4 bytes, got %d", written)
	}

	// Buffer full, further writes rejected
	if written := rb.Write([]byte("x")); written != 0 {
		t.Errorf("Expected 0 bytes written to full buffer, got %d", written)
	}

	dst := make([]byte, 4)
	rb.Read(dst)
	if !bytes.Equal(dst, []byte("abcd")) {
		t.Errorf("Expected oldest data preserved, got %q", dst)
	}
}

func TestRingBuffer_ReadEmpty(t *testing.T) {
	rb := NewRingBuffer(4)

	dst := make([]byte, 4)
	if read := rb.Read(dst); read != 0 {
		t.Errorf("Expected 0 bytes read from empty buffer, got %d", read)
	}
}

func TestRingBuffer_Clear(t *testing.T) {
	rb := NewRingBuffer(8)

	rb.Write([]byte("abcd"))
	rb.Clear()

	if !rb.IsEmpty() {
		t.Error("Expected buffer to be empty after Clear")
	}
	if rb.Available() != 0 {
		t.Errorf("Expected 0 bytes available after Clear, got %d", rb.Available())
	}

	// Buffer is usable after Clear
	rb.Write([]byte("xy"))
	dst := make([]byte, 2)
	rb.Read(dst)
	if !bytes.Equal(dst, []byte("xy")) {
		t.Errorf("Expected 'xy' after Clear and rewrite, got %q", dst)
	}
}
