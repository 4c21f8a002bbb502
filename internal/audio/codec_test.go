package audio

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	// Cover every byte value
	full := make([]byte, 256)
	for i := range full {
		full[i] = byte(i)
	}

	cases := [][]byte{
		nil,
		{},
		{0},
		{0xFF},
		[]byte("hello audio"),
		full,
	}

	for _, input := range cases {
		decoded, err := Decode(Encode(input))
		if err != nil {
			t.Fatalf("Decode(Encode(%d bytes)) failed: %v", len(input), err)
		}
		if !bytes.Equal(decoded, input) {
			t.Errorf("Round trip mismatch for %d byte input", len(input))
		}
	}
}

func TestEncode_Empty(t *testing.T) {
	if got := Encode(nil); got != "" {
		t.Errorf("Expected empty encoding for empty input, got %q", got)
	}
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode("not%%%base64!!!")
	if err == nil {
		t.Fatal("Expected error for malformed input")
	}

	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Errorf("Expected *DecodeError, got %T", err)
	}
}

func TestChunk_Counts(t *testing.T) {
	const size = 8192

	cases := []struct {
		length int
		want   int
	}{
		{0, 0},
		{1000, 1},
		{8192, 1},
		{8193, 2},
		{16384, 2},
	}

	for _, c := range cases {
		chunks := Chunk(make([]byte, c.length), size)
		if len(chunks) != c.want {
			t.Errorf("Chunk(%d bytes, %d): expected %d chunks, got %d", c.length, size, c.want, len(chunks))
		}
	}
}

func TestChunk_PreservesContent(t *testing.T) {
	data := make([]byte, 1000)
	for i := range data {
		data[i] = byte(i % 251)
	}

	chunks := Chunk(data, 300)
	if len(chunks) != 4 {
		t.Fatalf("Expected 4 chunks, got %d", len(chunks))
	}

	var reassembled []byte
	total := 0
	for i, chunk := range chunks {
		if len(chunk) > 300 {
			t.Errorf("Chunk %d exceeds size limit: %d bytes", i, len(chunk))
		}
		total += len(chunk)
		reassembled = append(reassembled, chunk...)
	}

	if total != len(data) {
		t.Errorf("Chunk byte lengths sum to %d, expected %d", total, len(data))
	}
	if !bytes.Equal(reassembled, data) {
		t.Error("Reassembled chunks do not match original data")
	}

	if last := chunks[len(chunks)-1]; len(last) != 100 {
		t.Errorf("Expected last chunk of 100 bytes, got %d", len(last))
	}
}

func TestChunk_ZeroLengthInput(t *testing.T) {
	if chunks := Chunk(nil, 8192); len(chunks) != 0 {
		t.Errorf("Expected no chunks for empty input, got %d", len(chunks))
	}
}
