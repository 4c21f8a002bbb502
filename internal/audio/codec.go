package audio

import (
	"encoding/base64"
	"fmt"
)

// DecodeError indicates a malformed encoded audio payload.
// Sessions drop the offending frame instead of failing the connection.
type DecodeError struct {
	Cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("malformed audio payload: %v", e.Cause)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// Encode converts a raw audio buffer to its transport-safe text form.
// Empty input yields an empty string.
func Encode(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// Decode is the inverse of Encode. It round-trips exactly for all byte
// values; malformed input returns a *DecodeError.
func Decode(encoded string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, &DecodeError{Cause: err}
	}
	return data, nil
}

// Chunk splits a buffer into slices of at most size bytes, preserving order.
// The returned slices share the backing array of data. Zero-length input
// yields no slices. The last slice may be shorter than size.
func Chunk(data []byte, size int) [][]byte {
	if size <= 0 || len(data) == 0 {
		return nil
	}

	chunks := make([][]byte, 0, (len(data)+size-1)/size)
	for start := 0; start < len(data); start += size {
		end := start + size
		if end > len(data) {
			end = len(data)
		}
		chunks = append(chunks, data[start:end])
	}

	return chunks
}
