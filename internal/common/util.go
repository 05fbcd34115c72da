package common

import (
	"crypto/rand"
	"io"
)

// ReadRandBytes returns n cryptographically secure random bytes.
func ReadRandBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, err
	}
	return b, nil
}

// WipeByteArray overwrites b with zeros. Used to drop passwords from memory
// once they are no longer needed. Nil slices are ignored.
func WipeByteArray(b []byte) {
	if b == nil {
		return
	}
	for i := range b {
		b[i] = 0
	}
}
