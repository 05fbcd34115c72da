package common

import (
	"bytes"
	"testing"
)

func TestWipeByteArray_ZerosBuffer(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5}
	WipeByteArray(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("expected buf[%d]==0, got %d", i, v)
		}
	}
}

func TestWipeByteArray_NilSafe(t *testing.T) {
	WipeByteArray(nil)
}

func TestReadRandBytes_Length(t *testing.T) {
	b, err := ReadRandBytes(16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(b) != 16 {
		t.Fatalf("expected 16 bytes, got %d", len(b))
	}
}

func TestReadRandBytes_Zero(t *testing.T) {
	b, err := ReadRandBytes(0)
	if err != nil {
		t.Fatalf("unexpected error for n=0: %v", err)
	}
	if len(b) != 0 {
		t.Fatalf("expected empty slice, got %d bytes", len(b))
	}
}

func TestReadRandBytes_Distinct(t *testing.T) {
	a, err := ReadRandBytes(32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := ReadRandBytes(32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Logf("warning: two ReadRandBytes(32) results are identical; extremely unlikely")
	}
}
