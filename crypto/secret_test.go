package crypto

import "testing"

func TestSecretRelease(t *testing.T) {
	var b [32]byte
	for i := range b {
		b[i] = byte(i + 1)
	}

	s := NewSecret(b)
	if s.Bytes() != b {
		t.Fatalf("Bytes() did not return the stored value")
	}

	s.Release()
	var zero [32]byte
	if s.Bytes() != zero {
		t.Fatalf("Release() did not zero the backing array")
	}

	// Calling Release twice must not panic.
	s.Release()
}
