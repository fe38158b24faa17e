package crypto

import (
	"testing"

	fasthex "github.com/tmthrgd/go-hex"
)

func TestKeccak256KnownVector(t *testing.T) {
	// Keccak-256 (pre-NIST padding) of the empty string.
	const want = "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"
	got := Keccak256([]byte(""))
	if fasthex.EncodeToString(got[:]) != want {
		t.Fatalf("got %s, want %s", fasthex.EncodeToString(got[:]), want)
	}
}

func TestHash32IsDeterministicAndLabelSensitive(t *testing.T) {
	a := Hash32("label-a", []byte("payload"))
	b := Hash32("label-b", []byte("payload"))
	c := Hash32("label-a", []byte("payload"))

	if a == b {
		t.Fatalf("distinct labels produced the same digest")
	}
	if a != c {
		t.Fatalf("hashing is not deterministic")
	}
}

func TestHashScalarIsReduced(t *testing.T) {
	s := HashScalar("some-label", []byte("some-argument"))
	if !IsReduced32([32]byte(s.Bytes())) {
		t.Fatalf("HashScalar produced a non-canonical scalar")
	}
}

func TestEncryptXorIsInvolution(t *testing.T) {
	plain := []byte("0123456701234567")
	key := []byte("keystream-bytes!")

	enc := make([]byte, len(plain))
	EncryptXor(enc, plain, key)

	dec := make([]byte, len(plain))
	EncryptXor(dec, enc, key)

	if string(dec) != string(plain) {
		t.Fatalf("EncryptXor did not round-trip: got %q, want %q", dec, plain)
	}
}
