package crypto

import "crypto/rand"

// RandomScalar returns a uniformly random, nonzero scalar mod l, sourced
// from the operating system CSPRNG.
func RandomScalar() *Scalar {
	var buf [64]byte
	for {
		if _, err := rand.Read(buf[:]); err != nil {
			panic(err)
		}
		s := new(Scalar)
		_, _ = s.SetUniformBytes(buf[:])
		if s.Equal(new(Scalar)) == 0 {
			return s
		}
	}
}

// RandomBytes fills a fresh byte slice of length n from the OS CSPRNG.
// Used for janus-anchor randomness, dummy-proposal randomness, and the
// internal self-send's freshly-random anchor_enc.
func RandomBytes(n int) []byte {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return buf
}

// RandomPointX returns a fresh, random X25519 public key, used by
// CHANGE_UNIQUE finalization to mint an ephemeral pubkey nobody else's
// enote shares.
func RandomPointX() PointX {
	return X25519ScalarBaseMult(RandomScalar())
}
