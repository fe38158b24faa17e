package crypto

// ScalarFromUint64 builds a canonical scalar from a small non-negative
// integer, used for the coinbase k_a = 1 convention and for the
// cofactor-8 multiplier applied to X25519-derived shared secrets.
func ScalarFromUint64(x uint64) *Scalar {
	var buf [32]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(x >> (8 * i))
	}
	s := new(Scalar)
	_, _ = s.SetCanonicalBytes(buf[:])
	return s
}

var ScalarOne = ScalarFromUint64(1)
var ScalarEight = ScalarFromUint64(8)
