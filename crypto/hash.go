package crypto

import (
	"git.gammaspectra.live/P2Pool/carrot/types"
	"git.gammaspectra.live/P2Pool/sha3"
)

// Keccak256 hashes a single byte string with Keccak-256 (the "legacy"
// pre-standardization padding Monero and its descendants use throughout).
func Keccak256[T ~string | ~[]byte](data T) (result types.Hash) {
	h := sha3.NewLegacyKeccak256()
	_, _ = h.Write([]byte(data))
	_, _ = h.Read(result[:])
	return result
}

// Hash32 is Carrot's `hash32`: Keccak-256 of a domain label concatenated
// with a canonical little-endian argument list, interpreted as raw bytes.
func Hash32(label string, args ...[]byte) (result types.Hash) {
	h := sha3.NewLegacyKeccak256()
	_, _ = h.Write([]byte(label))
	for _, a := range args {
		_, _ = h.Write(a)
	}
	_, _ = h.Read(result[:])
	return result
}

// HashScalar is Carrot's `hash_scalar`: hash32 followed by reduction mod
// the group order l. The 32-byte digest is treated as the low half of a
// 512-bit little-endian integer (high half zero) and reduced via
// Scalar.SetUniformBytes, which is equivalent to reducing the 256-bit
// value directly mod l.
func HashScalar(label string, args ...[]byte) *Scalar {
	h := Hash32(label, args...)
	var wide [64]byte
	copy(wide[:32], h[:])
	s := new(Scalar)
	_, _ = s.SetUniformBytes(wide[:])
	return s
}

// EncryptXor implements Carrot's keystream-XOR encrypt/decrypt primitive:
// dst[i] = plain[i] XOR keystream[i], for as many bytes as the shortest of
// dst, plain and keystream holds. Encryption
// and decryption are the same operation.
func EncryptXor(dst, plain, keystream []byte) {
	n := len(plain)
	if len(keystream) < n {
		n = len(keystream)
	}
	if len(dst) < n {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		dst[i] = plain[i] ^ keystream[i]
	}
}
