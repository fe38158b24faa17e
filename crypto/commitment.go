package crypto

import "encoding/binary"

// Commit builds a Pedersen amount commitment C = mask*G + amount*H.
func Commit(amount uint64, mask *Scalar) *Point {
	var amountBytes [32]byte
	binary.LittleEndian.PutUint64(amountBytes[:8], amount)

	// amountBytes is always < l (a uint64 fits comfortably below the
	// group order), so no reduction is necessary.
	amountScalar := new(Scalar)
	_, _ = amountScalar.SetCanonicalBytes(amountBytes[:])

	return new(Point).VarTimeDoubleScalarBaseMult(amountScalar, GeneratorH.Point, mask)
}
