package crypto

import (
	"git.gammaspectra.live/P2Pool/edwards25519/field"
)

// PointX is a compressed X25519 Montgomery u-coordinate.
type PointX [32]byte

var ZeroPointX PointX

// BasepointX is the X25519 Montgomery form of the Ed25519 base point B.
// X25519ScalarBaseMult does not read it: it multiplies the Ed25519 base
// point and converts the result.
var BasepointX = PointX{9}

// ConvertPointE converts an Ed25519 point to its X25519 Montgomery
// u-coordinate, via the birational map shared by both curves.
func ConvertPointE(p *Point) (out PointX) {
	copy(out[:], p.BytesMontgomery())
	return out
}

// X25519ScalarBaseMult computes scalar * B in Montgomery coordinates,
// by scalar-multiplying the Ed25519 base point and converting.
func X25519ScalarBaseMult(scalar *Scalar) PointX {
	var p Point
	p.ScalarBaseMult(scalar)
	return ConvertPointE(&p)
}

// X25519ScalarMult computes scalar * point on the Montgomery ladder,
// where scalar is a little-endian encoded, already-reduced Ed25519
// scalar and point is an arbitrary X25519 u-coordinate (not necessarily
// canonical, as required by the Montgomery ladder's total-function
// contract).
func X25519ScalarMult(scalar *Scalar, point PointX) (dst PointX) {
	scalarBytes := scalar.Bytes()

	var x1, x2, z2, x3, z3, tmp0, tmp1 field.Element
	_, _ = x1.SetBytes(point[:])
	x2.One()
	x3.Set(&x1)
	z3.One()

	swap := 0
	for pos := 254; pos >= 0; pos-- {
		b := scalarBytes[pos/8] >> uint(pos&7)
		b &= 1
		swap ^= int(b)
		x2.Swap(&x3, swap)
		z2.Swap(&z3, swap)
		swap = int(b)

		tmp0.Subtract(&x3, &z3)
		tmp1.Subtract(&x2, &z2)
		x2.Add(&x2, &z2)
		z2.Add(&x3, &z3)
		z3.Multiply(&tmp0, &x2)
		z2.Multiply(&z2, &tmp1)
		tmp0.Square(&tmp1)
		tmp1.Square(&x2)
		x3.Add(&z3, &z2)
		z2.Subtract(&z3, &z2)
		x2.Multiply(&tmp1, &tmp0)
		tmp1.Subtract(&tmp1, &tmp0)
		z2.Square(&z2)

		z3.Mult32(&tmp1, 121666)
		x3.Square(&x3)
		tmp0.Add(&tmp0, &z3)
		z3.Multiply(&x1, &z2)
		z2.Multiply(&tmp1, &tmp0)
	}

	x2.Swap(&x3, swap)
	z2.Swap(&z3, swap)

	z2.Invert(&z2)
	x2.Multiply(&x2, &z2)

	copy(dst[:], x2.Bytes())
	return dst
}
