// Package crypto provides the Ed25519/X25519 group arithmetic, Keccak-256
// hashing, and Pedersen commitment primitives the carrot package treats as
// an external collaborator.
package crypto

import (
	"bytes"
	"encoding/binary"

	"git.gammaspectra.live/P2Pool/edwards25519"
	"git.gammaspectra.live/P2Pool/edwards25519/field"
	"golang.org/x/crypto/blake2b"
)

type Scalar = edwards25519.Scalar
type Point = edwards25519.Point

const PointSize = 32

// l = 2^252 + 27742317777372353535851937790883648493, the Ed25519 group order.
var l = [32]byte{0xe3, 0x6a, 0x67, 0x72, 0x8b, 0xce, 0x13, 0x29, 0x8f, 0x30, 0x82, 0x8c, 0x0b, 0xa4, 0x10, 0x39, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x10}

func IsReduced32(a [32]byte) bool {
	for n := 31; n >= 0; n-- {
		if a[n] < l[n] {
			return true
		} else if a[n] > l[n] {
			return false
		}
	}
	return false
}

// BytesToScalar64 reduces 64 bytes of uniform randomness to a scalar mod l.
func BytesToScalar64(buf [64]byte) *Scalar {
	s := new(Scalar)
	_, _ = s.SetUniformBytes(buf[:])
	return s
}

// DecodeCompressedPoint decompresses a canonically encoded Ed25519 point,
// rejecting non-canonical encodings.
func DecodeCompressedPoint(buf [PointSize]byte) *Point {
	p, err := new(Point).SetBytes(buf[:])
	if err != nil {
		return nil
	}
	// SetBytes also accepts encodings of valid points whose y is not
	// reduced; only an input that re-encodes to itself is canonical.
	if !bytes.Equal(p.Bytes(), buf[:]) {
		return nil
	}
	return p
}

func elementFromUint64(x uint64) *field.Element {
	var b [32]byte
	binary.LittleEndian.PutUint64(b[:], x)
	e, err := new(field.Element).SetBytes(b[:])
	if err != nil {
		panic(err)
	}
	return e
}

var (
	_ONE          = new(field.Element).One()
	_NEGATIVE_ONE = new(field.Element).Negate(_ONE)
	_A            = elementFromUint64(486662)
	_NEGATIVE_A   = new(field.Element).Negate(_A)
)

// elligator2WithUniformBytes maps 32 bytes of uniform randomness to an
// Ed25519 point via Elligator 2 over Curve25519, per section 5.5 of
// "Elligator: Elliptic-curve points indistinguishable from uniform random
// strings" (https://eprint.iacr.org/2013/325).
func elligator2WithUniformBytes(buf [32]byte) *Point {
	var r, o, tmp1, tmp2, tmp3 field.Element
	_, _ = r.SetBytes(buf[:])

	urSquare := r.Square(&r)
	urSquareDouble := urSquare.Add(urSquare, urSquare)
	onePlusUrSquare := urSquareDouble.Add(_ONE, urSquareDouble)
	onePlusUrSquareInverted := onePlusUrSquare.Invert(onePlusUrSquare)

	upsilon := onePlusUrSquareInverted.Multiply(_NEGATIVE_A, onePlusUrSquareInverted)
	otherCandidate := o.Subtract(tmp1.Negate(upsilon), _A)

	_, epsilon := tmp3.SqrtRatio(
		tmp3.Add(
			tmp3.Multiply(
				tmp1.Add(upsilon, _A),
				tmp2.Square(upsilon),
			),
			upsilon,
		),
		_ONE,
	)

	u := r.Select(upsilon, otherCandidate, epsilon)
	return montgomeryToEdwards(u, epsilon)
}

func montgomeryToEdwards(u *field.Element, sign int) *Point {
	if u == nil || u.Equal(_NEGATIVE_ONE) == 1 {
		return nil
	}

	var tmp1, tmp2 field.Element
	y := u.Multiply(
		tmp1.Subtract(u, _ONE),
		tmp2.Invert(tmp2.Add(u, _ONE)),
	)

	var yBytes [32]byte
	copy(yBytes[:], y.Bytes())
	yBytes[31] ^= byte(sign << 7)

	return DecodeCompressedPoint(yBytes)
}

// HopefulHashToPoint interprets Keccak256(data) directly as a compressed
// point and clears the cofactor. It fails (returns nil) unless the hash
// output happens to be a valid compressed point, which is fine for the
// one caller (deriving GeneratorH from the fixed bytes of GeneratorG).
func HopefulHashToPoint(data []byte) *Point {
	p := DecodeCompressedPoint(Keccak256(data))
	if p == nil {
		return nil
	}
	return p.MultByCofactor(p)
}

// UnbiasedHashToPoint is Carrot's H_p^2: an unbiased hash-to-curve built
// from two independent Elligator2 samples, each derived from one half of
// a BLAKE2b-512 expansion of the preimage, cofactor-cleared and summed.
func UnbiasedHashToPoint(preimage []byte) *Point {
	h := blake2b.Sum512(preimage)

	first := elligator2WithUniformBytes([32]byte(h[:32]))
	second := elligator2WithUniformBytes([32]byte(h[32:]))

	first.MultByCofactor(first)
	second.MultByCofactor(second)

	return new(Point).Add(first, second)
}

type Generator struct {
	Point *Point
}

func newGenerator(p *Point) *Generator {
	return &Generator{Point: p}
}

var (
	// GeneratorG is the standard Ed25519 base point.
	GeneratorG = newGenerator(edwards25519.NewGeneratorPoint())

	// GeneratorH = H_p^1(G): used for Pedersen amount commitments.
	GeneratorH = newGenerator(HopefulHashToPoint(GeneratorG.Point.Bytes()))

	// GeneratorT = H_p^2(Keccak256("Monero Generator T")), where H_p^2
	// clears the cofactor of each Elligator2 sample, so T is 8 times the
	// sum of the two raw samples: the second, independent generator that
	// carries the spend-authority scalar y in K_o = k_o^g*G + k_o^t*T.
	GeneratorT = newGenerator(func() *Point {
		preimage := Keccak256([]byte("Monero Generator T"))
		return UnbiasedHashToPoint(preimage[:])
	}())
)
