package carrot

import (
	"git.gammaspectra.live/P2Pool/carrot/crypto"
)

// SpendAuthorityProof is a Schnorr-style proof of knowledge of the
// discrete logs x, y satisfying K_o = x*G + y*T, over the two independent
// generators G and T that together make up a one-time address. It lets a
// prover demonstrate spend authority over an output without revealing
// the extension scalars themselves — used to answer "is this really your
// change output" without a full ring signature.
type SpendAuthorityProof struct {
	CommitmentG *crypto.Point
	CommitmentT *crypto.Point
	ResponseX   *crypto.Scalar
	ResponseY   *crypto.Scalar
}

// MakeSpendAuthorityProof proves knowledge of (x, y) such that
// oneTimeAddress = x*G + y*T:
//
//	r1, r2 <- random scalars
//	commitment_G = r1*G, commitment_T = r2*T
//	c = hash_scalar("ZKP", commitment_G, commitment_T, oneTimeAddress)
//	response_x = r1 + c*x, response_y = r2 + c*y
func MakeSpendAuthorityProof(x, y *crypto.Scalar, oneTimeAddress *crypto.Point) SpendAuthorityProof {
	r1 := crypto.RandomScalar()
	r2 := crypto.RandomScalar()

	commitmentG := new(crypto.Point).ScalarBaseMult(r1)
	commitmentT := new(crypto.Point).ScalarMult(r2, crypto.GeneratorT.Point)

	c := spendAuthorityChallenge(commitmentG, commitmentT, oneTimeAddress)

	responseX := new(crypto.Scalar).Add(r1, new(crypto.Scalar).Multiply(c, x))
	responseY := new(crypto.Scalar).Add(r2, new(crypto.Scalar).Multiply(c, y))

	return SpendAuthorityProof{
		CommitmentG: commitmentG,
		CommitmentT: commitmentT,
		ResponseX:   responseX,
		ResponseY:   responseY,
	}
}

// VerifySpendAuthorityProof checks that
// response_x*G + response_y*T - c*oneTimeAddress == commitment_G + commitment_T,
// recomputing the Fiat-Shamir challenge c the same way the prover did.
func VerifySpendAuthorityProof(proof SpendAuthorityProof, oneTimeAddress *crypto.Point) bool {
	c := spendAuthorityChallenge(proof.CommitmentG, proof.CommitmentT, oneTimeAddress)

	lhs := new(crypto.Point).Add(
		new(crypto.Point).ScalarBaseMult(proof.ResponseX),
		new(crypto.Point).ScalarMult(proof.ResponseY, crypto.GeneratorT.Point),
	)
	lhs.Subtract(lhs, new(crypto.Point).ScalarMult(c, oneTimeAddress))

	rhs := new(crypto.Point).Add(proof.CommitmentG, proof.CommitmentT)

	return lhs.Equal(rhs) == 1
}

func spendAuthorityChallenge(commitmentG, commitmentT, oneTimeAddress *crypto.Point) *crypto.Scalar {
	return crypto.HashScalar(DomainSeparatorSpendAuthorityProof, commitmentG.Bytes(), commitmentT.Bytes(), oneTimeAddress.Bytes())
}
