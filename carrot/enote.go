package carrot

import (
	"encoding/binary"

	"git.gammaspectra.live/P2Pool/carrot/crypto"
)

// CarrotEnoteV1 is the wire layout of a normal (non-coinbase) enote:
// K_o(32) || C_a(32) || amount_enc(8) || anchor_enc(16) || view_tag(3) ||
// D_e(32) || tx_first_key_image(32).
type CarrotEnoteV1 struct {
	OneTimeAddress    *crypto.Point
	AmountCommitment  *crypto.Point
	AmountEnc         EncryptedAmount
	AnchorEnc         EncryptedJanusAnchor
	ViewTag           ViewTag
	EphemeralPubKey   crypto.PointX
	TxFirstKeyImage   KeyImage
}

// CarrotCoinbaseEnoteV1 is the wire layout of a coinbase enote: K_o(32)
// || amount(8) || anchor_enc(16) || view_tag(3) || D_e(32) ||
// block_index(8). The amount is cleartext, so C_a = G + a*H is implied
// rather than stored.
type CarrotCoinbaseEnoteV1 struct {
	OneTimeAddress  *crypto.Point
	Amount          uint64
	AnchorEnc       EncryptedJanusAnchor
	ViewTag         ViewTag
	EphemeralPubKey crypto.PointX
	BlockIndex      uint64
}

// enoteTypeBytes serializes an EnoteType for hashing.
func enoteTypeBytes(t EnoteType) []byte {
	return []byte{byte(t)}
}

func amountBytesLE(a uint64) []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], a)
	return buf[:]
}

// makeEnoteEphemeralPrivateKey computes d_e for a normal send:
// d_e = hash_scalar("d_e", randomness, input_context, K_s^j, K_v^j, payment_id).
func makeEnoteEphemeralPrivateKey(randomness JanusAnchor, inputContext InputContext, destSpendPub, destViewPub *crypto.Point, paymentId PaymentId) *crypto.Scalar {
	return crypto.HashScalar(DomainSeparatorEnoteEphemeralPrivateKey,
		randomness[:], inputContext, destSpendPub.Bytes(), destViewPub.Bytes(), paymentId[:])
}

// makeEnoteEphemeralPubKey computes D_e for a normal send, dispatching on
// whether the destination is a subaddress.
func makeEnoteEphemeralPubKey(dE *crypto.Scalar, destSpendPub *crypto.Point, isSubaddress bool) crypto.PointX {
	if isSubaddress {
		return crypto.X25519ScalarMult(dE, crypto.ConvertPointE(destSpendPub))
	}
	return crypto.X25519ScalarBaseMult(dE)
}

// makeSenderReceiverSecretSender computes s_sr on the sending side of a
// normal send: s_sr = 8 * d_e * ConvertPointE(K_v^j).
func makeSenderReceiverSecretSender(dE *crypto.Scalar, destViewPub *crypto.Point) crypto.PointX {
	scaled := new(crypto.Scalar).Multiply(dE, crypto.ScalarEight)
	return crypto.X25519ScalarMult(scaled, crypto.ConvertPointE(destViewPub))
}

// makeSenderReceiverSecretReceiver is the receiver-side inverse:
// s_sr = 8 * k_v * D_e. Used both for external scanning (with the
// account's k_v) and to independently derive the self-send secret.
func makeSenderReceiverSecretReceiver(kV *crypto.Scalar, dE crypto.PointX) crypto.PointX {
	scaled := new(crypto.Scalar).Multiply(kV, crypto.ScalarEight)
	return crypto.X25519ScalarMult(scaled, dE)
}

// makeSenderReceiverSecretContextualized computes s_ctx_sr = hash32(
// "s_ctx_sr", s_sr, D_e, input_context).
func makeSenderReceiverSecretContextualized(sSr [32]byte, dE crypto.PointX, inputContext InputContext) [32]byte {
	return crypto.Hash32(DomainSeparatorSenderReceiverSecret, sSr[:], dE[:], inputContext)
}

func makeAmountBlindingFactor(sCtxSr [32]byte, enoteType EnoteType) *crypto.Scalar {
	return crypto.HashScalar(DomainSeparatorAmountBlindingFactor, sCtxSr[:], enoteTypeBytes(enoteType))
}

func makeOneTimeExtensions(sCtxSr [32]byte, amountCommitment *crypto.Point) (kOg, kOt *crypto.Scalar) {
	kOg = crypto.HashScalar(DomainSeparatorOneTimeExtensionG, sCtxSr[:], amountCommitment.Bytes())
	kOt = crypto.HashScalar(DomainSeparatorOneTimeExtensionT, sCtxSr[:], amountCommitment.Bytes())
	return kOg, kOt
}

func makeOneTimeAddress(destSpendPub *crypto.Point, kOg, kOt *crypto.Scalar) *crypto.Point {
	extG := new(crypto.Point).ScalarBaseMult(kOg)
	extT := new(crypto.Point).ScalarMult(kOt, crypto.GeneratorT.Point)
	return new(crypto.Point).Add(destSpendPub, new(crypto.Point).Add(extG, extT))
}

func makeAmountEncryptionMask(sCtxSr [32]byte, oneTimeAddress *crypto.Point) [32]byte {
	return crypto.Hash32(DomainSeparatorEncryptionMaskAmount, sCtxSr[:], oneTimeAddress.Bytes())
}

func makeAnchorEncryptionMask(sCtxSr [32]byte, oneTimeAddress *crypto.Point) [32]byte {
	return crypto.Hash32(DomainSeparatorEncryptionMaskAnchor, sCtxSr[:], oneTimeAddress.Bytes())
}

func makePaymentIdEncryptionMask(sCtxSr [32]byte, oneTimeAddress *crypto.Point) [32]byte {
	return crypto.Hash32(DomainSeparatorEncryptionMaskPaymentId, sCtxSr[:], oneTimeAddress.Bytes())
}

func makeViewTag(sSr [32]byte, inputContext InputContext, oneTimeAddress *crypto.Point) (vt ViewTag) {
	h := crypto.Hash32(DomainSeparatorViewTag, sSr[:], inputContext, oneTimeAddress.Bytes())
	copy(vt[:], h[:3])
	return vt
}

// makeJanusAnchorSpecial computes SPECIAL_ANCHOR for a special self-send:
// hash32("anchor_sp", D_e, input_context, K_o, k_v, K_s)[0..16].
func makeJanusAnchorSpecial(dE crypto.PointX, inputContext InputContext, oneTimeAddress *crypto.Point, kV *crypto.Scalar, accountSpendPub *crypto.Point) (anchor JanusAnchor) {
	h := crypto.Hash32(DomainSeparatorJanusAnchorSpecial, dE[:], inputContext, oneTimeAddress.Bytes(), kV.Bytes(), accountSpendPub.Bytes())
	copy(anchor[:], h[:16])
	return anchor
}

// outputParts is the common tail of every construction mode: given
// s_ctx_sr, the amount, and the enote type (ignored for coinbase, which
// always uses k_a = 1), compute the amount commitment, the one-time
// address, and the encrypted amount (left zero for coinbase, whose amount
// is cleartext). Each caller encrypts the anchor and payment id itself.
type outputParts struct {
	AmountCommitment *crypto.Point
	OneTimeAddress   *crypto.Point
	AmountEnc        EncryptedAmount
}

func computeOutputParts(destSpendPub *crypto.Point, sCtxSr [32]byte, amount uint64, enoteType EnoteType, coinbase bool) outputParts {
	var kA *crypto.Scalar
	if coinbase {
		kA = crypto.ScalarOne
	} else {
		kA = makeAmountBlindingFactor(sCtxSr, enoteType)
	}

	amountCommitment := crypto.Commit(amount, kA)
	kOg, kOt := makeOneTimeExtensions(sCtxSr, amountCommitment)
	oneTimeAddress := makeOneTimeAddress(destSpendPub, kOg, kOt)

	var amountEnc EncryptedAmount
	if !coinbase {
		mask := makeAmountEncryptionMask(sCtxSr, oneTimeAddress)
		crypto.EncryptXor(amountEnc[:], amountBytesLE(amount), mask[:])
	}

	return outputParts{AmountCommitment: amountCommitment, OneTimeAddress: oneTimeAddress, AmountEnc: amountEnc}
}
