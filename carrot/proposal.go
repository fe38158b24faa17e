package carrot

import (
	"git.gammaspectra.live/P2Pool/carrot/crypto"
)

// PaymentProposalV1 is a sender's intent to pay a destination address a
// given amount, carrying its own Janus anchor randomness.
type PaymentProposalV1 struct {
	Destination Destination
	Amount      uint64
	Randomness  JanusAnchor
}

// PaymentProposalSelfSendV1 is a sender's intent to create a self-spendable
// output (change, or a second output for a 2-out transaction where the
// counterparty must not learn it was targeted at the sender). AddressSpendPub
// is a subaddress spend pubkey belonging to the proposer's own account;
// EphemeralPubKey is only meaningful for the "special" construction mode,
// where it must equal the other output's D_e.
type PaymentProposalSelfSendV1 struct {
	AddressSpendPub *crypto.Point
	Amount          uint64
	EnoteType       EnoteType
	EphemeralPubKey *crypto.PointX
}

// GetCoinbaseOutputProposal builds a coinbase enote for a block reward.
// Coinbase outputs may only target a main address: they carry no view
// tag secrecy against the block producer, and Carrot forbids sending
// coinbase funds to a subaddress or an integrated address.
func GetCoinbaseOutputProposal(dest Destination, amount uint64, blockIndex uint64) (CarrotCoinbaseEnoteV1, error) {
	if dest.IsSubaddress {
		return CarrotCoinbaseEnoteV1{}, ErrCoinbaseSubaddress
	}
	if dest.PaymentId != NullPaymentId {
		return CarrotCoinbaseEnoteV1{}, ErrCoinbaseIntegrated
	}

	randomness := JanusAnchor(crypto.RandomBytes(16))
	inputContext := MakeInputContextCoinbase(blockIndex)

	dE := makeEnoteEphemeralPrivateKey(randomness, inputContext, dest.SpendPub, dest.ViewPub, NullPaymentId)
	dEPub := crypto.X25519ScalarBaseMult(dE)
	sSr := makeSenderReceiverSecretSender(dE, dest.ViewPub)
	sCtxSr := makeSenderReceiverSecretContextualized([32]byte(sSr), dEPub, inputContext)

	parts := computeOutputParts(dest.SpendPub, sCtxSr, amount, EnoteTypePayment, true)

	anchorMask := makeAnchorEncryptionMask(sCtxSr, parts.OneTimeAddress)
	var anchorEnc EncryptedJanusAnchor
	crypto.EncryptXor(anchorEnc[:], randomness[:], anchorMask[:])

	viewTag := makeViewTag([32]byte(sSr), inputContext, parts.OneTimeAddress)

	return CarrotCoinbaseEnoteV1{
		OneTimeAddress:  parts.OneTimeAddress,
		Amount:          amount,
		AnchorEnc:       anchorEnc,
		ViewTag:         viewTag,
		EphemeralPubKey: dEPub,
		BlockIndex:      blockIndex,
	}, nil
}

// GetOutputProposalNormal builds a non-self-send enote from a normal
// payment proposal. The returned EncryptedPaymentId is only meaningful
// when the destination carries a nonzero payment id; finalization is
// responsible for attaching it to the transaction (at most one output
// per transaction may do so).
func GetOutputProposalNormal(p PaymentProposalV1, inputContext InputContext, txFirstKeyImage KeyImage) (CarrotEnoteV1, EncryptedPaymentId, error) {
	if p.Randomness == (JanusAnchor{}) {
		return CarrotEnoteV1{}, EncryptedPaymentId{}, ErrZeroAnchor
	}

	dest := p.Destination
	dE := makeEnoteEphemeralPrivateKey(p.Randomness, inputContext, dest.SpendPub, dest.ViewPub, dest.PaymentId)
	dEPub := makeEnoteEphemeralPubKey(dE, dest.SpendPub, dest.IsSubaddress)
	sSr := makeSenderReceiverSecretSender(dE, dest.ViewPub)
	sCtxSr := makeSenderReceiverSecretContextualized([32]byte(sSr), dEPub, inputContext)

	parts := computeOutputParts(dest.SpendPub, sCtxSr, p.Amount, EnoteTypePayment, false)

	pidMask := makePaymentIdEncryptionMask(sCtxSr, parts.OneTimeAddress)
	var pidEnc EncryptedPaymentId
	crypto.EncryptXor(pidEnc[:], dest.PaymentId[:], pidMask[:])

	anchorMask := makeAnchorEncryptionMask(sCtxSr, parts.OneTimeAddress)
	var anchorEnc EncryptedJanusAnchor
	crypto.EncryptXor(anchorEnc[:], p.Randomness[:], anchorMask[:])

	viewTag := makeViewTag([32]byte(sSr), inputContext, parts.OneTimeAddress)

	enote := CarrotEnoteV1{
		OneTimeAddress:   parts.OneTimeAddress,
		AmountCommitment: parts.AmountCommitment,
		AmountEnc:        parts.AmountEnc,
		AnchorEnc:        anchorEnc,
		ViewTag:          viewTag,
		EphemeralPubKey:  dEPub,
		TxFirstKeyImage:  txFirstKeyImage,
	}
	return enote, pidEnc, nil
}

// GetOutputProposalSpecial builds a "special" self-send enote, which
// reuses another output's ephemeral pubkey D_e (typical for a 2-out
// transaction with one payment and one change output) rather than
// deriving its own. accountViewIncoming and accountSpendPub identify the
// proposer's own account, needed for the SPECIAL_ANCHOR derivation that
// lets self-send scanning avoid a Janus check while still binding to the
// transaction.
func GetOutputProposalSpecial(p PaymentProposalSelfSendV1, accountViewIncoming *crypto.Scalar, accountSpendPub *crypto.Point, inputContext InputContext, txFirstKeyImage KeyImage) (CarrotEnoteV1, error) {
	if p.EphemeralPubKey == nil {
		return CarrotEnoteV1{}, ErrDuplicateEphemeralKey
	}

	dEPub := *p.EphemeralPubKey
	sSr := makeSenderReceiverSecretReceiver(accountViewIncoming, dEPub)
	sCtxSr := makeSenderReceiverSecretContextualized([32]byte(sSr), dEPub, inputContext)

	parts := computeOutputParts(p.AddressSpendPub, sCtxSr, p.Amount, p.EnoteType, false)

	specialAnchor := makeJanusAnchorSpecial(dEPub, inputContext, parts.OneTimeAddress, accountViewIncoming, accountSpendPub)
	anchorMask := makeAnchorEncryptionMask(sCtxSr, parts.OneTimeAddress)
	var anchorEnc EncryptedJanusAnchor
	crypto.EncryptXor(anchorEnc[:], specialAnchor[:], anchorMask[:])

	viewTag := makeViewTag([32]byte(sSr), inputContext, parts.OneTimeAddress)

	return CarrotEnoteV1{
		OneTimeAddress:   parts.OneTimeAddress,
		AmountCommitment: parts.AmountCommitment,
		AmountEnc:        parts.AmountEnc,
		AnchorEnc:        anchorEnc,
		ViewTag:          viewTag,
		EphemeralPubKey:  dEPub,
		TxFirstKeyImage:  txFirstKeyImage,
	}, nil
}

// GetOutputProposalInternal builds an "internal" self-send enote: only
// available to a device holding the raw view-balance secret s_vb, it
// skips ECDH entirely (s_sr = s_vb) and needs no Janus protection since
// the device that builds it is also the device that will scan for it.
func GetOutputProposalInternal(p PaymentProposalSelfSendV1, accountViewBalance [32]byte, inputContext InputContext, txFirstKeyImage KeyImage, ephemeralPubKey crypto.PointX) (CarrotEnoteV1, error) {
	sCtxSr := makeSenderReceiverSecretContextualized(accountViewBalance, ephemeralPubKey, inputContext)

	parts := computeOutputParts(p.AddressSpendPub, sCtxSr, p.Amount, p.EnoteType, false)

	anchor := JanusAnchor(crypto.RandomBytes(16))
	anchorMask := makeAnchorEncryptionMask(sCtxSr, parts.OneTimeAddress)
	var anchorEnc EncryptedJanusAnchor
	crypto.EncryptXor(anchorEnc[:], anchor[:], anchorMask[:])

	viewTag := makeViewTag(accountViewBalance, inputContext, parts.OneTimeAddress)

	return CarrotEnoteV1{
		OneTimeAddress:   parts.OneTimeAddress,
		AmountCommitment: parts.AmountCommitment,
		AmountEnc:        parts.AmountEnc,
		AnchorEnc:        anchorEnc,
		ViewTag:          viewTag,
		EphemeralPubKey:  ephemeralPubKey,
		TxFirstKeyImage:  txFirstKeyImage,
	}, nil
}
