package carrot

import (
	"crypto/subtle"

	"git.gammaspectra.live/P2Pool/carrot/crypto"
	"git.gammaspectra.live/P2Pool/carrot/utils"
)

// AddressIdentifier resolves a recovered spend pubkey K_s^j back to the
// view pubkey of the address that owns it, the way a wallet consults its
// subaddress table. found is false when the key belongs to none of the
// account's addresses, in which case the enote is not scannable by this
// account. Whether the address is a subaddress is never taken from this
// callback: spec §4.6 decides it by comparing K_s^j against the
// account's own spend key, computed directly in ScanEnoteExternal.
type AddressIdentifier func(candidateSpendPub *crypto.Point) (viewPub *crypto.Point, found bool)

// ScanResultV1 is everything scanning recovers from a single enote.
type ScanResultV1 struct {
	Amount           uint64
	AmountBlinding   *crypto.Scalar
	SenderExtensionG *crypto.Scalar
	SenderExtensionT *crypto.Scalar
	Anchor           JanusAnchor
	EnoteType        EnoteType
	Address          *crypto.Point // recovered K_s^j
	InternalRecovery bool
}

// recoverEnoteCore implements the shared-secret-agnostic half of scanning
// (spec §4.6 steps 2-5): given s_sr (uncontextualized), D_e, the input
// context, and the enote's public fields, it tries both enote-type
// candidates and returns whichever recomputed amount commitment matches
// the one carried on-chain.
func recoverEnoteCore(sSr [32]byte, dE crypto.PointX, inputContext InputContext, oneTimeAddress, amountCommitment *crypto.Point, amountEnc EncryptedAmount, anchorEnc EncryptedJanusAnchor) (result ScanResultV1, ok bool) {
	sCtxSr := makeSenderReceiverSecretContextualized(sSr, dE, inputContext)

	amountMask := makeAmountEncryptionMask(sCtxSr, oneTimeAddress)
	var amountBytes [8]byte
	crypto.EncryptXor(amountBytes[:], amountEnc[:], amountMask[:])
	amount := leToUint64(amountBytes)

	candidates := [2]EnoteType{EnoteTypePayment, EnoteTypeChange}
	var matched bool
	var enoteType EnoteType
	var kA *crypto.Scalar

	for _, candidate := range candidates {
		trialKA := makeAmountBlindingFactor(sCtxSr, candidate)
		trialCommitment := crypto.Commit(amount, trialKA)
		if subtle.ConstantTimeCompare(trialCommitment.Bytes(), amountCommitment.Bytes()) == 1 {
			if !matched {
				matched = true
				enoteType = candidate
				kA = trialKA
			}
		}
	}
	if !matched {
		return ScanResultV1{}, false
	}

	kOg, kOt := makeOneTimeExtensions(sCtxSr, amountCommitment)
	extension := new(crypto.Point).Add(
		new(crypto.Point).ScalarBaseMult(kOg),
		new(crypto.Point).ScalarMult(kOt, crypto.GeneratorT.Point),
	)
	recoveredSpendPub := new(crypto.Point).Subtract(oneTimeAddress, extension)

	anchorMask := makeAnchorEncryptionMask(sCtxSr, oneTimeAddress)
	var anchor JanusAnchor
	crypto.EncryptXor(anchor[:], anchorEnc[:], anchorMask[:])

	return ScanResultV1{
		Amount:           amount,
		AmountBlinding:   kA,
		SenderExtensionG: kOg,
		SenderExtensionT: kOt,
		Anchor:           anchor,
		EnoteType:        enoteType,
		Address:          recoveredSpendPub,
	}, true
}

func leToUint64(b [8]byte) uint64 {
	var x uint64
	for i := 7; i >= 0; i-- {
		x = (x << 8) | uint64(b[i])
	}
	return x
}

// ScanEnoteExternal attempts to recover a normal enote using the
// account's public incoming view key, applying the view-tag
// fast-rejection and the two-step Janus check described in spec §4.6:
// first with the decrypted payment id, then with the null payment id;
// if neither reproduces the observed ephemeral pubkey, scanning fails.
// Per spec §4.6, whether the recovered address is a subaddress is
// decided by comparing the recovered K_s^j against accountSpendPub
// directly (equal means the main address, differ means a subaddress),
// never by asking the caller's identify callback.
func ScanEnoteExternal(enote CarrotEnoteV1, inputContext InputContext, kV *crypto.Scalar, accountSpendPub *crypto.Point, identify AddressIdentifier, decryptedPid PaymentId) (ScanResultV1, bool) {
	sSr := makeSenderReceiverSecretReceiver(kV, enote.EphemeralPubKey)

	quickTag := makeViewTag([32]byte(sSr), inputContext, enote.OneTimeAddress)
	if subtle.ConstantTimeCompare(quickTag[:], enote.ViewTag[:]) != 1 {
		utils.ScanTrace("view tag mismatch, rejecting candidate before full recovery")
		return ScanResultV1{}, false
	}

	result, ok := recoverEnoteCore([32]byte(sSr), enote.EphemeralPubKey, inputContext, enote.OneTimeAddress, enote.AmountCommitment, enote.AmountEnc, enote.AnchorEnc)
	if !ok {
		return ScanResultV1{}, false
	}

	destViewPub, found := identify(result.Address)
	if !found {
		utils.ScanDebug("recovered spend pubkey does not belong to a known address")
		return ScanResultV1{}, false
	}

	isSubaddress := subtle.ConstantTimeCompare(result.Address.Bytes(), accountSpendPub.Bytes()) != 1

	if !janusCheckPasses(result.Anchor, inputContext, result.Address, destViewPub, isSubaddress, enote.EphemeralPubKey, decryptedPid) {
		utils.ScanDebug("janus check failed, discarding candidate match")
		return ScanResultV1{}, false
	}

	return result, true
}

// janusCheckPasses recomputes D_e from the recovered anchor first with
// the decrypted payment id, then with the null payment id, accepting if
// either reproduces the enote's observed ephemeral pubkey.
func janusCheckPasses(anchor JanusAnchor, inputContext InputContext, spendPub, viewPub *crypto.Point, isSubaddress bool, observedDE crypto.PointX, decryptedPid PaymentId) bool {
	candidates := [2]PaymentId{decryptedPid, NullPaymentId}
	tried := map[PaymentId]bool{}
	for _, pid := range candidates {
		if tried[pid] {
			continue
		}
		tried[pid] = true
		dE := makeEnoteEphemeralPrivateKey(anchor, inputContext, spendPub, viewPub, pid)
		recomputedDE := makeEnoteEphemeralPubKey(dE, spendPub, isSubaddress)
		if subtle.ConstantTimeCompare(recomputedDE[:], observedDE[:]) == 1 {
			return true
		}
	}
	return false
}

// ScanEnoteSelfSendSpecial recovers a "special" self-send enote using the
// account's own view-incoming key against the (shared) ephemeral pubkey.
// Unlike ScanEnoteExternal, no Janus check applies: a special self-send's
// D_e is never derived from the recovered anchor, so no such check could
// ever pass, and none is needed since the wallet only ever builds these
// for its own addresses.
func ScanEnoteSelfSendSpecial(enote CarrotEnoteV1, inputContext InputContext, kV *crypto.Scalar) (ScanResultV1, bool) {
	sSr := makeSenderReceiverSecretReceiver(kV, enote.EphemeralPubKey)

	quickTag := makeViewTag([32]byte(sSr), inputContext, enote.OneTimeAddress)
	if subtle.ConstantTimeCompare(quickTag[:], enote.ViewTag[:]) != 1 {
		return ScanResultV1{}, false
	}

	return recoverEnoteCore([32]byte(sSr), enote.EphemeralPubKey, inputContext, enote.OneTimeAddress, enote.AmountCommitment, enote.AmountEnc, enote.AnchorEnc)
}

// ScanEnoteInternal recovers a self-send enote built by a device holding
// the raw view-balance secret. No Janus check applies: the device that
// built the enote is the same device scanning for it, so an adversarial
// D_e reuse cannot mislead it about origin.
func ScanEnoteInternal(enote CarrotEnoteV1, inputContext InputContext, viewBalance [32]byte) (ScanResultV1, bool) {
	quickTag := makeViewTag(viewBalance, inputContext, enote.OneTimeAddress)
	if subtle.ConstantTimeCompare(quickTag[:], enote.ViewTag[:]) != 1 {
		return ScanResultV1{}, false
	}

	result, ok := recoverEnoteCore(viewBalance, enote.EphemeralPubKey, inputContext, enote.OneTimeAddress, enote.AmountCommitment, enote.AmountEnc, enote.AnchorEnc)
	if !ok {
		return ScanResultV1{}, false
	}
	result.InternalRecovery = true
	return result, true
}

// ScanCoinbaseEnote recovers a coinbase enote, which may only ever have
// been addressed to the account's main address (K_s^j == K_s). The d_e
// recomputation hashes the main address's view pubkey k_v*G, derived from
// kV, as the sender did; accountViewPub is not read.
func ScanCoinbaseEnote(enote CarrotCoinbaseEnoteV1, blockIndex uint64, kV *crypto.Scalar, accountSpendPub *crypto.Point, accountViewPub *crypto.Point) (ScanResultV1, bool) {
	inputContext := MakeInputContextCoinbase(blockIndex)
	sSr := makeSenderReceiverSecretReceiver(kV, enote.EphemeralPubKey)

	quickTag := makeViewTag([32]byte(sSr), inputContext, enote.OneTimeAddress)
	if subtle.ConstantTimeCompare(quickTag[:], enote.ViewTag[:]) != 1 {
		return ScanResultV1{}, false
	}

	sCtxSr := makeSenderReceiverSecretContextualized([32]byte(sSr), enote.EphemeralPubKey, inputContext)
	kOg, kOt := makeOneTimeExtensions(sCtxSr, crypto.Commit(enote.Amount, crypto.ScalarOne))
	extension := new(crypto.Point).Add(
		new(crypto.Point).ScalarBaseMult(kOg),
		new(crypto.Point).ScalarMult(kOt, crypto.GeneratorT.Point),
	)
	recoveredSpendPub := new(crypto.Point).Subtract(enote.OneTimeAddress, extension)

	if subtle.ConstantTimeCompare(recoveredSpendPub.Bytes(), accountSpendPub.Bytes()) != 1 {
		return ScanResultV1{}, false
	}

	anchorMask := makeAnchorEncryptionMask(sCtxSr, enote.OneTimeAddress)
	var anchor JanusAnchor
	crypto.EncryptXor(anchor[:], enote.AnchorEnc[:], anchorMask[:])

	mainViewPub := new(crypto.Point).ScalarBaseMult(kV)
	dE := makeEnoteEphemeralPrivateKey(anchor, inputContext, accountSpendPub, mainViewPub, NullPaymentId)
	recomputedDE := crypto.X25519ScalarBaseMult(dE)
	if subtle.ConstantTimeCompare(recomputedDE[:], enote.EphemeralPubKey[:]) != 1 {
		return ScanResultV1{}, false
	}

	return ScanResultV1{
		Amount:           enote.Amount,
		AmountBlinding:   crypto.ScalarOne,
		SenderExtensionG: kOg,
		SenderExtensionT: kOt,
		Anchor:           anchor,
		EnoteType:        EnoteTypePayment,
		Address:          recoveredSpendPub,
	}, true
}
