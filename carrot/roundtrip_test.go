package carrot

import (
	"testing"

	"git.gammaspectra.live/P2Pool/carrot/crypto"
	"github.com/stretchr/testify/require"
)

// TestReturnPaymentRoundTrip exercises scenario S6: Alice pays Bob a
// normal output plus a synthesized change output; Bob scans and recovers
// the payment. The reference return-address scheme (original_source's
// return_address.cpp) then lets Bob address a reply directly at Alice's
// change one-time address by reusing the sender-receiver secret he
// already derived while scanning, with no fresh key agreement. Alice
// recovers the return with the same secret, rederived on her side from
// the ephemeral private key she originally chose, and the recovered
// destination spend key equals her own change output.
func TestReturnPaymentRoundTrip(t *testing.T) {
	alice := DeriveAccount(testMasterSecret(70))
	bob := DeriveAccount(testMasterSecret(71))
	bobMain := bob.MakeMainAddress()

	anchor := JanusAnchor{6}
	normal := []PaymentProposalV1{
		{Destination: bobMain.Destination(), Amount: 10000, Randomness: anchor},
	}
	ki := randomKeyImage()
	aliceViewBalance := alice.ViewBalanceBytes()

	results, err := GetOutputEnoteProposals(normal, nil, 500, &aliceViewBalance, alice.ViewIncomingScalar(), alice.AccountSpendPub, alice.MakeMainAddress(), ki)
	require.NoError(t, err)
	require.Len(t, results, 2)

	inputContext := MakeInputContextNormal(ki)

	var paymentEnote, changeEnote CarrotEnoteV1
	var sawPayment, sawChange bool
	for _, r := range results {
		if res, ok := ScanEnoteExternal(r.Enote, inputContext, bob.ViewIncomingScalar(), bob.AccountSpendPub, identifyFor(bob), NullPaymentId); ok {
			require.Equal(t, uint64(10000), res.Amount)
			paymentEnote = r.Enote
			sawPayment = true
		}
		if res, ok := ScanEnoteInternal(r.Enote, inputContext, aliceViewBalance); ok && res.EnoteType == EnoteTypeChange {
			changeEnote = r.Enote
			sawChange = true
		}
	}
	require.True(t, sawPayment)
	require.True(t, sawChange)

	// Bob rederives the same sender-receiver secret ScanEnoteExternal
	// computed internally, then reuses it directly as the return's
	// contextualized secret instead of running a fresh ECDH.
	bobSSr := makeSenderReceiverSecretReceiver(bob.ViewIncomingScalar(), paymentEnote.EphemeralPubKey)
	bobSCtxSr := makeSenderReceiverSecretContextualized([32]byte(bobSSr), paymentEnote.EphemeralPubKey, inputContext)

	returnAmount := uint64(250)
	returnParts := computeOutputParts(changeEnote.OneTimeAddress, bobSCtxSr, returnAmount, EnoteTypePayment, false)

	returnAnchor := JanusAnchor{9, 9}
	returnAnchorMask := makeAnchorEncryptionMask(bobSCtxSr, returnParts.OneTimeAddress)
	var returnAnchorEnc EncryptedJanusAnchor
	crypto.EncryptXor(returnAnchorEnc[:], returnAnchor[:], returnAnchorMask[:])

	returnViewTag := makeViewTag([32]byte(bobSSr), inputContext, returnParts.OneTimeAddress)

	returnEnote := CarrotEnoteV1{
		OneTimeAddress:   returnParts.OneTimeAddress,
		AmountCommitment: returnParts.AmountCommitment,
		AmountEnc:        returnParts.AmountEnc,
		AnchorEnc:        returnAnchorEnc,
		ViewTag:          returnViewTag,
		EphemeralPubKey:  paymentEnote.EphemeralPubKey,
		TxFirstKeyImage:  ki,
	}

	// Alice, as the original sender, independently rederives the same
	// sender-receiver secret from d_e and Bob's view key, with no
	// scanning-side ECDH of her own.
	dE := makeEnoteEphemeralPrivateKey(anchor, inputContext, bobMain.SpendPub, bobMain.ViewPub, NullPaymentId)
	aliceSSr := makeSenderReceiverSecretSender(dE, bobMain.ViewPub)
	require.Equal(t, bobSSr, aliceSSr)

	recovered, ok := recoverEnoteCore([32]byte(aliceSSr), returnEnote.EphemeralPubKey, inputContext, returnEnote.OneTimeAddress, returnEnote.AmountCommitment, returnEnote.AmountEnc, returnEnote.AnchorEnc)
	require.True(t, ok)
	require.Equal(t, returnAmount, recovered.Amount)
	require.Equal(t, changeEnote.OneTimeAddress.Bytes(), recovered.Address.Bytes())

	// Combined sender extensions from the outbound change and the return
	// still open the returned enote under Alice's (k_ps, k_gi): the
	// return's true one-time address is her change K_o plus the return's
	// own extensions on top of it.
	changeScan, ok := ScanEnoteInternal(changeEnote, inputContext, aliceViewBalance)
	require.True(t, ok)

	totalG := new(crypto.Scalar).Add(changeScan.SenderExtensionG, recovered.SenderExtensionG)
	totalT := new(crypto.Scalar).Add(changeScan.SenderExtensionT, recovered.SenderExtensionT)

	reconstructed := new(crypto.Point).Add(
		alice.AccountSpendPub,
		new(crypto.Point).Add(
			new(crypto.Point).ScalarBaseMult(totalG),
			new(crypto.Point).ScalarMult(totalT, crypto.GeneratorT.Point),
		),
	)
	require.Equal(t, returnEnote.OneTimeAddress.Bytes(), reconstructed.Bytes())
}

// TestSpendabilityPropertyMainAddress is a direct test of Testable
// Property #5: for a main-address output (subaddress scalar d = 1), the
// spend key pair recovered by scanning reconstructs K_o via
// K_o = (k_o^g + d*k_gi)*G + (k_o^t + d*k_ps)*T.
func TestSpendabilityPropertyMainAddress(t *testing.T) {
	receiver := DeriveAccount(testMasterSecret(80))
	dest := receiver.MakeMainAddress().Destination()

	proposal := PaymentProposalV1{
		Destination: dest,
		Amount:      777,
		Randomness:  JanusAnchor{4, 2},
	}
	ki := randomKeyImage()
	inputContext := MakeInputContextNormal(ki)

	enote, _, err := GetOutputProposalNormal(proposal, inputContext, ki)
	require.NoError(t, err)

	result, ok := ScanEnoteExternal(enote, inputContext, receiver.ViewIncomingScalar(), receiver.AccountSpendPub, identifyFor(receiver), NullPaymentId)
	require.True(t, ok)

	d := crypto.ScalarOne // main address: d = 1

	kOgFull := new(crypto.Scalar).Add(result.SenderExtensionG, new(crypto.Scalar).Multiply(d, receiver.GenerateImageScalar()))
	kOtFull := new(crypto.Scalar).Add(result.SenderExtensionT, new(crypto.Scalar).Multiply(d, receiver.ProveSpendKeyScalar()))

	reconstructed := new(crypto.Point).Add(
		new(crypto.Point).ScalarBaseMult(kOgFull),
		new(crypto.Point).ScalarMult(kOtFull, crypto.GeneratorT.Point),
	)

	require.Equal(t, enote.OneTimeAddress.Bytes(), reconstructed.Bytes())
}

// TestSpendabilityPropertySubaddress repeats Testable Property #5 for a
// nonzero subaddress index, where d != 1 and the reconstructed K_o must
// still equal the enote's one-time address.
func TestSpendabilityPropertySubaddress(t *testing.T) {
	receiver := DeriveAccount(testMasterSecret(81))
	sub := receiver.MakeSubaddress(0, 5)

	proposal := PaymentProposalV1{
		Destination: sub.Destination(),
		Amount:      31337,
		Randomness:  JanusAnchor{1, 1, 1},
	}
	ki := randomKeyImage()
	inputContext := MakeInputContextNormal(ki)

	enote, _, err := GetOutputProposalNormal(proposal, inputContext, ki)
	require.NoError(t, err)

	result, ok := ScanEnoteExternal(enote, inputContext, receiver.ViewIncomingScalar(), receiver.AccountSpendPub, identifyFor(receiver), NullPaymentId)
	require.True(t, ok)

	d := receiver.subaddressScalar(0, 5)

	kOgFull := new(crypto.Scalar).Add(result.SenderExtensionG, new(crypto.Scalar).Multiply(d, receiver.GenerateImageScalar()))
	kOtFull := new(crypto.Scalar).Add(result.SenderExtensionT, new(crypto.Scalar).Multiply(d, receiver.ProveSpendKeyScalar()))

	reconstructed := new(crypto.Point).Add(
		new(crypto.Point).ScalarBaseMult(kOgFull),
		new(crypto.Point).ScalarMult(kOtFull, crypto.GeneratorT.Point),
	)

	require.Equal(t, enote.OneTimeAddress.Bytes(), reconstructed.Bytes())
}
