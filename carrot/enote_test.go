package carrot

import (
	"testing"

	"git.gammaspectra.live/P2Pool/carrot/crypto"
	"github.com/stretchr/testify/require"
)

func randomKeyImage() (ki KeyImage) {
	copy(ki[:], crypto.RandomBytes(32))
	return ki
}

func identifyFor(accounts ...*Account) AddressIdentifier {
	table := map[[32]byte]*crypto.Point{}
	for _, a := range accounts {
		main := a.MakeMainAddress()
		table[[32]byte(main.SpendPub.Bytes())] = main.ViewPub
		for major := uint32(0); major < 2; major++ {
			for minor := uint32(0); minor < 6; minor++ {
				if major == 0 && minor == 0 {
					continue
				}
				sub := a.MakeSubaddress(major, minor)
				table[[32]byte(sub.SpendPub.Bytes())] = sub.ViewPub
			}
		}
	}
	return func(candidate *crypto.Point) (*crypto.Point, bool) {
		viewPub, ok := table[[32]byte(candidate.Bytes())]
		if !ok {
			return nil, false
		}
		return viewPub, true
	}
}

func TestNormalSendToMainAddressScanRoundTrip(t *testing.T) {
	sender := DeriveAccount(testMasterSecret(10))
	receiver := DeriveAccount(testMasterSecret(20))
	dest := receiver.MakeMainAddress().Destination()

	proposal := PaymentProposalV1{
		Destination: dest,
		Amount:      123456789,
		Randomness:  JanusAnchor{1, 2, 3},
	}

	ki := randomKeyImage()
	inputContext := MakeInputContextNormal(ki)

	enote, _, err := GetOutputProposalNormal(proposal, inputContext, ki)
	require.NoError(t, err)

	result, ok := ScanEnoteExternal(enote, inputContext, receiver.ViewIncomingScalar(), receiver.AccountSpendPub, identifyFor(receiver), NullPaymentId)
	require.True(t, ok)
	require.Equal(t, proposal.Amount, result.Amount)
	require.Equal(t, EnoteTypePayment, result.EnoteType)
	require.Equal(t, receiver.AccountSpendPub.Bytes(), result.Address.Bytes())

	_ = sender
}

func TestNormalSendToSubaddressScanRoundTrip(t *testing.T) {
	receiver := DeriveAccount(testMasterSecret(21))
	sub := receiver.MakeSubaddress(0, 1)
	dest := sub.Destination()

	proposal := PaymentProposalV1{
		Destination: dest,
		Amount:      42,
		Randomness:  JanusAnchor{9, 9, 9},
	}

	ki := randomKeyImage()
	inputContext := MakeInputContextNormal(ki)

	enote, _, err := GetOutputProposalNormal(proposal, inputContext, ki)
	require.NoError(t, err)

	result, ok := ScanEnoteExternal(enote, inputContext, receiver.ViewIncomingScalar(), receiver.AccountSpendPub, identifyFor(receiver), NullPaymentId)
	require.True(t, ok)
	require.Equal(t, proposal.Amount, result.Amount)
	require.Equal(t, sub.SpendPub.Bytes(), result.Address.Bytes())
}

func TestNormalSendWrongAccountFailsToScan(t *testing.T) {
	receiver := DeriveAccount(testMasterSecret(22))
	stranger := DeriveAccount(testMasterSecret(23))
	dest := receiver.MakeMainAddress().Destination()

	proposal := PaymentProposalV1{Destination: dest, Amount: 1, Randomness: JanusAnchor{5}}
	ki := randomKeyImage()
	inputContext := MakeInputContextNormal(ki)

	enote, _, err := GetOutputProposalNormal(proposal, inputContext, ki)
	require.NoError(t, err)

	_, ok := ScanEnoteExternal(enote, inputContext, stranger.ViewIncomingScalar(), stranger.AccountSpendPub, identifyFor(stranger), NullPaymentId)
	require.False(t, ok)
}

func TestIntegratedPaymentIdRoundTrip(t *testing.T) {
	receiver := DeriveAccount(testMasterSecret(24))
	pid := PaymentId{1, 2, 3, 4, 5, 6, 7, 8}
	ia := receiver.MakeIntegratedAddress(pid)

	proposal := PaymentProposalV1{Destination: ia.Destination(), Amount: 7, Randomness: JanusAnchor{2}}
	ki := randomKeyImage()
	inputContext := MakeInputContextNormal(ki)

	enote, pidEnc, err := GetOutputProposalNormal(proposal, inputContext, ki)
	require.NoError(t, err)

	pidMask := makePaymentIdEncryptionMask(mustContextualize(t, enote, inputContext, receiver.ViewIncomingScalar()), enote.OneTimeAddress)
	var decryptedPid PaymentId
	crypto.EncryptXor(decryptedPid[:], pidEnc[:], pidMask[:])
	require.Equal(t, pid, decryptedPid)

	result, ok := ScanEnoteExternal(enote, inputContext, receiver.ViewIncomingScalar(), receiver.AccountSpendPub, identifyFor(receiver), decryptedPid)
	require.True(t, ok)
	require.Equal(t, proposal.Amount, result.Amount)
}

func mustContextualize(t *testing.T, enote CarrotEnoteV1, inputContext InputContext, kV *crypto.Scalar) [32]byte {
	t.Helper()
	sSr := makeSenderReceiverSecretReceiver(kV, enote.EphemeralPubKey)
	return makeSenderReceiverSecretContextualized([32]byte(sSr), enote.EphemeralPubKey, inputContext)
}

func TestSpecialSelfSendScanRoundTrip(t *testing.T) {
	account := DeriveAccount(testMasterSecret(30))
	main := account.MakeMainAddress()

	sharedEphemeral := crypto.RandomPointX()
	proposal := PaymentProposalSelfSendV1{
		AddressSpendPub: main.SpendPub,
		Amount:          555,
		EnoteType:       EnoteTypeChange,
		EphemeralPubKey: &sharedEphemeral,
	}

	ki := randomKeyImage()
	inputContext := MakeInputContextNormal(ki)

	enote, err := GetOutputProposalSpecial(proposal, account.ViewIncomingScalar(), account.AccountSpendPub, inputContext, ki)
	require.NoError(t, err)
	require.Equal(t, sharedEphemeral, enote.EphemeralPubKey)

	result, ok := ScanEnoteSelfSendSpecial(enote, inputContext, account.ViewIncomingScalar())
	require.True(t, ok)
	require.Equal(t, proposal.Amount, result.Amount)
	require.Equal(t, EnoteTypeChange, result.EnoteType)
	require.Equal(t, main.SpendPub.Bytes(), result.Address.Bytes())
}

func TestInternalSelfSendScanRoundTrip(t *testing.T) {
	account := DeriveAccount(testMasterSecret(31))
	main := account.MakeMainAddress()

	proposal := PaymentProposalSelfSendV1{
		AddressSpendPub: main.SpendPub,
		Amount:          9001,
		EnoteType:       EnoteTypeChange,
	}

	ki := randomKeyImage()
	inputContext := MakeInputContextNormal(ki)
	ephemeral := crypto.RandomPointX()

	enote, err := GetOutputProposalInternal(proposal, account.ViewBalanceBytes(), inputContext, ki, ephemeral)
	require.NoError(t, err)

	result, ok := ScanEnoteInternal(enote, inputContext, account.ViewBalanceBytes())
	require.True(t, ok)
	require.Equal(t, proposal.Amount, result.Amount)
	require.True(t, result.InternalRecovery)
}

func TestCoinbaseScanRoundTrip(t *testing.T) {
	account := DeriveAccount(testMasterSecret(40))
	dest := account.MakeMainAddress().Destination()

	enote, err := GetCoinbaseOutputProposal(dest, 6000000000, 3141592)
	require.NoError(t, err)

	result, ok := ScanCoinbaseEnote(enote, 3141592, account.ViewIncomingScalar(), account.AccountSpendPub, account.AccountViewPub)
	require.True(t, ok)
	require.Equal(t, uint64(6000000000), result.Amount)
}

func TestCoinbaseRejectsSubaddress(t *testing.T) {
	account := DeriveAccount(testMasterSecret(41))
	sub := account.MakeSubaddress(0, 1).Destination()

	_, err := GetCoinbaseOutputProposal(sub, 1, 0)
	require.ErrorIs(t, err, ErrCoinbaseSubaddress)
}

func TestCoinbaseRejectsIntegrated(t *testing.T) {
	account := DeriveAccount(testMasterSecret(42))
	ia := account.MakeIntegratedAddress(PaymentId{1}).Destination()

	_, err := GetCoinbaseOutputProposal(ia, 1, 0)
	require.ErrorIs(t, err, ErrCoinbaseIntegrated)
}

func TestNormalSendRejectsZeroRandomness(t *testing.T) {
	receiver := DeriveAccount(testMasterSecret(43))
	proposal := PaymentProposalV1{Destination: receiver.MakeMainAddress().Destination(), Amount: 1}
	_, _, err := GetOutputProposalNormal(proposal, MakeInputContextNormal(randomKeyImage()), randomKeyImage())
	require.ErrorIs(t, err, ErrZeroAnchor)
}
