package carrot

import (
	"sort"

	"git.gammaspectra.live/P2Pool/carrot/crypto"
	"git.gammaspectra.live/P2Pool/carrot/utils"
)

// AdditionalOutputType names which extra output (if any) finalization
// must synthesize to reach a valid, Janus-safe output set.
type AdditionalOutputType uint8

const (
	AdditionalOutputNone AdditionalOutputType = iota
	AdditionalOutputPaymentSharedSpecial
	AdditionalOutputChangeSharedSpecial
	AdditionalOutputChangeUnique
	AdditionalOutputDummy
)

// classifyAdditionalOutput implements the finalization policy table (spec
// §4.7) as a total function of all four inputs it depends on: how many
// normal and self-send proposals the caller already supplied, whether any
// amount remains unallocated to an output (remainingChange), and whether
// one of the already-supplied self-send proposals is a PAYMENT-type
// self-send rather than CHANGE (havePaymentTypeSelfSend). A single-output
// set with a self-send already present but no leftover amount to place
// gets a dummy normal output instead of a second self-send, so the tx
// doesn't trivially reveal itself as self-send-only; a single-output set
// with leftover change and an existing self-send is completed with
// whichever enote type isn't already present, sharing the sole output's
// ephemeral pubkey.
func classifyAdditionalOutput(numNormal, numSelfSend int, remainingChange bool, havePaymentTypeSelfSend bool) (AdditionalOutputType, error) {
	numOutputs := numNormal + numSelfSend
	alreadyCompleted := numOutputs >= 2 && numSelfSend >= 1 && !remainingChange

	switch {
	case numOutputs == 0:
		return AdditionalOutputNone, ErrFatalEmptyOutputSet
	case alreadyCompleted:
		return AdditionalOutputNone, nil
	case numOutputs == 1:
		switch {
		case numSelfSend == 0:
			return AdditionalOutputChangeSharedSpecial, nil
		case !remainingChange:
			return AdditionalOutputDummy, nil
		case havePaymentTypeSelfSend:
			return AdditionalOutputChangeSharedSpecial, nil
		default:
			return AdditionalOutputPaymentSharedSpecial, nil
		}
	case numOutputs < CARROT_MAX_TX_OUTPUTS:
		return AdditionalOutputChangeUnique, nil
	default:
		return AdditionalOutputNone, ErrFatalOutputSetOverflow
	}
}

// FinalizedEnote pairs a constructed enote with the payment id encryption
// (only nonzero on the single output, if any, that carries it) needed to
// assemble the transaction extra field.
type FinalizedEnote struct {
	Enote           CarrotEnoteV1
	EncryptedPid    EncryptedPaymentId
	HasEncryptedPid bool
}

// GetOutputEnoteProposals runs the full finalization pipeline (spec
// §4.7). remainingChange is the amount not yet allocated to any supplied
// proposal (input total minus every normal and self-send amount already
// specified); it drives classifyAdditionalOutput's policy decision the
// same way it drives the original reference implementation's tx builder.
// The pipeline synthesizes an additional output when the policy table
// calls for one, validates the proposal counts and at-most-one-
// integrated-address invariant, sorts normal proposals by randomness
// (rejecting duplicates), constructs every enote (using the internal
// self-send path when a view-balance secret is available, since it needs
// no Janus protection), and returns the set sorted by one-time address
// per spec's canonical tx ordering.
func GetOutputEnoteProposals(normal []PaymentProposalV1, selfSend []PaymentProposalSelfSendV1, remainingChange uint64, viewBalance *[32]byte, accountViewIncoming *crypto.Scalar, accountSpendPub *crypto.Point, mainAddress MainAddress, txFirstKeyImage KeyImage) ([]FinalizedEnote, error) {
	if viewBalance == nil && accountViewIncoming == nil {
		return nil, ErrNoViewDevice
	}

	havePaymentTypeSelfSend := false
	for _, p := range selfSend {
		if p.EnoteType == EnoteTypePayment {
			havePaymentTypeSelfSend = true
			break
		}
	}

	additional, err := classifyAdditionalOutput(len(normal), len(selfSend), remainingChange > 0, havePaymentTypeSelfSend)
	if err != nil {
		return nil, err
	}
	if additional != AdditionalOutputNone {
		utils.FinalizeDebug("synthesizing additional output kind=%d", additional)
	}

	normal, selfSend, err = applyAdditionalOutput(additional, normal, selfSend, remainingChange, mainAddress)
	if err != nil {
		return nil, err
	}

	numProposals := len(normal) + len(selfSend)
	if numProposals < CARROT_MIN_TX_OUTPUTS {
		return nil, ErrTooFewOutputs
	}
	if numProposals > CARROT_MAX_TX_OUTPUTS {
		return nil, ErrTooManyOutputs
	}
	if len(selfSend) == 0 {
		return nil, ErrNoSelfSend
	}

	if err := validateNoDuplicateRandomness(normal); err != nil {
		return nil, err
	}
	if err := validateAtMostOneIntegrated(normal); err != nil {
		return nil, err
	}

	sort.Slice(normal, func(i, j int) bool {
		return lessBytes(normal[i].Randomness[:], normal[j].Randomness[:])
	})

	inputContext := MakeInputContextNormal(txFirstKeyImage)

	var results []FinalizedEnote
	var haveIntegratedPid bool

	for _, p := range normal {
		enote, pidEnc, err := GetOutputProposalNormal(p, inputContext, txFirstKeyImage)
		if err != nil {
			return nil, err
		}
		fe := FinalizedEnote{Enote: enote}
		if p.Destination.PaymentId != NullPaymentId {
			if haveIntegratedPid {
				return nil, ErrMultipleIntegrated
			}
			haveIntegratedPid = true
			fe.EncryptedPid = pidEnc
			fe.HasEncryptedPid = true
		}
		results = append(results, fe)
	}

	// A 2-out set must share a single D_e between its two outputs (spec's
	// Janus-resistance property for the common pay+change case); any
	// larger set instead needs every output's D_e pairwise-distinct, so
	// only share an ephemeral pubkey when the final set has exactly two
	// outputs: the normal output's if there is one, otherwise one common
	// to both self-sends.
	total := len(results) + len(selfSend)
	share := total == 2
	sharedEphemeral := findSharedEphemeral(results)
	if share && sharedEphemeral == nil {
		for _, p := range selfSend {
			if p.EphemeralPubKey != nil {
				k := *p.EphemeralPubKey
				sharedEphemeral = &k
				break
			}
		}
		if sharedEphemeral == nil {
			fresh := crypto.RandomPointX()
			sharedEphemeral = &fresh
		}
	}

	for _, p := range selfSend {
		var enote CarrotEnoteV1
		var err error

		if viewBalance != nil {
			var ephemeral crypto.PointX
			if share && sharedEphemeral != nil {
				ephemeral = *sharedEphemeral
			} else {
				ephemeral = crypto.RandomPointX()
			}
			enote, err = GetOutputProposalInternal(p, *viewBalance, inputContext, txFirstKeyImage, ephemeral)
		} else {
			pp := p
			switch {
			case pp.EphemeralPubKey != nil:
				// caller-supplied, used as-is (typical 2-out sharing).
			case share && sharedEphemeral != nil:
				pp.EphemeralPubKey = sharedEphemeral
			default:
				fresh := crypto.RandomPointX()
				pp.EphemeralPubKey = &fresh
			}
			enote, err = GetOutputProposalSpecial(pp, accountViewIncoming, accountSpendPub, inputContext, txFirstKeyImage)
		}
		if err != nil {
			return nil, err
		}
		results = append(results, FinalizedEnote{Enote: enote})
	}

	if err := validateEphemeralKeySharing(results); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return lessBytes(results[i].Enote.OneTimeAddress.Bytes(), results[j].Enote.OneTimeAddress.Bytes())
	})

	return results, nil
}

func validateNoDuplicateRandomness(normal []PaymentProposalV1) error {
	seen := make(map[JanusAnchor]bool, len(normal))
	for _, p := range normal {
		if seen[p.Randomness] {
			return ErrDuplicateRandomness
		}
		seen[p.Randomness] = true
	}
	return nil
}

func validateAtMostOneIntegrated(normal []PaymentProposalV1) error {
	count := 0
	for _, p := range normal {
		if p.Destination.PaymentId != NullPaymentId {
			count++
		}
	}
	if count > 1 {
		return ErrMultipleIntegrated
	}
	return nil
}

// applyAdditionalOutput synthesizes the extra proposal the policy table
// demanded. A PAYMENT_SHARED or CHANGE_SHARED self-send carries the full
// leftover amount and defers its ephemeral pubkey to the sharing step in
// GetOutputEnoteProposals (nil for now); CHANGE_UNIQUE does the same,
// since a fresh, non-shared pubkey is generated there too. A dummy
// proposal targets a fresh, unlinkable main address with amount 0,
// matching the reference wallet's chaff behavior.
func applyAdditionalOutput(kind AdditionalOutputType, normal []PaymentProposalV1, selfSend []PaymentProposalSelfSendV1, remainingChange uint64, mainAddress MainAddress) ([]PaymentProposalV1, []PaymentProposalSelfSendV1, error) {
	switch kind {
	case AdditionalOutputNone:
		return normal, selfSend, nil
	case AdditionalOutputPaymentSharedSpecial:
		selfSend = append(selfSend, PaymentProposalSelfSendV1{
			AddressSpendPub: mainAddress.SpendPub,
			Amount:          remainingChange,
			EnoteType:       EnoteTypePayment,
		})
		return normal, selfSend, nil
	case AdditionalOutputChangeSharedSpecial, AdditionalOutputChangeUnique:
		selfSend = append(selfSend, PaymentProposalSelfSendV1{
			AddressSpendPub: mainAddress.SpendPub,
			Amount:          remainingChange,
			EnoteType:       EnoteTypeChange,
		})
		return normal, selfSend, nil
	case AdditionalOutputDummy:
		randomness := JanusAnchor(crypto.RandomBytes(16))
		normal = append(normal, PaymentProposalV1{
			Destination: dummyDestination(),
			Amount:      0,
			Randomness:  randomness,
		})
		return normal, selfSend, nil
	default:
		return normal, selfSend, nil
	}
}

// dummyDestination synthesizes an unlinkable address for chaff outputs:
// a fresh random Ed25519 point pair, which no account can ever recover a
// scanning match against.
func dummyDestination() Destination {
	spend := new(crypto.Point).ScalarBaseMult(crypto.RandomScalar())
	view := new(crypto.Point).ScalarBaseMult(crypto.RandomScalar())
	return Destination{SpendPub: spend, ViewPub: view, IsSubaddress: false}
}

func findSharedEphemeral(results []FinalizedEnote) *crypto.PointX {
	if len(results) == 0 {
		return nil
	}
	k := results[0].Enote.EphemeralPubKey
	return &k
}

// validateEphemeralKeySharing enforces spec's D_e invariant: a 2-out set
// must share a single ephemeral pubkey across both outputs, while a
// larger set must have pairwise-distinct ephemeral pubkeys.
func validateEphemeralKeySharing(results []FinalizedEnote) error {
	if len(results) == 2 {
		if results[0].Enote.EphemeralPubKey != results[1].Enote.EphemeralPubKey {
			return ErrDuplicateEphemeralKey
		}
		return nil
	}
	seen := make(map[crypto.PointX]bool, len(results))
	for _, r := range results {
		if seen[r.Enote.EphemeralPubKey] {
			return ErrNonUniqueEphemeralKey
		}
		seen[r.Enote.EphemeralPubKey] = true
	}
	return nil
}

func lessBytes(a, b []byte) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
