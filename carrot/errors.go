package carrot

import "errors"

// Proposal validation and finalization errors: these indicate programmer
// error (a violated precondition), not adversary input, and are raised
// rather than returned as a negative outcome.
var (
	ErrZeroAnchor              = errors.New("carrot: normal payment proposal has zero randomness")
	ErrCoinbaseSubaddress      = errors.New("carrot: coinbase output cannot target a subaddress")
	ErrCoinbaseIntegrated      = errors.New("carrot: coinbase output cannot carry a payment id")
	ErrDuplicateRandomness     = errors.New("carrot: normal payment proposals contain duplicate randomness")
	ErrTooFewOutputs           = errors.New("carrot: too few payment proposals")
	ErrTooManyOutputs          = errors.New("carrot: too many payment proposals")
	ErrNoSelfSend              = errors.New("carrot: no self-send payment proposal")
	ErrMultipleIntegrated      = errors.New("carrot: only one integrated address is allowed per output set")
	ErrNoViewDevice            = errors.New("carrot: neither a view-balance nor a view-incoming device was provided")
	ErrDuplicateEphemeralKey   = errors.New("carrot: a 2-out set must share an ephemeral pubkey")
	ErrNonUniqueEphemeralKey   = errors.New("carrot: an output set with more than 2 outputs must have pairwise-distinct ephemeral pubkeys")
	ErrFatalEmptyOutputSet     = errors.New("carrot: output set contains 0 outputs")
	ErrFatalOutputSetOverflow  = errors.New("carrot: output set needs finalization but already contains too many outputs")
)
