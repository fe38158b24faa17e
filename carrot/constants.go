package carrot

// Domain separator strings, preserved byte-for-byte for wire
// compatibility. These are literal ASCII with no trailing NUL and are
// always prefixed to their hashed input.
const (
	DomainSeparatorProveSpendKey         = "Carrot prove-spend key"
	DomainSeparatorViewBalanceSecret     = "Carrot view-balance secret"
	DomainSeparatorGenerateImageKey      = "Carrot generate-image key"
	DomainSeparatorIncomingViewKey       = "Carrot incoming view key"
	DomainSeparatorGenerateAddressSecret = "Carrot generate-address secret"
	DomainSeparatorSubaddressScalarM     = "Carrot subaddr m"
	DomainSeparatorSubaddressScalarD     = "Carrot subaddr d"

	DomainSeparatorEnoteEphemeralPrivateKey = "d_e"
	DomainSeparatorSenderReceiverSecret     = "s_ctx_sr"
	DomainSeparatorAmountBlindingFactor     = "k_a"
	DomainSeparatorOneTimeExtensionG        = "k_o^g"
	DomainSeparatorOneTimeExtensionT        = "k_o^t"
	DomainSeparatorEncryptionMaskAmount     = "enc_a"
	DomainSeparatorEncryptionMaskPaymentId  = "enc_pid"
	DomainSeparatorViewTag                  = "vt"
	DomainSeparatorEncryptionMaskAnchor     = "enc_anchor"
	DomainSeparatorJanusAnchorSpecial       = "anchor_sp"
	DomainSeparatorSpendAuthorityProof      = "ZKP"

	InputContextNormalPrefix   = 'R'
	InputContextCoinbasePrefix = 'C'
)

// CARROT_MIN_TX_OUTPUTS / CARROT_MAX_TX_OUTPUTS bound the size of a
// finalized output set (spec §6).
const (
	CARROT_MIN_TX_OUTPUTS = 2
	CARROT_MAX_TX_OUTPUTS = 16
)

// EnoteType distinguishes a self-send's purpose. It has no meaning for a
// normal (non-self-send) payment proposal.
type EnoteType uint8

const (
	EnoteTypePayment EnoteType = iota
	EnoteTypeChange
)
