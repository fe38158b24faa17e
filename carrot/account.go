package carrot

import (
	"encoding/binary"

	"git.gammaspectra.live/P2Pool/carrot/crypto"
)

// Account is the full secret-key hierarchy derived from a single master
// seed. Every field below s_master is a deterministic, domain-separated
// hash of secrets closer to the root; s_master itself is the sole
// long-term secret a wallet must actually store or back up. The five
// derived secrets are held in crypto.Secret wrappers, per SPEC_FULL §6:
// a wallet holding an Account for its whole session should defer
// account.Release() so every derived key is wiped once the account is
// no longer needed, the closest a garbage-collected language gets to
// the source implementation's scoped-wiper destructors.
type Account struct {
	MasterSecret [32]byte

	proveSpendKey *crypto.Secret // k_ps, as canonical scalar bytes
	viewBalance   *crypto.Secret // s_vb
	generateImage *crypto.Secret // k_gi, as canonical scalar bytes
	viewIncoming  *crypto.Secret // k_v, as canonical scalar bytes
	generateAddr  *crypto.Secret // s_ga

	AccountSpendPub *crypto.Point // K_s
	AccountViewPub  *crypto.Point // K_v
}

// DeriveAccount computes the full key hierarchy from a master seed
// (external interface `derive_all`).
func DeriveAccount(masterSecret [32]byte) *Account {
	a := &Account{MasterSecret: masterSecret}

	proveSpendKey := crypto.HashScalar(DomainSeparatorProveSpendKey, masterSecret[:])
	viewBalance := crypto.Hash32(DomainSeparatorViewBalanceSecret, masterSecret[:])
	generateImage := crypto.HashScalar(DomainSeparatorGenerateImageKey, viewBalance[:])
	viewIncoming := crypto.HashScalar(DomainSeparatorIncomingViewKey, viewBalance[:])
	generateAddr := crypto.Hash32(DomainSeparatorGenerateAddressSecret, viewBalance[:])

	a.proveSpendKey = crypto.NewSecret([32]byte(proveSpendKey.Bytes()))
	a.viewBalance = crypto.NewSecret(viewBalance)
	a.generateImage = crypto.NewSecret([32]byte(generateImage.Bytes()))
	a.viewIncoming = crypto.NewSecret([32]byte(viewIncoming.Bytes()))
	a.generateAddr = crypto.NewSecret(generateAddr)

	// K_s = k_gi*G + k_ps*T
	a.AccountSpendPub = new(crypto.Point).VarTimeDoubleScalarBaseMult(proveSpendKey, crypto.GeneratorT.Point, generateImage)
	// K_v = k_v * K_s
	a.AccountViewPub = new(crypto.Point).ScalarMult(viewIncoming, a.AccountSpendPub)

	return a
}

// Release wipes every derived secret this account holds. Safe to call
// more than once; callers should defer it as soon as an Account is no
// longer needed.
func (a *Account) Release() {
	a.proveSpendKey.Release()
	a.viewBalance.Release()
	a.generateImage.Release()
	a.viewIncoming.Release()
	a.generateAddr.Release()
}

func scalarFromSecret(s *crypto.Secret) *crypto.Scalar {
	b := s.Bytes()
	sc := new(crypto.Scalar)
	if _, err := sc.SetCanonicalBytes(b[:]); err != nil {
		panic(err)
	}
	return sc
}

// ProveSpendKeyScalar returns k_ps for use in a single scalar operation.
// The returned value is not itself wiped; only Account.Release wipes the
// underlying secret.
func (a *Account) ProveSpendKeyScalar() *crypto.Scalar { return scalarFromSecret(a.proveSpendKey) }

// ViewBalanceBytes returns s_vb for use in a single self-send operation.
func (a *Account) ViewBalanceBytes() [32]byte { return a.viewBalance.Bytes() }

// GenerateImageScalar returns k_gi for use in a single scalar operation.
func (a *Account) GenerateImageScalar() *crypto.Scalar { return scalarFromSecret(a.generateImage) }

// ViewIncomingScalar returns k_v for use in a single scalar operation.
func (a *Account) ViewIncomingScalar() *crypto.Scalar { return scalarFromSecret(a.viewIncoming) }

// MainAddress is the destination with j_major = j_minor = 0, subaddress
// scalar d = 1: its spend pubkey is K_s, and its view pubkey is k_v*G
// (not the account view pubkey K_v = k_v*K_s).
type MainAddress struct {
	SpendPub *crypto.Point // K_s
	ViewPub  *crypto.Point // K_v_main = k_v * G
}

func (a *Account) MakeMainAddress() MainAddress {
	return MainAddress{
		SpendPub: a.AccountSpendPub,
		ViewPub:  new(crypto.Point).ScalarBaseMult(a.ViewIncomingScalar()),
	}
}

// Subaddress is a destination indexed by (j_major, j_minor) != (0, 0),
// chosen so that K_v^j = k_v * K_s^j holds with the *same* k_v as the
// main address — the property that makes scanning index-independent.
type Subaddress struct {
	SpendPub *crypto.Point // K_s^j
	ViewPub  *crypto.Point // K_v^j
	Major    uint32
	Minor    uint32
}

// subaddressScalar computes d = hash_scalar("Carrot subaddr d", K_s, m,
// j_major, j_minor), where m = hash_scalar("Carrot subaddr m", s_ga,
// j_major, j_minor) is the index-extension generator.
func (a *Account) subaddressScalar(major, minor uint32) *crypto.Scalar {
	var idx [8]byte
	binary.LittleEndian.PutUint32(idx[0:4], major)
	binary.LittleEndian.PutUint32(idx[4:8], minor)

	generateAddr := a.generateAddr.Bytes()
	m := crypto.HashScalar(DomainSeparatorSubaddressScalarM, generateAddr[:], idx[:])
	return crypto.HashScalar(DomainSeparatorSubaddressScalarD, a.AccountSpendPub.Bytes(), m.Bytes(), idx[:])
}

func (a *Account) MakeSubaddress(major, minor uint32) Subaddress {
	if major == 0 && minor == 0 {
		main := a.MakeMainAddress()
		return Subaddress{SpendPub: main.SpendPub, ViewPub: main.ViewPub, Major: 0, Minor: 0}
	}

	d := a.subaddressScalar(major, minor)
	spendPub := new(crypto.Point).ScalarMult(d, a.AccountSpendPub)
	viewPub := new(crypto.Point).ScalarMult(a.ViewIncomingScalar(), spendPub)

	return Subaddress{SpendPub: spendPub, ViewPub: viewPub, Major: major, Minor: minor}
}

// IntegratedAddress reuses a main address's public keys and merely
// carries a nonzero payment id.
type IntegratedAddress struct {
	MainAddress
	PaymentId PaymentId
}

func (a *Account) MakeIntegratedAddress(paymentId PaymentId) IntegratedAddress {
	return IntegratedAddress{MainAddress: a.MakeMainAddress(), PaymentId: paymentId}
}

// Destination is the uniform, address-flavor-agnostic view every enote
// constructor consumes: a subaddress spend/view pubkey pair, whether that
// pair is a genuine subaddress (as opposed to the main address), and an
// optional payment id (zero encodes "no pid").
type Destination struct {
	SpendPub     *crypto.Point
	ViewPub      *crypto.Point
	IsSubaddress bool
	PaymentId    PaymentId
}

func (m MainAddress) Destination() Destination {
	return Destination{SpendPub: m.SpendPub, ViewPub: m.ViewPub, IsSubaddress: false}
}

// Destination reports IsSubaddress: false for index (0, 0), since
// MakeSubaddress(0, 0) is defined to equal the main address (K_s^{0,0} =
// K_s) — a payment proposal built against it must use the non-subaddress
// D_e formula, or scanning's own K_s^j-vs-K_s comparison (spec §4.6)
// would classify the recovered address differently than the sender did
// and permanently fail the Janus check.
func (s Subaddress) Destination() Destination {
	isSubaddress := !(s.Major == 0 && s.Minor == 0)
	return Destination{SpendPub: s.SpendPub, ViewPub: s.ViewPub, IsSubaddress: isSubaddress}
}

func (i IntegratedAddress) Destination() Destination {
	return Destination{SpendPub: i.SpendPub, ViewPub: i.ViewPub, IsSubaddress: false, PaymentId: i.PaymentId}
}
