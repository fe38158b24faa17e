// Package address implements the Base58Check wire encoding for Carrot's
// three address flavors. The in-memory public objects and their
// derivation live in package carrot; this package only adds the string
// form a wallet UI or block explorer needs to display and parse them.
package address

import (
	"bytes"
	"errors"

	"git.gammaspectra.live/P2Pool/carrot/crypto"
	base58 "git.gammaspectra.live/P2Pool/monero-base58"
)

const ChecksumLength = 4

type Checksum [ChecksumLength]byte

// PublicKeyBytes is a raw 32-byte compressed Ed25519 public key.
type PublicKeyBytes [crypto.PointSize]byte

// Address is the wire form of a main or subaddress: network-prefix byte,
// spend pubkey, view pubkey, checksum. IsSubaddress is carried by the
// network prefix, matching Monero's own convention.
type Address struct {
	SpendPub    PublicKeyBytes
	ViewPub     PublicKeyBytes
	TypeNetwork uint8
}

func checksumHash(data []byte) (sum Checksum) {
	h := crypto.Keccak256(data)
	copy(sum[:], h[:ChecksumLength])
	return sum
}

func (a *Address) IsSubaddress() bool {
	switch a.TypeNetwork {
	case SubAddressMainNetwork, SubAddressTestNetwork, SubAddressStageNetwork:
		return true
	default:
		return false
	}
}

func (a *Address) ToBase58() string {
	var raw [1 + 32 + 32 + ChecksumLength]byte
	raw[0] = a.TypeNetwork
	copy(raw[1:33], a.SpendPub[:])
	copy(raw[33:65], a.ViewPub[:])
	sum := checksumHash(raw[:65])
	copy(raw[65:], sum[:])

	buf := make([]byte, 0, 95)
	return string(base58.EncodeMoneroBase58PreAllocated(buf, raw[:]))
}

func FromBase58(s string) (*Address, error) {
	preAllocated := make([]byte, 0, 69)
	raw := base58.DecodeMoneroBase58PreAllocated(preAllocated, []byte(s))
	if len(raw) != 69 {
		return nil, errors.New("address: wrong decoded length")
	}

	switch raw[0] {
	case MainNetwork, TestNetwork, StageNetwork, SubAddressMainNetwork, SubAddressTestNetwork, SubAddressStageNetwork:
	default:
		return nil, errors.New("address: unrecognized network prefix")
	}

	sum := checksumHash(raw[:65])
	if !bytes.Equal(sum[:], raw[65:]) {
		return nil, errors.New("address: checksum mismatch")
	}

	a := &Address{TypeNetwork: raw[0]}
	copy(a.SpendPub[:], raw[1:33])
	copy(a.ViewPub[:], raw[33:65])
	return a, nil
}

// IntegratedAddress additionally carries an 8-byte nonzero payment ID
// between the two public keys and the checksum, following Monero's wire
// convention for integrated addresses.
type IntegratedAddress struct {
	SpendPub  PublicKeyBytes
	ViewPub   PublicKeyBytes
	PaymentId [8]byte
}

func (a *IntegratedAddress) ToBase58() string {
	var raw [1 + 32 + 32 + 8 + ChecksumLength]byte
	raw[0] = IntegratedMainNetwork
	copy(raw[1:33], a.SpendPub[:])
	copy(raw[33:65], a.ViewPub[:])
	copy(raw[65:73], a.PaymentId[:])
	sum := checksumHash(raw[:73])
	copy(raw[73:], sum[:])

	buf := make([]byte, 0, 106)
	return string(base58.EncodeMoneroBase58PreAllocated(buf, raw[:]))
}

func FromBase58Integrated(s string) (*IntegratedAddress, error) {
	preAllocated := make([]byte, 0, 77)
	raw := base58.DecodeMoneroBase58PreAllocated(preAllocated, []byte(s))
	if len(raw) != 77 {
		return nil, errors.New("address: wrong decoded length")
	}

	switch raw[0] {
	case IntegratedMainNetwork, IntegratedTestNetwork, IntegratedStageNetwork:
	default:
		return nil, errors.New("address: not an integrated address")
	}

	sum := checksumHash(raw[:73])
	if !bytes.Equal(sum[:], raw[73:]) {
		return nil, errors.New("address: checksum mismatch")
	}

	a := &IntegratedAddress{}
	copy(a.SpendPub[:], raw[1:33])
	copy(a.ViewPub[:], raw[33:65])
	copy(a.PaymentId[:], raw[65:73])
	return a, nil
}
