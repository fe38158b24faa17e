package carrot

// Fixed-width byte-typed aliases from the data model (spec §3).
type (
	PaymentId            [8]byte
	JanusAnchor          [16]byte
	EncryptedAmount      [8]byte
	EncryptedPaymentId   [8]byte
	EncryptedJanusAnchor [16]byte
	ViewTag              [3]byte
	KeyImage             [32]byte
)

var NullPaymentId PaymentId

// InputContext is a tagged byte string binding enotes to a specific
// transaction: "R" || KI_1 for a normal tx (33 bytes), or "C" ||
// blockIndex for a coinbase tx (9 bytes).
type InputContext []byte

func MakeInputContextNormal(txFirstKeyImage KeyImage) InputContext {
	ic := make(InputContext, 1+32)
	ic[0] = InputContextNormalPrefix
	copy(ic[1:], txFirstKeyImage[:])
	return ic
}

func MakeInputContextCoinbase(blockIndex uint64) InputContext {
	ic := make(InputContext, 1+8)
	ic[0] = InputContextCoinbasePrefix
	for i := 0; i < 8; i++ {
		ic[1+i] = byte(blockIndex >> (8 * i))
	}
	return ic
}
