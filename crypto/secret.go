package crypto

// Secret holds 32 bytes of derived key material and guarantees the
// backing array is overwritten once the caller is done with it. The core
// has no destructors, so callers are responsible for calling Release via
// defer immediately after construction, at the same point a scoped
// wiper's destructor would have fired in the source implementation.
type Secret struct {
	b [32]byte
}

func NewSecret(b [32]byte) *Secret {
	return &Secret{b: b}
}

func (s *Secret) Bytes() [32]byte {
	return s.b
}

func (s *Secret) Slice() []byte {
	return s.b[:]
}

// Release overwrites the secret's backing storage with zeroes. Safe to
// call more than once.
func (s *Secret) Release() {
	for i := range s.b {
		s.b[i] = 0
	}
}
