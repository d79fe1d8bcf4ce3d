package chain

import (
	"time"

	"github.com/entryhold/node/address"
)

// Provenance attests a ChainHeader: the signature of agent over the
// header's canonical bytes.
type Provenance struct {
	Agent     address.Address
	Signature []byte
}

// ChainHeader is the immutable, signed envelope that links an Entry into
// an agent's source chain.
type ChainHeader struct {
	EntryType    EntryType
	EntryAddress address.Address
	Timestamp    time.Time
	// Link is the address of the previous header in the source chain, or
	// nil for the first (DNA) header.
	Link        *address.Address
	Provenances []Provenance
}

// signingBytes returns the bytes that provenance signatures are computed
// over: everything except the provenances themselves, so a header's
// address does not change when provenances are added.
type headerSigningView struct {
	EntryType    EntryType
	EntryAddress address.Address
	Timestamp    int64
	Link         *address.Address
}

func (h ChainHeader) signingBytes() ([]byte, error) {
	view := headerSigningView{
		EntryType:    h.EntryType,
		EntryAddress: h.EntryAddress,
		Timestamp:    h.Timestamp.UnixNano(),
		Link:         h.Link,
	}
	return canonicalJSON.Marshal(view)
}

// Address computes the header's own content address, which is what
// provenance signatures attest to.
func (h ChainHeader) Address() address.Address {
	b, err := h.signingBytes()
	if err != nil {
		panic("chain: header is not serializable: " + err.Error())
	}
	return address.Compute(b)
}

// SigningPayload returns the canonical bytes a provenance signature must
// verify against.
func (h ChainHeader) SigningPayload() []byte {
	addr := h.Address()
	return addr.Bytes()
}
