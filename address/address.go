// Package address defines the opaque content-address type shared by every
// entry, header and aspect in the system.
package address

import (
	"bytes"
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

// Size of an Address in bytes.
const Size = 32

// Address is an opaque content hash. It is totally ordered and displayable
// but carries no semantics of its own; callers derive it from canonical
// serializations of the content it names.
type Address [Size]byte

// Compute derives the Address of data by hashing it with Keccak/SHA3-256,
// mirroring the approach of shared/hashutil.Hash in the wider corpus.
func Compute(data []byte) Address {
	var a Address
	h := sha3.NewLegacyKeccak256()
	// The hash.Hash interface never returns an error on Write or Sum.
	_, _ = h.Write(data)
	h.Sum(a[:0])
	return a
}

// FromBytes copies b into an Address, zero-padding or truncating isn't
// performed: b must be exactly Size bytes.
func FromBytes(b []byte) (Address, error) {
	var a Address
	if len(b) != Size {
		return a, errInvalidLength
	}
	copy(a[:], b)
	return a, nil
}

// IsZero reports whether a is the zero-value address.
func (a Address) IsZero() bool {
	return a == Address{}
}

// Bytes returns a's contents as a slice.
func (a Address) Bytes() []byte {
	return a[:]
}

// Compare returns -1, 0 or 1 depending on whether a is less than, equal to
// or greater than b, giving Address a total order.
func (a Address) Compare(b Address) int {
	return bytes.Compare(a[:], b[:])
}

// Equal reports whether a and b name the same content.
func (a Address) Equal(b Address) bool {
	return a == b
}

// String returns the lowercase hex encoding of a.
func (a Address) String() string {
	return hex.EncodeToString(a[:])
}

// ParseAddress decodes a hex-encoded address as produced by String.
func ParseAddress(s string) (Address, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Address{}, err
	}
	return FromBytes(b)
}

// Sort sorts a slice of addresses in place using their total order.
func Sort(addrs []Address) {
	// insertion sort: address lists in this system are small (provenance
	// lists, dependency lists), so an allocation-free sort beats sort.Slice.
	for i := 1; i < len(addrs); i++ {
		for j := i; j > 0 && addrs[j-1].Compare(addrs[j]) > 0; j-- {
			addrs[j-1], addrs[j] = addrs[j], addrs[j-1]
		}
	}
}
