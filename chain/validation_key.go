package chain

import (
	"github.com/google/uuid"

	"github.com/entryhold/node/address"
)

// ValidationKey identifies one in-flight remote validation-package
// request. RequestID is process-unique so two concurrent requests for the
// same entry never alias each other's result slot.
type ValidationKey struct {
	EntryAddress address.Address
	RequestID    string
}

// NewValidationKey mints a fresh key for addr using a process-unique
// request id.
func NewValidationKey(addr address.Address) ValidationKey {
	return ValidationKey{
		EntryAddress: addr,
		RequestID:    uuid.New().String(),
	}
}

func (k ValidationKey) String() string {
	return k.EntryAddress.String() + "/" + k.RequestID
}
