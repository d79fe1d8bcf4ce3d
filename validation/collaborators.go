package validation

import (
	"github.com/entryhold/node/address"
	"github.com/entryhold/node/chain"
	"github.com/entryhold/node/store"
)

// ContentStore is the read surface the validation package needs from
// the node's content store gateway. store.Store satisfies it; it is
// expressed as an interface here so dispatch/fetch code can be tested
// against a fake without a real bbolt database, and per the design
// notes' preference for explicit, narrow collaborator handles over a
// shared context object.
type ContentStore interface {
	Get(addr address.Address, dst interface{}) (bool, error)
	IterChain() ([]chain.EntryWithHeader, error)
	QueryEAV(entity address.Address, attribute string) ([]address.Address, error)
	QueryEAVAll(entity address.Address) ([]store.EAVRecord, error)
}
