package validation

import (
	"github.com/entryhold/node/address"
	"github.com/entryhold/node/chain"
	"github.com/entryhold/node/sandbox"
	"github.com/entryhold/node/store"
)

// validateLinkEntry validates a LinkAdd or LinkRemove entry: both the
// link's base and target must already be held locally before the
// sandbox callback can meaningfully evaluate the assertion. A missing
// endpoint is an UnresolvedDependencies condition, not a Fail: the
// endpoint may simply not have arrived on this node yet and is worth
// retrying, unlike the App-entry modify/delete predecessor lookup in
// entry_validation_data.go which collapses straight to Fail.
func validateLinkEntry(cs ContentStore, sb sandbox.Sandbox, entry chain.Entry, data *chain.ValidationData) error {
	if entry.Link == nil {
		return Fail("link entry missing link data")
	}

	var missing []address.Address
	if has, err := hasEntry(cs, entry.Link.Base); err != nil {
		return Infra(err)
	} else if !has {
		missing = append(missing, entry.Link.Base)
	}
	if has, err := hasEntry(cs, entry.Link.Target); err != nil {
		return Infra(err)
	} else if !has {
		missing = append(missing, entry.Link.Target)
	}
	if len(missing) > 0 {
		return UnresolvedDependencies(missing)
	}

	return callSandbox(sb, chain.EntryValidationData{Variant: chain.VariantCreate, Entry: *data, NewEntry: entry})
}

func hasEntry(cs ContentStore, addr address.Address) (bool, error) {
	headers, err := cs.QueryEAV(addr, store.ContentAttribute)
	if err != nil {
		return false, err
	}
	return len(headers) > 0, nil
}
