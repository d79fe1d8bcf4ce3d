package validation

import (
	"context"

	"github.com/entryhold/node/address"
	"github.com/entryhold/node/chain"
)

// entryToValidationData builds the chain.EntryValidationData for entry,
// per its type and an optional link to a predecessor header (set when an
// App entry names a prior version, or implied by a Deletion's Deleted
// field).
func entryToValidationData(ctx context.Context, fetcher DependencyFetcher, entry chain.Entry, link *address.Address, data *chain.ValidationData) (chain.EntryValidationData, error) {
	switch entry.Type {
	case chain.EntryApp:
		if link != nil {
			old, err := resolveDependency(ctx, fetcher, *link, "App Entry")
			if err != nil {
				return chain.EntryValidationData{}, err
			}
			return chain.EntryValidationData{
				Variant:   chain.VariantModify,
				Entry:     *data,
				NewEntry:  entry,
				OldEntry:  old.Entry,
				OldHeader: old.Header,
			}, nil
		}
		return chain.EntryValidationData{Variant: chain.VariantCreate, Entry: *data, NewEntry: entry}, nil

	case chain.EntryCapTokenGrant:
		return chain.EntryValidationData{Variant: chain.VariantCreate, Entry: *data, NewEntry: entry}, nil

	case chain.EntryDeletion:
		old, err := resolveDependency(ctx, fetcher, entry.Deleted, "Delete Entry")
		if err != nil {
			return chain.EntryValidationData{}, err
		}
		return chain.EntryValidationData{
			Variant:   chain.VariantDelete,
			Entry:     *data,
			NewEntry:  entry,
			OldEntry:  old.Entry,
			OldHeader: old.Header,
		}, nil

	default:
		return chain.EntryValidationData{}, ErrNotImplemented
	}
}
