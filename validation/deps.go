package validation

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/entryhold/node/address"
	"github.com/entryhold/node/chain"
	"github.com/entryhold/node/store"
)

// ErrDependencyNotFound reports that a dependent entry is not held
// locally and no remote fetch is configured (or the remote fetch also
// came up empty without timing out).
var ErrDependencyNotFound = errors.New("validation: dependent entry not found")

// DependencyFetcher resolves an entry referenced by address — by a
// link's target, an App entry's modify/delete predecessor — that this
// node may not hold locally. A timeout-aware implementation lets the
// caller distinguish "try again later" from "doesn't exist".
type DependencyFetcher interface {
	GetEntryWithHeader(ctx context.Context, addr address.Address) (chain.EntryWithHeader, error)
}

// LocalDependencyFetcher resolves dependencies against the local
// content store only; it never makes a network request, so it never
// times out — an absent dependency simply reports ErrDependencyNotFound.
type LocalDependencyFetcher struct {
	Store ContentStore
}

// GetEntryWithHeader looks up the most recently authored content aspect
// for addr in the local store.
func (f LocalDependencyFetcher) GetEntryWithHeader(_ context.Context, addr address.Address) (chain.EntryWithHeader, error) {
	headerAddrs, err := f.Store.QueryEAV(addr, store.ContentAttribute)
	if err != nil {
		return chain.EntryWithHeader{}, err
	}
	if len(headerAddrs) == 0 {
		return chain.EntryWithHeader{}, ErrDependencyNotFound
	}

	var latest chain.EntryWithHeader
	found := false
	for _, headerAddr := range headerAddrs {
		var ewh chain.EntryWithHeader
		ok, err := f.Store.Get(headerAddr, &ewh)
		if err != nil {
			return chain.EntryWithHeader{}, err
		}
		if ok && (!found || ewh.Header.Timestamp.After(latest.Header.Timestamp)) {
			latest, found = ewh, true
		}
	}
	if !found {
		return chain.EntryWithHeader{}, ErrDependencyNotFound
	}
	return latest, nil
}

// resolveDependency calls fetcher.GetEntryWithHeader and translates its
// outcome per the entry_to_validation_data contract: a context
// deadline/cancellation becomes a retryable Timeout; anything else
// collapses to a Fail naming the entry that could not be found. label
// names the kind of predecessor being sought ("App Entry", "Delete
// Entry") so the failure message matches the caller's entry type.
func resolveDependency(ctx context.Context, fetcher DependencyFetcher, addr address.Address, label string) (chain.EntryWithHeader, error) {
	start := time.Now()
	ewh, err := fetcher.GetEntryWithHeader(ctx, addr)
	if err == nil {
		return ewh, nil
	}
	if ctx.Err() != nil {
		return chain.EntryWithHeader{}, Timeout(time.Since(start))
	}
	return chain.EntryWithHeader{}, Fail("Could not find " + label + " during validation: " + err.Error())
}
