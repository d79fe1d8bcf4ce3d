package p2p

import (
	"context"

	jsoniter "github.com/json-iterator/go"

	"github.com/entryhold/node/address"
	"github.com/entryhold/node/chain"
	"github.com/entryhold/node/validation"
)

// RemoteDependencyFetcher resolves a dependency against the local store
// first and, only on a local miss, asks the peer last seen announcing
// the address over gossip. It implements validation.DependencyFetcher,
// standing in for LocalDependencyFetcher wherever a node actually has
// network peers to ask rather than running fully offline.
type RemoteDependencyFetcher struct {
	Local  validation.LocalDependencyFetcher
	Client *Client
	PeerOf PeerSource
}

// NewRemoteDependencyFetcher builds a RemoteDependencyFetcher over cs
// for local lookups and client/peerOf for the network fallback.
func NewRemoteDependencyFetcher(cs validation.ContentStore, client *Client, peerOf PeerSource) *RemoteDependencyFetcher {
	return &RemoteDependencyFetcher{
		Local:  validation.LocalDependencyFetcher{Store: cs},
		Client: client,
		PeerOf: peerOf,
	}
}

// GetEntryWithHeader satisfies validation.DependencyFetcher.
func (f *RemoteDependencyFetcher) GetEntryWithHeader(ctx context.Context, addr address.Address) (chain.EntryWithHeader, error) {
	ewh, err := f.Local.GetEntryWithHeader(ctx, addr)
	if err == nil {
		return ewh, nil
	}
	if err != validation.ErrDependencyNotFound {
		return chain.EntryWithHeader{}, err
	}

	pid, ok := f.PeerOf(addr)
	if !ok {
		return chain.EntryWithHeader{}, validation.ErrDependencyNotFound
	}

	aspects, err := f.Client.RequestEntryAspects(ctx, pid, addr)
	if err != nil {
		return chain.EntryWithHeader{}, err
	}
	return entryWithHeaderFromAspects(addr, aspects)
}

// entryWithHeaderFromAspects reassembles an EntryWithHeader from the
// content aspect in aspects, the same canonical encoding
// fetchContentAspects produced it with on the serving side.
func entryWithHeaderFromAspects(addr address.Address, aspects []chain.EntryAspect) (chain.EntryWithHeader, error) {
	for _, a := range aspects {
		if a.Kind != chain.AspectContent || a.EntryAddress != addr {
			continue
		}
		var entry chain.Entry
		if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(a.Payload, &entry); err != nil {
			return chain.EntryWithHeader{}, err
		}
		return chain.EntryWithHeader{Entry: entry, Header: a.Header}, nil
	}
	return chain.EntryWithHeader{}, validation.ErrDependencyNotFound
}
