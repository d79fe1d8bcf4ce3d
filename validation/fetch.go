package validation

import (
	"strings"
	"time"

	"github.com/entryhold/node/address"
	"github.com/entryhold/node/chain"
	"github.com/entryhold/node/netstate"
	"github.com/entryhold/node/store"
)

// HandleFetch answers a peer's request for entryAddr's aspects by
// assembling them and dispatching a RespondFetch action back out to the
// network layer.
func HandleFetch(cs ContentStore, reducer *netstate.Reducer, entryAddr address.Address) {
	start := time.Now()
	aspects := FetchAspectsForEntry(cs, entryAddr)
	fetchHandlerLatency.Observe(float64(time.Since(start).Milliseconds()))

	reducer.Dispatch(netstate.Action{
		Kind: netstate.ActionRespondFetch,
		Data: netstate.RespondFetchPayload{EntryAddress: entryAddr, Aspects: aspects},
	})
}

// FetchAspectsForEntry assembles every aspect this node holds for
// entryAddr, for answering a DHT peer's fetch request. It ignores any
// client-supplied aspect filter: the handler always returns everything
// it has, by design (see the fetch-completeness property this function
// is meant to satisfy).
//
// A failure retrieving content aspects aborts with an empty set (logged
// at debug). A failure in either meta-aspect source logs at error but
// does not discard aspects already collected.
func FetchAspectsForEntry(cs ContentStore, entryAddr address.Address) []chain.EntryAspect {
	contentAspects, err := fetchContentAspects(cs, entryAddr)
	if err != nil {
		log.WithField("entry_address", entryAddr).WithError(err).Debug("fetch: content aspect retrieval failed")
		return nil
	}

	seen := make(map[address.Address]struct{}, len(contentAspects))
	out := make([]chain.EntryAspect, 0, len(contentAspects))
	for _, a := range contentAspects {
		if _, dup := seen[a.Address()]; dup {
			continue
		}
		seen[a.Address()] = struct{}{}
		out = append(out, a)
	}

	chainMeta, err := fetchChainMetaAspects(cs, entryAddr)
	if err != nil {
		log.WithField("entry_address", entryAddr).WithError(err).Error("fetch: source-chain meta aspect query failed")
	}
	for _, a := range chainMeta {
		if _, dup := seen[a.Address()]; dup {
			continue
		}
		seen[a.Address()] = struct{}{}
		out = append(out, a)
	}

	dhtMeta, err := fetchDHTMetaAspects(cs, entryAddr)
	if err != nil {
		log.WithField("entry_address", entryAddr).WithError(err).Error("fetch: DHT EAV meta aspect query failed")
	}
	for _, a := range dhtMeta {
		if _, dup := seen[a.Address()]; dup {
			continue
		}
		seen[a.Address()] = struct{}{}
		out = append(out, a)
	}

	return out
}

func fetchContentAspects(cs ContentStore, entryAddr address.Address) ([]chain.EntryAspect, error) {
	headerAddrs, err := cs.QueryEAV(entryAddr, store.ContentAttribute)
	if err != nil {
		return nil, err
	}
	out := make([]chain.EntryAspect, 0, len(headerAddrs))
	for _, headerAddr := range headerAddrs {
		var ewh chain.EntryWithHeader
		found, err := cs.Get(headerAddr, &ewh)
		if err != nil {
			return nil, err
		}
		if !found {
			continue
		}
		payload, err := ewh.Entry.CanonicalBytes()
		if err != nil {
			return nil, err
		}
		out = append(out, chain.EntryAspect{
			Kind:         chain.AspectContent,
			EntryAddress: entryAddr,
			Header:       ewh.Header,
			Payload:      payload,
		})
	}
	return out, nil
}

// fetchChainMetaAspects scans the local agent's own source chain for
// link entries naming entryAddr as their base, yielding one meta aspect
// per match.
func fetchChainMetaAspects(cs ContentStore, entryAddr address.Address) ([]chain.EntryAspect, error) {
	chainEntries, err := cs.IterChain()
	if err != nil {
		return nil, err
	}
	var out []chain.EntryAspect
	for _, ewh := range chainEntries {
		aspect, ok := linkAspectFor(ewh, entryAddr)
		if ok {
			out = append(out, aspect)
		}
	}
	return out, nil
}

// fetchDHTMetaAspects scans the EAV index for link assertions recorded
// against entryAddr as their base.
func fetchDHTMetaAspects(cs ContentStore, entryAddr address.Address) ([]chain.EntryAspect, error) {
	records, err := cs.QueryEAVAll(entryAddr)
	if err != nil {
		return nil, err
	}
	var out []chain.EntryAspect
	for _, rec := range records {
		if !strings.HasPrefix(rec.Attribute, "link:") {
			continue
		}
		out = append(out, chain.EntryAspect{
			Kind:         chain.AspectLinkAdd,
			EntryAddress: entryAddr,
			Payload:      rec.Value.Bytes(),
		})
	}
	return out, nil
}

func linkAspectFor(ewh chain.EntryWithHeader, entryAddr address.Address) (chain.EntryAspect, bool) {
	if ewh.Entry.Link == nil {
		return chain.EntryAspect{}, false
	}
	if ewh.Entry.Link.Base != entryAddr {
		return chain.EntryAspect{}, false
	}

	kind := chain.AspectLinkAdd
	if ewh.Entry.Type == chain.EntryLinkRemove {
		kind = chain.AspectLinkRemove
	}

	payload, err := ewh.Entry.CanonicalBytes()
	if err != nil {
		return chain.EntryAspect{}, false
	}
	return chain.EntryAspect{
		Kind:         kind,
		EntryAddress: entryAddr,
		Header:       ewh.Header,
		Payload:      payload,
	}, true
}
