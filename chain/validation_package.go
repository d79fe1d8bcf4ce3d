package chain

import "github.com/entryhold/node/address"

// ValidationPackage holds everything a type-specific validator needs
// beyond the entry itself: the authoring header, and optionally the
// source-chain headers and entries up to that header's timestamp.
type ValidationPackage struct {
	ChainHeader ChainHeader

	// SourceChainHeaders is nil when the validator doesn't require chain
	// history; otherwise it holds headers strictly older than
	// ChainHeader.Timestamp (enforced by the dispatcher's temporal
	// pruning step, not by this type).
	SourceChainHeaders []ChainHeader

	// SourceChainEntries is nil unless the full source chain's entries
	// were requested alongside the headers.
	SourceChainEntries []Entry
}

// ValidationData is built fresh for each validation attempt: the
// package plus the set of agents who have so far attested to the entry.
type ValidationData struct {
	Package ValidationPackage
	Sources map[address.Address]struct{}
}

// NewValidationData builds a ValidationData from a package and the
// agents named in its header's provenances.
func NewValidationData(pkg ValidationPackage) ValidationData {
	sources := make(map[address.Address]struct{}, len(pkg.ChainHeader.Provenances))
	for _, p := range pkg.ChainHeader.Provenances {
		sources[p.Agent] = struct{}{}
	}
	return ValidationData{Package: pkg, Sources: sources}
}

// SourceList returns the Sources set as a slice, for callers that need a
// stable iteration order (e.g. logging, tests).
func (vd ValidationData) SourceList() []address.Address {
	out := make([]address.Address, 0, len(vd.Sources))
	for a := range vd.Sources {
		out = append(out, a)
	}
	address.Sort(out)
	return out
}

// PruneSourceChainHeaders removes from the package any source-chain
// header whose timestamp is not strictly older than the chain header's
// own timestamp, per the dispatcher's temporal-pruning invariant.
func (vd *ValidationData) PruneSourceChainHeaders() {
	headers := vd.Package.SourceChainHeaders
	if headers == nil {
		return
	}
	t := vd.Package.ChainHeader.Timestamp
	kept := headers[:0]
	for _, h := range headers {
		if h.Timestamp.Before(t) {
			kept = append(kept, h)
		}
	}
	vd.Package.SourceChainHeaders = kept
}
