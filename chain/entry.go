// Package chain defines the immutable, content-addressed data model shared
// by authoring and holding: entries, chain headers, validation packages and
// the aspects served to DHT peers.
package chain

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/entryhold/node/address"
)

var canonicalJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// EntryType tags the variant held by an Entry. Modeled as a tagged union
// rather than an interface hierarchy per the dispatch-by-tag design used
// throughout the validation package.
type EntryType int

const (
	EntryDna EntryType = iota
	EntryApp
	EntryAgentID
	EntryLinkAdd
	EntryLinkRemove
	EntryDeletion
	EntryCapTokenGrant
	EntryChainHeader
	EntryUnknown
)

func (t EntryType) String() string {
	switch t {
	case EntryDna:
		return "dna"
	case EntryApp:
		return "app"
	case EntryAgentID:
		return "agent_id"
	case EntryLinkAdd:
		return "link_add"
	case EntryLinkRemove:
		return "link_remove"
	case EntryDeletion:
		return "deletion"
	case EntryCapTokenGrant:
		return "cap_token_grant"
	case EntryChainHeader:
		return "chain_header"
	default:
		return "unknown"
	}
}

// LinkData describes a link-add/link-remove assertion between two entries.
type LinkData struct {
	Base   address.Address
	Target address.Address
	Type   string
	Tag    string
}

// Entry is the tagged union of every entry kind the node can author or
// hold. Only the fields relevant to Type are populated; this mirrors
// holochain_core_types::entry::Entry's variants without an inheritance
// hierarchy.
type Entry struct {
	Type EntryType

	// AppType names the application-defined entry type for EntryApp
	// (e.g. "post"); it is the `app_entry_type` of the original spec.
	AppType string
	// Value carries the canonical payload for EntryApp,
	// EntryCapTokenGrant and EntryDna; an EntryAgentID's nickname is in
	// Nick.
	Value []byte

	// Link is populated for EntryLinkAdd / EntryLinkRemove.
	Link *LinkData

	// Deleted names the entry address a EntryDeletion entry removes.
	Deleted address.Address

	// Nick is the agent nickname for EntryAgentID entries.
	Nick string
}

// CanonicalBytes returns the deterministic serialization of e used to
// derive its content address. Field order is fixed by the struct
// definition, so jsoniter's output is stable across calls.
func (e Entry) CanonicalBytes() ([]byte, error) {
	return canonicalJSON.Marshal(e)
}

// Address computes the content address of e. Panics only if e somehow
// contains a non-serializable value, which cannot happen for this type.
func (e Entry) Address() address.Address {
	b, err := e.CanonicalBytes()
	if err != nil {
		// Entry never contains channels, funcs or cyclic structures, so
		// jsoniter cannot fail here; keep the panic narrow and explicit.
		panic("chain: entry is not serializable: " + err.Error())
	}
	return address.Compute(b)
}

// DescribeEntry summarizes e for a diagnostic dump: kind names the
// variant (the application type for EntryApp, the EntryType name
// otherwise), and summary is a short human-readable rendering of its
// content. DNA content is deliberately omitted.
func DescribeEntry(e Entry) (kind, summary string) {
	switch e.Type {
	case EntryDna:
		return "dna", "DNA omitted"
	case EntryAgentID:
		return e.Type.String(), e.Nick
	case EntryLinkAdd, EntryLinkRemove:
		if e.Link == nil {
			return e.Type.String(), ""
		}
		return e.Type.String(), e.Link.Type + "#" + e.Link.Tag + "\n\t" + e.Link.Base.String() + " => " + e.Link.Target.String()
	case EntryApp:
		return e.AppType, string(e.Value)
	default:
		return e.Type.String(), string(e.Value)
	}
}
