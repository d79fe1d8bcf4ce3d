package chain

import "github.com/entryhold/node/address"

// AspectKind tags what an EntryAspect asserts about its entry.
type AspectKind int

const (
	AspectContent AspectKind = iota
	AspectLinkAdd
	AspectLinkRemove
	AspectHeader
)

func (k AspectKind) String() string {
	switch k {
	case AspectContent:
		return "content"
	case AspectLinkAdd:
		return "link_add"
	case AspectLinkRemove:
		return "link_remove"
	case AspectHeader:
		return "header"
	default:
		return "unknown"
	}
}

// EntryAspect is a signed fragment of information about an entry: its
// content, or a meta-assertion (link-add, link-remove, header) derived
// from the local store on demand.
type EntryAspect struct {
	Kind         AspectKind
	EntryAddress address.Address
	Header       ChainHeader
	// Payload is the canonical bytes of the aspect-specific content
	// (the entry's value for AspectContent, the link data for the
	// link kinds, nothing extra for AspectHeader).
	Payload []byte
}

type aspectSigningView struct {
	Kind         AspectKind
	EntryAddress address.Address
	HeaderAddr   address.Address
	Payload      []byte
}

// Address computes the aspect's own content address, used to dedup
// aspect sets returned by the fetch handler.
func (a EntryAspect) Address() address.Address {
	view := aspectSigningView{
		Kind:         a.Kind,
		EntryAddress: a.EntryAddress,
		HeaderAddr:   a.Header.Address(),
		Payload:      a.Payload,
	}
	b, err := canonicalJSON.Marshal(view)
	if err != nil {
		panic("chain: aspect is not serializable: " + err.Error())
	}
	return address.Compute(b)
}
