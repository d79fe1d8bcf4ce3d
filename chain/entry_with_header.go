package chain

// EntryWithHeader is the transient carrier pairing an Entry with the
// ChainHeader that was authored for it; it never outlives a single
// workflow invocation.
type EntryWithHeader struct {
	Entry  Entry
	Header ChainHeader
}
