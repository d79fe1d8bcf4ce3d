package store

import "github.com/entryhold/node/chain"

// LinkAttribute builds the EAV attribute string under which a link-add
// or link-remove assertion for (linkType, tag) is indexed, keyed by the
// link's base entry as entity and its target as value.
func LinkAttribute(linkType, tag string) string {
	return "link:" + linkType + ":" + tag
}

// ContentAttribute indexes, for a given entry address, every header
// address under which that entry has been authored — an entry can be
// authored more than once, by different agents or at different times,
// producing distinct content aspects that share an address.
const ContentAttribute = "content"

// HoldEntryWithHeader persists ewh as a content aspect: the pair is
// stored under its header's own address, and indexed so fetch queries
// for ewh.Entry.Address() can find it alongside any other header that
// authored the same entry content.
func (s *Store) HoldEntryWithHeader(ewh chain.EntryWithHeader) error {
	headerAddr := ewh.Header.Address()
	if err := s.Put(headerAddr, ewh); err != nil {
		return err
	}
	return s.AddEAV(ewh.Entry.Address(), ContentAttribute, headerAddr)
}
