package p2p

import (
	"sync"

	"github.com/libp2p/go-libp2p-core/peer"

	"github.com/entryhold/node/address"
)

// PeerDirectory remembers which peer last announced each entry address
// over gossip, so an outbound GetValidationPackage request has somewhere
// to ask. It is a pragmatic substitute for the DHT routing this package
// deliberately doesn't implement (see host.go's doc comment).
type PeerDirectory struct {
	mu      sync.RWMutex
	sources map[address.Address]peer.ID
}

// NewPeerDirectory builds an empty PeerDirectory.
func NewPeerDirectory() *PeerDirectory {
	return &PeerDirectory{sources: make(map[address.Address]peer.ID)}
}

// RecordEntrySource remembers that pid announced entryAddr.
func (d *PeerDirectory) RecordEntrySource(entryAddr address.Address, pid peer.ID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sources[entryAddr] = pid
}

// Lookup returns the last peer known to have announced entryAddr.
func (d *PeerDirectory) Lookup(entryAddr address.Address) (peer.ID, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	pid, ok := d.sources[entryAddr]
	return pid, ok
}

// AsPeerSource adapts d to the PeerSource signature Client.WireEffects'
// resolver needs.
func (d *PeerDirectory) AsPeerSource() PeerSource {
	return d.Lookup
}
