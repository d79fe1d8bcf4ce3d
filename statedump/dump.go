// Package statedump assembles a point-in-time snapshot of a node's
// source chain, in-flight network actions and DHT holding workflows,
// for operator diagnostics. Grounded on holochain's state_dump.rs: a
// single StateDump struct built by reading every subsystem's state
// under its own lock and copying out what it needs, never aliasing a
// live queue.
package statedump

import (
	"github.com/entryhold/node/chain"
	"github.com/entryhold/node/netstate"
	"github.com/entryhold/node/store"
	"github.com/entryhold/node/validation"
)

// DumpOptions controls how much a StateDump collects. Collecting the
// full EAV index is expensive on a large store, so it is opt-in.
type DumpOptions struct {
	IncludeEAVIndex bool
}

// StateDump is a snapshot of a node's source chain, the DHT holding
// workflows parked in its validation registry, the network layer's
// in-flight validation-package/query actions, and (optionally) its
// entire entity-attribute-value index.
type StateDump struct {
	SourceChain []chain.EntryWithHeader `json:"source_chain"`

	QueuedHoldingWorkflows    []chain.PendingValidationWithTimeout `json:"queued_holding_workflows"`
	InProcessHoldingWorkflows []chain.PendingValidation            `json:"in_process_holding_workflows"`

	ValidationPackageFlows []chain.ValidationKey `json:"validation_package_flows"`
	QueryFlows             []netstate.QueryKey    `json:"query_flows"`

	EAVIndex []store.FullEAVRecord `json:"eav_index,omitempty"`
}

// Collector gathers a StateDump from a node's live subsystems. Every
// field is built from the subsystem's own accessor, which already
// returns a copy, so a StateDump never aliases anything the node is
// still mutating.
type Collector struct {
	Store    *store.Store
	Registry *validation.Registry
	Network  *netstate.State
}

// Collect builds a StateDump under opts.
func (c *Collector) Collect(opts DumpOptions) (*StateDump, error) {
	chainEntries, err := c.Store.IterChain()
	if err != nil {
		return nil, err
	}

	dump := &StateDump{
		SourceChain:               reverseDroppingDNA(chainEntries),
		QueuedHoldingWorkflows:    c.Registry.QueuedWorkflows(),
		InProcessHoldingWorkflows: c.Registry.InProcessWorkflows(),
		ValidationPackageFlows:    c.Network.PendingValidationPackageKeys(),
		QueryFlows:                c.Network.PendingQueryKeys(),
	}

	if opts.IncludeEAVIndex {
		records, err := c.Store.DumpEAV()
		if err != nil {
			return nil, err
		}
		dump.EAVIndex = records
	}

	return dump, nil
}

// reverseDroppingDNA returns entries newest-first, dropping the DNA
// entry the chain's genesis header carries — state_dump.rs's own
// comment calls this "for now just drop the DNA entry" and this port
// keeps that behavior rather than inventing a reason to change it.
func reverseDroppingDNA(entries []chain.EntryWithHeader) []chain.EntryWithHeader {
	out := make([]chain.EntryWithHeader, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Entry.Type == chain.EntryDna {
			continue
		}
		out = append(out, entries[i])
	}
	return out
}
