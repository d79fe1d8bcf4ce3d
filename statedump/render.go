package statedump

import (
	"fmt"
	"strings"

	"github.com/entryhold/node/chain"
)

// Render formats dump as the multi-section text report an operator
// reads from a log line or admin endpoint, grounded on scheduled_jobs'
// state_dump.rs template.
func Render(dump *StateDump) string {
	return dump.Render()
}

// Render formats d the same way the package-level Render does; both
// exist because callers sometimes hold a *StateDump and sometimes just
// want the free function, mirroring the original's module-level
// `state_dump` job function wrapping the struct it renders.
func (d *StateDump) Render() string {
	var b strings.Builder

	fmt.Fprintln(&b, "=============STATE DUMP===============")
	fmt.Fprintln(&b, "Source chain:")
	fmt.Fprintln(&b, "=============")
	for _, ewh := range d.SourceChain {
		kind, summary := chain.DescribeEntry(ewh.Entry)
		fmt.Fprintf(&b, "===========Header===========\n")
		fmt.Fprintf(&b, "Type: %s\n", ewh.Header.EntryType)
		fmt.Fprintf(&b, "Timestamp: %s\n", ewh.Header.Timestamp)
		fmt.Fprintf(&b, "Header address: %s\n", ewh.Header.Address())
		fmt.Fprintf(&b, "Entry address: %s\n", ewh.Header.EntryAddress)
		fmt.Fprintln(&b, "----------Content----------")
		fmt.Fprintf(&b, "* [%s] %s: %s\n", kind, ewh.Header.EntryAddress, summary)
		fmt.Fprintln(&b, "----------------------------")
	}

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "Network:")
	fmt.Fprintln(&b, "--------")
	fmt.Fprintf(&b, "Running query flows: %v\n", d.QueryFlows)
	fmt.Fprintf(&b, "Running validation package requests: %v\n", d.ValidationPackageFlows)

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "DHT:")
	fmt.Fprintln(&b, "====")
	fmt.Fprintf(&b, "Queued validations (%d):\n", len(d.QueuedHoldingWorkflows))
	for _, w := range d.QueuedHoldingWorkflows {
		timeout := "never"
		if w.Timeout != nil {
			timeout = w.Timeout.String()
		}
		fmt.Fprintf(&b, "  <%s> %s: depends on %v, timeout: %s\n",
			w.Pending.Workflow, w.Pending.EntryWithHeader.Entry.Address(), w.Pending.Dependencies, timeout)
	}
	fmt.Fprintf(&b, "In-process validations (%d):\n", len(d.InProcessHoldingWorkflows))
	for _, p := range d.InProcessHoldingWorkflows {
		fmt.Fprintf(&b, "  <%s> %s: depends on %v\n", p.Workflow, p.EntryWithHeader.Entry.Address(), p.Dependencies)
	}

	if d.EAVIndex != nil {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, "EAV index:")
		fmt.Fprintln(&b, "----------")
		for _, r := range d.EAVIndex {
			fmt.Fprintf(&b, "  [%s] %s => %s\n", r.Entity, r.Attribute, r.Value)
		}
	}

	return b.String()
}
