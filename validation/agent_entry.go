package validation

import (
	"github.com/entryhold/node/chain"
	"github.com/entryhold/node/sandbox"
)

// validateAgentEntry checks that an AgentId entry carries a nickname
// before handing it to the application callback; the keypair itself was
// already authenticated by the provenance check in validate_entry.
func validateAgentEntry(sb sandbox.Sandbox, entry chain.Entry, data *chain.ValidationData) error {
	if entry.Nick == "" {
		return Fail("agent entry missing nickname")
	}
	return callSandbox(sb, chain.EntryValidationData{Variant: chain.VariantCreate, Entry: *data, NewEntry: entry})
}
