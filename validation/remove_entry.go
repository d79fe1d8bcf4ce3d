package validation

import (
	"github.com/entryhold/node/chain"
	"github.com/entryhold/node/sandbox"
)

// validateRemoveEntry hands a Delete EntryValidationData (the Deletion
// entry plus the predecessor it removes) to the application callback.
func validateRemoveEntry(sb sandbox.Sandbox, evd chain.EntryValidationData) error {
	return callSandbox(sb, evd)
}
