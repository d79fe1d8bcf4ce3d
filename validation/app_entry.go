package validation

import (
	stderrors "errors"

	"github.com/entryhold/node/chain"
	"github.com/entryhold/node/sandbox"
)

// validateAppEntry hands a Create or Modify EntryValidationData to the
// application's registered callback for the entry's app type.
func validateAppEntry(sb sandbox.Sandbox, evd chain.EntryValidationData) error {
	return callSandbox(sb, evd)
}

// callSandbox invokes the sandbox and normalizes its "no callback
// registered" signal into this package's own NotImplemented outcome.
func callSandbox(sb sandbox.Sandbox, evd chain.EntryValidationData) error {
	err := sb.CallValidationCallback(evd)
	if stderrors.Is(err, sandbox.ErrNotImplemented) {
		return ErrNotImplemented
	}
	return err
}
