package validation

import (
	"context"

	"github.com/pkg/errors"
	"go.opencensus.io/trace"

	"github.com/entryhold/node/chain"
	"github.com/entryhold/node/netstate"
)

// ErrNetworkUninitialized reports that the network substate has not
// completed startup; package resolution cannot proceed.
var ErrNetworkUninitialized = errors.New("validation: network substate not initialized")

// GetValidationPackage asks the network subsystem for the validation
// package belonging to header's entry, suspending until the package
// arrives, the responding peer disclaims being the source (a nil
// package with a nil error), ctx is done, or an infrastructural error
// occurs. Two concurrent calls for the same entry mint independent
// request ids and never alias each other's result.
func GetValidationPackage(ctx context.Context, reducer *netstate.Reducer, state *netstate.State, wakers *netstate.WakerRegistry, header chain.ChainHeader) (*chain.ValidationPackage, error) {
	ctx, span := trace.StartSpan(ctx, "validation.GetValidationPackage")
	defer span.End()

	if !state.Initialized() {
		return nil, ErrNetworkUninitialized
	}

	key := chain.NewValidationKey(header.EntryAddress)

	notify := make(chan struct{}, 1)
	wakerID := "validation-package:" + key.String()
	wakers.Register(wakerID, func() {
		select {
		case notify <- struct{}{}:
		default:
		}
	})
	defer wakers.Unregister(wakerID)

	reducer.Dispatch(netstate.Action{
		Kind: netstate.ActionGetValidationPackage,
		Data: netstate.GetValidationPackagePayload{Key: key, Header: header},
	})

	for {
		if !state.Initialized() {
			return nil, ErrNetworkUninitialized
		}

		if result, ok := state.ValidationPackageResult(key); ok && result != nil {
			reducer.Dispatch(netstate.Action{
				Kind: netstate.ActionClearValidationPackageResult,
				Data: netstate.ClearValidationPackageResultPayload{Key: key},
			})
			// Wait for the reducer to apply the clear, so the slot is gone
			// by the time the caller sees the result.
			for {
				if _, still := state.ValidationPackageResult(key); !still {
					break
				}
				select {
				case <-notify:
				case <-ctx.Done():
					return result.Package, result.Err
				}
			}
			return result.Package, result.Err
		}

		select {
		case <-ctx.Done():
			return nil, Infra(errors.Wrap(ctx.Err(), "validation: waiting for validation package"))
		case <-notify:
			// Spurious wake with no settled result for our key simply
			// loops back to re-check state; only a match for our own
			// key ends the wait.
		}
	}
}
