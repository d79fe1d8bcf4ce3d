package netstate_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/entryhold/node/address"
	"github.com/entryhold/node/chain"
	"github.com/entryhold/node/netstate"
)

func TestReducer_SetAndClearValidationPackageResult(t *testing.T) {
	state := netstate.New()
	wakers := netstate.NewWakerRegistry()
	reducer := netstate.NewReducer(state, wakers)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go reducer.Run(ctx)

	var wg sync.WaitGroup
	wg.Add(1)
	wakers.Register("waiter", func() { wg.Done() })

	key := chain.NewValidationKey(address.Compute([]byte("entry")))
	pkg := &chain.ValidationPackage{}
	reducer.Dispatch(netstate.Action{
		Kind: netstate.ActionSetValidationPackageResult,
		Data: netstate.ValidationPackageResultPayload{Key: key, Package: pkg},
	})

	waitOrTimeout(t, &wg)

	result, ok := state.ValidationPackageResult(key)
	if !ok || result == nil || result.Package != pkg {
		t.Fatalf("expected settled package result, got %+v ok=%v", result, ok)
	}

	wakers.Unregister("waiter")
	reducer.Dispatch(netstate.Action{
		Kind: netstate.ActionClearValidationPackageResult,
		Data: netstate.ClearValidationPackageResultPayload{Key: key},
	})

	// Give the reducer a moment to apply the clear; there is no waiter
	// to synchronize on once unregistered.
	time.Sleep(20 * time.Millisecond)
	if _, ok := state.ValidationPackageResult(key); ok {
		t.Fatal("expected the cleared key to no longer have a result")
	}
}

func TestReducer_EffectHandler_FiresForOutboundActionsOnly(t *testing.T) {
	state := netstate.New()
	wakers := netstate.NewWakerRegistry()
	reducer := netstate.NewReducer(state, wakers)

	seen := make(chan netstate.ActionKind, 4)
	reducer.SetEffectHandler(func(a netstate.Action) { seen <- a.Kind })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go reducer.Run(ctx)

	key := chain.NewValidationKey(address.Compute([]byte("entry")))
	reducer.Dispatch(netstate.Action{
		Kind: netstate.ActionGetValidationPackage,
		Data: netstate.GetValidationPackagePayload{Key: key},
	})
	reducer.Dispatch(netstate.Action{
		Kind: netstate.ActionClearValidationPackageResult,
		Data: netstate.ClearValidationPackageResultPayload{Key: key},
	})

	select {
	case kind := <-seen:
		if kind != netstate.ActionGetValidationPackage {
			t.Fatalf("expected the first effect to fire for GetValidationPackage, got %v", kind)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the effect handler")
	}

	select {
	case kind := <-seen:
		t.Fatalf("expected no effect for ActionClearValidationPackageResult, got %v", kind)
	case <-time.After(50 * time.Millisecond):
	}
}

func waitOrTimeout(t *testing.T, wg *sync.WaitGroup) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for waker")
	}
}
