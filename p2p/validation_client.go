package p2p

import (
	"context"
	"time"

	"github.com/libp2p/go-libp2p-core/peer"
	"github.com/pkg/errors"

	"github.com/entryhold/node/address"
	"github.com/entryhold/node/netstate"
)

// requestTimeout bounds a single outbound RPC the effect handler makes
// on the resolver's behalf.
var requestTimeout = 10 * time.Second

// PeerSource picks a peer to ask for entryAddr's data; the DHT routing
// strategy behind it is outside this package's concern (spec.md's
// Non-goals leave "transport choice" open — this is the binding this
// repo ships, not the only possible one).
type PeerSource func(entryAddr address.Address) (peer.ID, bool)

// Client performs the outbound side of the validation-package and
// fetch RPCs: it is the EffectHandler the resolver's netstate.Reducer
// calls to actually reach the network for a GetValidationPackage
// action dispatched locally.
type Client struct {
	host   *Host
	peerOf PeerSource
}

// NewClient builds a Client over host, resolving which peer to ask via
// peerOf.
func NewClient(host *Host, peerOf PeerSource) *Client {
	return &Client{host: host, peerOf: peerOf}
}

// WireEffects registers c as reducer's EffectHandler for
// ActionGetValidationPackage: it performs the RPC and dispatches
// ActionSetValidationPackageResult with whatever it learns, settling
// the slot the resolver's GetValidationPackage call is waiting on.
func (c *Client) WireEffects(reducer *netstate.Reducer) {
	reducer.SetEffectHandler(func(a netstate.Action) {
		if a.Kind != netstate.ActionGetValidationPackage {
			return
		}
		payload := a.Data.(netstate.GetValidationPackagePayload)
		c.resolveValidationPackage(reducer, payload)
	})
}

func (c *Client) resolveValidationPackage(reducer *netstate.Reducer, payload netstate.GetValidationPackagePayload) {
	pid, ok := c.peerOf(payload.Header.EntryAddress)
	if !ok {
		reducer.Dispatch(netstate.Action{
			Kind: netstate.ActionSetValidationPackageResult,
			Data: netstate.ValidationPackageResultPayload{
				Key: payload.Key,
				Err: errors.New("p2p: no peer known to hold this entry"),
			},
		})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	pkg, err := c.RequestValidationPackage(ctx, pid, payload.Header.EntryAddress)
	reducer.Dispatch(netstate.Action{
		Kind: netstate.ActionSetValidationPackageResult,
		Data: netstate.ValidationPackageResultPayload{
			Key:     payload.Key,
			Package: pkg,
			Err:     wrapRequestErr(err),
		},
	})
}

func wrapRequestErr(err error) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, "p2p: requesting validation package")
}
