package p2p

import (
	"context"

	"github.com/libp2p/go-libp2p-core/network"
	"github.com/libp2p/go-libp2p-core/peer"

	"github.com/entryhold/node/address"
	"github.com/entryhold/node/chain"
	"github.com/entryhold/node/store"
	"github.com/entryhold/node/validation"
)

// RPCServer answers peers' GetValidationPackage and FetchEntryData
// requests from the local content store. Unlike the async
// GetValidationPackage/FetchAspectsForEntry callers on the requester
// side, a server handler already has everything it needs synchronously,
// so it never touches the netstate reducer.
type RPCServer struct {
	host  *Host
	store validation.ContentStore
}

// NewRPCServer builds an RPCServer over host and store.
func NewRPCServer(host *Host, cs validation.ContentStore) *RPCServer {
	return &RPCServer{host: host, store: cs}
}

// RegisterHandlers wires both RPCs onto the host's stream multiplexer.
func (s *RPCServer) RegisterHandlers() {
	s.host.RegisterRPC(RPCGetValidationPackageTopic, s.handleGetValidationPackage)
	s.host.RegisterRPC(RPCFetchEntryDataTopic, s.handleFetchEntryData)
}

func (s *RPCServer) handleGetValidationPackage(ctx context.Context, stream network.Stream) error {
	var req address.Address
	if err := s.host.Encoding().DecodeWithLength(stream, &req); err != nil {
		return err
	}

	pkg, err := lookupValidationPackage(s.store, req)
	if err != nil {
		log.WithField("entry_address", req).WithError(err).Debug("could not look up validation package")
		_, err := s.host.Encoding().EncodeWithLength(stream, (*chain.ValidationPackage)(nil))
		return err
	}
	_, err = s.host.Encoding().EncodeWithLength(stream, pkg)
	return err
}

func (s *RPCServer) handleFetchEntryData(ctx context.Context, stream network.Stream) error {
	var req address.Address
	if err := s.host.Encoding().DecodeWithLength(stream, &req); err != nil {
		return err
	}

	aspects := validation.FetchAspectsForEntry(s.store, req)
	_, err := s.host.Encoding().EncodeWithLength(stream, aspects)
	return err
}

// lookupValidationPackage finds the most recently authored header for
// entryAddr and wraps it as a ValidationPackage with no source-chain
// history attached; a requester needing chain history asks for it via
// the source-chain meta aspects returned by FetchEntryData instead.
func lookupValidationPackage(cs validation.ContentStore, entryAddr address.Address) (*chain.ValidationPackage, error) {
	headerAddrs, err := cs.QueryEAV(entryAddr, store.ContentAttribute)
	if err != nil {
		return nil, err
	}
	if len(headerAddrs) == 0 {
		return nil, validation.ErrDependencyNotFound
	}

	var latest chain.EntryWithHeader
	found := false
	for _, headerAddr := range headerAddrs {
		var ewh chain.EntryWithHeader
		ok, err := cs.Get(headerAddr, &ewh)
		if err != nil {
			return nil, err
		}
		if ok && (!found || ewh.Header.Timestamp.After(latest.Header.Timestamp)) {
			latest, found = ewh, true
		}
	}
	if !found {
		return nil, validation.ErrDependencyNotFound
	}
	return &chain.ValidationPackage{ChainHeader: latest.Header}, nil
}

// RequestValidationPackage asks pid for entryAddr's validation package.
func (c *Client) RequestValidationPackage(ctx context.Context, pid peer.ID, entryAddr address.Address) (*chain.ValidationPackage, error) {
	var resp *chain.ValidationPackage
	if err := c.host.Request(ctx, pid, RPCGetValidationPackageTopic, &entryAddr, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// RequestEntryAspects asks pid for every aspect it holds for entryAddr.
func (c *Client) RequestEntryAspects(ctx context.Context, pid peer.ID, entryAddr address.Address) ([]chain.EntryAspect, error) {
	var resp []chain.EntryAspect
	if err := c.host.Request(ctx, pid, RPCFetchEntryDataTopic, &entryAddr, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}
