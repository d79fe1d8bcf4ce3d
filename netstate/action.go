// Package netstate re-architects the network-action/waker pattern used
// to bridge async dependency resolution (fetching a validation package
// or a query result from a remote peer) into synchronous-looking calls:
// an action channel feeds a single reducer goroutine, which mutates a
// lock-guarded State and wakes whoever is waiting on the affected key.
package netstate

import (
	"github.com/entryhold/node/address"
	"github.com/entryhold/node/chain"
)

// ActionKind is the closed set of actions the reducer understands.
type ActionKind int

const (
	ActionGetValidationPackage ActionKind = iota
	ActionSetValidationPackageResult
	ActionClearValidationPackageResult
	ActionRespondFetch
	ActionGetQuery
	ActionSetQueryResult
	ActionClearQueryResult
	ActionConnectDirectMessage
	ActionCloseDirectMessage
)

func (k ActionKind) String() string {
	switch k {
	case ActionGetValidationPackage:
		return "get_validation_package"
	case ActionSetValidationPackageResult:
		return "set_validation_package_result"
	case ActionClearValidationPackageResult:
		return "clear_validation_package_result"
	case ActionRespondFetch:
		return "respond_fetch"
	case ActionGetQuery:
		return "get_query"
	case ActionSetQueryResult:
		return "set_query_result"
	case ActionClearQueryResult:
		return "clear_query_result"
	case ActionConnectDirectMessage:
		return "connect_direct_message"
	case ActionCloseDirectMessage:
		return "close_direct_message"
	default:
		return "unknown"
	}
}

// Action is a single state transition request. Data holds the
// kind-specific payload; see the *Payload types below.
type Action struct {
	Kind ActionKind
	Data interface{}
}

// ActionWrapper is the unit dispatched on the reducer's action channel.
// It exists as its own type, rather than a bare Action, so the reducer
// loop and its tests read the same as the rest of the action-dispatch
// vocabulary in this codebase.
type ActionWrapper struct {
	Action Action
}

// GetValidationPackagePayload requests that the network layer fetch the
// validation package for the entry named by Header from its source.
type GetValidationPackagePayload struct {
	Key    chain.ValidationKey
	Header chain.ChainHeader
}

// ValidationPackageResultPayload delivers (or fails to deliver) the
// package requested under Key. Package is nil with a nil Err when the
// source responded that it is not the entry's source.
type ValidationPackageResultPayload struct {
	Key     chain.ValidationKey
	Package *chain.ValidationPackage
	Err     error
}

// ClearValidationPackageResultPayload removes a settled result from
// State once its waiter has consumed it.
type ClearValidationPackageResultPayload struct {
	Key chain.ValidationKey
}

// RespondFetchPayload carries the aspects assembled by a fetch handler
// back out over the network to the requesting peer.
type RespondFetchPayload struct {
	EntryAddress address.Address
	Aspects      []chain.EntryAspect
	Err          error
}

// QueryKey identifies an in-flight remote query, mirroring
// chain.ValidationKey's address+request-id shape for a non-entry query.
type QueryKey struct {
	Subject   address.Address
	RequestID string
}

// GetQueryPayload requests a query be dispatched to the network.
type GetQueryPayload struct {
	Key     QueryKey
	Request interface{}
}

// QueryResultPayload delivers the result of a previously dispatched
// query.
type QueryResultPayload struct {
	Key    QueryKey
	Result interface{}
	Err    error
}

// ClearQueryResultPayload removes a settled query result from State.
type ClearQueryResultPayload struct {
	Key QueryKey
}

// DirectMessagePayload opens or closes a direct-message connection
// tracked in State.DirectMessageConnections.
type DirectMessagePayload struct {
	Peer address.Address
}
