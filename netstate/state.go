package netstate

import (
	"sync"

	"github.com/entryhold/node/address"
	"github.com/entryhold/node/chain"
)

// PackageResult is the settled (possibly failed) outcome of a
// GetValidationPackage action.
type PackageResult struct {
	Package *chain.ValidationPackage
	Err     error
}

// QueryResult is the settled (possibly failed) outcome of a GetQuery
// action.
type QueryResult struct {
	Result interface{}
	Err    error
}

// State is the composite, lock-guarded network substate: the table of
// in-flight and settled validation-package/query results, and the set
// of open direct-message connections. Every field is read through the
// accessor methods below. Build one with New, which allocates the
// tables; the zero value has nil maps and is not usable.
type State struct {
	mu sync.RWMutex

	initialized bool

	getValidationPackageResults map[chain.ValidationKey]*PackageResult
	getQueryResults             map[QueryKey]*QueryResult
	directMessageConnections    map[address.Address]struct{}
}

// New builds an uninitialized State. Init must be called once the
// network layer has completed its own startup before any resolver
// future is allowed to proceed.
func New() *State {
	return &State{
		getValidationPackageResults: make(map[chain.ValidationKey]*PackageResult),
		getQueryResults:             make(map[QueryKey]*QueryResult),
		directMessageConnections:    make(map[address.Address]struct{}),
	}
}

// Init marks the network substate as ready. Mirrors the Rust
// `state.initialized()` check that every GetValidationPackageFuture
// poll performs before consulting the results table.
func (s *State) Init() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialized = true
}

// Initialized reports whether Init has been called.
func (s *State) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

// ValidationPackageResult returns the settled result for key, if any.
func (s *State) ValidationPackageResult(key chain.ValidationKey) (*PackageResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.getValidationPackageResults[key]
	return r, ok
}

// QueryResultFor returns the settled result for key, if any.
func (s *State) QueryResultFor(key QueryKey) (*QueryResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.getQueryResults[key]
	return r, ok
}

// DirectMessageConnected reports whether peer has an open
// direct-message connection.
func (s *State) DirectMessageConnected(peer address.Address) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.directMessageConnections[peer]
	return ok
}

// PendingValidationPackageKeys returns every ValidationKey currently
// tracked (in flight or settled but not yet cleared), for diagnostic
// snapshots and tests. The returned slice is a copy.
func (s *State) PendingValidationPackageKeys() []chain.ValidationKey {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]chain.ValidationKey, 0, len(s.getValidationPackageResults))
	for k := range s.getValidationPackageResults {
		out = append(out, k)
	}
	return out
}

// PendingQueryKeys returns every QueryKey currently tracked (in flight
// or settled but not yet cleared), for diagnostic snapshots. The
// returned slice is a copy.
func (s *State) PendingQueryKeys() []QueryKey {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]QueryKey, 0, len(s.getQueryResults))
	for k := range s.getQueryResults {
		out = append(out, k)
	}
	return out
}

func (s *State) apply(a Action) (affectedKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch a.Kind {
	case ActionGetValidationPackage:
		p := a.Data.(GetValidationPackagePayload)
		s.getValidationPackageResults[p.Key] = nil
		return p.Key.String()

	case ActionSetValidationPackageResult:
		p := a.Data.(ValidationPackageResultPayload)
		s.getValidationPackageResults[p.Key] = &PackageResult{Package: p.Package, Err: p.Err}
		return p.Key.String()

	case ActionClearValidationPackageResult:
		p := a.Data.(ClearValidationPackageResultPayload)
		delete(s.getValidationPackageResults, p.Key)
		return p.Key.String()

	case ActionGetQuery:
		p := a.Data.(GetQueryPayload)
		s.getQueryResults[p.Key] = nil
		return p.Key.Subject.String()

	case ActionSetQueryResult:
		p := a.Data.(QueryResultPayload)
		s.getQueryResults[p.Key] = &QueryResult{Result: p.Result, Err: p.Err}
		return p.Key.Subject.String()

	case ActionClearQueryResult:
		p := a.Data.(ClearQueryResultPayload)
		delete(s.getQueryResults, p.Key)
		return p.Key.Subject.String()

	case ActionConnectDirectMessage:
		p := a.Data.(DirectMessagePayload)
		s.directMessageConnections[p.Peer] = struct{}{}
		return p.Peer.String()

	case ActionCloseDirectMessage:
		p := a.Data.(DirectMessagePayload)
		delete(s.directMessageConnections, p.Peer)
		return p.Peer.String()

	case ActionRespondFetch:
		// RespondFetch has no settled-state slot of its own: it is
		// handed straight to the network layer by the reducer's
		// EffectHandler. Nothing to mutate here.
		p := a.Data.(RespondFetchPayload)
		return p.EntryAddress.String()

	default:
		return ""
	}
}
