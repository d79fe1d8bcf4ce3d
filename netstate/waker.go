package netstate

import "sync"

// WakerRegistry holds the wake callbacks of everyone currently polling
// State for a settled result. The reducer calls WakeAll after every
// applied action, mirroring the coarse-grained wake-on-any-mutation
// behavior of the originating future/waker design: a waiter simply
// re-checks its own key and goes back to sleep if it isn't the one that
// settled.
type WakerRegistry struct {
	mu      sync.Mutex
	wakers  map[string]func()
}

// NewWakerRegistry builds an empty registry.
func NewWakerRegistry() *WakerRegistry {
	return &WakerRegistry{wakers: make(map[string]func())}
}

// Register installs wake under id, replacing any previous registration.
func (r *WakerRegistry) Register(id string, wake func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.wakers[id] = wake
}

// Unregister removes id's wake callback, if any.
func (r *WakerRegistry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.wakers, id)
}

// WakeAll invokes every registered wake callback. Callbacks run
// synchronously on the reducer goroutine, so they must not block; a
// resolver's wake is typically a non-blocking channel send or send-once
// semaphore release.
func (r *WakerRegistry) WakeAll() {
	r.mu.Lock()
	wakers := make([]func(), 0, len(r.wakers))
	for _, w := range r.wakers {
		wakers = append(wakers, w)
	}
	r.mu.Unlock()

	for _, w := range wakers {
		w()
	}
}
