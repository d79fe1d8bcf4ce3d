package netstate

import (
	"context"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "netstate")

// actionChannelBufferSize matches the depth used by the teacher's
// p2p/pubsub subscription channels; large enough that a burst of
// fetch/validation-package actions never blocks a dispatcher.
const actionChannelBufferSize = 256

// EffectHandler performs the network I/O a dispatched action implies —
// sending a GetValidationPackage/GetQuery request, or pushing a
// RespondFetch payload back to a requesting peer. The reducer itself
// never blocks on it; it is invoked in its own goroutine per action.
type EffectHandler func(Action)

// outboundActions names the kinds an EffectHandler is invoked for: the
// ones that require the network layer to do something, as opposed to
// ones that only settle or clear a State slot.
var outboundActions = map[ActionKind]bool{
	ActionGetValidationPackage: true,
	ActionGetQuery:             true,
	ActionRespondFetch:         true,
}

// Reducer is the single goroutine that owns write access to a State: it
// drains ActionWrappers off its channel, applies each to State under a
// write lock, and wakes every registered waiter.
type Reducer struct {
	state   *State
	wakers  *WakerRegistry
	actions chan ActionWrapper
	effect  EffectHandler
}

// NewReducer builds a Reducer over state and wakers. Call Run in its own
// goroutine to start draining the action channel.
func NewReducer(state *State, wakers *WakerRegistry) *Reducer {
	return &Reducer{
		state:   state,
		wakers:  wakers,
		actions: make(chan ActionWrapper, actionChannelBufferSize),
	}
}

// SetEffectHandler registers the network layer's callback for outbound
// actions. Must be called before Run; not safe to change concurrently
// with Dispatch.
func (r *Reducer) SetEffectHandler(h EffectHandler) {
	r.effect = h
}

// Dispatch enqueues an action for the reducer goroutine to apply. It
// never blocks on the reducer's own processing; it can only block if the
// channel buffer is full, which signals a stuck reducer.
func (r *Reducer) Dispatch(a Action) {
	r.actions <- ActionWrapper{Action: a}
}

// Run drains the action channel until ctx is done, applying each action
// to State and waking every registered waiter afterward.
func (r *Reducer) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			log.Debug("reducer context closed, exiting")
			return
		case wrapper := <-r.actions:
			key := r.state.apply(wrapper.Action)
			log.WithFields(logrus.Fields{
				"action": wrapper.Action.Kind,
				"key":    key,
			}).Trace("applied action")
			r.wakers.WakeAll()

			if r.effect != nil && outboundActions[wrapper.Action.Kind] {
				go r.effect(wrapper.Action)
			}
		}
	}
}
