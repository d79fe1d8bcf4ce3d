// Package sandbox hosts the application-defined validation callbacks
// invoked during entry validation, keyed by entry type.
package sandbox

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/entryhold/node/chain"
)

var log = logrus.WithField("prefix", "sandbox")

// ErrNotImplemented is returned by CallValidationCallback when no
// Callback is registered for the entry's type.
var ErrNotImplemented = errors.New("sandbox: no validation callback registered for entry type")

// Callback is an application-defined validator: given the prepared
// validation data for the entry (including its predecessor, for a
// modify or delete), it returns nil if the entry is valid, or an error
// describing why it is not.
type Callback func(data chain.EntryValidationData) error

// TypeKey identifies a registered callback. AppName distinguishes
// among EntryApp entries of different application-defined types; it is
// ignored for every other EntryType.
type TypeKey struct {
	Type    chain.EntryType
	AppName string
}

func keyFor(entry chain.Entry) TypeKey {
	if entry.Type == chain.EntryApp {
		return TypeKey{Type: chain.EntryApp, AppName: entry.AppType}
	}
	return TypeKey{Type: entry.Type}
}

// Sandbox dispatches an EntryValidationData to the application callback
// registered for the entry's type.
type Sandbox interface {
	CallValidationCallback(data chain.EntryValidationData) error
}

// Registry is the default, map-backed Sandbox.
type Registry struct {
	callbacks map[TypeKey]Callback
}

// NewRegistry builds an empty Registry.
func NewRegistry() *Registry {
	return &Registry{callbacks: make(map[TypeKey]Callback)}
}

// Register installs cb for the given entry type. A second Register for
// the same TypeKey replaces the first.
func (r *Registry) Register(key TypeKey, cb Callback) {
	r.callbacks[key] = cb
}

// CallValidationCallback looks up the callback for data.NewEntry.Type
// (and, for EntryApp, its AppType) and invokes it. An unregistered type
// reports ErrNotImplemented, which the validation dispatcher escalates
// per its own error taxonomy.
func (r *Registry) CallValidationCallback(data chain.EntryValidationData) error {
	cb, ok := r.callbacks[keyFor(data.NewEntry)]
	if !ok {
		log.WithField("entry_type", data.NewEntry.Type).Debug("no callback registered")
		return ErrNotImplemented
	}
	return cb(data)
}
