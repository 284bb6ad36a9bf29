package evbus

import (
	"errors"
	"reflect"
)

// ErrNilEvent is the panic value when nil is passed to [*Bus.Post].
var ErrNilEvent = errors.New("BUG: cannot post a nil event")

// InvalidRegistrationError is the panic value
// when a type that can never match a posted event is registered.
type InvalidRegistrationError struct {
	// The rejected type. Nil when a nil [reflect.Type] was given.
	Type reflect.Type
}

func (e InvalidRegistrationError) Error() string {
	if e.Type == nil {
		return "BUG: cannot register a nil type"
	}
	return "BUG: cannot register interface type " + e.Type.String() +
		"; events are matched by exact dynamic type (use ObserveAll instead)"
}
