package registry

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned when a stable type key cannot be derived
	// or a required argument is missing.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrObjectDisposed is returned by Pause/Resume on a disposed Handle.
	ErrObjectDisposed = errors.New("object disposed")
)

// invalidArgumentError carries which argument was rejected.
type invalidArgumentError struct {
	arg    string
	reason string
}

func (e *invalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %s: %s", e.arg, e.reason)
}

func (e *invalidArgumentError) Is(target error) bool { return target == ErrInvalidArgument }

func invalidArgument(arg, reason string) error {
	return &invalidArgumentError{arg: arg, reason: reason}
}

// objectDisposedError names the disposed listener.
type objectDisposedError struct {
	id  ListenerID
	key TypeKey
}

func (e *objectDisposedError) Error() string {
	return fmt.Sprintf("listener %d on %s: object disposed", e.id, e.key)
}

func (e *objectDisposedError) Is(target error) bool { return target == ErrObjectDisposed }

// ObserverPanic wraps a value recovered from a panicking listener callback.
// It is delivered to the listener's exception callback like any returned error.
type ObserverPanic struct {
	Key   TypeKey
	Kind  string
	Value any
}

func (e *ObserverPanic) Error() string {
	return fmt.Sprintf("%s observer for %s panicked: %v", e.Kind, e.Key, e.Value)
}

// Unwrap exposes the panic value when it was itself an error.
func (e *ObserverPanic) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// IsInvalidArgument reports whether err indicates an underivable type key or
// a missing required argument.
func IsInvalidArgument(err error) bool { return errors.Is(err, ErrInvalidArgument) }

// IsObjectDisposed reports whether err came from using a disposed Handle.
func IsObjectDisposed(err error) bool { return errors.Is(err, ErrObjectDisposed) }
