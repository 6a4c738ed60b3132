package bridge

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidHandle is returned for operations on Nil. No native call is made.
	ErrInvalidHandle = errors.New("invalid handle")

	// ErrComponentAbsent is returned by property accessors whose component
	// does not exist (or whose entity is gone; the two are not distinguished).
	ErrComponentAbsent = errors.New("component absent")

	// ErrEngineUnavailable wraps every failure to reach the native side.
	ErrEngineUnavailable = errors.New("engine unavailable")

	// ErrUnknownComponent is returned for a type token with no registered schema.
	ErrUnknownComponent = errors.New("unknown component type")

	// ErrUnknownField is returned for a field name or id the schema lacks.
	ErrUnknownField = errors.New("unknown field")

	// ErrFieldKind is returned when a field is accessed as the wrong kind.
	ErrFieldKind = errors.New("field kind mismatch")

	// ErrReadOnlyField is returned when writing a read-only field.
	ErrReadOnlyField = errors.New("read-only field")
)

// SubscriberFailure records one listener failing during dispatch. It is
// written to the diagnostics sink and never propagated to the caller.
type SubscriberFailure struct {
	Target   Handle
	Category Category
	Index    int // position in the dispatch snapshot
	Err      error
}

func (f *SubscriberFailure) Error() string {
	return fmt.Sprintf("%s subscriber %d on %s: %v", f.Category, f.Index, f.Target, f.Err)
}

func (f *SubscriberFailure) Unwrap() error { return f.Err }

// preserved are the bridge errors a native side may return that keep their
// meaning across the boundary.
var preserved = []error{
	ErrComponentAbsent,
	ErrEngineUnavailable,
	ErrUnknownComponent,
	ErrUnknownField,
	ErrReadOnlyField,
}

// nativeErr classifies an error returned by the native side. Bridge
// sentinels keep their meaning; everything else is the engine being
// unreachable for this call.
func nativeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, target := range preserved {
		if errors.Is(err, target) {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return fmt.Errorf("%s: %w: %w", op, ErrEngineUnavailable, err)
}
