// Package errors provides the error taxonomy shared by the render cache engine
// and its host.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// Kind identifies the category of an error.
type Kind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown Kind = iota
	// KindConfig indicates a mount-time configuration failure, such as a
	// missing host container. Fatal for the mount.
	KindConfig
	// KindDispatch indicates an event addressed to an unknown root or
	// component. Rejected and logged, never fatal.
	KindDispatch
	// KindInvariant indicates a programming error inside the engine.
	KindInvariant
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindDispatch:
		return "dispatch"
	case KindInvariant:
		return "invariant"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

var (
	// ErrContainerNotFound is returned when Mount names a container the host
	// does not provide.
	ErrContainerNotFound = stderrors.New("container not found")
	// ErrUnknownRoot is returned when an event is addressed to a root that is
	// not mounted.
	ErrUnknownRoot = stderrors.New("unknown root")
	// ErrUnknownComponent is returned when an interaction names a component
	// outside the directory.
	ErrUnknownComponent = stderrors.New("unknown component")
	// ErrNotOwner is reported when a counter mutation is delegated to a
	// component that does not own that counter.
	ErrNotOwner = stderrors.New("component does not own counter")
	// ErrFieldKind is reported when a mutation targets a field of the wrong
	// kind (text append on a counter, or the reverse).
	ErrFieldKind = stderrors.New("mutation does not match field kind")
	// ErrBorrowed is reported when shared state is mutably borrowed while
	// another borrow is live.
	ErrBorrowed = stderrors.New("state already borrowed")
	// ErrStaleHandle is reported when an arena handle outlives its slot.
	ErrStaleHandle = stderrors.New("stale state handle")
	// ErrDuplicateChild is reported when two render children share a key.
	ErrDuplicateChild = stderrors.New("duplicate render child")
)

// Error is a structured error carrying the failing operation and its kind.
type Error struct {
	// Op is the operation that failed (e.g., "host.Mount").
	Op string
	// Kind categorizes the error.
	Kind Kind
	// Err is the underlying error.
	Err error
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

// New returns an *Error stamped with the current time.
func New(op string, kind Kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err, Timestamp: time.Now()}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "host.Dispatch").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// Handler receives errors reported by the engine.
type Handler interface {
	// HandleError is called when an error is reported.
	HandleError(err *Error)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
