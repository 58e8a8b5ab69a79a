package splinter

import (
	"errors"
	"fmt"
)

// ErrNoBinding is wrapped by failures raised when a key cannot be resolved
var ErrNoBinding = errors.New("no binding")

// ErrNoMemberInjector is returned by Inject for types without a generated member injector
var ErrNoMemberInjector = errors.New("no member injector registered")

// InjectionFailure is the single failure kind raised by generated code and the scope
// tree. It is used as a panic value and wraps the original cause.
type InjectionFailure struct {
	Message string
	Cause   error
}

// NewInjectionFailure creates a failure wrapping cause
func NewInjectionFailure(message string, cause error) *InjectionFailure {
	return &InjectionFailure{Message: message, Cause: cause}
}

// Error implements the error interface
func (f *InjectionFailure) Error() string {
	if f.Cause == nil {
		return f.Message
	}
	return fmt.Sprintf("%s: %v", f.Message, f.Cause)
}

// Unwrap returns the underlying cause
func (f *InjectionFailure) Unwrap() error {
	return f.Cause
}

// Capture runs fn and converts an InjectionFailure panic into an error.
// Any other panic is propagated.
func Capture(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			failure, ok := r.(*InjectionFailure)
			if !ok {
				panic(r)
			}
			err = failure
		}
	}()
	fn()
	return nil
}
