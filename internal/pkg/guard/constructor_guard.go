// Package guard provides a defensive construction pattern for value objects,
// commands, and queries. Embedding a ConstructorGuard lets a type detect
// whether it was created through its designated constructor or left as a
// zero value, so validation can reject improperly built instances.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific
// validation error is supplied and the object was not constructed properly.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks an object as having been created through its
// constructor. The zero value fails validation; NewConstructorGuard passes.
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard that marks the enclosing object as
// properly constructed. Call it inside the object's constructor.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil if the object was built through its constructor.
// Otherwise it returns validationError, or ErrDefaultConstructorGuard when
// validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
