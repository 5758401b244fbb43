package querycache

import (
	"errors"
	"fmt"
)

// ErrMissingScope is matched by every MissingScopeError.
var ErrMissingScope = errors.New("querycache: missing scope")

// MissingScopeError is returned when an operation is invoked before its scope
// (store, category, product, user or slug) is known. No cache access or
// network call happens in that case.
type MissingScopeError struct {
	Operation string
	Scope     string
}

func (e *MissingScopeError) Error() string {
	return fmt.Sprintf("querycache: %s requires a %s", e.Operation, e.Scope)
}

func (e *MissingScopeError) Is(target error) bool {
	return target == ErrMissingScope
}
