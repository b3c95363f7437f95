package container

import (
	"errors"
	"fmt"
)

var (
	// ErrLookup matches *LookupError.
	ErrLookup = errors.New("container: dependency doesn't exist")
	// ErrUnresolvedGenerator matches *UnresolvedGeneratorError.
	ErrUnresolvedGenerator = errors.New("container: unresolved generator")
	// ErrSpecification matches *SpecificationError.
	ErrSpecification = errors.New("container: malformed specification")
	// ErrKeypath matches *KeypathError.
	ErrKeypath = errors.New("container: keypath not found")
)

// LookupError reports a dependency name that was never extended.
type LookupError struct {
	Name string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("container: %q dependency doesn't exist", e.Name)
}

func (e *LookupError) Is(target error) bool {
	return target == ErrLookup
}

// UnresolvedGeneratorError reports a generated value that is still a mapping
// of callables. It points at a backend/keyword mismatch and is never retried.
type UnresolvedGeneratorError struct {
	Property string
	Keypath  string
	Value    any
}

func (e *UnresolvedGeneratorError) Error() string {
	return fmt.Sprintf("container: cannot resolve value for %q, given: %s", e.Property+": "+e.Keypath, describe(e.Value))
}

func (e *UnresolvedGeneratorError) Is(target error) bool {
	return target == ErrUnresolvedGenerator
}

// SpecificationError reports a keyword value that names no generator.
type SpecificationError struct {
	Property string
	Reason   string
}

func (e *SpecificationError) Error() string {
	return fmt.Sprintf("container: invalid specification for %q: %s", e.Property, e.Reason)
}

func (e *SpecificationError) Is(target error) bool {
	return target == ErrSpecification
}

// KeypathError reports a keypath segment missing from the dependency.
type KeypathError struct {
	Property string
	Keypath  string
	Segment  string
}

func (e *KeypathError) Error() string {
	return fmt.Sprintf("container: %q: keypath %q has no %q", e.Property, e.Keypath, e.Segment)
}

func (e *KeypathError) Is(target error) bool {
	return target == ErrKeypath
}
