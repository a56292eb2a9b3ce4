package plumbing

import (
	"errors"
	"fmt"
)

var (
	//ErrStop is used to stop a ForEach function in an Iter
	ErrStop = errors.New("stop iter")
)

// noSuchObject is an error type that occurs when no object with a given object
// ID is available.
type noSuchObject struct {
	oid Hash
}

// Error implements the error.Error() function.
func (e *noSuchObject) Error() string {
	return fmt.Sprintf("snow: no such object: %s", e.oid)
}

// NoSuchObject creates a new error representing a missing object with a given
// object ID.
func NoSuchObject(oid Hash) error {
	return &noSuchObject{oid: oid}
}

// IsNoSuchObject indicates whether an error wraps a noSuchObject.
func IsNoSuchObject(e error) bool {
	var err *noSuchObject
	return errors.As(e, &err)
}

// ExtractNoSuchObject recovers the missing object's fingerprint from an
// error chain that wraps a noSuchObject.
func ExtractNoSuchObject(e error) (Hash, bool) {
	var err *noSuchObject
	if !errors.As(e, &err) {
		return ZeroHash, false
	}
	return err.oid, true
}

// ErrRevNotFound reports a commit-ish walk (e.g. "<ref>~n") that ran past
// the root commit before reaching depth n.
type ErrRevNotFound struct {
	Reason string
}

func (e *ErrRevNotFound) Error() string { return e.Reason }

func NewErrRevNotFound(format string, a ...any) error {
	return &ErrRevNotFound{Reason: fmt.Sprintf(format, a...)}
}

func IsErrRevNotFound(e error) bool {
	var err *ErrRevNotFound
	return errors.As(e, &err)
}
