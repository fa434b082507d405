// Package errors defines the domain errors for catalog loading and merging.
package errors

import (
	"errors"
	"fmt"
)

// UnsupportedFormatError is returned when a loader is given a format tag
// it does not recognize.
type UnsupportedFormatError struct {
	Format string
}

func NewUnsupportedFormatError(format string) *UnsupportedFormatError {
	return &UnsupportedFormatError{Format: format}
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file format: %q", e.Format)
}

// IsUnsupportedFormat reports whether err is an UnsupportedFormatError.
func IsUnsupportedFormat(err error) bool {
	var target *UnsupportedFormatError
	return errors.As(err, &target)
}

// MissingKeyError is returned when a declared source key is absent from a
// record. The whole load aborts; there is no partial-success mode.
type MissingKeyError struct {
	Key   string
	Index int // zero-based record index in the source file
}

func NewMissingKeyError(key string, index int) *MissingKeyError {
	return &MissingKeyError{Key: key, Index: index}
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("record %d: missing source key %q", e.Index, e.Key)
}

// IsMissingKey reports whether err is a MissingKeyError.
func IsMissingKey(err error) bool {
	var target *MissingKeyError
	return errors.As(err, &target)
}

// IdentityMismatchError is returned when a merge is attempted between two
// records with different identities. The caller is expected to only merge
// records that share an entity id.
type IdentityMismatchError struct {
	A string
	B string
}

func NewIdentityMismatchError(a, b string) *IdentityMismatchError {
	return &IdentityMismatchError{A: a, B: b}
}

func (e *IdentityMismatchError) Error() string {
	return fmt.Sprintf("cannot merge ingredients with different identities: %q != %q", e.A, e.B)
}

// IsIdentityMismatch reports whether err is an IdentityMismatchError.
func IsIdentityMismatch(err error) bool {
	var target *IdentityMismatchError
	return errors.As(err, &target)
}
