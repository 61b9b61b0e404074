// Package apperr holds the domain error taxonomy shared by the ledger and
// feed services. Controllers map these onto HTTP status codes; nothing in
// here knows about HTTP.
package apperr

import (
	"errors"
	"fmt"
)

// ErrMemberNotFound covers both an empty account lookup and a lookup that
// matched a deleted member.
var ErrMemberNotFound = errors.New("member not found")

// ErrNotFound is the generic missing-document error for posts, expenses etc.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller may not act on the document.
var ErrForbidden = errors.New("forbidden")

// ValidationError rejects bad input before anything is written.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validation builds a ValidationError.
func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// UploadError means a blob upload failed. The write it belonged to must not
// have happened: either the row and its blob both exist, or neither does.
type UploadError struct {
	Filename string
	Err      error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s: %v", e.Filename, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// ConflictError surfaces a transaction that still conflicted after the
// store's built-in retries were exhausted.
type ConflictError struct {
	Op  string
	Err error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: transaction conflict after retries: %v", e.Op, e.Err)
}

func (e *ConflictError) Unwrap() error { return e.Err }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsUpload reports whether err is an UploadError.
func IsUpload(err error) bool {
	var ue *UploadError
	return errors.As(err, &ue)
}
