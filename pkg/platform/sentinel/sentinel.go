package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and the blob storage layer
// return these (optionally wrapped) so services can translate them into domain
// errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: record does not exist in the store
// - ErrConflict: a unique index rejected the write (prison number, slot)
// - ErrAlreadyUsed: business key taken during check-then-insert
// - ErrInvalidState: record in wrong state for the requested operation
// - ErrUnavailable: store or blob storage temporarily unreachable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors
// directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrAlreadyUsed  = errors.New("already used")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
