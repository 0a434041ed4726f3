// Package blob defines the narrow contract the ledger has with file storage.
//
// The ledger never reads file bytes: callers obtain an upload URL, push bytes
// out-of-band, and hand the returned storage reference to the biometric
// service. Deleting a reference is the only other operation.
package blob

import (
	"context"

	id "warden/pkg/domain"
)

// Store is the blob storage contract.
type Store interface {
	// GenerateUploadURL mints a reference and a URL the caller can PUT bytes
	// to. The reference is valid immediately; whether bytes ever arrive is
	// the caller's problem.
	GenerateUploadURL(ctx context.Context) (url string, ref id.StorageRef, err error)

	// Delete releases the object behind ref. Returns sentinel.ErrNotFound if
	// the reference is unknown, sentinel.ErrUnavailable (wrapped) when the
	// backend cannot be reached.
	Delete(ctx context.Context, ref id.StorageRef) error
}
