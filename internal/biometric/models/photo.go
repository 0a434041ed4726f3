package models

import (
	"time"

	id "warden/pkg/domain"
	dErrors "warden/pkg/domain-errors"
)

// Photo is one entry in the photo ledger. The provider decides which payload
// field must be present:
//
//   - internal: captured by this system, StorageRef required
//   - external_url: hosted elsewhere, ExternalURL required
//   - upload: client upload, StorageRef or an inline Base64Preview required
//
// A subject may hold many photos; at most one of them is primary.
type Photo struct {
	ID      id.PhotoID `json:"id"`
	Subject id.Subject `json:"subject"`

	PhotoType id.PhotoType     `json:"photo_type"`
	Provider  id.PhotoProvider `json:"provider"`

	StorageRef    id.StorageRef `json:"storage_ref,omitempty"`
	ExternalURL   string        `json:"external_url,omitempty"`
	Base64Preview string        `json:"base64_preview,omitempty"`

	FileSize     int64        `json:"file_size,omitempty"`
	MimeType     string       `json:"mime_type,omitempty"`
	CapturedAt   string       `json:"captured_at,omitempty"`
	CapturedByID id.OfficerID `json:"captured_by_id,omitempty"`
	IsPrimary    bool         `json:"is_primary"`

	IsConfirmed   bool         `json:"is_confirmed"`
	ConfirmedByID id.OfficerID `json:"confirmed_by_id,omitempty"`
	ConfirmedAt   string       `json:"confirmed_at,omitempty"`
	ConfirmNotes  string       `json:"confirm_notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewPhotoParams carries the payload fields whose validity depends on the
// provider.
type NewPhotoParams struct {
	StorageRef    id.StorageRef
	ExternalURL   string
	Base64Preview string
	FileSize      int64
	MimeType      string
	CapturedAt    string
	CapturedByID  id.OfficerID
	IsPrimary     bool
	IsConfirmed   bool
}

// NewPhoto builds a photo record, enforcing the provider payload rules. A
// fresh record starts unconfirmed unless the capture explicitly claims
// confirmation; CapturedAt defaults to the request time when the capture
// device did not report one.
func NewPhoto(photoID id.PhotoID, subject id.Subject, photoType id.PhotoType, provider id.PhotoProvider, params NewPhotoParams, now time.Time) (*Photo, error) {
	if subject.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "photo must reference a subject")
	}
	if err := validatePhotoPayload(provider, params); err != nil {
		return nil, err
	}

	capturedAt := params.CapturedAt
	if capturedAt == "" {
		capturedAt = now.UTC().Format(time.RFC3339)
	}
	return &Photo{
		ID:            photoID,
		Subject:       subject,
		PhotoType:     photoType,
		Provider:      provider,
		StorageRef:    params.StorageRef,
		ExternalURL:   params.ExternalURL,
		Base64Preview: params.Base64Preview,
		FileSize:      params.FileSize,
		MimeType:      params.MimeType,
		CapturedAt:    capturedAt,
		CapturedByID:  params.CapturedByID,
		IsPrimary:     params.IsPrimary,
		IsConfirmed:   params.IsConfirmed,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func validatePhotoPayload(provider id.PhotoProvider, params NewPhotoParams) error {
	switch provider {
	case id.PhotoProviderInternal:
		if params.StorageRef.IsZero() {
			return dErrors.New(dErrors.CodeInvariantViolation, "storage reference required for internal provider")
		}
	case id.PhotoProviderExternalURL:
		if params.ExternalURL == "" {
			return dErrors.New(dErrors.CodeInvariantViolation, "external URL required for external_url provider")
		}
	case id.PhotoProviderUpload:
		if params.StorageRef.IsZero() && params.Base64Preview == "" {
			return dErrors.New(dErrors.CodeInvariantViolation, "storage reference or base64 preview required for upload provider")
		}
	default:
		return dErrors.Newf(dErrors.CodeInvariantViolation, "invalid photo provider %q", provider)
	}
	return nil
}

// Confirm marks the photo as verified. Confirming an already-confirmed photo
// refreshes the reviewer stamp.
func (p *Photo) Confirm(reviewerID id.OfficerID, notes string, now time.Time) {
	p.IsConfirmed = true
	p.ConfirmedByID = reviewerID
	p.ConfirmedAt = now.UTC().Format(time.RFC3339)
	p.ConfirmNotes = notes
	p.UpdatedAt = now
}

// Reject clears the confirmed flag and records why. Notes default to
// "Rejected" when the reviewer gives none.
func (p *Photo) Reject(notes string, now time.Time) {
	if notes == "" {
		notes = "Rejected"
	}
	p.IsConfirmed = false
	p.ConfirmedAt = now.UTC().Format(time.RFC3339)
	p.ConfirmNotes = notes
	p.UpdatedAt = now
}

// SetPrimary flips the primary flag.
func (p *Photo) SetPrimary(primary bool, now time.Time) {
	p.IsPrimary = primary
	p.UpdatedAt = now
}
