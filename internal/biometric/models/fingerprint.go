package models

import (
	"time"

	id "warden/pkg/domain"
	dErrors "warden/pkg/domain-errors"
)

// Fingerprint is one capture for a (subject, finger) slot. The provider
// decides which payload must be present:
//
//   - internal: scanned by this system, StorageRef required
//   - external: captured elsewhere, TemplateData or ProviderRef required
//   - upload: client upload, no payload rule
//
// A subject holds at most one record per finger; re-capturing a slot replaces
// the old record and resets its confirmation.
type Fingerprint struct {
	ID      id.FingerprintID `json:"id"`
	Subject id.Subject       `json:"subject"`

	Finger   id.Finger              `json:"finger"`
	Provider id.FingerprintProvider `json:"provider"`

	StorageRef   id.StorageRef `json:"storage_ref,omitempty"`
	TemplateData string        `json:"template_data,omitempty"`

	ProviderName string `json:"provider_name,omitempty"`
	ProviderRef  string `json:"provider_ref,omitempty"`

	Quality      int          `json:"quality,omitempty"`
	CapturedAt   string       `json:"captured_at,omitempty"`
	CapturedByID id.OfficerID `json:"captured_by_id,omitempty"`

	IsConfirmed   bool         `json:"is_confirmed"`
	ConfirmedByID id.OfficerID `json:"confirmed_by_id,omitempty"`
	ConfirmedAt   string       `json:"confirmed_at,omitempty"`
	ConfirmNotes  string       `json:"confirm_notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewFingerprintParams carries the payload fields whose validity depends on
// the provider.
type NewFingerprintParams struct {
	StorageRef   id.StorageRef
	TemplateData string
	ProviderName string
	ProviderRef  string
	Quality      int
	CapturedAt   string
	CapturedByID id.OfficerID
}

// NewFingerprint builds a fingerprint record, enforcing the provider payload
// rules. A fresh record always starts unconfirmed.
func NewFingerprint(fingerprintID id.FingerprintID, subject id.Subject, finger id.Finger, provider id.FingerprintProvider, params NewFingerprintParams, now time.Time) (*Fingerprint, error) {
	if subject.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "fingerprint must reference a subject")
	}
	if !finger.IsValid() {
		return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "invalid finger %q", finger)
	}
	if err := validateFingerprintPayload(provider, params); err != nil {
		return nil, err
	}
	if params.Quality < 0 || params.Quality > 100 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "quality must be between 0 and 100")
	}

	capturedAt := params.CapturedAt
	if capturedAt == "" {
		capturedAt = now.UTC().Format(time.RFC3339)
	}
	return &Fingerprint{
		ID:           fingerprintID,
		Subject:      subject,
		Finger:       finger,
		Provider:     provider,
		StorageRef:   params.StorageRef,
		TemplateData: params.TemplateData,
		ProviderName: params.ProviderName,
		ProviderRef:  params.ProviderRef,
		Quality:      params.Quality,
		CapturedAt:   capturedAt,
		CapturedByID: params.CapturedByID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func validateFingerprintPayload(provider id.FingerprintProvider, params NewFingerprintParams) error {
	switch provider {
	case id.FingerprintProviderInternal:
		if params.StorageRef.IsZero() {
			return dErrors.New(dErrors.CodeInvariantViolation, "storage reference required for internal provider")
		}
	case id.FingerprintProviderExternal:
		if params.TemplateData == "" && params.ProviderRef == "" {
			return dErrors.New(dErrors.CodeInvariantViolation, "template data or provider reference required for external provider")
		}
	case id.FingerprintProviderUpload:
	default:
		return dErrors.Newf(dErrors.CodeInvariantViolation, "invalid fingerprint provider %q", provider)
	}
	return nil
}

// Recapture overwrites the payload in place, keeping the record's identity
// for the slot. Confirmation is reset; a re-captured print must be reviewed
// again.
func (f *Fingerprint) Recapture(provider id.FingerprintProvider, params NewFingerprintParams, now time.Time) error {
	if err := validateFingerprintPayload(provider, params); err != nil {
		return err
	}
	if params.Quality < 0 || params.Quality > 100 {
		return dErrors.New(dErrors.CodeInvariantViolation, "quality must be between 0 and 100")
	}

	capturedAt := params.CapturedAt
	if capturedAt == "" {
		capturedAt = now.UTC().Format(time.RFC3339)
	}
	f.Provider = provider
	f.StorageRef = params.StorageRef
	f.TemplateData = params.TemplateData
	f.ProviderName = params.ProviderName
	f.ProviderRef = params.ProviderRef
	f.Quality = params.Quality
	f.CapturedAt = capturedAt
	f.CapturedByID = params.CapturedByID
	f.IsConfirmed = false
	f.ConfirmedByID = id.OfficerID{}
	f.ConfirmedAt = ""
	f.ConfirmNotes = ""
	f.UpdatedAt = now
	return nil
}

// Confirm marks the fingerprint as verified.
func (f *Fingerprint) Confirm(reviewerID id.OfficerID, notes string, now time.Time) {
	f.IsConfirmed = true
	f.ConfirmedByID = reviewerID
	f.ConfirmedAt = now.UTC().Format(time.RFC3339)
	f.ConfirmNotes = notes
	f.UpdatedAt = now
}

// Reject clears the confirmed flag and records why. Notes default to
// "Rejected" when the reviewer gives none.
func (f *Fingerprint) Reject(notes string, now time.Time) {
	if notes == "" {
		notes = "Rejected"
	}
	f.IsConfirmed = false
	f.ConfirmedAt = now.UTC().Format(time.RFC3339)
	f.ConfirmNotes = notes
	f.UpdatedAt = now
}
