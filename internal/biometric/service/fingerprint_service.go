package service

import (
	"context"
	"errors"

	"warden/internal/biometric/models"
	id "warden/pkg/domain"
	dErrors "warden/pkg/domain-errors"
	"warden/pkg/platform/audit"
	"warden/pkg/platform/sentinel"
	"warden/pkg/requestcontext"
)

// AddFingerprintParams carries a validated fingerprint capture.
type AddFingerprintParams struct {
	Subject  id.Subject
	Finger   id.Finger
	Provider id.FingerprintProvider

	StorageRef   id.StorageRef
	TemplateData string

	ProviderName string
	ProviderRef  string
	Quality      int
	CapturedAt   string
	CapturedByID id.OfficerID
}

// AddFingerprint records a capture for a (subject, finger) slot. An occupied
// slot is replaced in place: the old blob object is released first when the
// new capture brings a different one, and the replacement starts unconfirmed
// regardless of the old record's review state.
//
// Errors: CodeInvalidInput for subject or payload violations, CodeUnavailable
// when the superseded blob object cannot be released, CodeConflict when a
// concurrent capture claims a vacant slot first.
func (s *Service) AddFingerprint(ctx context.Context, params AddFingerprintParams) (*models.Fingerprint, error) {
	now := requestcontext.Now(ctx)

	capture := models.NewFingerprintParams{
		StorageRef:   params.StorageRef,
		TemplateData: params.TemplateData,
		ProviderName: params.ProviderName,
		ProviderRef:  params.ProviderRef,
		Quality:      params.Quality,
		CapturedAt:   params.CapturedAt,
		CapturedByID: params.CapturedByID,
	}

	existing, err := s.fingerprints.FindBySlot(ctx, params.Subject, params.Finger)
	switch {
	case err == nil:
		// Occupied slot: replace in place.
		if !existing.StorageRef.IsZero() && !params.StorageRef.IsZero() && existing.StorageRef != params.StorageRef {
			if err := s.releaseStorage(ctx, existing.StorageRef); err != nil {
				return nil, err
			}
		}
		if err := existing.Recapture(params.Provider, capture, now); err != nil {
			if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
				return nil, dErrors.New(dErrors.CodeInvalidInput, dErrors.Message(err))
			}
			return nil, err
		}
		if err := s.fingerprints.Update(ctx, existing); err != nil {
			return nil, translateFingerprintErr(err)
		}
		s.audit(ctx, audit.EventFingerprintCaptured, "fingerprint", existing.ID.String(), existing.Subject, "recapture")
		s.metrics.IncrementFingerprint(string(existing.Provider))
		return existing, nil

	case errors.Is(err, sentinel.ErrNotFound):
		// Vacant slot: fresh record.
		fingerprint, err := models.NewFingerprint(id.NewFingerprintID(), params.Subject, params.Finger, params.Provider, capture, now)
		if err != nil {
			if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
				return nil, dErrors.New(dErrors.CodeInvalidInput, dErrors.Message(err))
			}
			return nil, err
		}
		if err := s.fingerprints.Create(ctx, fingerprint); err != nil {
			if errors.Is(err, sentinel.ErrAlreadyUsed) {
				return nil, dErrors.New(dErrors.CodeConflict, "finger slot already captured")
			}
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "fingerprint store failure")
		}
		s.audit(ctx, audit.EventFingerprintCaptured, "fingerprint", fingerprint.ID.String(), fingerprint.Subject, "")
		s.metrics.IncrementFingerprint(string(fingerprint.Provider))
		return fingerprint, nil

	default:
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "fingerprint store failure")
	}
}

// ConfirmFingerprint marks a fingerprint as reviewed and accepted.
func (s *Service) ConfirmFingerprint(ctx context.Context, fingerprintID id.FingerprintID, reviewerID id.OfficerID, notes string) (*models.Fingerprint, error) {
	by, err := reviewer(ctx, reviewerID)
	if err != nil {
		return nil, err
	}

	fingerprint, err := s.fingerprints.FindByID(ctx, fingerprintID)
	if err != nil {
		return nil, translateFingerprintErr(err)
	}

	fingerprint.Confirm(by, notes, requestcontext.Now(ctx))
	if err := s.fingerprints.Update(ctx, fingerprint); err != nil {
		return nil, translateFingerprintErr(err)
	}

	s.audit(ctx, audit.EventFingerprintConfirmed, "fingerprint", fingerprint.ID.String(), fingerprint.Subject, notes)
	s.metrics.IncrementReview("fingerprint", "confirmed")
	return fingerprint, nil
}

// RejectFingerprint marks a fingerprint as reviewed and refused. Notes
// default to "Rejected" when the reviewer gives none.
func (s *Service) RejectFingerprint(ctx context.Context, fingerprintID id.FingerprintID, notes string) (*models.Fingerprint, error) {
	fingerprint, err := s.fingerprints.FindByID(ctx, fingerprintID)
	if err != nil {
		return nil, translateFingerprintErr(err)
	}

	fingerprint.Reject(notes, requestcontext.Now(ctx))
	if err := s.fingerprints.Update(ctx, fingerprint); err != nil {
		return nil, translateFingerprintErr(err)
	}

	s.audit(ctx, audit.EventFingerprintRejected, "fingerprint", fingerprint.ID.String(), fingerprint.Subject, fingerprint.ConfirmNotes)
	s.metrics.IncrementReview("fingerprint", "rejected")
	return fingerprint, nil
}

// DeleteFingerprint removes a capture, releasing its blob object first. A
// storage failure aborts the delete.
//
// Errors: CodeNotFound when the fingerprint does not exist, CodeUnavailable
// when blob storage refuses the release.
func (s *Service) DeleteFingerprint(ctx context.Context, fingerprintID id.FingerprintID) error {
	fingerprint, err := s.fingerprints.FindByID(ctx, fingerprintID)
	if err != nil {
		return translateFingerprintErr(err)
	}

	if err := s.releaseStorage(ctx, fingerprint.StorageRef); err != nil {
		return err
	}
	if err := s.fingerprints.Delete(ctx, fingerprintID); err != nil {
		return translateFingerprintErr(err)
	}

	s.audit(ctx, audit.EventFingerprintDeleted, "fingerprint", fingerprintID.String(), fingerprint.Subject, "")
	return nil
}

func (s *Service) GetFingerprint(ctx context.Context, fingerprintID id.FingerprintID) (*models.Fingerprint, error) {
	fingerprint, err := s.fingerprints.FindByID(ctx, fingerprintID)
	if err != nil {
		return nil, translateFingerprintErr(err)
	}
	return fingerprint, nil
}

// FingerprintBySlot returns the capture occupying one (subject, finger) slot.
func (s *Service) FingerprintBySlot(ctx context.Context, subject id.Subject, finger id.Finger) (*models.Fingerprint, error) {
	if !finger.IsValid() {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "invalid finger %q", finger)
	}
	fingerprint, err := s.fingerprints.FindBySlot(ctx, subject, finger)
	if err != nil {
		return nil, translateFingerprintErr(err)
	}
	return fingerprint, nil
}

func (s *Service) ListFingerprintsBySubject(ctx context.Context, subject id.Subject) ([]*models.Fingerprint, error) {
	fingerprints, err := s.fingerprints.ListBySubject(ctx, subject)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "fingerprint store failure")
	}
	return fingerprints, nil
}

// ListUnconfirmedFingerprints returns the review queue.
func (s *Service) ListUnconfirmedFingerprints(ctx context.Context) ([]*models.Fingerprint, error) {
	fingerprints, err := s.fingerprints.ListUnconfirmed(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "fingerprint store failure")
	}
	return fingerprints, nil
}
