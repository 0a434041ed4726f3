package service

import (
	"context"
	"time"

	"warden/internal/biometric/models"
	id "warden/pkg/domain"
	dErrors "warden/pkg/domain-errors"
	"warden/pkg/platform/audit"
	"warden/pkg/requestcontext"
)

// AddPhotoParams carries a validated photo submission.
type AddPhotoParams struct {
	Subject   id.Subject
	PhotoType id.PhotoType
	Provider  id.PhotoProvider

	StorageRef    id.StorageRef
	ExternalURL   string
	Base64Preview string

	FileSize     int64
	MimeType     string
	CapturedAt   string
	CapturedByID id.OfficerID
	IsPrimary    bool
	IsConfirmed  bool
}

// AddPhoto appends a photo to the ledger. When the submission claims primary,
// any sibling already marked primary is demoted first so the subject never
// ends up with two.
//
// Errors: CodeInvalidInput for subject or payload violations, CodeInternal on
// store failures.
func (s *Service) AddPhoto(ctx context.Context, params AddPhotoParams) (*models.Photo, error) {
	now := requestcontext.Now(ctx)

	photo, err := models.NewPhoto(id.NewPhotoID(), params.Subject, params.PhotoType, params.Provider, models.NewPhotoParams{
		StorageRef:    params.StorageRef,
		ExternalURL:   params.ExternalURL,
		Base64Preview: params.Base64Preview,
		FileSize:      params.FileSize,
		MimeType:      params.MimeType,
		CapturedAt:    params.CapturedAt,
		CapturedByID:  params.CapturedByID,
		IsPrimary:     params.IsPrimary,
		IsConfirmed:   params.IsConfirmed,
	}, now)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeInvalidInput, dErrors.Message(err))
		}
		return nil, err
	}

	if params.IsPrimary {
		if err := s.demotePrimaries(ctx, params.Subject, now); err != nil {
			return nil, err
		}
	}

	if err := s.photos.Create(ctx, photo); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "photo store failure")
	}

	s.audit(ctx, audit.EventPhotoCaptured, "photo", photo.ID.String(), photo.Subject, "")
	s.metrics.IncrementPhoto(string(photo.Provider))
	return photo, nil
}

// SetPrimaryPhoto promotes one photo to primary and demotes every sibling.
//
// Errors: CodeNotFound when the photo does not exist.
func (s *Service) SetPrimaryPhoto(ctx context.Context, photoID id.PhotoID) (*models.Photo, error) {
	now := requestcontext.Now(ctx)

	photo, err := s.photos.FindByID(ctx, photoID)
	if err != nil {
		return nil, translatePhotoErr(err)
	}

	if err := s.demotePrimaries(ctx, photo.Subject, now); err != nil {
		return nil, err
	}

	photo.SetPrimary(true, now)
	if err := s.photos.Update(ctx, photo); err != nil {
		return nil, translatePhotoErr(err)
	}

	s.audit(ctx, audit.EventPhotoPrimarySet, "photo", photo.ID.String(), photo.Subject, "")
	return photo, nil
}

// demotePrimaries clears the primary flag on every photo of the subject.
func (s *Service) demotePrimaries(ctx context.Context, subject id.Subject, now time.Time) error {
	siblings, err := s.photos.ListBySubject(ctx, subject)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "photo store failure")
	}
	for _, sibling := range siblings {
		if !sibling.IsPrimary {
			continue
		}
		sibling.SetPrimary(false, now)
		if err := s.photos.Update(ctx, sibling); err != nil {
			return translatePhotoErr(err)
		}
	}
	return nil
}

// ConfirmPhoto marks a photo as reviewed and accepted. Confirming twice is
// allowed and refreshes the reviewer stamp.
func (s *Service) ConfirmPhoto(ctx context.Context, photoID id.PhotoID, reviewerID id.OfficerID, notes string) (*models.Photo, error) {
	by, err := reviewer(ctx, reviewerID)
	if err != nil {
		return nil, err
	}

	photo, err := s.photos.FindByID(ctx, photoID)
	if err != nil {
		return nil, translatePhotoErr(err)
	}

	photo.Confirm(by, notes, requestcontext.Now(ctx))
	if err := s.photos.Update(ctx, photo); err != nil {
		return nil, translatePhotoErr(err)
	}

	s.audit(ctx, audit.EventPhotoConfirmed, "photo", photo.ID.String(), photo.Subject, notes)
	s.metrics.IncrementReview("photo", "confirmed")
	return photo, nil
}

// RejectPhoto marks a photo as reviewed and refused. Notes default to
// "Rejected" when the reviewer gives none.
func (s *Service) RejectPhoto(ctx context.Context, photoID id.PhotoID, notes string) (*models.Photo, error) {
	photo, err := s.photos.FindByID(ctx, photoID)
	if err != nil {
		return nil, translatePhotoErr(err)
	}

	photo.Reject(notes, requestcontext.Now(ctx))
	if err := s.photos.Update(ctx, photo); err != nil {
		return nil, translatePhotoErr(err)
	}

	s.audit(ctx, audit.EventPhotoRejected, "photo", photo.ID.String(), photo.Subject, photo.ConfirmNotes)
	s.metrics.IncrementReview("photo", "rejected")
	return photo, nil
}

// DeletePhoto removes a photo, releasing its blob object first. A storage
// failure aborts the delete so the row keeps pointing at a live object.
//
// Errors: CodeNotFound when the photo does not exist, CodeUnavailable when
// blob storage refuses the release.
func (s *Service) DeletePhoto(ctx context.Context, photoID id.PhotoID) error {
	photo, err := s.photos.FindByID(ctx, photoID)
	if err != nil {
		return translatePhotoErr(err)
	}

	if err := s.releaseStorage(ctx, photo.StorageRef); err != nil {
		return err
	}
	if err := s.photos.Delete(ctx, photoID); err != nil {
		return translatePhotoErr(err)
	}

	s.audit(ctx, audit.EventPhotoDeleted, "photo", photoID.String(), photo.Subject, "")
	return nil
}

func (s *Service) GetPhoto(ctx context.Context, photoID id.PhotoID) (*models.Photo, error) {
	photo, err := s.photos.FindByID(ctx, photoID)
	if err != nil {
		return nil, translatePhotoErr(err)
	}
	return photo, nil
}

func (s *Service) ListPhotosBySubject(ctx context.Context, subject id.Subject) ([]*models.Photo, error) {
	photos, err := s.photos.ListBySubject(ctx, subject)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "photo store failure")
	}
	return photos, nil
}

// PrimaryPhoto returns the subject's primary photo, falling back to the
// oldest photo when none is marked.
//
// Errors: CodeNotFound when the subject has no photos at all.
func (s *Service) PrimaryPhoto(ctx context.Context, subject id.Subject) (*models.Photo, error) {
	photos, err := s.photos.ListBySubject(ctx, subject)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "photo store failure")
	}
	if len(photos) == 0 {
		return nil, dErrors.New(dErrors.CodeNotFound, "subject has no photos")
	}
	for _, photo := range photos {
		if photo.IsPrimary {
			return photo, nil
		}
	}
	return photos[0], nil
}

// ListUnconfirmedPhotos returns the review queue, oldest first.
func (s *Service) ListUnconfirmedPhotos(ctx context.Context) ([]*models.Photo, error) {
	photos, err := s.photos.ListUnconfirmed(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "photo store failure")
	}
	return photos, nil
}
