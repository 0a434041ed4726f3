package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"warden/internal/biometric/models"
	fingerprintStore "warden/internal/biometric/store/fingerprint"
	photoStore "warden/internal/biometric/store/photo"
	"warden/internal/blob"
	id "warden/pkg/domain"
	dErrors "warden/pkg/domain-errors"
	"warden/pkg/platform/audit"
	auditmemory "warden/pkg/platform/audit/store/memory"
	"warden/pkg/platform/audit/publisher"
	"warden/pkg/requestcontext"
)

type BiometricServiceSuite struct {
	suite.Suite
	photos       *photoStore.InMemoryStore
	fingerprints *fingerprintStore.InMemoryStore
	blobs        *blob.InMemoryStore
	auditStore   *auditmemory.InMemoryStore
	service      *Service
	inmateID     id.InmateID
	officerID    id.OfficerID
}

func TestBiometricServiceSuite(t *testing.T) {
	suite.Run(t, new(BiometricServiceSuite))
}

func (s *BiometricServiceSuite) SetupTest() {
	s.photos = photoStore.New()
	s.fingerprints = fingerprintStore.New()
	s.blobs = blob.NewInMemoryStore()
	s.auditStore = auditmemory.NewInMemoryStore()
	s.service = New(s.photos, s.fingerprints, s.blobs,
		WithAuditPublisher(publisher.NewPublisher(s.auditStore)),
	)
	s.inmateID = id.NewInmateID()
	s.officerID = id.NewOfficerID()
}

// uploadRef stages an object in the blob store the way a capture device
// would, returning the reference a submission should carry.
func (s *BiometricServiceSuite) uploadRef() id.StorageRef {
	_, ref, err := s.blobs.GenerateUploadURL(context.Background())
	s.Require().NoError(err)
	return ref
}

func (s *BiometricServiceSuite) addPhoto(subject id.Subject, primary bool) *models.Photo {
	photo, err := s.service.AddPhoto(context.Background(), AddPhotoParams{
		Subject:    subject,
		PhotoType:  id.PhotoMugshotFront,
		Provider:   id.PhotoProviderInternal,
		StorageRef: s.uploadRef(),
		IsPrimary:  primary,
	})
	s.Require().NoError(err)
	return photo
}

func (s *BiometricServiceSuite) TestAddPhoto() {
	ctx := context.Background()
	subject := id.InmateSubject(s.inmateID)

	s.Run("internal provider requires a storage reference", func() {
		_, err := s.service.AddPhoto(ctx, AddPhotoParams{
			Subject:   subject,
			PhotoType: id.PhotoMugshotFront,
			Provider:  id.PhotoProviderInternal,
		})
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("external provider requires a URL", func() {
		_, err := s.service.AddPhoto(ctx, AddPhotoParams{
			Subject:   subject,
			PhotoType: id.PhotoMugshotFront,
			Provider:  id.PhotoProviderExternalURL,
		})
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("upload provider accepts an inline preview without storage", func() {
		photo, err := s.service.AddPhoto(ctx, AddPhotoParams{
			Subject:       subject,
			PhotoType:     id.PhotoDocument,
			Provider:      id.PhotoProviderUpload,
			Base64Preview: "aGVsbG8=",
		})
		s.NoError(err)
		s.False(photo.IsConfirmed)
		s.NotEmpty(photo.CapturedAt)
	})

	s.Run("confirmation defaults to false", func() {
		photo := s.addPhoto(subject, false)
		s.False(photo.IsConfirmed)
	})

	s.Run("pre-confirmed capture is honored", func() {
		photo, err := s.service.AddPhoto(ctx, AddPhotoParams{
			Subject:       subject,
			PhotoType:     id.PhotoDocument,
			Provider:      id.PhotoProviderUpload,
			Base64Preview: "aGVsbG8=",
			IsConfirmed:   true,
		})
		s.Require().NoError(err)
		s.True(photo.IsConfirmed)

		queue, err := s.service.ListUnconfirmedPhotos(ctx)
		s.Require().NoError(err)
		for _, queued := range queue {
			s.NotEqual(photo.ID, queued.ID)
		}
	})

	s.Run("capture is audited", func() {
		photo := s.addPhoto(subject, false)
		events, err := s.auditStore.ListByInmate(ctx, s.inmateID)
		s.Require().NoError(err)
		s.Require().NotEmpty(events)
		last := events[len(events)-1]
		s.Equal(string(audit.EventPhotoCaptured), last.Action)
		s.Equal(photo.ID.String(), last.SubjectID)
	})
}

func (s *BiometricServiceSuite) TestPrimaryPhotoUniqueness() {
	ctx := context.Background()
	subject := id.InmateSubject(s.inmateID)

	s.Run("claiming primary demotes the previous holder", func() {
		first := s.addPhoto(subject, true)
		second := s.addPhoto(subject, true)

		photos, err := s.service.ListPhotosBySubject(ctx, subject)
		s.Require().NoError(err)
		s.Require().Len(photos, 2)

		var primaries int
		for _, p := range photos {
			if p.IsPrimary {
				primaries++
				s.Equal(second.ID, p.ID)
			}
		}
		s.Equal(1, primaries)

		got, err := s.service.GetPhoto(ctx, first.ID)
		s.Require().NoError(err)
		s.False(got.IsPrimary)
	})

	s.Run("set primary moves the flag across an arbitrary sequence", func() {
		a := s.addPhoto(subject, false)
		b := s.addPhoto(subject, true)

		promoted, err := s.service.SetPrimaryPhoto(ctx, a.ID)
		s.Require().NoError(err)
		s.True(promoted.IsPrimary)

		got, err := s.service.GetPhoto(ctx, b.ID)
		s.Require().NoError(err)
		s.False(got.IsPrimary)

		primary, err := s.service.PrimaryPhoto(ctx, subject)
		s.Require().NoError(err)
		s.Equal(a.ID, primary.ID)
	})

	s.Run("set primary on a missing photo is not found", func() {
		_, err := s.service.SetPrimaryPhoto(ctx, id.NewPhotoID())
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("primaries are scoped per subject", func() {
		otherSubject := id.OfficerSubject(s.officerID)
		mine := s.addPhoto(subject, true)
		theirs := s.addPhoto(otherSubject, true)

		gotMine, err := s.service.GetPhoto(ctx, mine.ID)
		s.Require().NoError(err)
		gotTheirs, err := s.service.GetPhoto(ctx, theirs.ID)
		s.Require().NoError(err)
		s.True(gotMine.IsPrimary)
		s.True(gotTheirs.IsPrimary)
	})
}

func (s *BiometricServiceSuite) TestPrimaryPhotoFallback() {
	ctx := context.Background()
	subject := id.InmateSubject(s.inmateID)

	s.Run("no photos is not found", func() {
		_, err := s.service.PrimaryPhoto(ctx, subject)
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("falls back to the oldest photo when none is marked", func() {
		first := s.addPhoto(subject, false)
		s.addPhoto(subject, false)

		primary, err := s.service.PrimaryPhoto(ctx, subject)
		s.Require().NoError(err)
		s.Equal(first.ID, primary.ID)
	})
}

func (s *BiometricServiceSuite) TestPhotoReview() {
	ctx := context.Background()
	subject := id.InmateSubject(s.inmateID)

	s.Run("confirm stamps the reviewer", func() {
		photo := s.addPhoto(subject, false)

		confirmed, err := s.service.ConfirmPhoto(ctx, photo.ID, s.officerID, "clear capture")
		s.Require().NoError(err)
		s.True(confirmed.IsConfirmed)
		s.Equal(s.officerID, confirmed.ConfirmedByID)
		s.NotEmpty(confirmed.ConfirmedAt)
		s.Equal("clear capture", confirmed.ConfirmNotes)
	})

	s.Run("confirm without a reviewer falls back to the actor", func() {
		photo := s.addPhoto(subject, false)
		actorCtx := requestcontext.WithActorID(ctx, s.officerID)

		confirmed, err := s.service.ConfirmPhoto(actorCtx, photo.ID, id.OfficerID{}, "")
		s.Require().NoError(err)
		s.Equal(s.officerID, confirmed.ConfirmedByID)
	})

	s.Run("confirm with no reviewer at all is rejected", func() {
		photo := s.addPhoto(subject, false)
		_, err := s.service.ConfirmPhoto(ctx, photo.ID, id.OfficerID{}, "")
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("reject defaults notes", func() {
		photo := s.addPhoto(subject, false)

		rejected, err := s.service.RejectPhoto(ctx, photo.ID, "")
		s.Require().NoError(err)
		s.False(rejected.IsConfirmed)
		s.Equal("Rejected", rejected.ConfirmNotes)
	})

	s.Run("reject after confirm clears the flag", func() {
		photo := s.addPhoto(subject, false)

		_, err := s.service.ConfirmPhoto(ctx, photo.ID, s.officerID, "")
		s.Require().NoError(err)
		rejected, err := s.service.RejectPhoto(ctx, photo.ID, "blurred")
		s.Require().NoError(err)
		s.False(rejected.IsConfirmed)
		s.Equal("blurred", rejected.ConfirmNotes)
	})

	s.Run("unconfirmed queue excludes confirmed photos", func() {
		pending := s.addPhoto(subject, false)
		confirmed := s.addPhoto(subject, false)
		_, err := s.service.ConfirmPhoto(ctx, confirmed.ID, s.officerID, "")
		s.Require().NoError(err)

		queue, err := s.service.ListUnconfirmedPhotos(ctx)
		s.Require().NoError(err)
		ids := make(map[id.PhotoID]bool, len(queue))
		for _, p := range queue {
			ids[p.ID] = true
		}
		s.True(ids[pending.ID])
		s.False(ids[confirmed.ID])
	})
}

func (s *BiometricServiceSuite) TestDeletePhoto() {
	ctx := context.Background()
	subject := id.InmateSubject(s.inmateID)

	s.Run("delete releases the blob object", func() {
		photo := s.addPhoto(subject, false)
		s.True(s.blobs.Exists(photo.StorageRef))

		s.Require().NoError(s.service.DeletePhoto(ctx, photo.ID))
		s.False(s.blobs.Exists(photo.StorageRef))

		_, err := s.service.GetPhoto(ctx, photo.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("delete without a blob object still removes the row", func() {
		photo, err := s.service.AddPhoto(ctx, AddPhotoParams{
			Subject:     subject,
			PhotoType:   id.PhotoMugshotSide,
			Provider:    id.PhotoProviderExternalURL,
			ExternalURL: "https://records.example.com/p/1.jpg",
		})
		s.Require().NoError(err)
		s.NoError(s.service.DeletePhoto(ctx, photo.ID))
	})

	s.Run("storage failure aborts the delete", func() {
		photo := s.addPhoto(subject, false)

		failing := New(s.photos, s.fingerprints, failingBlobStore{})
		err := failing.DeletePhoto(ctx, photo.ID)
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))

		got, err := s.service.GetPhoto(ctx, photo.ID)
		s.NoError(err)
		s.Equal(photo.StorageRef, got.StorageRef)
	})
}

func (s *BiometricServiceSuite) addFingerprint(subject id.Subject, finger id.Finger, ref id.StorageRef) *models.Fingerprint {
	fingerprint, err := s.service.AddFingerprint(context.Background(), AddFingerprintParams{
		Subject:    subject,
		Finger:     finger,
		Provider:   id.FingerprintProviderInternal,
		StorageRef: ref,
		Quality:    87,
	})
	s.Require().NoError(err)
	return fingerprint
}

func (s *BiometricServiceSuite) TestAddFingerprint() {
	ctx := context.Background()
	subject := id.InmateSubject(s.inmateID)

	s.Run("internal provider requires a storage reference", func() {
		_, err := s.service.AddFingerprint(ctx, AddFingerprintParams{
			Subject:  subject,
			Finger:   id.RightThumb,
			Provider: id.FingerprintProviderInternal,
		})
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("external provider accepts a provider reference alone", func() {
		fingerprint, err := s.service.AddFingerprint(ctx, AddFingerprintParams{
			Subject:      subject,
			Finger:       id.LeftIndex,
			Provider:     id.FingerprintProviderExternal,
			ProviderName: "Suprema",
			ProviderRef:  "SUP-8841",
		})
		s.NoError(err)
		s.False(fingerprint.IsConfirmed)
	})

	s.Run("external provider without template or reference is rejected", func() {
		_, err := s.service.AddFingerprint(ctx, AddFingerprintParams{
			Subject:  subject,
			Finger:   id.LeftMiddle,
			Provider: id.FingerprintProviderExternal,
		})
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("one record per finger slot", func() {
		first := s.addFingerprint(subject, id.RightIndex, s.uploadRef())
		second := s.addFingerprint(subject, id.RightIndex, s.uploadRef())

		s.Equal(first.ID, second.ID)

		all, err := s.service.ListFingerprintsBySubject(ctx, subject)
		s.Require().NoError(err)
		var rightIndexes int
		for _, f := range all {
			if f.Finger == id.RightIndex {
				rightIndexes++
			}
		}
		s.Equal(1, rightIndexes)
	})

	s.Run("same finger on another subject is unaffected", func() {
		mine := s.addFingerprint(subject, id.RightRing, s.uploadRef())
		theirs := s.addFingerprint(id.OfficerSubject(s.officerID), id.RightRing, s.uploadRef())
		s.NotEqual(mine.ID, theirs.ID)
	})
}

func (s *BiometricServiceSuite) TestFingerprintRecapture() {
	ctx := context.Background()
	subject := id.InmateSubject(s.inmateID)

	s.Run("replacement releases the superseded blob object", func() {
		oldRef := s.uploadRef()
		newRef := s.uploadRef()

		s.addFingerprint(subject, id.RightThumb, oldRef)
		replaced := s.addFingerprint(subject, id.RightThumb, newRef)

		s.Equal(newRef, replaced.StorageRef)
		s.False(s.blobs.Exists(oldRef))
		s.True(s.blobs.Exists(newRef))
	})

	s.Run("recapture resets confirmation", func() {
		fingerprint := s.addFingerprint(subject, id.LeftThumb, s.uploadRef())
		_, err := s.service.ConfirmFingerprint(ctx, fingerprint.ID, s.officerID, "")
		s.Require().NoError(err)

		recaptured := s.addFingerprint(subject, id.LeftThumb, s.uploadRef())
		s.False(recaptured.IsConfirmed)
		s.Empty(recaptured.ConfirmedAt)
	})

	s.Run("resubmitting the same blob reference does not release it", func() {
		ref := s.uploadRef()
		s.addFingerprint(subject, id.LeftRing, ref)
		s.addFingerprint(subject, id.LeftRing, ref)
		s.True(s.blobs.Exists(ref))
	})

	s.Run("storage failure aborts the replacement", func() {
		ref := s.uploadRef()
		original := s.addFingerprint(subject, id.LeftLittle, ref)

		failing := New(s.photos, s.fingerprints, failingBlobStore{})
		_, err := failing.AddFingerprint(ctx, AddFingerprintParams{
			Subject:    subject,
			Finger:     id.LeftLittle,
			Provider:   id.FingerprintProviderInternal,
			StorageRef: id.StorageRef("mem://upload/other"),
		})
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))

		kept, err := s.service.FingerprintBySlot(ctx, subject, id.LeftLittle)
		s.Require().NoError(err)
		s.Equal(original.StorageRef, kept.StorageRef)
	})
}

func (s *BiometricServiceSuite) TestFingerprintReview() {
	ctx := context.Background()
	subject := id.InmateSubject(s.inmateID)

	s.Run("confirm and reject round trip", func() {
		fingerprint := s.addFingerprint(subject, id.RightMiddle, s.uploadRef())

		confirmed, err := s.service.ConfirmFingerprint(ctx, fingerprint.ID, s.officerID, "good ridge detail")
		s.Require().NoError(err)
		s.True(confirmed.IsConfirmed)
		s.Equal(s.officerID, confirmed.ConfirmedByID)

		rejected, err := s.service.RejectFingerprint(ctx, fingerprint.ID, "")
		s.Require().NoError(err)
		s.False(rejected.IsConfirmed)
		s.Equal("Rejected", rejected.ConfirmNotes)
	})

	s.Run("review of a missing fingerprint is not found", func() {
		_, err := s.service.ConfirmFingerprint(ctx, id.NewFingerprintID(), s.officerID, "")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *BiometricServiceSuite) TestDeleteFingerprint() {
	ctx := context.Background()
	subject := id.InmateSubject(s.inmateID)

	s.Run("delete releases the blob and frees the slot", func() {
		fingerprint := s.addFingerprint(subject, id.RightLittle, s.uploadRef())

		s.Require().NoError(s.service.DeleteFingerprint(ctx, fingerprint.ID))
		s.False(s.blobs.Exists(fingerprint.StorageRef))

		_, err := s.service.FingerprintBySlot(ctx, subject, id.RightLittle)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

		// Slot is reusable after delete.
		s.addFingerprint(subject, id.RightLittle, s.uploadRef())
	})

	s.Run("delete of a missing fingerprint is not found", func() {
		err := s.service.DeleteFingerprint(ctx, id.NewFingerprintID())
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *BiometricServiceSuite) TestGenerateUploadURL() {
	url, ref, err := s.service.GenerateUploadURL(context.Background())
	s.Require().NoError(err)
	s.NotEmpty(url)
	s.False(ref.IsZero())
	s.True(s.blobs.Exists(ref))
}

// failingBlobStore refuses every release, standing in for an unreachable
// bucket.
type failingBlobStore struct{}

func (failingBlobStore) GenerateUploadURL(context.Context) (string, id.StorageRef, error) {
	return "", "", errors.New("bucket unreachable")
}

func (failingBlobStore) Delete(context.Context, id.StorageRef) error {
	return errors.New("bucket unreachable")
}
