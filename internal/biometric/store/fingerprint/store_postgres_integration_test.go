//go:build integration

package fingerprint_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"warden/internal/biometric/models"
	"warden/internal/biometric/store/fingerprint"
	id "warden/pkg/domain"
	"warden/pkg/platform/sentinel"
	"warden/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *fingerprint.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.store = fingerprint.NewPostgres(s.pg.DB)
}

func (s *PostgresStoreSuite) TearDownSuite() {
	_ = s.pg.DB.Close()
	_ = s.pg.Container.Terminate(context.Background())
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.pg.Truncate(context.Background()))
}

func makeFingerprint(t *testing.T, subject id.Subject, finger id.Finger) *models.Fingerprint {
	t.Helper()
	f, err := models.NewFingerprint(id.NewFingerprintID(), subject, finger,
		id.FingerprintProviderExternal,
		models.NewFingerprintParams{TemplateData: "dGVtcGxhdGU=", Quality: 80},
		time.Now().UTC())
	if err != nil {
		t.Fatalf("make fingerprint: %v", err)
	}
	return f
}

func (s *PostgresStoreSuite) TestCreateAndFindBySlot() {
	ctx := context.Background()
	subject := id.InmateSubject(id.NewInmateID())
	created := makeFingerprint(s.T(), subject, id.RightThumb)

	s.Require().NoError(s.store.Create(ctx, created))

	found, err := s.store.FindBySlot(ctx, subject, id.RightThumb)
	s.Require().NoError(err)
	s.Equal(created.ID, found.ID)
	s.Equal(subject, found.Subject)
	s.Equal("dGVtcGxhdGU=", found.TemplateData)

	_, err = s.store.FindBySlot(ctx, subject, id.RightIndex)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestSlotUniqueIndex() {
	ctx := context.Background()
	subject := id.InmateSubject(id.NewInmateID())

	s.Require().NoError(s.store.Create(ctx, makeFingerprint(s.T(), subject, id.RightThumb)))

	// Second row for the same slot must hit the partial unique index.
	err := s.store.Create(ctx, makeFingerprint(s.T(), subject, id.RightThumb))
	s.ErrorIs(err, sentinel.ErrAlreadyUsed)

	// Same finger for a different subject is a different slot.
	s.NoError(s.store.Create(ctx, makeFingerprint(s.T(), id.InmateSubject(id.NewInmateID()), id.RightThumb)))

	// Officer slots live under the officer column's index.
	officer := id.OfficerSubject(id.NewOfficerID())
	s.NoError(s.store.Create(ctx, makeFingerprint(s.T(), officer, id.RightThumb)))
	err = s.store.Create(ctx, makeFingerprint(s.T(), officer, id.RightThumb))
	s.ErrorIs(err, sentinel.ErrAlreadyUsed)
}

func (s *PostgresStoreSuite) TestUpdateReplacesCapture() {
	ctx := context.Background()
	subject := id.InmateSubject(id.NewInmateID())
	created := makeFingerprint(s.T(), subject, id.RightThumb)

	s.Require().NoError(s.store.Create(ctx, created))

	stored, err := s.store.FindBySlot(ctx, subject, id.RightThumb)
	s.Require().NoError(err)
	stored.Confirm(id.NewOfficerID(), "clear ridges", time.Now().UTC())
	s.Require().NoError(stored.Recapture(id.FingerprintProviderExternal,
		models.NewFingerprintParams{TemplateData: "cmVjYXB0dXJl", Quality: 95},
		time.Now().UTC()))

	s.Require().NoError(s.store.Update(ctx, stored))

	found, err := s.store.FindByID(ctx, stored.ID)
	s.Require().NoError(err)
	s.Equal("cmVjYXB0dXJl", found.TemplateData)
	s.Equal(95, found.Quality)
	s.False(found.IsConfirmed)
	s.WithinDuration(created.CreatedAt, found.CreatedAt, time.Microsecond)

	ghost := makeFingerprint(s.T(), id.InmateSubject(id.NewInmateID()), id.RightThumb)
	s.ErrorIs(s.store.Update(ctx, ghost), sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestListBySubject() {
	ctx := context.Background()
	subject := id.InmateSubject(id.NewInmateID())

	s.Require().NoError(s.store.Create(ctx, makeFingerprint(s.T(), subject, id.RightIndex)))
	s.Require().NoError(s.store.Create(ctx, makeFingerprint(s.T(), subject, id.RightThumb)))
	s.Require().NoError(s.store.Create(ctx, makeFingerprint(s.T(), id.InmateSubject(id.NewInmateID()), id.RightThumb)))

	prints, err := s.store.ListBySubject(ctx, subject)
	s.Require().NoError(err)
	s.Require().Len(prints, 2)
	for _, p := range prints {
		s.Equal(subject, p.Subject)
	}
}

func (s *PostgresStoreSuite) TestDeleteFreesSlot() {
	ctx := context.Background()
	subject := id.InmateSubject(id.NewInmateID())
	created := makeFingerprint(s.T(), subject, id.RightThumb)

	s.Require().NoError(s.store.Create(ctx, created))
	s.Require().NoError(s.store.Delete(ctx, created.ID))

	_, err := s.store.FindBySlot(ctx, subject, id.RightThumb)
	s.ErrorIs(err, sentinel.ErrNotFound)

	s.NoError(s.store.Create(ctx, makeFingerprint(s.T(), subject, id.RightThumb)))
}
