//go:build integration

package inmate_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"warden/internal/custody/models"
	"warden/internal/custody/store/inmate"
	id "warden/pkg/domain"
	"warden/pkg/platform/sentinel"
	"warden/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *inmate.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.store = inmate.NewPostgres(s.pg.DB)
}

func (s *PostgresStoreSuite) TearDownSuite() {
	_ = s.pg.DB.Close()
	_ = s.pg.Container.Terminate(context.Background())
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.pg.Truncate(context.Background()))
}

func makeInmate(t *testing.T, prisonNumber string, prisonID id.PrisonID) *models.Inmate {
	t.Helper()
	i, err := models.NewInmate(id.NewInmateID(), prisonNumber, "Okello", "Otim",
		id.GenderMale, id.InmateTypeRemand, "", prisonID,
		"CRB 113/2026", id.NewOffenseID(), "2026-01-15", time.Now().UTC())
	if err != nil {
		t.Fatalf("make inmate: %v", err)
	}
	return i
}

func (s *PostgresStoreSuite) TestCreateAndFind() {
	ctx := context.Background()
	prisonID := id.NewPrisonID()
	created := makeInmate(s.T(), "LUZ/2026/0001", prisonID)

	s.Require().NoError(s.store.CreateIfNumberAvailable(ctx, created))

	found, err := s.store.FindByID(ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(created.PrisonNumber, found.PrisonNumber)
	s.Equal(id.StatusRemand, found.Status)
	s.Equal(prisonID, found.PrisonID)

	byNumber, err := s.store.FindByPrisonNumber(ctx, "luz/2026/0001")
	s.Require().NoError(err)
	s.Equal(created.ID, byNumber.ID)

	_, err = s.store.FindByID(ctx, id.NewInmateID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestPrisonNumberUniqueness() {
	ctx := context.Background()
	prisonID := id.NewPrisonID()

	s.Require().NoError(s.store.CreateIfNumberAvailable(ctx, makeInmate(s.T(), "LUZ/2026/0002", prisonID)))

	// Same number with different case must hit the unique index.
	err := s.store.CreateIfNumberAvailable(ctx, makeInmate(s.T(), "luz/2026/0002", prisonID))
	s.ErrorIs(err, sentinel.ErrAlreadyUsed)
}

func (s *PostgresStoreSuite) TestUpdate() {
	ctx := context.Background()
	created := makeInmate(s.T(), "LUZ/2026/0003", id.NewPrisonID())
	s.Require().NoError(s.store.CreateIfNumberAvailable(ctx, created))

	created.Status = id.StatusAtCourt
	created.CellBlock = "B"
	created.UpdatedAt = time.Now().UTC()
	s.Require().NoError(s.store.Update(ctx, created))

	found, err := s.store.FindByID(ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(id.StatusAtCourt, found.Status)
	s.Equal("B", found.CellBlock)

	ghost := makeInmate(s.T(), "LUZ/2026/9999", id.NewPrisonID())
	s.ErrorIs(s.store.Update(ctx, ghost), sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestCountByStatus() {
	ctx := context.Background()
	prisonID := id.NewPrisonID()
	otherPrison := id.NewPrisonID()

	for i, status := range []id.InmateStatus{id.StatusRemand, id.StatusRemand, id.StatusConvict} {
		inm := makeInmate(s.T(), "LUZ/2026/010"+string(rune('0'+i)), prisonID)
		inm.Status = status
		s.Require().NoError(s.store.CreateIfNumberAvailable(ctx, inm))
	}
	elsewhere := makeInmate(s.T(), "KIT/2026/0001", otherPrison)
	s.Require().NoError(s.store.CreateIfNumberAvailable(ctx, elsewhere))

	counts, err := s.store.CountByStatus(ctx, prisonID)
	s.Require().NoError(err)
	s.Equal(2, counts[id.StatusRemand])
	s.Equal(1, counts[id.StatusConvict])
	s.Len(counts, 2)
}

func (s *PostgresStoreSuite) TestDelete() {
	ctx := context.Background()
	created := makeInmate(s.T(), "LUZ/2026/0004", id.NewPrisonID())
	s.Require().NoError(s.store.CreateIfNumberAvailable(ctx, created))

	s.Require().NoError(s.store.Delete(ctx, created.ID))
	_, err := s.store.FindByID(ctx, created.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)

	s.ErrorIs(s.store.Delete(ctx, created.ID), sentinel.ErrNotFound)
}
