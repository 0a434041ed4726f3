package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"warden/internal/registry/models"
	courtStore "warden/internal/registry/store/court"
	offenseStore "warden/internal/registry/store/offense"
	officerStore "warden/internal/registry/store/officer"
	prisonStore "warden/internal/registry/store/prison"
	id "warden/pkg/domain"
	dErrors "warden/pkg/domain-errors"
)

type RegistryServiceSuite struct {
	suite.Suite
	prisons  *prisonStore.InMemoryStore
	officers *officerStore.InMemoryStore
	service  *Service
}

func TestRegistryServiceSuite(t *testing.T) {
	suite.Run(t, new(RegistryServiceSuite))
}

func (s *RegistryServiceSuite) SetupTest() {
	s.prisons = prisonStore.New()
	s.officers = officerStore.New()
	s.service = New(s.prisons, s.officers, courtStore.New(), offenseStore.New())
}

func (s *RegistryServiceSuite) createPrison(code string) *models.Prison {
	p, err := s.service.CreatePrison(context.Background(), CreatePrisonParams{
		Name: "Luzira Upper",
		Code: code,
		Type: models.PrisonMain,
	})
	s.Require().NoError(err)
	return p
}

func (s *RegistryServiceSuite) TestCreatePrison() {
	ctx := context.Background()

	s.Run("creates with defaults", func() {
		p := s.createPrison("LUZ")
		s.Equal("LUZ", p.Code)
		s.True(p.IsActive)
		s.False(p.ID.IsNil())
	})

	s.Run("duplicate code conflicts", func() {
		s.createPrison("KIT")
		_, err := s.service.CreatePrison(ctx, CreatePrisonParams{
			Name: "Kitalya Annex",
			Code: "KIT",
			Type: models.PrisonFarm,
		})
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("duplicate code check is case-insensitive", func() {
		s.createPrison("GUL")
		_, err := s.service.CreatePrison(ctx, CreatePrisonParams{
			Name: "Gulu Main",
			Code: "gul",
			Type: models.PrisonMain,
		})
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("first record unaffected by rejected duplicate", func() {
		first := s.createPrison("MBR")
		_, err := s.service.CreatePrison(ctx, CreatePrisonParams{
			Name: "Mbarara Remand",
			Code: "MBR",
			Type: models.PrisonRemand,
		})
		s.Error(err)

		got, err := s.service.GetPrison(ctx, first.ID)
		s.NoError(err)
		s.Equal(first.Name, got.Name)
	})

	s.Run("empty name rejected", func() {
		_, err := s.service.CreatePrison(ctx, CreatePrisonParams{Code: "X", Type: models.PrisonMain})
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func (s *RegistryServiceSuite) TestCreateOfficer() {
	ctx := context.Background()
	prison := s.createPrison("LUZ")

	s.Run("creates under existing prison", func() {
		o, err := s.service.CreateOfficer(ctx, CreateOfficerParams{
			PrisonID:    prison.ID,
			Name:        "J. Okello",
			BadgeNumber: "UPS-0001",
			Rank:        "Sergeant",
		})
		s.NoError(err)
		s.Equal(prison.ID, o.PrisonID)
		s.True(o.IsActive)
	})

	s.Run("duplicate badge conflicts", func() {
		_, err := s.service.CreateOfficer(ctx, CreateOfficerParams{
			PrisonID:    prison.ID,
			Name:        "A. Namara",
			BadgeNumber: "UPS-0002",
		})
		s.Require().NoError(err)

		_, err = s.service.CreateOfficer(ctx, CreateOfficerParams{
			PrisonID:    prison.ID,
			Name:        "B. Tumusiime",
			BadgeNumber: "UPS-0002",
		})
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("unknown prison rejected", func() {
		_, err := s.service.CreateOfficer(ctx, CreateOfficerParams{
			PrisonID:    id.NewPrisonID(),
			Name:        "C. Oyet",
			BadgeNumber: "UPS-0003",
		})
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *RegistryServiceSuite) TestCourtAndOffenseLookups() {
	ctx := context.Background()

	s.Run("court round trip", func() {
		c, err := s.service.CreateCourt(ctx, CreateCourtParams{
			Name: "Buganda Road Court",
			Type: models.CourtMagistrate,
		})
		s.Require().NoError(err)

		got, err := s.service.GetCourt(ctx, c.ID)
		s.NoError(err)
		s.Equal(models.CourtMagistrate, got.Type)
	})

	s.Run("offense round trip", func() {
		o, err := s.service.CreateOffense(ctx, CreateOffenseParams{
			Name:     "Aggravated Robbery",
			Category: models.OffenseCapital,
		})
		s.Require().NoError(err)

		got, err := s.service.GetOffense(ctx, o.ID)
		s.NoError(err)
		s.Equal(models.OffenseCapital, got.Category)
	})

	s.Run("missing court is not found", func() {
		_, err := s.service.GetCourt(ctx, id.NewCourtID())
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}
