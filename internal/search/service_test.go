package search_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"civitas/internal/audit"
	auditmem "civitas/internal/audit/store/memory"
	"civitas/internal/civilian"
	civModel "civitas/internal/civilian/models"
	civmem "civitas/internal/civilian/store/memory"
	"civitas/internal/disclosure"
	"civitas/internal/rules"
	"civitas/internal/search"
	"civitas/pkg/domain"
	dErrors "civitas/pkg/domain-errors"
)

type stubAllocations struct {
	active map[domain.CivilianID]bool
}

func (s *stubAllocations) HasActiveAllocation(_ context.Context, _ string, id domain.CivilianID) (bool, error) {
	return s.active[id], nil
}

type ServiceSuite struct {
	suite.Suite
	svc         *search.Service
	store       *civmem.Store
	allocations *stubAllocations
	auditStore  *auditmem.Store
	authority   domain.Principal
	ctx         context.Context
}

func (s *ServiceSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.store = civmem.New()
	s.allocations = &stubAllocations{active: make(map[domain.CivilianID]bool)}
	s.auditStore = auditmem.New()
	gate := disclosure.NewGate(s.allocations, audit.NewPublisher(s.auditStore, nil, logger), nil, logger)
	s.svc = search.NewService(s.store, gate, rules.Builtin(), nil, logger)
	s.authority = domain.Principal{Subject: "authority-1", Role: domain.RoleAuthority}
	s.ctx = context.Background()
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

type seedOpts struct {
	lat, lon float64
	score    float64
	tags     []string
	freeText string
	status   domain.Availability
}

func (s *ServiceSuite) seed(opts seedOpts) domain.CivilianID {
	id := domain.CivilianID(uuid.New())
	if opts.status == "" {
		opts.status = domain.AvailabilityAvailable
	}
	now := time.Now().UTC()
	dob := time.Date(1985, 2, 3, 0, 0, 0, 0, time.UTC)
	s.Require().NoError(s.store.UpsertUser(s.ctx, civModel.User{
		ID: id, FullName: "Matti Meikäläinen", DateOfBirth: &dob,
		Address: "Aleksanterinkatu 5", Lat: opts.lat, Lon: opts.lon, CreatedAt: now,
	}))
	s.Require().NoError(s.store.UpsertProfile(s.ctx, civModel.Profile{
		CivilianID:     id,
		EducationLevel: "high_school",
		Skills:         []string{"First Aid"},
		FreeText:       opts.freeText,
		Availability:   domain.AvailabilityAvailable,
		Score:          opts.score,
		Tags:           opts.tags,
		Status:         opts.status,
		UpdatedAt:      now,
	}))
	return id
}

func (s *ServiceSuite) TestSearchAnonymizes() {
	id := s.seed(seedOpts{lat: 60.17, lon: 24.94, score: 40, tags: []string{"medical"}})

	result, err := s.svc.Search(s.ctx, search.Params{})
	s.Require().NoError(err)
	s.Require().Len(result.Results, 1)
	row := result.Results[0]

	s.Equal(id, row.CivilianID)
	s.NotEqual(60.17, row.Lat)
	s.InDelta(60.17, row.Lat, 0.01)
	s.InDelta(24.94, row.Lon, 0.01)

	again, err := s.svc.Search(s.ctx, search.Params{})
	s.Require().NoError(err)
	s.Equal(row.Lat, again.Results[0].Lat, "jitter must be stable across searches")
}

func (s *ServiceSuite) TestSearchFilters() {
	inside := s.seed(seedOpts{lat: 60.2, lon: 24.9, score: 60, tags: []string{"medical"}})
	s.seed(seedOpts{lat: 65.0, lon: 25.5, score: 80, tags: []string{"logistics"}})
	s.seed(seedOpts{lat: 60.2, lon: 24.9, score: 20, tags: []string{"medical"}, status: domain.AvailabilityAllocated})

	s.Run("bbox filter", func() {
		result, err := s.svc.Search(s.ctx, search.Params{
			BBox: &civilian.BBox{MinLat: 60, MinLon: 24, MaxLat: 61, MaxLon: 26},
		})
		s.Require().NoError(err)
		s.Require().Len(result.Results, 1)
		s.Equal(inside, result.Results[0].CivilianID)
	})

	s.Run("tag filter", func() {
		result, err := s.svc.Search(s.ctx, search.Params{Tags: []string{"logistics"}})
		s.Require().NoError(err)
		s.Len(result.Results, 1)
	})

	s.Run("min score filter", func() {
		minScore := 70.0
		result, err := s.svc.Search(s.ctx, search.Params{MinScore: &minScore})
		s.Require().NoError(err)
		s.Len(result.Results, 1)
	})

	s.Run("allocated profiles never appear", func() {
		result, err := s.svc.Search(s.ctx, search.Params{})
		s.Require().NoError(err)
		s.Equal(2, result.Total)
	})
}

func (s *ServiceSuite) TestSearchRescoresWithTerms() {
	volunteer := s.seed(seedOpts{lat: 60, lon: 24, score: 10, freeText: "experienced volunteer, happy to help"})
	s.seed(seedOpts{lat: 60, lon: 24, score: 90, freeText: "no relevant background"})

	result, err := s.svc.Search(s.ctx, search.Params{Terms: []string{"volunteer"}})
	s.Require().NoError(err)
	s.Require().Len(result.Results, 2)
	s.Equal(volunteer, result.Results[0].CivilianID,
		"query relevance must outrank the stored capability score")
	s.Greater(result.Results[0].Score, result.Results[1].Score)
}

func (s *ServiceSuite) TestDetail() {
	id := s.seed(seedOpts{lat: 60.17, lon: 24.94, score: 50, tags: []string{"medical"}})

	s.Run("hidden without allocation", func() {
		detail, err := s.svc.Detail(s.ctx, s.authority, id)
		s.Require().NoError(err)
		s.False(detail.PIIRevealed)
		s.Empty(detail.User.FullName)
		s.Nil(detail.User.DateOfBirth)
		s.Zero(detail.User.Lat)
		s.Zero(detail.User.Lon)
		s.Equal(50.0, detail.Profile.Score)
	})

	s.Run("revealed with active allocation", func() {
		s.allocations.active[id] = true
		detail, err := s.svc.Detail(s.ctx, s.authority, id)
		s.Require().NoError(err)
		s.True(detail.PIIRevealed)
		s.Equal("Matti Meikäläinen", detail.User.FullName)
		s.Equal(60.17, detail.User.Lat)
	})

	s.Run("every detail access is audited", func() {
		events, err := s.auditStore.ListByEntity(s.ctx, "civilian", id.String())
		s.Require().NoError(err)
		s.Require().Len(events, 2)
		s.Equal(audit.DecisionRevealed, events[0].Decision)
		s.Equal(audit.DecisionHidden, events[1].Decision)
	})

	s.Run("unknown civilian is not found", func() {
		_, err := s.svc.Detail(s.ctx, s.authority, domain.CivilianID(uuid.New()))
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeNotFound))
	})
}
