// Package civilian owns profile intake: registration of the submitting user,
// skill resolution, tag suggestion, scoring, and the authoritative profile
// record that search and disclosure read.
package civilian

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"civitas/internal/audit"
	"civitas/internal/civilian/models"
	"civitas/internal/platform/metrics"
	"civitas/internal/rules"
	"civitas/internal/scoring"
	skillModel "civitas/internal/skills/models"
	"civitas/internal/suggest"
	"civitas/pkg/domain"
	dErrors "civitas/pkg/domain-errors"
	"civitas/pkg/platform/sentinel"
)

// SkillResolver maps submission skill variants to registry display names.
type SkillResolver interface {
	Resolve(ctx context.Context, variants []skillModel.Variant) ([]string, error)
}

// Auditor emits profile lifecycle events.
type Auditor interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Service struct {
	store     Store
	skills    SkillResolver
	suggester suggest.Suggester
	table     *rules.Table
	auditor   Auditor
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewService(
	store Store,
	skills SkillResolver,
	suggester suggest.Suggester,
	table *rules.Table,
	auditor Auditor,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Service {
	return &Service{
		store:     store,
		skills:    skills,
		suggester: suggester,
		table:     table,
		auditor:   auditor,
		metrics:   m,
		logger:    logger,
	}
}

type SubmitInput struct {
	SubmissionID   string
	FullName       string
	DateOfBirth    time.Time
	Address        string
	Lat, Lon       float64
	EducationLevel string
	Industry       string
	Skills         []skillModel.Variant
	FreeText       string
	Resources      []scoring.Resource
	Consent        bool
}

type SubmitResult struct {
	CivilianID   domain.CivilianID `json:"civilian_id"`
	SubmissionID string            `json:"submission_id"`
	Score        float64           `json:"capability_score"`
	Tags         []string          `json:"tags"`
}

// Submit registers or updates the caller's profile: resolves skills, suggests
// tags from free text, scores, and stores the result with availability reset
// to available. Resubmitting identical input lands on the same state.
func (s *Service) Submit(ctx context.Context, p domain.Principal, input SubmitInput) (*SubmitResult, error) {
	if !input.Consent {
		return nil, dErrors.New(dErrors.CodeBadRequest, "consent is required to submit a profile")
	}
	if p.CivilianID.IsNil() {
		return nil, dErrors.New(dErrors.CodeForbidden, "token carries no civilian identity")
	}

	skillNames, err := s.skills.Resolve(ctx, input.Skills)
	if err != nil {
		return nil, err
	}

	suggested := s.suggester.Suggest(ctx, input.FreeText, suggest.ProfileContext{
		EducationLevel: input.EducationLevel,
		Skills:         skillNames,
	})

	scoringProfile := scoring.Profile{
		EducationLevel: input.EducationLevel,
		Skills:         skillNames,
		FreeText:       input.FreeText,
		Availability:   string(domain.AvailabilityAvailable),
		Resources:      input.Resources,
		Industry:       input.Industry,
	}
	result := scoring.Score(scoringProfile, s.table, suggested)

	now := time.Now().UTC()
	user, err := models.NewUser(p.CivilianID, input.FullName, input.DateOfBirth, input.Address, input.Lat, input.Lon, now)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpsertUser(ctx, *user); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "store user")
	}

	profile := models.Profile{
		CivilianID:     p.CivilianID,
		EducationLevel: input.EducationLevel,
		Industry:       input.Industry,
		Skills:         skillNames,
		FreeText:       input.FreeText,
		Availability:   domain.AvailabilityAvailable,
		Resources:      input.Resources,
		Score:          result.Score,
		Tags:           result.Tags,
		Status:         domain.AvailabilityAvailable,
		UpdatedAt:      now,
	}
	if err := s.store.UpsertProfile(ctx, profile); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "store profile")
	}

	s.metrics.IncrementProfilesSubmitted()
	s.emit(ctx, audit.Event{
		Actor:    audit.ActorFrom(p),
		Action:   audit.ActionProfileSubmitted,
		Entity:   "profile",
		EntityID: p.CivilianID.String(),
		Details: map[string]any{
			"submission_id":    input.SubmissionID,
			"capability_score": result.Score,
			"tags":             result.Tags,
		},
	})

	return &SubmitResult{
		CivilianID:   p.CivilianID,
		SubmissionID: input.SubmissionID,
		Score:        result.Score,
		Tags:         result.Tags,
	}, nil
}

// Me returns the caller's own user and profile, never redacted. A registered
// user without a submitted profile gets a nil profile.
func (s *Service) Me(ctx context.Context, p domain.Principal) (*models.View, error) {
	if p.CivilianID.IsNil() {
		return nil, dErrors.New(dErrors.CodeForbidden, "token carries no civilian identity")
	}
	user, err := s.store.FindUser(ctx, p.CivilianID)
	if err != nil {
		if errorsIsNotFound(err) {
			return nil, dErrors.New(dErrors.CodeNotFound, "civilian not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "find user")
	}

	view := models.View{User: user}
	profile, err := s.store.FindProfile(ctx, p.CivilianID)
	switch {
	case err == nil:
		view.Profile = &profile
	case errorsIsNotFound(err):
		// registered but never submitted
	default:
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "find profile")
	}
	return &view, nil
}

// TagVocabulary lists the tags the rule table can assign: category names and
// education levels. Used by the submission form.
type TagVocabulary struct {
	Categories      []string `json:"categories"`
	EducationLevels []string `json:"education_levels"`
}

func (s *Service) Tags(_ context.Context) TagVocabulary {
	return TagVocabulary{
		Categories:      s.table.CategoryNames(),
		EducationLevels: s.table.EducationLevels(),
	}
}

// Exists, ProfileStatus, and SetProfileStatus serve the allocation module.

func (s *Service) Exists(ctx context.Context, id domain.CivilianID) (bool, error) {
	return s.store.UserExists(ctx, id)
}

func (s *Service) ProfileStatus(ctx context.Context, id domain.CivilianID) (domain.Availability, error) {
	profile, err := s.store.FindProfile(ctx, id)
	if errorsIsNotFound(err) {
		return "", dErrors.New(dErrors.CodeNotFound, "profile not found")
	}
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "find profile")
	}
	return profile.Status, nil
}

func (s *Service) SetProfileStatus(ctx context.Context, id domain.CivilianID, status domain.Availability) error {
	if err := s.store.SetProfileStatus(ctx, id, status); err != nil {
		if errorsIsNotFound(err) {
			return dErrors.New(dErrors.CodeNotFound, "profile not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "update profile status")
	}
	return nil
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.Warn("civilian audit emit failed", "action", event.Action, "error", err)
	}
}

func errorsIsNotFound(err error) bool {
	return err != nil && (dErrors.Is(err, dErrors.CodeNotFound) || errors.Is(err, sentinel.ErrNotFound))
}
