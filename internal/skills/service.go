// Package skills maintains the canonical skill registry: suggestions for the
// submission form, registration of new names, and resolution of profile skill
// references to display names.
package skills

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"civitas/internal/skills/models"
	"civitas/pkg/domain"
	dErrors "civitas/pkg/domain-errors"
	"civitas/pkg/platform/sentinel"
)

const (
	defaultSuggestLimit = 10
	maxSuggestLimit     = 50
)

type Service struct {
	store  Store
	logger *slog.Logger
}

func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Suggest ranks registry matches for a partial query: prefix matches first,
// then contains matches, each group alphabetical. An empty query returns the
// top canonical skills.
func (s *Service) Suggest(ctx context.Context, query string, limit int) ([]models.Skill, error) {
	if limit <= 0 {
		limit = defaultSuggestLimit
	}
	if limit > maxSuggestLimit {
		limit = maxSuggestLimit
	}

	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return s.store.ListCanonical(ctx, limit)
	}

	prefix, err := s.store.SearchPrefix(ctx, term)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "search skills")
	}
	contains, err := s.store.SearchContains(ctx, term)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "search skills")
	}

	seen := make(map[domain.SkillID]bool, len(prefix))
	out := make([]models.Skill, 0, limit)
	for _, skill := range prefix {
		seen[skill.ID] = true
		out = append(out, skill)
		if len(out) == limit {
			return out, nil
		}
	}
	for _, skill := range contains {
		if seen[skill.ID] {
			continue
		}
		out = append(out, skill)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// Create registers a skill name, normalized. Registering an existing name is
// not an error: the existing entry comes back so the form can adopt it.
func (s *Service) Create(ctx context.Context, name string) (models.Skill, error) {
	normalized := models.Normalize(name)
	if normalized == "" {
		return models.Skill{}, dErrors.New(dErrors.CodeInvalidInput, "skill name cannot be empty")
	}

	skill := models.Skill{
		ID:        domain.SkillID(uuid.New()),
		Name:      normalized,
		Canonical: false,
	}
	err := s.store.Create(ctx, skill)
	if errors.Is(err, sentinel.ErrConflict) {
		return s.store.FindByName(ctx, normalized)
	}
	if err != nil {
		return models.Skill{}, dErrors.Wrap(err, dErrors.CodeInternal, "create skill")
	}
	return skill, nil
}

// Resolve maps submission skill variants to registry display names. A raw
// name that is not registered yet is registered on the fly; a dangling ID
// reference is dropped rather than failing the whole submission.
func (s *Service) Resolve(ctx context.Context, variants []models.Variant) ([]string, error) {
	names := make([]string, 0, len(variants))
	seen := make(map[string]bool, len(variants))
	for _, v := range variants {
		name, ok, err := s.resolveOne(ctx, v)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, name)
	}
	return names, nil
}

func (s *Service) resolveOne(ctx context.Context, v models.Variant) (string, bool, error) {
	if !v.Reference.IsNil() {
		skill, err := s.store.FindByID(ctx, v.Reference)
		if errors.Is(err, sentinel.ErrNotFound) {
			s.logger.Debug("dropping unresolvable skill reference", "skill_id", v.Reference.String())
			return "", false, nil
		}
		if err != nil {
			return "", false, dErrors.Wrap(err, dErrors.CodeInternal, "resolve skill reference")
		}
		return skill.Name, true, nil
	}

	if strings.TrimSpace(v.RawName) == "" {
		return "", false, nil
	}
	skill, err := s.Create(ctx, v.RawName)
	if err != nil {
		return "", false, err
	}
	return skill.Name, true, nil
}

// Seed populates the registry with the canonical skill set. A non-empty
// registry is left alone.
func (s *Service) Seed(ctx context.Context) error {
	count, err := s.store.Count(ctx)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "count skills")
	}
	if count > 0 {
		return nil
	}
	for _, name := range canonicalSkills {
		skill := models.Skill{
			ID:        domain.SkillID(uuid.New()),
			Name:      name,
			Canonical: true,
		}
		if err := s.store.Create(ctx, skill); err != nil && !errors.Is(err, sentinel.ErrConflict) {
			return dErrors.Wrap(err, dErrors.CodeInternal, "seed skills")
		}
	}
	s.logger.Info("seeded canonical skills", "count", len(canonicalSkills))
	return nil
}

var canonicalSkills = []string{
	"Computer Science", "First Aid", "Emergency Care", "Logistics", "GIS",
	"Nursing", "Radio Operations", "Chainsaw", "Electrical Work", "Python",
	"Crisis Communications", "Water Purification", "Search And Rescue",
	"Medical Equipment", "Network Administration", "Database Management",
	"Project Management", "Risk Assessment", "Team Leadership", "Technical Writing",
	"System Administration", "Cybersecurity", "Data Analysis", "Machine Learning",
	"Web Development", "Cloud Computing", "Devops", "Software Testing",
	"Translation", "Language Teaching", "Counseling", "Social Work",
	"Community Outreach", "Volunteer Coordination", "Construction", "Carpentry",
	"Plumbing", "Hvac", "Welding", "Masonry",
	"Heavy Machinery Operation", "Forklift Operation", "Crane Operation",
	"Truck Driving", "Bus Driving", "Pilot License", "Maritime Operations",
	"Supply Chain Management", "Inventory Management", "Warehouse Operations",
	"Fleet Management", "Vehicle Maintenance", "Mechanical Repair",
	"Electrical Repair", "Electronics Repair", "Security Systems", "Surveillance",
	"Fire Safety", "Hazardous Materials", "Water Treatment", "Power Generation",
	"Solar Installation", "Agriculture", "Forestry", "Wildlife Management",
}
