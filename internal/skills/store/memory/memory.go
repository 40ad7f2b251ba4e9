package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"civitas/internal/skills/models"
	"civitas/pkg/domain"
	"civitas/pkg/platform/sentinel"
)

// Store keeps the registry in memory. Favors clarity over performance.
type Store struct {
	mu     sync.RWMutex
	byID   map[domain.SkillID]models.Skill
	byName map[string]domain.SkillID // lowercased name
}

func New() *Store {
	return &Store{
		byID:   make(map[domain.SkillID]models.Skill),
		byName: make(map[string]domain.SkillID),
	}
}

func (s *Store) Create(_ context.Context, skill models.Skill) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(skill.Name)
	if _, exists := s.byName[key]; exists {
		return sentinel.ErrConflict
	}
	s.byID[skill.ID] = skill
	s.byName[key] = skill.ID
	return nil
}

func (s *Store) FindByID(_ context.Context, id domain.SkillID) (models.Skill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if skill, ok := s.byID[id]; ok {
		return skill, nil
	}
	return models.Skill{}, sentinel.ErrNotFound
}

func (s *Store) FindByName(_ context.Context, name string) (models.Skill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id, ok := s.byName[strings.ToLower(name)]; ok {
		return s.byID[id], nil
	}
	return models.Skill{}, sentinel.ErrNotFound
}

func (s *Store) ListCanonical(_ context.Context, limit int) ([]models.Skill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Skill
	for _, skill := range s.byID {
		if skill.Canonical {
			out = append(out, skill)
		}
	}
	sortByName(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) SearchPrefix(_ context.Context, term string) ([]models.Skill, error) {
	return s.search(func(name string) bool { return strings.HasPrefix(name, term) }), nil
}

func (s *Store) SearchContains(_ context.Context, term string) ([]models.Skill, error) {
	return s.search(func(name string) bool { return strings.Contains(name, term) }), nil
}

func (s *Store) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID), nil
}

func (s *Store) search(match func(string) bool) []models.Skill {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Skill
	for _, skill := range s.byID {
		if match(strings.ToLower(skill.Name)) {
			out = append(out, skill)
		}
	}
	sortByName(out)
	return out
}

func sortByName(skills []models.Skill) {
	sort.Slice(skills, func(i, j int) bool { return skills[i].Name < skills[j].Name })
}
