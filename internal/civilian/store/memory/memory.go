package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"civitas/internal/civilian"
	"civitas/internal/civilian/models"
	"civitas/pkg/domain"
	"civitas/pkg/platform/sentinel"
)

// Store keeps users and profiles in memory. Search filtering happens in Go;
// the dataset is small enough that clarity wins.
type Store struct {
	mu       sync.RWMutex
	users    map[domain.CivilianID]models.User
	profiles map[domain.CivilianID]models.Profile
}

func New() *Store {
	return &Store{
		users:    make(map[domain.CivilianID]models.User),
		profiles: make(map[domain.CivilianID]models.Profile),
	}
}

func (s *Store) UpsertUser(_ context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.users[user.ID]; ok {
		user.CreatedAt = existing.CreatedAt
	}
	s.users[user.ID] = user
	return nil
}

func (s *Store) FindUser(_ context.Context, id domain.CivilianID) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return models.User{}, sentinel.ErrNotFound
}

func (s *Store) UserExists(_ context.Context, id domain.CivilianID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.users[id]
	return ok, nil
}

func (s *Store) UpsertProfile(_ context.Context, profile models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.CivilianID] = profile
	return nil
}

func (s *Store) FindProfile(_ context.Context, id domain.CivilianID) (models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if profile, ok := s.profiles[id]; ok {
		return profile, nil
	}
	return models.Profile{}, sentinel.ErrNotFound
}

func (s *Store) SetProfileStatus(_ context.Context, id domain.CivilianID, status domain.Availability) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile, ok := s.profiles[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	profile.Status = status
	s.profiles[id] = profile
	return nil
}

func (s *Store) Search(_ context.Context, filter civilian.Filter) ([]models.View, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []models.View
	for id, profile := range s.profiles {
		user, ok := s.users[id]
		if !ok {
			continue
		}
		if matchesFilter(user, profile, filter) {
			p := profile
			matches = append(matches, models.View{User: user, Profile: &p})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Profile.Score != matches[j].Profile.Score {
			return matches[i].Profile.Score > matches[j].Profile.Score
		}
		return matches[i].User.ID.String() < matches[j].User.ID.String()
	})

	total := len(matches)
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 50
	}
	offset := (page - 1) * limit
	if offset >= total {
		return []models.View{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matches[offset:end], total, nil
}

func matchesFilter(user models.User, profile models.Profile, filter civilian.Filter) bool {
	if profile.Status != domain.AvailabilityAvailable {
		return false
	}
	if filter.BBox != nil {
		b := filter.BBox
		if user.Lat < b.MinLat || user.Lat > b.MaxLat || user.Lon < b.MinLon || user.Lon > b.MaxLon {
			return false
		}
	}
	if filter.MinScore != nil && profile.Score < *filter.MinScore {
		return false
	}
	if filter.Availability != "" && profile.Availability != filter.Availability {
		return false
	}
	for _, tag := range filter.Tags {
		if !hasTag(profile.Tags, tag) {
			return false
		}
	}
	return true
}

func hasTag(tags []string, want string) bool {
	for _, tag := range tags {
		if strings.EqualFold(tag, want) {
			return true
		}
	}
	return false
}
