package skills

import (
	"context"

	"civitas/internal/skills/models"
	"civitas/pkg/domain"
)

// Store is the persistence boundary for the skill registry. Name lookups and
// searches are case-insensitive; listings come back alphabetically.
type Store interface {
	// Create persists a skill. Returns sentinel.ErrConflict when another
	// skill already holds the name, case-insensitively.
	Create(ctx context.Context, skill models.Skill) error
	FindByID(ctx context.Context, id domain.SkillID) (models.Skill, error)
	FindByName(ctx context.Context, name string) (models.Skill, error)
	ListCanonical(ctx context.Context, limit int) ([]models.Skill, error)
	SearchPrefix(ctx context.Context, term string) ([]models.Skill, error)
	SearchContains(ctx context.Context, term string) ([]models.Skill, error)
	Count(ctx context.Context) (int, error)
}
