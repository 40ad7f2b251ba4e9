package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"civitas/internal/skills/models"
	"civitas/pkg/domain"
	"civitas/pkg/platform/sentinel"
)

// Store persists the skill registry in the skills table. A functional unique
// index on lower(name) enforces case-insensitive uniqueness.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, skill models.Skill) error {
	query := `INSERT INTO skills (id, name, canonical) VALUES ($1, $2, $3)`
	_, err := s.db.ExecContext(ctx, query, uuid.UUID(skill.ID), skill.Name, skill.Canonical)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert skill: %w", err)
	}
	return nil
}

func (s *Store) FindByID(ctx context.Context, id domain.SkillID) (models.Skill, error) {
	return s.findOne(ctx, `SELECT id, name, canonical FROM skills WHERE id = $1`, uuid.UUID(id))
}

func (s *Store) FindByName(ctx context.Context, name string) (models.Skill, error) {
	return s.findOne(ctx, `SELECT id, name, canonical FROM skills WHERE lower(name) = lower($1)`, name)
}

func (s *Store) findOne(ctx context.Context, query string, arg any) (models.Skill, error) {
	var (
		skill models.Skill
		id    uuid.UUID
	)
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&id, &skill.Name, &skill.Canonical)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Skill{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.Skill{}, fmt.Errorf("query skill: %w", err)
	}
	skill.ID = domain.SkillID(id)
	return skill, nil
}

func (s *Store) ListCanonical(ctx context.Context, limit int) ([]models.Skill, error) {
	query := `
		SELECT id, name, canonical FROM skills
		WHERE canonical
		ORDER BY name
		LIMIT $1
	`
	return s.list(ctx, query, limit)
}

func (s *Store) SearchPrefix(ctx context.Context, term string) ([]models.Skill, error) {
	query := `
		SELECT id, name, canonical FROM skills
		WHERE lower(name) LIKE lower($1) || '%'
		ORDER BY name
	`
	return s.list(ctx, query, term)
}

func (s *Store) SearchContains(ctx context.Context, term string) ([]models.Skill, error) {
	query := `
		SELECT id, name, canonical FROM skills
		WHERE lower(name) LIKE '%' || lower($1) || '%'
		ORDER BY name
	`
	return s.list(ctx, query, term)
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM skills`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count skills: %w", err)
	}
	return count, nil
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]models.Skill, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query skills: %w", err)
	}
	defer rows.Close()

	var skills []models.Skill
	for rows.Next() {
		var (
			skill models.Skill
			id    uuid.UUID
		)
		if err := rows.Scan(&id, &skill.Name, &skill.Canonical); err != nil {
			return nil, fmt.Errorf("scan skill: %w", err)
		}
		skill.ID = domain.SkillID(id)
		skills = append(skills, skill)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate skills: %w", err)
	}
	return skills, nil
}
