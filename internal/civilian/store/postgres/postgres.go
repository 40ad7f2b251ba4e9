package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"civitas/internal/civilian"
	"civitas/internal/civilian/models"
	"civitas/internal/scoring"
	"civitas/pkg/domain"
	"civitas/pkg/platform/sentinel"
)

// Store persists civilian users and profiles. Skills, tags, and resources are
// JSONB columns; tag filtering uses the @> containment operator.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) UpsertUser(ctx context.Context, user models.User) error {
	query := `
		INSERT INTO users (id, full_name, dob, address, lat, lon, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			dob = EXCLUDED.dob,
			address = EXCLUDED.address,
			lat = EXCLUDED.lat,
			lon = EXCLUDED.lon
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(user.ID), user.FullName, user.DateOfBirth, user.Address, user.Lat, user.Lon, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

func (s *Store) FindUser(ctx context.Context, id domain.CivilianID) (models.User, error) {
	var (
		user models.User
		uid  uuid.UUID
	)
	query := `SELECT id, full_name, dob, address, lat, lon, created_at FROM users WHERE id = $1`
	err := s.db.QueryRowContext(ctx, query, uuid.UUID(id)).Scan(
		&uid, &user.FullName, &user.DateOfBirth, &user.Address, &user.Lat, &user.Lon, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("query user: %w", err)
	}
	user.ID = domain.CivilianID(uid)
	return user, nil
}

func (s *Store) UserExists(ctx context.Context, id domain.CivilianID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, uuid.UUID(id)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check user: %w", err)
	}
	return exists, nil
}

func (s *Store) UpsertProfile(ctx context.Context, profile models.Profile) error {
	skills, err := json.Marshal(profile.Skills)
	if err != nil {
		return fmt.Errorf("marshal skills: %w", err)
	}
	tags, err := json.Marshal(profile.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}
	resources, err := json.Marshal(profile.Resources)
	if err != nil {
		return fmt.Errorf("marshal resources: %w", err)
	}

	query := `
		INSERT INTO profiles (
			civilian_id, education_level, industry, skills, free_text,
			availability, resources, capability_score, tags, status, last_updated
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (civilian_id) DO UPDATE SET
			education_level = EXCLUDED.education_level,
			industry = EXCLUDED.industry,
			skills = EXCLUDED.skills,
			free_text = EXCLUDED.free_text,
			availability = EXCLUDED.availability,
			resources = EXCLUDED.resources,
			capability_score = EXCLUDED.capability_score,
			tags = EXCLUDED.tags,
			status = EXCLUDED.status,
			last_updated = EXCLUDED.last_updated
	`
	_, err = s.db.ExecContext(ctx, query,
		uuid.UUID(profile.CivilianID),
		profile.EducationLevel,
		profile.Industry,
		skills,
		profile.FreeText,
		string(profile.Availability),
		resources,
		profile.Score,
		tags,
		string(profile.Status),
		profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

func (s *Store) FindProfile(ctx context.Context, id domain.CivilianID) (models.Profile, error) {
	query := `
		SELECT civilian_id, education_level, industry, skills, free_text,
			   availability, resources, capability_score, tags, status, last_updated
		FROM profiles WHERE civilian_id = $1
	`
	row := s.db.QueryRowContext(ctx, query, uuid.UUID(id))
	profile, err := scanProfile(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Profile{}, sentinel.ErrNotFound
	}
	return profile, err
}

func (s *Store) SetProfileStatus(ctx context.Context, id domain.CivilianID, status domain.Availability) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE profiles SET status = $2, last_updated = now() WHERE civilian_id = $1`,
		uuid.UUID(id), string(status))
	if err != nil {
		return fmt.Errorf("update profile status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update profile status: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Store) Search(ctx context.Context, filter civilian.Filter) ([]models.View, int, error) {
	where := []string{"p.status = 'available'"}
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.BBox != nil {
		b := filter.BBox
		where = append(where,
			fmt.Sprintf("u.lat BETWEEN %s AND %s", arg(b.MinLat), arg(b.MaxLat)),
			fmt.Sprintf("u.lon BETWEEN %s AND %s", arg(b.MinLon), arg(b.MaxLon)))
	}
	if filter.MinScore != nil {
		where = append(where, fmt.Sprintf("p.capability_score >= %s", arg(*filter.MinScore)))
	}
	if filter.Availability != "" {
		where = append(where, fmt.Sprintf("p.availability = %s", arg(string(filter.Availability))))
	}
	for _, tag := range filter.Tags {
		encoded, err := json.Marshal([]string{tag})
		if err != nil {
			return nil, 0, fmt.Errorf("marshal tag filter: %w", err)
		}
		where = append(where, fmt.Sprintf("p.tags @> %s::jsonb", arg(string(encoded))))
	}

	base := `
		FROM users u
		JOIN profiles p ON p.civilian_id = u.id
		WHERE ` + strings.Join(where, " AND ")

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT count(*) "+base, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count search: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 50
	}

	query := `
		SELECT u.id, u.full_name, u.dob, u.address, u.lat, u.lon, u.created_at,
			   p.civilian_id, p.education_level, p.industry, p.skills, p.free_text,
			   p.availability, p.resources, p.capability_score, p.tags, p.status, p.last_updated
	` + base + fmt.Sprintf(" ORDER BY p.capability_score DESC, u.id LIMIT %s OFFSET %s",
		arg(limit), arg((page-1)*limit))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query search: %w", err)
	}
	defer rows.Close()

	views := []models.View{}
	for rows.Next() {
		var (
			user models.User
			uid  uuid.UUID
		)
		scanUser := func(dest ...any) error {
			return rows.Scan(append([]any{&uid, &user.FullName, &user.DateOfBirth, &user.Address,
				&user.Lat, &user.Lon, &user.CreatedAt}, dest...)...)
		}
		profile, err := scanProfile(scanUser)
		if err != nil {
			return nil, 0, err
		}
		user.ID = domain.CivilianID(uid)
		views = append(views, models.View{User: user, Profile: &profile})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate search: %w", err)
	}
	return views, total, nil
}

// scanProfile scans the profile column block shared by FindProfile and Search.
func scanProfile(scan func(dest ...any) error) (models.Profile, error) {
	var (
		profile                    models.Profile
		cid                        uuid.UUID
		availability, status       string
		skills, resources, tagsRaw []byte
	)
	err := scan(&cid, &profile.EducationLevel, &profile.Industry, &skills, &profile.FreeText,
		&availability, &resources, &profile.Score, &tagsRaw, &status, &profile.UpdatedAt)
	if err != nil {
		return models.Profile{}, err
	}
	profile.CivilianID = domain.CivilianID(cid)
	profile.Availability = domain.Availability(availability)
	profile.Status = domain.Availability(status)
	if err := json.Unmarshal(skills, &profile.Skills); err != nil {
		return models.Profile{}, fmt.Errorf("unmarshal skills: %w", err)
	}
	if err := json.Unmarshal(tagsRaw, &profile.Tags); err != nil {
		return models.Profile{}, fmt.Errorf("unmarshal tags: %w", err)
	}
	if len(resources) > 0 {
		var parsed []scoring.Resource
		if err := json.Unmarshal(resources, &parsed); err != nil {
			return models.Profile{}, fmt.Errorf("unmarshal resources: %w", err)
		}
		profile.Resources = parsed
	}
	return profile, nil
}
