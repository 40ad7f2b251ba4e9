//go:build integration

package postgres

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civitas/internal/skills/models"
	"civitas/pkg/domain"
	"civitas/pkg/platform/sentinel"
	"civitas/pkg/testutil/containers"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	pg := containers.NewPostgresContainer(t)
	pg.Exec(t, `
		CREATE TABLE skills (
			id        UUID PRIMARY KEY,
			name      TEXT NOT NULL,
			canonical BOOLEAN NOT NULL DEFAULT FALSE
		);
		CREATE UNIQUE INDEX skills_name_lower_idx ON skills (lower(name));
	`)
	return New(pg.DB)
}

func newSkill(name string, canonical bool) models.Skill {
	return models.Skill{ID: domain.SkillID(uuid.New()), Name: name, Canonical: canonical}
}

func TestStoreCreateAndFind(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	skill := newSkill("First Aid", true)
	require.NoError(t, store.Create(ctx, skill))

	byID, err := store.FindByID(ctx, skill.ID)
	require.NoError(t, err)
	assert.Equal(t, skill, byID)

	byName, err := store.FindByName(ctx, "first aid")
	require.NoError(t, err)
	assert.Equal(t, skill, byName)

	_, err = store.FindByName(ctx, "Welding")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestStoreCreateConflictIsCaseInsensitive(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, newSkill("Nursing", true)))
	err := store.Create(ctx, newSkill("NURSING", false))
	assert.ErrorIs(t, err, sentinel.ErrConflict)
}

func TestStoreSearch(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	for _, name := range []string{"Nursing", "Network Administration", "Tuning", "Pruning"} {
		require.NoError(t, store.Create(ctx, newSkill(name, true)))
	}

	prefix, err := store.SearchPrefix(ctx, "nu")
	require.NoError(t, err)
	require.Len(t, prefix, 1)
	assert.Equal(t, "Nursing", prefix[0].Name)

	contains, err := store.SearchContains(ctx, "nin")
	require.NoError(t, err)
	names := make([]string, len(contains))
	for i, s := range contains {
		names[i] = s.Name
	}
	assert.Equal(t, []string{"Pruning", "Tuning"}, names)
}

func TestStoreListCanonicalAndCount(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, newSkill("Welding", true)))
	require.NoError(t, store.Create(ctx, newSkill("Underwater Basket Weaving", false)))

	canonical, err := store.ListCanonical(ctx, 10)
	require.NoError(t, err)
	require.Len(t, canonical, 1)
	assert.Equal(t, "Welding", canonical[0].Name)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
