package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civitas/internal/civilian"
	"civitas/internal/civilian/models"
	"civitas/pkg/domain"
	"civitas/pkg/platform/sentinel"
)

func seedCivilian(t *testing.T, store *Store, score float64, status domain.Availability) domain.CivilianID {
	t.Helper()
	ctx := context.Background()
	id := domain.CivilianID(uuid.New())

	require.NoError(t, store.UpsertUser(ctx, models.User{
		ID:        id,
		FullName:  "Test Person",
		Address:   "Somewhere 1",
		Lat:       60.17,
		Lon:       24.94,
		CreatedAt: time.Now().UTC(),
	}))
	require.NoError(t, store.UpsertProfile(ctx, models.Profile{
		CivilianID:   id,
		Availability: domain.AvailabilityAvailable,
		Score:        score,
		Tags:         []string{"medical"},
		Status:       status,
		UpdatedAt:    time.Now().UTC(),
	}))
	return id
}

func TestUpsertUserPreservesCreatedAt(t *testing.T) {
	store := New()
	ctx := context.Background()
	id := domain.CivilianID(uuid.New())

	first := models.User{ID: id, FullName: "A", Address: "X", CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, store.UpsertUser(ctx, first))

	second := first
	second.FullName = "B"
	second.CreatedAt = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.UpsertUser(ctx, second))

	got, err := store.FindUser(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "B", got.FullName)
	assert.Equal(t, first.CreatedAt, got.CreatedAt)
}

func TestSetProfileStatus(t *testing.T) {
	store := New()
	ctx := context.Background()

	id := seedCivilian(t, store, 30, domain.AvailabilityAvailable)
	require.NoError(t, store.SetProfileStatus(ctx, id, domain.AvailabilityAllocated))

	profile, err := store.FindProfile(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.AvailabilityAllocated, profile.Status)

	err = store.SetProfileStatus(ctx, domain.CivilianID(uuid.New()), domain.AvailabilityAllocated)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestSearchOrderingAndPagination(t *testing.T) {
	store := New()
	ctx := context.Background()

	seedCivilian(t, store, 20, domain.AvailabilityAvailable)
	seedCivilian(t, store, 50, domain.AvailabilityAvailable)
	seedCivilian(t, store, 35, domain.AvailabilityAvailable)
	seedCivilian(t, store, 99, domain.AvailabilityAllocated)

	views, total, err := store.Search(ctx, civilian.Filter{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total, "allocated profiles are excluded")
	require.Len(t, views, 2)
	assert.Equal(t, 50.0, views[0].Profile.Score)
	assert.Equal(t, 35.0, views[1].Profile.Score)

	views, total, err = store.Search(ctx, civilian.Filter{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, views, 1)
	assert.Equal(t, 20.0, views[0].Profile.Score)

	views, _, err = store.Search(ctx, civilian.Filter{Page: 5, Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestConcurrentAccess(t *testing.T) {
	store := New()
	ctx := context.Background()

	const writers = 10
	const iterations = 50

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(2)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				id := domain.CivilianID(uuid.New())
				if err := store.UpsertUser(ctx, models.User{
					ID:       id,
					FullName: fmt.Sprintf("writer-%d-%d", w, i),
					Address:  "Somewhere",
				}); err != nil {
					t.Error(err)
					return
				}
				if err := store.UpsertProfile(ctx, models.Profile{
					CivilianID: id,
					Score:      float64(i),
					Status:     domain.AvailabilityAvailable,
				}); err != nil {
					t.Error(err)
					return
				}
			}
		}(w)
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				if _, _, err := store.Search(ctx, civilian.Filter{Limit: 10}); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	wg.Wait()

	_, total, err := store.Search(ctx, civilian.Filter{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, writers*iterations, total)
}
