package disclosure_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civitas/internal/audit"
	auditmem "civitas/internal/audit/store/memory"
	"civitas/internal/civilian/models"
	"civitas/internal/disclosure"
	"civitas/pkg/domain"
)

type stubAllocations struct {
	active bool
	err    error
}

func (s *stubAllocations) HasActiveAllocation(context.Context, string, domain.CivilianID) (bool, error) {
	return s.active, s.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newGate(allocs *stubAllocations) (*disclosure.Gate, *auditmem.Store) {
	store := auditmem.New()
	pub := audit.NewPublisher(store, nil, testLogger())
	return disclosure.NewGate(allocs, pub, nil, testLogger()), store
}

func TestGateDecide(t *testing.T) {
	ctx := context.Background()
	civID := domain.CivilianID(uuid.New())

	t.Run("self access is always revealed", func(t *testing.T) {
		gate, store := newGate(&stubAllocations{})
		p := domain.Principal{Subject: "civ", Role: domain.RoleCivilian, CivilianID: civID}

		d := gate.Decide(ctx, p, civID)

		assert.True(t, d.PIIRevealed)
		assert.Equal(t, disclosure.ReasonSelfAccess, d.Reason)
		assertAudited(t, store, civID, audit.DecisionRevealed)
	})

	t.Run("authority with active allocation is revealed", func(t *testing.T) {
		gate, store := newGate(&stubAllocations{active: true})
		p := domain.Principal{Subject: "authority-7", Role: domain.RoleAuthority}

		d := gate.Decide(ctx, p, civID)

		assert.True(t, d.PIIRevealed)
		assert.Equal(t, disclosure.ReasonActiveAllocation, d.Reason)
		assertAudited(t, store, civID, audit.DecisionRevealed)
	})

	t.Run("authority without allocation is hidden", func(t *testing.T) {
		gate, store := newGate(&stubAllocations{active: false})
		p := domain.Principal{Subject: "authority-7", Role: domain.RoleAuthority}

		d := gate.Decide(ctx, p, civID)

		assert.False(t, d.PIIRevealed)
		assert.Equal(t, disclosure.ReasonNoAllocation, d.Reason)
		assertAudited(t, store, civID, audit.DecisionHidden)
	})

	t.Run("lookup error fails closed", func(t *testing.T) {
		gate, store := newGate(&stubAllocations{active: true, err: errors.New("db down")})
		p := domain.Principal{Subject: "authority-7", Role: domain.RoleAuthority}

		d := gate.Decide(ctx, p, civID)

		assert.False(t, d.PIIRevealed)
		assert.Equal(t, disclosure.ReasonLookupFailed, d.Reason)
		assertAudited(t, store, civID, audit.DecisionHidden)
	})

	t.Run("other civilian is hidden without allocation lookup", func(t *testing.T) {
		gate, store := newGate(&stubAllocations{active: true})
		p := domain.Principal{Subject: "civ", Role: domain.RoleCivilian, CivilianID: domain.CivilianID(uuid.New())}

		d := gate.Decide(ctx, p, civID)

		assert.False(t, d.PIIRevealed)
		assert.Equal(t, disclosure.ReasonRoleNotPermitted, d.Reason)
		assertAudited(t, store, civID, audit.DecisionHidden)
	})
}

func assertAudited(t *testing.T, store *auditmem.Store, civID domain.CivilianID, decision string) {
	t.Helper()
	events, err := store.ListByEntity(context.Background(), "civilian", civID.String())
	require.NoError(t, err)
	require.NotEmpty(t, events)
	assert.Equal(t, audit.ActionPIIAccess, events[0].Action)
	assert.Equal(t, decision, events[0].Decision)
}

func TestRedactUser(t *testing.T) {
	civID := domain.CivilianID(uuid.New())
	view := models.View{
		User: models.User{
			ID:       civID,
			FullName: "Aino Virtanen",
			Address:  "Mannerheimintie 1, Helsinki",
			Lat:      60.1699,
			Lon:      24.9384,
		},
		Profile: &models.Profile{Score: 45.5, Tags: []string{"medical"}},
	}

	t.Run("revealed view is untouched", func(t *testing.T) {
		got := disclosure.RedactUser(view, true)
		assert.Equal(t, view, got)
	})

	t.Run("hidden view drops PII but keeps capability data", func(t *testing.T) {
		got := disclosure.RedactUser(view, false)

		assert.Empty(t, got.User.FullName)
		assert.Nil(t, got.User.DateOfBirth)
		assert.Empty(t, got.User.Address)
		assert.Equal(t, 45.5, got.Profile.Score)
		assert.Equal(t, []string{"medical"}, got.Profile.Tags)
	})

	t.Run("hidden view carries no coordinates", func(t *testing.T) {
		got := disclosure.RedactUser(view, false)
		assert.Zero(t, got.User.Lat)
		assert.Zero(t, got.User.Lon)
	})
}
