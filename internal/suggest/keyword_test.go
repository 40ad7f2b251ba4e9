package suggest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordSuggest(t *testing.T) {
	k := NewKeyword()
	ctx := context.Background()

	t.Run("matches categories from text", func(t *testing.T) {
		tags := k.Suggest(ctx, "I fly FPV drones and repair diesel engines", ProfileContext{})
		assert.Contains(t, tags, "drones")
		assert.Contains(t, tags, "mechanical")
	})

	t.Run("finnish keywords match", func(t *testing.T) {
		tags := k.Suggest(ctx, "Olen sairaanhoitaja ja osaan ensiapua", ProfileContext{})
		assert.Contains(t, tags, "medical")
	})

	t.Run("experience phrasing adds senior", func(t *testing.T) {
		tags := k.Suggest(ctx, "10 years of experience with power grid maintenance", ProfileContext{})
		assert.Contains(t, tags, "senior")
		assert.Contains(t, tags, "electrical")
	})

	t.Run("certification phrasing adds certified", func(t *testing.T) {
		tags := k.Suggest(ctx, "Licensed paramedic on night shifts", ProfileContext{})
		assert.Contains(t, tags, "certified")
		assert.Contains(t, tags, "medical")
	})

	t.Run("short text yields nothing", func(t *testing.T) {
		assert.Empty(t, k.Suggest(ctx, "drones", ProfileContext{}))
	})

	t.Run("no match yields nothing", func(t *testing.T) {
		assert.Empty(t, k.Suggest(ctx, "I enjoy long walks on the beach", ProfileContext{}))
	})

	t.Run("output is deterministic and capped", func(t *testing.T) {
		text := "certified senior drone pilot, electrician, welder, paramedic and radio operator"
		first := k.Suggest(ctx, text, ProfileContext{})
		second := k.Suggest(ctx, text, ProfileContext{})
		assert.Equal(t, first, second)
		assert.LessOrEqual(t, len(first), 5)
	})
}
