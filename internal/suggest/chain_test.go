package suggest

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubSuggester struct {
	tags  []string
	calls int
}

func (s *stubSuggester) Suggest(context.Context, string, ProfileContext) []string {
	s.calls++
	return s.tags
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestChainSuggest(t *testing.T) {
	ctx := context.Background()
	text := "certified drone pilot with field experience"

	t.Run("primary result wins", func(t *testing.T) {
		primary := &stubSuggester{tags: []string{"drones"}}
		fallback := &stubSuggester{tags: []string{"medical"}}
		chain := NewChain(primary, fallback, discardLogger())

		tags := chain.Suggest(ctx, text, ProfileContext{})

		assert.Equal(t, []string{"drones"}, tags)
		assert.Zero(t, fallback.calls)
	})

	t.Run("empty primary falls back", func(t *testing.T) {
		primary := &stubSuggester{}
		fallback := &stubSuggester{tags: []string{"medical"}}
		chain := NewChain(primary, fallback, discardLogger())

		tags := chain.Suggest(ctx, text, ProfileContext{})

		assert.Equal(t, []string{"medical"}, tags)
		assert.Equal(t, 1, primary.calls)
	})

	t.Run("nil primary skips to fallback", func(t *testing.T) {
		fallback := &stubSuggester{tags: []string{"logistics"}}
		chain := NewChain(nil, fallback, discardLogger())

		assert.Equal(t, []string{"logistics"}, chain.Suggest(ctx, text, ProfileContext{}))
	})

	t.Run("nil fallback yields nothing", func(t *testing.T) {
		chain := NewChain(&stubSuggester{}, nil, discardLogger())

		assert.Empty(t, chain.Suggest(ctx, text, ProfileContext{}))
	})
}
