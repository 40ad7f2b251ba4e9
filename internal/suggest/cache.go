package suggest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	platformredis "civitas/internal/platform/redis"
)

const cacheTTL = 24 * time.Hour

// Cached decorates a suggester with a Redis cache keyed by the profile text.
// Cache failures are logged and ignored; the wrapped suggester always answers.
type Cached struct {
	inner  Suggester
	client *platformredis.Client
	logger *slog.Logger
}

// NewCached wraps inner with caching. A nil client disables caching and
// returns the inner suggester unchanged.
func NewCached(inner Suggester, client *platformredis.Client, logger *slog.Logger) Suggester {
	if client == nil {
		return inner
	}
	return &Cached{inner: inner, client: client, logger: logger}
}

func (c *Cached) Suggest(ctx context.Context, text string, pctx ProfileContext) []string {
	key := cacheKey(text)

	if raw, err := c.client.Get(ctx, key).Result(); err == nil {
		var tags []string
		if err := json.Unmarshal([]byte(raw), &tags); err == nil {
			return tags
		}
		c.logger.Debug("dropping malformed cached suggestion", "key", key)
		c.client.Del(ctx, key)
	}

	tags := c.inner.Suggest(ctx, text, pctx)

	if encoded, err := json.Marshal(tags); err == nil {
		if err := c.client.Set(ctx, key, encoded, cacheTTL).Err(); err != nil {
			c.logger.Debug("failed to cache suggestion", "error", err)
		}
	}
	return tags
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "civitas:suggest:" + hex.EncodeToString(sum[:])
}
