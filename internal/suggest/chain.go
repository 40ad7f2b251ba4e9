package suggest

import (
	"context"
	"log/slog"
)

// Chain tries the primary suggester and falls back to the secondary when the
// primary returns nothing. A nil primary skips straight to the fallback, so
// deployments without an API key still tag profiles.
type Chain struct {
	primary  Suggester
	fallback Suggester
	logger   *slog.Logger
}

func NewChain(primary, fallback Suggester, logger *slog.Logger) *Chain {
	return &Chain{primary: primary, fallback: fallback, logger: logger}
}

func (c *Chain) Suggest(ctx context.Context, text string, pctx ProfileContext) []string {
	if c.primary != nil {
		if tags := c.primary.Suggest(ctx, text, pctx); len(tags) > 0 {
			return tags
		}
		c.logger.Debug("primary suggester returned no tags, using fallback")
	}
	if c.fallback == nil {
		return nil
	}
	return c.fallback.Suggest(ctx, text, pctx)
}
