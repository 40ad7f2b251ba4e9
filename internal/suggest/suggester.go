// Package suggest provides the free-text tag suggester: an optional LLM
// backend with a deterministic keyword fallback. Absence of a usable backend
// is a valid, silent outcome; nothing in this package ever surfaces a failure
// to the scoring caller.
package suggest

import (
	"context"
	"regexp"
	"strings"
)

// maxTags caps how many tags a suggester may return.
const maxTags = 5

// minTextLen is the shortest free text worth suggesting on.
const minTextLen = 10

// ProfileContext carries profile fields that help a backend disambiguate
// free text.
type ProfileContext struct {
	EducationLevel string
	Skills         []string
}

// Suggester extracts up to maxTags supplementary tags from free text.
// Implementations must never return an error past this boundary and must
// respect ctx cancellation; an empty result is a valid outcome.
type Suggester interface {
	Suggest(ctx context.Context, text string, pctx ProfileContext) []string
}

var tagCleaner = regexp.MustCompile(`[^a-z0-9_]`)

// sentinelTags are model filler values that carry no information.
var sentinelTags = map[string]bool{
	"null": true, "none": true, "na": true, "n_a": true, "undefined": true,
}

// ValidateTags normalizes and filters raw tag candidates: lowercase,
// underscore-joined, alphanumeric+underscore only, 2-30 chars, no sentinel
// values, deduplicated, at most maxTags.
func ValidateTags(raw []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, tag := range raw {
		tag = strings.ToLower(strings.TrimSpace(tag))
		tag = strings.ReplaceAll(tag, " ", "_")
		tag = strings.ReplaceAll(tag, "-", "_")
		tag = tagCleaner.ReplaceAllString(tag, "")
		if len(tag) < 2 || len(tag) > 30 {
			continue
		}
		if strings.HasPrefix(tag, "_") || sentinelTags[tag] {
			continue
		}
		if seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
		if len(out) == maxTags {
			break
		}
	}
	return out
}
