package rules

import (
	"log/slog"

	"github.com/spf13/viper"
)

// Load reads the YAML rule table at path. Any failure (missing file, parse
// error) degrades to the builtin table; startup never fails on rule config.
// Malformed weights and scores coerce to zero rather than erroring, so a
// partially broken table still loads with the broken entries inert.
func Load(path string, logger *slog.Logger) *Table {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		logger.Warn("rule table unavailable, using builtin fallback",
			"path", path,
			"error", err,
		)
		return Builtin()
	}

	categories := parseCategories(v.GetStringMap("categories"))
	education := parseNumberMap(v.GetStringMap("education_scores"))
	resources := parseResources(v.GetStringMap("resources"))
	industries := parseNumberMap(v.GetStringMap("industries"))

	base := toFloat(v.Get("base_score"))
	if v.Get("base_score") == nil {
		base = 10
	}
	max := toFloat(v.Get("max_score"))
	if v.Get("max_score") == nil || max <= 0 {
		max = 100
	}

	// An empty category set is a legal, if unusual, table: keyword matching
	// simply contributes nothing while education/resources/industries still
	// apply. The builtin fallback is reserved for unreadable sources.
	if len(categories) == 0 {
		logger.Warn("rule table has no categories, keyword matching disabled", "path", path)
	}

	logger.Info("rule table loaded",
		"path", path,
		"categories", len(categories),
		"education_levels", len(education),
	)
	return newTable(categories, education, resources, industries, base, max)
}

func parseCategories(raw map[string]any) map[string]CategoryRule {
	categories := make(map[string]CategoryRule, len(raw))
	for name, entry := range raw {
		fields, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		rule := CategoryRule{
			Weight:            toFloat(fields["weight"]),
			Keywords:          parseKeywords(fields["keywords"]),
			AvailabilityBonus: parseBonusMap(fields["availability_bonus"]),
		}
		categories[name] = rule
	}
	return categories
}

func parseKeywords(raw any) map[string][]string {
	byLocale, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	keywords := make(map[string][]string, len(byLocale))
	for locale, list := range byLocale {
		items, ok := list.([]any)
		if !ok {
			continue
		}
		var words []string
		for _, item := range items {
			if s, ok := item.(string); ok && s != "" {
				words = append(words, s)
			}
		}
		if len(words) > 0 {
			keywords[locale] = words
		}
	}
	return keywords
}

func parseResources(raw map[string]any) map[string]ResourceRule {
	resources := make(map[string]ResourceRule, len(raw))
	for category, entry := range raw {
		fields, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		rule := ResourceRule{
			Weight: toFloat(fields["weight"]),
			Items:  parseBonusMap(fields["items"]),
		}
		resources[category] = rule
	}
	return resources
}

func parseNumberMap(raw map[string]any) map[string]float64 {
	out := make(map[string]float64, len(raw))
	for key, value := range raw {
		out[key] = toFloat(value)
	}
	return out
}

func parseBonusMap(raw any) map[string]float64 {
	fields, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	return parseNumberMap(fields)
}

// toFloat coerces YAML scalar types to float64, treating anything malformed
// as zero per the loader contract.
func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case uint64:
		return float64(n)
	default:
		return 0
	}
}
