// Package rules holds the immutable scoring rule table. The table is loaded
// once at startup and passed by handle into the scorers; there is no hidden
// process-wide rule state and no hot reload.
package rules

import "sort"

// CategoryRule describes one capability category: its weight, per-locale
// keyword lists, and the bonus granted per availability state when the
// category matches a profile.
type CategoryRule struct {
	Name              string
	Weight            float64
	Keywords          map[string][]string
	AvailabilityBonus map[string]float64
}

// ResourceRule weights a resource category and its known subtypes.
type ResourceRule struct {
	Weight float64
	Items  map[string]float64
}

// Table is the full rule set. Immutable after construction; all accessors are
// safe for concurrent use. Missing keys default to zero so callers never need
// their own nil checks.
type Table struct {
	categories      []CategoryRule
	categoryByName  map[string]int
	educationScores map[string]float64
	resources       map[string]ResourceRule
	industries      map[string]float64
	baseScore       float64
	maxScore        float64
}

func newTable(
	categories map[string]CategoryRule,
	educationScores map[string]float64,
	resources map[string]ResourceRule,
	industries map[string]float64,
	baseScore, maxScore float64,
) *Table {
	t := &Table{
		categoryByName:  make(map[string]int, len(categories)),
		educationScores: educationScores,
		resources:       resources,
		industries:      industries,
		baseScore:       baseScore,
		maxScore:        maxScore,
	}
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		rule := categories[name]
		rule.Name = name
		t.categoryByName[name] = len(t.categories)
		t.categories = append(t.categories, rule)
	}
	return t
}

// Categories returns the category rules in stable (name) order.
func (t *Table) Categories() []CategoryRule { return t.categories }

// HasCategory reports whether name is a known category.
func (t *Table) HasCategory(name string) bool {
	_, ok := t.categoryByName[name]
	return ok
}

// EducationScore returns the score for an education level; unknown levels
// contribute zero.
func (t *Table) EducationScore(level string) float64 {
	return t.educationScores[level]
}

// ResourceWeight resolves a (category, subtype) pair into its item base weight
// and category weight. The boolean is false when either is unknown.
func (t *Table) ResourceWeight(category, subtype string) (itemWeight, categoryWeight float64, ok bool) {
	rule, found := t.resources[category]
	if !found {
		return 0, 0, false
	}
	item, found := rule.Items[subtype]
	if !found {
		return 0, 0, false
	}
	return item, rule.Weight, true
}

// IndustryBonus returns the configured bonus for an industry.
func (t *Table) IndustryBonus(industry string) (float64, bool) {
	bonus, ok := t.industries[industry]
	return bonus, ok
}

// BaseScore is the floor included in every score.
func (t *Table) BaseScore() float64 { return t.baseScore }

// MaxScore is the hard ceiling applied after all additive contributions.
func (t *Table) MaxScore() float64 { return t.maxScore }

// CategoryNames returns all category names in stable order. These double as
// the available tag vocabulary exposed to the frontend.
func (t *Table) CategoryNames() []string {
	names := make([]string, len(t.categories))
	for i, c := range t.categories {
		names[i] = c.Name
	}
	return names
}

// EducationLevels returns the known education levels, sorted.
func (t *Table) EducationLevels() []string {
	levels := make([]string, 0, len(t.educationScores))
	for level := range t.educationScores {
		levels = append(levels, level)
	}
	sort.Strings(levels)
	return levels
}

// Builtin is the minimal fallback table used when the configured rule source
// is missing or unparsable. The engine must never be unusable because a config
// file failed to ship.
func Builtin() *Table {
	return newTable(
		map[string]CategoryRule{
			"general": {
				Weight: 1.0,
				Keywords: map[string][]string{
					"en": {"volunteer", "help"},
					"fi": {"vapaaehtoinen", "apu"},
				},
				AvailabilityBonus: map[string]float64{
					"immediate": 5, "24h": 3, "48h": 2, "unavailable": 0,
				},
			},
		},
		map[string]float64{"high_school": 5},
		nil,
		nil,
		10, 100,
	)
}
