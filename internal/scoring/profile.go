// Package scoring implements the capability scoring engine: the static scorer
// applied at profile submission and the query-relevance scorer applied when an
// authority searches with explicit terms. Both are pure functions over an
// immutable rule table and are safe to call concurrently.
package scoring

import "strings"

// Resource is one declared tool or asset. Spec values that are numeric
// contribute to the score; string specs are descriptive only.
type Resource struct {
	Category string
	Subtype  string
	Quantity int
	Specs    map[string]any
}

// Profile is the scoring view of a civilian submission. Skill names arrive
// already resolved to canonical display names; the engine never sees raw
// skill references. Never mutated by the scorers.
type Profile struct {
	EducationLevel string
	Skills         []string
	FreeText       string
	Availability   string
	Resources      []Resource
	Industry       string
}

// Result is the static scoring output: tags in first-seen order, score in
// [0, maxScore] rounded to one decimal.
type Result struct {
	Tags  []string
	Score float64
}

// searchableText is the lower-cased concatenation of education level, skills,
// and free text that category keywords are matched against.
func searchableText(p Profile) string {
	parts := make([]string, 0, len(p.Skills)+2)
	parts = append(parts, p.EducationLevel)
	parts = append(parts, p.Skills...)
	if p.FreeText != "" {
		parts = append(parts, p.FreeText)
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// tagSet accumulates tags deduplicated in first-seen order.
type tagSet struct {
	order []string
	seen  map[string]bool
}

func newTagSet() *tagSet {
	return &tagSet{seen: make(map[string]bool)}
}

func (s *tagSet) add(tag string) {
	if tag == "" || s.seen[tag] {
		return
	}
	s.seen[tag] = true
	s.order = append(s.order, tag)
}

func (s *tagSet) tags() []string {
	if s.order == nil {
		return []string{}
	}
	return s.order
}
