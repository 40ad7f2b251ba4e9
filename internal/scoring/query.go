package scoring

import (
	"strings"

	"civitas/internal/rules"
)

const (
	queryCategoryMultiplier     = 15
	queryConfirmationMultiplier = 10
	queryTextBonus              = 5
	queryTagBonus               = 8
)

// querySoonBonus is the reduced, category-independent availability bonus used
// by the query scorer. Only the legacy soon-available states earn it; the
// current available/allocated states carry no urgency signal of their own.
var querySoonBonus = map[string]float64{
	"immediate": 5,
	"24h":       3,
	"48h":       2,
}

// ScoreForQuery ranks a candidate against ad-hoc search terms. Query intent
// dominates: a category hit is worth more than in static scoring, and a
// candidate whose profile shares nothing with the query falls to the
// zero-match floor regardless of how rich the profile is.
func ScoreForQuery(p Profile, existingTags []string, terms []string, tbl *rules.Table) float64 {
	cleaned := normalizeTerms(terms)
	if len(cleaned) == 0 {
		// No query intent: flat, uninformative base. Callers wanting the
		// static score must read it from the profile, not from here.
		return clampRound(tbl.BaseScore(), tbl.MaxScore())
	}

	text := searchableText(p)
	lowerTags := make([]string, len(existingTags))
	for i, tag := range existingTags {
		lowerTags[i] = strings.ToLower(tag)
	}

	var relevance float64
	anyMatch := false

	for _, term := range cleaned {
		if bonus, ok := categoryRelevance(term, lowerTags, tbl); ok {
			relevance += bonus
			anyMatch = true
			continue
		}
		// Terms that match no category still earn flat credit for plain
		// text and tag overlap.
		if strings.Contains(text, term) {
			relevance += queryTextBonus
			anyMatch = true
		}
		for _, tag := range lowerTags {
			if strings.Contains(tag, term) || strings.Contains(term, tag) {
				relevance += queryTagBonus
				anyMatch = true
			}
		}
	}

	base := tbl.BaseScore() +
		tbl.EducationScore(p.EducationLevel) +
		querySoonBonus[p.Availability] +
		industryBonus(p, tbl)

	if !anyMatch {
		// Zero-match floor: no relevance term may leak into the score of a
		// candidate irrelevant to the query.
		return clampRound(base, tbl.MaxScore())
	}
	return clampRound(base+relevance, tbl.MaxScore())
}

// categoryRelevance tests a term against every category's keyword lists,
// substring in either direction. A hit earns weight*15 per category, plus a
// confirmation bonus when the candidate's stored tags already include it.
func categoryRelevance(term string, lowerTags []string, tbl *rules.Table) (float64, bool) {
	var bonus float64
	matched := false
	for _, cat := range tbl.Categories() {
		if !categoryKeywordMatch(term, cat) {
			continue
		}
		matched = true
		bonus += cat.Weight * queryCategoryMultiplier
		for _, tag := range lowerTags {
			if tag == cat.Name {
				bonus += cat.Weight * queryConfirmationMultiplier
				break
			}
		}
	}
	return bonus, matched
}

func categoryKeywordMatch(term string, cat rules.CategoryRule) bool {
	for _, keywords := range cat.Keywords {
		for _, keyword := range keywords {
			kw := strings.ToLower(keyword)
			if kw == "" {
				continue
			}
			if strings.Contains(kw, term) || strings.Contains(term, kw) {
				return true
			}
		}
	}
	return false
}

func industryBonus(p Profile, tbl *rules.Table) float64 {
	if p.Industry == "" {
		return 0
	}
	bonus, _ := tbl.IndustryBonus(p.Industry)
	return bonus
}

func normalizeTerms(terms []string) []string {
	var cleaned []string
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term != "" {
			cleaned = append(cleaned, term)
		}
	}
	return cleaned
}
