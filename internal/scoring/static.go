package scoring

import (
	"math"
	"strings"

	"civitas/internal/rules"
)

const (
	keywordHitMultiplier = 10
	specContributionCap  = 2
	specWeightPerUnit    = 0.1
	suggestedTagBonus    = 2.0
)

// Score computes the static tag set and capability score for a profile.
// extraTags are suggester-provided tags; each accepted one earns a small flat
// bonus and joins the tag set. Deterministic and idempotent: identical inputs
// always produce identical results.
func Score(p Profile, tbl *rules.Table, extraTags []string) Result {
	text := searchableText(p)
	tags := newTagSet()
	total := tbl.BaseScore()

	total += tbl.EducationScore(p.EducationLevel)

	// Category keyword matching. Every distinct keyword hit adds weight*10;
	// multiple hits within one category all count.
	for _, cat := range tbl.Categories() {
		matched := false
		for _, keywords := range cat.Keywords {
			for _, keyword := range keywords {
				if keyword != "" && strings.Contains(text, strings.ToLower(keyword)) {
					total += cat.Weight * keywordHitMultiplier
					matched = true
				}
			}
		}
		if matched {
			tags.add(cat.Name)
			total += cat.AvailabilityBonus[p.Availability]
		}
	}

	for _, res := range p.Resources {
		total += resourceScore(res, tbl, tags)
	}

	if p.Industry != "" {
		if bonus, ok := tbl.IndustryBonus(p.Industry); ok {
			total += bonus
			tags.add("industry." + p.Industry)
		}
	}

	for _, tag := range extraTags {
		if tag == "" {
			continue
		}
		tags.add(tag)
		total += suggestedTagBonus
	}

	return Result{Tags: tags.tags(), Score: clampRound(total, tbl.MaxScore())}
}

// resourceScore adds the contribution of one declared resource and records its
// tag. Unknown (category, subtype) pairs contribute nothing. Quantity defaults
// to 1; negative quantities contribute nothing. Each numeric spec adds at most
// specContributionCap so no single spec can dominate.
func resourceScore(res Resource, tbl *rules.Table, tags *tagSet) float64 {
	itemWeight, categoryWeight, ok := tbl.ResourceWeight(res.Category, res.Subtype)
	if !ok {
		return 0
	}

	quantity := res.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		quantity = 0
	}

	score := itemWeight * categoryWeight * float64(quantity)
	for _, value := range res.Specs {
		if n, ok := numeric(value); ok {
			contribution := n * specWeightPerUnit
			if contribution > specContributionCap {
				contribution = specContributionCap
			}
			if contribution < 0 {
				contribution = 0
			}
			score += contribution
		}
	}

	tags.add(res.Category + "." + res.Subtype)
	return score
}

func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// clampRound applies the hard ceiling and rounds to one decimal place.
func clampRound(score, max float64) float64 {
	if score > max {
		score = max
	}
	if score < 0 {
		score = 0
	}
	return math.Round(score*10) / 10
}
