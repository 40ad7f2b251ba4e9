package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreForQueryWorkedExample(t *testing.T) {
	tbl := exampleTable(t)
	profile := Profile{
		EducationLevel: "masters",
		Skills:         []string{"medical", "emergency"},
		Availability:   "available",
	}
	tags := []string{"medical"}

	t.Run("matching term", func(t *testing.T) {
		// 10 base + 10 education + 15 category + 10 tag confirmation
		got := ScoreForQuery(profile, tags, []string{"medical"}, tbl)
		assert.Equal(t, 45.0, got)
	})

	t.Run("irrelevant term falls to the zero-match floor", func(t *testing.T) {
		got := ScoreForQuery(profile, tags, []string{"logistics"}, tbl)
		assert.Equal(t, 20.0, got)
	})
}

func TestScoreForQueryEmptyTerms(t *testing.T) {
	tbl := exampleTable(t)
	profile := Profile{EducationLevel: "masters", Skills: []string{"medical"}}

	assert.Equal(t, 10.0, ScoreForQuery(profile, []string{"medical"}, nil, tbl))
	assert.Equal(t, 10.0, ScoreForQuery(profile, nil, []string{"", "  "}, tbl))
}

func TestScoreForQuerySoonAvailability(t *testing.T) {
	tbl := exampleTable(t)
	base := Profile{EducationLevel: "masters", Skills: []string{"medical"}}

	immediate := base
	immediate.Availability = "immediate"
	allocated := base
	allocated.Availability = "allocated"

	// Floor scores for an irrelevant query, isolating the availability term.
	assert.Equal(t, 25.0, ScoreForQuery(immediate, nil, []string{"logistics"}, tbl))
	assert.Equal(t, 20.0, ScoreForQuery(allocated, nil, []string{"logistics"}, tbl))
}

func TestScoreForQueryCategoryMatchWithoutTag(t *testing.T) {
	tbl := exampleTable(t)
	profile := Profile{Skills: []string{"medical"}}

	// Category hit without the stored tag earns no confirmation bonus.
	got := ScoreForQuery(profile, nil, []string{"medical"}, tbl)
	assert.Equal(t, 25.0, got)
}

func TestScoreForQuerySubstringMatching(t *testing.T) {
	tbl := exampleTable(t)
	profile := Profile{Skills: []string{"something else"}}

	// Term contained in a keyword and keyword contained in a term both match.
	assert.Equal(t, 25.0, ScoreForQuery(profile, nil, []string{"medic"}, tbl))
	assert.Equal(t, 25.0, ScoreForQuery(profile, nil, []string{"paramedical"}, tbl))
}

func TestScoreForQueryTextAndTagCredit(t *testing.T) {
	tbl := exampleTable(t)

	t.Run("plain text overlap", func(t *testing.T) {
		profile := Profile{FreeText: "experienced welder"}
		got := ScoreForQuery(profile, nil, []string{"welder"}, tbl)
		assert.Equal(t, 15.0, got)
	})

	t.Run("tag overlap", func(t *testing.T) {
		profile := Profile{}
		got := ScoreForQuery(profile, []string{"drones"}, []string{"drone"}, tbl)
		assert.Equal(t, 18.0, got)
	})

	t.Run("text and tag stack for one term", func(t *testing.T) {
		profile := Profile{FreeText: "drone pilot"}
		got := ScoreForQuery(profile, []string{"drones"}, []string{"drone"}, tbl)
		assert.Equal(t, 23.0, got)
	})
}

func TestScoreForQueryDeterminism(t *testing.T) {
	tbl := exampleTable(t)
	profile := Profile{
		EducationLevel: "masters",
		Skills:         []string{"medical"},
		FreeText:       "drone pilot and welder",
		Availability:   "immediate",
	}
	terms := []string{"medical", "drone", "welder"}

	first := ScoreForQuery(profile, []string{"medical"}, terms, tbl)
	second := ScoreForQuery(profile, []string{"medical"}, terms, tbl)
	assert.Equal(t, first, second)
}
