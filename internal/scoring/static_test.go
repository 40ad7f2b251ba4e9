package scoring

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civitas/internal/rules"
)

func loadTable(t *testing.T, yaml string) *rules.Table {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	return rules.Load(path, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// exampleTable is the canonical worked example: base 10, a medical category of
// weight 1.0 with the single keyword "medical", masters education worth 10.
func exampleTable(t *testing.T) *rules.Table {
	t.Helper()
	return loadTable(t, `
base_score: 10
max_score: 100
categories:
  medical:
    weight: 1.0
    keywords:
      en: [medical]
education_scores:
  masters: 10
`)
}

func TestScoreWorkedExample(t *testing.T) {
	profile := Profile{
		EducationLevel: "masters",
		Skills:         []string{"medical", "emergency"},
		Availability:   "available",
	}

	result := Score(profile, exampleTable(t), nil)

	assert.Equal(t, []string{"medical"}, result.Tags)
	assert.Equal(t, 30.0, result.Score)
}

func TestScoreDeterminism(t *testing.T) {
	profile := Profile{
		EducationLevel: "masters",
		Skills:         []string{"medical"},
		FreeText:       "medical volunteer with drone experience",
		Availability:   "immediate",
		Industry:       "healthcare",
	}
	tbl := exampleTable(t)

	first := Score(profile, tbl, []string{"drones"})
	second := Score(profile, tbl, []string{"drones"})

	assert.Equal(t, first, second)
}

func TestScoreBounds(t *testing.T) {
	t.Run("ceiling clamps", func(t *testing.T) {
		tbl := loadTable(t, `
base_score: 10
max_score: 100
categories:
  medical:
    weight: 50.0
    keywords:
      en: [medical]
`)
		result := Score(Profile{Skills: []string{"medical"}}, tbl, nil)
		assert.Equal(t, 100.0, result.Score)
	})

	t.Run("empty profile sits at base", func(t *testing.T) {
		result := Score(Profile{}, exampleTable(t), nil)
		assert.Equal(t, 10.0, result.Score)
		assert.Empty(t, result.Tags)
	})
}

func TestScoreKeywordHitsCountPerKeyword(t *testing.T) {
	tbl := loadTable(t, `
base_score: 10
max_score: 100
categories:
  medical:
    weight: 1.0
    keywords:
      en: [medical, nurse]
      fi: [sairaanhoitaja]
`)

	// Each distinct matched keyword scores; repeating one keyword does not.
	single := Score(Profile{Skills: []string{"medical", "medical", "medical"}}, tbl, nil)
	double := Score(Profile{Skills: []string{"medical"}, FreeText: "nurse"}, tbl, nil)

	assert.Equal(t, 20.0, single.Score)
	assert.Equal(t, 30.0, double.Score)
	assert.Equal(t, []string{"medical"}, double.Tags)
}

func TestScoreAvailabilityBonus(t *testing.T) {
	tbl := loadTable(t, `
base_score: 10
max_score: 100
categories:
  medical:
    weight: 1.0
    keywords:
      en: [medical]
    availability_bonus:
      immediate: 5
      24h: 3
`)

	immediate := Score(Profile{Skills: []string{"medical"}, Availability: "immediate"}, tbl, nil)
	later := Score(Profile{Skills: []string{"medical"}, Availability: "24h"}, tbl, nil)
	unknown := Score(Profile{Skills: []string{"medical"}, Availability: "whenever"}, tbl, nil)

	assert.Equal(t, 25.0, immediate.Score)
	assert.Equal(t, 23.0, later.Score)
	assert.Equal(t, 20.0, unknown.Score, "unknown availability contributes nothing")
}

func TestScoreResources(t *testing.T) {
	tbl := loadTable(t, `
base_score: 10
max_score: 100
categories:
  medical:
    weight: 1.0
    keywords:
      en: [medical]
resources:
  drone:
    weight: 2.0
    items:
      quadcopter: 3.0
`)

	t.Run("known resource scores weight times quantity and tags", func(t *testing.T) {
		result := Score(Profile{
			Resources: []Resource{{Category: "drone", Subtype: "quadcopter", Quantity: 2}},
		}, tbl, nil)
		// 10 base + 3*2*2
		assert.Equal(t, 22.0, result.Score)
		assert.Equal(t, []string{"drone.quadcopter"}, result.Tags)
	})

	t.Run("missing quantity defaults to one", func(t *testing.T) {
		result := Score(Profile{
			Resources: []Resource{{Category: "drone", Subtype: "quadcopter"}},
		}, tbl, nil)
		assert.Equal(t, 16.0, result.Score)
	})

	t.Run("negative quantity contributes nothing but still tags", func(t *testing.T) {
		result := Score(Profile{
			Resources: []Resource{{Category: "drone", Subtype: "quadcopter", Quantity: -5}},
		}, tbl, nil)
		assert.Equal(t, 10.0, result.Score)
		assert.Equal(t, []string{"drone.quadcopter"}, result.Tags)
	})

	t.Run("unknown pair contributes nothing and does not tag", func(t *testing.T) {
		result := Score(Profile{
			Resources: []Resource{{Category: "boat", Subtype: "dinghy", Quantity: 3}},
		}, tbl, nil)
		assert.Equal(t, 10.0, result.Score)
		assert.Empty(t, result.Tags)
	})

	t.Run("numeric specs are capped per entry", func(t *testing.T) {
		result := Score(Profile{
			Resources: []Resource{{
				Category: "drone",
				Subtype:  "quadcopter",
				Quantity: 1,
				Specs:    map[string]any{"range_km": 100, "payload_kg": 5, "color": "red"},
			}},
		}, tbl, nil)
		// 10 base + 6 resource + 2 (range capped) + 0.5 payload; "color" ignored
		assert.Equal(t, 18.5, result.Score)
	})
}

func TestScoreSuggestedTags(t *testing.T) {
	result := Score(Profile{EducationLevel: "masters"}, exampleTable(t), []string{"drones", "", "leadership"})

	require.Equal(t, []string{"drones", "leadership"}, result.Tags)
	// 10 base + 10 education + 2 + 2
	assert.Equal(t, 24.0, result.Score)
}

func TestScoreIndustry(t *testing.T) {
	tbl := loadTable(t, `
base_score: 10
max_score: 100
categories:
  medical:
    weight: 1.0
    keywords:
      en: [medical]
industries:
  healthcare: 7
`)

	t.Run("known industry adds bonus and tag", func(t *testing.T) {
		result := Score(Profile{Industry: "healthcare"}, tbl, nil)
		assert.Equal(t, 17.0, result.Score)
		assert.Equal(t, []string{"industry.healthcare"}, result.Tags)
	})

	t.Run("unknown industry is inert", func(t *testing.T) {
		result := Score(Profile{Industry: "finance"}, tbl, nil)
		assert.Equal(t, 10.0, result.Score)
		assert.Empty(t, result.Tags)
	})
}

func TestScoreRoundsToOneDecimal(t *testing.T) {
	tbl := loadTable(t, `
base_score: 10
max_score: 100
categories:
  medical:
    weight: 1.0
    keywords:
      en: [medical]
resources:
  drone:
    weight: 1.0
    items:
      quadcopter: 1.0
`)

	result := Score(Profile{
		Resources: []Resource{{
			Category: "drone", Subtype: "quadcopter", Quantity: 1,
			Specs: map[string]any{"range_km": 1.23},
		}},
	}, tbl, nil)
	// 10 + 1 + 0.123 rounds down
	assert.Equal(t, 11.1, result.Score)
}
