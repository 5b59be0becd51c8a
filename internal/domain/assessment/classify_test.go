package assessment

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifierConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultClassifierConfig().Validate())

	bad := DefaultClassifierConfig()
	bad.CautionMin = 80
	assert.ErrorIs(t, bad.Validate(), ErrInvalidTierBands)

	bad = DefaultClassifierConfig()
	bad.MaxTrace = 0
	assert.ErrorIs(t, bad.Validate(), ErrInvalidTierBands)
}

func TestClassifyBands(t *testing.T) {
	cfg := DefaultClassifierConfig()
	tests := []struct {
		score float64
		want  Tier
	}{
		{95, TierFavorable},
		{70, TierFavorable},
		{69.9, TierCaution},
		{40, TierCaution},
		{39.9, TierAvoid},
		{5, TierAvoid},
	}
	for _, tt := range tests {
		rec := Classify(ScoreResult{Score: tt.score}, nil, UserProfile{}, cfg)
		assert.Equal(t, tt.want, rec.Tier, "score %v", tt.score)
	}
}

func TestClassifyAllergenForcesAvoid(t *testing.T) {
	rs := DefaultRuleset()
	ingredients := IngredientList{"wheat flour", "peanut oil", "salt"}
	profile := UserProfile{Allergens: []string{"peanut"}}

	contribs, evaluated := rs.Evaluate(NutrientFacts{}, ingredients, profile, nil)
	result := ComputeScore(contribs, evaluated, DefaultScoreCurve())
	rec := Classify(result, ingredients, profile, DefaultClassifierConfig())

	assert.Equal(t, TierAvoid, rec.Tier)
	require.NotEmpty(t, rec.Trace)
	assert.Equal(t, SourceAllergen, rec.Trace[0].Source)
}

func TestClassifyContraindicationForcesAvoid(t *testing.T) {
	// A tiny amount of trans fat scores well numerically but is still
	// contraindicated for high cholesterol.
	ingredients := IngredientList{"flour", "partially hydrogenated soybean oil"}
	profile := UserProfile{Conditions: []Condition{ConditionHighCholesterol}}

	rec := Classify(ScoreResult{Score: 85}, ingredients, profile, DefaultClassifierConfig())

	assert.Equal(t, TierAvoid, rec.Tier)
	require.NotEmpty(t, rec.Trace)
	assert.Equal(t, SourceConditionInteraction, rec.Trace[0].Source)
	assert.Contains(t, rec.Trace[0].Explanation, "contraindicated")
}

func TestClassifyNonFavorableTraceNeverEmpty(t *testing.T) {
	rec := Classify(ScoreResult{Score: 30}, nil, UserProfile{}, DefaultClassifierConfig())

	assert.Equal(t, TierAvoid, rec.Tier)
	require.Len(t, rec.Trace, 1)
	assert.Equal(t, "score-band", rec.Trace[0].Key)
}

func TestClassifyTraceTruncated(t *testing.T) {
	cfg := DefaultClassifierConfig()
	var contribs []RiskContribution
	for i := 0; i < cfg.MaxTrace+4; i++ {
		contribs = append(contribs, RiskContribution{
			Source:      SourceAdditive,
			Severity:    SeverityLow,
			Weight:      4,
			Key:         fmt.Sprintf("additive-%d", i),
			Explanation: "minor concern",
		})
	}

	rec := Classify(ScoreResult{Score: 45, Contributions: contribs}, nil, UserProfile{}, cfg)
	assert.Equal(t, TierCaution, rec.Tier)
	assert.Len(t, rec.Trace, cfg.MaxTrace)
}

func TestClassifyFavorableMayHaveEmptyTrace(t *testing.T) {
	rec := Classify(ScoreResult{Score: 100}, nil, UserProfile{}, DefaultClassifierConfig())
	assert.Equal(t, TierFavorable, rec.Tier)
	assert.Empty(t, rec.Trace)
}
