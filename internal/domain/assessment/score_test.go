package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreCurveValidate(t *testing.T) {
	assert.NoError(t, DefaultScoreCurve().Validate())
	assert.ErrorIs(t, ScoreCurve{Floor: -1, Saturation: 60}.Validate(), ErrInvalidCurve)
	assert.ErrorIs(t, ScoreCurve{Floor: 100, Saturation: 60}.Validate(), ErrInvalidCurve)
	assert.ErrorIs(t, ScoreCurve{Floor: 5, Saturation: 0}.Validate(), ErrInvalidCurve)
}

func TestComputeScoreNoRiskIsPerfect(t *testing.T) {
	result := ComputeScore(nil, nil, DefaultScoreCurve())
	assert.Equal(t, 100.0, result.Score)
	assert.False(t, result.AllergenOverride)
}

func TestComputeScoreMonotoneInRisk(t *testing.T) {
	curve := DefaultScoreCurve()
	prev := 101.0
	for weight := 0.0; weight <= 100; weight += 5 {
		result := ComputeScore([]RiskContribution{
			{Source: SourceNutrientThreshold, Weight: weight},
		}, nil, curve)
		assert.LessOrEqual(t, result.Score, prev, "weight %v", weight)
		assert.GreaterOrEqual(t, result.Score, curve.Floor)
		prev = result.Score
	}
}

func TestComputeScoreSaturates(t *testing.T) {
	curve := DefaultScoreCurve()
	result := ComputeScore([]RiskContribution{
		{Source: SourceNutrientThreshold, Weight: 500},
	}, nil, curve)
	assert.Equal(t, curve.Floor, result.Score,
		"one catastrophic finding and fifty are both floored, never negative")
}

func TestComputeScoreHighSodiumHypertensionExample(t *testing.T) {
	rs := DefaultRuleset()
	facts := NutrientFacts{NutrientSodium: {Value: 900, Unit: "mg"}}
	ingredients := IngredientList{"water", "sodium benzoate"}
	profile := UserProfile{Conditions: []Condition{ConditionHypertension}}

	contribs, evaluated := rs.Evaluate(facts, ingredients, profile, staticLookup(benzoateEvidence()))
	result := ComputeScore(contribs, evaluated, DefaultScoreCurve())

	assert.Less(t, result.Score, 50.0)
	require.NotEmpty(t, result.Contributions)
	assert.Equal(t, string(NutrientSodium), result.Contributions[0].Key)
}

func TestComputeScoreAllergenOverride(t *testing.T) {
	rs := DefaultRuleset()
	contribs, evaluated := rs.Evaluate(NutrientFacts{}, IngredientList{"peanut oil"},
		UserProfile{Allergens: []string{"peanut"}}, nil)

	curve := DefaultScoreCurve()
	result := ComputeScore(contribs, evaluated, curve)

	assert.True(t, result.AllergenOverride)
	assert.Equal(t, curve.Floor, result.Score)
}

func TestComputeScoreAllergenNotDiluted(t *testing.T) {
	// A long list of harmless contributions must not lift an allergen
	// result above the floor.
	contribs := []RiskContribution{
		{Source: SourceAllergen, Severity: SeverityCritical, Weight: allergenWeight},
	}
	for i := 0; i < 20; i++ {
		contribs = append(contribs, RiskContribution{Source: SourceAdditive, Weight: 0})
	}

	curve := DefaultScoreCurve()
	result := ComputeScore(contribs, nil, curve)
	assert.Equal(t, curve.Floor, result.Score)
	assert.True(t, result.AllergenOverride)
}
