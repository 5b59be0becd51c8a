package assessment

import "fmt"

// ScoreCurve maps aggregate weighted risk onto the 0-100 scale.
// The curve is piecewise linear: zero risk scores 100, risk at or above
// Saturation scores Floor. Floor is above zero so one severe finding is
// never presented as equivalent to dozens.
type ScoreCurve struct {
	Floor      float64
	Saturation float64
}

// DefaultScoreCurve returns the built-in curve parameters.
func DefaultScoreCurve() ScoreCurve {
	return ScoreCurve{Floor: 5, Saturation: 60}
}

// Validate checks curve invariants. Invalid parameters are a startup
// configuration error.
func (c ScoreCurve) Validate() error {
	if c.Floor < 0 || c.Floor >= 100 {
		return fmt.Errorf("%w: floor %v out of [0,100)", ErrInvalidCurve, c.Floor)
	}
	if c.Saturation <= 0 {
		return fmt.Errorf("%w: saturation %v must be positive", ErrInvalidCurve, c.Saturation)
	}
	return nil
}

// apply maps an aggregate risk value to a score. Monotonically
// non-increasing in risk, deterministic, no hidden state.
func (c ScoreCurve) apply(risk float64) float64 {
	if risk <= 0 {
		return 100
	}
	if risk >= c.Saturation {
		return c.Floor
	}
	return 100 - (100-c.Floor)*risk/c.Saturation
}

// ScoreResult is the outcome of one scoring call. Created fresh per
// call and never mutated after construction.
type ScoreResult struct {
	Score            float64            `json:"score"`
	Contributions    []RiskContribution `json:"contributions"`
	Evaluated        []Condition        `json:"evaluated_conditions"`
	AllergenOverride bool               `json:"allergen_override"`
}

// ComputeScore folds ordered contributions into a single score. Any
// allergen contribution forces the score to the curve floor and is
// recorded as a distinct override flag so callers can render it apart
// from a merely low nutrient score.
func ComputeScore(contribs []RiskContribution, evaluated []Condition, curve ScoreCurve) ScoreResult {
	result := ScoreResult{
		Contributions: contribs,
		Evaluated:     evaluated,
	}

	var risk float64
	for _, c := range contribs {
		if c.Source == SourceAllergen {
			result.AllergenOverride = true
			continue
		}
		risk += c.Weight
	}

	if result.AllergenOverride {
		result.Score = curve.Floor
		return result
	}

	result.Score = curve.apply(risk)
	return result
}
