package assessment

import (
	"fmt"
	"strings"
)

// Tier is the three-way menu recommendation outcome.
type Tier string

const (
	TierFavorable Tier = "favorable"
	TierCaution   Tier = "caution"
	TierAvoid     Tier = "avoid"
)

// Recommendation pairs a tier with the explanation trace shown behind
// the "why?" affordance. The trace is never empty when the tier is not
// favorable.
type Recommendation struct {
	Tier  Tier               `json:"tier"`
	Trace []RiskContribution `json:"trace"`
}

// ClassifierConfig holds the tier thresholds and override tables.
// These are configuration, consistent across all calls in a session.
type ClassifierConfig struct {
	FavorableMin float64
	CautionMin   float64
	MaxTrace     int

	// Contraindications maps a condition to ingredient substrings that
	// are never acceptable for it regardless of quantity.
	Contraindications map[Condition][]string
}

// DefaultClassifierConfig returns the built-in classifier settings.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		FavorableMin: 70,
		CautionMin:   40,
		MaxTrace:     5,
		Contraindications: map[Condition][]string{
			ConditionDiabetes:        {"high fructose corn syrup"},
			ConditionHighCholesterol: {"partially hydrogenated"},
			ConditionKidneyDisease:   {"potassium chloride"},
		},
	}
}

// Validate checks classifier invariants at startup.
func (c ClassifierConfig) Validate() error {
	if c.CautionMin >= c.FavorableMin {
		return fmt.Errorf("%w: caution minimum %v must be below favorable minimum %v",
			ErrInvalidTierBands, c.CautionMin, c.FavorableMin)
	}
	if c.FavorableMin > 100 || c.CautionMin < 0 {
		return fmt.Errorf("%w: bands must lie within [0,100]", ErrInvalidTierBands)
	}
	if c.MaxTrace <= 0 {
		return fmt.Errorf("%w: max trace must be positive", ErrInvalidTierBands)
	}
	return nil
}

// Classify maps a score result onto a tier. Hard overrides are checked
// first and are terminal: an allergen match or a condition-specific
// contraindication forces TierAvoid. Otherwise the numeric score is
// banded by the configured thresholds.
func Classify(result ScoreResult, ingredients IngredientList, profile UserProfile, cfg ClassifierConfig) Recommendation {
	if result.AllergenOverride {
		return Recommendation{Tier: TierAvoid, Trace: truncateTrace(result.Contributions, cfg.MaxTrace)}
	}

	if contra := findContraindication(ingredients, profile, cfg.Contraindications); contra != nil {
		trace := append([]RiskContribution{*contra}, result.Contributions...)
		return Recommendation{Tier: TierAvoid, Trace: truncateTrace(trace, cfg.MaxTrace)}
	}

	var tier Tier
	switch {
	case result.Score >= cfg.FavorableMin:
		tier = TierFavorable
	case result.Score >= cfg.CautionMin:
		tier = TierCaution
	default:
		tier = TierAvoid
	}

	trace := truncateTrace(result.Contributions, cfg.MaxTrace)
	if tier != TierFavorable && len(trace) == 0 {
		// A non-favorable tier always carries an explanation, even when
		// no single contribution survives (e.g. many tiny weights).
		trace = []RiskContribution{{
			Source:      SourceNutrientThreshold,
			Severity:    SeverityLow,
			Key:         "score-band",
			Explanation: fmt.Sprintf("Overall score %.0f falls below the %s threshold.", result.Score, tier),
		}}
	}

	return Recommendation{Tier: tier, Trace: trace}
}

// findContraindication scans the ingredient list for condition-specific
// absolute contraindications.
func findContraindication(ingredients IngredientList, profile UserProfile, table map[Condition][]string) *RiskContribution {
	for _, cond := range profile.Conditions {
		for _, match := range table[cond] {
			for i, ing := range ingredients {
				if strings.Contains(strings.ToLower(ing), match) {
					return &RiskContribution{
						Source:      SourceConditionInteraction,
						Severity:    SeverityHigh,
						Weight:      allergenWeight,
						Key:         match,
						Condition:   cond,
						Explanation: fmt.Sprintf("%s: %q is contraindicated regardless of quantity.", cond, ingredients[i]),
					}
				}
			}
		}
	}
	return nil
}

func truncateTrace(contribs []RiskContribution, max int) []RiskContribution {
	if max > 0 && len(contribs) > max {
		return contribs[:max]
	}
	return contribs
}
