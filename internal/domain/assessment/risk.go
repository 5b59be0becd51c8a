package assessment

import (
	"fmt"
	"sort"
	"strings"
)

// ContributionSource tags the origin of a risk contribution.
type ContributionSource string

const (
	SourceNutrientThreshold    ContributionSource = "nutrient-threshold"
	SourceAdditive             ContributionSource = "additive"
	SourceAllergen             ContributionSource = "allergen"
	SourceConditionInteraction ContributionSource = "condition-interaction"
)

// RiskContribution is one weighted factor feeding the aggregate score.
type RiskContribution struct {
	Source      ContributionSource `json:"source"`
	Severity    Severity           `json:"severity"`
	Weight      float64            `json:"weight"`
	Key         string             `json:"key"`
	Condition   Condition          `json:"condition,omitempty"`
	Explanation string             `json:"explanation"`

	// pos is the first-occurrence ordinal in the input data, used as
	// the deterministic tie-break when severity and weight are equal.
	pos int
}

// allergenWeight is the fixed weight of an allergen contribution.
// Allergens are never diluted by averaging; the scorer treats any
// allergen contribution as an absolute override regardless of weight.
const allergenWeight = 100

// NutrientRule maps a per-serving nutrient threshold to a weighted
// contribution. Rules for the same nutrient are ordered most severe
// first; the first rule that fires wins.
type NutrientRule struct {
	Nutrient  Nutrient
	Threshold float64 // canonical unit (mg for sodium, kcal for calories, g otherwise)
	Severity  Severity
	Weight    float64
	Message   string
}

// IngredientRule maps the presence of an ingredient substring to a
// weighted contribution. FirstOnly restricts the match to the first
// declared ingredient (first-ingredient dominance).
type IngredientRule struct {
	Match     string
	FirstOnly bool
	Severity  Severity
	Weight    float64
	Message   string
}

// AdditiveClass groups additives for condition-specific weighting.
type AdditiveClass string

const (
	AdditiveClassSodium       AdditiveClass = "sodium"
	AdditiveClassSweetener    AdditiveClass = "sweetener"
	AdditiveClassColorant     AdditiveClass = "colorant"
	AdditiveClassPreservative AdditiveClass = "preservative"
	AdditiveClassAntioxidant  AdditiveClass = "antioxidant"
	AdditiveClassTexture      AdditiveClass = "texture"
	AdditiveClassOther        AdditiveClass = "other"
)

// EvidenceLookup supplies concern evidence for a normalized additive
// name. A nil lookup degrades every additive to unverified.
type EvidenceLookup func(name string) AdditiveEvidence

// Ruleset is the full risk-weighting model: a fixed mapping from
// condition tags to ordered rule descriptors, stored as data and
// evaluated uniformly.
type Ruleset struct {
	ConditionRules   map[Condition][]NutrientRule
	InteractionRules map[Condition][]IngredientRule
	GoalRules        map[DietGoal][]NutrientRule

	// Additive weighting
	AdditiveWeights          map[Severity]float64
	UnverifiedAdditiveWeight float64
	AdditiveScale            map[Condition]map[AdditiveClass]float64
	KnownAdditives           map[string]AdditiveClass

	// Allergen tag -> additional ingredient terms that imply it
	AllergenSynonyms map[string][]string
}

// Validate checks that the ruleset is usable. Called once at startup;
// an invalid ruleset is a configuration error, not a per-request one.
func (rs Ruleset) Validate() error {
	if len(rs.ConditionRules) == 0 {
		return ErrEmptyRuleset
	}
	for cond, rules := range rs.ConditionRules {
		for _, r := range rules {
			if r.Weight < 0 || r.Threshold < 0 {
				return fmt.Errorf("%w: negative weight or threshold for %s", ErrEmptyRuleset, cond)
			}
		}
	}
	return nil
}

// Evaluate is the pure risk-weighting function. It returns the ordered
// contribution list (allergens first, then descending severity and
// weight, ties broken by first occurrence in the input) and the subset
// of profile conditions that were actually evaluated against this
// product's data.
func (rs Ruleset) Evaluate(facts NutrientFacts, ingredients IngredientList, profile UserProfile, evidence EvidenceLookup) ([]RiskContribution, []Condition) {
	var contribs []RiskContribution

	lowered := make([]string, len(ingredients))
	for i, ing := range ingredients {
		lowered[i] = strings.ToLower(ing)
	}

	// Ingredient-derived positions come after the fixed nutrient
	// positions so mixed ties stay deterministic.
	ingBase := len(nutrientOrder)

	contribs = append(contribs, rs.allergenContributions(lowered, profile, ingBase)...)

	evaluated := make([]Condition, 0, len(profile.Conditions))
	for _, cond := range profile.Conditions {
		condContribs, touched := rs.evaluateCondition(cond, facts, lowered, ingBase)
		contribs = append(contribs, condContribs...)
		if touched {
			evaluated = append(evaluated, cond)
		}
	}

	contribs = append(contribs, rs.goalContributions(facts, profile.Goal)...)
	contribs = append(contribs, rs.additiveContributions(lowered, profile, evidence, ingBase)...)

	sortContributions(contribs)
	return contribs, evaluated
}

// allergenContributions matches profile allergens against the
// ingredient list via substring and synonym matching. Any match is a
// maximum-severity contribution.
func (rs Ruleset) allergenContributions(lowered []string, profile UserProfile, ingBase int) []RiskContribution {
	var out []RiskContribution
	for _, allergen := range profile.Allergens {
		terms := append([]string{allergen}, rs.AllergenSynonyms[allergen]...)
	scan:
		for i, ing := range lowered {
			for _, term := range terms {
				if term != "" && strings.Contains(ing, term) {
					out = append(out, RiskContribution{
						Source:      SourceAllergen,
						Severity:    SeverityCritical,
						Weight:      allergenWeight,
						Key:         allergen,
						Explanation: fmt.Sprintf("Contains %q, which matches your %s allergy.", ing, allergen),
						pos:         ingBase + i,
					})
					break scan
				}
			}
		}
	}
	return out
}

// evaluateCondition applies one condition's ordered rule descriptors.
// The first rule that fires per nutrient wins. The second return
// reports whether any rule could be checked against the input.
func (rs Ruleset) evaluateCondition(cond Condition, facts NutrientFacts, lowered []string, ingBase int) ([]RiskContribution, bool) {
	var out []RiskContribution
	touched := false

	fired := make(map[Nutrient]bool)
	for _, rule := range rs.ConditionRules[cond] {
		value, known := facts.Lookup(rule.Nutrient)
		if !known {
			// missing nutrient is unknown, not zero
			continue
		}
		touched = true
		if fired[rule.Nutrient] || value <= rule.Threshold {
			continue
		}
		fired[rule.Nutrient] = true
		out = append(out, RiskContribution{
			Source:    SourceNutrientThreshold,
			Severity:  rule.Severity,
			Weight:    rule.Weight,
			Key:       string(rule.Nutrient),
			Condition: cond,
			Explanation: fmt.Sprintf("%s: %s (%s per serving, guideline %s)",
				cond, rule.Message, formatAmount(rule.Nutrient, value), formatAmount(rule.Nutrient, rule.Threshold)),
			pos: nutrientPosition(rule.Nutrient),
		})
	}

	for _, rule := range rs.InteractionRules[cond] {
		limit := len(lowered)
		if rule.FirstOnly && limit > 1 {
			limit = 1
		}
		for i := 0; i < limit; i++ {
			if !strings.Contains(lowered[i], rule.Match) {
				continue
			}
			touched = true
			out = append(out, RiskContribution{
				Source:      SourceConditionInteraction,
				Severity:    rule.Severity,
				Weight:      rule.Weight,
				Key:         rule.Match,
				Condition:   cond,
				Explanation: fmt.Sprintf("%s: %s (%q)", cond, rule.Message, lowered[i]),
				pos:         ingBase + i,
			})
			break
		}
	}

	return out, touched
}

// goalContributions applies dietary-goal rules. Goals contribute small
// weights; they steer the score without dominating medical rules.
func (rs Ruleset) goalContributions(facts NutrientFacts, goal DietGoal) []RiskContribution {
	var out []RiskContribution
	fired := make(map[Nutrient]bool)
	for _, rule := range rs.GoalRules[goal] {
		value, known := facts.Lookup(rule.Nutrient)
		if !known || fired[rule.Nutrient] || value <= rule.Threshold {
			continue
		}
		fired[rule.Nutrient] = true
		out = append(out, RiskContribution{
			Source:   SourceConditionInteraction,
			Severity: rule.Severity,
			Weight:   rule.Weight,
			Key:      "goal:" + string(goal),
			Explanation: fmt.Sprintf("%s goal: %s (%s per serving)",
				goal, rule.Message, formatAmount(rule.Nutrient, value)),
			pos: nutrientPosition(rule.Nutrient),
		})
	}
	return out
}

// additiveContributions recognizes known additives and E-codes in the
// ingredient list and weights them by resolved evidence severity,
// scaled up when the user has a condition for which the additive class
// is implicated.
func (rs Ruleset) additiveContributions(lowered []string, profile UserProfile, evidence EvidenceLookup, ingBase int) []RiskContribution {
	var out []RiskContribution
	seen := make(map[string]bool)

	for i, ing := range lowered {
		name := NormalizeAdditiveName(ing)
		class, known := rs.KnownAdditives[name]
		if !known {
			if !IsECode(name) {
				continue
			}
			class = AdditiveClassOther
		}
		if seen[name] {
			continue
		}
		seen[name] = true

		ev := UnverifiedEvidence(name)
		if evidence != nil {
			ev = evidence(name)
		}

		weight := rs.AdditiveWeights[ev.Severity]
		if ev.Unverified {
			weight = rs.UnverifiedAdditiveWeight
		}

		scale := 1.0
		var scaledFor Condition
		for _, cond := range profile.Conditions {
			if s, ok := rs.AdditiveScale[cond][class]; ok && s > scale {
				scale = s
				scaledFor = cond
			}
		}
		weight *= scale

		if weight == 0 {
			continue
		}

		explanation := ev.Summary
		if explanation == "" {
			explanation = fmt.Sprintf("Additive %s has %s concern severity.", ev.Name, ev.Severity)
		}
		if ev.Unverified {
			explanation += " (unverified: no sourced evidence found)"
		}
		if scaledFor != "" {
			explanation += fmt.Sprintf(" Weighted higher due to your %s.", scaledFor)
		}

		out = append(out, RiskContribution{
			Source:      SourceAdditive,
			Severity:    ev.Severity,
			Weight:      weight,
			Key:         name,
			Condition:   scaledFor,
			Explanation: explanation,
			pos:         ingBase + i,
		})
	}
	return out
}

// sortContributions orders allergen contributions first, then by
// descending severity, descending weight, and first-occurrence
// position. The sort is stable and deterministic.
func sortContributions(contribs []RiskContribution) {
	sort.SliceStable(contribs, func(i, j int) bool {
		a, b := contribs[i], contribs[j]
		aAllergen := a.Source == SourceAllergen
		bAllergen := b.Source == SourceAllergen
		if aAllergen != bAllergen {
			return aAllergen
		}
		if a.Severity.Rank() != b.Severity.Rank() {
			return a.Severity.Rank() > b.Severity.Rank()
		}
		if a.Weight != b.Weight {
			return a.Weight > b.Weight
		}
		return a.pos < b.pos
	})
}

func nutrientPosition(n Nutrient) int {
	for i, candidate := range nutrientOrder {
		if candidate == n {
			return i
		}
	}
	return len(nutrientOrder)
}

func formatAmount(n Nutrient, value float64) string {
	switch n {
	case NutrientSodium:
		return fmt.Sprintf("%.0fmg", value)
	case NutrientCalories:
		return fmt.Sprintf("%.0fkcal", value)
	default:
		return fmt.Sprintf("%.1fg", value)
	}
}
