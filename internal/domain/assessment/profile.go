// Package assessment contains the core domain logic for personalized
// food-risk assessment. This follows Domain-Driven Design principles:
// the package holds value objects and pure evaluation functions and has
// no infrastructure dependencies.
package assessment

import (
	"fmt"
	"strings"
)

// Condition is a user-declared health condition that activates
// condition-specific scoring rules.
type Condition string

const (
	ConditionDiabetes        Condition = "diabetes"
	ConditionHypertension    Condition = "hypertension"
	ConditionHighCholesterol Condition = "high-cholesterol"
	ConditionPCOS            Condition = "pcos"
	ConditionKidneyDisease   Condition = "kidney-disease"
)

// knownConditions is the set of conditions the rule tables cover.
var knownConditions = map[Condition]struct{}{
	ConditionDiabetes:        {},
	ConditionHypertension:    {},
	ConditionHighCholesterol: {},
	ConditionPCOS:            {},
	ConditionKidneyDisease:   {},
}

// ParseCondition normalizes a condition tag and validates it against the
// known set. Accepts a few common spellings ("high cholesterol", "ckd").
func ParseCondition(s string) (Condition, error) {
	tag := strings.ToLower(strings.TrimSpace(s))
	switch tag {
	case "high cholesterol", "cholesterol":
		tag = string(ConditionHighCholesterol)
	case "ckd", "kidney disease":
		tag = string(ConditionKidneyDisease)
	}
	c := Condition(tag)
	if _, ok := knownConditions[c]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCondition, s)
	}
	return c, nil
}

// DietGoal represents the user's dietary goal.
type DietGoal string

const (
	GoalGeneral    DietGoal = "general"
	GoalWeightLoss DietGoal = "weight-loss"
	GoalMuscleGain DietGoal = "muscle-gain"
)

// ParseDietGoal normalizes a goal tag. An empty tag maps to GoalGeneral.
func ParseDietGoal(s string) (DietGoal, error) {
	tag := strings.ToLower(strings.TrimSpace(s))
	switch tag {
	case "", string(GoalGeneral):
		return GoalGeneral, nil
	case "lose weight", "weight loss", string(GoalWeightLoss):
		return GoalWeightLoss, nil
	case "gain muscle", "muscle gain", string(GoalMuscleGain):
		return GoalMuscleGain, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownGoal, s)
}

// UserProfile holds the health context an assessment is personalized
// against. It is owned by the caller, immutable per assessment, and
// passed by value into every scoring call.
type UserProfile struct {
	Conditions []Condition
	Allergens  []string
	Goal       DietGoal
}

// NewUserProfile builds a validated profile from raw tags.
func NewUserProfile(conditions []string, allergens []string, goal string) (UserProfile, error) {
	p := UserProfile{Goal: GoalGeneral}

	for _, raw := range conditions {
		c, err := ParseCondition(raw)
		if err != nil {
			return UserProfile{}, err
		}
		p.Conditions = append(p.Conditions, c)
	}

	for _, a := range allergens {
		a = strings.ToLower(strings.TrimSpace(a))
		if a == "" {
			return UserProfile{}, ErrEmptyAllergen
		}
		p.Allergens = append(p.Allergens, a)
	}

	g, err := ParseDietGoal(goal)
	if err != nil {
		return UserProfile{}, err
	}
	p.Goal = g

	return p, nil
}

// Validate checks profile invariants. A zero-value profile is valid and
// produces an unpersonalized assessment.
func (p UserProfile) Validate() error {
	for _, c := range p.Conditions {
		if _, ok := knownConditions[c]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownCondition, c)
		}
	}
	for _, a := range p.Allergens {
		if strings.TrimSpace(a) == "" {
			return ErrEmptyAllergen
		}
	}
	switch p.Goal {
	case GoalGeneral, GoalWeightLoss, GoalMuscleGain, "":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownGoal, p.Goal)
	}
	return nil
}

// HasCondition reports whether the profile declares the given condition.
func (p UserProfile) HasCondition(c Condition) bool {
	for _, pc := range p.Conditions {
		if pc == c {
			return true
		}
	}
	return false
}
