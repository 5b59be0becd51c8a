package assessment

import "errors"

// Domain errors for assessment inputs

var (
	// Profile validation errors
	ErrUnknownCondition = errors.New("unknown health condition")
	ErrUnknownGoal      = errors.New("unknown dietary goal")
	ErrEmptyAllergen    = errors.New("allergen tag must not be empty")

	// Input validation errors
	ErrNegativeNutrient = errors.New("nutrient amount cannot be negative")
	ErrBlankIngredient  = errors.New("ingredient name must not be blank")
	ErrNoInput          = errors.New("at least one of nutrients or ingredients is required")

	// Configuration errors, fatal at startup
	ErrInvalidCurve      = errors.New("score curve parameters are invalid")
	ErrInvalidTierBands  = errors.New("tier thresholds are invalid")
	ErrEmptyRuleset      = errors.New("ruleset has no condition rules")
)
