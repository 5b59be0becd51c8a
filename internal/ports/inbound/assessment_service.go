// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the use cases the application exposes to the outside world
package inbound

import (
	"context"

	"github.com/nutrilens/v1/internal/domain/assessment"
)

// AssessmentService defines the personalized food-risk use cases.
type AssessmentService interface {
	// ResolveAdditiveEvidence returns the concern record for a named
	// additive. It never fails for collaborator outages; absence of
	// evidence is a valid, representable outcome.
	ResolveAdditiveEvidence(ctx context.Context, name string) (assessment.AdditiveEvidence, error)

	// ScoreProduct computes a personalized 0-100 score and ordered risk
	// list for a product.
	ScoreProduct(ctx context.Context, cmd AssessCommand) (*assessment.ScoreResult, error)

	// ClassifyMenuItem maps a menu item onto a three-tier
	// recommendation with an explanation trace.
	ClassifyMenuItem(ctx context.Context, cmd AssessCommand) (*assessment.Recommendation, error)

	// AssessBarcode looks a product up by barcode and scores it for the
	// given profile.
	AssessBarcode(ctx context.Context, barcode string, profile assessment.UserProfile) (*ProductAssessment, error)

	// CompareProducts scores two products for the same profile and
	// reports which suits it better.
	CompareProducts(ctx context.Context, a, b AssessCommand) (*Comparison, error)
}

// AssessCommand carries one product or menu item to assess.
type AssessCommand struct {
	Name        string
	Nutrients   assessment.NutrientFacts
	Ingredients assessment.IngredientList
	Profile     assessment.UserProfile
}

// ProductAssessment pairs looked-up product data with its score.
type ProductAssessment struct {
	Barcode     string                    `json:"barcode"`
	Name        string                    `json:"name"`
	Brand       string                    `json:"brand,omitempty"`
	Nutrients   assessment.NutrientFacts  `json:"nutrients"`
	Ingredients assessment.IngredientList `json:"ingredients"`
	Result      *assessment.ScoreResult   `json:"result"`
}

// Comparison reports the outcome of scoring two products side by side.
type Comparison struct {
	BetterProduct string  `json:"better_product,omitempty"`
	ScoreA        float64 `json:"score_a"`
	ScoreB        float64 `json:"score_b"`
	Difference    float64 `json:"difference"`
	Message       string  `json:"message"`
}
