// Package assessment implements the personalized food-risk use cases:
// scoring, menu classification, barcode assessment and comparison.
package assessment

import (
	"context"
	"errors"
	"fmt"

	"github.com/nutrilens/v1/internal/application/evidence"
	"github.com/nutrilens/v1/internal/domain/assessment"
	"github.com/nutrilens/v1/internal/infrastructure/monitoring"
	"github.com/nutrilens/v1/internal/ports/inbound"
	"github.com/nutrilens/v1/internal/ports/outbound"
	apperrors "github.com/nutrilens/v1/pkg/errors"
	"go.uber.org/zap"
)

// Service orchestrates the domain scoring pipeline with the evidence
// resolver and the product lookup collaborator.
type Service struct {
	resolver   *evidence.Resolver
	products   outbound.ProductLookup
	ruleset    assessment.Ruleset
	curve      assessment.ScoreCurve
	classifier assessment.ClassifierConfig
	metrics    *monitoring.Metrics
	logger     *zap.Logger
}

// NewService validates the model configuration once and returns the
// assessment service. Invalid rules or bands fail startup, not
// requests.
func NewService(
	resolver *evidence.Resolver,
	products outbound.ProductLookup,
	ruleset assessment.Ruleset,
	curve assessment.ScoreCurve,
	classifier assessment.ClassifierConfig,
	metrics *monitoring.Metrics,
	logger *zap.Logger,
) (*Service, error) {
	if err := ruleset.Validate(); err != nil {
		return nil, fmt.Errorf("ruleset: %w", err)
	}
	if err := curve.Validate(); err != nil {
		return nil, fmt.Errorf("score curve: %w", err)
	}
	if err := classifier.Validate(); err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}
	return &Service{
		resolver:   resolver,
		products:   products,
		ruleset:    ruleset,
		curve:      curve,
		classifier: classifier,
		metrics:    metrics,
		logger:     logger.Named("assessment"),
	}, nil
}

var _ inbound.AssessmentService = (*Service)(nil)

// ResolveAdditiveEvidence implements inbound.AssessmentService.
func (s *Service) ResolveAdditiveEvidence(ctx context.Context, name string) (assessment.AdditiveEvidence, error) {
	ev, err := s.resolver.Resolve(ctx, name)
	if err != nil {
		return assessment.AdditiveEvidence{}, apperrors.NewValidationError(err.Error())
	}
	return ev, nil
}

// ScoreProduct implements inbound.AssessmentService.
func (s *Service) ScoreProduct(ctx context.Context, cmd inbound.AssessCommand) (*assessment.ScoreResult, error) {
	if err := s.validate(cmd); err != nil {
		return nil, err
	}

	contribs, evaluated := s.ruleset.Evaluate(cmd.Nutrients, cmd.Ingredients, cmd.Profile, s.resolver.LookupFunc(ctx))
	result := assessment.ComputeScore(contribs, evaluated, s.curve)

	s.count("score")
	s.logger.Info("product scored",
		zap.String("name", cmd.Name),
		zap.Float64("score", result.Score),
		zap.Int("contributions", len(result.Contributions)),
		zap.Bool("allergen_override", result.AllergenOverride))
	return &result, nil
}

// ClassifyMenuItem implements inbound.AssessmentService.
func (s *Service) ClassifyMenuItem(ctx context.Context, cmd inbound.AssessCommand) (*assessment.Recommendation, error) {
	if err := s.validate(cmd); err != nil {
		return nil, err
	}

	contribs, evaluated := s.ruleset.Evaluate(cmd.Nutrients, cmd.Ingredients, cmd.Profile, s.resolver.LookupFunc(ctx))
	result := assessment.ComputeScore(contribs, evaluated, s.curve)
	rec := assessment.Classify(result, cmd.Ingredients, cmd.Profile, s.classifier)

	s.count("classify")
	s.logger.Info("menu item classified",
		zap.String("name", cmd.Name),
		zap.String("tier", string(rec.Tier)),
		zap.Float64("score", result.Score))
	return &rec, nil
}

// AssessBarcode implements inbound.AssessmentService.
func (s *Service) AssessBarcode(ctx context.Context, barcode string, profile assessment.UserProfile) (*inbound.ProductAssessment, error) {
	if barcode == "" {
		return nil, apperrors.NewValidationError("barcode is required")
	}
	if err := profile.Validate(); err != nil {
		return nil, apperrors.NewAppError(apperrors.CodeInvalidProfile, "invalid profile", err.Error())
	}
	if s.products == nil {
		return nil, apperrors.NewAppError(apperrors.CodeServiceUnavailable, "product lookup not configured", "")
	}

	product, err := s.products.LookupByBarcode(ctx, barcode)
	if err != nil {
		if errors.Is(err, outbound.ErrProductNotFound) {
			return nil, apperrors.NewProductNotFoundError(barcode)
		}
		return nil, apperrors.NewExternalServiceError("product-lookup", err)
	}

	// Declared allergen tags join the ingredient list for matching, so a
	// label-level "contains peanuts" triggers the override even when the
	// ingredient text never names it.
	ingredients := append(assessment.IngredientList{}, product.Ingredients...)
	ingredients = append(ingredients, product.Allergens...)

	result, err := s.ScoreProduct(ctx, inbound.AssessCommand{
		Name:        product.Name,
		Nutrients:   product.Nutrients,
		Ingredients: ingredients,
		Profile:     profile,
	})
	if err != nil {
		return nil, err
	}

	s.count("barcode")
	return &inbound.ProductAssessment{
		Barcode:     product.Barcode,
		Name:        product.Name,
		Brand:       product.Brand,
		Nutrients:   product.Nutrients,
		Ingredients: product.Ingredients,
		Result:      result,
	}, nil
}

// CompareProducts implements inbound.AssessmentService.
func (s *Service) CompareProducts(ctx context.Context, a, b inbound.AssessCommand) (*inbound.Comparison, error) {
	resultA, err := s.ScoreProduct(ctx, a)
	if err != nil {
		return nil, apperrors.Wrap(err, "scoring first product")
	}
	resultB, err := s.ScoreProduct(ctx, b)
	if err != nil {
		return nil, apperrors.Wrap(err, "scoring second product")
	}

	cmp := &inbound.Comparison{
		ScoreA:     resultA.Score,
		ScoreB:     resultB.Score,
		Difference: resultA.Score - resultB.Score,
	}
	switch {
	case resultA.Score > resultB.Score:
		cmp.BetterProduct = a.Name
		cmp.Message = fmt.Sprintf("%s suits your profile better (%.0f vs %.0f).", a.Name, resultA.Score, resultB.Score)
	case resultB.Score > resultA.Score:
		cmp.BetterProduct = b.Name
		cmp.Message = fmt.Sprintf("%s suits your profile better (%.0f vs %.0f).", b.Name, resultB.Score, resultA.Score)
	default:
		cmp.Message = fmt.Sprintf("Both score %.0f for your profile.", resultA.Score)
	}

	s.count("compare")
	return cmp, nil
}

// validate rejects malformed commands at the boundary. Domain
// evaluation assumes validated input.
func (s *Service) validate(cmd inbound.AssessCommand) error {
	if len(cmd.Nutrients) == 0 && len(cmd.Ingredients) == 0 {
		return apperrors.NewValidationError(assessment.ErrNoInput.Error())
	}
	if err := cmd.Profile.Validate(); err != nil {
		return apperrors.NewAppError(apperrors.CodeInvalidProfile, "invalid profile", err.Error())
	}
	if err := cmd.Nutrients.Validate(); err != nil {
		return apperrors.NewAppError(apperrors.CodeInvalidNutrients, "invalid nutrients", err.Error())
	}
	if err := cmd.Ingredients.Validate(); err != nil {
		return apperrors.NewAppError(apperrors.CodeInvalidNutrients, "invalid ingredients", err.Error())
	}
	return nil
}

func (s *Service) count(kind string) {
	if s.metrics != nil {
		s.metrics.AssessmentsTotal.WithLabelValues(kind).Inc()
	}
}
