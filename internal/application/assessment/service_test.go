package assessment

import (
	"context"
	"errors"
	"testing"

	"github.com/nutrilens/v1/internal/application/evidence"
	domain "github.com/nutrilens/v1/internal/domain/assessment"
	staticev "github.com/nutrilens/v1/internal/infrastructure/evidence/static"
	"github.com/nutrilens/v1/internal/ports/inbound"
	"github.com/nutrilens/v1/internal/ports/outbound"
	apperrors "github.com/nutrilens/v1/pkg/errors"
	"github.com/nutrilens/v1/test/testutils"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

// fakeLookup is a map-backed product lookup collaborator.
type fakeLookup struct {
	products map[string]*outbound.Product
	err      error
}

func (f *fakeLookup) LookupByBarcode(_ context.Context, barcode string) (*outbound.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.products[barcode]
	if !ok {
		return nil, outbound.ErrProductNotFound
	}
	return p, nil
}

type ServiceTestSuite struct {
	suite.Suite
	lookup  *fakeLookup
	service *Service
}

func (s *ServiceTestSuite) SetupTest() {
	s.lookup = &fakeLookup{products: make(map[string]*outbound.Product)}

	// Static table only; no network strategy in unit tests.
	resolver := evidence.NewResolver(nil, []evidence.Strategy{staticev.NewTable()},
		evidence.Options{}, nil, zap.NewNop())

	svc, err := NewService(
		resolver,
		s.lookup,
		domain.DefaultRuleset(),
		domain.DefaultScoreCurve(),
		domain.DefaultClassifierConfig(),
		nil,
		zap.NewNop(),
	)
	s.Require().NoError(err)
	s.service = svc
}

func (s *ServiceTestSuite) TestScoreProductHighSodiumHypertension() {
	result, err := s.service.ScoreProduct(context.Background(), inbound.AssessCommand{
		Name:        "canned soup",
		Nutrients:   domain.NutrientFacts{domain.NutrientSodium: {Value: 900, Unit: "mg"}},
		Ingredients: domain.IngredientList{"water", "sodium benzoate"},
		Profile:     testutils.NewProfileBuilder().WithConditions(domain.ConditionHypertension).Build(),
	})
	s.Require().NoError(err)

	s.Less(result.Score, 50.0)
	s.Require().NotEmpty(result.Contributions)
	s.Equal(string(domain.NutrientSodium), result.Contributions[0].Key)
	s.Equal([]domain.Condition{domain.ConditionHypertension}, result.Evaluated)
}

func (s *ServiceTestSuite) TestScoreProductBenign() {
	result, err := s.service.ScoreProduct(context.Background(), inbound.AssessCommand{
		Name:        "rice",
		Nutrients:   testutils.NewNutrientFactory(1).BenignFacts(),
		Ingredients: domain.IngredientList{"rice", "water"},
		Profile:     testutils.NewProfileBuilder().WithConditions(domain.ConditionDiabetes).Build(),
	})
	s.Require().NoError(err)
	s.Equal(100.0, result.Score)
}

func (s *ServiceTestSuite) TestScoreProductRejectsEmptyInput() {
	_, err := s.service.ScoreProduct(context.Background(), inbound.AssessCommand{})
	s.Require().Error(err)

	var appErr *apperrors.AppError
	s.Require().ErrorAs(err, &appErr)
	s.Equal(apperrors.CodeValidationFailed, appErr.Code)
}

func (s *ServiceTestSuite) TestScoreProductRejectsNegativeNutrients() {
	_, err := s.service.ScoreProduct(context.Background(), inbound.AssessCommand{
		Nutrients: domain.NutrientFacts{domain.NutrientSugar: {Value: -2, Unit: "g"}},
	})
	s.Require().Error(err)

	var appErr *apperrors.AppError
	s.Require().ErrorAs(err, &appErr)
	s.Equal(apperrors.CodeInvalidNutrients, appErr.Code)
}

func (s *ServiceTestSuite) TestClassifyMenuItemPeanutAllergy() {
	rec, err := s.service.ClassifyMenuItem(context.Background(), inbound.AssessCommand{
		Name:        "pad thai",
		Ingredients: domain.IngredientList{"rice noodles", "peanuts", "egg"},
		Profile:     testutils.NewProfileBuilder().WithAllergens("peanut").Build(),
	})
	s.Require().NoError(err)

	s.Equal(domain.TierAvoid, rec.Tier)
	s.Require().NotEmpty(rec.Trace)
	s.Equal(domain.SourceAllergen, rec.Trace[0].Source)
}

func (s *ServiceTestSuite) TestClassifyMenuItemFavorable() {
	rec, err := s.service.ClassifyMenuItem(context.Background(), inbound.AssessCommand{
		Name:        "steamed rice",
		Nutrients:   testutils.NewNutrientFactory(2).BenignFacts(),
		Ingredients: domain.IngredientList{"rice", "water"},
		Profile:     testutils.NewProfileBuilder().Build(),
	})
	s.Require().NoError(err)
	s.Equal(domain.TierFavorable, rec.Tier)
}

func (s *ServiceTestSuite) TestAssessBarcode() {
	s.lookup.products["123"] = testutils.NewProductFactory(3).Product()

	assessment, err := s.service.AssessBarcode(context.Background(), "123",
		testutils.NewProfileBuilder().WithConditions(domain.ConditionHypertension).Build())
	s.Require().NoError(err)

	s.Equal("123", assessment.Barcode)
	s.Require().NotNil(assessment.Result)
	s.Equal(100.0, assessment.Result.Score)
}

func (s *ServiceTestSuite) TestAssessBarcodeDeclaredAllergenTriggersOverride() {
	product := testutils.NewProductFactory(4).Product()
	product.Allergens = []string{"peanuts"}
	s.lookup.products["456"] = product

	assessment, err := s.service.AssessBarcode(context.Background(), "456",
		testutils.NewProfileBuilder().WithAllergens("peanut").Build())
	s.Require().NoError(err)
	s.True(assessment.Result.AllergenOverride,
		"label-level allergen declarations count even when no ingredient names it")
}

func (s *ServiceTestSuite) TestAssessBarcodeNotFound() {
	_, err := s.service.AssessBarcode(context.Background(), "999",
		testutils.NewProfileBuilder().Build())
	s.Require().Error(err)

	var appErr *apperrors.AppError
	s.Require().ErrorAs(err, &appErr)
	s.Equal(apperrors.CodeProductNotFound, appErr.Code)
}

func (s *ServiceTestSuite) TestAssessBarcodeCollaboratorFailure() {
	s.lookup.err = errors.New("upstream timeout")

	_, err := s.service.AssessBarcode(context.Background(), "123",
		testutils.NewProfileBuilder().Build())
	s.Require().Error(err)

	var appErr *apperrors.AppError
	s.Require().ErrorAs(err, &appErr)
	s.Equal(apperrors.CodeExternalServiceError, appErr.Code)
}

func (s *ServiceTestSuite) TestCompareProducts() {
	profile := testutils.NewProfileBuilder().WithConditions(domain.ConditionDiabetes).Build()
	factory := testutils.NewNutrientFactory(5)

	sugary := inbound.AssessCommand{
		Name:        "candy bar",
		Nutrients:   factory.HighSugarFacts(),
		Ingredients: domain.IngredientList{"sugar", "cocoa"},
		Profile:     profile,
	}
	plain := inbound.AssessCommand{
		Name:        "oatmeal",
		Nutrients:   factory.BenignFacts(),
		Ingredients: domain.IngredientList{"oats", "water"},
		Profile:     profile,
	}

	cmp, err := s.service.CompareProducts(context.Background(), sugary, plain)
	s.Require().NoError(err)

	s.Equal("oatmeal", cmp.BetterProduct)
	s.Greater(cmp.ScoreB, cmp.ScoreA)
	s.Contains(cmp.Message, "oatmeal")
}

func (s *ServiceTestSuite) TestResolveAdditiveEvidence() {
	ev, err := s.service.ResolveAdditiveEvidence(context.Background(), "E-102")
	s.Require().NoError(err)
	s.Equal(domain.SeverityHigh, ev.Severity)

	_, err = s.service.ResolveAdditiveEvidence(context.Background(), "   ")
	s.Error(err)
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}
