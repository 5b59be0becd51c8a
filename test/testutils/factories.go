// Package testutils provides test data factories for consistent test data generation
package testutils

import (
	"github.com/brianvoe/gofakeit/v6"
	"github.com/nutrilens/v1/internal/domain/assessment"
	"github.com/nutrilens/v1/internal/ports/outbound"
)

// ProfileBuilder provides a fluent interface for building test profiles
type ProfileBuilder struct {
	conditions []assessment.Condition
	allergens  []string
	goal       assessment.DietGoal
}

// NewProfileBuilder creates a builder for an empty (unpersonalized) profile
func NewProfileBuilder() *ProfileBuilder {
	return &ProfileBuilder{goal: assessment.GoalGeneral}
}

// WithConditions adds health conditions
func (b *ProfileBuilder) WithConditions(conditions ...assessment.Condition) *ProfileBuilder {
	b.conditions = append(b.conditions, conditions...)
	return b
}

// WithAllergens adds allergen tags
func (b *ProfileBuilder) WithAllergens(allergens ...string) *ProfileBuilder {
	b.allergens = append(b.allergens, allergens...)
	return b
}

// WithGoal sets the dietary goal
func (b *ProfileBuilder) WithGoal(goal assessment.DietGoal) *ProfileBuilder {
	b.goal = goal
	return b
}

// Build returns the assembled profile
func (b *ProfileBuilder) Build() assessment.UserProfile {
	return assessment.UserProfile{
		Conditions: b.conditions,
		Allergens:  b.allergens,
		Goal:       b.goal,
	}
}

// NutrientFactory generates nutrient facts for tests
type NutrientFactory struct {
	faker *gofakeit.Faker
}

// NewNutrientFactory creates a factory with a seeded faker so generated
// values are reproducible
func NewNutrientFactory(seed int64) *NutrientFactory {
	return &NutrientFactory{faker: gofakeit.New(seed)}
}

// BenignFacts returns nutrient facts that trip no default rule
func (f *NutrientFactory) BenignFacts() assessment.NutrientFacts {
	return assessment.NutrientFacts{
		assessment.NutrientCalories: {Value: f.faker.Float64Range(50, 200), Unit: "kcal"},
		assessment.NutrientProtein:  {Value: f.faker.Float64Range(1, 8), Unit: "g"},
		assessment.NutrientSugar:    {Value: f.faker.Float64Range(0, 5), Unit: "g"},
		assessment.NutrientFat:      {Value: f.faker.Float64Range(0, 5), Unit: "g"},
		assessment.NutrientSodium:   {Value: f.faker.Float64Range(5, 100), Unit: "mg"},
	}
}

// HighSodiumFacts returns facts with sodium above every default
// threshold
func (f *NutrientFactory) HighSodiumFacts() assessment.NutrientFacts {
	facts := f.BenignFacts()
	facts[assessment.NutrientSodium] = assessment.Amount{Value: 900, Unit: "mg"}
	return facts
}

// HighSugarFacts returns facts with sugar above every default threshold
func (f *NutrientFactory) HighSugarFacts() assessment.NutrientFacts {
	facts := f.BenignFacts()
	facts[assessment.NutrientSugar] = assessment.Amount{Value: 25, Unit: "g"}
	return facts
}

// ProductFactory generates product lookup responses for tests
type ProductFactory struct {
	faker *gofakeit.Faker
}

// NewProductFactory creates a product factory with a seeded faker
func NewProductFactory(seed int64) *ProductFactory {
	return &ProductFactory{faker: gofakeit.New(seed)}
}

// Product returns a benign product with a random name and barcode
func (f *ProductFactory) Product() *outbound.Product {
	nf := NewNutrientFactory(f.faker.Int64())
	return &outbound.Product{
		Barcode:     f.faker.DigitN(13),
		Name:        f.faker.ProductName(),
		Brand:       f.faker.Company(),
		Nutrients:   nf.BenignFacts(),
		Ingredients: assessment.IngredientList{"water", "rice", "salt"},
	}
}
