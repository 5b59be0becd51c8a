package assessment

import (
	"fmt"
	"strings"
)

// Nutrient identifies a nutrient tracked by the rule tables.
type Nutrient string

const (
	NutrientCalories     Nutrient = "calories"      // kcal
	NutrientProtein      Nutrient = "protein"       // g
	NutrientCarbs        Nutrient = "carbohydrates" // g
	NutrientSugar        Nutrient = "sugar"         // g
	NutrientFat          Nutrient = "fat"           // g
	NutrientSaturatedFat Nutrient = "saturated-fat" // g
	NutrientFiber        Nutrient = "fiber"         // g
	NutrientSodium       Nutrient = "sodium"        // mg
)

// nutrientOrder fixes a canonical ordering for nutrients so that
// contribution tie-breaking stays deterministic regardless of map
// iteration order.
var nutrientOrder = []Nutrient{
	NutrientCalories,
	NutrientProtein,
	NutrientCarbs,
	NutrientSugar,
	NutrientFat,
	NutrientSaturatedFat,
	NutrientFiber,
	NutrientSodium,
}

// Amount is a nutrient quantity with its declared unit.
type Amount struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// NutrientFacts maps nutrients to per-serving amounts. A missing key
// means the amount is unknown, not zero.
type NutrientFacts map[Nutrient]Amount

// Validate rejects negative amounts. The engine never silently clamps
// invalid input.
func (f NutrientFacts) Validate() error {
	for n, a := range f {
		if a.Value < 0 {
			return fmt.Errorf("%w: %s = %v", ErrNegativeNutrient, n, a.Value)
		}
	}
	return nil
}

// Lookup returns the amount for a nutrient converted to its canonical
// unit (mg for sodium, kcal for calories, g otherwise). The second
// return is false when the nutrient is unknown.
func (f NutrientFacts) Lookup(n Nutrient) (float64, bool) {
	a, ok := f[n]
	if !ok {
		return 0, false
	}
	unit := strings.ToLower(strings.TrimSpace(a.Unit))
	if n == NutrientSodium {
		// canonical mg
		if unit == "g" {
			return a.Value * 1000, true
		}
		return a.Value, true
	}
	// canonical g (or kcal, which has no conversions)
	if unit == "mg" {
		return a.Value / 1000, true
	}
	return a.Value, true
}

// IngredientList is the ordered ingredient declaration of a product or
// menu item. Source order is preserved: position matters for
// first-ingredient dominance heuristics.
type IngredientList []string

// Validate rejects blank ingredient entries.
func (l IngredientList) Validate() error {
	for i, ing := range l {
		if strings.TrimSpace(ing) == "" {
			return fmt.Errorf("%w: position %d", ErrBlankIngredient, i)
		}
	}
	return nil
}
