// Package static provides the built-in additive concern table: a
// last-resort resolution strategy covering common regulated additives
// when the evidence-retrieval collaborator yields nothing.
package static

import (
	"context"

	"github.com/nutrilens/v1/internal/domain/assessment"
)

type entry struct {
	code     string
	name     string
	category string
	severity assessment.Severity
	summary  string
}

// entries covers common regulated additives with pre-classified
// severities. Severities here are the floor for search-derived
// results on the same additive.
var entries = []entry{
	{"e102", "tartrazine", "coloring", assessment.SeverityHigh,
		"Yellow synthetic dye; may cause hyperactivity in children, allergic reactions and asthma."},
	{"e110", "sunset yellow", "coloring", assessment.SeverityHigh,
		"Orange/yellow synthetic dye linked to hyperactivity and allergic reactions."},
	{"e129", "allura red", "coloring", assessment.SeverityHigh,
		"Red synthetic dye; may cause hyperactivity and allergic reactions."},
	{"e320", "bha", "antioxidant", assessment.SeverityHigh,
		"Synthetic antioxidant; possible carcinogen and endocrine disruptor."},
	{"e321", "bht", "antioxidant", assessment.SeverityHigh,
		"Synthetic antioxidant; possible carcinogen, linked to liver damage."},
	{"e621", "monosodium glutamate", "flavor enhancer", assessment.SeverityModerate,
		"Flavor enhancer; may cause headaches and nausea in sensitive individuals."},
	{"e250", "sodium nitrite", "preservative", assessment.SeverityModerate,
		"Preservative and color fixative; possible cancer link at high intakes."},
	{"e251", "sodium nitrate", "preservative", assessment.SeverityModerate,
		"Preservative; converts to nitrites with similar concerns."},
	{"e211", "sodium benzoate", "preservative", assessment.SeverityModerate,
		"Preservative; may form benzene when combined with vitamin C."},
	{"e220", "sulfur dioxide", "preservative", assessment.SeverityModerate,
		"Preservative and antioxidant; may trigger asthma and allergic reactions."},
	{"e407", "carrageenan", "thickener", assessment.SeverityModerate,
		"Seaweed-derived thickener; possible digestive inflammation."},
	{"e300", "ascorbic acid", "antioxidant", assessment.SeverityLow,
		"Vitamin C; generally safe, essential nutrient."},
	{"e330", "citric acid", "acidity regulator", assessment.SeverityLow,
		"Naturally occurring acid; generally safe."},
	{"e338", "phosphoric acid", "acidity regulator", assessment.SeverityLow,
		"Acidulant in sodas; generally safe at typical intakes."},
	{"e440", "pectin", "thickener", assessment.SeverityLow,
		"Natural fruit fiber; generally safe, beneficial fiber."},
	{"e322", "lecithin", "emulsifier", assessment.SeverityLow,
		"Natural emulsifier; generally safe."},
	{"", "aspartame", "sweetener", assessment.SeverityModerate,
		"Artificial sweetener; may affect gut bacteria and glucose metabolism."},
	{"", "sucralose", "sweetener", assessment.SeverityModerate,
		"Artificial sweetener; may affect gut bacteria and glucose metabolism."},
	{"", "acesulfame potassium", "sweetener", assessment.SeverityModerate,
		"Artificial sweetener; may affect gut bacteria and glucose metabolism."},
	{"", "saccharin", "sweetener", assessment.SeverityModerate,
		"Artificial sweetener; may affect gut bacteria and glucose metabolism."},
	{"", "high fructose corn syrup", "sweetener", assessment.SeverityHigh,
		"Sweetener linked to obesity, diabetes and metabolic syndrome."},
	{"", "partially hydrogenated oil", "fat", assessment.SeverityHigh,
		"Trans fats increase LDL cholesterol and heart disease risk."},
}

// Table is the static additive strategy. Lookups are by normalized
// name or E-code.
type Table struct {
	byKey map[string]entry
}

// NewTable builds the lookup index over the built-in entries.
func NewTable() *Table {
	byKey := make(map[string]entry, len(entries)*2)
	for _, e := range entries {
		if e.code != "" {
			byKey[e.code] = e
		}
		byKey[assessment.NormalizeAdditiveName(e.name)] = e
	}
	return &Table{byKey: byKey}
}

// Name implements the resolver Strategy interface.
func (t *Table) Name() string { return "static" }

// Lookup returns the pre-classified evidence record for a normalized
// additive name, or "no answer" for additives outside the table.
func (t *Table) Lookup(_ context.Context, name string) (assessment.AdditiveEvidence, bool) {
	e, ok := t.byKey[name]
	if !ok {
		return assessment.AdditiveEvidence{}, false
	}
	return assessment.AdditiveEvidence{
		Name:     e.name,
		Severity: e.severity,
		Summary:  e.summary,
	}, true
}

// Severity exposes the table's severity floor for a name, used to keep
// search-derived severities monotonic with known classifications.
func (t *Table) Severity(name string) (assessment.Severity, bool) {
	e, ok := t.byKey[name]
	if !ok {
		return assessment.SeverityNone, false
	}
	return e.severity, true
}
