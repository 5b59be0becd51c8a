package evidence

import (
	"context"
	"fmt"

	"github.com/nutrilens/v1/internal/domain/assessment"
)

// OverrideStrategy serves operator-supplied severity overrides from
// configuration. It runs ahead of the search strategy so a deployment
// can pin an additive's classification.
type OverrideStrategy struct {
	overrides map[string]assessment.Severity
}

// NewOverrideStrategy normalizes the override keys.
func NewOverrideStrategy(overrides map[string]assessment.Severity) *OverrideStrategy {
	normalized := make(map[string]assessment.Severity, len(overrides))
	for name, sev := range overrides {
		normalized[assessment.NormalizeAdditiveName(name)] = sev
	}
	return &OverrideStrategy{overrides: normalized}
}

// Name implements Strategy.
func (o *OverrideStrategy) Name() string { return "override" }

// Lookup implements Strategy.
func (o *OverrideStrategy) Lookup(_ context.Context, name string) (assessment.AdditiveEvidence, bool) {
	sev, ok := o.overrides[name]
	if !ok {
		return assessment.AdditiveEvidence{}, false
	}
	return assessment.AdditiveEvidence{
		Name:     name,
		Severity: sev,
		Summary:  fmt.Sprintf("Severity %s set by deployment configuration.", sev),
	}, true
}
