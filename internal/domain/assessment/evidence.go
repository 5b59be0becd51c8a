package assessment

import (
	"strings"
	"time"
	"unicode"
)

// Severity is a coarse concern level. SeverityCritical is reserved for
// allergen matches and never produced by the evidence resolver.
type Severity string

const (
	SeverityNone     Severity = "none"
	SeverityLow      Severity = "low"
	SeverityModerate Severity = "moderate"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

var severityRank = map[Severity]int{
	SeverityNone:     0,
	SeverityLow:      1,
	SeverityModerate: 2,
	SeverityHigh:     3,
	SeverityCritical: 4,
}

// Rank returns the ordering rank of the severity. Unknown values rank
// below SeverityNone.
func (s Severity) Rank() int {
	if r, ok := severityRank[s]; ok {
		return r
	}
	return -1
}

// MaxSeverity returns the more severe of a and b.
func MaxSeverity(a, b Severity) Severity {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// Source is a citation backing an additive concern.
type Source struct {
	URL     string `json:"url"`
	Snippet string `json:"snippet,omitempty"`
}

// AdditiveEvidence is the concern record for a named additive.
//
// Invariant: severity is monotonic with the number and credibility of
// sources found. Absence of evidence yields SeverityNone with
// Unverified set — never a false "safe" claim.
type AdditiveEvidence struct {
	Name        string    `json:"name"`
	Severity    Severity  `json:"severity"`
	Summary     string    `json:"summary,omitempty"`
	Sources     []Source  `json:"sources,omitempty"`
	Unverified  bool      `json:"unverified"`
	RetrievedAt time.Time `json:"retrieved_at,omitempty"`
}

// Unverified evidence record for a name with no data from any strategy.
func UnverifiedEvidence(name string) AdditiveEvidence {
	return AdditiveEvidence{
		Name:       name,
		Severity:   SeverityNone,
		Summary:    "No concern evidence found for this additive.",
		Unverified: true,
	}
}

// NormalizeAdditiveName canonicalizes an additive name for cache keys
// and table lookups: trimmed, lower-cased, punctuation stripped,
// whitespace collapsed. "E-211" and "Sodium Benzoate," normalize to
// "e211" and "sodium benzoate".
func NormalizeAdditiveName(name string) string {
	var b strings.Builder
	lastSpace := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r):
			if !lastSpace && b.Len() > 0 {
				b.WriteRune(' ')
				lastSpace = true
			}
		default:
			// punctuation dropped
		}
	}
	return strings.TrimSpace(b.String())
}

// IsECode reports whether a normalized name looks like a European
// additive code such as "e211" or "e150d".
func IsECode(normalized string) bool {
	if len(normalized) < 4 || normalized[0] != 'e' {
		return false
	}
	digits := 0
	for _, r := range normalized[1:] {
		if r >= '0' && r <= '9' {
			digits++
			continue
		}
		// a single trailing variant letter is allowed (e150d)
		if digits == 3 && r >= 'a' && r <= 'z' && len(normalized) == 5 {
			return true
		}
		return false
	}
	return digits == 3
}
