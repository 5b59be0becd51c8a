package evidence

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/nutrilens/v1/internal/domain/assessment"
	"github.com/nutrilens/v1/internal/infrastructure/monitoring"
	"github.com/nutrilens/v1/internal/ports/outbound"
	"go.uber.org/zap"
)

// severity keyword classes, scanned against snippet text. The highest
// matching class wins.
var (
	highConcernTerms = []string{
		"carcinogen", "cancer", "banned", "toxic", "endocrine disruptor", "liver damage",
	}
	moderateConcernTerms = []string{
		"hyperactivity", "asthma", "allergic", "inflammation", "headache",
		"blood pressure", "insulin", "gut bacteria",
	}
	safeTerms = []string{
		"generally recognized as safe", "generally safe", "no adverse effect",
	}
)

// credibleDomains boost confidence in a finding. Severity is monotonic
// with the number of credible sources backing it.
var credibleDomains = []string{
	"efsa.europa.eu", "fda.gov", "who.int", "nih.gov", "ncbi.nlm.nih.gov", "pubmed",
}

// SeverityBaseline supplies a lower bound for a name's severity, so a
// thin search result never reports an additive as less concerning than
// the built-in table does.
type SeverityBaseline func(name string) (assessment.Severity, bool)

// SearchStrategy resolves evidence through the external
// evidence-retrieval collaborator. Network failure, rate limits and
// empty results all degrade to "no answer".
type SearchStrategy struct {
	search     outbound.EvidenceSearch
	maxResults int
	baseline   SeverityBaseline
	metrics    *monitoring.Metrics
	logger     *zap.Logger
}

// NewSearchStrategy creates the search-backed resolution strategy.
// baseline and metrics may be nil.
func NewSearchStrategy(search outbound.EvidenceSearch, maxResults int, baseline SeverityBaseline, metrics *monitoring.Metrics, logger *zap.Logger) *SearchStrategy {
	if maxResults <= 0 {
		maxResults = 5
	}
	return &SearchStrategy{
		search:     search,
		maxResults: maxResults,
		baseline:   baseline,
		metrics:    metrics,
		logger:     logger.Named("evidence-search"),
	}
}

// Name implements Strategy.
func (s *SearchStrategy) Name() string { return "search" }

// Lookup queries the collaborator with a templated query and distills
// the snippets into an evidence record.
func (s *SearchStrategy) Lookup(ctx context.Context, name string) (assessment.AdditiveEvidence, bool) {
	if s.search == nil {
		return assessment.AdditiveEvidence{}, false
	}

	query := fmt.Sprintf("%s food additive health concerns safety evidence", name)
	started := time.Now()
	results, err := s.search.Search(ctx, query, s.maxResults)
	if s.metrics != nil {
		s.metrics.SearchDuration.Observe(time.Since(started).Seconds())
	}
	if err != nil {
		s.logger.Warn("evidence search unavailable, falling back",
			zap.String("additive", name), zap.Error(err))
		return assessment.AdditiveEvidence{}, false
	}
	if len(results) == 0 {
		return assessment.AdditiveEvidence{}, false
	}

	return s.distill(name, results), true
}

// distill classifies snippet text into a severity and assembles the
// source citations.
func (s *SearchStrategy) distill(name string, results []outbound.SearchResult) assessment.AdditiveEvidence {
	severity := assessment.SeverityNone
	credible := 0
	var sources []assessment.Source
	var summary string

	for _, res := range results {
		text := strings.ToLower(res.Title + " " + res.Content)

		switch {
		case containsAny(text, highConcernTerms):
			severity = assessment.MaxSeverity(severity, assessment.SeverityHigh)
		case containsAny(text, moderateConcernTerms):
			severity = assessment.MaxSeverity(severity, assessment.SeverityModerate)
		case containsAny(text, safeTerms):
			severity = assessment.MaxSeverity(severity, assessment.SeverityLow)
		}

		if isCredible(res.URL) {
			credible++
		}
		if res.URL != "" {
			sources = append(sources, assessment.Source{
				URL:     res.URL,
				Snippet: truncate(res.Content, 240),
			})
		}
		if summary == "" && strings.TrimSpace(res.Content) != "" {
			summary = truncate(strings.TrimSpace(res.Content), 240)
		}
	}

	// Sources found but nothing classifiable still counts as a finding.
	if severity == assessment.SeverityNone {
		severity = assessment.SeverityLow
	}
	// A high-severity claim needs at least one credible source behind it.
	if severity == assessment.SeverityHigh && credible == 0 {
		severity = assessment.SeverityModerate
	}
	if s.baseline != nil {
		if floor, ok := s.baseline(name); ok {
			severity = assessment.MaxSeverity(severity, floor)
		}
	}

	return assessment.AdditiveEvidence{
		Name:     name,
		Severity: severity,
		Summary:  summary,
		Sources:  sources,
	}
}

func containsAny(text string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}

func isCredible(url string) bool {
	lower := strings.ToLower(url)
	for _, d := range credibleDomains {
		if strings.Contains(lower, d) {
			return true
		}
	}
	return false
}

// truncate cuts at a rune boundary so a multi-byte character is never
// split mid-sequence.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
