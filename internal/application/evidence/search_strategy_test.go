package evidence

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/nutrilens/v1/internal/domain/assessment"
	"github.com/nutrilens/v1/internal/ports/outbound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSearch struct {
	results []outbound.SearchResult
	err     error
	queries []string
}

func (f *fakeSearch) Search(_ context.Context, query string, _ int) ([]outbound.SearchResult, error) {
	f.queries = append(f.queries, query)
	return f.results, f.err
}

func TestSearchStrategyErrorIsNoAnswer(t *testing.T) {
	s := NewSearchStrategy(&fakeSearch{err: errors.New("network down")}, 5, nil, nil, zap.NewNop())

	_, ok := s.Lookup(context.Background(), "tartrazine")
	assert.False(t, ok, "collaborator failure degrades, never propagates")
}

func TestSearchStrategyEmptyResultsIsNoAnswer(t *testing.T) {
	s := NewSearchStrategy(&fakeSearch{}, 5, nil, nil, zap.NewNop())

	_, ok := s.Lookup(context.Background(), "tartrazine")
	assert.False(t, ok)
}

func TestSearchStrategyQueryNamesTheAdditive(t *testing.T) {
	search := &fakeSearch{}
	s := NewSearchStrategy(search, 5, nil, nil, zap.NewNop())

	s.Lookup(context.Background(), "sodium benzoate")
	require.Len(t, search.queries, 1)
	assert.Contains(t, search.queries[0], "sodium benzoate")
}

func TestSearchStrategyHighNeedsCredibleSource(t *testing.T) {
	search := &fakeSearch{results: []outbound.SearchResult{
		{Title: "Shock blog", URL: "https://example.com/post", Content: "This additive is a carcinogen!"},
	}}
	s := NewSearchStrategy(search, 5, nil, nil, zap.NewNop())

	ev, ok := s.Lookup(context.Background(), "bha")
	require.True(t, ok)
	assert.Equal(t, assessment.SeverityModerate, ev.Severity,
		"high severity demoted without a credible source")
}

func TestSearchStrategyCredibleHighStands(t *testing.T) {
	search := &fakeSearch{results: []outbound.SearchResult{
		{Title: "EFSA assessment", URL: "https://efsa.europa.eu/bha", Content: "Evidence of carcinogen activity in rodents."},
	}}
	s := NewSearchStrategy(search, 5, nil, nil, zap.NewNop())

	ev, ok := s.Lookup(context.Background(), "bha")
	require.True(t, ok)
	assert.Equal(t, assessment.SeverityHigh, ev.Severity)
	require.Len(t, ev.Sources, 1)
	assert.Equal(t, "https://efsa.europa.eu/bha", ev.Sources[0].URL)
}

func TestSearchStrategyModerateTerms(t *testing.T) {
	search := &fakeSearch{results: []outbound.SearchResult{
		{Title: "Study", URL: "https://nih.gov/study", Content: "Associated with hyperactivity in children."},
	}}
	s := NewSearchStrategy(search, 5, nil, nil, zap.NewNop())

	ev, ok := s.Lookup(context.Background(), "tartrazine")
	require.True(t, ok)
	assert.Equal(t, assessment.SeverityModerate, ev.Severity)
	assert.NotEmpty(t, ev.Summary)
}

func TestSearchStrategyUnclassifiableSnippetsAreLow(t *testing.T) {
	search := &fakeSearch{results: []outbound.SearchResult{
		{Title: "Overview", URL: "https://example.com", Content: "A common food additive used since 1950."},
	}}
	s := NewSearchStrategy(search, 5, nil, nil, zap.NewNop())

	ev, ok := s.Lookup(context.Background(), "pectin")
	require.True(t, ok)
	assert.Equal(t, assessment.SeverityLow, ev.Severity)
}

func TestSearchStrategyBaselineIsAFloor(t *testing.T) {
	search := &fakeSearch{results: []outbound.SearchResult{
		{Title: "Blog", URL: "https://example.com", Content: "Totally fine, no adverse effect."},
	}}
	baseline := func(name string) (assessment.Severity, bool) {
		return assessment.SeverityHigh, true
	}
	s := NewSearchStrategy(search, 5, baseline, nil, zap.NewNop())

	ev, ok := s.Lookup(context.Background(), "bha")
	require.True(t, ok)
	assert.Equal(t, assessment.SeverityHigh, ev.Severity,
		"a thin search result never downgrades a known classification")
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	// "é" is two bytes; every odd cut point lands mid-rune.
	accented := strings.Repeat("é", 200)
	for _, max := range []int{239, 240, 241} {
		cut := truncate(accented, max)
		assert.True(t, utf8.ValidString(cut), "cut at %d split a rune", max)
		assert.LessOrEqual(t, len(cut), max)
	}

	assert.Equal(t, "plain", truncate("plain", 240), "short strings pass through")
}
