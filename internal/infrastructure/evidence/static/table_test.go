package static

import (
	"context"
	"testing"

	"github.com/nutrilens/v1/internal/domain/assessment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableLookupByNameAndCode(t *testing.T) {
	table := NewTable()

	byName, ok := table.Lookup(context.Background(), "sodium benzoate")
	require.True(t, ok)
	assert.Equal(t, assessment.SeverityModerate, byName.Severity)
	assert.NotEmpty(t, byName.Summary)

	byCode, ok := table.Lookup(context.Background(), "e211")
	require.True(t, ok)
	assert.Equal(t, byName.Severity, byCode.Severity)
}

func TestTableLookupUnknown(t *testing.T) {
	table := NewTable()
	_, ok := table.Lookup(context.Background(), "unobtainium gum")
	assert.False(t, ok)
}

func TestTableSeverityFloor(t *testing.T) {
	table := NewTable()

	sev, ok := table.Severity("bha")
	require.True(t, ok)
	assert.Equal(t, assessment.SeverityHigh, sev)

	_, ok = table.Severity("water")
	assert.False(t, ok)
}
