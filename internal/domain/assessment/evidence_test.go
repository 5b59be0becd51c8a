package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAdditiveName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Sodium Benzoate,", "sodium benzoate"},
		{"  E-211 ", "e211"},
		{"MONOSODIUM   GLUTAMATE", "monosodium glutamate"},
		{"e150d", "e150d"},
		{"...", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeAdditiveName(tt.input), "input %q", tt.input)
	}
}

func TestIsECode(t *testing.T) {
	assert.True(t, IsECode("e211"))
	assert.True(t, IsECode("e150d"))
	assert.False(t, IsECode("e21"))
	assert.False(t, IsECode("egg"))
	assert.False(t, IsECode("sodium benzoate"))
	assert.False(t, IsECode("e1500"))
}

func TestMaxSeverity(t *testing.T) {
	assert.Equal(t, SeverityHigh, MaxSeverity(SeverityModerate, SeverityHigh))
	assert.Equal(t, SeverityHigh, MaxSeverity(SeverityHigh, SeverityLow))
	assert.Equal(t, SeverityNone, MaxSeverity(SeverityNone, SeverityNone))
}

func TestUnverifiedEvidence(t *testing.T) {
	ev := UnverifiedEvidence("mystery gum")
	assert.True(t, ev.Unverified)
	assert.Equal(t, SeverityNone, ev.Severity)
	assert.NotEmpty(t, ev.Summary, "absence of evidence still carries an explanation")
}
