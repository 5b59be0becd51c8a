package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCondition(t *testing.T) {
	tests := []struct {
		input   string
		want    Condition
		wantErr bool
	}{
		{"diabetes", ConditionDiabetes, false},
		{"  Hypertension ", ConditionHypertension, false},
		{"high cholesterol", ConditionHighCholesterol, false},
		{"ckd", ConditionKidneyDisease, false},
		{"pcos", ConditionPCOS, false},
		{"gout", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseCondition(tt.input)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrUnknownCondition, "input %q", tt.input)
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseDietGoal(t *testing.T) {
	got, err := ParseDietGoal("")
	require.NoError(t, err)
	assert.Equal(t, GoalGeneral, got)

	got, err = ParseDietGoal("lose weight")
	require.NoError(t, err)
	assert.Equal(t, GoalWeightLoss, got)

	_, err = ParseDietGoal("bulk")
	assert.ErrorIs(t, err, ErrUnknownGoal)
}

func TestNewUserProfile(t *testing.T) {
	p, err := NewUserProfile([]string{"diabetes", "Hypertension"}, []string{"Peanut "}, "weight loss")
	require.NoError(t, err)

	assert.Equal(t, []Condition{ConditionDiabetes, ConditionHypertension}, p.Conditions)
	assert.Equal(t, []string{"peanut"}, p.Allergens)
	assert.Equal(t, GoalWeightLoss, p.Goal)
	assert.True(t, p.HasCondition(ConditionDiabetes))
	assert.False(t, p.HasCondition(ConditionPCOS))
}

func TestNewUserProfileRejectsBadInput(t *testing.T) {
	_, err := NewUserProfile([]string{"unknown"}, nil, "")
	assert.ErrorIs(t, err, ErrUnknownCondition)

	_, err = NewUserProfile(nil, []string{"  "}, "")
	assert.ErrorIs(t, err, ErrEmptyAllergen)

	_, err = NewUserProfile(nil, nil, "nonsense")
	assert.ErrorIs(t, err, ErrUnknownGoal)
}

func TestZeroValueProfileIsValid(t *testing.T) {
	var p UserProfile
	assert.NoError(t, p.Validate())
}
