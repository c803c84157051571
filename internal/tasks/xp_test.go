package tasks

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateXPFromScores(t *testing.T) {
	cases := []struct {
		name   string
		scores AIScores
		want   int
	}{
		{"all zero", AIScores{}, 5},
		{"all max", AIScores{FuturePainScore: 1, UrgencyScore: 1, FrictionScore: 1}, 100},
		{"defaults land in the middle", DefaultAIScores(), 30},
		{"low band", AIScores{FuturePainScore: 0.1, UrgencyScore: 0.1, FrictionScore: 0.1}, 5},
		{"exact 0.2 boundary rounds up", AIScores{FuturePainScore: 0.2, UrgencyScore: 0.2, FrictionScore: 0.2}, 15},
		{"exact 0.8 boundary rounds up", AIScores{FuturePainScore: 0.8, UrgencyScore: 0.8, FrictionScore: 0.8}, 100},
		{"pain weighs heaviest", AIScores{FuturePainScore: 1, UrgencyScore: 0, FrictionScore: 0}, 30},
		{"friction weighs lightest", AIScores{FuturePainScore: 0, UrgencyScore: 0, FrictionScore: 1}, 15},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CalculateXPFromScores(tc.scores))
		})
	}
}

func TestCalculateXPAlwaysValid(t *testing.T) {
	for _, s := range []AIScores{
		{}, DefaultAIScores(),
		{FuturePainScore: 0.33, UrgencyScore: 0.71, FrictionScore: 0.12},
		{FuturePainScore: 1, UrgencyScore: 1, FrictionScore: 1},
	} {
		assert.Contains(t, ValidXPValues, CalculateXPFromScores(s))
	}
}

func TestValidateAIScores(t *testing.T) {
	t.Run("valid object", func(t *testing.T) {
		got := ValidateAIScores(json.RawMessage(`{"futurePainScore":0.7,"urgencyScore":0.2,"frictionScore":0.5}`))
		require.NotNil(t, got)
		assert.Equal(t, 0.7, got.FuturePainScore)
		assert.Equal(t, 0.2, got.UrgencyScore)
		assert.Equal(t, 0.5, got.FrictionScore)
	})

	t.Run("out of range values clamped", func(t *testing.T) {
		got := ValidateAIScores(json.RawMessage(`{"futurePainScore":1.5,"urgencyScore":-0.2,"frictionScore":0.5}`))
		require.NotNil(t, got)
		assert.Equal(t, 1.0, got.FuturePainScore)
		assert.Equal(t, 0.0, got.UrgencyScore)
	})

	t.Run("missing field rejected", func(t *testing.T) {
		assert.Nil(t, ValidateAIScores(json.RawMessage(`{"futurePainScore":0.5,"urgencyScore":0.5}`)))
	})

	t.Run("non-numeric field rejected", func(t *testing.T) {
		assert.Nil(t, ValidateAIScores(json.RawMessage(`{"futurePainScore":"high","urgencyScore":0.5,"frictionScore":0.5}`)))
	})

	t.Run("malformed json rejected", func(t *testing.T) {
		assert.Nil(t, ValidateAIScores(json.RawMessage(`{broken`)))
	})

	t.Run("empty input rejected", func(t *testing.T) {
		assert.Nil(t, ValidateAIScores(nil))
	})
}
