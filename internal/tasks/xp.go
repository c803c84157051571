package tasks

import "encoding/json"

var ValidXPValues = []int{5, 15, 30, 60, 100}

type AIScores struct {
	FuturePainScore float64 `json:"futurePainScore"`
	UrgencyScore    float64 `json:"urgencyScore"`
	FrictionScore   float64 `json:"frictionScore"`
}

func DefaultAIScores() AIScores {
	return AIScores{FuturePainScore: 0.5, UrgencyScore: 0.5, FrictionScore: 0.5}
}

// CalculateXPFromScores buckets the weighted score into one of the
// fixed XP values.
func CalculateXPFromScores(scores AIScores) int {
	raw := 0.5*scores.FuturePainScore +
		0.3*scores.UrgencyScore +
		0.2*scores.FrictionScore

	switch {
	case raw < 0.2:
		return 5
	case raw < 0.4:
		return 15
	case raw < 0.6:
		return 30
	case raw < 0.8:
		return 60
	default:
		return 100
	}
}

// ValidateAIScores parses a raw aiScores value. All three fields must
// be numbers; values are clamped to [0,1]. Returns nil on anything else.
func ValidateAIScores(raw json.RawMessage) *AIScores {
	if len(raw) == 0 {
		return nil
	}

	var obj struct {
		FuturePainScore *float64 `json:"futurePainScore"`
		UrgencyScore    *float64 `json:"urgencyScore"`
		FrictionScore   *float64 `json:"frictionScore"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil
	}
	if obj.FuturePainScore == nil || obj.UrgencyScore == nil || obj.FrictionScore == nil {
		return nil
	}

	clamp := func(v float64) float64 {
		if v < 0 {
			return 0
		}
		if v > 1 {
			return 1
		}
		return v
	}

	return &AIScores{
		FuturePainScore: clamp(*obj.FuturePainScore),
		UrgencyScore:    clamp(*obj.UrgencyScore),
		FrictionScore:   clamp(*obj.FrictionScore),
	}
}
