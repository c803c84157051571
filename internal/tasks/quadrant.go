package tasks

import "fmt"

// DB enum values
const (
	QuadrantUrgentImportant       = "URGENT_IMPORTANT"
	QuadrantNotUrgentImportant    = "NOT_URGENT_IMPORTANT"
	QuadrantUrgentNotImportant    = "URGENT_NOT_IMPORTANT"
	QuadrantNotUrgentNotImportant = "NOT_URGENT_NOT_IMPORTANT"
)

var quadrantToDB = map[string]string{
	"urgent-important":         QuadrantUrgentImportant,
	"not-urgent-important":     QuadrantNotUrgentImportant,
	"urgent-not-important":     QuadrantUrgentNotImportant,
	"not-urgent-not-important": QuadrantNotUrgentNotImportant,
}

var dbToQuadrant = map[string]string{
	QuadrantUrgentImportant:       "urgent-important",
	QuadrantNotUrgentImportant:    "not-urgent-important",
	QuadrantUrgentNotImportant:    "urgent-not-important",
	QuadrantNotUrgentNotImportant: "not-urgent-not-important",
}

var complexityToDB = map[string]string{
	"easy":   "EASY",
	"medium": "MEDIUM",
	"hard":   "HARD",
}

var dbToComplexity = map[string]string{
	"EASY":   "easy",
	"MEDIUM": "medium",
	"HARD":   "hard",
}

func ToDBQuadrant(quadrant string) (string, error) {
	mapped, ok := quadrantToDB[quadrant]
	if !ok {
		return "", fmt.Errorf("invalid quadrant: %s", quadrant)
	}
	return mapped, nil
}

func ToFrontendQuadrant(quadrant string) string {
	return dbToQuadrant[quadrant]
}

func ToDBComplexity(complexity string) (string, error) {
	mapped, ok := complexityToDB[complexity]
	if !ok {
		return "", fmt.Errorf("invalid complexity: %s", complexity)
	}
	return mapped, nil
}

func ToFrontendComplexity(complexity string) string {
	return dbToComplexity[complexity]
}
