package tasks

import "time"

// Task is the API shape. Quadrant and Complexity are in frontend form
// ("urgent-important", "easy"); the DB keeps the enum form.
type Task struct {
	ID          int        `json:"id"`
	Text        string     `json:"text"`
	Description *string    `json:"description"`
	Deadline    *time.Time `json:"deadline"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt"`
	Quadrant    string     `json:"quadrant"`
	Complexity  *string    `json:"complexity"`
	ShowAfter   *time.Time `json:"showAfter"`
	Recurrence  Recurrence `json:"recurrence"`
	XP          *int       `json:"xp"`
	AIScores    *AIScores  `json:"aiScores"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
