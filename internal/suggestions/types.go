package suggestions

import "time"

type SourceType string

const (
	SourceRecurrence   SourceType = "RECURRENCE_DETECTED"
	SourceFollowUp     SourceType = "FOLLOW_UP"
	SourceLateAddition SourceType = "LATE_ADDITION"
	SourceDependency   SourceType = "DEPENDENCY"
	SourceMaintenance  SourceType = "MAINTENANCE"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusAccepted  Status = "ACCEPTED"
	StatusSnoozed   Status = "SNOOZED"
	StatusDismissed Status = "DISMISSED"
	StatusNever     Status = "NEVER"
)

// CompletedTask is one entry of the user's completed-task history.
type CompletedTask struct {
	ID          int
	Text        string
	CompletedAt *time.Time
}

// TextCluster groups completed tasks that express the same intent.
// Invariant: Occurrences == len(TaskIDs) == len(Texts); CompletedDates
// is sorted ascending and may be shorter when a date was missing.
type TextCluster struct {
	NormalizedText      string
	TaskIDs             []int
	Occurrences         int
	Texts               []string
	CompletedDates      []time.Time
	AverageIntervalDays float64
}

// Candidate is the generator's ephemeral output; the lifecycle service
// decides whether it becomes a SuggestedTask record.
type Candidate struct {
	SuggestedText  string     `json:"suggestedText"`
	SourceType     SourceType `json:"sourceType"`
	Confidence     float64    `json:"confidence"`
	Why            string     `json:"why"`
	Fingerprint    string     `json:"fingerprint"`
	RelatedTaskIDs []int      `json:"relatedTaskIds"`
}

// SuggestedTask is the persisted suggestion record.
type SuggestedTask struct {
	ID             int        `json:"id"`
	UserID         int        `json:"-"`
	SuggestedText  string     `json:"suggestedText"`
	SourceType     SourceType `json:"sourceType"`
	Confidence     float64    `json:"confidence"`
	Why            string     `json:"why"`
	Status         Status     `json:"status"`
	Fingerprint    string     `json:"fingerprint"`
	RelatedTaskIDs []int      `json:"relatedTaskIds"`
	SnoozeUntil    *time.Time `json:"snoozeUntil"`
	LastShownAt    *time.Time `json:"lastShownAt"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}
