package suggestions

import (
	"context"
	"time"

	"focusmatrix-backend/internal/tasks"
)

// Store is the record-store surface the suggestion engine needs. The
// engine itself never persists anything else; postgres.go is the real
// implementation and tests use an in-memory fake.
type Store interface {
	// completed-task history, ordered by completion time descending
	CompletedTasksSince(ctx context.Context, userID int, since time.Time) ([]CompletedTask, error)
	// texts of the user's currently open tasks
	OpenTaskTexts(ctx context.Context, userID int) ([]string, error)
	// task row created when a suggestion is accepted
	CreateTask(ctx context.Context, userID int, text, dbQuadrant string, xp *int, scores *tasks.AIScores) (int, error)

	Get(ctx context.Context, userID, id int) (*SuggestedTask, error)
	Insert(ctx context.Context, s *SuggestedTask) error
	SetStatus(ctx context.Context, id int, status Status) error
	SetSnoozed(ctx context.Context, id int, until time.Time) error
	MarkShown(ctx context.Context, ids []int, at time.Time) error
	// SNOOZED records whose snoozeUntil elapsed go back to PENDING
	ReleaseExpiredSnoozes(ctx context.Context, userID int, now time.Time) error

	// PENDING records ordered by confidence descending; limit <= 0 means all
	ListPending(ctx context.Context, userID, limit int) ([]SuggestedTask, error)
	CountShownSince(ctx context.Context, userID int, since time.Time) (int, error)
	BlockedFingerprints(ctx context.Context, userID int) (map[string]bool, error)
	DismissedFingerprintsSince(ctx context.Context, userID int, since time.Time) (map[string]bool, error)
	// true when a PENDING or SNOOZED record with this fingerprint exists
	HasActiveFingerprint(ctx context.Context, userID int, fingerprint string) (bool, error)
}

// TaskParser is the external free-text parsing collaborator. Accept
// tolerates its failure.
type TaskParser interface {
	ParseTask(ctx context.Context, input string) (tasks.Parsed, error)
}
