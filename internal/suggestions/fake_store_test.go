package suggestions

import (
	"context"
	"sort"
	"time"

	"focusmatrix-backend/internal/tasks"
)

// fakeStore is the in-memory Store used across the engine tests.
type fakeStore struct {
	completed []CompletedTask
	openTexts []string
	records   []*SuggestedTask
	created   []createdTask

	nextID     int
	nextTaskID int
	clock      func() time.Time
}

type createdTask struct {
	userID   int
	text     string
	quadrant string
	xp       *int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		nextID:     1,
		nextTaskID: 100,
		clock:      time.Now,
	}
}

func (f *fakeStore) CompletedTasksSince(ctx context.Context, userID int, since time.Time) ([]CompletedTask, error) {
	out := []CompletedTask{}
	for _, t := range f.completed {
		if t.CompletedAt != nil && !t.CompletedAt.Before(since) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) OpenTaskTexts(ctx context.Context, userID int) ([]string, error) {
	return f.openTexts, nil
}

func (f *fakeStore) CreateTask(ctx context.Context, userID int, text, dbQuadrant string, xp *int, scores *tasks.AIScores) (int, error) {
	f.created = append(f.created, createdTask{userID: userID, text: text, quadrant: dbQuadrant, xp: xp})
	id := f.nextTaskID
	f.nextTaskID++
	return id, nil
}

func (f *fakeStore) Get(ctx context.Context, userID, id int) (*SuggestedTask, error) {
	for _, rec := range f.records {
		if rec.ID == id && rec.UserID == userID {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) Insert(ctx context.Context, s *SuggestedTask) error {
	s.ID = f.nextID
	f.nextID++
	s.CreatedAt = f.clock()
	s.UpdatedAt = s.CreatedAt
	cp := *s
	f.records = append(f.records, &cp)
	return nil
}

func (f *fakeStore) find(id int) *SuggestedTask {
	for _, rec := range f.records {
		if rec.ID == id {
			return rec
		}
	}
	return nil
}

func (f *fakeStore) SetStatus(ctx context.Context, id int, status Status) error {
	if rec := f.find(id); rec != nil {
		rec.Status = status
		rec.SnoozeUntil = nil
		rec.UpdatedAt = f.clock()
	}
	return nil
}

func (f *fakeStore) SetSnoozed(ctx context.Context, id int, until time.Time) error {
	if rec := f.find(id); rec != nil {
		rec.Status = StatusSnoozed
		u := until
		rec.SnoozeUntil = &u
		rec.UpdatedAt = f.clock()
	}
	return nil
}

func (f *fakeStore) MarkShown(ctx context.Context, ids []int, at time.Time) error {
	for _, id := range ids {
		if rec := f.find(id); rec != nil {
			shown := at
			rec.LastShownAt = &shown
		}
	}
	return nil
}

func (f *fakeStore) ReleaseExpiredSnoozes(ctx context.Context, userID int, now time.Time) error {
	for _, rec := range f.records {
		if rec.UserID == userID && rec.Status == StatusSnoozed &&
			rec.SnoozeUntil != nil && !rec.SnoozeUntil.After(now) {
			rec.Status = StatusPending
			rec.SnoozeUntil = nil
			rec.UpdatedAt = f.clock()
		}
	}
	return nil
}

func (f *fakeStore) ListPending(ctx context.Context, userID, limit int) ([]SuggestedTask, error) {
	out := []SuggestedTask{}
	for _, rec := range f.records {
		if rec.UserID == userID && rec.Status == StatusPending {
			out = append(out, *rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Confidence > out[j].Confidence })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) CountShownSince(ctx context.Context, userID int, since time.Time) (int, error) {
	count := 0
	for _, rec := range f.records {
		if rec.UserID == userID && rec.LastShownAt != nil && !rec.LastShownAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) BlockedFingerprints(ctx context.Context, userID int) (map[string]bool, error) {
	set := map[string]bool{}
	for _, rec := range f.records {
		if rec.UserID == userID && rec.Status == StatusNever {
			set[rec.Fingerprint] = true
		}
	}
	return set, nil
}

func (f *fakeStore) DismissedFingerprintsSince(ctx context.Context, userID int, since time.Time) (map[string]bool, error) {
	set := map[string]bool{}
	for _, rec := range f.records {
		if rec.UserID == userID && rec.Status == StatusDismissed && !rec.UpdatedAt.Before(since) {
			set[rec.Fingerprint] = true
		}
	}
	return set, nil
}

func (f *fakeStore) HasActiveFingerprint(ctx context.Context, userID int, fingerprint string) (bool, error) {
	for _, rec := range f.records {
		if rec.UserID == userID && rec.Fingerprint == fingerprint &&
			(rec.Status == StatusPending || rec.Status == StatusSnoozed) {
			return true, nil
		}
	}
	return false, nil
}

// fakeParser satisfies TaskParser without the AI round trip.
type fakeParser struct {
	parsed tasks.Parsed
	err    error
}

func (p *fakeParser) ParseTask(ctx context.Context, input string) (tasks.Parsed, error) {
	return p.parsed, p.err
}
