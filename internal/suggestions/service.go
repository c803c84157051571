package suggestions

import (
	"context"
	"errors"
	"log"
	"time"

	"focusmatrix-backend/internal/tasks"
)

const (
	maxSuggestionsPerDay = 2
	snoozeDuration       = 24 * time.Hour
	dismissCooldownDays  = 7
)

var ErrNotFound = errors.New("suggestion not found")

// Service owns the suggestion lifecycle: when candidates become
// records, how often they surface, and what accept/snooze/dismiss/never
// do to them.
type Service struct {
	store  Store
	gen    *Generator
	parser TaskParser
	now    func() time.Time
}

func NewService(store Store, parser TaskParser) *Service {
	return &Service{
		store:  store,
		gen:    NewGenerator(store),
		parser: parser,
		now:    time.Now,
	}
}

// ListForUser returns today's batch of pending suggestions, at most
// maxSuggestionsPerDay per calendar day. Already-pending records take
// the slots first; when they don't fill the quota the generator runs
// and all surviving candidates are persisted, though only the top few
// surface now. Records surfaced here get their lastShownAt stamped,
// and once the daily quota is exhausted the result is empty until
// midnight.
func (s *Service) ListForUser(ctx context.Context, userID int) ([]SuggestedTask, error) {
	now := s.now()

	if err := s.store.ReleaseExpiredSnoozes(ctx, userID, now); err != nil {
		return nil, err
	}

	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	shownToday, err := s.store.CountShownSince(ctx, userID, startOfDay)
	if err != nil {
		return nil, err
	}
	if shownToday >= maxSuggestionsPerDay {
		return []SuggestedTask{}, nil
	}
	slots := maxSuggestionsPerDay - shownToday

	pending, err := s.store.ListPending(ctx, userID, slots)
	if err != nil {
		return nil, err
	}
	if len(pending) >= slots {
		ids := make([]int, 0, len(pending))
		for _, p := range pending {
			ids = append(ids, p.ID)
		}
		if err := s.store.MarkShown(ctx, ids, now); err != nil {
			return nil, err
		}
		return pending, nil
	}

	if err := s.topUp(ctx, userID, pending, now); err != nil {
		return nil, err
	}

	result, err := s.store.ListPending(ctx, userID, slots)
	if err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(result))
	for _, r := range result {
		if r.LastShownAt == nil || r.LastShownAt.Before(now) {
			ids = append(ids, r.ID)
		}
	}
	if len(ids) > 0 {
		if err := s.store.MarkShown(ctx, ids, now); err != nil {
			return nil, err
		}
		for i := range result {
			if result[i].LastShownAt == nil || result[i].LastShownAt.Before(now) {
				shown := now
				result[i].LastShownAt = &shown
			}
		}
	}
	return result, nil
}

// topUp runs the generator and persists every surviving candidate as a
// PENDING record, not just enough to fill today's display slots; the
// overflow is banked with its scored confidence and competes on later
// days. A candidate is filtered out when its fingerprint is blocked
// forever, was dismissed within the cooldown, already has an active
// record, or reads too close to something already pending.
func (s *Service) topUp(ctx context.Context, userID int, pending []SuggestedTask, now time.Time) error {
	candidates, err := s.gen.Generate(ctx, userID)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		return nil
	}

	blocked, err := s.store.BlockedFingerprints(ctx, userID)
	if err != nil {
		return err
	}
	cooldownCutoff := now.AddDate(0, 0, -dismissCooldownDays)
	dismissed, err := s.store.DismissedFingerprintsSince(ctx, userID, cooldownCutoff)
	if err != nil {
		return err
	}

	for _, cand := range candidates {
		if blocked[cand.Fingerprint] || dismissed[cand.Fingerprint] {
			continue
		}

		active, err := s.store.HasActiveFingerprint(ctx, userID, cand.Fingerprint)
		if err != nil {
			return err
		}
		if active {
			continue
		}

		tooSimilar := false
		for _, p := range pending {
			if jaccardSimilarity(cand.SuggestedText, p.SuggestedText) >= similarityThreshold {
				tooSimilar = true
				break
			}
		}
		if tooSimilar {
			continue
		}

		record := &SuggestedTask{
			UserID:         userID,
			SuggestedText:  cand.SuggestedText,
			SourceType:     cand.SourceType,
			Confidence:     cand.Confidence,
			Why:            cand.Why,
			Status:         StatusPending,
			Fingerprint:    cand.Fingerprint,
			RelatedTaskIDs: cand.RelatedTaskIDs,
		}
		if err := s.store.Insert(ctx, record); err != nil {
			return err
		}
		pending = append(pending, *record)
	}
	return nil
}

// AcceptResult is what the client needs to render the new task.
type AcceptResult struct {
	TaskID int  `json:"taskId"`
	XP     *int `json:"xp"`
}

// Accept turns a suggestion into a real task. The free-text parser is
// best effort: when it fails the task is still created in the given
// quadrant with no XP attached.
func (s *Service) Accept(ctx context.Context, userID, id int, dbQuadrant string) (*AcceptResult, error) {
	sug, err := s.store.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if sug == nil {
		return nil, ErrNotFound
	}

	var xp *int
	var scores *tasks.AIScores
	if s.parser != nil {
		parsed, err := s.parser.ParseTask(ctx, sug.SuggestedText)
		if err != nil {
			log.Printf("[WARN] parse on accept failed for suggestion %d: %v", id, err)
		} else {
			xp = &parsed.XP
			scores = &parsed.AIScores
		}
	}

	taskID, err := s.store.CreateTask(ctx, userID, sug.SuggestedText, dbQuadrant, xp, scores)
	if err != nil {
		return nil, err
	}

	if err := s.store.SetStatus(ctx, sug.ID, StatusAccepted); err != nil {
		return nil, err
	}

	return &AcceptResult{TaskID: taskID, XP: xp}, nil
}

// Snooze hides the suggestion for 24 hours; it comes back as PENDING
// once the window elapses.
func (s *Service) Snooze(ctx context.Context, userID, id int) error {
	sug, err := s.store.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if sug == nil {
		return ErrNotFound
	}
	return s.store.SetSnoozed(ctx, sug.ID, s.now().Add(snoozeDuration))
}

// Dismiss retires the record and keeps its fingerprint out of new
// batches for the cooldown window. After that the same intent may be
// suggested again.
func (s *Service) Dismiss(ctx context.Context, userID, id int) error {
	sug, err := s.store.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if sug == nil {
		return ErrNotFound
	}
	return s.store.SetStatus(ctx, sug.ID, StatusDismissed)
}

// Never blocks the fingerprint permanently: nothing with the same
// normalized text and source type is ever suggested again.
func (s *Service) Never(ctx context.Context, userID, id int) error {
	sug, err := s.store.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if sug == nil {
		return ErrNotFound
	}
	return s.store.SetStatus(ctx, sug.ID, StatusNever)
}
