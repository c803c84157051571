package suggestions

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/lib/pq"

	"focusmatrix-backend/internal/tasks"
)

const suggestionColumns = `
	id, user_id, suggested_text, source_type, confidence, why, status,
	fingerprint, related_task_ids, snooze_until, last_shown_at,
	created_at, updated_at`

// PostgresStore is the sql-backed Store. All queries are scoped by
// user_id; a suggestion is never visible across users.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func scanSuggestion(row rowScanner) (SuggestedTask, error) {
	var (
		s           SuggestedTask
		related     pq.Int64Array
		snoozeUntil sql.NullTime
		lastShownAt sql.NullTime
	)

	err := row.Scan(
		&s.ID, &s.UserID, &s.SuggestedText, &s.SourceType, &s.Confidence,
		&s.Why, &s.Status, &s.Fingerprint, &related, &snoozeUntil,
		&lastShownAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return SuggestedTask{}, err
	}

	s.RelatedTaskIDs = make([]int, 0, len(related))
	for _, id := range related {
		s.RelatedTaskIDs = append(s.RelatedTaskIDs, int(id))
	}
	if snoozeUntil.Valid {
		t := snoozeUntil.Time
		s.SnoozeUntil = &t
	}
	if lastShownAt.Valid {
		t := lastShownAt.Time
		s.LastShownAt = &t
	}

	return s, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (p *PostgresStore) CompletedTasksSince(ctx context.Context, userID int, since time.Time) ([]CompletedTask, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, text, completed_at
		FROM tasks
		WHERE user_id = $1 AND completed = true AND completed_at >= $2
		ORDER BY completed_at DESC
	`, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []CompletedTask{}
	for rows.Next() {
		var t CompletedTask
		var completedAt sql.NullTime
		if err := rows.Scan(&t.ID, &t.Text, &completedAt); err != nil {
			return nil, err
		}
		if completedAt.Valid {
			c := completedAt.Time
			t.CompletedAt = &c
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

func (p *PostgresStore) OpenTaskTexts(ctx context.Context, userID int) ([]string, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT text FROM tasks WHERE user_id = $1 AND completed = false
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	texts := []string{}
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, err
		}
		texts = append(texts, text)
	}
	return texts, rows.Err()
}

func (p *PostgresStore) CreateTask(ctx context.Context, userID int, text, dbQuadrant string, xp *int, scores *tasks.AIScores) (int, error) {
	var aiScoresJSON *string
	if scores != nil {
		b, _ := json.Marshal(scores)
		s := string(b)
		aiScoresJSON = &s
	}

	var id int
	err := p.db.QueryRowContext(ctx, `
		INSERT INTO tasks (user_id, text, quadrant, xp, ai_scores)
		VALUES ($1, $2, $3, $4, $5::jsonb)
		RETURNING id
	`, userID, text, dbQuadrant, xp, aiScoresJSON).Scan(&id)
	return id, err
}

func (p *PostgresStore) Get(ctx context.Context, userID, id int) (*SuggestedTask, error) {
	row := p.db.QueryRowContext(ctx, `
		SELECT `+suggestionColumns+`
		FROM suggested_tasks
		WHERE id = $1 AND user_id = $2
	`, id, userID)

	s, err := scanSuggestion(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (p *PostgresStore) Insert(ctx context.Context, s *SuggestedTask) error {
	related := make(pq.Int64Array, 0, len(s.RelatedTaskIDs))
	for _, id := range s.RelatedTaskIDs {
		related = append(related, int64(id))
	}

	return p.db.QueryRowContext(ctx, `
		INSERT INTO suggested_tasks (
			user_id, suggested_text, source_type, confidence, why,
			status, fingerprint, related_task_ids, snooze_until, last_shown_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`, s.UserID, s.SuggestedText, s.SourceType, s.Confidence, s.Why,
		s.Status, s.Fingerprint, related, s.SnoozeUntil, s.LastShownAt,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

func (p *PostgresStore) SetStatus(ctx context.Context, id int, status Status) error {
	_, err := p.db.ExecContext(ctx, `
		UPDATE suggested_tasks
		SET status = $1, snooze_until = NULL, updated_at = NOW()
		WHERE id = $2
	`, status, id)
	return err
}

func (p *PostgresStore) SetSnoozed(ctx context.Context, id int, until time.Time) error {
	_, err := p.db.ExecContext(ctx, `
		UPDATE suggested_tasks
		SET status = $1, snooze_until = $2, updated_at = NOW()
		WHERE id = $3
	`, StatusSnoozed, until, id)
	return err
}

func (p *PostgresStore) MarkShown(ctx context.Context, ids []int, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	arr := make(pq.Int64Array, 0, len(ids))
	for _, id := range ids {
		arr = append(arr, int64(id))
	}
	_, err := p.db.ExecContext(ctx, `
		UPDATE suggested_tasks
		SET last_shown_at = $1, updated_at = NOW()
		WHERE id = ANY($2)
	`, at, arr)
	return err
}

func (p *PostgresStore) ReleaseExpiredSnoozes(ctx context.Context, userID int, now time.Time) error {
	_, err := p.db.ExecContext(ctx, `
		UPDATE suggested_tasks
		SET status = $1, snooze_until = NULL, updated_at = NOW()
		WHERE user_id = $2 AND status = $3 AND snooze_until <= $4
	`, StatusPending, userID, StatusSnoozed, now)
	return err
}

func (p *PostgresStore) ListPending(ctx context.Context, userID, limit int) ([]SuggestedTask, error) {
	query := `
		SELECT ` + suggestionColumns + `
		FROM suggested_tasks
		WHERE user_id = $1 AND status = $2
		ORDER BY confidence DESC, id ASC`
	args := []any{userID, StatusPending}
	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []SuggestedTask{}
	for rows.Next() {
		s, err := scanSuggestion(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func (p *PostgresStore) CountShownSince(ctx context.Context, userID int, since time.Time) (int, error) {
	var count int
	err := p.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM suggested_tasks
		WHERE user_id = $1 AND last_shown_at >= $2
	`, userID, since).Scan(&count)
	return count, err
}

func (p *PostgresStore) BlockedFingerprints(ctx context.Context, userID int) (map[string]bool, error) {
	return p.fingerprintSet(ctx, `
		SELECT fingerprint FROM suggested_tasks
		WHERE user_id = $1 AND status = $2
	`, userID, StatusNever)
}

func (p *PostgresStore) DismissedFingerprintsSince(ctx context.Context, userID int, since time.Time) (map[string]bool, error) {
	return p.fingerprintSet(ctx, `
		SELECT fingerprint FROM suggested_tasks
		WHERE user_id = $1 AND status = $2 AND updated_at >= $3
	`, userID, StatusDismissed, since)
}

func (p *PostgresStore) fingerprintSet(ctx context.Context, query string, args ...any) (map[string]bool, error) {
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := map[string]bool{}
	for rows.Next() {
		var fp string
		if err := rows.Scan(&fp); err != nil {
			return nil, err
		}
		set[fp] = true
	}
	return set, rows.Err()
}

func (p *PostgresStore) HasActiveFingerprint(ctx context.Context, userID int, fingerprint string) (bool, error) {
	var exists bool
	err := p.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM suggested_tasks
			WHERE user_id = $1 AND fingerprint = $2 AND status IN ($3, $4)
		)
	`, userID, fingerprint, StatusPending, StatusSnoozed).Scan(&exists)
	return exists, err
}
