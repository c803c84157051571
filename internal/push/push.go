package push

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
)

// Notifier sends web-push notifications to every active subscription a
// user has. Endpoints that come back 404/410 are deactivated; other
// failures are counted and a subscription is retired after too many in
// a row.
type Notifier struct {
	db              *sql.DB
	vapidPublicKey  string
	vapidPrivateKey string
	subscriber      string
}

const maxConsecutiveFailures = 5

func NewNotifier(db *sql.DB, vapidPublicKey, vapidPrivateKey, subscriberEmail string) *Notifier {
	return &Notifier{
		db:              db,
		vapidPublicKey:  vapidPublicKey,
		vapidPrivateKey: vapidPrivateKey,
		subscriber:      "mailto:" + subscriberEmail,
	}
}

func (n *Notifier) Enabled() bool {
	return n.vapidPublicKey != "" && n.vapidPrivateKey != ""
}

func (n *Notifier) PublicKey() string {
	return n.vapidPublicKey
}

type subscription struct {
	id       int
	endpoint string
	p256dh   string
	auth     string
}

// payload is what the service worker receives.
type payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url,omitempty"`
}

// Send pushes the payload to every active subscription of the user.
// Per-endpoint failures are logged, not returned; one dead endpoint
// must not block the rest.
func (n *Notifier) Send(ctx context.Context, userID int, p payload) error {
	if !n.Enabled() {
		return nil
	}

	rows, err := n.db.QueryContext(ctx, `
		SELECT id, endpoint, p256dh, auth
		FROM push_subscriptions
		WHERE user_id = $1 AND active = true
	`, userID)
	if err != nil {
		return err
	}
	defer rows.Close()

	subs := []subscription{}
	for rows.Next() {
		var s subscription
		if err := rows.Scan(&s.id, &s.endpoint, &s.p256dh, &s.auth); err != nil {
			return err
		}
		subs = append(subs, s)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(p)
	if err != nil {
		return err
	}

	for _, s := range subs {
		n.sendOne(ctx, s, body)
	}
	return nil
}

func (n *Notifier) sendOne(ctx context.Context, s subscription, body []byte) {
	resp, err := webpush.SendNotification(body, &webpush.Subscription{
		Endpoint: s.endpoint,
		Keys: webpush.Keys{
			P256dh: s.p256dh,
			Auth:   s.auth,
		},
	}, &webpush.Options{
		Subscriber:      n.subscriber,
		VAPIDPublicKey:  n.vapidPublicKey,
		VAPIDPrivateKey: n.vapidPrivateKey,
		TTL:             3600,
	})
	if err != nil {
		log.Printf("[WARN] push send failed for subscription %d: %v", s.id, err)
		n.recordFailure(ctx, s.id)
		return
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		// endpoint no longer exists
		n.deactivate(ctx, s.id)
	case resp.StatusCode >= 400:
		log.Printf("[WARN] push endpoint %d returned %d", s.id, resp.StatusCode)
		n.recordFailure(ctx, s.id)
	default:
		n.resetFailures(ctx, s.id)
	}
}

func (n *Notifier) deactivate(ctx context.Context, id int) {
	_, _ = n.db.ExecContext(ctx, `
		UPDATE push_subscriptions SET active = false WHERE id = $1
	`, id)
}

func (n *Notifier) recordFailure(ctx context.Context, id int) {
	_, _ = n.db.ExecContext(ctx, `
		UPDATE push_subscriptions
		SET failure_count = failure_count + 1,
		    active = (failure_count + 1 < $2)
		WHERE id = $1
	`, id, maxConsecutiveFailures)
}

func (n *Notifier) resetFailures(ctx context.Context, id int) {
	_, _ = n.db.ExecContext(ctx, `
		UPDATE push_subscriptions SET failure_count = 0 WHERE id = $1
	`, id)
}

// YesterdayStats summarizes the previous day for the reminder copy.
type YesterdayStats struct {
	CompletedCount int
	XPGained       int
	OpenUrgent     int
}

func (n *Notifier) yesterdayStats(ctx context.Context, userID int) (YesterdayStats, error) {
	var stats YesterdayStats

	err := n.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(xp), 0)
		FROM tasks
		WHERE user_id = $1
		  AND completed = true
		  AND completed_at >= NOW() - INTERVAL '1 day'
	`, userID).Scan(&stats.CompletedCount, &stats.XPGained)
	if err != nil {
		return stats, err
	}

	err = n.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM tasks
		WHERE user_id = $1
		  AND completed = false
		  AND quadrant = 'URGENT_IMPORTANT'
	`, userID).Scan(&stats.OpenUrgent)
	return stats, err
}

// SendDailyReminder builds the morning nudge from yesterday's numbers
// and pushes it.
func (n *Notifier) SendDailyReminder(ctx context.Context, userID int) error {
	stats, err := n.yesterdayStats(ctx, userID)
	if err != nil {
		return err
	}

	body := "Plan your day in the matrix."
	if stats.CompletedCount > 0 {
		body = fmt.Sprintf("Yesterday: %d done, +%d XP. Keep it going.",
			stats.CompletedCount, stats.XPGained)
	}
	if stats.OpenUrgent > 0 {
		body += fmt.Sprintf(" %d urgent & important waiting.", stats.OpenUrgent)
	}

	return n.Send(ctx, userID, payload{
		Title: "Today's pressure",
		Body:  body,
		URL:   "/",
	})
}
