package scheduler

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"focusmatrix-backend/internal/push"
)

// Scheduler ticks once a minute and sends the daily reminder to every
// user whose local reminder time just came up. Timezones are evaluated
// per user, so 09:00 means 09:00 wherever the user is.
type Scheduler struct {
	db       *sql.DB
	notifier *push.Notifier
	cron     *cron.Cron
}

func New(db *sql.DB, notifier *push.Notifier) *Scheduler {
	return &Scheduler{
		db:       db,
		notifier: notifier,
		cron:     cron.New(),
	}
}

func (s *Scheduler) Start() {
	if !s.notifier.Enabled() {
		log.Println("push not configured, reminder scheduler disabled")
		return
	}

	_, err := s.cron.AddFunc("* * * * *", s.tick)
	if err != nil {
		log.Printf("[WARN] scheduler setup failed: %v", err)
		return
	}
	s.cron.Start()
	log.Println("reminder scheduler started")
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Second)
	defer cancel()

	now := time.Now()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, reminder_time, timezone
		FROM users
		WHERE notifications_enabled = true
	`)
	if err != nil {
		log.Printf("[WARN] scheduler query failed: %v", err)
		return
	}
	defer rows.Close()

	type target struct {
		userID       int
		reminderTime string
		timezone     string
	}
	targets := []target{}
	for rows.Next() {
		var t target
		if err := rows.Scan(&t.userID, &t.reminderTime, &t.timezone); err != nil {
			log.Printf("[WARN] scheduler scan failed: %v", err)
			return
		}
		targets = append(targets, t)
	}
	if err := rows.Err(); err != nil {
		log.Printf("[WARN] scheduler rows error: %v", err)
		return
	}

	for _, t := range targets {
		loc, err := time.LoadLocation(t.timezone)
		if err != nil {
			loc = time.UTC
		}
		if now.In(loc).Format("15:04") != t.reminderTime {
			continue
		}

		if err := s.notifier.SendDailyReminder(ctx, t.userID); err != nil {
			log.Printf("[WARN] daily reminder failed for user %d: %v", t.userID, err)
		}
	}
}
