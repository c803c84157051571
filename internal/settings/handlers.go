package settings

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"regexp"
	"time"

	"focusmatrix-backend/internal/auth"
)

var reminderTimeRe = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

type NotificationSettings struct {
	NotificationsEnabled bool   `json:"notificationsEnabled"`
	ReminderTime         string `json:"reminderTime"`
	Timezone             string `json:"timezone"`
}

func defaults() NotificationSettings {
	return NotificationSettings{
		NotificationsEnabled: false,
		ReminderTime:         "09:00",
		Timezone:             "UTC",
	}
}

// -------------------------------
// HANDLERS
// -------------------------------

func GetNotificationSettingsHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		s := defaults()
		err := dbx.QueryRowContext(r.Context(), `
			SELECT notifications_enabled, reminder_time, timezone
			FROM users WHERE id = $1
		`, uid).Scan(&s.NotificationsEnabled, &s.ReminderTime, &s.Timezone)
		if err == sql.ErrNoRows {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(s)
	}
}

func UpdateNotificationSettingsHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body NotificationSettings
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		if !reminderTimeRe.MatchString(body.ReminderTime) {
			http.Error(w, "reminderTime must be HH:MM", http.StatusBadRequest)
			return
		}
		if _, err := time.LoadLocation(body.Timezone); err != nil {
			http.Error(w, "invalid timezone", http.StatusBadRequest)
			return
		}

		_, err := dbx.ExecContext(r.Context(), `
			UPDATE users
			SET notifications_enabled = $1, reminder_time = $2, timezone = $3
			WHERE id = $4
		`, body.NotificationsEnabled, body.ReminderTime, body.Timezone, uid)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	}
}
