package push

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"focusmatrix-backend/internal/auth"
)

// -------------------------------
// HANDLERS
// -------------------------------

func PublicKeyHandler(n *Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !n.Enabled() {
			http.Error(w, "push not configured", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"publicKey": n.PublicKey()})
	}
}

func SubscribeHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			Endpoint string `json:"endpoint"`
			Keys     struct {
				P256dh string `json:"p256dh"`
				Auth   string `json:"auth"`
			} `json:"keys"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if body.Endpoint == "" || body.Keys.P256dh == "" || body.Keys.Auth == "" {
			http.Error(w, "endpoint and keys are required", http.StatusBadRequest)
			return
		}

		// re-subscribing the same endpoint revives it
		_, err := dbx.ExecContext(r.Context(), `
			INSERT INTO push_subscriptions (user_id, endpoint, p256dh, auth)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (endpoint) DO UPDATE
			SET user_id = EXCLUDED.user_id,
			    p256dh = EXCLUDED.p256dh,
			    auth = EXCLUDED.auth,
			    active = true,
			    failure_count = 0
		`, uid, body.Endpoint, body.Keys.P256dh, body.Keys.Auth)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusCreated)
	}
}

func UnsubscribeHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			Endpoint string `json:"endpoint"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Endpoint == "" {
			http.Error(w, "endpoint is required", http.StatusBadRequest)
			return
		}

		_, err := dbx.ExecContext(r.Context(), `
			DELETE FROM push_subscriptions WHERE user_id = $1 AND endpoint = $2
		`, uid, body.Endpoint)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// TestHandler fires an immediate reminder at the caller so they can
// verify their browser actually shows it.
func TestHandler(n *Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := n.SendDailyReminder(r.Context(), uid); err != nil {
			http.Error(w, "push error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
