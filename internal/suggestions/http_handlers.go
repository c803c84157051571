package suggestions

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"

	"focusmatrix-backend/internal/analytics"
	"focusmatrix-backend/internal/auth"
	"focusmatrix-backend/internal/tasks"
)

func suggestionIDFromPath(r *http.Request) (int, error) {
	return strconv.Atoi(r.PathValue("id"))
}

// -------------------------------
// HANDLERS
// -------------------------------

func ListSuggestionsHandler(svc *Service, dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		result, err := svc.ListForUser(r.Context(), uid)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		// analytics: suggestion_shown
		if len(result) > 0 {
			env := analytics.FromRequest(r)
			env.UserID = uid

			ids := make([]int, 0, len(result))
			for _, s := range result {
				ids = append(ids, s.ID)
			}
			props := map[string]any{
				"suggestion_ids": ids,
				"count":          len(result),
			}
			_ = analytics.Log(r.Context(), dbx, env, "suggestion_shown", props, analytics.SourceEventKeyFromRequest(r))
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(result)
	}
}

func AcceptSuggestionHandler(svc *Service, dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		id, err := suggestionIDFromPath(r)
		if err != nil {
			http.Error(w, "invalid suggestion id", http.StatusBadRequest)
			return
		}

		var body struct {
			Quadrant string `json:"quadrant"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		dbQuadrant, err := tasks.ToDBQuadrant(body.Quadrant)
		if err != nil {
			http.Error(w, "invalid quadrant value", http.StatusBadRequest)
			return
		}

		result, err := svc.Accept(r.Context(), uid, id, dbQuadrant)
		if err == ErrNotFound {
			http.Error(w, "suggestion not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		// analytics: suggestion_accepted
		{
			env := analytics.FromRequest(r)
			env.UserID = uid

			props := map[string]any{
				"suggestion_id": id,
				"task_id":       result.TaskID,
				"quadrant":      body.Quadrant,
			}
			_ = analytics.Log(r.Context(), dbx, env, "suggestion_accepted", props, analytics.SourceEventKeyFromRequest(r))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(result)
	}
}

func statusActionHandler(
	dbx *sql.DB,
	event string,
	act func(r *http.Request, uid, id int) error,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		id, err := suggestionIDFromPath(r)
		if err != nil {
			http.Error(w, "invalid suggestion id", http.StatusBadRequest)
			return
		}

		err = act(r, uid, id)
		if err == ErrNotFound {
			http.Error(w, "suggestion not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		env := analytics.FromRequest(r)
		env.UserID = uid
		_ = analytics.Log(r.Context(), dbx, env, event,
			map[string]any{"suggestion_id": id}, analytics.SourceEventKeyFromRequest(r))

		w.WriteHeader(http.StatusNoContent)
	}
}

func SnoozeSuggestionHandler(svc *Service, dbx *sql.DB) http.HandlerFunc {
	return statusActionHandler(dbx, "suggestion_snoozed",
		func(r *http.Request, uid, id int) error {
			return svc.Snooze(r.Context(), uid, id)
		})
}

func DismissSuggestionHandler(svc *Service, dbx *sql.DB) http.HandlerFunc {
	return statusActionHandler(dbx, "suggestion_dismissed",
		func(r *http.Request, uid, id int) error {
			return svc.Dismiss(r.Context(), uid, id)
		})
}

func NeverSuggestionHandler(svc *Service, dbx *sql.DB) http.HandlerFunc {
	return statusActionHandler(dbx, "suggestion_blocked",
		func(r *http.Request, uid, id int) error {
			return svc.Never(r.Context(), uid, id)
		})
}
