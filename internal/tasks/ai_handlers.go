package tasks

import (
	"encoding/json"
	"log"
	"net/http"

	"focusmatrix-backend/internal/auth"
)

func ParseTaskHandler(parser *Parser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.UserIDFromContext(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			Input string `json:"input"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Input == "" {
			http.Error(w, "input is required", http.StatusBadRequest)
			return
		}

		parsed, err := parser.ParseTask(r.Context(), body.Input)
		if err != nil {
			log.Printf("[WARN] AI parse-task failed: %v", err)
			http.Error(w, "failed to parse task", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(parsed)
	}
}

func SortTasksHandler(parser *Parser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.UserIDFromContext(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			Tasks []SortInput `json:"tasks"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Tasks == nil {
			http.Error(w, "tasks array is required", http.StatusBadRequest)
			return
		}

		sorted, err := parser.SortTasks(r.Context(), body.Tasks)
		if err != nil {
			log.Printf("[WARN] AI sort-tasks failed: %v", err)
			http.Error(w, "failed to sort tasks", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(sorted)
	}
}
