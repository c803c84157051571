package tasks

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"focusmatrix-backend/internal/analytics"
	"focusmatrix-backend/internal/auth"
)

const taskColumns = `
	id, text, description, deadline, completed, completed_at,
	quadrant, complexity, show_after, recurrence, xp, ai_scores,
	created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (Task, error) {
	var (
		t           Task
		description sql.NullString
		deadline    sql.NullTime
		completedAt sql.NullTime
		quadrant    string
		complexity  sql.NullString
		showAfter   sql.NullTime
		xp          sql.NullInt64
		aiScores    []byte
	)

	err := row.Scan(
		&t.ID, &t.Text, &description, &deadline, &t.Completed, &completedAt,
		&quadrant, &complexity, &showAfter, &t.Recurrence, &xp, &aiScores,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return Task{}, err
	}

	if description.Valid {
		t.Description = &description.String
	}
	if deadline.Valid {
		d := deadline.Time
		t.Deadline = &d
	}
	if completedAt.Valid {
		c := completedAt.Time
		t.CompletedAt = &c
	}
	t.Quadrant = ToFrontendQuadrant(quadrant)
	if complexity.Valid {
		c := ToFrontendComplexity(complexity.String)
		t.Complexity = &c
	}
	if showAfter.Valid {
		s := showAfter.Time
		t.ShowAfter = &s
	}
	if xp.Valid {
		v := int(xp.Int64)
		t.XP = &v
	}
	if len(aiScores) > 0 {
		t.AIScores = ValidateAIScores(aiScores)
	}

	return t, nil
}

func taskIDFromPath(r *http.Request) (int, error) {
	return strconv.Atoi(r.PathValue("id"))
}

// -------------------------------
// HANDLERS
// -------------------------------

func ListTasksHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		rows, err := dbx.QueryContext(r.Context(), `
			SELECT `+taskColumns+`
			FROM tasks
			WHERE user_id = $1
			ORDER BY created_at DESC
		`, uid)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		defer rows.Close()

		result := []Task{}
		for rows.Next() {
			t, err := scanTask(rows)
			if err != nil {
				http.Error(w, "scan error: "+err.Error(), http.StatusInternalServerError)
				return
			}
			result = append(result, t)
		}
		if err := rows.Err(); err != nil {
			http.Error(w, "db rows error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(result)
	}
}

func GetTaskHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		id, err := taskIDFromPath(r)
		if err != nil {
			http.Error(w, "invalid task id", http.StatusBadRequest)
			return
		}

		row := dbx.QueryRowContext(r.Context(), `
			SELECT `+taskColumns+`
			FROM tasks
			WHERE id = $1 AND user_id = $2
		`, id, uid)

		t, err := scanTask(row)
		if err != nil {
			http.Error(w, "task not found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(t)
	}
}

func CreateTaskHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			Text        string          `json:"text"`
			Description *string         `json:"description"`
			Deadline    *time.Time      `json:"deadline"`
			Quadrant    string          `json:"quadrant"`
			Complexity  *string         `json:"complexity"`
			ShowAfter   *time.Time      `json:"showAfter"`
			Recurrence  json.RawMessage `json:"recurrence"`
			XP          *int            `json:"xp"`
			AIScores    json.RawMessage `json:"aiScores"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if body.Text == "" {
			http.Error(w, "text is required", http.StatusBadRequest)
			return
		}

		dbQuadrant, err := ToDBQuadrant(body.Quadrant)
		if err != nil {
			http.Error(w, "invalid quadrant value", http.StatusBadRequest)
			return
		}

		var dbComplexity *string
		if body.Complexity != nil {
			c, err := ToDBComplexity(*body.Complexity)
			if err != nil {
				http.Error(w, "invalid complexity value", http.StatusBadRequest)
				return
			}
			dbComplexity = &c
		}

		var aiScoresJSON *string
		if scores := ValidateAIScores(body.AIScores); scores != nil {
			b, _ := json.Marshal(scores)
			s := string(b)
			aiScoresJSON = &s
		}

		var id int
		err = dbx.QueryRowContext(r.Context(), `
			INSERT INTO tasks (
				user_id, text, description, deadline, quadrant,
				complexity, show_after, recurrence, xp, ai_scores
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::jsonb)
			RETURNING id
		`, uid, body.Text, body.Description, body.Deadline, dbQuadrant,
			dbComplexity, body.ShowAfter, ParseRecurrence(body.Recurrence),
			body.XP, aiScoresJSON,
		).Scan(&id)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		// analytics: task_created
		{
			env := analytics.FromRequest(r)
			env.UserID = uid

			props := map[string]any{
				"task_id":      id,
				"quadrant":     body.Quadrant,
				"text_len":     len(body.Text),
				"has_deadline": body.Deadline != nil,
			}
			_ = analytics.Log(r.Context(), dbx, env, "task_created", props, analytics.SourceEventKeyFromRequest(r))
		}

		row := dbx.QueryRowContext(r.Context(), `
			SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND user_id = $2
		`, id, uid)
		t, err := scanTask(row)
		if err != nil {
			http.Error(w, "fetch error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(t)
	}
}

func UpdateTaskHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		id, err := taskIDFromPath(r)
		if err != nil {
			http.Error(w, "invalid task id", http.StatusBadRequest)
			return
		}

		var wasCompleted bool
		var existingXP sql.NullInt64
		err = dbx.QueryRowContext(r.Context(), `
			SELECT completed, xp FROM tasks WHERE id = $1 AND user_id = $2
		`, id, uid).Scan(&wasCompleted, &existingXP)
		if err != nil {
			http.Error(w, "task not found", http.StatusNotFound)
			return
		}

		// fields absent from the body must stay untouched, so decode
		// into raw messages and only build SET clauses for present keys
		var body map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		set := []string{}
		args := []any{}
		add := func(col string, v any) {
			args = append(args, v)
			set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
		}

		isBeingCompleted := false

		if raw, ok := body["text"]; ok {
			var text string
			if err := json.Unmarshal(raw, &text); err != nil || text == "" {
				http.Error(w, "text must be a non-empty string", http.StatusBadRequest)
				return
			}
			add("text", text)
		}

		if raw, ok := body["description"]; ok {
			var desc *string
			_ = json.Unmarshal(raw, &desc)
			add("description", desc)
		}

		if raw, ok := body["deadline"]; ok {
			var deadline *time.Time
			_ = json.Unmarshal(raw, &deadline)
			add("deadline", deadline)
		}

		if raw, ok := body["completed"]; ok {
			var completed bool
			if err := json.Unmarshal(raw, &completed); err != nil {
				http.Error(w, "completed must be a boolean", http.StatusBadRequest)
				return
			}
			add("completed", completed)
			if completed && !wasCompleted {
				add("completed_at", time.Now().UTC())
				isBeingCompleted = true
			} else if !completed {
				add("completed_at", nil)
			}
		}

		if raw, ok := body["completedAt"]; ok {
			var completedAt *time.Time
			_ = json.Unmarshal(raw, &completedAt)
			add("completed_at", completedAt)
		}

		if raw, ok := body["quadrant"]; ok {
			var quadrant string
			_ = json.Unmarshal(raw, &quadrant)
			dbQuadrant, err := ToDBQuadrant(quadrant)
			if err != nil {
				http.Error(w, "invalid quadrant value", http.StatusBadRequest)
				return
			}
			add("quadrant", dbQuadrant)
		}

		if raw, ok := body["complexity"]; ok {
			var complexity *string
			_ = json.Unmarshal(raw, &complexity)
			if complexity == nil {
				add("complexity", nil)
			} else {
				dbComplexity, err := ToDBComplexity(*complexity)
				if err != nil {
					http.Error(w, "invalid complexity value", http.StatusBadRequest)
					return
				}
				add("complexity", dbComplexity)
			}
		}

		if raw, ok := body["showAfter"]; ok {
			var showAfter *time.Time
			_ = json.Unmarshal(raw, &showAfter)
			add("show_after", showAfter)
		}

		if raw, ok := body["recurrence"]; ok {
			add("recurrence", ParseRecurrence(raw))
		}

		if len(set) == 0 {
			http.Error(w, "no fields to update", http.StatusBadRequest)
			return
		}

		add("updated_at", time.Now().UTC())
		args = append(args, id, uid)
		query := fmt.Sprintf(
			"UPDATE tasks SET %s WHERE id = $%d AND user_id = $%d",
			strings.Join(set, ", "), len(args)-1, len(args),
		)

		if _, err := dbx.ExecContext(r.Context(), query, args...); err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		row := dbx.QueryRowContext(r.Context(), `
			SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND user_id = $2
		`, id, uid)
		t, err := scanTask(row)
		if err != nil {
			http.Error(w, "fetch error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		// analytics: task_completed
		if isBeingCompleted {
			env := analytics.FromRequest(r)
			env.UserID = uid

			props := map[string]any{
				"task_id":  id,
				"quadrant": t.Quadrant,
				"xp":       t.XP,
			}
			_ = analytics.Log(r.Context(), dbx, env, "task_completed", props, analytics.SourceEventKeyFromRequest(r))
		}

		w.Header().Set("Content-Type", "application/json")
		if isBeingCompleted && t.XP != nil {
			// completing a task pays out its XP
			_ = json.NewEncoder(w).Encode(struct {
				Task
				XPGained int `json:"xpGained"`
			}{t, *t.XP})
			return
		}
		_ = json.NewEncoder(w).Encode(t)
	}
}

func DeleteTaskHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		id, err := taskIDFromPath(r)
		if err != nil {
			http.Error(w, "invalid task id", http.StatusBadRequest)
			return
		}

		res, err := dbx.ExecContext(r.Context(), `
			DELETE FROM tasks WHERE id = $1 AND user_id = $2
		`, id, uid)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		affected, _ := res.RowsAffected()
		if affected == 0 {
			http.Error(w, "task not found", http.StatusNotFound)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
