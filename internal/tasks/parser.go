package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"focusmatrix-backend/internal/ai"
)

// Parsed is the validated result of running free text through the AI.
type Parsed struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Deadline    *string    `json:"deadline"`
	Quadrant    string     `json:"quadrant"` // frontend form
	Recurrence  Recurrence `json:"recurrence"`
	Complexity  string     `json:"complexity"`
	AIScores    AIScores   `json:"aiScores"`
	XP          int        `json:"xp"`
}

type SortInput struct {
	Text        string     `json:"text"`
	Description string     `json:"description,omitempty"`
	Deadline    string     `json:"deadline,omitempty"`
	Complexity  string     `json:"complexity,omitempty"`
	Recurrence  Recurrence `json:"recurrence,omitempty"`
}

type Sorted struct {
	Text       string     `json:"text"`
	Quadrant   string     `json:"quadrant"`
	Complexity string     `json:"complexity"`
	Recurrence Recurrence `json:"recurrence"`
}

// Parser wraps the AI client and never trusts a field it didn't validate.
type Parser struct {
	client *ai.Client
}

func NewParser(client *ai.Client) *Parser {
	return &Parser{client: client}
}

func (p *Parser) ParseTask(ctx context.Context, input string) (Parsed, error) {
	prompt := ai.BuildParseTaskPrompt(input, time.Now())

	result, err := p.client.Complete(ctx, prompt)
	if err != nil {
		return Parsed{}, err
	}

	var raw struct {
		Title           string          `json:"title"`
		Description     string          `json:"description"`
		Deadline        *string         `json:"deadline"`
		Quadrant        string          `json:"quadrant"`
		Recurrence      json.RawMessage `json:"recurrence"`
		Complexity      string          `json:"complexity"`
		FuturePainScore *float64        `json:"futurePainScore"`
		UrgencyScore    *float64        `json:"urgencyScore"`
		FrictionScore   *float64        `json:"frictionScore"`
	}
	if err := json.Unmarshal(stripFences(result), &raw); err != nil {
		return Parsed{}, fmt.Errorf("unparseable AI response: %w", err)
	}

	quadrant := raw.Quadrant
	if _, ok := quadrantToDB[quadrant]; !ok {
		quadrant = "not-urgent-not-important"
	}

	complexity := raw.Complexity
	if _, ok := complexityToDB[complexity]; !ok {
		complexity = "medium"
	}

	scoresJSON, _ := json.Marshal(map[string]*float64{
		"futurePainScore": raw.FuturePainScore,
		"urgencyScore":    raw.UrgencyScore,
		"frictionScore":   raw.FrictionScore,
	})
	scores := ValidateAIScores(scoresJSON)
	if scores == nil {
		s := DefaultAIScores()
		scores = &s
	}

	title := raw.Title
	if len(title) > 100 {
		title = title[:100]
	}

	deadline := raw.Deadline
	if deadline != nil && *deadline == "" {
		deadline = nil
	}

	return Parsed{
		Title:       title,
		Description: raw.Description,
		Deadline:    deadline,
		Quadrant:    quadrant,
		Recurrence:  ParseRecurrence(raw.Recurrence),
		Complexity:  complexity,
		AIScores:    *scores,
		XP:          CalculateXPFromScores(*scores),
	}, nil
}

func (p *Parser) SortTasks(ctx context.Context, inputs []SortInput) ([]Sorted, error) {
	var descs strings.Builder
	for i, task := range inputs {
		if i > 0 {
			descs.WriteString("\n\n")
		}
		fmt.Fprintf(&descs, "Task: %s", task.Text)
		if task.Description != "" {
			fmt.Fprintf(&descs, "\nDescription: %s", task.Description)
		}
		if task.Deadline != "" {
			fmt.Fprintf(&descs, "\nDeadline: %s", task.Deadline)
		}
		if task.Complexity != "" {
			fmt.Fprintf(&descs, "\nCurrent complexity: %s", task.Complexity)
		}
		if task.Recurrence.Kind != NoRecurrence {
			rec, _ := json.Marshal(task.Recurrence)
			fmt.Fprintf(&descs, "\nCurrent recurrence: %s", rec)
		}
	}

	prompt := ai.BuildSortTasksPrompt(descs.String(), time.Now())

	result, err := p.client.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var rawSorted []struct {
		Text       string          `json:"text"`
		Quadrant   string          `json:"quadrant"`
		Complexity string          `json:"complexity"`
		Recurrence json.RawMessage `json:"recurrence"`
	}
	if err := json.Unmarshal(stripFences(result), &rawSorted); err != nil {
		return nil, fmt.Errorf("unparseable AI response: %w", err)
	}

	sorted := make([]Sorted, 0, len(rawSorted))
	for _, t := range rawSorted {
		quadrant := t.Quadrant
		if _, ok := quadrantToDB[quadrant]; !ok {
			quadrant = "not-urgent-not-important"
		}
		complexity := t.Complexity
		if _, ok := complexityToDB[complexity]; !ok {
			complexity = "medium"
		}
		sorted = append(sorted, Sorted{
			Text:       t.Text,
			Quadrant:   quadrant,
			Complexity: complexity,
			Recurrence: ParseRecurrence(t.Recurrence),
		})
	}
	return sorted, nil
}

// stripFences tolerates models that wrap JSON in a markdown code block.
func stripFences(s string) []byte {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return []byte(strings.TrimSpace(s))
}
