package ai

import (
	"fmt"
	"strings"
	"time"
)

// BuildParseTaskPrompt builds the single-task extraction prompt.
// The model must answer with one JSON object and nothing else.
func BuildParseTaskPrompt(input string, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Today's date is: %s\n\n", now.Format("Monday, January 2, 2006"))
	b.WriteString("Extract task details from this user input and categorize it into an Eisenhower Matrix quadrant.\n\n")
	fmt.Fprintf(&b, "User input: %q\n\n", input)
	b.WriteString(`You must respond with ONLY a valid JSON object (no markdown, no explanation) with these exact fields:
{
  "title": "short task title (max 50 chars)",
  "description": "additional details or empty string if none",
  "deadline": "YYYY-MM-DD format ONLY if user explicitly mentions a date/deadline, otherwise null",
  "quadrant": "one of: urgent-important, not-urgent-important, urgent-not-important, not-urgent-not-important",
  "recurrence": <recurrence pattern - see below>,
  "complexity": "one of: easy, medium, hard",
  "futurePainScore": "float 0-1: how bad life gets if delayed (health=1.0, money=0.9, legal=0.9, admin=0.6, social=0.4, trivial=0.1)",
  "urgencyScore": "float 0-1: time pressure (overdue=1.0, today=0.9, this_week=0.7, next_week=0.4, no_deadline=0.2)",
  "frictionScore": "float 0-1: likelihood of avoidance (calling/paperwork=0.9, multi-step=0.7, simple=0.2)"
}

Quadrant rules:
- "urgent-important": Deadlines within 2 days, emergencies, crises, critical issues
- "not-urgent-important": Important goals, deadlines > 2 days away, planning, learning, health
- "urgent-not-important": Minor urgent items, some calls/emails, interruptions
- "not-urgent-not-important": Low priority, trivial tasks, entertainment, time wasters

`)
	b.WriteString(recurrenceRules)
	b.WriteString(`
Complexity rules:
- "easy": Quick tasks (< 15 min), simple actions, minimal thinking required
- "medium": Moderate effort (15 min - 2 hours), some planning needed
- "hard": Significant effort (> 2 hours), complex, multiple steps, deep focus required

XP Scoring rules - score practical obligations only, NOT generic self-improvement:
- futurePainScore examples: dentist=0.9, taxes=0.85, reply to email=0.3, watch movie=0.1
- urgencyScore: based on deadline proximity
- frictionScore: tasks people avoid (phone calls, paperwork) get high scores

IMPORTANT: Do NOT add a deadline unless the user explicitly mentions a specific date, time, or deadline. Recurring tasks do NOT automatically need a deadline - the recurrence pattern is sufficient.

`)
	fmt.Fprintf(&b, "Date interpretation (only use these if user mentions a date):\n")
	fmt.Fprintf(&b, "- \"today\" = %s\n", now.Format("2006-01-02"))
	fmt.Fprintf(&b, "- \"tomorrow\" = %s\n", now.AddDate(0, 0, 1).Format("2006-01-02"))
	fmt.Fprintf(&b, "- \"next week\" = %s\n", now.AddDate(0, 0, 7).Format("2006-01-02"))
	fmt.Fprintf(&b, "- \"next month\" = %s\n\n", now.AddDate(0, 1, 0).Format("2006-01-02"))
	b.WriteString("Respond with ONLY the JSON object.")

	return b.String()
}

// BuildSortTasksPrompt builds the bulk categorization prompt.
// The model must answer with one JSON array and nothing else.
func BuildSortTasksPrompt(taskDescriptions string, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Today's date is: %s\n\n", now.Format("Monday, January 2, 2006"))
	b.WriteString(`You are helping categorize tasks into an Eisenhower Matrix. The matrix has 4 quadrants:
1. "urgent-important": Tasks that are both urgent and important (Do First) - deadlines today/this week, emergencies, critical issues
2. "not-urgent-important": Tasks that are important but not urgent (Schedule) - long-term goals, future deadlines, strategic work
3. "urgent-not-important": Tasks that are urgent but not important (Delegate) - interruptions, some meetings, non-critical urgent items
4. "not-urgent-not-important": Tasks that are neither urgent nor important (Don't Do) - time wasters, trivial tasks

Consider deadlines when categorizing:
- Tasks with deadlines today or this week are typically urgent
- Tasks with deadlines next month or later are typically not urgent
- Tasks without deadlines should be judged on their inherent urgency and importance

Complexity rules:
- "easy": Quick tasks (< 15 min), simple actions, minimal thinking required
- "medium": Moderate effort (15 min - 2 hours), some planning needed
- "hard": Significant effort (> 2 hours), complex, multiple steps, deep focus required

`)
	b.WriteString(recurrenceRules)
	b.WriteString("\nHere are the tasks to categorize:\n")
	b.WriteString(taskDescriptions)
	b.WriteString(`

For each task, determine which quadrant it belongs to, assess its complexity, and detect any recurrence pattern from the task text/description. Respond with a JSON array where each element has:
- "text": the exact task text (match it precisely)
- "quadrant": one of "urgent-important", "not-urgent-important", "urgent-not-important", or "not-urgent-not-important"
- "complexity": one of "easy", "medium", or "hard"
- "recurrence": recurrence pattern (string, object, or null) - only set if detected in task text/description, otherwise keep existing or null

Only respond with the JSON array, nothing else.`)

	return b.String()
}

const recurrenceRules = `Recurrence detection - ALWAYS use the most specific format possible:

IMPORTANT: When a specific day of the week is mentioned (Monday, Tuesday, etc.), you MUST use the weekDays format. Do NOT use "weekly" for specific days.

1. Generic patterns ONLY (use ONLY when no specific day is mentioned):
   - "daily": "every day", "daily", "each day" (no specific time)
   - "weekly": "every week", "weekly" (without mentioning a specific day)
   - "monthly": "every month", "monthly" (without mentioning a specific date)
   - "yearly": "every year", "yearly", "annually"

2. Specific weekdays (0=Sunday, 1=Monday, 2=Tuesday, 3=Wednesday, 4=Thursday, 5=Friday, 6=Saturday):
   - "every Monday" -> { "interval": 1, "unit": "week", "weekDays": [1] } (NOT "weekly"!)
   - "every Monday and Wednesday" -> { "interval": 1, "unit": "week", "weekDays": [1, 3] }
   - "weekdays" or "every weekday" -> { "interval": 1, "unit": "week", "weekDays": [1, 2, 3, 4, 5] }
   - "weekends" -> { "interval": 1, "unit": "week", "weekDays": [0, 6] }

3. Custom intervals (return object):
   - "every 2 weeks" or "biweekly" -> { "interval": 2, "unit": "week" }
   - "every 3 days" -> { "interval": 3, "unit": "day" }
   - "every other day" -> { "interval": 2, "unit": "day" }

4. Specific day of month (return object with monthDay):
   - "15th of every month" -> { "interval": 1, "unit": "month", "monthDay": 15 }

5. No recurrence: return null
`
