package tasks

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
)

// The AI returns recurrence as a string ("weekly"), an object
// ({"interval":2,"unit":"week"}), or null. Recurrence models that as a
// tagged variant; ParseRecurrence is the only way in and falls back to
// no-recurrence on anything malformed rather than guessing a pattern.

type RecurrenceKind int

const (
	NoRecurrence RecurrenceKind = iota
	SimpleRecurrence
	CustomRecurrence
)

type Recurrence struct {
	Kind RecurrenceKind

	// SimpleRecurrence: daily|weekly|monthly|yearly
	Pattern string

	// CustomRecurrence
	Interval int
	Unit     string // day|week|month|year
	WeekDays []int  // 0=Sunday..6=Saturday, deduped ascending
	MonthDay int    // 1..31, 0 when unset
}

var validPatterns = map[string]bool{
	"daily":   true,
	"weekly":  true,
	"monthly": true,
	"yearly":  true,
}

var validUnits = map[string]bool{
	"day":   true,
	"week":  true,
	"month": true,
	"year":  true,
}

// ParseRecurrence validates a raw JSON recurrence value.
// Interval is clamped to [1,99], weekDays deduped and sorted, monthDay
// accepted only in 1..31. Malformed input yields NoRecurrence.
func ParseRecurrence(raw json.RawMessage) Recurrence {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Recurrence{}
	}

	if trimmed[0] == '"' {
		var pattern string
		if err := json.Unmarshal(trimmed, &pattern); err != nil || !validPatterns[pattern] {
			return Recurrence{}
		}
		return Recurrence{Kind: SimpleRecurrence, Pattern: pattern}
	}

	if trimmed[0] != '{' {
		return Recurrence{}
	}

	var obj struct {
		Interval *float64  `json:"interval"`
		Unit     string    `json:"unit"`
		WeekDays []float64 `json:"weekDays"`
		MonthDay *float64  `json:"monthDay"`
	}
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return Recurrence{}
	}
	if obj.Interval == nil || *obj.Interval < 1 || !validUnits[obj.Unit] {
		return Recurrence{}
	}

	r := Recurrence{
		Kind:     CustomRecurrence,
		Interval: int(*obj.Interval),
		Unit:     obj.Unit,
	}
	if r.Interval > 99 {
		r.Interval = 99
	}

	if len(obj.WeekDays) > 0 {
		seen := map[int]bool{}
		for _, d := range obj.WeekDays {
			day := int(d)
			if float64(day) == d && day >= 0 && day <= 6 && !seen[day] {
				seen[day] = true
				r.WeekDays = append(r.WeekDays, day)
			}
		}
		sort.Ints(r.WeekDays)
	}

	if obj.MonthDay != nil {
		day := int(*obj.MonthDay)
		if day >= 1 && day <= 31 {
			r.MonthDay = day
		}
	}

	return r
}

func (r Recurrence) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case SimpleRecurrence:
		return json.Marshal(r.Pattern)
	case CustomRecurrence:
		obj := map[string]any{
			"interval": r.Interval,
			"unit":     r.Unit,
		}
		if len(r.WeekDays) > 0 {
			obj["weekDays"] = r.WeekDays
		}
		if r.MonthDay != 0 {
			obj["monthDay"] = r.MonthDay
		}
		return json.Marshal(obj)
	default:
		return []byte("null"), nil
	}
}

func (r *Recurrence) UnmarshalJSON(b []byte) error {
	*r = ParseRecurrence(b)
	return nil
}

// Value / Scan store the wire shape in a jsonb column.

func (r Recurrence) Value() (driver.Value, error) {
	if r.Kind == NoRecurrence {
		return nil, nil
	}
	b, err := r.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (r *Recurrence) Scan(src any) error {
	if src == nil {
		*r = Recurrence{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		*r = ParseRecurrence(v)
	case string:
		*r = ParseRecurrence([]byte(v))
	default:
		return fmt.Errorf("cannot scan %T into Recurrence", src)
	}
	return nil
}
