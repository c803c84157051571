package tasks

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecurrence(t *testing.T) {
	t.Run("null and empty mean none", func(t *testing.T) {
		assert.Equal(t, NoRecurrence, ParseRecurrence(nil).Kind)
		assert.Equal(t, NoRecurrence, ParseRecurrence(json.RawMessage(`null`)).Kind)
	})

	t.Run("known pattern string", func(t *testing.T) {
		r := ParseRecurrence(json.RawMessage(`"weekly"`))
		assert.Equal(t, SimpleRecurrence, r.Kind)
		assert.Equal(t, "weekly", r.Pattern)
	})

	t.Run("unknown pattern string falls back", func(t *testing.T) {
		assert.Equal(t, NoRecurrence, ParseRecurrence(json.RawMessage(`"hourly"`)).Kind)
	})

	t.Run("custom object", func(t *testing.T) {
		r := ParseRecurrence(json.RawMessage(`{"interval":2,"unit":"week","weekDays":[1,3]}`))
		require.Equal(t, CustomRecurrence, r.Kind)
		assert.Equal(t, 2, r.Interval)
		assert.Equal(t, "week", r.Unit)
		assert.Equal(t, []int{1, 3}, r.WeekDays)
	})

	t.Run("interval clamped to 99", func(t *testing.T) {
		r := ParseRecurrence(json.RawMessage(`{"interval":150,"unit":"day"}`))
		assert.Equal(t, 99, r.Interval)
	})

	t.Run("interval below one rejected", func(t *testing.T) {
		assert.Equal(t, NoRecurrence, ParseRecurrence(json.RawMessage(`{"interval":0,"unit":"day"}`)).Kind)
	})

	t.Run("unknown unit rejected", func(t *testing.T) {
		assert.Equal(t, NoRecurrence, ParseRecurrence(json.RawMessage(`{"interval":1,"unit":"fortnight"}`)).Kind)
	})

	t.Run("weekDays deduped and sorted", func(t *testing.T) {
		r := ParseRecurrence(json.RawMessage(`{"interval":1,"unit":"week","weekDays":[5,1,5,3,1]}`))
		assert.Equal(t, []int{1, 3, 5}, r.WeekDays)
	})

	t.Run("out of range weekDays dropped", func(t *testing.T) {
		r := ParseRecurrence(json.RawMessage(`{"interval":1,"unit":"week","weekDays":[-1,2,7,9]}`))
		assert.Equal(t, []int{2}, r.WeekDays)
	})

	t.Run("monthDay bounds", func(t *testing.T) {
		r := ParseRecurrence(json.RawMessage(`{"interval":1,"unit":"month","monthDay":31}`))
		assert.Equal(t, 31, r.MonthDay)

		r = ParseRecurrence(json.RawMessage(`{"interval":1,"unit":"month","monthDay":32}`))
		assert.Zero(t, r.MonthDay)
	})

	t.Run("malformed input means none", func(t *testing.T) {
		assert.Equal(t, NoRecurrence, ParseRecurrence(json.RawMessage(`{bad`)).Kind)
		assert.Equal(t, NoRecurrence, ParseRecurrence(json.RawMessage(`42`)).Kind)
		assert.Equal(t, NoRecurrence, ParseRecurrence(json.RawMessage(`["weekly"]`)).Kind)
	})
}

func TestRecurrenceJSON(t *testing.T) {
	t.Run("none marshals to null", func(t *testing.T) {
		b, err := json.Marshal(Recurrence{})
		require.NoError(t, err)
		assert.Equal(t, "null", string(b))
	})

	t.Run("simple pattern round trips", func(t *testing.T) {
		b, err := json.Marshal(Recurrence{Kind: SimpleRecurrence, Pattern: "daily"})
		require.NoError(t, err)
		assert.Equal(t, `"daily"`, string(b))

		var r Recurrence
		require.NoError(t, json.Unmarshal(b, &r))
		assert.Equal(t, SimpleRecurrence, r.Kind)
		assert.Equal(t, "daily", r.Pattern)
	})

	t.Run("custom round trips", func(t *testing.T) {
		in := Recurrence{Kind: CustomRecurrence, Interval: 2, Unit: "week", WeekDays: []int{1, 4}}
		b, err := json.Marshal(in)
		require.NoError(t, err)

		var out Recurrence
		require.NoError(t, json.Unmarshal(b, &out))
		assert.Equal(t, in, out)
	})
}

func TestRecurrenceSQL(t *testing.T) {
	t.Run("none stores as NULL", func(t *testing.T) {
		v, err := Recurrence{}.Value()
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("scan from jsonb bytes", func(t *testing.T) {
		var r Recurrence
		require.NoError(t, r.Scan([]byte(`"monthly"`)))
		assert.Equal(t, SimpleRecurrence, r.Kind)
		assert.Equal(t, "monthly", r.Pattern)
	})

	t.Run("scan nil resets", func(t *testing.T) {
		r := Recurrence{Kind: SimpleRecurrence, Pattern: "daily"}
		require.NoError(t, r.Scan(nil))
		assert.Equal(t, NoRecurrence, r.Kind)
	})
}
