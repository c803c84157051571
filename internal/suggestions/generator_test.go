package suggestions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func datePtr(t time.Time) *time.Time { return &t }

func TestClusterSimilarTasks(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	history := []CompletedTask{
		{ID: 1, Text: "Pay rent", CompletedAt: datePtr(now.AddDate(0, 0, -60))},
		{ID: 2, Text: "pay the rent!", CompletedAt: datePtr(now.AddDate(0, 0, -30))},
		{ID: 3, Text: "Pay rent", CompletedAt: datePtr(now.AddDate(0, 0, -1))},
		{ID: 4, Text: "Buy milk", CompletedAt: datePtr(now.AddDate(0, 0, -5))},
	}

	clusters := clusterSimilarTasks(history)
	require.Len(t, clusters, 2)

	rent := clusters[0]
	assert.Equal(t, 3, rent.Occurrences)
	assert.ElementsMatch(t, []int{1, 2, 3}, rent.TaskIDs)
	assert.InDelta(t, 29.5, rent.AverageIntervalDays, 1e-9)

	milk := clusters[1]
	assert.Equal(t, 1, milk.Occurrences)
	assert.Zero(t, milk.AverageIntervalDays)
}

func TestClusterSimilarTasksSortsDates(t *testing.T) {
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	// history arrives newest-first; cluster dates must come out ascending
	history := []CompletedTask{
		{ID: 1, Text: "water plants", CompletedAt: datePtr(now.AddDate(0, 0, -2))},
		{ID: 2, Text: "water plants", CompletedAt: datePtr(now.AddDate(0, 0, -9))},
		{ID: 3, Text: "water plants", CompletedAt: datePtr(now.AddDate(0, 0, -16))},
	}

	clusters := clusterSimilarTasks(history)
	require.Len(t, clusters, 1)
	dates := clusters[0].CompletedDates
	require.Len(t, dates, 3)
	assert.True(t, dates[0].Before(dates[1]))
	assert.True(t, dates[1].Before(dates[2]))
	assert.InDelta(t, 7.0, clusters[0].AverageIntervalDays, 1e-9)
}

func TestRegularityScore(t *testing.T) {
	base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("perfect cadence scores one", func(t *testing.T) {
		c := TextCluster{CompletedDates: []time.Time{
			base, base.AddDate(0, 0, 7), base.AddDate(0, 0, 14), base.AddDate(0, 0, 21),
		}}
		assert.InDelta(t, 1.0, regularityScore(c), 1e-9)
	})

	t.Run("erratic cadence scores low", func(t *testing.T) {
		c := TextCluster{CompletedDates: []time.Time{
			base, base.AddDate(0, 0, 1), base.AddDate(0, 0, 40),
		}}
		assert.Less(t, regularityScore(c), 0.2)
	})

	t.Run("single completion scores zero", func(t *testing.T) {
		assert.Zero(t, regularityScore(TextCluster{CompletedDates: []time.Time{base}}))
	})
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	cluster := func(daysSinceLast int) TextCluster {
		return TextCluster{
			CompletedDates:      []time.Time{now.AddDate(0, 0, -daysSinceLast)},
			AverageIntervalDays: 10,
		}
	}

	// due at 80% of the 10-day interval
	assert.False(t, isOverdue(cluster(7), now))
	assert.True(t, isOverdue(cluster(8), now))
	assert.True(t, isOverdue(cluster(9), now))

	assert.False(t, isOverdue(TextCluster{}, now))
}

func TestMostRepresentativeText(t *testing.T) {
	texts := []string{
		"Clean the kitchen",
		"clean kitchen",
		"Clean the kitchen counters",
	}
	// "Clean the kitchen" overlaps both others fully or best
	assert.Equal(t, "Clean the kitchen", mostRepresentativeText(texts))

	assert.Equal(t, "only one", mostRepresentativeText([]string{"only one"}))
}

func weeklyHistory(text string, now time.Time, startID int) []CompletedTask {
	out := []CompletedTask{}
	for i := 0; i < 5; i++ {
		out = append(out, CompletedTask{
			ID:          startID + i,
			Text:        text,
			CompletedAt: datePtr(now.AddDate(0, 0, -34+7*i)),
		})
	}
	return out
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

	newGen := func(store *fakeStore) *Generator {
		g := NewGenerator(store)
		g.now = func() time.Time { return now }
		return g
	}

	t.Run("steady weekly habit becomes a candidate", func(t *testing.T) {
		store := newFakeStore()
		store.completed = weeklyHistory("Water the plants", now, 1)

		cands, err := newGen(store).Generate(ctx, 1)
		require.NoError(t, err)
		require.Len(t, cands, 1)

		c := cands[0]
		assert.Equal(t, "Water the plants", c.SuggestedText)
		assert.Equal(t, SourceRecurrence, c.SourceType)
		assert.InDelta(t, 1.0, c.Confidence, 1e-9)
		assert.Equal(t, `You've done "Water the plants" 5 times, roughly every 7 days`, c.Why)
		assert.Equal(t, Fingerprint("Water the plants", SourceRecurrence), c.Fingerprint)
		assert.Len(t, c.RelatedTaskIDs, 5)
	})

	t.Run("three loose occurrences stay below the bar", func(t *testing.T) {
		store := newFakeStore()
		store.completed = []CompletedTask{
			{ID: 1, Text: "Water the plants", CompletedAt: datePtr(now.AddDate(0, 0, -10))},
			{ID: 2, Text: "Water the plants", CompletedAt: datePtr(now.AddDate(0, 0, -7))},
			{ID: 3, Text: "Water the plants", CompletedAt: datePtr(now.AddDate(0, 0, -3))},
		}

		// occurrence 3/5 = 0.6, regularity 1 - (0.5/3.5): confidence ~0.703
		cands, err := newGen(store).Generate(ctx, 1)
		require.NoError(t, err)
		assert.Empty(t, cands)
	})

	t.Run("not yet due is silent", func(t *testing.T) {
		store := newFakeStore()
		hist := []CompletedTask{}
		for i := 0; i < 5; i++ {
			hist = append(hist, CompletedTask{
				ID: i + 1, Text: "Take out trash",
				CompletedAt: datePtr(now.AddDate(0, 0, -29+7*i)),
			})
		}
		store.completed = hist // last completion 1 day ago, due at 5.6

		cands, err := newGen(store).Generate(ctx, 1)
		require.NoError(t, err)
		assert.Empty(t, cands)
	})

	t.Run("similar open task suppresses the candidate", func(t *testing.T) {
		store := newFakeStore()
		store.completed = weeklyHistory("Water the plants", now, 1)
		store.openTexts = []string{"Water the plants today"}

		cands, err := newGen(store).Generate(ctx, 1)
		require.NoError(t, err)
		assert.Empty(t, cands)
	})

	t.Run("maintenance keyword retags and boosts", func(t *testing.T) {
		store := newFakeStore()
		store.completed = []CompletedTask{
			{ID: 1, Text: "Renew insurance", CompletedAt: datePtr(now.AddDate(0, 0, -90))},
			{ID: 2, Text: "Renew insurance", CompletedAt: datePtr(now.AddDate(0, 0, -60))},
			{ID: 3, Text: "Renew insurance", CompletedAt: datePtr(now.AddDate(0, 0, -30))},
		}

		// base 0.76 (occ 0.6*0.6 + reg 1.0*0.4), boosted by 1.1 to 0.836
		cands, err := newGen(store).Generate(ctx, 1)
		require.NoError(t, err)
		require.Len(t, cands, 1)

		c := cands[0]
		assert.Equal(t, SourceMaintenance, c.SourceType)
		assert.InDelta(t, 0.836, c.Confidence, 1e-9)
		assert.Equal(t, Fingerprint("Renew insurance", SourceMaintenance), c.Fingerprint)
	})

	t.Run("maintenance boost caps at one", func(t *testing.T) {
		store := newFakeStore()
		store.completed = weeklyHistory("Backup the laptop", now, 1)

		// base confidence is already 1.0 (occ 1.0, reg 1.0); the 1.1
		// multiplier must not push it past the cap
		cands, err := newGen(store).Generate(ctx, 1)
		require.NoError(t, err)
		require.Len(t, cands, 1)

		c := cands[0]
		assert.Equal(t, SourceMaintenance, c.SourceType)
		assert.Equal(t, 1.0, c.Confidence)
	})

	t.Run("caps at five, best first", func(t *testing.T) {
		store := newFakeStore()
		texts := []string{
			"alpha drill", "bravo sketch", "charlie jog",
			"delta violin", "echo novel", "foxtrot soup",
		}
		id := 1
		for _, text := range texts {
			store.completed = append(store.completed, weeklyHistory(text, now, id)...)
			id += 5
		}

		cands, err := newGen(store).Generate(ctx, 1)
		require.NoError(t, err)
		require.Len(t, cands, 5)
		for i := 1; i < len(cands); i++ {
			assert.GreaterOrEqual(t, cands[i-1].Confidence, cands[i].Confidence)
		}
	})

	t.Run("fewer than two completions yields nothing", func(t *testing.T) {
		store := newFakeStore()
		store.completed = []CompletedTask{
			{ID: 1, Text: "Pay rent", CompletedAt: datePtr(now.AddDate(0, 0, -30))},
		}

		cands, err := newGen(store).Generate(ctx, 1)
		require.NoError(t, err)
		assert.Empty(t, cands)
	})
}
