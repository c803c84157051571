package suggestions

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"
)

const (
	minOccurrencesForSuggestion = 2
	minConfidenceThreshold      = 0.75
	similarityThreshold         = 0.6
	lookbackDays                = 180
	maxCandidates               = 5
)

// Generator mines the completed-task history for recurring intents and
// scores them into candidates. Read-only and side-effect-free.
type Generator struct {
	store Store
	now   func() time.Time
}

func NewGenerator(store Store) *Generator {
	return &Generator{store: store, now: time.Now}
}

// clusterSimilarTasks runs one greedy pass over the history: each
// unassigned task seeds a cluster and absorbs every later unassigned
// task whose similarity to the seed clears the threshold. Matching is
// against the seed only, not a growing centroid, which keeps the pass
// deterministic for a fixed input order. O(n²), bounded by the window.
func clusterSimilarTasks(history []CompletedTask) []TextCluster {
	clusters := []TextCluster{}
	assigned := map[int]bool{}

	for _, task := range history {
		if assigned[task.ID] {
			continue
		}

		cluster := TextCluster{
			NormalizedText: normalizeText(task.Text),
			TaskIDs:        []int{task.ID},
			Occurrences:    1,
			Texts:          []string{task.Text},
		}
		if task.CompletedAt != nil {
			cluster.CompletedDates = append(cluster.CompletedDates, *task.CompletedAt)
		}

		for _, other := range history {
			if other.ID == task.ID || assigned[other.ID] {
				continue
			}

			if jaccardSimilarity(task.Text, other.Text) >= similarityThreshold {
				cluster.TaskIDs = append(cluster.TaskIDs, other.ID)
				cluster.Occurrences++
				cluster.Texts = append(cluster.Texts, other.Text)
				if other.CompletedAt != nil {
					cluster.CompletedDates = append(cluster.CompletedDates, *other.CompletedAt)
				}
				assigned[other.ID] = true
			}
		}

		sortDates(cluster.CompletedDates)

		if intervals := completionIntervals(cluster.CompletedDates); len(intervals) > 0 {
			sum := 0.0
			for _, d := range intervals {
				sum += d
			}
			cluster.AverageIntervalDays = sum / float64(len(intervals))
		}

		assigned[task.ID] = true
		clusters = append(clusters, cluster)
	}

	return clusters
}

func sortDates(dates []time.Time) {
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
}

// completionIntervals returns the gaps between adjacent completions in
// fractional days; empty when fewer than two completions exist.
func completionIntervals(dates []time.Time) []float64 {
	if len(dates) < 2 {
		return nil
	}
	intervals := make([]float64, 0, len(dates)-1)
	for i := 1; i < len(dates); i++ {
		intervals = append(intervals, dates[i].Sub(dates[i-1]).Hours()/24)
	}
	return intervals
}

// regularityScore rewards a steady cadence: 1 minus the coefficient of
// variation of the inter-completion intervals, floored at 0.
func regularityScore(cluster TextCluster) float64 {
	intervals := completionIntervals(cluster.CompletedDates)
	if len(intervals) == 0 {
		return 0
	}

	mean := 0.0
	for _, d := range intervals {
		mean += d
	}
	mean /= float64(len(intervals))

	variance := 0.0
	for _, d := range intervals {
		variance += (d - mean) * (d - mean)
	}
	variance /= float64(len(intervals))

	cv := 1.0
	if mean > 0 {
		cv = math.Sqrt(variance) / mean
	}

	return math.Max(0, 1-cv)
}

// isOverdue is deliberately early: due again at 80% of the average
// interval, not only when strictly past it.
func isOverdue(cluster TextCluster, now time.Time) bool {
	if len(cluster.CompletedDates) == 0 || cluster.AverageIntervalDays == 0 {
		return false
	}

	last := cluster.CompletedDates[len(cluster.CompletedDates)-1]
	daysSince := now.Sub(last).Hours() / 24

	return daysSince >= cluster.AverageIntervalDays*0.8
}

// mostRepresentativeText picks the member with the highest summed
// similarity to every other member; first maximizer wins on ties.
func mostRepresentativeText(texts []string) string {
	if len(texts) == 1 {
		return texts[0]
	}

	best := texts[0]
	bestScore := 0.0

	for _, text := range texts {
		score := 0.0
		for _, other := range texts {
			score += jaccardSimilarity(text, other)
		}
		if score > bestScore {
			bestScore = score
			best = text
		}
	}

	return best
}

func (g *Generator) hasActiveTaskSimilar(ctx context.Context, userID int, text string) (bool, error) {
	openTexts, err := g.store.OpenTaskTexts(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, open := range openTexts {
		if jaccardSimilarity(text, open) >= similarityThreshold {
			return true, nil
		}
	}
	return false, nil
}

// Generate returns the top candidates for one user, confidence
// descending, at most maxCandidates. Empty when the 180-day window
// holds fewer than two completions.
func (g *Generator) Generate(ctx context.Context, userID int) ([]Candidate, error) {
	now := g.now()
	cutoff := now.AddDate(0, 0, -lookbackDays)

	history, err := g.store.CompletedTasksSince(ctx, userID, cutoff)
	if err != nil {
		return nil, err
	}
	if len(history) < minOccurrencesForSuggestion {
		return []Candidate{}, nil
	}

	clusters := clusterSimilarTasks(history)
	candidates := []Candidate{}

	for _, cluster := range clusters {
		if cluster.Occurrences < minOccurrencesForSuggestion {
			continue
		}
		if !isOverdue(cluster, now) {
			continue
		}

		representative := mostRepresentativeText(cluster.Texts)

		similar, err := g.hasActiveTaskSimilar(ctx, userID, representative)
		if err != nil {
			return nil, err
		}
		if similar {
			continue
		}

		isMaintenance := containsMaintenanceKeyword(representative)
		sourceType := SourceRecurrence
		if isMaintenance {
			sourceType = SourceMaintenance
		}

		occurrenceScore := math.Min(1.0, float64(cluster.Occurrences)/5)
		confidence := occurrenceScore*0.6 + regularityScore(cluster)*0.4
		if isMaintenance {
			confidence = math.Min(1.0, confidence*1.1)
		}

		if confidence < minConfidenceThreshold {
			continue
		}

		why := fmt.Sprintf(
			"You've done %q %d times, roughly every %d days",
			representative, cluster.Occurrences, int(math.Round(cluster.AverageIntervalDays)),
		)

		candidates = append(candidates, Candidate{
			SuggestedText:  representative,
			SourceType:     sourceType,
			Confidence:     confidence,
			Why:            why,
			Fingerprint:    Fingerprint(representative, sourceType),
			RelatedTaskIDs: cluster.TaskIDs,
		})
	}

	sortCandidates(candidates)
	if len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}

	return candidates, nil
}

func sortCandidates(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})
}
