package suggestions

import (
	"regexp"
	"sort"
	"strings"
)

// Process-wide read-only configuration; never mutated after init.
var stopwords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "but": true,
	"is": true, "are": true, "was": true, "were": true,
	"be": true, "been": true, "being": true, "have": true, "has": true, "had": true,
	"do": true, "does": true, "did": true,
	"will": true, "would": true, "could": true, "should": true, "may": true, "might": true, "must": true,
	"to": true, "of": true, "in": true, "for": true, "on": true, "with": true, "at": true, "by": true, "from": true,
	"this": true, "that": true, "these": true, "those": true, "it": true, "its": true,
	"my": true, "your": true, "his": true, "her": true, "our": true, "their": true,
	"i": true, "me": true, "we": true, "you": true, "he": true, "she": true, "they": true,
	"am": true, "just": true, "also": true, "very": true, "too": true, "so": true,
	"up": true, "out": true, "about": true,
}

var maintenanceKeywords = []string{
	"renew", "renewal", "check", "backup", "review", "update", "clean",
	"maintain", "maintenance", "inspect", "service", "replace", "refill",
	"restock", "pay", "bill", "subscription", "insurance", "license",
	"registration", "appointment", "checkup", "oil change", "filter",
}

var nonWordRe = regexp.MustCompile(`[^\w\s]`)

// normalizeText canonicalizes task text: lower-case, punctuation out,
// stopwords and single characters dropped, tokens sorted. Two texts
// that differ only in case, punctuation or word order normalize equal,
// and the function is idempotent.
func normalizeText(text string) string {
	cleaned := nonWordRe.ReplaceAllString(strings.ToLower(text), " ")

	tokens := []string{}
	for _, token := range strings.Fields(cleaned) {
		if len(token) > 1 && !stopwords[token] {
			tokens = append(tokens, token)
		}
	}

	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

func tokenize(text string) map[string]bool {
	set := map[string]bool{}
	for _, t := range strings.Fields(normalizeText(text)) {
		set[t] = true
	}
	return set
}

// jaccardSimilarity is |A ∩ B| / |A ∪ B| over the token sets.
// Both empty counts as identical (1), exactly one empty as disjoint (0).
func jaccardSimilarity(text1, text2 string) float64 {
	tokens1 := tokenize(text1)
	tokens2 := tokenize(text2)

	if len(tokens1) == 0 && len(tokens2) == 0 {
		return 1
	}
	if len(tokens1) == 0 || len(tokens2) == 0 {
		return 0
	}

	intersection := 0
	for t := range tokens1 {
		if tokens2[t] {
			intersection++
		}
	}
	union := len(tokens1) + len(tokens2) - intersection

	return float64(intersection) / float64(union)
}

func containsMaintenanceKeyword(text string) bool {
	lower := strings.ToLower(text)
	for _, keyword := range maintenanceKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
