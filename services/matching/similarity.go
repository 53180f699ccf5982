// File: services/matching/similarity.go
package matching

import "strings"

// Scorer computes a similarity score in [0, 1] between two strings. The
// threshold semantics in the resolver are portable across implementations, so
// scoring can be swapped without touching resolution logic.
type Scorer interface {
	Score(a, b string) float64
}

// TrigramScorer scores strings by Jaccard similarity of their character
// trigram sets, with the inputs lowercased and padded the way Postgres
// pg_trgm does ("  ab", " abc", ..., "bc ").
type TrigramScorer struct{}

func (TrigramScorer) Score(a, b string) float64 {
	ta := trigrams(a)
	tb := trigrams(b)
	if len(ta) == 0 || len(tb) == 0 {
		if normalize(a) == normalize(b) {
			return 1
		}
		return 0
	}

	intersection := 0
	for t := range ta {
		if _, ok := tb[t]; ok {
			intersection++
		}
	}
	union := len(ta) + len(tb) - intersection
	return float64(intersection) / float64(union)
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func trigrams(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, word := range strings.Fields(strings.ToLower(s)) {
		padded := "  " + word + " "
		for i := 0; i+3 <= len(padded); i++ {
			set[padded[i:i+3]] = struct{}{}
		}
	}
	return set
}
