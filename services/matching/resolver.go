// File: services/matching/resolver.go
package matching

import (
	"strings"

	"clinicvoice/models"
)

var honorifics = map[string]struct{}{
	"dr": {}, "dr.": {}, "doctor": {},
	"mr": {}, "mr.": {}, "mrs": {}, "mrs.": {}, "ms": {}, "ms.": {},
}

// Resolver maps free-text names from the voice agent onto directory entities.
type Resolver struct {
	Scorer    Scorer
	Threshold float64
}

// NewResolver builds a Resolver with the default trigram scorer.
func NewResolver(threshold float64) *Resolver {
	return &Resolver{Scorer: TrigramScorer{}, Threshold: threshold}
}

// ResolvePractitioner resolves a spoken practitioner name. An exact
// first-name, last-name or full-name match (case-folded, honorific stripped)
// short-circuits to a perfect match; otherwise the highest-scoring candidate
// at or above the threshold wins. Returns nil when nothing qualifies.
func (r *Resolver) ResolvePractitioner(practitioners []models.Practitioner, query string) (*models.Practitioner, float64) {
	q := stripHonorific(normalize(query))
	if q == "" {
		return nil, 0
	}

	var best *models.Practitioner
	var bestScore float64

	for i := range practitioners {
		p := &practitioners[i]
		first := normalize(p.FirstName)
		last := normalize(p.LastName)
		full := normalize(p.FullName())

		if q == first || q == last || q == full {
			return p, 1
		}

		score := r.Scorer.Score(q, full)
		if s := r.Scorer.Score(q, first); s > score {
			score = s
		}
		if s := r.Scorer.Score(q, last); s > score {
			score = s
		}
		if score > bestScore {
			best = p
			bestScore = score
		}
	}

	if best == nil || bestScore < r.Threshold {
		return nil, bestScore
	}
	return best, bestScore
}

// MatchService gates a spoken service name against the practitioner's offered
// appointment types with a case-insensitive substring match in either
// direction. On no match it returns nil plus up to maxSuggestions offered
// names for the caller to read back.
func (r *Resolver) MatchService(offered []models.AppointmentType, query string, maxSuggestions int) (*models.AppointmentType, []string) {
	q := normalize(query)
	if q != "" {
		for i := range offered {
			name := normalize(offered[i].Name)
			if strings.Contains(name, q) || strings.Contains(q, name) {
				return &offered[i], nil
			}
		}
	}

	suggestions := make([]string, 0, maxSuggestions)
	for _, t := range offered {
		if len(suggestions) == maxSuggestions {
			break
		}
		suggestions = append(suggestions, t.Name)
	}
	return nil, suggestions
}

// MatchBusiness resolves an optional location hint against the clinic's
// business names. A hint that scores below the threshold is ignored rather
// than treated as an error.
func (r *Resolver) MatchBusiness(businesses []models.Business, hint string) *models.Business {
	h := normalize(hint)
	if h == "" {
		return nil
	}

	var best *models.Business
	var bestScore float64
	for i := range businesses {
		name := normalize(businesses[i].Name)
		if h == name || strings.Contains(name, h) {
			return &businesses[i]
		}
		if score := r.Scorer.Score(h, name); score > bestScore {
			best = &businesses[i]
			bestScore = score
		}
	}
	if bestScore < r.Threshold {
		return nil
	}
	return best
}

func stripHonorific(s string) string {
	fields := strings.Fields(s)
	if len(fields) > 1 {
		if _, ok := honorifics[fields[0]]; ok {
			return strings.Join(fields[1:], " ")
		}
	}
	return s
}
