package fuzzy

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/basetopia/basetopia-backend/internal/catalog"
)

// MaxQueryRunes bounds the normalized query that gets scored. Longer
// queries are cut, since partial matching is quadratic in name length per
// query rune.
const MaxQueryRunes = 100

// Result is one ranked match.
type Result struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Type     catalog.Kind `json:"type"`
	Metadata any          `json:"metadata"`
	Score    int          `json:"score"`
}

// Match scores every entity against query and returns those at or above
// threshold. Teams are also scored against their alternative names.
// The returned slice keeps the input order.
func Match(query string, entities []catalog.Entity, threshold int) []Result {
	q := clip(Normalize(query), MaxQueryRunes)
	var results []Result
	for _, e := range entities {
		score := Score(q, Normalize(e.Name))
		if e.Kind == catalog.KindTeam {
			for _, alt := range e.AltNames {
				if alt == "" {
					continue
				}
				score = max(score, Score(q, Normalize(alt)))
			}
		}
		if score >= threshold {
			results = append(results, Result{
				ID:       e.ID,
				Name:     e.Name,
				Type:     e.Kind,
				Metadata: e.Metadata,
				Score:    score,
			})
		}
	}
	return results
}

// Search matches every entity group in order, merges the results and returns
// the top limit by score. Ties keep catalog order.
func Search(query string, threshold, limit int, groups ...[]catalog.Entity) []Result {
	var merged []Result
	for _, g := range groups {
		merged = append(merged, Match(query, g, threshold)...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})
	if limit >= 0 && len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}

// Best returns the highest scoring entity at or above threshold.
func Best(query string, entities []catalog.Entity, threshold int) (Result, bool) {
	results := Search(query, threshold, 1, entities)
	if len(results) == 0 {
		return Result{}, false
	}
	return results[0], true
}

func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:n]))
}
