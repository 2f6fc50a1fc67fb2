package dto

import "github.com/basetopia/basetopia-backend/internal/fuzzy"

type SearchResult struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Metadata any    `json:"metadata"`
	Score    int    `json:"score"`
}

type SearchResponse struct {
	Results []SearchResult `json:"results"`
}

func NewSearchResponse(results []fuzzy.Result) SearchResponse {
	out := make([]SearchResult, 0, len(results))
	for _, r := range results {
		out = append(out, SearchResult{
			ID:       r.ID,
			Name:     r.Name,
			Type:     string(r.Type),
			Metadata: r.Metadata,
			Score:    r.Score,
		})
	}
	return SearchResponse{Results: out}
}
