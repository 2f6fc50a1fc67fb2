// Package agent answers highlight questions with retrieved clips and an LLM.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/basetopia/basetopia-backend/internal/apperr"
	"github.com/basetopia/basetopia-backend/internal/catalog"
	"github.com/basetopia/basetopia-backend/internal/fuzzy"
	"github.com/basetopia/basetopia-backend/internal/llm"
	"github.com/basetopia/basetopia-backend/internal/models"
	"github.com/basetopia/basetopia-backend/pkg/metrics"
	"google.golang.org/genai"
)

const (
	DefaultClipCount = 5
	teamThreshold    = 80
)

var ErrEmptyQuery = apperr.InvalidArgument("user_query is required")

// Clips is the highlight storage the agent retrieves from.
type Clips interface {
	HighlightsByTeam(ctx context.Context, teamShortName string, k int) ([]models.HighlightClip, error)
	SearchHighlights(ctx context.Context, terms []string, k int) ([]models.HighlightClip, error)
	GetTeam(ctx context.Context, id string) (*models.Team, error)
}

// Entities lists the catalog the agent resolves names against.
type Entities interface {
	ListSearchable(ctx context.Context, kind catalog.Kind) ([]catalog.Entity, error)
}

const planSystem = `You plan retrieval for a baseball highlights assistant.
Decide whether the question is about one specific MLB team ("team") or is general ("general").
For "team", put the team name exactly as the user wrote it in "team".
Always give a few short search keywords (player names, events, plays) in "keywords".`

const composeSystem = `You are a baseball highlights assistant.
Answer the user's question using only the highlight clips provided.
Write a short catchy title and a content paragraph summarising the answer.
List the clips you used in "highlights", copying video_url and description exactly.
Never invent a video_url that is not in the provided clips.`

var planSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"intent":   {Type: genai.TypeString, Enum: []string{"team", "general"}},
		"team":     {Type: genai.TypeString},
		"keywords": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
	},
	Required: []string{"intent", "keywords"},
}

var responseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"title":   {Type: genai.TypeString},
		"content": {Type: genai.TypeString},
		"highlights": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"video_url":   {Type: genai.TypeString},
					"description": {Type: genai.TypeString},
				},
				Required: []string{"video_url", "description"},
			},
		},
	},
	Required: []string{"title", "content", "highlights"},
}

type plan struct {
	Intent   string   `json:"intent"`
	Team     string   `json:"team"`
	Keywords []string `json:"keywords"`
}

// Agent turns a question into a titled answer citing stored clips.
type Agent struct {
	model    llm.Model
	clips    Clips
	entities Entities
	k        int
}

func New(model llm.Model, clips Clips, entities Entities) *Agent {
	return &Agent{model: model, clips: clips, entities: entities, k: DefaultClipCount}
}

// Answer plans, retrieves and composes. The returned highlights are
// always a subset of the retrieved clips.
func (a *Agent) Answer(ctx context.Context, query string) (*models.LocalizedContent, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	p, err := a.plan(ctx, query)
	if err != nil {
		return nil, err
	}

	clips, err := a.retrieve(ctx, p, query)
	if err != nil {
		return nil, apperr.Unavailable("highlight lookup failed", err)
	}

	return a.compose(ctx, query, clips)
}

func (a *Agent) plan(ctx context.Context, query string) (*plan, error) {
	var p plan
	if err := generateJSON(ctx, a.model, "plan", llm.Request{
		System: planSystem,
		Prompt: query,
		Schema: planSchema,
	}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (a *Agent) retrieve(ctx context.Context, p *plan, query string) ([]models.HighlightClip, error) {
	if p.Intent == "team" && strings.TrimSpace(p.Team) != "" {
		clips, err := a.teamClips(ctx, p.Team)
		if err != nil {
			slog.Warn("team highlight lookup failed, using keyword search", "team", p.Team, "error", err)
		} else if len(clips) > 0 {
			return clips, nil
		}
	}

	terms := p.Keywords
	if len(terms) == 0 {
		terms = strings.Fields(query)
	}
	return a.clips.SearchHighlights(ctx, terms, a.k)
}

func (a *Agent) teamClips(ctx context.Context, name string) ([]models.HighlightClip, error) {
	teams, err := a.entities.ListSearchable(ctx, catalog.KindTeam)
	if err != nil {
		return nil, err
	}
	best, ok := fuzzy.Best(name, teams, teamThreshold)
	if !ok {
		return nil, nil
	}
	team, err := a.clips.GetTeam(ctx, best.ID)
	if err != nil {
		return nil, err
	}
	return a.clips.HighlightsByTeam(ctx, team.ShortName, a.k)
}

func (a *Agent) compose(ctx context.Context, query string, clips []models.HighlightClip) (*models.LocalizedContent, error) {
	available := make([]models.Highlight, 0, len(clips))
	byURL := make(map[string]models.Highlight, len(clips))
	for _, c := range clips {
		h := models.Highlight{VideoURL: c.VideoURL, Description: c.Description}
		available = append(available, h)
		byURL[c.VideoURL] = h
	}
	clipJSON, err := json.Marshal(available)
	if err != nil {
		return nil, fmt.Errorf("failed to encode clips: %w", err)
	}

	var out models.LocalizedContent
	if err := generateJSON(ctx, a.model, "compose", llm.Request{
		System: composeSystem,
		Prompt: fmt.Sprintf("Question: %s\n\nHighlight clips:\n%s", query, clipJSON),
		Schema: responseSchema,
	}, &out); err != nil {
		return nil, err
	}

	cited := make([]models.Highlight, 0, len(out.Highlights))
	seen := make(map[string]bool)
	for _, h := range out.Highlights {
		stored, ok := byURL[h.VideoURL]
		if !ok || seen[h.VideoURL] {
			continue
		}
		seen[h.VideoURL] = true
		if h.Description == "" {
			h.Description = stored.Description
		}
		cited = append(cited, h)
	}
	out.Highlights = cited
	return &out, nil
}

// generateJSON runs one model call and decodes its JSON answer into out.
func generateJSON(ctx context.Context, model llm.Model, stage string, req llm.Request, out any) error {
	text, err := model.Generate(ctx, req)
	if err == nil {
		err = json.Unmarshal([]byte(stripFences(text)), out)
	}
	metrics.RecordLLMRequest(stage, err)
	if err != nil {
		return apperr.Unavailable("agent unavailable", fmt.Errorf("%s: %w", stage, err))
	}
	return nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) > 2 {
		s = strings.Join(lines[1:len(lines)-1], "\n")
	}
	return strings.TrimSpace(s)
}
