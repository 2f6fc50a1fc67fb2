package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/basetopia/basetopia-backend/internal/catalog"
	"github.com/basetopia/basetopia-backend/internal/fuzzy"
	"github.com/basetopia/basetopia-backend/internal/llm"
	"github.com/basetopia/basetopia-backend/internal/models"
	"google.golang.org/genai"
)

// TagThreshold keeps only names the catalog confirms almost exactly.
const TagThreshold = 90

const tagSystem = `You extract MLB player and team names from a highlights post.
Return every player mentioned in "player_names" and every team in "team_names",
spelled as they appear in the post. Return empty lists when none are mentioned.`

var tagSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"player_names": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"team_names":   {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
	},
	Required: []string{"player_names", "team_names"},
}

// Tags are catalog ids attached to a generated post.
type Tags struct {
	PlayerIDs []string
	TeamIDs   []string
}

// Tagger extracts mentioned names and resolves them to catalog ids.
type Tagger struct {
	model     llm.Model
	entities  Entities
	threshold int
}

func NewTagger(model llm.Model, entities Entities) *Tagger {
	return &Tagger{model: model, entities: entities, threshold: TagThreshold}
}

func (t *Tagger) Tag(ctx context.Context, post *models.LocalizedContent) (*Tags, error) {
	body, err := json.Marshal(post)
	if err != nil {
		return nil, fmt.Errorf("failed to encode post: %w", err)
	}

	var names struct {
		Players []string `json:"player_names"`
		Teams   []string `json:"team_names"`
	}
	if err := generateJSON(ctx, t.model, "tag", llm.Request{
		System: tagSystem,
		Prompt: string(body),
		Schema: tagSchema,
	}, &names); err != nil {
		return nil, err
	}

	players, err := t.resolve(ctx, catalog.KindPlayer, names.Players)
	if err != nil {
		return nil, err
	}
	teams, err := t.resolve(ctx, catalog.KindTeam, names.Teams)
	if err != nil {
		return nil, err
	}
	return &Tags{PlayerIDs: players, TeamIDs: teams}, nil
}

func (t *Tagger) resolve(ctx context.Context, kind catalog.Kind, names []string) ([]string, error) {
	ids := make([]string, 0, len(names))
	if len(names) == 0 {
		return ids, nil
	}
	entities, err := t.entities.ListSearchable(ctx, kind)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	for _, name := range names {
		best, ok := fuzzy.Best(name, entities, t.threshold)
		if !ok || seen[best.ID] {
			continue
		}
		seen[best.ID] = true
		ids = append(ids, best.ID)
	}
	return ids, nil
}
