package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/basetopia/basetopia-backend/internal/apperr"
	"github.com/basetopia/basetopia-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bracketTranslator struct {
	mu    sync.Mutex
	calls []string
}

func (b *bracketTranslator) Translate(_ context.Context, text, target, source string) (string, error) {
	b.mu.Lock()
	b.calls = append(b.calls, source+">"+target+":"+text)
	b.mu.Unlock()
	return fmt.Sprintf("[%s] %s", target, text), nil
}

func newTestPipeline(tr *bracketTranslator) (*Pipeline, *scriptedModel) {
	model := &scriptedModel{replies: map[string]string{
		planSystem:    `{"intent":"general","keywords":["judge"]}`,
		composeSystem: composedAnswer,
		tagSystem:     `{"player_names":["Aaron Judge"],"team_names":["Yankees"]}`,
	}}
	clips := &fakeClips{search: []models.HighlightClip{judgeClip()}}
	entities := testEntities()
	return NewPipeline(New(model, clips, entities), NewTagger(model, entities), tr, []string{"es", "ja"}), model
}

func TestQueryLocalizesEveryLanguage(t *testing.T) {
	p, _ := newTestPipeline(&bracketTranslator{})

	out, err := p.Query(context.Background(), "judge home runs", "en")
	require.NoError(t, err)
	require.Len(t, out, 3)

	data, err := json.Marshal(out["ja"])
	require.NoError(t, err)
	var ja models.LocalizedContent
	require.NoError(t, json.Unmarshal(data, &ja))

	assert.Equal(t, "[ja] Judge goes deep", ja.Title)
	assert.Equal(t, "[ja] Aaron Judge homered for the Yankees.", ja.Content)
	require.Len(t, ja.Highlights, 1)
	assert.Equal(t, "https://video.example.com/judge-hr.mp4", ja.Highlights[0].VideoURL)
	assert.Equal(t, "[ja] Judge 450 ft", ja.Highlights[0].Description)

	en, err := json.Marshal(out["en"])
	require.NoError(t, err)
	assert.Contains(t, string(en), `"title":"Judge goes deep"`)
}

func TestQueryTranslatesInputFirst(t *testing.T) {
	tr := &bracketTranslator{}
	p, model := newTestPipeline(tr)

	_, err := p.Query(context.Background(), "jonrones de Judge", "es")
	require.NoError(t, err)

	require.NotEmpty(t, tr.calls)
	assert.Equal(t, "es>en:jonrones de Judge", tr.calls[0])
	assert.Equal(t, "[en] jonrones de Judge", model.prompts[planSystem])
}

func TestQueryValidation(t *testing.T) {
	p, _ := newTestPipeline(&bracketTranslator{})

	_, err := p.Query(context.Background(), "judge", "fr")
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)

	_, err = p.Query(context.Background(), " ", "en")
	assert.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))
}

func TestDraftTagsAndLocalizes(t *testing.T) {
	p, _ := newTestPipeline(&bracketTranslator{})

	d, err := p.Draft(context.Background(), "judge home runs")
	require.NoError(t, err)

	assert.Equal(t, []string{"592450"}, d.PlayerTags)
	assert.Equal(t, []string{"147"}, d.TeamTags)
	assert.ElementsMatch(t, []string{"en", "es", "ja"}, keys(d.LocalizedContent))
	assert.Equal(t, "Judge goes deep", d.LocalizedContent["en"].Title)
	assert.Equal(t, "[es] Judge goes deep", d.LocalizedContent["es"].Title)
}

func keys(m map[string]models.LocalizedContent) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
