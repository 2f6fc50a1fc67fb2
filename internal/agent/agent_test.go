package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/basetopia/basetopia-backend/internal/apperr"
	"github.com/basetopia/basetopia-backend/internal/catalog"
	"github.com/basetopia/basetopia-backend/internal/llm"
	"github.com/basetopia/basetopia-backend/internal/models"
	"github.com/basetopia/basetopia-backend/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedModel answers each stage from a canned reply keyed by system prompt.
type scriptedModel struct {
	mu      sync.Mutex
	replies map[string]string
	prompts map[string]string
	err     error
}

func (m *scriptedModel) Generate(_ context.Context, req llm.Request) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	if m.prompts == nil {
		m.prompts = make(map[string]string)
	}
	m.prompts[req.System] = req.Prompt
	reply, ok := m.replies[req.System]
	if !ok {
		return "", fmt.Errorf("no reply scripted")
	}
	return reply, nil
}

type fakeClips struct {
	teams      map[string]models.Team
	byTeam     map[string][]models.HighlightClip
	search     []models.HighlightClip
	teamCalls  []string
	searchArgs [][]string
}

func (f *fakeClips) HighlightsByTeam(_ context.Context, shortName string, k int) ([]models.HighlightClip, error) {
	f.teamCalls = append(f.teamCalls, shortName)
	clips := f.byTeam[shortName]
	if len(clips) > k {
		clips = clips[:k]
	}
	return clips, nil
}

func (f *fakeClips) SearchHighlights(_ context.Context, terms []string, k int) ([]models.HighlightClip, error) {
	f.searchArgs = append(f.searchArgs, terms)
	return f.search, nil
}

func (f *fakeClips) GetTeam(_ context.Context, id string) (*models.Team, error) {
	t, ok := f.teams[id]
	if !ok {
		return nil, store.ErrTeamNotFound
	}
	return &t, nil
}

type fakeEntities map[catalog.Kind][]catalog.Entity

func (f fakeEntities) ListSearchable(_ context.Context, kind catalog.Kind) ([]catalog.Entity, error) {
	return f[kind], nil
}

var yankees = models.Team{
	ID:               "147",
	Name:             "New York Yankees",
	ShortName:        "Yankees",
	AlternativeNames: []string{"NYY", "Bronx Bombers"},
}

func testEntities() fakeEntities {
	return fakeEntities{
		catalog.KindTeam: {
			catalog.FromTeam(yankees),
			catalog.FromTeam(models.Team{ID: "119", Name: "Los Angeles Dodgers", ShortName: "Dodgers"}),
		},
		catalog.KindPlayer: {
			catalog.FromPlayer(models.Player{ID: "592450", Name: "Aaron Judge", TeamName: "New York Yankees"}),
			catalog.FromPlayer(models.Player{ID: "660271", Name: "Shohei Ohtani", TeamName: "Los Angeles Dodgers"}),
		},
	}
}

func judgeClip() models.HighlightClip {
	return models.HighlightClip{
		VideoURL:      "https://video.example.com/judge-hr.mp4",
		Description:   "Aaron Judge crushes a 450-foot home run",
		TeamShortName: "Yankees",
	}
}

const composedAnswer = `{"title":"Judge goes deep","content":"Aaron Judge homered for the Yankees.",
"highlights":[
 {"video_url":"https://video.example.com/judge-hr.mp4","description":"Judge 450 ft"},
 {"video_url":"https://video.example.com/made-up.mp4","description":"invented"}]}`

func TestAnswerUsesTeamClips(t *testing.T) {
	clips := &fakeClips{
		teams:  map[string]models.Team{yankees.ID: yankees},
		byTeam: map[string][]models.HighlightClip{"Yankees": {judgeClip()}},
	}
	model := &scriptedModel{replies: map[string]string{
		planSystem:    `{"intent":"team","team":"Bronx Bombers","keywords":["home run"]}`,
		composeSystem: composedAnswer,
	}}

	got, err := New(model, clips, testEntities()).Answer(context.Background(), "Best Bronx Bombers homers?")
	require.NoError(t, err)

	assert.Equal(t, []string{"Yankees"}, clips.teamCalls)
	assert.Empty(t, clips.searchArgs)
	assert.Equal(t, "Judge goes deep", got.Title)
	require.Len(t, got.Highlights, 1)
	assert.Equal(t, "https://video.example.com/judge-hr.mp4", got.Highlights[0].VideoURL)
	assert.Contains(t, model.prompts[composeSystem], "judge-hr.mp4")
}

func TestAnswerFallsBackToKeywordSearch(t *testing.T) {
	clips := &fakeClips{search: []models.HighlightClip{judgeClip()}}
	model := &scriptedModel{replies: map[string]string{
		planSystem:    `{"intent":"team","team":"Springfield Isotopes","keywords":["walk-off","grand slam"]}`,
		composeSystem: composedAnswer,
	}}

	got, err := New(model, clips, testEntities()).Answer(context.Background(), "Isotopes walk-offs")
	require.NoError(t, err)

	assert.Empty(t, clips.teamCalls)
	assert.Equal(t, [][]string{{"walk-off", "grand slam"}}, clips.searchArgs)
	assert.Len(t, got.Highlights, 1)
}

func TestAnswerFallsBackWhenTeamHasNoClips(t *testing.T) {
	clips := &fakeClips{
		teams:  map[string]models.Team{yankees.ID: yankees},
		search: []models.HighlightClip{judgeClip()},
	}
	model := &scriptedModel{replies: map[string]string{
		planSystem:    `{"intent":"team","team":"Yankees","keywords":[]}`,
		composeSystem: composedAnswer,
	}}

	_, err := New(model, clips, testEntities()).Answer(context.Background(), "yankees today")
	require.NoError(t, err)

	assert.Equal(t, []string{"Yankees"}, clips.teamCalls)
	assert.Equal(t, [][]string{{"yankees", "today"}}, clips.searchArgs)
}

func TestAnswerAcceptsFencedJSON(t *testing.T) {
	clips := &fakeClips{search: []models.HighlightClip{judgeClip()}}
	model := &scriptedModel{replies: map[string]string{
		planSystem:    "```json\n{\"intent\":\"general\",\"keywords\":[\"judge\"]}\n```",
		composeSystem: composedAnswer,
	}}

	got, err := New(model, clips, testEntities()).Answer(context.Background(), "judge")
	require.NoError(t, err)
	assert.Equal(t, "Judge goes deep", got.Title)
}

func TestAnswerErrors(t *testing.T) {
	a := New(&scriptedModel{err: errors.New("quota exceeded")}, &fakeClips{}, testEntities())

	_, err := a.Answer(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyQuery)

	_, err = a.Answer(context.Background(), "judge")
	assert.Equal(t, apperr.KindUnavailable, apperr.KindOf(err))

	bad := New(&scriptedModel{replies: map[string]string{planSystem: "not json"}}, &fakeClips{}, testEntities())
	_, err = bad.Answer(context.Background(), "judge")
	assert.Equal(t, apperr.KindUnavailable, apperr.KindOf(err))
}

func TestTaggerKeepsOnlyConfirmedNames(t *testing.T) {
	model := &scriptedModel{replies: map[string]string{
		tagSystem: `{"player_names":["Aaron Judge","aaron judge","Babe Ruth"],"team_names":["NYY","Springfield Isotopes"]}`,
	}}

	tags, err := NewTagger(model, testEntities()).Tag(context.Background(), &models.LocalizedContent{
		Title:   "Judge goes deep",
		Content: "Aaron Judge homered for the Yankees.",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"592450"}, tags.PlayerIDs)
	assert.Equal(t, []string{"147"}, tags.TeamIDs)
	assert.Contains(t, model.prompts[tagSystem], "Aaron Judge homered")
}

func TestTaggerEmptyNames(t *testing.T) {
	model := &scriptedModel{replies: map[string]string{
		tagSystem: `{"player_names":[],"team_names":[]}`,
	}}

	tags, err := NewTagger(model, testEntities()).Tag(context.Background(), &models.LocalizedContent{Title: "Rain delay"})
	require.NoError(t, err)
	assert.NotNil(t, tags.PlayerIDs)
	assert.Empty(t, tags.PlayerIDs)
	assert.Empty(t, tags.TeamIDs)
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFences(`  {"a":1} `))
	assert.True(t, strings.HasPrefix(stripFences("```\n[]\n```"), "["))
}
