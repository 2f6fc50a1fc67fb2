package fuzzy

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/basetopia/basetopia-backend/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureTeams() []catalog.Entity {
	return []catalog.Entity{
		{ID: "147", Name: "New York Yankees", AltNames: []string{"Yankees", "NYY"}, Kind: catalog.KindTeam},
		{ID: "121", Name: "New York Mets", AltNames: []string{"Mets", "NYM"}, Kind: catalog.KindTeam},
		{ID: "108", Name: "Los Angeles Angels", AltNames: []string{"Angels", "LAA", ""}, Kind: catalog.KindTeam},
	}
}

func fixturePlayers() []catalog.Entity {
	return []catalog.Entity{
		{ID: "592450", Name: "Aaron Judge", Kind: catalog.KindPlayer},
		{ID: "660271", Name: "Shohei Ohtani", Kind: catalog.KindPlayer},
		{ID: "605141", Name: "Mookie Betts", Kind: catalog.KindPlayer},
	}
}

func TestSearchAlternativeNameExactMatch(t *testing.T) {
	results := Search("yankees", 60, 10, fixturePlayers(), fixtureTeams())
	require.NotEmpty(t, results)
	assert.Equal(t, "147", results[0].ID)
	assert.Equal(t, 100, results[0].Score)
	assert.Equal(t, catalog.KindTeam, results[0].Type)
}

func TestSearchExactNormalizedNameScores100(t *testing.T) {
	for _, e := range append(fixturePlayers(), fixtureTeams()...) {
		results := Match(Normalize(e.Name), []catalog.Entity{e}, 0)
		require.Len(t, results, 1)
		assert.Equal(t, 100, results[0].Score, e.Name)
	}
}

func TestSearchThresholdMonotonic(t *testing.T) {
	queries := []string{"new york", "ohtani", "ang", "mookie bets", "zz"}
	for _, q := range queries {
		prev := -1
		for threshold := 100; threshold >= 0; threshold -= 10 {
			n := len(Search(q, threshold, 100, fixturePlayers(), fixtureTeams()))
			assert.GreaterOrEqual(t, n, prev, "query %q threshold %d", q, threshold)
			prev = n
		}
	}
}

func TestSearchOrderingAndLimit(t *testing.T) {
	results := Search("new york", 0, 100, fixturePlayers(), fixtureTeams())
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}

	limited := Search("new york", 0, 2, fixturePlayers(), fixtureTeams())
	assert.Len(t, limited, 2)
	assert.Equal(t, results[:2], limited)
}

func TestSearchStableTies(t *testing.T) {
	teams := []catalog.Entity{
		{ID: "a", Name: "Red Sox", Kind: catalog.KindTeam},
		{ID: "b", Name: "Red Sox", Kind: catalog.KindTeam},
	}
	results := Search("red sox", 0, 10, teams)
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].ID)
	assert.Equal(t, "b", results[1].ID)
}

func TestBest(t *testing.T) {
	r, ok := Best("Shohei Ohtani", fixturePlayers(), 90)
	require.True(t, ok)
	assert.Equal(t, "660271", r.ID)

	_, ok = Best("Babe Ruth", fixturePlayers(), 90)
	assert.False(t, ok)
}

func TestMatchClipsLongQueries(t *testing.T) {
	long := strings.Repeat("yankees ", 500)
	assert.Equal(t, MaxQueryRunes, utf8.RuneCountInString(clip(Normalize(long), MaxQueryRunes)))

	best, ok := Best(long, fixtureTeams(), 90)
	require.True(t, ok)
	assert.Equal(t, "147", best.ID)
}

func TestClipKeepsShortQueries(t *testing.T) {
	assert.Equal(t, "aaron judge", clip("aaron judge", MaxQueryRunes))
	assert.Equal(t, "ab", clip("ab cd", 3))
}
