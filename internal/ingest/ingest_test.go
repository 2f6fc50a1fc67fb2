package ingest_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basetopia/basetopia-backend/internal/catalog"
	"github.com/basetopia/basetopia-backend/internal/database/dbtest"
	"github.com/basetopia/basetopia-backend/internal/ingest"
	"github.com/basetopia/basetopia-backend/internal/models"
	"github.com/basetopia/basetopia-backend/internal/store"
)

const videoFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:media="http://search.yahoo.com/mrss/">
<channel>
  <title>Yankees Highlights</title>
  <link>https://video.example.com/yankees</link>
  <item>
    <title>Judge crushes a 450-foot homer</title>
    <description>Aaron Judge goes deep in the 3rd</description>
    <category>Aaron Judge</category>
    <category>Home Run</category>
    <enclosure url="https://video.example.com/judge-hr.mp4" type="video/mp4" length="1"/>
    <pubDate>Sat, 01 Mar 2025 18:00:00 GMT</pubDate>
  </item>
  <item>
    <title>Cole strikes out 12</title>
    <media:content url="https://video.example.com/cole-k.mp4" type="video/mp4"/>
    <pubDate>Sun, 02 Mar 2025 18:00:00 GMT</pubDate>
  </item>
  <item>
    <title>Game recap</title>
    <link>https://video.example.com/recap</link>
  </item>
  <item>
    <title>No link at all</title>
  </item>
</channel>
</rss>`

type fakeEntities []catalog.Entity

func (f fakeEntities) ListSearchable(_ context.Context, kind catalog.Kind) ([]catalog.Entity, error) {
	if kind != catalog.KindPlayer {
		return nil, nil
	}
	return f, nil
}

func serveFeed(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchFeedStoresVideoItems(t *testing.T) {
	srv := serveFeed(t, videoFeed)
	st := store.New(dbtest.Open(t))
	players := fakeEntities{catalog.FromPlayer(models.Player{ID: "592450", Name: "Aaron Judge"})}
	f := ingest.NewFetcher(st, players)

	n, err := f.FetchFeed(context.Background(), ingest.Source{URL: srv.URL, Team: "Yankees"})
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	clips, err := st.HighlightsByTeam(context.Background(), "Yankees", 10)
	require.NoError(t, err)
	require.Len(t, clips, 3)

	byURL := make(map[string]models.HighlightClip)
	for _, c := range clips {
		byURL[c.VideoURL] = c
	}
	judge := byURL["https://video.example.com/judge-hr.mp4"]
	assert.Equal(t, "Judge crushes a 450-foot homer. Aaron Judge goes deep in the 3rd", judge.Description)
	assert.Equal(t, []string{"592450"}, []string(judge.PlayerIDs))
	assert.True(t, judge.PublishedAt.Equal(time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC)))

	assert.Contains(t, byURL, "https://video.example.com/cole-k.mp4")
	assert.Contains(t, byURL, "https://video.example.com/recap")
}

func TestFetchFeedIsIdempotent(t *testing.T) {
	srv := serveFeed(t, videoFeed)
	st := store.New(dbtest.Open(t))
	f := ingest.NewFetcher(st, nil)
	src := ingest.Source{URL: srv.URL, Team: "Yankees"}

	_, err := f.FetchFeed(context.Background(), src)
	require.NoError(t, err)
	_, err = f.FetchFeed(context.Background(), src)
	require.NoError(t, err)

	clips, err := st.SearchHighlights(context.Background(), nil, 10)
	require.NoError(t, err)
	assert.Len(t, clips, 3)
}

func TestFetchAllSkipsBrokenFeeds(t *testing.T) {
	good := serveFeed(t, videoFeed)
	bad := serveFeed(t, "this is not a feed")
	st := store.New(dbtest.Open(t))

	results, err := ingest.NewFetcher(st, nil).FetchAll(context.Background(), []ingest.Source{
		{URL: bad.URL},
		{URL: good.URL, Team: "Yankees"},
	})
	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.EqualValues(t, 3, results[good.URL])
}
