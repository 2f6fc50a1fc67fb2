// Package ingest loads highlight clips from RSS and Atom video feeds.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/basetopia/basetopia-backend/internal/catalog"
	"github.com/basetopia/basetopia-backend/internal/fuzzy"
	"github.com/basetopia/basetopia-backend/internal/models"
	"github.com/basetopia/basetopia-backend/pkg/metrics"
	"github.com/mmcdole/gofeed"
)

// PlayerThreshold is the minimum score for a feed category to count as a player tag.
const PlayerThreshold = 90

// Source is one feed and the team its clips belong to.
type Source struct {
	URL  string `yaml:"url"`
	Team string `yaml:"team"`
}

// Sink stores clips keyed by video URL.
type Sink interface {
	UpsertHighlights(ctx context.Context, clips []models.HighlightClip) (int64, error)
}

// Entities resolves feed categories to catalog players.
type Entities interface {
	ListSearchable(ctx context.Context, kind catalog.Kind) ([]catalog.Entity, error)
}

// Fetcher pulls feeds and stores their video items.
type Fetcher struct {
	sink     Sink
	entities Entities
	parser   *gofeed.Parser
	now      func() time.Time
}

// NewFetcher creates a fetcher. entities may be nil, in which case clips
// carry no player tags.
func NewFetcher(sink Sink, entities Entities) *Fetcher {
	return &Fetcher{
		sink:     sink,
		entities: entities,
		parser:   gofeed.NewParser(),
		now:      time.Now,
	}
}

// FetchFeed parses one feed and upserts its clips. Returns the number of rows written.
func (f *Fetcher) FetchFeed(ctx context.Context, src Source) (int64, error) {
	parsed, err := f.parser.ParseURLWithContext(src.URL, ctx)
	if err != nil {
		return 0, fmt.Errorf("parse feed %s: %w", src.URL, err)
	}

	var players []catalog.Entity
	if f.entities != nil {
		players, err = f.entities.ListSearchable(ctx, catalog.KindPlayer)
		if err != nil {
			return 0, err
		}
	}

	clips := f.Clips(parsed, src.Team, players)
	n, err := f.sink.UpsertHighlights(ctx, clips)
	if err != nil {
		return 0, err
	}
	metrics.RecordHighlightsStored(n)
	return n, nil
}

// FetchAll fetches every source in turn. A failing feed is logged and skipped.
func (f *Fetcher) FetchAll(ctx context.Context, sources []Source) (map[string]int64, error) {
	results := make(map[string]int64, len(sources))
	for i, src := range sources {
		if err := ctx.Err(); err != nil {
			slog.Warn("ingest cancelled", "done", i, "total", len(sources))
			return results, err
		}
		n, err := f.FetchFeed(ctx, src)
		if err != nil {
			slog.Error("feed ingest failed", "url", src.URL, "error", err)
			continue
		}
		results[src.URL] = n
	}
	return results, nil
}

// Clips converts feed items into highlight clips. Items without a video
// link are skipped.
func (f *Fetcher) Clips(feed *gofeed.Feed, team string, players []catalog.Entity) []models.HighlightClip {
	now := f.now().UTC()
	clips := make([]models.HighlightClip, 0, len(feed.Items))
	seen := make(map[string]bool)
	for _, item := range feed.Items {
		videoURL := videoLink(item)
		if videoURL == "" || seen[videoURL] {
			continue
		}
		seen[videoURL] = true

		published := now
		if item.PublishedParsed != nil {
			published = item.PublishedParsed.UTC()
		} else if item.UpdatedParsed != nil {
			published = item.UpdatedParsed.UTC()
		}

		clips = append(clips, models.HighlightClip{
			VideoURL:      videoURL,
			Description:   describe(item),
			TeamShortName: team,
			PlayerIDs:     playerTags(item.Categories, players),
			PublishedAt:   published,
		})
	}
	return clips
}

func videoLink(item *gofeed.Item) string {
	for _, enc := range item.Enclosures {
		if enc != nil && strings.HasPrefix(enc.Type, "video/") && enc.URL != "" {
			return enc.URL
		}
	}
	for _, content := range item.Extensions["media"]["content"] {
		if strings.HasPrefix(content.Attrs["type"], "video/") && content.Attrs["url"] != "" {
			return content.Attrs["url"]
		}
	}
	return item.Link
}

func describe(item *gofeed.Item) string {
	title := strings.TrimSpace(item.Title)
	desc := strings.TrimSpace(item.Description)
	switch {
	case title == "":
		return desc
	case desc == "" || desc == title:
		return title
	default:
		return title + ". " + desc
	}
}

func playerTags(categories []string, players []catalog.Entity) []string {
	ids := make([]string, 0)
	if len(players) == 0 {
		return ids
	}
	seen := make(map[string]bool)
	for _, c := range categories {
		best, ok := fuzzy.Best(c, players, PlayerThreshold)
		if !ok || seen[best.ID] {
			continue
		}
		seen[best.ID] = true
		ids = append(ids, best.ID)
	}
	return ids
}
