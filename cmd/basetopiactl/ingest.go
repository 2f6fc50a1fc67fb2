package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/basetopia/basetopia-backend/internal/catalog"
	"github.com/basetopia/basetopia-backend/internal/ingest"
)

var (
	ingestTeam  string
	ingestFeeds string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [feed-url...]",
	Short: "Store highlight clips from RSS or Atom video feeds",
	Long: `Fetch each feed and upsert its video items as highlight clips.

Feeds come from the arguments (all tagged with --team) and from a YAML file
given with --feeds, a list of {url, team} entries.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sources, err := feedSources(args, ingestTeam, ingestFeeds)
		if err != nil {
			return err
		}
		if len(sources) == 0 {
			return fmt.Errorf("no feeds given")
		}

		st := newStore()
		f := ingest.NewFetcher(st, catalog.NewReader(st, cfg.CatalogCacheTTL))
		results, err := f.FetchAll(cmd.Context(), sources)
		if err != nil {
			return err
		}

		var total int64
		for _, n := range results {
			total += n
		}
		slog.Info("ingest completed", "feeds", len(sources), "succeeded", len(results), "clips", total)
		return nil
	},
}

func init() {
	ingestCmd.Flags().StringVar(&ingestTeam, "team", "", "team short name for feeds given as arguments")
	ingestCmd.Flags().StringVar(&ingestFeeds, "feeds", "", "YAML file listing feeds")
}

func feedSources(urls []string, team, file string) ([]ingest.Source, error) {
	sources := make([]ingest.Source, 0, len(urls))
	for _, u := range urls {
		sources = append(sources, ingest.Source{URL: u, Team: team})
	}
	if file == "" {
		return sources, nil
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read feeds: %w", err)
	}
	var listed []ingest.Source
	if err := yaml.Unmarshal(data, &listed); err != nil {
		return nil, fmt.Errorf("parse feeds %s: %w", file, err)
	}
	for i, s := range listed {
		if s.URL == "" {
			return nil, fmt.Errorf("feed #%d: url is required", i+1)
		}
	}
	return append(sources, listed...), nil
}
