package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/basetopia/basetopia-backend/internal/models"
)

// catalogFile is the YAML layout accepted by import-catalog.
type catalogFile struct {
	Teams   []models.Team   `yaml:"teams"`
	Players []models.Player `yaml:"players"`
}

var importCatalogCmd = &cobra.Command{
	Use:   "import-catalog <file.yaml>",
	Short: "Upsert teams and players from a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog(args[0])
		if err != nil {
			return err
		}
		st := newStore()
		if err := st.UpsertTeams(cmd.Context(), cat.Teams); err != nil {
			return err
		}
		if err := st.UpsertPlayers(cmd.Context(), cat.Players); err != nil {
			return err
		}
		slog.Info("catalog imported", "teams", len(cat.Teams), "players", len(cat.Players))
		return nil
	},
}

func loadCatalog(path string) (*catalogFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var cat catalogFile
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	for i, t := range cat.Teams {
		if t.ID == "" || t.Name == "" {
			return nil, fmt.Errorf("team #%d: id and name are required", i+1)
		}
	}
	for i, p := range cat.Players {
		if p.ID == "" || p.Name == "" {
			return nil, fmt.Errorf("player #%d: id and name are required", i+1)
		}
	}
	return &cat, nil
}
