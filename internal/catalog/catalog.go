// Package catalog reads the searchable player and team reference data.
package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/basetopia/basetopia-backend/internal/apperr"
	"github.com/basetopia/basetopia-backend/internal/models"
)

// Kind is the entity type reported in search results.
type Kind string

const (
	KindPlayer Kind = "player"
	KindTeam   Kind = "team"
)

var ErrUnavailable = apperr.Unavailable("catalog unavailable", nil)

// Entity is the uniform search shape of a player or team.
type Entity struct {
	ID       string
	Name     string
	AltNames []string
	Kind     Kind
	Metadata any
}

// PlayerMetadata is the card data shown next to a player match.
type PlayerMetadata struct {
	Position    string `json:"position"`
	Team        string `json:"team"`
	Number      string `json:"number"`
	ImageURL    string `json:"image_url"`
	Nationality string `json:"nationality"`
	Age         int    `json:"age"`
}

// TeamMetadata is the card data shown next to a team match.
type TeamMetadata struct {
	League  string `json:"league"`
	Country string `json:"country"`
	LogoURL string `json:"logo_url"`
	Stadium string `json:"stadium"`
	Founded int    `json:"founded"`
}

// Source is the subset of the store the reader needs.
type Source interface {
	ListTeams(ctx context.Context) ([]models.Team, error)
	ListPlayers(ctx context.Context) ([]models.Player, error)
}

type cacheEntry struct {
	entities  []Entity
	expiresAt time.Time
}

// Reader projects catalog rows into Entities, optionally caching them.
type Reader struct {
	source Source
	ttl    time.Duration
	now    func() time.Time

	mu    sync.RWMutex
	cache map[Kind]cacheEntry
}

// NewReader returns a Reader. A zero ttl disables caching.
func NewReader(source Source, ttl time.Duration) *Reader {
	return &Reader{
		source: source,
		ttl:    ttl,
		now:    time.Now,
		cache:  make(map[Kind]cacheEntry),
	}
}

// ListSearchable returns every entity of kind.
func (r *Reader) ListSearchable(ctx context.Context, kind Kind) ([]Entity, error) {
	if r.ttl > 0 {
		r.mu.RLock()
		entry, ok := r.cache[kind]
		r.mu.RUnlock()
		if ok && r.now().Before(entry.expiresAt) {
			return entry.entities, nil
		}
	}

	entities, err := r.load(ctx, kind)
	if err != nil {
		return nil, apperr.Unavailable(ErrUnavailable.Message, err)
	}

	if r.ttl > 0 {
		r.mu.Lock()
		r.cache[kind] = cacheEntry{entities: entities, expiresAt: r.now().Add(r.ttl)}
		r.mu.Unlock()
	}
	return entities, nil
}

// Invalidate drops cached entities so the next read hits the store.
func (r *Reader) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[Kind]cacheEntry)
}

func (r *Reader) load(ctx context.Context, kind Kind) ([]Entity, error) {
	switch kind {
	case KindPlayer:
		players, err := r.source.ListPlayers(ctx)
		if err != nil {
			return nil, err
		}
		entities := make([]Entity, 0, len(players))
		for _, p := range players {
			entities = append(entities, FromPlayer(p))
		}
		return entities, nil
	case KindTeam:
		teams, err := r.source.ListTeams(ctx)
		if err != nil {
			return nil, err
		}
		entities := make([]Entity, 0, len(teams))
		for _, t := range teams {
			entities = append(entities, FromTeam(t))
		}
		return entities, nil
	default:
		return nil, apperr.InvalidArgument("unknown entity kind: " + string(kind))
	}
}

func FromPlayer(p models.Player) Entity {
	return Entity{
		ID:   p.ID,
		Name: p.Name,
		Kind: KindPlayer,
		Metadata: PlayerMetadata{
			Position:    p.Position,
			Team:        p.TeamName,
			Number:      p.Number,
			ImageURL:    p.ImageURL,
			Nationality: p.Nationality,
			Age:         p.Age,
		},
	}
}

// FromTeam keeps the short name as an extra alternative so agent queries
// like "Angels" resolve.
func FromTeam(t models.Team) Entity {
	alts := make([]string, 0, len(t.AlternativeNames)+1)
	alts = append(alts, t.AlternativeNames...)
	if t.ShortName != "" {
		alts = append(alts, t.ShortName)
	}
	return Entity{
		ID:       t.ID,
		Name:     t.Name,
		AltNames: alts,
		Kind:     KindTeam,
		Metadata: TeamMetadata{
			League:  t.League,
			Country: t.Country,
			LogoURL: t.LogoURL,
			Stadium: t.Stadium,
			Founded: t.Founded,
		},
	}
}
