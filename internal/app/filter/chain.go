package filter

import (
	"context"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/19guess/internal/domain/player"
	"github.com/osa030/19guess/internal/domain/track"
)

// Rejection records a track that was kept out of the game.
type Rejection struct {
	Track  track.Track
	Filter string
	Code   string
}

// Chain executes filters in sequence.
type Chain struct {
	filters []Filter
}

// NewChain creates a new filter chain.
func NewChain() *Chain {
	return &Chain{
		filters: make([]Filter, 0),
	}
}

// Add adds a filter to the chain.
func (c *Chain) Add(f Filter) {
	c.filters = append(c.filters, f)
}

// Execute runs all filters in sequence.
// Returns immediately if any filter rejects the track.
func (c *Chain) Execute(ctx context.Context, t track.Track, pool Pool) (Result, string) {
	for _, f := range c.filters {
		result := f.Check(ctx, t, pool)
		if !result.Accepted {
			return result, f.Name()
		}
	}
	return Accept(), ""
}

// Apply runs the chain over a playlist in order. Each track is checked
// against the tracks accepted before it.
func (c *Chain) Apply(ctx context.Context, tracks []track.Track, roster player.Roster) ([]track.Track, []Rejection) {
	pool := Pool{Roster: roster, Accepted: make([]track.Track, 0, len(tracks))}
	var rejected []Rejection

	for _, t := range tracks {
		result, by := c.Execute(ctx, t, pool)
		if !result.Accepted {
			zlog.Debug().Msgf("track rejected: id=%s name=%q filter=%s code=%s", t.ID, t.Name, by, result.Code)
			rejected = append(rejected, Rejection{Track: t, Filter: by, Code: result.Code})
			continue
		}
		pool.Accepted = append(pool.Accepted, t)
	}

	if len(rejected) > 0 {
		zlog.Info().Msgf("import filters rejected tracks: kept=%d rejected=%d", len(pool.Accepted), len(rejected))
	}
	return pool.Accepted, rejected
}

// Filters returns all filters in the chain.
func (c *Chain) Filters() []Filter {
	return c.filters
}

// Config is the configuration of a single filter.
type Config struct {
	Enabled  bool
	Settings map[string]any
}

// optionalFilters lists the filters that run only when enabled, in the order
// they are added to the chain.
var optionalFilters = []string{
	"preview_required_filter",
	"duration_limit_filter",
	"contribution_limit_filter",
}

// NewChainFromConfig builds the import chain. The contributor, market and
// duplicate filters always run since a game cannot hold the same track
// twice; the others run when enabled in configs.
func NewChainFromConfig(configs map[string]Config, market string) (*Chain, error) {
	chain := NewChain()
	chain.Add(&UnknownContributorFilter{})
	marketFilter := NewMarketFilter(market)
	if cfg, ok := configs["market_filter"]; ok {
		if err := marketFilter.ValidateConfig(cfg.Settings); err != nil {
			return nil, errors.Wrap(err, "filter market_filter")
		}
	}
	chain.Add(marketFilter)
	chain.Add(NewDuplicateTrackFilter())

	for name := range configs {
		if _, ok := registry[name]; !ok {
			return nil, errors.Newf("unknown filter: %s", name)
		}
	}

	for _, name := range optionalFilters {
		cfg, ok := configs[name]
		if !ok || !cfg.Enabled {
			continue
		}
		f := registry[name]()
		if err := f.ValidateConfig(cfg.Settings); err != nil {
			return nil, errors.Wrapf(err, "filter %s", name)
		}
		chain.Add(f)
	}

	names := make([]string, 0, len(chain.filters))
	for _, f := range chain.filters {
		names = append(names, f.Name())
	}
	zlog.Info().Msgf("import filters: %v", names)
	return chain, nil
}
