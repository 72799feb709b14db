package source

import (
	"context"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/19guess/internal/domain/playlist"
)

var (
	ErrUnknownSource = errors.New("unknown source")
	ErrUnavailable   = errors.New("no source could provide a playlist")
)

// ProviderWithMetadata wraps a provider with its metadata.
type ProviderWithMetadata struct {
	Provider    Provider
	DisplayName string
}

// Loaded is a playlist together with the source it came from.
type Loaded struct {
	Playlist *playlist.Playlist
	Source   string // Display name of the provider
}

// Chain tries multiple providers in order until one returns a playlist.
type Chain struct {
	providers []ProviderWithMetadata
}

// NewChain creates a new provider chain.
func NewChain(providers []ProviderWithMetadata) *Chain {
	return &Chain{
		providers: providers,
	}
}

// Names returns the display names of all providers, in order.
func (c *Chain) Names() []string {
	names := make([]string, len(c.providers))
	for i, pm := range c.providers {
		names[i] = pm.DisplayName
	}
	return names
}

// Load returns the playlist of the named source. With an empty name the
// providers are tried in order and the first non-empty playlist wins.
func (c *Chain) Load(ctx context.Context, name string) (Loaded, error) {
	if name != "" {
		for _, pm := range c.providers {
			if pm.DisplayName != name {
				continue
			}
			pl, err := pm.Provider.Load(ctx)
			if err != nil {
				return Loaded{}, errors.Mark(errors.Wrapf(err, "source %s", name), ErrUnavailable)
			}
			return Loaded{Playlist: pl, Source: pm.DisplayName}, nil
		}
		return Loaded{}, errors.Wrapf(ErrUnknownSource, "%q", name)
	}

	for i, pm := range c.providers {
		zlog.Debug().Msgf("trying provider: index=%d total=%d name=%s provider_type=%s",
			i+1, len(c.providers), pm.DisplayName, pm.Provider.Name())

		pl, err := pm.Provider.Load(ctx)
		if err != nil {
			zlog.Warn().Msgf("provider failed, trying next: provider=%s error=%v", pm.DisplayName, err)
			continue
		}
		if len(pl.Tracks) == 0 {
			zlog.Debug().Msgf("provider returned no tracks: provider=%s", pm.DisplayName)
			continue
		}

		zlog.Info().Msgf("provider returned playlist: provider=%s playlist=%q tracks=%d",
			pm.DisplayName, pl.Name, len(pl.Tracks))
		return Loaded{Playlist: pl, Source: pm.DisplayName}, nil
	}

	return Loaded{}, ErrUnavailable
}
