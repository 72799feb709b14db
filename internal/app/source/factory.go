package source

import (
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/19guess/internal/domain/player"
	"github.com/osa030/19guess/internal/infra/config"
)

// Deps are the clients providers may need. Unused ones can be nil.
type Deps struct {
	Spotify SpotifyClient
	Library LibraryStore
	Roster  player.Roster
}

// NewChainFromConfig creates a provider chain from configuration.
func NewChainFromConfig(sources []config.SourceConfig, deps Deps) (*Chain, error) {
	if len(sources) == 0 {
		return nil, errors.New("no playlist sources configured")
	}

	var providers []ProviderWithMetadata

	for i, scfg := range sources {
		var provider Provider
		var err error
		zlog.Debug().Msgf("creating playlist provider: index=%d type=%s settings=%+v", i+1, scfg.Type, scfg.Settings)
		switch scfg.Type {
		case config.SourceFile:
			provider, err = NewFileProvider(scfg.Settings)

		case config.SourceSpotify:
			if deps.Spotify == nil {
				err = errors.New("spotify client is not configured")
				break
			}
			provider, err = NewSpotifyProvider(deps.Spotify, deps.Roster, scfg.Settings)

		case config.SourceLibrary:
			if deps.Library == nil {
				err = errors.New("library is not configured")
				break
			}
			provider, err = NewLibraryProvider(deps.Library, scfg.Settings)

		default:
			return nil, errors.Newf("unsupported provider type: %s (provider index %d)", scfg.Type, i)
		}

		if err != nil {
			return nil, errors.Wrapf(err, "failed to create provider (index %d, type %s)", i, scfg.Type)
		}

		providers = append(providers, ProviderWithMetadata{
			Provider:    provider,
			DisplayName: scfg.DisplayName,
		})

		zlog.Info().Msgf("registered playlist provider: index=%d type=%s display_name=%s", i+1, scfg.Type, scfg.DisplayName)
	}

	return NewChain(providers), nil
}
