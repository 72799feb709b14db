package source

import (
	"context"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/19guess/internal/domain/player"
	"github.com/osa030/19guess/internal/domain/playlist"
	"github.com/osa030/19guess/internal/domain/track"
	"github.com/osa030/19guess/internal/infra/spotify"
)

// SpotifyClient defines the Spotify operations needed by the spotify provider.
type SpotifyClient interface {
	GetPlaylist(ctx context.Context, playlistURL string) (*spotify.Playlist, error)
	GetUserDisplayName(ctx context.Context, userID string) (string, error)
}

type SpotifyProviderConfig struct {
	PlaylistURL string `yaml:"playlist_url" mapstructure:"playlist_url" validate:"required"`
}

// SpotifyProvider reads a collaborative Spotify playlist. The contributor of
// each track is the player whose spotify_user_id added it, or the adder's
// public display name when no player matches.
type SpotifyProvider struct {
	spotify SpotifyClient
	roster  player.Roster
	config  *SpotifyProviderConfig
}

// NewSpotifyProvider creates a new SpotifyProvider.
func NewSpotifyProvider(spotify SpotifyClient, roster player.Roster, settings map[string]any) (*SpotifyProvider, error) {
	if spotify == nil {
		return nil, errors.New("spotify client is required")
	}

	var config SpotifyProviderConfig
	if err := decodeSettings(settings, &config); err != nil {
		return nil, err
	}
	zlog.Debug().Msgf("spotify provider config: %+v", config)

	return &SpotifyProvider{
		spotify: spotify,
		roster:  roster.Clone(),
		config:  &config,
	}, nil
}

// Load fetches the playlist and resolves who added each track.
func (p *SpotifyProvider) Load(ctx context.Context) (*playlist.Playlist, error) {
	sp, err := p.spotify.GetPlaylist(ctx, p.config.PlaylistURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get spotify playlist")
	}

	pl := &playlist.Playlist{
		ID:          sp.ID,
		Name:        sp.Name,
		Description: sp.Description,
		URL:         sp.URL,
		Players:     p.roster.Clone(),
		Tracks:      make([]track.Track, 0, len(sp.Items)),
	}

	// Without a configured roster, players are whoever added tracks
	derive := len(pl.Players) == 0

	for _, item := range sp.Items {
		t := item.Track
		t.AddedBy = p.contributor(ctx, item.AddedByID)

		if derive && t.AddedBy != "" && !pl.Players.Contains(t.AddedBy) {
			pl.Players = append(pl.Players, player.Player{Name: t.AddedBy, SpotifyUserID: item.AddedByID})
		}
		pl.Tracks = append(pl.Tracks, t)
	}

	zlog.Info().Msgf("spotify playlist loaded: id=%s name=%q tracks=%d players=%d", pl.ID, pl.Name, len(pl.Tracks), len(pl.Players))
	return pl, nil
}

// contributor maps a Spotify user ID to a player name. An empty result
// leaves the track to the import filters.
func (p *SpotifyProvider) contributor(ctx context.Context, userID string) string {
	if userID == "" {
		return ""
	}
	if pl, ok := p.roster.BySpotifyID(userID); ok {
		return pl.Name
	}

	name, err := p.spotify.GetUserDisplayName(ctx, userID)
	if err != nil {
		zlog.Warn().Msgf("failed to resolve playlist contributor: user_id=%s error=%v", userID, err)
		return ""
	}
	return name
}

// Name returns the provider name.
func (p *SpotifyProvider) Name() string {
	return "spotify"
}
