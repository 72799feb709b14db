// Package hint derives genre hints for a song from Last.fm tags.
package hint

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/19guess/internal/domain/track"
	"github.com/osa030/19guess/internal/infra/lastfm"
)

// TagClient defines the Last.fm operations needed for hints.
type TagClient interface {
	GetTopTags(ctx context.Context, trackName, artistName string, limit int) ([]lastfm.Tag, error)
	GetArtistTopTags(ctx context.Context, artistName string, limit int) ([]lastfm.Tag, error)
}

// Provider returns up to count tags per song. Track tags are preferred; the
// main artist's tags fill in when the track has none.
type Provider struct {
	client TagClient
	count  int
}

// New creates a hint provider.
func New(client TagClient, count int) (*Provider, error) {
	if client == nil {
		return nil, errors.New("lastfm client is required")
	}
	if count < 1 {
		return nil, errors.Newf("hint tag count must be positive: %d", count)
	}
	return &Provider{client: client, count: count}, nil
}

// Hints returns genre hints for the track. An empty result is not an error.
func (p *Provider) Hints(ctx context.Context, t track.Track) ([]string, error) {
	artist := t.MainArtist()
	if artist == "" {
		return nil, nil
	}

	// Ask for extra tags; some are dropped below
	limit := p.count * 2

	tags, err := p.client.GetTopTags(ctx, t.Name, artist, limit)
	if err != nil {
		zlog.Debug().Msgf("track tags unavailable, trying artist: track=%s error=%v", t.ID, err)
	}
	hints := clean(tags, t.Artists, p.count)
	if len(hints) > 0 {
		return hints, nil
	}

	tags, err = p.client.GetArtistTopTags(ctx, artist, limit)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get tags for %s", artist)
	}
	return clean(tags, t.Artists, p.count), nil
}

// clean lowercases tags, drops duplicates and tags naming an artist (which
// would give the answer away), and keeps at most n.
func clean(tags []lastfm.Tag, artists []string, n int) []string {
	skip := make(map[string]bool, len(artists))
	for _, a := range artists {
		skip[strings.ToLower(strings.TrimSpace(a))] = true
	}

	out := make([]string, 0, n)
	for _, tag := range tags {
		name := strings.ToLower(strings.TrimSpace(tag.Name))
		if name == "" || skip[name] {
			continue
		}
		skip[name] = true
		out = append(out, name)
		if len(out) == n {
			break
		}
	}
	return out
}
