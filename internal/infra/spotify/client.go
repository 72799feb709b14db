// Package spotify provides a client for the Spotify API.
package spotify

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"

	"github.com/osa030/19guess/internal/domain/track"
)

// Scopes are the permissions the game needs: reading playlists only.
var Scopes = []string{
	spotifyauth.ScopePlaylistReadPrivate,
	spotifyauth.ScopePlaylistReadCollaborative,
}

// Client is a Spotify API client.
type Client struct {
	client     *spotify.Client
	market     string
	maxRetries int
	retryDelay time.Duration

	namesMu sync.Mutex
	names   map[string]string // user ID -> display name
}

// Config represents Spotify client configuration.
type Config struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	Market       string
}

// Item is a playlist track together with the Spotify user who added it.
type Item struct {
	Track     track.Track
	AddedByID string // Spotify user ID, empty for tracks without one
}

// Playlist is a Spotify playlist with its items in playlist order.
type Playlist struct {
	ID          string
	Name        string
	Description string
	URL         string
	Items       []Item
}

// New creates a new Spotify client.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RefreshToken == "" {
		return nil, errors.New("spotify credentials are required")
	}

	auth := spotifyauth.New(
		spotifyauth.WithClientID(cfg.ClientID),
		spotifyauth.WithClientSecret(cfg.ClientSecret),
		spotifyauth.WithScopes(Scopes...),
	)

	// Create token from refresh token
	token := &oauth2.Token{
		RefreshToken: cfg.RefreshToken,
	}

	// Get HTTP client with auto-refresh capability
	httpClient := auth.Client(ctx, token)

	market := cfg.Market
	if market == "" {
		market = "JP"
	}

	return &Client{
		client:     spotify.New(httpClient),
		market:     market,
		maxRetries: 3,
		retryDelay: time.Second,
		names:      make(map[string]string),
	}, nil
}

// Market returns the market used for track availability.
func (c *Client) Market() string {
	return c.market
}

// GetPlaylist retrieves a playlist with all of its tracks and who added them.
// Episodes and local files are skipped.
func (c *Client) GetPlaylist(ctx context.Context, playlistURL string) (*Playlist, error) {
	playlistID := extractPlaylistID(playlistURL)
	if playlistID == "" {
		return nil, errors.New("invalid playlist URL")
	}

	var full *spotify.FullPlaylist
	err := c.retry(func() error {
		p, err := c.client.GetPlaylist(ctx, spotify.ID(playlistID), spotify.Market(c.market))
		if err != nil {
			return err
		}
		full = p
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get playlist %s", playlistID)
	}

	pl := &Playlist{
		ID:          string(full.ID),
		Name:        full.Name,
		Description: full.Description,
		URL:         GetPlaylistURL(string(full.ID)),
	}

	offset := 0
	limit := 100

	for {
		var page *spotify.PlaylistItemPage
		err := c.retry(func() error {
			p, err := c.client.GetPlaylistItems(ctx, spotify.ID(playlistID),
				spotify.Limit(limit),
				spotify.Offset(offset),
				spotify.Market(c.market),
			)
			if err != nil {
				return err
			}
			page = p
			return nil
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to get playlist items")
		}

		for _, item := range page.Items {
			if it, ok := convertItem(item, c.market); ok {
				pl.Items = append(pl.Items, it)
			}
		}

		if len(page.Items) < limit {
			break
		}
		offset += limit
	}

	return pl, nil
}

// CheckPlaylistExists checks if a playlist exists without fetching all tracks.
// This is a lightweight check for validation purposes.
func (c *Client) CheckPlaylistExists(ctx context.Context, playlistURL string) error {
	playlistID := extractPlaylistID(playlistURL)
	if playlistID == "" {
		return errors.New("invalid playlist URL")
	}

	// Fetch only 1 item to check existence
	err := c.retry(func() error {
		_, err := c.client.GetPlaylistItems(ctx, spotify.ID(playlistID),
			spotify.Limit(1),
			spotify.Offset(0),
			spotify.Market(c.market),
		)
		return err
	})
	if err != nil {
		return errors.Wrap(err, "playlist does not exist or is not accessible")
	}

	return nil
}

// GetUserDisplayName returns the public display name of a Spotify user,
// falling back to the user ID when no name is set. Results are cached.
func (c *Client) GetUserDisplayName(ctx context.Context, userID string) (string, error) {
	c.namesMu.Lock()
	name, ok := c.names[userID]
	c.namesMu.Unlock()
	if ok {
		return name, nil
	}

	var user *spotify.User
	err := c.retry(func() error {
		u, err := c.client.GetUsersPublicProfile(ctx, spotify.ID(userID))
		if err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return "", errors.Wrapf(err, "failed to get user %s", userID)
	}

	name = user.DisplayName
	if name == "" {
		name = userID
	}

	c.namesMu.Lock()
	c.names[userID] = name
	c.namesMu.Unlock()

	return name, nil
}

// GetPlaylistURL returns the Spotify URL for a playlist.
func GetPlaylistURL(playlistID string) string {
	return fmt.Sprintf("https://open.spotify.com/playlist/%s", playlistID)
}

// GetTrackURL returns the Spotify URL for a track.
func GetTrackURL(trackID string) string {
	return fmt.Sprintf("https://open.spotify.com/track/%s", trackID)
}

// convertItem converts a playlist item to an Item. It returns false for
// entries that are not playable tracks.
func convertItem(item spotify.PlaylistItem, market string) (Item, bool) {
	if item.IsLocal || item.Track.Track == nil || item.Track.Track.ID == "" {
		return Item{}, false
	}

	t := convertTrack(item.Track.Track, market)
	if addedAt, err := time.Parse(time.RFC3339, item.AddedAt); err == nil {
		t.AddedAt = addedAt
	}

	return Item{Track: t, AddedByID: item.AddedBy.ID}, true
}

// convertTrack converts a Spotify FullTrack to domain Track.
func convertTrack(t *spotify.FullTrack, market string) track.Track {
	artists := make([]string, len(t.Artists))
	for i, a := range t.Artists {
		artists[i] = a.Name
	}

	var albumArt string
	if len(t.Album.Images) > 0 {
		albumArt = t.Album.Images[0].URL
	}

	markets := make([]string, len(t.AvailableMarkets))
	for i, m := range t.AvailableMarkets {
		markets[i] = string(m)
	}

	// Requests carry the market, so an empty list means available there
	if len(markets) == 0 && market != "" {
		markets = append(markets, market)
	}

	return track.Track{
		ID:          string(t.ID),
		Name:        t.Name,
		Artists:     artists,
		Album:       t.Album.Name,
		AlbumArtURL: albumArt,
		PreviewURL:  t.PreviewURL,
		URL:         GetTrackURL(string(t.ID)),
		Duration:    time.Duration(t.Duration) * time.Millisecond,
		Markets:     markets,
		IsPlayable:  t.IsPlayable,
	}
}

// retry retries an operation with exponential backoff.
func (c *Client) retry(fn func() error) error {
	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !isRetryable(err) {
			return err
		}

		if i < c.maxRetries-1 {
			time.Sleep(c.retryDelay * time.Duration(i+1))
		}
	}
	return errors.Wrap(lastErr, "max retries exceeded")
}

// isRetryable checks if an error is retryable.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	// Rate limit errors and server errors are retryable
	errStr := err.Error()
	return strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "500") ||
		strings.Contains(errStr, "502") ||
		strings.Contains(errStr, "503") ||
		strings.Contains(errStr, "504")
}

// extractPlaylistID extracts the playlist ID from a Spotify playlist URL or URI.
func extractPlaylistID(input string) string {
	input = strings.TrimSpace(input)
	// Handle Spotify URI format: spotify:playlist:PLAYLIST_ID
	if strings.HasPrefix(input, "spotify:playlist:") {
		return strings.TrimPrefix(input, "spotify:playlist:")
	}

	// Handle URL format: https://open.spotify.com/playlist/PLAYLIST_ID or https://open.spotify.com/intl-XX/playlist/PLAYLIST_ID
	if strings.Contains(input, "open.spotify.com") && strings.Contains(input, "/playlist/") {
		parts := strings.Split(input, "/playlist/")
		if len(parts) >= 2 {
			// Remove query parameters and trailing slashes
			id := strings.Split(parts[len(parts)-1], "?")[0]
			id = strings.TrimRight(id, "/")
			return id
		}
	}

	// Assume it's already a playlist ID
	return input
}
