package spotify

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zmb3/spotify/v2"
)

func TestExtractPlaylistID(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Spotify URI format",
			input:    "spotify:playlist:37i9dQZF1DXcBWIGoYBM5M",
			expected: "37i9dQZF1DXcBWIGoYBM5M",
		},
		{
			name:     "Spotify URL format",
			input:    "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M",
			expected: "37i9dQZF1DXcBWIGoYBM5M",
		},
		{
			name:     "Spotify URL with query params",
			input:    "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M?si=abc123",
			expected: "37i9dQZF1DXcBWIGoYBM5M",
		},
		{
			name:     "Plain playlist ID",
			input:    "37i9dQZF1DXcBWIGoYBM5M",
			expected: "37i9dQZF1DXcBWIGoYBM5M",
		},
		{
			name:     "Empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "HTTP URL (not HTTPS)",
			input:    "http://open.spotify.com/playlist/testID",
			expected: "testID",
		},
		{
			name:     "URL with multiple query params",
			input:    "https://open.spotify.com/playlist/abc123?si=xyz&utm_source=copy",
			expected: "abc123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extractPlaylistID(tt.input)
			assert.Equal(t, tt.expected, result,
				"extractPlaylistID(%s) should return %s", tt.input, tt.expected)
		})
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
		{
			name:     "rate limit error with 429",
			err:      errors.New("Error 429: rate limit exceeded"),
			expected: true,
		},
		{
			name:     "rate limit text",
			err:      errors.New("rate limit exceeded"),
			expected: true,
		},
		{
			name:     "server error 500",
			err:      errors.New("Error 500: internal server error"),
			expected: true,
		},
		{
			name:     "server error 502",
			err:      errors.New("502 Bad Gateway"),
			expected: true,
		},
		{
			name:     "server error 503",
			err:      errors.New("503 Service Unavailable"),
			expected: true,
		},
		{
			name:     "server error 504",
			err:      errors.New("504 Gateway Timeout"),
			expected: true,
		},
		{
			name:     "client error 400",
			err:      errors.New("400 Bad Request"),
			expected: false,
		},
		{
			name:     "not found error",
			err:      errors.New("404 not found"),
			expected: false,
		},
		{
			name:     "generic error",
			err:      errors.New("something went wrong"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := isRetryable(tt.err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestConvertItem(t *testing.T) {
	playable := true
	full := &spotify.FullTrack{}
	full.ID = "track123"
	full.Name = "Bohemian Rhapsody"
	full.Artists = []spotify.SimpleArtist{{Name: "Queen"}}
	full.Duration = 354000
	full.PreviewURL = "https://p.scdn.co/mp3-preview/abc"
	full.IsPlayable = &playable
	full.Album.Name = "A Night at the Opera"
	full.Album.Images = []spotify.Image{{URL: "https://i.scdn.co/image/abc"}}

	tests := []struct {
		name      string
		item      spotify.PlaylistItem
		wantOK    bool
		wantAdder string
	}{
		{
			name: "track added by a user",
			item: spotify.PlaylistItem{
				AddedAt: "2024-05-01T20:15:00Z",
				AddedBy: spotify.User{ID: "alice_spotify"},
				Track:   spotify.PlaylistItemTrack{Track: full},
			},
			wantOK:    true,
			wantAdder: "alice_spotify",
		},
		{
			name: "local file",
			item: spotify.PlaylistItem{
				IsLocal: true,
				Track:   spotify.PlaylistItemTrack{Track: full},
			},
			wantOK: false,
		},
		{
			name:   "episode",
			item:   spotify.PlaylistItem{},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, ok := convertItem(tt.item, "JP")
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}

			assert.Equal(t, tt.wantAdder, item.AddedByID)
			assert.Equal(t, "track123", item.Track.ID)
			assert.Equal(t, []string{"Queen"}, item.Track.Artists)
			assert.Equal(t, "A Night at the Opera", item.Track.Album)
			assert.Equal(t, "https://i.scdn.co/image/abc", item.Track.AlbumArtURL)
			assert.Equal(t, "https://p.scdn.co/mp3-preview/abc", item.Track.PreviewURL)
			assert.Equal(t, "https://open.spotify.com/track/track123", item.Track.URL)
			assert.Equal(t, 354*time.Second, item.Track.Duration)
			assert.Equal(t, []string{"JP"}, item.Track.Markets)
			assert.Equal(t, time.Date(2024, 5, 1, 20, 15, 0, 0, time.UTC), item.Track.AddedAt)
			assert.Empty(t, item.Track.AddedBy)
		})
	}
}
