// Package track provides the Track domain entity.
package track

import (
	"slices"
	"strings"
	"time"
)

// Track represents a song on the shared party playlist.
// Contains catalogue information plus the name of the friend who added it.
type Track struct {
	ID          string        // Spotify Track ID (unique within a playlist)
	Name        string        // Track title
	Artists     []string      // Artist names, in credit order
	Album       string        // Album name
	AlbumArtURL string        // Album art URL
	PreviewURL  string        // 30s preview clip URL (optional)
	URL         string        // Spotify URL
	Duration    time.Duration // Track duration
	Markets     []string      // Available markets
	IsPlayable  *bool         // Playable in the specified market (nil if market not specified)
	AddedBy     string        // Display name of the contributor
	AddedAt     time.Time     // Time the track was added to the playlist (zero if unknown)
}

// ArtistLine returns the artist names joined for display.
func (t *Track) ArtistLine() string {
	return strings.Join(t.Artists, ", ")
}

// MainArtist returns the first credited artist, or an empty string.
func (t *Track) MainArtist() string {
	if len(t.Artists) == 0 {
		return ""
	}
	return t.Artists[0]
}

// HasPreview reports whether a preview clip is available.
func (t *Track) HasPreview() bool {
	return t.PreviewURL != ""
}

// IsAvailableInMarket checks if the track is available in the specified market.
func (t *Track) IsAvailableInMarket(market string) bool {
	// IsPlayable wins when Spotify relinked the track
	if t.IsPlayable != nil {
		return *t.IsPlayable
	}

	for _, m := range t.Markets {
		if m == market {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the track.
func (t *Track) Clone() Track {
	c := *t
	c.Artists = slices.Clone(t.Artists)
	c.Markets = slices.Clone(t.Markets)
	if t.IsPlayable != nil {
		v := *t.IsPlayable
		c.IsPlayable = &v
	}
	return c
}
