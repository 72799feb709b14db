// Package playlist provides the Playlist domain entity.
package playlist

import (
	"time"

	"github.com/osa030/19guess/internal/domain/player"
	"github.com/osa030/19guess/internal/domain/track"
)

// Playlist represents a shared party playlist together with its players.
type Playlist struct {
	ID          string        // Spotify Playlist ID (or library/file identifier)
	Name        string        // Playlist name
	Description string        // Playlist description
	URL         string        // Spotify URL
	Players     player.Roster // Friends who contributed, in display order
	Tracks      []track.Track // Tracks in the playlist
}

// Contribution is the number of tracks a player added.
type Contribution struct {
	Player string
	Count  int
}

// TrackIDs returns all track IDs in the playlist.
func (p *Playlist) TrackIDs() []string {
	ids := make([]string, len(p.Tracks))
	for i, t := range p.Tracks {
		ids[i] = t.ID
	}
	return ids
}

// TotalDuration returns the total duration of all tracks.
func (p *Playlist) TotalDuration() time.Duration {
	var total time.Duration
	for _, t := range p.Tracks {
		total += t.Duration
	}
	return total
}

// Contributions returns the per-player track count in roster order.
// Tracks added by someone outside the roster are not counted.
func (p *Playlist) Contributions() []Contribution {
	counts := make(map[string]int, len(p.Players))
	for _, t := range p.Tracks {
		counts[t.AddedBy]++
	}
	result := make([]Contribution, len(p.Players))
	for i, pl := range p.Players {
		result[i] = Contribution{Player: pl.Name, Count: counts[pl.Name]}
	}
	return result
}

// WithTracks returns a shallow copy of the playlist holding the given tracks.
func (p *Playlist) WithTracks(tracks []track.Track) *Playlist {
	c := *p
	c.Players = p.Players.Clone()
	c.Tracks = tracks
	return &c
}
