// Package player provides the Player domain entity and the game roster.
package player

import (
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	ErrEmptyRoster   = errors.New("roster has no players")
	ErrEmptyName     = errors.New("player name is empty")
	ErrDuplicateName = errors.New("duplicate player name")
)

// Player represents a friend who contributed songs to the playlist.
type Player struct {
	Name          string // Display name, also the guess option label
	SpotifyUserID string // Spotify user ID used to resolve "added by" (optional)
}

// Roster is the fixed, ordered list of players for a game.
// The order is preserved everywhere guess options are shown.
type Roster []Player

// NewRoster creates a roster from plain names.
func NewRoster(names ...string) Roster {
	r := make(Roster, len(names))
	for i, n := range names {
		r[i] = Player{Name: n}
	}
	return r
}

// Names returns the player names in roster order.
func (r Roster) Names() []string {
	names := make([]string, len(r))
	for i, p := range r {
		names[i] = p.Name
	}
	return names
}

// Contains reports whether a player with exactly this name is on the roster.
func (r Roster) Contains(name string) bool {
	_, ok := r.ByName(name)
	return ok
}

// ByName looks up a player by exact name.
func (r Roster) ByName(name string) (Player, bool) {
	for _, p := range r {
		if p.Name == name {
			return p, true
		}
	}
	return Player{}, false
}

// BySpotifyID looks up a player by Spotify user ID.
func (r Roster) BySpotifyID(id string) (Player, bool) {
	if id == "" {
		return Player{}, false
	}
	for _, p := range r {
		if p.SpotifyUserID == id {
			return p, true
		}
	}
	return Player{}, false
}

// Validate checks that the roster is non-empty and names are unique.
func (r Roster) Validate() error {
	if len(r) == 0 {
		return ErrEmptyRoster
	}
	seen := make(map[string]bool, len(r))
	for i, p := range r {
		if strings.TrimSpace(p.Name) == "" {
			return errors.Wrapf(ErrEmptyName, "player #%d", i+1)
		}
		if seen[p.Name] {
			return errors.Wrapf(ErrDuplicateName, "%q", p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}

// Clone returns a copy of the roster.
func (r Roster) Clone() Roster {
	if r == nil {
		return nil
	}
	c := make(Roster, len(r))
	copy(c, r)
	return c
}
