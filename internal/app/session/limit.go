package session

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrInvalidRoundLimit is returned when a round limit entry cannot be used.
// The error carries a hint suitable for showing to the player.
var ErrInvalidRoundLimit = errors.New("invalid round limit")

// RoundLimit caps the number of rounds in a game. The zero value is unbounded.
type RoundLimit struct {
	max int
}

// Unbounded returns a limit that lets the game run until every song is done.
func Unbounded() RoundLimit {
	return RoundLimit{}
}

// LimitOf returns a limit of n rounds. Non-positive n means unbounded.
func LimitOf(n int) RoundLimit {
	if n <= 0 {
		return Unbounded()
	}
	return RoundLimit{max: n}
}

// Bounded reports whether a cap is set.
func (l RoundLimit) Bounded() bool {
	return l.max > 0
}

// Max returns the cap, or 0 when unbounded.
func (l RoundLimit) Max() int {
	return l.max
}

// Allows reports whether round number next (1-based) may be played.
func (l RoundLimit) Allows(next int) bool {
	return !l.Bounded() || next <= l.max
}

// String returns the string representation of the limit.
func (l RoundLimit) String() string {
	if !l.Bounded() {
		return "all songs"
	}
	if l.max == 1 {
		return "1 round"
	}
	return fmt.Sprintf("%d rounds", l.max)
}

// ParseRoundLimit parses a round limit typed by a player.
// Empty input, "all" and "unlimited" select every song. Numbers larger than
// the available song count are clamped to it. Anything non-numeric or below 1
// is rejected with a hint.
func ParseRoundLimit(input string, available int) (RoundLimit, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	switch s {
	case "", "all", "unlimited":
		return Unbounded(), nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return RoundLimit{}, errors.WithHint(
			errors.Wrapf(ErrInvalidRoundLimit, "%q is not a number", input),
			`Enter a whole number of rounds, or "all" to play every song.`,
		)
	}
	if n < 1 {
		return RoundLimit{}, errors.WithHint(
			errors.Wrapf(ErrInvalidRoundLimit, "%d is not positive", n),
			"The number of rounds must be at least 1.",
		)
	}

	return clamp(LimitOf(n), available), nil
}

// clamp bounds the limit by the number of songs available.
func clamp(l RoundLimit, available int) RoundLimit {
	if available > 0 && l.Bounded() && l.max > available {
		return LimitOf(available)
	}
	return l
}

// LimitOption is one entry of the round limit picker.
type LimitOption struct {
	Label string
	Limit RoundLimit
}

// LimitOptions returns the preset picker entries for a playlist with the given
// number of songs: every preset below the song count, then "all songs".
func LimitOptions(presets []int, available int) []LimitOption {
	sorted := slices.Clone(presets)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	options := make([]LimitOption, 0, len(sorted)+1)
	for _, n := range sorted {
		if n < 1 || (available > 0 && n >= available) {
			continue
		}
		l := LimitOf(n)
		options = append(options, LimitOption{Label: l.String(), Limit: l})
	}
	options = append(options, LimitOption{
		Label: fmt.Sprintf("All songs (%d)", available),
		Limit: Unbounded(),
	})
	return options
}

// HintOf returns the player-facing hint attached to a round limit error.
func HintOf(err error) string {
	return strings.Join(errors.GetAllHints(err), " ")
}
