package round

import (
	"time"

	"github.com/cockroachdb/errors"

	"github.com/osa030/19guess/internal/domain/track"
)

// ErrInvalidRepeatProbability is returned for a probability outside [0, 1].
var ErrInvalidRepeatProbability = errors.New("repeat probability must be between 0 and 1")

// Engine drives one game over an exclusively owned State.
// It is not safe for concurrent use; callers serialise access.
type Engine struct {
	state             *State
	rng               Rand
	now               func() time.Time
	repeatProbability float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithRepeatProbability sets the chance of drawing from the repeat bucket.
func WithRepeatProbability(p float64) Option {
	return func(e *Engine) { e.repeatProbability = p }
}

// WithRand sets the random source (tests pass a seeded or scripted one).
func WithRand(r Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithClock sets the time source used for FirstSeenAt.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an engine for the given tracks and ordered roster.
func NewEngine(tracks []track.Track, roster []string, opts ...Option) (*Engine, error) {
	st, err := NewState(tracks, roster)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		state:             st,
		now:               time.Now,
		repeatProbability: DefaultRepeatProbability,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.repeatProbability < 0 || e.repeatProbability > 1 {
		return nil, errors.Wrapf(ErrInvalidRepeatProbability, "got %v", e.repeatProbability)
	}
	if e.rng == nil {
		e.rng = NewRand()
	}

	return e, nil
}

// SelectNextSong starts the next round. It returns false on exhaustion.
func (e *Engine) SelectNextSong() (RoundView, bool) {
	return Select(e.state, e.rng, e.repeatProbability, e.now())
}

// SubmitGuess resolves the current round.
func (e *Engine) SubmitGuess(name string) GuessResult {
	return Submit(e.state, name)
}

// Snapshot returns the current progress.
func (e *Engine) Snapshot() Snapshot {
	return e.state.Snapshot()
}

// History returns the completed rounds.
func (e *Engine) History() []HistoryEntry {
	return e.state.History()
}

// Current returns the pending round, if any.
func (e *Engine) Current() (RoundView, bool) {
	return e.state.Current()
}

// Roster returns the guess options.
func (e *Engine) Roster() []string {
	return e.state.Roster()
}

// Song returns a copy of the engine's record for a track.
func (e *Engine) Song(id string) (Song, bool) {
	return e.state.Song(id)
}

// RepeatProbability returns the configured repeat-draw probability.
func (e *Engine) RepeatProbability() float64 {
	return e.repeatProbability
}
