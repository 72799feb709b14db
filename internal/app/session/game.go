package session

import (
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/19guess/internal/app/round"
	"github.com/osa030/19guess/internal/app/session/state"
)

var (
	ErrSessionFinished = errors.New("session is finished")
	ErrNoPlayableSongs = errors.New("no playable songs")
)

// Info describes where a game's songs came from.
type Info struct {
	PlaylistID   string // Source playlist identifier
	PlaylistName string // Source playlist name
	Source       string // Display name of the source provider
	Rejected     int    // Tracks dropped by import filters
}

// Round is a round view plus optional listening hints.
type Round struct {
	round.RoundView
	Hints []string // Genre tags for the song (may be empty)
}

// Outcome is a resolved guess together with the game state it led to.
type Outcome struct {
	round.GuessResult
	Score       int             // Cumulative score after the guess
	SessionOver bool            // No further round will be played
	EndReason   state.EndReason // Why the game ended (when SessionOver)
}

// Status is a point-in-time view of a game.
type Status struct {
	ID         string
	Info       Info
	Phase      state.Phase
	EndReason  state.EndReason
	Limit      RoundLimit
	Players    []string // Guess options, in roster order
	Progress   round.Snapshot
	Current    *Round // Pending round, nil when none
	CreatedAt  time.Time
	EndedAt    time.Time // Zero while running
	LastResult *Outcome  // Most recent resolved guess, nil before the first
}

// Summary is the end-of-game review.
type Summary struct {
	ID         string
	Info       Info
	FinalScore int
	Rounds     int
	TotalSongs int
	Limit      RoundLimit
	EndReason  state.EndReason
	History    []round.HistoryEntry
	Correct    []round.HistoryEntry // Rounds guessed right
	Missed     []round.HistoryEntry // Rounds guessed wrong, with the real contributor
}

// Game is one play-through: a round engine, its round limit and lifecycle.
// All methods are safe for concurrent use; calls are serialised per game.
type Game struct {
	mu sync.Mutex

	id     string
	info   Info
	engine *round.Engine
	limit  RoundLimit

	phase      state.Phase
	endReason  state.EndReason
	createdAt  time.Time
	endedAt    time.Time
	lastResult *Outcome

	hints    map[string][]string
	observer Observer
	now      func() time.Time
}

func newGame(id string, info Info, engine *round.Engine, limit RoundLimit, observer Observer, now func() time.Time) *Game {
	if observer == nil {
		observer = nopObserver{}
	}
	if now == nil {
		now = time.Now
	}
	return &Game{
		id:        id,
		info:      info,
		engine:    engine,
		limit:     limit,
		phase:     state.PhaseReady,
		createdAt: now(),
		hints:     make(map[string][]string),
		observer:  observer,
		now:       now,
	}
}

// ID returns the game ID.
func (g *Game) ID() string {
	return g.id
}

// NextRound starts the next round, or returns the pending one again.
// It returns ErrSessionFinished once the game is over.
func (g *Game) NextRound() (Round, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase == state.PhaseFinished {
		return Round{}, ErrSessionFinished
	}
	if view, ok := g.engine.Current(); ok {
		return g.withHints(view), nil
	}

	if over, reason := IsSessionOver(g.engine.Snapshot(), g.limit); over {
		g.finish(reason)
		return Round{}, ErrSessionFinished
	}

	view, ok := g.engine.SelectNextSong()
	if !ok {
		g.finish(state.EndReasonExhausted)
		return Round{}, ErrSessionFinished
	}
	g.phase = state.PhaseGuessing
	g.observer.RoundStarted(view.IsRepeat)
	zlog.Debug().Msgf("round started: game=%s round=%d track=%s repeat=%v", g.id, view.Round, view.TrackID, view.IsRepeat)

	return g.withHints(view), nil
}

// Guess resolves the pending round. Without a pending round the outcome is
// unresolved and nothing changes. When the guess ends the game, the outcome
// says so and the end reason is recorded immediately.
func (g *Game) Guess(name string) (Outcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase == state.PhaseFinished {
		return Outcome{}, ErrSessionFinished
	}

	res := g.engine.SubmitGuess(name)
	snap := g.engine.Snapshot()
	out := Outcome{GuessResult: res, Score: snap.Score}
	if !res.Resolved {
		return out, nil
	}

	g.phase = state.PhaseRevealed
	g.observer.GuessResolved(res.Correct, res.WasRepeat, res.Points)
	zlog.Debug().Msgf("guess resolved: game=%s track=%s correct=%v points=%d score=%d",
		g.id, res.TrackID, res.Correct, res.Points, snap.Score)

	if over, reason := IsSessionOver(snap, g.limit); over {
		g.finish(reason)
		out.SessionOver = true
		out.EndReason = reason
	}
	g.lastResult = &out

	return out, nil
}

// Abandon ends the game early. It returns false if it was already over.
func (g *Game) Abandon() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase == state.PhaseFinished {
		return false
	}
	g.finish(state.EndReasonAbandoned)
	return true
}

// Finished reports whether the game is over.
func (g *Game) Finished() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase == state.PhaseFinished
}

// Status returns the current state of the game.
func (g *Game) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()

	st := Status{
		ID:        g.id,
		Info:      g.info,
		Phase:     g.phase,
		EndReason: g.endReason,
		Limit:     g.limit,
		Players:   g.engine.Roster(),
		Progress:  g.engine.Snapshot(),
		CreatedAt: g.createdAt,
		EndedAt:   g.endedAt,
	}
	if view, ok := g.engine.Current(); ok && g.phase != state.PhaseFinished {
		r := g.withHints(view)
		st.Current = &r
	}
	if g.lastResult != nil {
		last := *g.lastResult
		st.LastResult = &last
	}
	return st
}

// Summary returns the review of all completed rounds.
// It can be requested at any time; the end reason is None while running.
func (g *Game) Summary() Summary {
	g.mu.Lock()
	defer g.mu.Unlock()

	history := g.engine.History()
	snap := g.engine.Snapshot()
	sum := Summary{
		ID:         g.id,
		Info:       g.info,
		FinalScore: snap.Score,
		Rounds:     len(history),
		TotalSongs: snap.TotalSongs,
		Limit:      g.limit,
		EndReason:  g.endReason,
		History:    history,
		Correct:    make([]round.HistoryEntry, 0),
		Missed:     make([]round.HistoryEntry, 0),
	}
	for _, h := range history {
		if h.Correct() {
			sum.Correct = append(sum.Correct, h)
		} else {
			sum.Missed = append(sum.Missed, h)
		}
	}
	return sum
}

// song returns the engine's record of a track.
func (g *Game) song(trackID string) (round.Song, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.engine.Song(trackID)
}

// hasHints reports whether hints were already looked up for a track.
func (g *Game) hasHints(trackID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.hints[trackID]
	return ok
}

// attachHints stores hints for a track so later views include them.
func (g *Game) attachHints(trackID string, hints []string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.hints[trackID] = append([]string(nil), hints...)
}

func (g *Game) withHints(view round.RoundView) Round {
	return Round{RoundView: view, Hints: append([]string(nil), g.hints[view.TrackID]...)}
}

// finish must be called with g.mu held.
func (g *Game) finish(reason state.EndReason) {
	g.phase = state.PhaseFinished
	g.endReason = reason
	g.endedAt = g.now()

	snap := g.engine.Snapshot()
	g.observer.SessionEnded(reason.String(), snap.Score)
	zlog.Info().Msgf("game finished: id=%s reason=%s score=%d rounds=%d", g.id, reason, snap.Score, snap.CompletedRounds)
}
