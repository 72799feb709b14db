// Package session runs guessing games: it loads and filters a playlist,
// builds a round engine for it and keeps live games in a registry.
package session

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/19guess/internal/app/filter"
	"github.com/osa030/19guess/internal/app/round"
	"github.com/osa030/19guess/internal/app/session/registry"
	"github.com/osa030/19guess/internal/app/source"
	"github.com/osa030/19guess/internal/domain/player"
	"github.com/osa030/19guess/internal/domain/track"
	"github.com/osa030/19guess/internal/infra/config"
)

const hintTimeout = 3 * time.Second

// PlaylistLoader loads the playlist of a named source. An empty name picks
// the first source that can provide one.
type PlaylistLoader interface {
	Load(ctx context.Context, name string) (source.Loaded, error)
	Names() []string
}

// HintProvider looks up listening hints for a track.
type HintProvider interface {
	Hints(ctx context.Context, t track.Track) ([]string, error)
}

// CreateRequest holds the parameters of a new game.
type CreateRequest struct {
	Source     string // Source display name, empty for the first available
	RoundLimit string // As typed by the player: a number, "all" or empty
	Seed       uint64 // Overrides the configured seed when non-zero
}

// Manager creates and tracks games.
type Manager struct {
	config   *config.Config
	loader   PlaylistLoader
	filters  *filter.Chain
	games    *registry.Registry[*Game]
	observer Observer
	hints    HintProvider
	now      func() time.Time
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithObserver sets the receiver of game lifecycle events.
func WithObserver(o Observer) ManagerOption {
	return func(m *Manager) { m.observer = o }
}

// WithHints enables round hints.
func WithHints(h HintProvider) ManagerOption {
	return func(m *Manager) { m.hints = h }
}

// WithClock sets the time source.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a new session manager.
func NewManager(cfg *config.Config, loader PlaylistLoader, filters *filter.Chain, opts ...ManagerOption) (*Manager, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if loader == nil {
		return nil, errors.New("playlist loader is required")
	}
	if filters == nil {
		filters = filter.NewChain()
	}

	m := &Manager{
		config:   cfg,
		loader:   loader,
		filters:  filters,
		games:    registry.New[*Game](),
		observer: nopObserver{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Sources returns the display names of the configured playlist sources.
func (m *Manager) Sources() []string {
	return m.loader.Names()
}

// prepared is a loaded playlist reduced to its playable songs.
type prepared struct {
	loaded   source.Loaded
	tracks   []track.Track
	roster   player.Roster
	rejected int
}

func (m *Manager) prepare(ctx context.Context, sourceName string) (*prepared, error) {
	loaded, err := m.loader.Load(ctx, sourceName)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load playlist")
	}

	roster := m.config.Roster()
	if len(roster) == 0 {
		roster = loaded.Playlist.Players
	}
	if err := roster.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid roster for playlist %q", loaded.Playlist.Name)
	}

	tracks, rejections := m.filters.Apply(ctx, loaded.Playlist.Tracks, roster)
	if len(tracks) == 0 {
		return nil, errors.Wrapf(ErrNoPlayableSongs, "playlist %q: %d tracks, all rejected", loaded.Playlist.Name, len(rejections))
	}

	return &prepared{loaded: loaded, tracks: tracks, roster: roster, rejected: len(rejections)}, nil
}

// LimitOptions returns the round limit picker entries for a source and the
// number of playable songs it has.
func (m *Manager) LimitOptions(ctx context.Context, sourceName string) ([]LimitOption, int, error) {
	p, err := m.prepare(ctx, sourceName)
	if err != nil {
		return nil, 0, err
	}
	return LimitOptions(m.config.Game.RoundLimitPresets, len(p.tracks)), len(p.tracks), nil
}

// CreateSession loads the playlist, builds the round engine and registers a
// new game.
func (m *Manager) CreateSession(ctx context.Context, req CreateRequest) (*Game, error) {
	p, err := m.prepare(ctx, req.Source)
	if err != nil {
		return nil, err
	}

	limit, err := ParseRoundLimit(req.RoundLimit, len(p.tracks))
	if err != nil {
		return nil, err
	}

	opts := []round.Option{
		round.WithRepeatProbability(m.config.RepeatProbability()),
		round.WithClock(m.now),
	}
	seed := req.Seed
	if seed == 0 {
		seed = m.config.Game.Seed
	}
	if seed != 0 {
		opts = append(opts, round.WithRand(round.NewSeededRand(seed)))
	}

	engine, err := round.NewEngine(p.tracks, p.roster.Names(), opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create round engine")
	}

	info := Info{
		PlaylistID:   p.loaded.Playlist.ID,
		PlaylistName: p.loaded.Playlist.Name,
		Source:       p.loaded.Source,
		Rejected:     p.rejected,
	}
	_, game := m.games.Add(func(id string) *Game {
		return newGame(id, info, engine, limit, m.observer, m.now)
	})
	m.observer.SessionCreated(len(p.tracks))

	zlog.Info().Msgf("game created: id=%s source=%s playlist=%q songs=%d rejected=%d players=%d limit=%s",
		game.ID(), info.Source, info.PlaylistName, len(p.tracks), p.rejected, len(p.roster), limit)
	return game, nil
}

// Game returns a live game without marking it active.
func (m *Manager) Game(id string) (*Game, error) {
	return m.games.Get(id)
}

// NextRound starts the next round of a game, or returns the pending one.
func (m *Manager) NextRound(ctx context.Context, id string) (Round, error) {
	g, err := m.games.Touch(id)
	if err != nil {
		return Round{}, err
	}

	r, err := g.NextRound()
	if err != nil {
		return Round{}, err
	}

	if m.hints != nil && !g.hasHints(r.TrackID) {
		r.Hints = m.lookupHints(ctx, g, r.TrackID)
	}
	return r, nil
}

// lookupHints fetches and stores hints for a track. Failures only cost the
// hints; the round goes ahead without them.
func (m *Manager) lookupHints(ctx context.Context, g *Game, trackID string) []string {
	song, ok := g.song(trackID)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, hintTimeout)
	defer cancel()

	hints, err := m.hints.Hints(ctx, song.Track)
	if err != nil {
		zlog.Warn().Msgf("failed to get hints: game=%s track=%s error=%v", g.ID(), trackID, err)
		return nil
	}
	g.attachHints(trackID, hints)
	return hints
}

// Guess submits a guess for the pending round of a game.
func (m *Manager) Guess(ctx context.Context, id, name string) (Outcome, error) {
	g, err := m.games.Touch(id)
	if err != nil {
		return Outcome{}, err
	}
	return g.Guess(name)
}

// Status returns the state of a game.
func (m *Manager) Status(id string) (Status, error) {
	g, err := m.games.Get(id)
	if err != nil {
		return Status{}, err
	}
	return g.Status(), nil
}

// Summary returns the review of a game.
func (m *Manager) Summary(id string) (Summary, error) {
	g, err := m.games.Get(id)
	if err != nil {
		return Summary{}, err
	}
	return g.Summary(), nil
}

// End abandons a running game and returns its summary. Ending a finished
// game just returns the summary. The game stays readable until it is reaped
// or removed.
func (m *Manager) End(id string) (Summary, error) {
	g, err := m.games.Touch(id)
	if err != nil {
		return Summary{}, err
	}
	if g.Abandon() {
		zlog.Info().Msgf("game ended early: id=%s", id)
	}
	return g.Summary(), nil
}

// Remove ends a game if needed and drops it from the registry.
func (m *Manager) Remove(id string) error {
	g, err := m.games.Remove(id)
	if err != nil {
		return err
	}
	g.Abandon()
	return nil
}

// List returns the status of every live game, oldest first.
func (m *Manager) List() []Status {
	items := m.games.All()
	out := make([]Status, len(items))
	for i, item := range items {
		out[i] = item.Value.Status()
	}
	return out
}

// Count returns the number of live games.
func (m *Manager) Count() int {
	return m.games.Count()
}

// Run drops games idle for longer than the configured idle timeout until
// ctx is cancelled. A zero timeout keeps games forever.
func (m *Manager) Run(ctx context.Context) {
	m.games.RunReaper(ctx, m.config.Game.IdleTimeout, func(item registry.Item[*Game]) {
		item.Value.Abandon()
	})
}

// Shutdown abandons every running game.
func (m *Manager) Shutdown() {
	for _, item := range m.games.All() {
		item.Value.Abandon()
	}
}
