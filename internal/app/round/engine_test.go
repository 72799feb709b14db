package round

import (
	"fmt"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/19guess/internal/domain/track"
)

// scriptedRand replays fixed draws so tests control bucket and member choice.
type scriptedRand struct {
	t      *testing.T
	floats []float64
	ints   []int
}

func (r *scriptedRand) Float64() float64 {
	require.NotEmpty(r.t, r.floats, "unexpected Float64 draw")
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func (r *scriptedRand) IntN(n int) int {
	require.NotEmpty(r.t, r.ints, "unexpected IntN draw")
	v := r.ints[0]
	r.ints = r.ints[1:]
	require.Less(r.t, v, n, "scripted index out of range")
	return v
}

func makeTracks(addedBy ...string) []track.Track {
	tracks := make([]track.Track, len(addedBy))
	for i, name := range addedBy {
		tracks[i] = track.Track{
			ID:      fmt.Sprintf("song%d", i+1),
			Name:    fmt.Sprintf("Song %d", i+1),
			Artists: []string{fmt.Sprintf("Artist %d", i+1), "Guest"},
			Album:   "Album",
			AddedBy: name,
		}
	}
	return tracks
}

// checkInvariants asserts the bucket partition and status agreement.
func checkInvariants(t *testing.T, st *State) {
	t.Helper()

	seen := make(map[string]Status)
	for s := StatusNew; s <= StatusDone; s++ {
		for _, id := range st.buckets[s].members() {
			prev, dup := seen[id]
			require.False(t, dup, "track %s in both %s and %s", id, prev, s)
			seen[id] = s
		}
	}
	require.Len(t, seen, len(st.songs), "buckets must cover every song")
	for id, song := range st.songs {
		assert.Equal(t, seen[id], song.Status, "status of %s must match its bucket", id)
	}

	total := 0
	for _, h := range st.history {
		total += h.Points
	}
	assert.Equal(t, total, st.score, "score must equal the sum of history points")
}

func TestEngine_Scenario(t *testing.T) {
	rng := &scriptedRand{
		t: t,
		// new, repeat, new, new, (new empty -> repeat)
		floats: []float64{0.5, 0.1, 0.5, 0.5, 0.9},
		ints:   []int{0, 0, 1, 0, 0},
	}
	e, err := NewEngine(makeTracks("A", "B", "A"), []string{"A", "B"}, WithRand(rng))
	require.NoError(t, err)

	steps := []struct {
		wantTrack  string
		wantRepeat bool
		guess      string
		wantPoints int
		wantScore  int
	}{
		{"song1", false, "B", 0, 0},
		{"song1", true, "A", 5, 5},
		{"song2", false, "B", 10, 15},
		{"song3", false, "B", 0, 15},
		{"song3", true, "B", 0, 15},
	}

	for i, step := range steps {
		view, ok := e.SelectNextSong()
		require.True(t, ok, "round %d", i+1)
		assert.Equal(t, step.wantTrack, view.TrackID, "round %d", i+1)
		assert.Equal(t, step.wantRepeat, view.IsRepeat, "round %d", i+1)
		assert.Equal(t, i+1, view.Round)

		res := e.SubmitGuess(step.guess)
		assert.True(t, res.Resolved)
		assert.Equal(t, step.wantPoints, res.Points, "round %d", i+1)
		assert.Equal(t, step.wantScore, e.Snapshot().Score, "round %d", i+1)
		checkInvariants(t, e.state)
	}

	_, ok := e.SelectNextSong()
	assert.False(t, ok)

	snap := e.Snapshot()
	assert.Equal(t, 15, snap.Score)
	assert.Equal(t, 3, snap.DoneCount)
	assert.True(t, snap.Exhausted)
	assert.Len(t, e.History(), 5, "one history entry per submitted guess")

	song3, _ := e.Song("song3")
	assert.Equal(t, 2, song3.TimesShown)
	assert.Equal(t, StatusDone, song3.Status)
}

func TestEngine_TransitionTable(t *testing.T) {
	tests := []struct {
		name        string
		firstGuess  string
		secondGuess string // empty when the song is done after one round
		wantPoints  []int
		wantStatus  []Status
		wantCorrect []bool
	}{
		{
			name:        "correct first try",
			firstGuess:  "Alice",
			wantPoints:  []int{10},
			wantStatus:  []Status{StatusDone},
			wantCorrect: []bool{true},
		},
		{
			name:        "wrong then correct",
			firstGuess:  "Bob",
			secondGuess: "Alice",
			wantPoints:  []int{0, 5},
			wantStatus:  []Status{StatusRepeat, StatusDone},
			wantCorrect: []bool{false, true},
		},
		{
			name:        "wrong twice",
			firstGuess:  "Bob",
			secondGuess: "Bob",
			wantPoints:  []int{0, 0},
			wantStatus:  []Status{StatusRepeat, StatusDone},
			wantCorrect: []bool{false, false},
		},
		{
			name:        "case mismatch is wrong",
			firstGuess:  "alice",
			secondGuess: "ALICE",
			wantPoints:  []int{0, 0},
			wantStatus:  []Status{StatusRepeat, StatusDone},
			wantCorrect: []bool{false, false},
		},
		{
			name:        "name outside the roster is wrong",
			firstGuess:  "Mallory",
			secondGuess: "Alice",
			wantPoints:  []int{0, 5},
			wantStatus:  []Status{StatusRepeat, StatusDone},
			wantCorrect: []bool{false, true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewEngine(makeTracks("Alice"), []string{"Alice", "Bob"}, WithRand(NewSeededRand(1)))
			require.NoError(t, err)

			guesses := []string{tt.firstGuess}
			if tt.secondGuess != "" {
				guesses = append(guesses, tt.secondGuess)
			}

			for i, g := range guesses {
				view, ok := e.SelectNextSong()
				require.True(t, ok)
				assert.Equal(t, i == 1, view.IsRepeat)

				res := e.SubmitGuess(g)
				assert.Equal(t, tt.wantCorrect[i], res.Correct)
				assert.Equal(t, tt.wantPoints[i], res.Points)
				assert.Equal(t, tt.wantStatus[i], res.NewStatus)
				assert.Equal(t, g, res.GuessedName)
				assert.Equal(t, "Alice", res.CorrectName)
				assert.NotEmpty(t, res.Message)
			}

			_, ok := e.SelectNextSong()
			assert.False(t, ok, "song must not be drawn a third time")
		})
	}
}

func TestEngine_Messages(t *testing.T) {
	assert.Equal(t, "Correct! Alice added this. (+10 points)", feedback(true, false, "Alice", 10))
	assert.Contains(t, feedback(true, true, "Alice", 5), "+5 points")
	assert.Contains(t, feedback(false, false, "Alice", 0), "second chance")
	assert.Contains(t, feedback(false, true, "Alice", 0), "out of the game")
}

func TestEngine_GuessWithoutRound(t *testing.T) {
	e, err := NewEngine(makeTracks("A", "B"), []string{"A", "B"})
	require.NoError(t, err)

	before := e.Snapshot()
	res := e.SubmitGuess("A")

	assert.False(t, res.Resolved)
	assert.False(t, res.Correct)
	assert.Zero(t, res.Points)
	assert.Equal(t, "A", res.GuessedName)
	assert.Equal(t, MessageNoActiveRound, res.Message)
	assert.Equal(t, before, e.Snapshot())
	assert.Empty(t, e.History())

	// a second submit after a resolved round is also a no-op
	_, ok := e.SelectNextSong()
	require.True(t, ok)
	require.True(t, e.SubmitGuess("A").Resolved)
	after := e.Snapshot()
	assert.False(t, e.SubmitGuess("A").Resolved)
	assert.Equal(t, after, e.Snapshot())
}

func TestEngine_PendingRoundIsReturnedAgain(t *testing.T) {
	e, err := NewEngine(makeTracks("A", "B", "A"), []string{"A", "B"}, WithRand(NewSeededRand(7)))
	require.NoError(t, err)

	first, ok := e.SelectNextSong()
	require.True(t, ok)
	again, ok := e.SelectNextSong()
	require.True(t, ok)

	assert.Equal(t, first, again)
	song, _ := e.Song(first.TrackID)
	assert.Equal(t, 1, song.TimesShown, "re-selecting a pending round must not count as a showing")

	current, ok := e.Current()
	assert.True(t, ok)
	assert.Equal(t, first.TrackID, current.TrackID)
}

func TestEngine_FirstSeenAtSetOnce(t *testing.T) {
	base := time.Date(2026, 10, 16, 20, 0, 0, 0, time.UTC)
	calls := 0
	clock := func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Minute)
	}
	rng := &scriptedRand{t: t, floats: []float64{0.5, 0.5}, ints: []int{0, 0}}

	e, err := NewEngine(makeTracks("A"), []string{"A", "B"}, WithRand(rng), WithClock(clock))
	require.NoError(t, err)

	_, _ = e.SelectNextSong()
	e.SubmitGuess("B")
	first, _ := e.Song("song1")

	_, _ = e.SelectNextSong()
	second, _ := e.Song("song1")

	assert.Equal(t, base.Add(time.Minute), first.FirstSeenAt)
	assert.Equal(t, first.FirstSeenAt, second.FirstSeenAt)
	assert.Equal(t, 2, second.TimesShown)
}

func TestEngine_AlwaysCorrectTerminatesAfterNRounds(t *testing.T) {
	for _, n := range []int{1, 5, 25} {
		t.Run(fmt.Sprintf("%d songs", n), func(t *testing.T) {
			names := make([]string, n)
			for i := range names {
				names[i] = []string{"A", "B", "C"}[i%3]
			}
			e, err := NewEngine(makeTracks(names...), []string{"A", "B", "C"}, WithRand(NewSeededRand(uint64(n))))
			require.NoError(t, err)

			rounds := 0
			for {
				view, ok := e.SelectNextSong()
				if !ok {
					break
				}
				assert.False(t, view.IsRepeat)
				song, _ := e.Song(view.TrackID)
				require.True(t, e.SubmitGuess(song.Track.AddedBy).Correct)
				rounds++
			}

			snap := e.Snapshot()
			assert.Equal(t, n, rounds)
			assert.Equal(t, n, snap.DoneCount)
			assert.Equal(t, 10*n, snap.Score)
		})
	}
}

func TestEngine_RandomPlayKeepsInvariants(t *testing.T) {
	roster := []string{"A", "B", "C", "D"}
	names := []string{"A", "B", "C", "D", "A", "B", "C", "D", "A", "B", "C", "A"}

	for seed := uint64(1); seed <= 30; seed++ {
		t.Run(fmt.Sprintf("seed %d", seed), func(t *testing.T) {
			e, err := NewEngine(makeTracks(names...), roster, WithRand(NewSeededRand(seed)))
			require.NoError(t, err)
			guesser := NewSeededRand(seed + 1000)

			done := make(map[string]bool)
			selections := make(map[string]int)

			for rounds := 0; ; rounds++ {
				require.LessOrEqual(t, rounds, 2*len(names), "game must end within two rounds per song")

				view, ok := e.SelectNextSong()
				if !ok {
					break
				}
				require.False(t, done[view.TrackID], "done song %s selected again", view.TrackID)
				selections[view.TrackID]++
				require.LessOrEqual(t, selections[view.TrackID], 2)
				assert.Equal(t, roster, view.GuessOptions)

				doneBefore := e.Snapshot().DoneCount
				e.SubmitGuess(roster[guesser.IntN(len(roster))])
				assert.GreaterOrEqual(t, e.Snapshot().DoneCount, doneBefore)

				for _, id := range e.state.BucketMembers(StatusDone) {
					done[id] = true
				}
				for id := range done {
					s, _ := e.Song(id)
					require.Equal(t, StatusDone, s.Status, "%s left the done bucket", id)
				}
				checkInvariants(t, e.state)
			}

			snap := e.Snapshot()
			assert.True(t, snap.Exhausted)
			assert.Equal(t, len(names), snap.DoneCount)
			assert.Equal(t, len(e.History()), snap.CompletedRounds)
		})
	}
}

func TestEngine_RepeatProbabilityBounds(t *testing.T) {
	tests := []struct {
		name    string
		p       float64
		wantErr bool
	}{
		{"zero", 0, false},
		{"default", DefaultRepeatProbability, false},
		{"one", 1, false},
		{"negative", -0.1, true},
		{"above one", 1.5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEngine(makeTracks("A"), []string{"A"}, WithRepeatProbability(tt.p))
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidRepeatProbability))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEngine_ProbabilityOneDrainsRepeatFirst(t *testing.T) {
	// floats always below 1: every round prefers the repeat bucket when possible
	rng := &scriptedRand{t: t, floats: []float64{0.99, 0.99, 0.99}, ints: []int{0, 0, 0}}
	e, err := NewEngine(makeTracks("A", "B"), []string{"A", "B"}, WithRand(rng), WithRepeatProbability(1))
	require.NoError(t, err)

	v, _ := e.SelectNextSong()
	assert.Equal(t, "song1", v.TrackID)
	e.SubmitGuess("B")

	v, _ = e.SelectNextSong()
	assert.Equal(t, "song1", v.TrackID)
	assert.True(t, v.IsRepeat)
}

func TestNewEngine_InputValidation(t *testing.T) {
	dup := makeTracks("A", "B")
	dup[1].ID = dup[0].ID
	_, err := NewEngine(dup, []string{"A", "B"})
	assert.True(t, errors.Is(err, ErrDuplicateTrack))

	blank := makeTracks("A")
	blank[0].ID = ""
	_, err = NewEngine(blank, []string{"A"})
	assert.True(t, errors.Is(err, ErrEmptyTrackID))

	e, err := NewEngine(nil, []string{"A"})
	require.NoError(t, err)
	_, ok := e.SelectNextSong()
	assert.False(t, ok)
	assert.True(t, e.Snapshot().Exhausted)
}

func TestNewEngine_DoesNotMutateInput(t *testing.T) {
	tracks := makeTracks("A", "B")
	roster := []string{"A", "B"}
	e, err := NewEngine(tracks, roster, WithRand(NewSeededRand(3)))
	require.NoError(t, err)

	view, _ := e.SelectNextSong()
	view.GuessOptions[0] = "Z"
	view.Artists[0] = "Z"
	roster[1] = "changed"
	e.SubmitGuess("A")

	assert.Equal(t, "Artist 1", tracks[0].Artists[0])
	assert.Equal(t, []string{"A", "B"}, e.Roster())

	next, ok := e.SelectNextSong()
	require.True(t, ok)
	assert.Equal(t, []string{"A", "B"}, next.GuessOptions)
}

func TestEngine_HistoryEntries(t *testing.T) {
	rng := &scriptedRand{t: t, floats: []float64{0.5}, ints: []int{0}}
	e, err := NewEngine(makeTracks("A"), []string{"A", "B"}, WithRand(rng))
	require.NoError(t, err)

	_, _ = e.SelectNextSong()
	e.SubmitGuess("B")

	history := e.History()
	require.Len(t, history, 1)
	assert.Equal(t, HistoryEntry{
		Round:       1,
		TrackID:     "song1",
		SongTitle:   "Song 1",
		Artists:     "Artist 1, Guest",
		GuessedName: "B",
		CorrectName: "A",
		Points:      0,
	}, history[0])
	assert.False(t, history[0].Correct())

	history[0].Points = 99
	assert.Zero(t, e.History()[0].Points, "History returns a copy")
}

func TestBucket_SwapRemove(t *testing.T) {
	b := newBucket()
	for _, id := range []string{"a", "b", "c", "d"} {
		b.add(id)
	}
	b.add("a")
	assert.Equal(t, 4, b.len())

	assert.True(t, b.remove("b"))
	assert.False(t, b.remove("b"))
	assert.Equal(t, []string{"a", "d", "c"}, b.members())
	assert.True(t, b.has("d"))
	assert.False(t, b.has("b"))

	assert.True(t, b.remove("c"))
	assert.Equal(t, []string{"a", "d"}, b.members())
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "new", StatusNew.String())
	assert.Equal(t, "repeat", StatusRepeat.String())
	assert.Equal(t, "done", StatusDone.String())
	assert.Equal(t, "unknown", Status(42).String())
}
