package round

import (
	"fmt"
	"strings"
	"time"
)

const (
	PointsFirstGuess  = 10 // Correct on first showing
	PointsRepeatGuess = 5  // Correct on the second chance

	// DefaultRepeatProbability is the chance a round draws from the repeat
	// bucket when it is non-empty.
	DefaultRepeatProbability = 0.2

	// MessageNoActiveRound is returned when a guess arrives with no song selected.
	MessageNoActiveRound = "No song selected. Start a round before guessing."
)

// Select picks the next song and marks it as the current round.
// It returns false when both the new and repeat buckets are empty.
// While a round is pending, Select returns that round again without drawing.
func Select(st *State, rng Rand, repeatProbability float64, now time.Time) (RoundView, bool) {
	if st.current != nil {
		return st.view(st.current), true
	}

	newB := st.buckets[StatusNew]
	repeatB := st.buckets[StatusRepeat]
	if newB.len()+repeatB.len() == 0 {
		return RoundView{}, false
	}

	from := newB
	if (rng.Float64() < repeatProbability && repeatB.len() > 0) || newB.len() == 0 {
		from = repeatB
	}

	song := st.songs[from.at(rng.IntN(from.len()))]
	song.TimesShown++
	if song.FirstSeenAt.IsZero() {
		song.FirstSeenAt = now
	}
	st.current = song

	return st.view(song), true
}

// Submit resolves the current round with the guessed contributor name.
// The comparison is exact and case-sensitive. Without a current round the
// state is left untouched and the result is not Resolved.
func Submit(st *State, guess string) GuessResult {
	song := st.current
	if song == nil {
		return GuessResult{GuessedName: guess, Message: MessageNoActiveRound}
	}

	wasRepeat := song.Status == StatusRepeat
	correctName := song.Track.AddedBy
	correct := guess == correctName

	var points int
	var next Status
	switch {
	case correct && !wasRepeat:
		points, next = PointsFirstGuess, StatusDone
	case correct:
		points, next = PointsRepeatGuess, StatusDone
	case !wasRepeat:
		next = StatusRepeat
	default:
		next = StatusDone
	}

	st.moveTo(song, next)
	st.score += points
	st.history = append(st.history, HistoryEntry{
		Round:       len(st.history) + 1,
		TrackID:     song.Track.ID,
		SongTitle:   song.Track.Name,
		Artists:     strings.Join(song.Track.Artists, ", "),
		GuessedName: guess,
		CorrectName: correctName,
		Points:      points,
		Repeat:      wasRepeat,
	})
	st.current = nil

	return GuessResult{
		Resolved:    true,
		Correct:     correct,
		Points:      points,
		GuessedName: guess,
		CorrectName: correctName,
		TrackID:     song.Track.ID,
		WasRepeat:   wasRepeat,
		NewStatus:   next,
		Message:     feedback(correct, wasRepeat, correctName, points),
	}
}

func feedback(correct, wasRepeat bool, correctName string, points int) string {
	switch {
	case correct && !wasRepeat:
		return fmt.Sprintf("Correct! %s added this. (+%d points)", correctName, points)
	case correct:
		return fmt.Sprintf("Correct! %s added this. (+%d points for a second-chance guess)", correctName, points)
	case !wasRepeat:
		return fmt.Sprintf("Wrong! It was %s. This song will come back later for a second chance.", correctName)
	default:
		return fmt.Sprintf("Wrong again! It was %s. This song is out of the game. (0 points)", correctName)
	}
}
