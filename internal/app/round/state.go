package round

import (
	"time"

	"github.com/cockroachdb/errors"

	"github.com/osa030/19guess/internal/domain/track"
)

var (
	ErrEmptyTrackID   = errors.New("track id is empty")
	ErrDuplicateTrack = errors.New("duplicate track id")
)

// Song is the engine-owned record of one playlist track.
type Song struct {
	Track       track.Track // Deep copy of the caller's track
	Status      Status      // Always matches the bucket holding Track.ID
	TimesShown  int         // Number of times the song was selected
	FirstSeenAt time.Time   // Set on first selection only
}

// State is the complete mutable state of one game.
// It is owned by a single caller and is not safe for concurrent use.
type State struct {
	songs   map[string]*Song
	roster  []string
	buckets [statusCount]*bucket
	score   int
	history []HistoryEntry
	current *Song
}

// NewState builds the initial state: every track starts in the new bucket in
// input order. Tracks are copied, so the caller keeps ownership of its slice.
func NewState(tracks []track.Track, roster []string) (*State, error) {
	st := &State{
		songs:  make(map[string]*Song, len(tracks)),
		roster: append([]string(nil), roster...),
	}
	for i := range st.buckets {
		st.buckets[i] = newBucket()
	}

	for i := range tracks {
		t := tracks[i]
		if t.ID == "" {
			return nil, errors.Wrapf(ErrEmptyTrackID, "track #%d (%s)", i+1, t.Name)
		}
		if _, ok := st.songs[t.ID]; ok {
			return nil, errors.Wrapf(ErrDuplicateTrack, "%s", t.ID)
		}
		st.songs[t.ID] = &Song{Track: t.Clone(), Status: StatusNew}
		st.buckets[StatusNew].add(t.ID)
	}

	return st, nil
}

// moveTo is the only place a song changes status, keeping the status field
// and bucket membership in step.
func (st *State) moveTo(s *Song, next Status) {
	st.buckets[s.Status].remove(s.Track.ID)
	st.buckets[next].add(s.Track.ID)
	s.Status = next
}

// Snapshot returns a read-only summary of the state.
func (st *State) Snapshot() Snapshot {
	newCount := st.buckets[StatusNew].len()
	repeatCount := st.buckets[StatusRepeat].len()
	return Snapshot{
		Score:           st.score,
		TotalSongs:      len(st.songs),
		Remaining:       newCount + repeatCount,
		NewCount:        newCount,
		RepeatCount:     repeatCount,
		DoneCount:       st.buckets[StatusDone].len(),
		CompletedRounds: len(st.history),
		Exhausted:       newCount+repeatCount == 0,
		RoundPending:    st.current != nil,
	}
}

// History returns a copy of the completed rounds, oldest first.
func (st *State) History() []HistoryEntry {
	out := make([]HistoryEntry, len(st.history))
	copy(out, st.history)
	return out
}

// Current returns the view of the song awaiting a guess, if any.
func (st *State) Current() (RoundView, bool) {
	if st.current == nil {
		return RoundView{}, false
	}
	return st.view(st.current), true
}

// Song returns a copy of the record for the given track.
func (st *State) Song(id string) (Song, bool) {
	s, ok := st.songs[id]
	if !ok {
		return Song{}, false
	}
	c := *s
	c.Track = s.Track.Clone()
	return c, true
}

// Roster returns the guess options in their fixed order.
func (st *State) Roster() []string {
	return append([]string(nil), st.roster...)
}

// BucketMembers returns the track IDs currently holding the given status.
func (st *State) BucketMembers(s Status) []string {
	if s < 0 || int(s) >= statusCount {
		return nil
	}
	return st.buckets[s].members()
}

func (st *State) view(s *Song) RoundView {
	return RoundView{
		Round:        len(st.history) + 1,
		TrackID:      s.Track.ID,
		Title:        s.Track.Name,
		Artists:      append([]string(nil), s.Track.Artists...),
		ArtistLine:   s.Track.ArtistLine(),
		Album:        s.Track.Album,
		AlbumArtURL:  s.Track.AlbumArtURL,
		PreviewURL:   s.Track.PreviewURL,
		URL:          s.Track.URL,
		IsRepeat:     s.Status == StatusRepeat,
		TimesShown:   s.TimesShown,
		GuessOptions: st.Roster(),
	}
}
