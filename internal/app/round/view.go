package round

// RoundView is what a player sees for the song awaiting a guess.
type RoundView struct {
	Round        int      // 1-based number of the round being played
	TrackID      string   // Spotify Track ID
	Title        string   // Track title
	Artists      []string // Artist names
	ArtistLine   string   // Artist names joined for display
	Album        string   // Album name
	AlbumArtURL  string   // Album art URL
	PreviewURL   string   // Preview clip URL (may be empty)
	URL          string   // Spotify URL
	IsRepeat     bool     // Drawn from the repeat bucket: this is the last chance
	TimesShown   int      // Including this showing
	GuessOptions []string // Roster in its fixed order
}

// GuessResult is the outcome of a guess.
type GuessResult struct {
	Resolved    bool   // False when no round was active; nothing changed
	Correct     bool   // Guess matched the contributor
	Points      int    // Points awarded for this guess
	GuessedName string // The submitted name, for highlighting after the reset
	CorrectName string // The contributor (empty when not resolved)
	TrackID     string // Track the guess was for (empty when not resolved)
	WasRepeat   bool   // The song was on its second chance
	NewStatus   Status // Bucket the song moved to
	Message     string // Human-readable feedback
}

// HistoryEntry records one completed round.
type HistoryEntry struct {
	Round       int    // 1-based round number
	TrackID     string // Spotify Track ID
	SongTitle   string // Track title
	Artists     string // Artist names joined for display
	GuessedName string // Name the players picked
	CorrectName string // Contributor
	Points      int    // 0 when wrong
	Repeat      bool   // Second-chance round
}

// Correct reports whether the round was guessed right.
func (h HistoryEntry) Correct() bool {
	return h.GuessedName == h.CorrectName
}

// Snapshot is a read-only view of game progress.
type Snapshot struct {
	Score           int  // Cumulative points
	TotalSongs      int  // Songs in the game
	Remaining       int  // Songs still selectable (new + repeat)
	NewCount        int  // Songs never shown
	RepeatCount     int  // Songs waiting for their second chance
	DoneCount       int  // Songs finished
	CompletedRounds int  // Equal to the history length
	Exhausted       bool // No song can be selected any more
	RoundPending    bool // A song is awaiting a guess
}
