package connect

// Messages exchanged by GameService and AdminService.

type ListSourcesRequest struct{}

type ListSourcesResponse struct {
	Sources []string `json:"sources"`
}

type ListRoundLimitsRequest struct {
	Source string `json:"source,omitempty"`
}

// RoundLimitOption is one entry of the round limit picker. Rounds is 0 for
// "all songs".
type RoundLimitOption struct {
	Label  string `json:"label"`
	Rounds int    `json:"rounds"`
}

type ListRoundLimitsResponse struct {
	Available int                `json:"available"`
	Options   []RoundLimitOption `json:"options"`
}

type CreateSessionRequest struct {
	Source     string `json:"source,omitempty"`
	RoundLimit string `json:"roundLimit,omitempty"`
	Seed       uint64 `json:"seed,omitempty"`
}

type CreateSessionResponse struct {
	Session SessionInfo `json:"session"`
}

type NextRoundRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
}

type NextRoundResponse struct {
	Round RoundInfo `json:"round"`
}

type SubmitGuessRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
	Guess     string `json:"guess" validate:"required"`
}

type SubmitGuessResponse struct {
	Result GuessInfo `json:"result"`
}

type GetStatusRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
}

type GetStatusResponse struct {
	Session SessionInfo `json:"session"`
}

type GetSummaryRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
}

type GetSummaryResponse struct {
	Summary SummaryInfo `json:"summary"`
}

type EndSessionRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
}

type EndSessionResponse struct {
	Summary SummaryInfo `json:"summary"`
}

type ListSessionsRequest struct{}

type ListSessionsResponse struct {
	Sessions []SessionInfo `json:"sessions"`
}

type RemoveSessionRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
}

type RemoveSessionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SessionInfo describes a game.
type SessionInfo struct {
	SessionID    string     `json:"sessionId"`
	PlaylistID   string     `json:"playlistId"`
	PlaylistName string     `json:"playlistName"`
	Source       string     `json:"source"`
	Rejected     int        `json:"rejected"`
	Phase        string     `json:"phase"`
	EndReason    string     `json:"endReason"`
	RoundLimit   int        `json:"roundLimit"` // 0 = all songs
	Players      []string   `json:"players"`
	Progress     Progress   `json:"progress"`
	Current      *RoundInfo `json:"current,omitempty"`
	CreatedAt    string     `json:"createdAt"`
	EndedAt      string     `json:"endedAt,omitempty"`
}

// Progress mirrors the round engine snapshot.
type Progress struct {
	Score           int  `json:"score"`
	TotalSongs      int  `json:"totalSongs"`
	Remaining       int  `json:"remaining"`
	NewCount        int  `json:"newCount"`
	RepeatCount     int  `json:"repeatCount"`
	DoneCount       int  `json:"doneCount"`
	CompletedRounds int  `json:"completedRounds"`
	Exhausted       bool `json:"exhausted"`
	RoundPending    bool `json:"roundPending"`
}

// RoundInfo is the song awaiting a guess.
type RoundInfo struct {
	Number      int      `json:"number"`
	TrackID     string   `json:"trackId"`
	Title       string   `json:"title"`
	Artists     []string `json:"artists"`
	Album       string   `json:"album"`
	AlbumArtURL string   `json:"albumArtUrl"`
	PreviewURL  string   `json:"previewUrl,omitempty"`
	URL         string   `json:"url"`
	IsRepeat    bool     `json:"isRepeat"`
	TimesShown  int      `json:"timesShown"`
	Options     []string `json:"options"`
	Hints       []string `json:"hints,omitempty"`
}

// GuessInfo is a resolved (or ignored) guess.
type GuessInfo struct {
	Resolved    bool   `json:"resolved"`
	Correct     bool   `json:"correct"`
	Points      int    `json:"points"`
	GuessedName string `json:"guessedName"`
	CorrectName string `json:"correctName"`
	TrackID     string `json:"trackId"`
	WasRepeat   bool   `json:"wasRepeat"`
	NewStatus   string `json:"newStatus"`
	Message     string `json:"message"`
	Score       int    `json:"score"`
	SessionOver bool   `json:"sessionOver"`
	EndReason   string `json:"endReason"`
}

// HistoryInfo is one completed round.
type HistoryInfo struct {
	Round       int    `json:"round"`
	TrackID     string `json:"trackId"`
	Title       string `json:"title"`
	Artists     string `json:"artists"`
	GuessedName string `json:"guessedName"`
	CorrectName string `json:"correctName"`
	Points      int    `json:"points"`
	Repeat      bool   `json:"repeat"`
}

// SummaryInfo is the end-of-game review.
type SummaryInfo struct {
	SessionID    string        `json:"sessionId"`
	PlaylistName string        `json:"playlistName"`
	FinalScore   int           `json:"finalScore"`
	Rounds       int           `json:"rounds"`
	TotalSongs   int           `json:"totalSongs"`
	RoundLimit   int           `json:"roundLimit"`
	EndReason    string        `json:"endReason"`
	History      []HistoryInfo `json:"history"`
	Correct      int           `json:"correct"`
	Missed       int           `json:"missed"`
}
