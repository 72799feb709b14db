// Package round implements the round-selection and scoring state machine of a
// guessing game: songs are sampled from new and repeat buckets, a guess
// resolves each round, and every song ends in the done bucket after at most
// two rounds.
package round

// Status represents the bucket a song currently belongs to.
type Status int

const (
	StatusNew    Status = iota // Never shown
	StatusRepeat               // Shown once and guessed wrong, eligible for a second chance
	StatusDone                 // Terminal: guessed right, or wrong twice

	statusCount = 3
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusNew:
		return "new"
	case StatusRepeat:
		return "repeat"
	case StatusDone:
		return "done"
	default:
		return "unknown"
	}
}
