// Package state provides game session lifecycle states.
package state

// Phase represents the game lifecycle phase.
type Phase int

const (
	PhaseReady    Phase = iota // Created, no round played yet
	PhaseGuessing              // A song is waiting for a guess
	PhaseRevealed              // Last guess resolved, next round not started
	PhaseFinished              // Game is over
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseReady:
		return "ready"
	case PhaseGuessing:
		return "guessing"
	case PhaseRevealed:
		return "revealed"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// EndReason represents why a game finished.
type EndReason int

const (
	EndReasonNone       EndReason = iota // Still running
	EndReasonExhausted                   // Every song is done
	EndReasonRoundLimit                  // Configured round limit reached
	EndReasonAbandoned                   // Ended early by a player, an admin, or the idle reaper
)

// String returns the string representation of the end reason.
func (r EndReason) String() string {
	switch r {
	case EndReasonNone:
		return "none"
	case EndReasonExhausted:
		return "exhausted"
	case EndReasonRoundLimit:
		return "round_limit"
	case EndReasonAbandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}
