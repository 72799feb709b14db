package session

import (
	"github.com/osa030/19guess/internal/app/round"
	"github.com/osa030/19guess/internal/app/session/state"
)

// IsSessionOver decides, before a round is requested, whether the game must
// end. Exhaustion is checked first and always wins; a round limit larger than
// the song count therefore ends the game by exhaustion.
func IsSessionOver(snap round.Snapshot, limit RoundLimit) (bool, state.EndReason) {
	if snap.Exhausted {
		return true, state.EndReasonExhausted
	}
	if !limit.Allows(snap.CompletedRounds + 1) {
		return true, state.EndReasonRoundLimit
	}
	return false, state.EndReasonNone
}
