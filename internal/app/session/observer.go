package session

// Observer receives game lifecycle notifications, e.g. for metrics.
// Implementations must be safe for concurrent use.
type Observer interface {
	SessionCreated(songs int)
	RoundStarted(repeat bool)
	GuessResolved(correct, repeat bool, points int)
	SessionEnded(reason string, score int)
}

type nopObserver struct{}

func (nopObserver) SessionCreated(int) {}
func (nopObserver) RoundStarted(bool) {}
func (nopObserver) GuessResolved(bool, bool, int) {}
func (nopObserver) SessionEnded(string, int) {}
