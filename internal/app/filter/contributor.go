package filter

import (
	"context"

	"github.com/osa030/19guess/internal/domain/track"
)

// UnknownContributorFilter keeps out tracks nobody on the roster can be
// credited with: there would be no right answer to guess.
type UnknownContributorFilter struct{}

func (f *UnknownContributorFilter) Name() string {
	return "unknown_contributor_filter"
}

func (f *UnknownContributorFilter) Description() string {
	return "Rejects tracks without a contributor or added by someone who is not a player"
}

func (f *UnknownContributorFilter) ReturnCodes() []string {
	return []string{"missing_contributor", "unknown_contributor"}
}

func (f *UnknownContributorFilter) ValidateConfig(settings map[string]any) error {
	return nil
}

func (f *UnknownContributorFilter) Check(ctx context.Context, t track.Track, pool Pool) Result {
	if t.AddedBy == "" {
		return Reject("missing_contributor")
	}
	if len(pool.Roster) > 0 && !pool.Roster.Contains(t.AddedBy) {
		return Reject("unknown_contributor")
	}
	return Accept()
}

func init() {
	Register("unknown_contributor_filter", func() Filter {
		return &UnknownContributorFilter{}
	})
}
