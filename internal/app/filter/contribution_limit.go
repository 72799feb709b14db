package filter

import (
	"context"

	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/19guess/internal/domain/track"
)

// ContributionLimitConfig represents the configuration for ContributionLimitFilter.
type ContributionLimitConfig struct {
	MaxPerPlayer int `yaml:"max_per_player" mapstructure:"max_per_player" validate:"gte=0"`
}

// ContributionLimitFilter caps how many tracks each player can have in a
// game, so one enthusiastic contributor does not make every answer obvious.
// Tracks beyond the cap are dropped in playlist order.
type ContributionLimitFilter struct {
	config *ContributionLimitConfig
}

func (f *ContributionLimitFilter) Name() string {
	return "contribution_limit_filter"
}

func (f *ContributionLimitFilter) Description() string {
	return "Limits the number of tracks per contributor (max_per_player, 0 = no limit)"
}

func (f *ContributionLimitFilter) ReturnCodes() []string {
	return []string{"contribution_limit"}
}

func (f *ContributionLimitFilter) ValidateConfig(settings map[string]any) error {
	var config ContributionLimitConfig
	if err := decodeSettings(settings, &config); err != nil {
		return err
	}
	f.config = &config
	zlog.Info().Msgf("contribution limit filter config: %+v", config)
	return nil
}

func (f *ContributionLimitFilter) Check(ctx context.Context, t track.Track, pool Pool) Result {
	if f.config == nil || f.config.MaxPerPlayer == 0 {
		return Accept()
	}

	count := 0
	for _, accepted := range pool.Accepted {
		if accepted.AddedBy == t.AddedBy {
			count++
		}
	}
	if count >= f.config.MaxPerPlayer {
		return Reject("contribution_limit")
	}
	return Accept()
}

func init() {
	Register("contribution_limit_filter", func() Filter {
		return &ContributionLimitFilter{}
	})
}
