package filter

import (
	"context"

	"github.com/osa030/19guess/internal/domain/track"
)

// MarketConfig represents the configuration for MarketFilter.
type MarketConfig struct {
	Market string `yaml:"market" mapstructure:"market" validate:"omitempty,len=2"`
}

// MarketFilter checks if the track is available in the configured market.
// Unavailable tracks cannot be played at the party.
type MarketFilter struct {
	market string
}

// NewMarketFilter creates a new MarketFilter with the specified market.
func NewMarketFilter(market string) *MarketFilter {
	return &MarketFilter{market: market}
}

func (f *MarketFilter) Name() string {
	return "market_filter"
}

func (f *MarketFilter) Description() string {
	return "Checks if the track is available in the configured market"
}

func (f *MarketFilter) ReturnCodes() []string {
	return []string{"market_restriction"}
}

// ValidateConfig applies an explicit market setting, overriding the Spotify market.
func (f *MarketFilter) ValidateConfig(settings map[string]any) error {
	var config MarketConfig
	if err := decodeSettings(settings, &config); err != nil {
		return err
	}
	if config.Market != "" {
		f.market = config.Market
	}
	return nil
}

func (f *MarketFilter) Check(ctx context.Context, t track.Track, pool Pool) Result {
	if f.market == "" {
		return Accept()
	}

	// Tracks from files carry no market data
	if t.IsPlayable == nil && len(t.Markets) == 0 {
		return Accept()
	}

	if !t.IsAvailableInMarket(f.market) {
		return Reject("market_restriction")
	}
	return Accept()
}

func init() {
	Register("market_filter", func() Filter {
		return &MarketFilter{}
	})
}
