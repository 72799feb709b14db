// Package config provides configuration loading from YAML files.
package config

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/osa030/19guess/internal/domain/player"
)

// Source types.
const (
	SourceFile    = "file"
	SourceSpotify = "spotify"
	SourceLibrary = "library"
)

// Config represents the application configuration.
type Config struct {
	Server   ServerConfig            `yaml:"server"`
	Admin    AdminConfig             `yaml:"admin"`
	Game     GameConfig              `yaml:"game"`
	Players  []PlayerConfig          `yaml:"players" validate:"dive"`
	Sources  []SourceConfig          `yaml:"sources" validate:"required,min=1,dive"`
	Filters  map[string]FilterConfig `yaml:"filters"`
	Messages MessagesConfig          `yaml:"messages"`
	Spotify  SpotifyConfig           `yaml:"spotify"`
	LastFM   LastFMConfig            `yaml:"lastfm"`
	Library  LibraryConfig           `yaml:"library"`
}

// ServerConfig represents server configuration.
type ServerConfig struct {
	Addr        string      `yaml:"addr" default:":8080"`
	MetricsPath string      `yaml:"metrics_path" default:"/metrics"`
	Hooks       HooksConfig `yaml:"hooks"`
}

// HooksConfig represents lifecycle hooks configuration.
type HooksConfig struct {
	OnStarted []string `yaml:"on_started"`
	OnStopped []string `yaml:"on_stopped"`
}

// AdminConfig represents admin-related configuration.
type AdminConfig struct {
	Token string `yaml:"token" validate:"required"`
}

// GameConfig represents round engine and game session settings.
type GameConfig struct {
	// RepeatProbability is the chance of replaying a missed song when both
	// kinds are available. Unset means 0.2; an explicit 0 disables repeats
	// until no new songs remain.
	RepeatProbability *float64      `yaml:"repeat_probability" default:"0.2" validate:"omitempty,gte=0,lte=1"`
	RoundLimitPresets []int         `yaml:"round_limit_presets" default:"[5,10,20]" validate:"dive,gte=1"`
	IdleTimeout       time.Duration `yaml:"idle_timeout" default:"60m" validate:"gte=0"`
	Seed              uint64        `yaml:"seed"` // 0 = random per game
}

// PlayerConfig represents one player of the party.
type PlayerConfig struct {
	Name          string `yaml:"name" validate:"required"`
	SpotifyUserID string `yaml:"spotify_user_id"`
}

// SourceConfig represents a single playlist source.
type SourceConfig struct {
	Type        string         `yaml:"type" validate:"required,oneof=file spotify library"`
	DisplayName string         `yaml:"display_name" validate:"required"`
	Settings    map[string]any `yaml:"settings"`
}

// FilterConfig represents a filter's configuration.
type FilterConfig struct {
	Enabled  bool           `yaml:"enabled"`
	Settings map[string]any `yaml:"settings,omitempty"`
}

// MessagesConfig represents user-facing messages.
type MessagesConfig struct {
	DefaultError      string `yaml:"default_error" default:"Something went wrong. Please try again."`
	SessionNotFound   string `yaml:"session_not_found" default:"This game no longer exists. Start a new one."`
	SessionFinished   string `yaml:"session_finished" default:"This game is over. Check the summary for your score."`
	InvalidRoundLimit string `yaml:"invalid_round_limit" default:"That is not a valid number of rounds."`
	NoPlayableSongs   string `yaml:"no_playable_songs" default:"The playlist has no songs that can be played."`
	SourceUnavailable string `yaml:"source_unavailable" default:"The playlist could not be loaded."`
}

// SpotifyConfig represents Spotify API configuration.
// Credentials are required only when a spotify source is configured.
type SpotifyConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RefreshToken string `yaml:"refresh_token"`
	Market       string `yaml:"market" validate:"omitempty,len=2" default:"JP"`
}

// LastFMConfig represents Last.fm configuration for round hints.
type LastFMConfig struct {
	APIKey       string `yaml:"api_key"`
	HintTagCount int    `yaml:"hint_tag_count" default:"3" validate:"gte=0,lte=10"`
}

// LibraryConfig represents the local playlist library.
type LibraryConfig struct {
	Path string `yaml:"path" default:"19guess.db"`
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values for sensitive fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}
	return Parse(data)
}

// Parse parses configuration from YAML data.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	// Override with environment variables
	cfg.overrideFromEnv()

	// Set defaults using creasty/defaults
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("SPOTIFY_CLIENT_ID"); v != "" {
		c.Spotify.ClientID = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_SECRET"); v != "" {
		c.Spotify.ClientSecret = v
	}
	if v := os.Getenv("SPOTIFY_REFRESH_TOKEN"); v != "" {
		c.Spotify.RefreshToken = v
	}
	if v := os.Getenv("LASTFM_API_KEY"); v != "" {
		c.LastFM.APIKey = v
	}
	if v := os.Getenv("ADMIN_TOKEN"); v != "" {
		c.Admin.Token = v
	}
}

// GetMessage returns the message for the given code.
func (c *Config) GetMessage(code string) string {
	switch code {
	case "session_not_found":
		return c.Messages.SessionNotFound
	case "session_finished":
		return c.Messages.SessionFinished
	case "invalid_round_limit":
		return c.Messages.InvalidRoundLimit
	case "no_playable_songs":
		return c.Messages.NoPlayableSongs
	case "source_unavailable":
		return c.Messages.SourceUnavailable
	default:
		return c.Messages.DefaultError
	}
}

// RepeatProbability returns the configured repeat probability.
func (c *Config) RepeatProbability() float64 {
	if c.Game.RepeatProbability == nil {
		return 0.2
	}
	return *c.Game.RepeatProbability
}

// Roster returns the configured players, or nil when none are configured.
func (c *Config) Roster() player.Roster {
	if len(c.Players) == 0 {
		return nil
	}
	r := make(player.Roster, len(c.Players))
	for i, p := range c.Players {
		r[i] = player.Player{Name: p.Name, SpotifyUserID: p.SpotifyUserID}
	}
	return r
}

// HasSource reports whether a source of the given type is configured.
func (c *Config) HasSource(sourceType string) bool {
	for _, s := range c.Sources {
		if s.Type == sourceType {
			return true
		}
	}
	return false
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}

	if c.HasSource(SourceSpotify) {
		if c.Spotify.ClientID == "" || c.Spotify.ClientSecret == "" || c.Spotify.RefreshToken == "" {
			return errors.New("spotify source requires spotify ClientID, ClientSecret and RefreshToken")
		}
	}

	names := make(map[string]bool, len(c.Sources))
	for _, s := range c.Sources {
		if names[s.DisplayName] {
			return errors.Newf("duplicate source display_name: %s", s.DisplayName)
		}
		names[s.DisplayName] = true
	}

	if roster := c.Roster(); roster != nil {
		if err := roster.Validate(); err != nil {
			return errors.Wrap(err, "invalid players")
		}
	}

	return nil
}

// IsFilterEnabled checks if a filter is enabled.
func (c *Config) IsFilterEnabled(filterName string) bool {
	if f, ok := c.Filters[filterName]; ok {
		return f.Enabled
	}
	return false
}
