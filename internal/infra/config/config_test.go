package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalYAML = `
admin:
  token: secret
sources:
  - type: file
    display_name: Party
    settings:
      path: playlist.json
`

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte(minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "/metrics", cfg.Server.MetricsPath)
	assert.InDelta(t, 0.2, cfg.RepeatProbability(), 1e-9)
	assert.Equal(t, []int{5, 10, 20}, cfg.Game.RoundLimitPresets)
	assert.Equal(t, 60*time.Minute, cfg.Game.IdleTimeout)
	assert.Equal(t, "JP", cfg.Spotify.Market)
	assert.Equal(t, 3, cfg.LastFM.HintTagCount)
	assert.Equal(t, "19guess.db", cfg.Library.Path)
	assert.NotEmpty(t, cfg.Messages.SessionNotFound)
	assert.Nil(t, cfg.Roster())
}

func TestParse_FullConfig(t *testing.T) {
	data := `
server:
  addr: ":9090"
  hooks:
    on_started: ["echo started"]
admin:
  token: secret
game:
  repeat_probability: 0
  round_limit_presets: [3, 6]
  idle_timeout: 15m
  seed: 42
players:
  - name: Alice
    spotify_user_id: alice_sp
  - name: Bob
sources:
  - type: spotify
    display_name: Party mix
    settings:
      playlist_url: https://open.spotify.com/playlist/abc
  - type: library
    display_name: Saved copy
    settings:
      playlist_id: abc
filters:
  duration_limit_filter:
    enabled: true
    settings:
      min_minutes: 1.5
spotify:
  client_id: id
  client_secret: secret
  refresh_token: token
lastfm:
  api_key: key
  hint_tag_count: 5
`
	cfg, err := Parse([]byte(data))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, []string{"echo started"}, cfg.Server.Hooks.OnStarted)
	assert.Equal(t, 0.0, cfg.RepeatProbability(), "explicit zero must be kept")
	assert.Equal(t, []int{3, 6}, cfg.Game.RoundLimitPresets)
	assert.Equal(t, 15*time.Minute, cfg.Game.IdleTimeout)
	assert.Equal(t, uint64(42), cfg.Game.Seed)

	roster := cfg.Roster()
	require.Len(t, roster, 2)
	assert.Equal(t, "alice_sp", roster[0].SpotifyUserID)
	assert.Equal(t, []string{"Alice", "Bob"}, roster.Names())

	assert.True(t, cfg.HasSource(SourceSpotify))
	assert.False(t, cfg.HasSource(SourceFile))
	assert.True(t, cfg.IsFilterEnabled("duration_limit_filter"))
	assert.False(t, cfg.IsFilterEnabled("preview_required_filter"))
	assert.Equal(t, 1.5, cfg.Filters["duration_limit_filter"].Settings["min_minutes"])
	assert.Equal(t, 5, cfg.LastFM.HintTagCount)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		p := 0.2
		return Config{
			Admin: AdminConfig{Token: "test-admin-token"},
			Game: GameConfig{
				RepeatProbability: &p,
				RoundLimitPresets: []int{5, 10},
			},
			Sources: []SourceConfig{
				{Type: SourceFile, DisplayName: "Party"},
			},
			Spotify: SpotifyConfig{Market: "JP"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing admin token",
			mutate:  func(c *Config) { c.Admin.Token = "" },
			wantErr: true,
			errMsg:  "Token",
		},
		{
			name:    "no sources",
			mutate:  func(c *Config) { c.Sources = nil },
			wantErr: true,
			errMsg:  "Sources",
		},
		{
			name: "unknown source type",
			mutate: func(c *Config) {
				c.Sources[0].Type = "youtube"
			},
			wantErr: true,
			errMsg:  "Type",
		},
		{
			name: "repeat probability above 1",
			mutate: func(c *Config) {
				p := 1.5
				c.Game.RepeatProbability = &p
			},
			wantErr: true,
			errMsg:  "RepeatProbability",
		},
		{
			name:    "non-positive preset",
			mutate:  func(c *Config) { c.Game.RoundLimitPresets = []int{5, 0} },
			wantErr: true,
			errMsg:  "RoundLimitPresets",
		},
		{
			name:    "invalid market length",
			mutate:  func(c *Config) { c.Spotify.Market = "JAPAN" },
			wantErr: true,
			errMsg:  "Market",
		},
		{
			name: "spotify source without credentials",
			mutate: func(c *Config) {
				c.Sources = append(c.Sources, SourceConfig{Type: SourceSpotify, DisplayName: "Spotify"})
			},
			wantErr: true,
			errMsg:  "ClientID",
		},
		{
			name: "duplicate source names",
			mutate: func(c *Config) {
				c.Sources = append(c.Sources, SourceConfig{Type: SourceLibrary, DisplayName: "Party"})
			},
			wantErr: true,
			errMsg:  "duplicate source",
		},
		{
			name: "duplicate player names",
			mutate: func(c *Config) {
				c.Players = []PlayerConfig{{Name: "Alice"}, {Name: "Alice"}}
			},
			wantErr: true,
			errMsg:  "duplicate player name",
		},
		{
			name:    "player without name",
			mutate:  func(c *Config) { c.Players = []PlayerConfig{{SpotifyUserID: "x"}} },
			wantErr: true,
			errMsg:  "Name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()

			if tt.wantErr {
				require.Error(t, err, "expected validation to fail")
				assert.Contains(t, err.Error(), tt.errMsg,
					"error message should mention the problematic field")
			} else {
				assert.NoError(t, err, "expected validation to pass")
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalYAML), 0o600))

	t.Setenv("ADMIN_TOKEN", "from-env")
	t.Setenv("LASTFM_API_KEY", "lastfm-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Admin.Token)
	assert.Equal(t, "lastfm-env", cfg.LastFM.APIKey)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfig_GetMessage(t *testing.T) {
	cfg, err := Parse([]byte(minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, cfg.Messages.SessionFinished, cfg.GetMessage("session_finished"))
	assert.Equal(t, cfg.Messages.InvalidRoundLimit, cfg.GetMessage("invalid_round_limit"))
	assert.Equal(t, cfg.Messages.DefaultError, cfg.GetMessage("unknown_code"))
}
