// Package source loads the playlist a game is played with.
package source

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"

	"github.com/osa030/19guess/internal/domain/playlist"
)

// Provider is the interface for playlist sources.
// Different implementations read the playlist from different places
// (e.g., a local file, Spotify, the playlist library).
type Provider interface {
	// Load reads the playlist with its tracks in playlist order.
	Load(ctx context.Context) (*playlist.Playlist, error)

	// Name returns the provider type (used in config).
	Name() string
}

// decodeSettings decodes a provider settings map, applies defaults and
// validates the result.
func decodeSettings(settings map[string]any, out any) error {
	if err := mapstructure.Decode(settings, out); err != nil {
		return errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(out); err != nil {
		return errors.Wrap(err, "failed to set defaults")
	}
	if err := validator.New().Struct(out); err != nil {
		return errors.Wrap(err, "validation failed")
	}
	return nil
}
