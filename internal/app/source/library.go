package source

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/osa030/19guess/internal/domain/playlist"
)

// LibraryStore defines the library operation needed by the library provider.
type LibraryStore interface {
	Load(ctx context.Context, id string) (*playlist.Playlist, error)
}

type LibraryProviderConfig struct {
	PlaylistID string `yaml:"playlist_id" mapstructure:"playlist_id" validate:"required"`
}

// LibraryProvider reads a playlist previously imported into the library.
type LibraryProvider struct {
	store  LibraryStore
	config *LibraryProviderConfig
}

// NewLibraryProvider creates a new LibraryProvider.
func NewLibraryProvider(store LibraryStore, settings map[string]any) (*LibraryProvider, error) {
	if store == nil {
		return nil, errors.New("library store is required")
	}

	var config LibraryProviderConfig
	if err := decodeSettings(settings, &config); err != nil {
		return nil, err
	}
	return &LibraryProvider{store: store, config: &config}, nil
}

// Load reads the stored playlist.
func (p *LibraryProvider) Load(ctx context.Context) (*playlist.Playlist, error) {
	pl, err := p.store.Load(ctx, p.config.PlaylistID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load playlist from library")
	}
	return pl, nil
}

// Name returns the provider name.
func (p *LibraryProvider) Name() string {
	return "library"
}
