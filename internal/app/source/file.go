package source

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/osa030/19guess/internal/domain/player"
	"github.com/osa030/19guess/internal/domain/playlist"
	"github.com/osa030/19guess/internal/domain/track"
)

type FileProviderConfig struct {
	Path string `yaml:"path" mapstructure:"path" validate:"required"`
}

// fileSong is one song entry of a playlist file.
type fileSong struct {
	TrackID     string   `json:"trackId" yaml:"trackId"`
	Title       string   `json:"title" yaml:"title"`
	Artists     []string `json:"artists" yaml:"artists"`
	Album       string   `json:"album" yaml:"album"`
	AlbumArtURL string   `json:"albumArtUrl" yaml:"albumArtUrl"`
	PreviewURL  string   `json:"previewUrl" yaml:"previewUrl"`
	SpotifyURL  string   `json:"spotifyUrl" yaml:"spotifyUrl"`
	DurationMs  int64    `json:"durationMs" yaml:"durationMs"`
	AddedByName string   `json:"addedByName" yaml:"addedByName"`
}

// filePlaylist is the layout of a playlist file.
type filePlaylist struct {
	Songs    []fileSong `json:"songs" yaml:"songs"`
	Metadata struct {
		ID          string `json:"id" yaml:"id"`
		Name        string `json:"name" yaml:"name"`
		Description string `json:"description" yaml:"description"`
		Players     []struct {
			Name          string `json:"name" yaml:"name"`
			SpotifyUserID string `json:"spotifyUserId" yaml:"spotifyUserId"`
		} `json:"players" yaml:"players"`
	} `json:"metadata" yaml:"metadata"`
}

// FileProvider reads a playlist exported to a JSON or YAML file.
type FileProvider struct {
	config *FileProviderConfig
}

// NewFileProvider creates a new FileProvider.
func NewFileProvider(settings map[string]any) (*FileProvider, error) {
	var config FileProviderConfig
	if err := decodeSettings(settings, &config); err != nil {
		return nil, err
	}
	zlog.Debug().Msgf("file provider config: %+v", config)
	return &FileProvider{config: &config}, nil
}

// Load reads and parses the playlist file.
func (p *FileProvider) Load(ctx context.Context) (*playlist.Playlist, error) {
	data, err := os.ReadFile(p.config.Path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read playlist file")
	}

	var raw filePlaylist
	switch strings.ToLower(filepath.Ext(p.config.Path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	default:
		err = json.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse playlist file %s", p.config.Path)
	}

	return raw.toPlaylist(strings.TrimSuffix(filepath.Base(p.config.Path), filepath.Ext(p.config.Path)))
}

// Name returns the provider name.
func (p *FileProvider) Name() string {
	return "file"
}

func (f *filePlaylist) toPlaylist(defaultID string) (*playlist.Playlist, error) {
	pl := &playlist.Playlist{
		ID:          f.Metadata.ID,
		Name:        f.Metadata.Name,
		Description: f.Metadata.Description,
		Tracks:      make([]track.Track, 0, len(f.Songs)),
	}
	if pl.ID == "" {
		pl.ID = defaultID
	}
	if pl.Name == "" {
		pl.Name = pl.ID
	}

	for _, fp := range f.Metadata.Players {
		pl.Players = append(pl.Players, player.Player{Name: fp.Name, SpotifyUserID: fp.SpotifyUserID})
	}

	for i, s := range f.Songs {
		if s.TrackID == "" {
			return nil, errors.Newf("song #%d has no trackId", i+1)
		}
		pl.Tracks = append(pl.Tracks, track.Track{
			ID:          s.TrackID,
			Name:        s.Title,
			Artists:     s.Artists,
			Album:       s.Album,
			AlbumArtURL: s.AlbumArtURL,
			PreviewURL:  s.PreviewURL,
			URL:         s.SpotifyURL,
			Duration:    time.Duration(s.DurationMs) * time.Millisecond,
			AddedBy:     s.AddedByName,
		})
	}

	return pl, nil
}
