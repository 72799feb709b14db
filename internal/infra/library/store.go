// Package library stores imported playlists in a local sqlite database so a
// game can be played without reaching the original source.
package library

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/osa030/19guess/internal/domain/player"
	"github.com/osa030/19guess/internal/domain/playlist"
	"github.com/osa030/19guess/internal/domain/track"
)

var ErrNotFound = errors.New("playlist not found in library")

type playlistRecord struct {
	ID          string `gorm:"primaryKey"`
	UpdatedAt   time.Time
	Name        string `gorm:"not null"`
	Description string
	URL         string
	Players     []playerRecord `gorm:"foreignKey:PlaylistID"`
	Tracks      []trackRecord  `gorm:"foreignKey:PlaylistID"`
}

func (playlistRecord) TableName() string { return "playlists" }

type playerRecord struct {
	ID            uint   `gorm:"primarykey"`
	PlaylistID    string `gorm:"index;not null"`
	Position      int
	Name          string `gorm:"not null"`
	SpotifyUserID string
}

func (playerRecord) TableName() string { return "playlist_players" }

type trackRecord struct {
	ID          uint   `gorm:"primarykey"`
	PlaylistID  string `gorm:"index;not null"`
	Position    int
	TrackID     string   `gorm:"not null"`
	Name        string   `gorm:"not null"`
	Artists     []string `gorm:"serializer:json"`
	Album       string
	AlbumArtURL string
	PreviewURL  string
	URL         string
	DurationMs  int64
	Markets     []string `gorm:"serializer:json"`
	AddedBy     string
	AddedAt     time.Time
}

func (trackRecord) TableName() string { return "playlist_tracks" }

// Entry summarises a stored playlist.
type Entry struct {
	ID         string
	Name       string
	TrackCount int
	UpdatedAt  time.Time
}

// Store is a playlist library backed by gorm.
type Store struct {
	db *gorm.DB
}

// Open opens (or creates) the sqlite library at path and migrates the schema.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open library %s", path)
	}
	return New(db)
}

// New wraps an open database and migrates the schema.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&playlistRecord{}, &playerRecord{}, &trackRecord{}); err != nil {
		return nil, errors.Wrap(err, "failed to migrate library schema")
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get database handle")
	}
	return sqlDB.Close()
}

// Save stores the playlist, replacing any earlier copy with the same ID.
func (s *Store) Save(ctx context.Context, p *playlist.Playlist) error {
	if p.ID == "" {
		return errors.New("playlist ID is required")
	}

	rec := toRecord(p)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteChildren(tx, p.ID); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(&rec).Error; err != nil {
			return errors.Wrap(err, "failed to save playlist")
		}
		if len(rec.Players) > 0 {
			if err := tx.Create(&rec.Players).Error; err != nil {
				return errors.Wrap(err, "failed to save players")
			}
		}
		if len(rec.Tracks) > 0 {
			if err := tx.CreateInBatches(&rec.Tracks, 200).Error; err != nil {
				return errors.Wrap(err, "failed to save tracks")
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	zlog.Info().Msgf("playlist saved to library: id=%s name=%q tracks=%d players=%d", p.ID, p.Name, len(p.Tracks), len(p.Players))
	return nil
}

// Load returns the stored playlist with tracks and players in their saved order.
func (s *Store) Load(ctx context.Context, id string) (*playlist.Playlist, error) {
	var rec playlistRecord
	err := s.db.WithContext(ctx).
		Preload("Players", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		Preload("Tracks", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrapf(ErrNotFound, "id=%s", id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load playlist %s", id)
	}
	return fromRecord(&rec), nil
}

// List returns all stored playlists ordered by name.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	var recs []playlistRecord
	if err := s.db.WithContext(ctx).Order("name asc").Find(&recs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list playlists")
	}

	var counts []struct {
		PlaylistID string
		Count      int
	}
	err := s.db.WithContext(ctx).Model(&trackRecord{}).
		Select("playlist_id, count(*) as count").
		Group("playlist_id").
		Scan(&counts).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to count tracks")
	}
	byID := make(map[string]int, len(counts))
	for _, c := range counts {
		byID[c.PlaylistID] = c.Count
	}

	entries := make([]Entry, len(recs))
	for i, r := range recs {
		entries[i] = Entry{ID: r.ID, Name: r.Name, TrackCount: byID[r.ID], UpdatedAt: r.UpdatedAt}
	}
	return entries, nil
}

// Delete removes a stored playlist.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteChildren(tx, id); err != nil {
			return err
		}
		res := tx.Delete(&playlistRecord{}, "id = ?", id)
		if res.Error != nil {
			return errors.Wrap(res.Error, "failed to delete playlist")
		}
		if res.RowsAffected == 0 {
			return errors.Wrapf(ErrNotFound, "id=%s", id)
		}
		return nil
	})
}

func deleteChildren(tx *gorm.DB, id string) error {
	if err := tx.Where("playlist_id = ?", id).Delete(&trackRecord{}).Error; err != nil {
		return errors.Wrap(err, "failed to delete tracks")
	}
	if err := tx.Where("playlist_id = ?", id).Delete(&playerRecord{}).Error; err != nil {
		return errors.Wrap(err, "failed to delete players")
	}
	return nil
}

func toRecord(p *playlist.Playlist) playlistRecord {
	rec := playlistRecord{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		URL:         p.URL,
		Players:     make([]playerRecord, len(p.Players)),
		Tracks:      make([]trackRecord, len(p.Tracks)),
	}
	for i, pl := range p.Players {
		rec.Players[i] = playerRecord{
			PlaylistID:    p.ID,
			Position:      i,
			Name:          pl.Name,
			SpotifyUserID: pl.SpotifyUserID,
		}
	}
	for i, t := range p.Tracks {
		rec.Tracks[i] = trackRecord{
			PlaylistID:  p.ID,
			Position:    i,
			TrackID:     t.ID,
			Name:        t.Name,
			Artists:     t.Artists,
			Album:       t.Album,
			AlbumArtURL: t.AlbumArtURL,
			PreviewURL:  t.PreviewURL,
			URL:         t.URL,
			DurationMs:  t.Duration.Milliseconds(),
			Markets:     t.Markets,
			AddedBy:     t.AddedBy,
			AddedAt:     t.AddedAt,
		}
	}
	return rec
}

func fromRecord(rec *playlistRecord) *playlist.Playlist {
	p := &playlist.Playlist{
		ID:          rec.ID,
		Name:        rec.Name,
		Description: rec.Description,
		URL:         rec.URL,
		Tracks:      make([]track.Track, len(rec.Tracks)),
	}
	if len(rec.Players) > 0 {
		p.Players = make(player.Roster, len(rec.Players))
		for i, pl := range rec.Players {
			p.Players[i] = player.Player{Name: pl.Name, SpotifyUserID: pl.SpotifyUserID}
		}
	}
	for i, t := range rec.Tracks {
		p.Tracks[i] = track.Track{
			ID:          t.TrackID,
			Name:        t.Name,
			Artists:     t.Artists,
			Album:       t.Album,
			AlbumArtURL: t.AlbumArtURL,
			PreviewURL:  t.PreviewURL,
			URL:         t.URL,
			Duration:    time.Duration(t.DurationMs) * time.Millisecond,
			Markets:     t.Markets,
			AddedBy:     t.AddedBy,
			AddedAt:     t.AddedAt,
		}
	}
	return p
}
