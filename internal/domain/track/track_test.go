package track

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrack_IsAvailableInMarket(t *testing.T) {
	trueVal := true
	falseVal := false

	tests := []struct {
		name       string
		markets    []string
		isPlayable *bool
		market     string
		expected   bool
	}{
		{
			name:     "available in market using markets list",
			markets:  []string{"JP", "US", "UK"},
			market:   "JP",
			expected: true,
		},
		{
			name:     "not available in market using markets list",
			markets:  []string{"US", "UK"},
			market:   "JP",
			expected: false,
		},
		{
			name:       "isPlayable true takes precedence",
			markets:    []string{"US"},
			isPlayable: &trueVal,
			market:     "JP",
			expected:   true,
		},
		{
			name:       "isPlayable false takes precedence",
			markets:    []string{"JP", "US"},
			isPlayable: &falseVal,
			market:     "JP",
			expected:   false,
		},
		{
			name:     "empty markets list",
			markets:  []string{},
			market:   "JP",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trk := &Track{
				ID:         "test-id",
				Markets:    tt.markets,
				IsPlayable: tt.isPlayable,
			}

			assert.Equal(t, tt.expected, trk.IsAvailableInMarket(tt.market))
		})
	}
}

func TestTrack_ArtistLine(t *testing.T) {
	tests := []struct {
		name     string
		artists  []string
		expected string
		main     string
	}{
		{"single artist", []string{"Queen"}, "Queen", "Queen"},
		{"featured artists", []string{"Daft Punk", "Pharrell Williams", "Nile Rodgers"}, "Daft Punk, Pharrell Williams, Nile Rodgers", "Daft Punk"},
		{"no artists", nil, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trk := &Track{Artists: tt.artists}
			assert.Equal(t, tt.expected, trk.ArtistLine())
			assert.Equal(t, tt.main, trk.MainArtist())
		})
	}
}

func TestTrack_Clone(t *testing.T) {
	playable := true
	original := Track{
		ID:         "t1",
		Name:       "Song",
		Artists:    []string{"A", "B"},
		Markets:    []string{"JP"},
		IsPlayable: &playable,
		AddedBy:    "Alice",
	}

	c := original.Clone()
	assert.Equal(t, original, c)

	c.Artists[0] = "changed"
	c.Markets[0] = "US"
	*c.IsPlayable = false

	assert.Equal(t, "A", original.Artists[0])
	assert.Equal(t, "JP", original.Markets[0])
	assert.True(t, *original.IsPlayable)
}

func TestTrack_HasPreview(t *testing.T) {
	assert.False(t, (&Track{}).HasPreview())
	assert.True(t, (&Track{PreviewURL: "https://p.scdn.co/mp3-preview/abc"}).HasPreview())
}
