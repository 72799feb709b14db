package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"", zerolog.InfoLevel},
		{"info", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"verbose", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input))
		})
	}
}

func TestNew_JSONOutput(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	l := New(&buf, false, zerolog.InfoLevel, "19guess-server")

	l.Debug().Msg("hidden")
	l.Info().Msgf("game created: id=%s", "g1")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "game created: id=g1", entry["message"])
	assert.Equal(t, "19guess-server", entry["app"])
	assert.Contains(t, entry, "time")
	assert.NotContains(t, entry, "caller")
}

func TestNew_DebugAddsCaller(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	l := New(&buf, false, zerolog.DebugLevel, "")
	l.Debug().Msg("round started")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Contains(t, entry["caller"], "logger/logger_test.go:")
}

func TestOpenWriter(t *testing.T) {
	_, console, err := openWriter(Config{})
	require.NoError(t, err)
	assert.True(t, console)

	_, _, err = openWriter(Config{Output: "file"})
	assert.Error(t, err)

	_, _, err = openWriter(Config{Output: "syslog"})
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "logs", "server.log")
	w, console, err := openWriter(Config{Output: "file", File: path})
	require.NoError(t, err)
	assert.False(t, console)
	if f, ok := w.(*os.File); ok {
		f.Close()
	}
	assert.FileExists(t, path)
}
