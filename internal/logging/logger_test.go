package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_InvalidLevel(t *testing.T) {
	_, _, err := New("shouty", "", nil)
	require.Error(t, err)
}

func TestNew_WritesJSONToFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "tada.log")

	l, closer, err := New("info", file, nil)
	require.NoError(t, err)

	l.Debug().Msg("hidden")
	l.Error().Str("op", "delete").Msg("failed to delete todo")
	closer()

	data, err := os.ReadFile(file)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "delete", entry["op"])
	assert.Equal(t, "failed to delete todo", entry["message"])
}

func TestNew_ConsoleWriter(t *testing.T) {
	var buf bytes.Buffer
	l, closer, err := New("warn", "", &buf)
	require.NoError(t, err)
	defer closer()

	assert.Equal(t, zerolog.WarnLevel, l.GetLevel())
	l.Info().Msg("quiet")
	l.Warn().Msg("loud")
	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
}
