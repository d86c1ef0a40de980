package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "json", zerolog.InfoLevel)
	log.Debug().Msg("hidden")
	log.Info().Str("slot", "a").Msg("saved")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "saved", entry["message"])
	assert.Equal(t, "a", entry["slot"])
	assert.Contains(t, entry, "time")
}

func TestConsoleLogger(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "console", zerolog.DebugLevel)
	log.Debug().Msg("hello")
	assert.Contains(t, buf.String(), "hello")
	assert.Contains(t, buf.String(), "DBG")
}
