package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: "debug", Format: FormatJSON}, &buf)

	logger.Debug().Str("step", "parse").Msg("resume parsed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "parse", entry["step"])
	assert.Equal(t, "resume parsed", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestNew_LevelFallback(t *testing.T) {
	for _, level := range []string{"", "verbose"} {
		logger := New(Options{Level: level}, &bytes.Buffer{})
		assert.Equal(t, zerolog.InfoLevel, logger.GetLevel(), level)
	}
	assert.Equal(t, zerolog.WarnLevel, New(Options{Level: " WARN "}, &bytes.Buffer{}).GetLevel())
}

func TestNew_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: "error"}, &buf)
	logger.Info().Msg("ignored")
	assert.Empty(t, buf.String())
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Format: FormatConsole}, &buf)
	logger.Info().Str("template", "default").Msg("rendered")

	out := buf.String()
	assert.Contains(t, out, "rendered")
	assert.Contains(t, out, "template=default")
	assert.NotContains(t, out, `"message"`)
}

func TestNew_Caller(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Caller: true}, &buf)
	logger.Info().Msg("x")
	assert.Contains(t, buf.String(), "logging_test.go")
}
