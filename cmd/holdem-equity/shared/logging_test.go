package shared

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestSetupLoggerLevels(t *testing.T) {
	tests := []struct {
		level string
		debug bool
		want  zerolog.Level
	}{
		{"info", false, zerolog.InfoLevel},
		{"warn", false, zerolog.WarnLevel},
		{"error", true, zerolog.DebugLevel},
		{"", false, zerolog.InfoLevel},
		{"nonsense", false, zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := SetupLogger(&bytes.Buffer{}, tt.level, tt.debug, true)
			assert.Equal(t, tt.want, logger.GetLevel())
		})
	}
}

func TestSetupLoggerWrites(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupLogger(&buf, "info", false, true)
	logger.Debug().Msg("hidden")
	logger.Info().Int("entries", 3).Msg("loaded")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "loaded")
	assert.Contains(t, out, "entries=3")
}

func TestSetupEngineLogger(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, log.WarnLevel, SetupEngineLogger(&buf, false).GetLevel())

	logger := SetupEngineLogger(&buf, true)
	assert.Equal(t, log.DebugLevel, logger.GetLevel())
	logger.Debug("enumerated", "cases", 990)
	assert.Contains(t, buf.String(), "cases=990")
}
