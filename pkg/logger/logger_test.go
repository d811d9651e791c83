package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestNewStampsAppField(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "info"}).Output(&buf)

	l.Info().Msg("booted")

	assert.Contains(t, buf.String(), `"app":"dugout"`)
	assert.Contains(t, buf.String(), `"message":"booted"`)
}

func TestNewLevelParsing(t *testing.T) {
	tests := []struct {
		name  string
		level string
		want  zerolog.Level
	}{
		{"debug", "debug", zerolog.DebugLevel},
		{"warn", "warn", zerolog.WarnLevel},
		{"mixed case", "ERROR", zerolog.ErrorLevel},
		{"unknown falls back to info", "chatty", zerolog.InfoLevel},
		{"empty falls back to info", "", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			New(Config{Level: tt.level})
			assert.Equal(t, tt.want, zerolog.GlobalLevel())
		})
	}
}

func TestInfoLevelSkipsCaller(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "info"}).Output(&buf)

	l.Info().Msg("no caller expected")

	assert.NotContains(t, buf.String(), `"caller"`)
}

func TestDebugLevelIncludesCaller(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "debug"}).Output(&buf)

	l.Debug().Msg("caller expected")

	assert.Contains(t, buf.String(), `"caller"`)
}

func TestSetGlobalLogger(t *testing.T) {
	var buf bytes.Buffer
	SetGlobalLogger(New(Config{Level: "info"}).Output(&buf))

	log.Info().Msg("via global")

	assert.Contains(t, buf.String(), `"message":"via global"`)
}
