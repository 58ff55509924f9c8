package app

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestDetermineLogLevel(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		want   string
	}{
		{"default", Config{}, "info"},
		{"explicit level wins", Config{LogLevel: "error", Verbose: true}, "error"},
		{"invalid level falls back", Config{LogLevel: "loud"}, "info"},
		{"verbose", Config{Verbose: true}, "debug"},
		{"quiet", Config{Quiet: true}, "warn"},
		{"verbose and quiet prefers quiet", Config{Verbose: true, Quiet: true}, "warn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, determineLogLevel(&tt.config))
		})
	}
}

func TestNewLoggerLevel(t *testing.T) {
	logger := NewLogger(&Config{Verbose: true, LogFormat: "json"})
	assert.Equal(t, zerolog.DebugLevel, logger.GetLevel())
}
