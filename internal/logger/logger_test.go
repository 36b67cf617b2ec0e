package logger

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestSetup(t *testing.T) {
	tests := []struct {
		name   string
		level  string
		format string
		want   zerolog.Level
	}{
		{"debug level", "debug", "console", zerolog.DebugLevel},
		{"info level", "info", "console", zerolog.InfoLevel},
		{"warn level", "warn", "console", zerolog.WarnLevel},
		{"error level", "error", "console", zerolog.ErrorLevel},
		{"json format", "info", "json", zerolog.InfoLevel},
		{"uppercase level", "DEBUG", "console", zerolog.DebugLevel},
		{"unknown level falls back to info", "chatty", "console", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Setup(tt.level, tt.format)
			if got := zerolog.GlobalLevel(); got != tt.want {
				t.Errorf("global level = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOpEvent(t *testing.T) {
	Setup("debug", "json")
	// Must not panic; the event carries op and dtype fields.
	Op("convert", "float32").Msg("test event")
}
