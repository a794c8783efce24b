package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"unknown", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.input))
		})
	}
}

func TestWithFields_ReturnsNewLogger(t *testing.T) {
	base := NewNop()

	withField := base.WithField("ticker", "AAPL")
	assert.NotSame(t, base, withField)

	withFields := base.WithFields(map[string]interface{}{
		"ticker": "AAPL",
		"score":  72.5,
	})
	assert.NotSame(t, base, withFields)
}

func TestNewNop_DoesNotPanic(t *testing.T) {
	log := NewNop()
	log.Debug("debug")
	log.Info("info")
	log.Warn("warn")
	log.Error("error")
	log.Infof("formatted %d", 1)
	log.WithError(assert.AnError).Error("with error")
}
