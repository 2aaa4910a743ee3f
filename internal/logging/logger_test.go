package logging

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerLevels(t *testing.T) {
	tests := []struct {
		name      string
		minLevel  Level
		logLevel  Level
		shouldLog bool
	}{
		{"debug allowed at debug", Debug, Debug, true},
		{"warn allowed at debug", Debug, Warn, true},
		{"debug blocked at info", Info, Debug, false},
		{"info allowed at info", Info, Info, true},
		{"warn blocked at error", Error, Warn, false},
		{"error allowed at error", Error, Error, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(tt.minLevel)
			logger.SetOutput(log.New(&buf, "", 0))

			switch tt.logLevel {
			case Debug:
				logger.Debug("test message")
			case Info:
				logger.Info("test message")
			case Warn:
				logger.Warn("test message")
			case Error:
				logger.Error("test message")
			}

			if tt.shouldLog {
				assert.NotEmpty(t, buf.String())
				assert.Contains(t, buf.String(), "test message")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestLoggerWithFields(t *testing.T) {
	var buf bytes.Buffer
	base := New(Debug)
	base.SetOutput(log.New(&buf, "", 0))

	derived := base.With("task", "CPP objs/Player.o")
	derived.Info("run")

	assert.Contains(t, buf.String(), "task=")
	assert.Contains(t, buf.String(), "CPP")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, Debug, ParseLevel("debug"))
	assert.Equal(t, Warn, ParseLevel("WARN"))
	assert.Equal(t, Info, ParseLevel("nonsense"))
}
