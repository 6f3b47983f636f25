package utils

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	t.Run("debug mode returns development logger", func(t *testing.T) {
		logger, err := NewLogger(true)
		if err != nil {
			t.Fatalf("NewLogger(true) error: %v", err)
		}
		if logger == nil {
			t.Fatal("NewLogger(true) returned nil logger")
		}
		_ = logger.Sync()
	})

	t.Run("production mode returns production logger", func(t *testing.T) {
		logger, err := NewLogger(false)
		if err != nil {
			t.Fatalf("NewLogger(false) error: %v", err)
		}
		if logger == nil {
			t.Fatal("NewLogger(false) returned nil logger")
		}
		_ = logger.Sync()
	})
}

func TestNewLoggerWithLevel(t *testing.T) {
	tests := []struct {
		name    string
		debug   bool
		level   string
		wantErr bool
	}{
		{"default level", false, "", false},
		{"warn override", false, "warn", false},
		{"debug override in production", false, "debug", false},
		{"error override in development", true, "error", false},
		{"unknown level", false, "loud", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLoggerWithLevel(tt.debug, tt.level)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewLoggerWithLevel(%v, %q) error = %v, wantErr %v", tt.debug, tt.level, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if tt.level == "warn" && logger.Core().Enabled(zapcore.InfoLevel) {
				t.Error("info should be disabled at warn level")
			}
			if tt.level == "debug" && !logger.Core().Enabled(zapcore.DebugLevel) {
				t.Error("debug should be enabled")
			}
			_ = logger.Sync()
		})
	}
}
