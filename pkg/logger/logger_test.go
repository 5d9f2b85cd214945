package logger

import (
	"errors"
	"testing"
)

func TestLoggerInit(t *testing.T) {
	Init("info", "text")
	log := Get()
	if log == nil {
		t.Fatal("Logger is nil")
	}
}

func TestLoggerLevels(t *testing.T) {
	Init("debug", "text")
	log := Get()
	log.Debug("debug")
	log.Info("info")
	log.Warn("warn")
	log.Error("error")
}

func TestLoggerWith(t *testing.T) {
	Init("info", "text")
	log := Get().With("room", "lobby")
	log.Info("message", "key", "value")
	log.ErrorErr("failed", errors.New("boom"), "room", "lobby")
}

func TestLoggerFormats(t *testing.T) {
	for _, format := range []string{"text", "json"} {
		Init("info", format)
		log := Get()
		if log == nil {
			t.Errorf("Logger nil for format %s", format)
		}
	}
}

func TestLoggerUninitializedFallback(t *testing.T) {
	globalLogger = nil
	log := Get()
	if log == nil {
		t.Fatal("Get should fall back to a default logger")
	}
	log.Info("fallback works")
}
