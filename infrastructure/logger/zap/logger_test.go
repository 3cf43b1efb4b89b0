package zap

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_ForwardsFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := Wrap(zap.New(core))

	logger.Warn("Translation failed", map[string]interface{}{
		"word":  "data",
		"error": errors.New("timeout"),
	})

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.Message != "Translation failed" || entry.Level != zapcore.WarnLevel {
		t.Errorf("unexpected entry %+v", entry.Entry)
	}
	ctx := entry.ContextMap()
	if ctx["word"] != "data" {
		t.Errorf("word = %v", ctx["word"])
	}
	if ctx["error"] != "timeout" {
		t.Errorf("error = %v", ctx["error"])
	}
}

func TestLogger_Levels(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := Wrap(zap.New(core))

	logger.Debug("hidden", nil)
	logger.Info("shown", nil)
	logger.Error("shown", map[string]interface{}{"page": 2})

	if logs.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", logs.Len())
	}
}

func TestNew_InvalidLevelFallsBack(t *testing.T) {
	logger, err := New("verbose")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer logger.Sync()
	logger.Info("ready", nil)
}
