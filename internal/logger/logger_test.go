package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestSetupWritesRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	log := Setup("debug", "json", path)
	log.Info().Str("component", "test").Msg("hello file")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"message":"hello file"`) {
		t.Errorf("log file missing message, got %q", string(data))
	}
	if !strings.Contains(string(data), `"component":"test"`) {
		t.Errorf("log file missing component field, got %q", string(data))
	}
}

func TestSetupFallsBackToInfo(t *testing.T) {
	_ = Setup("shouting", "json", "")
	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Errorf("global level = %v, want info", zerolog.GlobalLevel())
	}
}
