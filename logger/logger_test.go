package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestLogBeforeInitIsSafe(t *testing.T) {
	Log.Infow("nobody listens", zap.String("k", "v"))
}

func TestInitLoggerAt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	if err := InitLoggerAt(path, zap.InfoLevel); err != nil {
		t.Fatalf("InitLoggerAt failed: %v", err)
	}
	t.Cleanup(func() {
		Log = zap.NewNop().Sugar()
		ZapLogger = zap.NewNop()
	})

	Log.Debugw("hidden")
	Log.Warnw("catalog refreshed", zap.Int("mods", 3))
	Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "WARN") || !strings.Contains(out, "catalog refreshed") {
		t.Errorf("expected warning in log, got %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line should be filtered, got %q", out)
	}
}

func TestInitLoggerAtBadPath(t *testing.T) {
	if err := InitLoggerAt(filepath.Join(t.TempDir(), "no", "such", "dir.log"), zap.InfoLevel); err == nil {
		t.Error("expected error for unwritable path")
	}
}
