package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// setup installs a logger for one test and restores the previous one after.
func setup(t *testing.T, opts Options) {
	t.Helper()
	restore := Replace(Log)
	t.Cleanup(func() {
		Sync()
		restore()
	})
	if err := Setup(opts); err != nil {
		t.Fatalf("Setup: %v", err)
	}
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	Sync()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	return string(data)
}

func TestSetupCreatesLogDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs", "today", "paintsim.log")
	cfg := DefaultFileConfig(path)
	cfg.Compress = false
	setup(t, Options{Level: "debug", File: cfg})

	Debug("stamp", zap.String("surface", "left-0"))

	content := readLog(t, path)
	for _, want := range []string{"DEBUG", "stamp", "left-0"} {
		if !strings.Contains(content, want) {
			t.Errorf("log missing %q:\n%s", want, content)
		}
	}
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level    string
		expected []string
		excluded []string
	}{
		{"error", []string{"ERROR"}, []string{"WARN", "INFO", "DEBUG"}},
		{"warn", []string{"ERROR", "WARN"}, []string{"INFO", "DEBUG"}},
		{"", []string{"ERROR", "WARN", "INFO"}, []string{"DEBUG"}},
		{"debug", []string{"ERROR", "WARN", "INFO", "DEBUG"}, nil},
	}

	for _, tt := range tests {
		t.Run("level="+tt.level, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "levels.log")
			setup(t, Options{Level: tt.level, File: FileConfig{Path: path, MaxSizeMB: 1}})

			Debug("debug message")
			Info("info message")
			Warn("warn message")
			Error("error message")

			content := readLog(t, path)
			for _, exp := range tt.expected {
				if !strings.Contains(content, exp) {
					t.Errorf("expected %s in log output", exp)
				}
			}
			for _, exc := range tt.excluded {
				if strings.Contains(content, exc) {
					t.Errorf("unexpected %s in log output", exc)
				}
			}
		})
	}
}

func TestSetupRejectsUnknownLevel(t *testing.T) {
	prev := Log
	err := Setup(Options{Level: "verbose", Console: &bytes.Buffer{}})
	if !errors.Is(err, ErrUnknownLevel) {
		t.Fatalf("Setup() = %v, want ErrUnknownLevel", err)
	}
	if Log != prev {
		t.Error("a failed Setup must keep the previous logger")
	}
}

func TestConsoleAndFields(t *testing.T) {
	var buf bytes.Buffer
	setup(t, Options{
		Level:   "info",
		Console: &buf,
		Fields:  []zap.Field{zap.String("cmd", "paintsim")},
	})

	Named("arbiter").Info("contact released")

	out := buf.String()
	for _, want := range []string{"INFO", "arbiter", "contact released", "paintsim"} {
		if !strings.Contains(out, want) {
			t.Errorf("console output missing %q: %s", want, out)
		}
	}
}

func TestSetupWithoutOutputsDiscards(t *testing.T) {
	setup(t, Options{Level: "debug"})
	if Log.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("a logger without outputs should be a no-op")
	}
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("/tmp/paint.log")
	want := FileConfig{Path: "/tmp/paint.log", MaxSizeMB: 10, MaxBackups: 5, MaxAgeDays: 14, Compress: true}
	if cfg != want {
		t.Errorf("DefaultFileConfig = %+v, want %+v", cfg, want)
	}
}

func TestLogRotation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rotate.log")
	setup(t, Options{Level: "info", File: FileConfig{Path: path, MaxSizeMB: 1, MaxBackups: 2}})

	// About 3 MB of entries, well past the 1 MB limit.
	line := strings.Repeat("x", 200)
	for i := 0; i < 15000; i++ {
		Sugar.Infof("decay tick %d: %s", i, line)
	}
	Sync()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading dir: %v", err)
	}
	rotated := 0
	for _, e := range entries {
		name := e.Name()
		if name != "rotate.log" && strings.HasPrefix(name, "rotate-20") {
			rotated++
		}
	}
	if rotated == 0 {
		t.Errorf("no rotated files in %v", entries)
	}
}

func TestReplaceRestores(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	restore := Replace(zap.New(core))

	Warn("surface not initialized", zap.Uint32("surface", 7))
	Info("dropped below level")
	restore()

	Warn("after restore")

	if logs.Len() != 1 {
		t.Fatalf("expected 1 observed entry, got %d", logs.Len())
	}
	entry := logs.All()[0]
	if entry.Message != "surface not initialized" {
		t.Errorf("unexpected message %q", entry.Message)
	}
	if entry.ContextMap()["surface"] != uint32(7) {
		t.Errorf("expected surface field 7, got %v", entry.ContextMap()["surface"])
	}
}

func TestDefaultLoggerIsUsableBeforeSetup(t *testing.T) {
	restore := Replace(zap.NewNop())
	defer restore()

	Debug("noop")
	Named("paint").Info("noop")
	Sugar.Infof("noop %d", 1)
}
