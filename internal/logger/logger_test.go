package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"bogus", zapcore.InfoLevel},
	}
	for _, c := range cases {
		if got := parseLevel(c.in); got != c.want {
			t.Errorf("parseLevel(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestInitWithoutFile(t *testing.T) {
	if err := InitWithFileConfig("debug", FileConfig{}, false); err != nil {
		t.Fatalf("InitWithFileConfig: %v", err)
	}
	if Log == nil || Sugar == nil {
		t.Fatal("expected global loggers to be set")
	}
	// Must not panic even with no cores attached.
	Debug("debug message")
	Info("info message")
	Sync()
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("froggi.log")
	if cfg.Path != "froggi.log" {
		t.Errorf("Path = %q, want froggi.log", cfg.Path)
	}
	if cfg.MaxSizeMB <= 0 || cfg.MaxBackups <= 0 || cfg.MaxAgeDays <= 0 {
		t.Error("rotation defaults should be positive")
	}
}
