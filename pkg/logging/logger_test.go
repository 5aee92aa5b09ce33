package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/thebartekbanach/imgsearch/pkg/config"
)

func TestInitLoggerDefaultsToStdout(t *testing.T) {
	logger, err := InitLogger(config.LogConfig{LogLevel: "info"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logger.Out != os.Stdout {
		t.Fatalf("logger should write to stdout when no file is set")
	}
	if logger.GetLevel() != logrus.InfoLevel {
		t.Fatalf("unexpected level: %s", logger.GetLevel())
	}
}

func TestInitLoggerRotatesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "imgsearch.log")

	logger, err := InitLogger(config.LogConfig{LogLevel: "debug", LogFilePath: path, LogMaxSize: 1, LogMaxBackups: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rotator, ok := logger.Out.(*lumberjack.Logger)
	if !ok {
		t.Fatalf("expected lumberjack output, got %T", logger.Out)
	}
	if rotator.Filename != path || rotator.MaxBackups != 2 {
		t.Fatalf("unexpected rotator settings: %+v", rotator)
	}

	logger.Info("hello")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("log file not created: %v", err)
	}
}

func TestInitLoggerFallsBackWhenDirectoryIsAFile(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, nil, 0o600); err != nil {
		t.Fatalf("could not create blocker: %v", err)
	}

	logger, err := InitLogger(config.LogConfig{LogLevel: "info", LogFilePath: filepath.Join(blocker, "app.log")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logger.Out != os.Stdout {
		t.Fatalf("logger should fall back to stdout")
	}
}

func TestInitLoggerRejectsUnknownLevel(t *testing.T) {
	if _, err := InitLogger(config.LogConfig{LogLevel: "loud"}); err == nil {
		t.Fatalf("unknown level should fail")
	}
}
