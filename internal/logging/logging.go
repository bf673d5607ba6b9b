package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/park285/dermacare-server-go/internal/config"
)

const logFileName = "server.log"

// NewLogger 는 trace 연동 없이 전역 로거를 구성한다.
func NewLogger(cfg config.LoggingConfig) (*slog.Logger, error) {
	return NewLoggerWithOTel(cfg, false)
}

// NewLoggerWithOTel 는 stdout(+LogDir 지정 시 회전 파일)으로 쓰는 tint 로거를 만들고 slog 기본값으로 등록한다.
// withTrace 가 true 면 span 이 있는 레코드에 trace_id/span_id 가 붙는다.
func NewLoggerWithOTel(cfg config.LoggingConfig, withTrace bool) (*slog.Logger, error) {
	sink, err := openSink(cfg)
	if err != nil {
		return nil, err
	}

	var handler slog.Handler = tint.NewHandler(sink.writer, &tint.Options{
		Level:      parseLevel(cfg.Level),
		TimeFormat: time.RFC3339,
		AddSource:  true,
		NoColor:    sink.file != nil,
	})
	if withTrace {
		handler = newTraceHandler(handler)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	if sink.file != nil {
		logger.Info("file_logging_enabled", "path", sink.file.Filename)
	}
	return logger, nil
}

type logSink struct {
	writer io.Writer
	file   *lumberjack.Logger
}

func openSink(cfg config.LoggingConfig) (logSink, error) {
	dir := strings.TrimSpace(cfg.LogDir)
	if dir == "" {
		return logSink{writer: os.Stdout}, nil
	}
	if err := validateRotation(cfg); err != nil {
		return logSink{}, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return logSink{}, fmt.Errorf("create log dir %s: %w", dir, err)
	}

	file := &lumberjack.Logger{
		Filename:   filepath.Join(dir, logFileName),
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	return logSink{writer: io.MultiWriter(os.Stdout, file), file: file}, nil
}

func validateRotation(cfg config.LoggingConfig) error {
	var errs []error
	if cfg.MaxSizeMB <= 0 {
		errs = append(errs, fmt.Errorf("LOG_FILE_MAX_SIZE_MB must be positive (got %d)", cfg.MaxSizeMB))
	}
	if cfg.MaxBackups <= 0 {
		errs = append(errs, fmt.Errorf("LOG_FILE_MAX_BACKUPS must be positive (got %d)", cfg.MaxBackups))
	}
	if cfg.MaxAgeDays <= 0 {
		errs = append(errs, fmt.Errorf("LOG_FILE_MAX_AGE_DAYS must be positive (got %d)", cfg.MaxAgeDays))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid log rotation: %w", errors.Join(errs...))
	}
	return nil
}

// parseLevel: 알 수 없는 값은 info.
func parseLevel(raw string) slog.Level {
	value := strings.TrimSpace(raw)
	if strings.EqualFold(value, "warning") {
		return slog.LevelWarn
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return slog.LevelInfo
	}
	return level
}
