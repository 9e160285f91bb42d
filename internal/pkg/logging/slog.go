package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// SlogAdapter реализует Logger над *slog.Logger.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter оборачивает logger. nil заменяется на slog.Default().
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAdapter{logger: logger}
}

func (s *SlogAdapter) Debug(msg string, args ...any) { s.logger.Debug(msg, args...) }
func (s *SlogAdapter) Info(msg string, args ...any)  { s.logger.Info(msg, args...) }
func (s *SlogAdapter) Warn(msg string, args ...any)  { s.logger.Warn(msg, args...) }
func (s *SlogAdapter) Error(msg string, args ...any) { s.logger.Error(msg, args...) }

// With возвращает новый адаптер с дополнительными атрибутами.
func (s *SlogAdapter) With(args ...any) Logger {
	return &SlogAdapter{logger: s.logger.With(args...)}
}

// NewLogger создаёт логгер с выводом, выбранным по config.Output.
// Неизвестный вывод и ошибки подготовки файла откатываются на stderr с предупреждением.
func NewLogger(config Config) Logger {
	return NewLoggerWithWriter(config, outputWriter(config))
}

// NewLoggerWithWriter создаёт логгер, пишущий в w.
func NewLoggerWithWriter(config Config, w io.Writer) Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(config.Level)}
	var handler slog.Handler = slog.NewTextHandler(w, opts)
	if strings.EqualFold(config.Format, FormatJSON) {
		handler = slog.NewJSONHandler(w, opts)
	}
	return NewSlogAdapter(slog.New(handler))
}

func outputWriter(config Config) io.Writer {
	switch config.Output {
	case OutputStderr, "":
		return os.Stderr
	case OutputFile:
		if config.FilePath == "" {
			warn("logging: output=file без filePath, используется stderr")
			return os.Stderr
		}
		if err := os.MkdirAll(filepath.Dir(config.FilePath), 0o750); err != nil {
			warn(fmt.Sprintf("logging: директория логов %s: %v, используется stderr", config.FilePath, err))
			return os.Stderr
		}
		return &lumberjack.Logger{
			Filename:   config.FilePath,
			MaxSize:    config.MaxSize,
			MaxBackups: config.MaxBackups,
			MaxAge:     config.MaxAge,
			Compress:   config.Compress,
		}
	default:
		warn(fmt.Sprintf("logging: неизвестный output %q, используется stderr", config.Output))
		return os.Stderr
	}
}

// warn пишет в stderr до того, как логгер создан.
func warn(msg string) {
	_, _ = fmt.Fprintln(os.Stderr, "WARNING:", msg) //nolint:errcheck // stderr
}

// parseLevel переводит уровень в slog.Level; неизвестные значения дают info.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
