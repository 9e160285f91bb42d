// Package logging - структурированное логирование поверх log/slog.
//
// Логи пишутся в stderr или в файл с ротацией; stdout занят результатами команд.
package logging

// Logger - интерфейс логгера, через который пишут все компоненты.
// Аргументы после сообщения - пары ключ-значение:
//
//	logger.Info("Файл скопирован", "source", src, "bytes", n)
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	// With возвращает логгер, добавляющий args ко всем записям.
	With(args ...any) Logger
}

// Форматы записей.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Уровни.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Назначения вывода.
const (
	OutputStderr = "stderr"
	OutputFile   = "file"
)

// Config - настройки логгера. Параметры ротации используются только при Output == "file".
type Config struct {
	Level  string
	Format string
	Output string

	FilePath   string
	MaxSize    int // МБ
	MaxBackups int
	MaxAge     int // дни
	Compress   bool
}

// DefaultConfig возвращает настройки по умолчанию: info, text, stderr.
func DefaultConfig() Config {
	return Config{
		Level:      LevelInfo,
		Format:     FormatText,
		Output:     OutputStderr,
		FilePath:   "/var/log/apk-files.log",
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     7,
		Compress:   true,
	}
}
