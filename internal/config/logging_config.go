package config

import (
	"fmt"

	"github.com/Kargones/apk-files/internal/pkg/logging"
)

// LoggingConfig содержит настройки логирования.
// Значения по умолчанию совпадают с logging.DefaultConfig().
type LoggingConfig struct {
	// Level - уровень логирования (debug, info, warn, error)
	Level string `yaml:"level" env:"BR_LOG_LEVEL" env-default:"info"`

	// Format - формат логов (json, text)
	Format string `yaml:"format" env:"BR_LOG_FORMAT" env-default:"text"`

	// Output - вывод логов (stderr, file)
	Output string `yaml:"output" env:"BR_LOG_OUTPUT" env-default:"stderr"`

	// FilePath - путь к файлу логов (если output=file)
	FilePath string `yaml:"filePath" env:"BR_LOG_FILE_PATH"`

	// MaxSize - максимальный размер файла лога в MB
	MaxSize int `yaml:"maxSize" env:"BR_LOG_MAX_SIZE" env-default:"100"`

	// MaxBackups - максимальное количество backup файлов
	MaxBackups int `yaml:"maxBackups" env:"BR_LOG_MAX_BACKUPS" env-default:"3"`

	// MaxAge - максимальный возраст backup файлов в днях
	MaxAge int `yaml:"maxAge" env:"BR_LOG_MAX_AGE" env-default:"7"`

	// Compress - сжимать ли backup файлы.
	// compress: false в YAML перекрывается env-default, отключать сжатие нужно через BR_LOG_COMPRESS.
	Compress bool `yaml:"compress" env:"BR_LOG_COMPRESS" env-default:"true"`
}

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// getDefaultLoggingConfig возвращает конфигурацию логирования по умолчанию.
func getDefaultLoggingConfig() *LoggingConfig {
	return &LoggingConfig{
		Level:      "info",
		Format:     "text",
		Output:     "stderr",
		FilePath:   "/var/log/apk-files.log",
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     7,
		Compress:   true,
	}
}

// Logger накладывает непустые поля секции на logging.DefaultConfig().
// Нулевые размеры ротации не имеют смысла для lumberjack и не переносятся.
func (lc *LoggingConfig) Logger() logging.Config {
	out := logging.DefaultConfig()
	for dst, src := range map[*string]string{
		&out.Level: lc.Level, &out.Format: lc.Format, &out.Output: lc.Output, &out.FilePath: lc.FilePath,
	} {
		if src != "" {
			*dst = src
		}
	}
	for dst, src := range map[*int]int{&out.MaxSize: lc.MaxSize, &out.MaxBackups: lc.MaxBackups, &out.MaxAge: lc.MaxAge} {
		if src > 0 {
			*dst = src
		}
	}
	out.Compress = lc.Compress
	return out
}

// validateLoggingConfig проверяет уровень, формат и вывод логов.
func validateLoggingConfig(lc *LoggingConfig) error {
	if !validLogLevels[lc.Level] {
		return fmt.Errorf("logging: неизвестный уровень %q", lc.Level)
	}
	switch lc.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging: неизвестный формат %q", lc.Format)
	}
	switch lc.Output {
	case "stderr":
	case "file":
		if lc.FilePath == "" {
			return fmt.Errorf("logging: filePath обязателен при output=file")
		}
	default:
		return fmt.Errorf("logging: неизвестный вывод %q", lc.Output)
	}
	return nil
}
