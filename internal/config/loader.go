package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Kargones/apk-files/internal/pkg/apperrors"
	"github.com/Kargones/apk-files/internal/pkg/urlutil"
	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

// Load загружает конфигурацию из BR_CONFIG_FILE и переменных окружения.
// Ошибки возвращаются как *apperrors.AppError с кодами CONFIG.*.
func Load() (*Config, error) {
	return LoadWithLogger(bootstrapLogger())
}

// LoadWithLogger аналогичен Load, но пишет диагностику в l.
func LoadWithLogger(l *slog.Logger) (*Config, error) {
	cfg := &Config{}
	if err := cleanenv.ReadEnv(&cfg.InputParams); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrConfigLoad,
			"не удалось прочитать переменные окружения", err)
	}

	if cfg.ConfigFile != "" {
		appConfig, err := loadAppConfig(cfg.ConfigFile)
		if err != nil {
			return nil, err
		}
		cfg.AppConfig = appConfig
		l.Debug("Файл конфигурации прочитан", slog.String("path", cfg.ConfigFile))
	}

	app := cfg.AppConfig
	if app == nil {
		app = &AppConfig{}
	}
	var err error
	if cfg.FileIOConfig, err = overlayEnv("fileio", &app.FileIO, isFileIOConfigPresent(&app.FileIO), getDefaultFileIOConfig); err != nil {
		return nil, err
	}
	if cfg.LoggingConfig, err = overlayEnv("logging", &app.Logging, app.Logging != LoggingConfig{}, getDefaultLoggingConfig); err != nil {
		return nil, err
	}
	if cfg.MetricsConfig, err = overlayEnv("metrics", &app.Metrics, metricsPresent(&app.Metrics), defaultMetricsConfig); err != nil {
		return nil, err
	}
	if cfg.TracingConfig, err = overlayEnv("tracing", &app.Tracing, tracingPresent(&app.Tracing), defaultTracingConfig); err != nil {
		return nil, err
	}
	l.Debug("Конфигурация загружена",
		slog.String("fileio_root", cfg.FileIOConfig.Root),
		slog.String("log_level", cfg.LoggingConfig.Level),
		slog.Bool("metrics", cfg.MetricsConfig.Enabled),
		slog.String("pushgateway_url", urlutil.MaskURL(cfg.MetricsConfig.PushgatewayURL)),
		slog.Bool("tracing", cfg.TracingConfig.Enabled),
		slog.String("tracing_endpoint", urlutil.MaskURL(cfg.TracingConfig.Endpoint)),
	)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// overlayEnv берёт секцию из файла, если она там задана, иначе значения по умолчанию,
// и накладывает поверх переменные окружения BR_*.
func overlayEnv[T any](section string, fromFile *T, present bool, defaults func() *T) (*T, error) {
	target := defaults()
	if present {
		target = fromFile
	}
	if err := cleanenv.ReadEnv(target); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrConfigLoad,
			"не удалось загрузить секцию "+section, err)
	}
	return target, nil
}

// loadAppConfig читает YAML-файл конфигурации. Неизвестные ключи считаются ошибкой.
func loadAppConfig(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path) //nolint:gosec // путь задаёт оператор через BR_CONFIG_FILE
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrConfigLoad,
			"не удалось прочитать файл конфигурации", err)
	}

	var appConfig AppConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&appConfig); err != nil && !errors.Is(err, io.EOF) {
		return nil, apperrors.NewAppError(apperrors.ErrConfigParse,
			"не удалось разобрать файл конфигурации", err)
	}
	return &appConfig, nil
}

// Validate проверяет все секции. Найденные ошибки объединяются
// в один AppError с кодом CONFIG.VALIDATION_FAILED.
func (c *Config) Validate() error {
	var errs []error
	switch strings.ToLower(c.OutputFormat) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("output: неизвестный формат %q", c.OutputFormat))
	}
	if c.FileIOConfig != nil {
		errs = append(errs, validateFileIOConfig(c.FileIOConfig))
	}
	if c.LoggingConfig != nil {
		errs = append(errs, validateLoggingConfig(c.LoggingConfig))
	}
	if c.MetricsConfig != nil {
		errs = append(errs, validateMetricsConfig(c.MetricsConfig))
	}
	if c.TracingConfig != nil {
		errs = append(errs, validateTracingConfig(c.TracingConfig))
	}

	if err := errors.Join(errs...); err != nil {
		return apperrors.NewAppError(apperrors.ErrConfigValidate, "некорректная конфигурация", err)
	}
	return nil
}

// bootstrapLogger используется до создания основного логгера: только предупреждения в stderr.
func bootstrapLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}
