package di

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Kargones/apk-files/internal/config"
	"github.com/Kargones/apk-files/internal/constants"
	"github.com/Kargones/apk-files/internal/entity/filer"
	"github.com/Kargones/apk-files/internal/entity/signature"
	"github.com/Kargones/apk-files/internal/fileio"
	"github.com/Kargones/apk-files/internal/pkg/logging"
	"github.com/Kargones/apk-files/internal/pkg/metrics"
	"github.com/Kargones/apk-files/internal/pkg/output"
	"github.com/Kargones/apk-files/internal/pkg/tracing"
)

// ProvideLogger создаёт Logger по секции logging. Без секции используется logging.DefaultConfig().
func ProvideLogger(cfg *config.Config) logging.Logger {
	if cfg == nil || cfg.LoggingConfig == nil {
		return logging.NewLogger(logging.DefaultConfig())
	}
	return logging.NewLogger(cfg.LoggingConfig.Logger())
}

// ProvideOutputWriter создаёт JSONWriter или TextWriter по формату вывода.
// Формат берётся из Config, при его отсутствии из BR_OUTPUT_FORMAT.
func ProvideOutputWriter(cfg *config.Config) output.Writer {
	format := os.Getenv(constants.EnvOutputFormat)
	if cfg != nil && cfg.OutputFormat != "" {
		format = cfg.OutputFormat
	}
	if format == "" {
		format = output.FormatText
	}
	return output.NewWriter(format)
}

// ProvideTraceID возвращает trace_id запуска для корреляции логов.
func ProvideTraceID() string {
	return tracing.GenerateTraceID()
}

// ProvideMetricsCollector создаёт Collector по секции metrics.
// Ошибка создания не прерывает запуск: метрики просто не отправляются.
func ProvideMetricsCollector(cfg *config.Config, logger logging.Logger) metrics.Collector {
	if cfg == nil || cfg.MetricsConfig == nil {
		return metrics.NewNopCollector()
	}
	collector, err := metrics.NewCollector(cfg.MetricsConfig.Collector(), logger)
	if err != nil {
		logger.Warn("метрики отключены", slog.String("error", err.Error()))
		return metrics.NewNopCollector()
	}
	return collector
}

// ProvideTracerProvider регистрирует глобальный TracerProvider и возвращает его shutdown.
func ProvideTracerProvider(cfg *config.Config, logger logging.Logger) tracing.ShutdownFunc {
	if cfg == nil || cfg.TracingConfig == nil {
		return tracing.NewNopTracerProvider()
	}
	shutdown, err := tracing.NewTracerProvider(cfg.TracingConfig.Provider(), logger)
	if err != nil {
		logger.Warn("трейсинг отключён", slog.String("error", err.Error()))
		return tracing.NewNopTracerProvider()
	}
	return shutdown
}

// ProvideFileSystem создаёт дисковую файловую систему с корнем FileIOConfig.Root.
// Пустой корень означает рабочую директорию.
func ProvideFileSystem(cfg *config.Config) (filer.FileSystem, error) {
	root := ""
	if cfg != nil && cfg.FileIOConfig != nil {
		root = cfg.FileIOConfig.Root
	}
	fs, err := filer.New(filer.WithDiskFS(root))
	if err != nil {
		return nil, fmt.Errorf("файловая система %q: %w", root, err)
	}
	return fs, nil
}

// ProvidePlatformFile оборачивает FileSystem в PlatformFile.
func ProvidePlatformFile(fs filer.FileSystem) filer.PlatformFile {
	return filer.NewPlatformFile(fs)
}

// ProvideSignatureRegistry создаёт пустой реестр подписей с корнем файловой системы.
// Корень реестра совпадает с базовой директорией менеджера.
func ProvideSignatureRegistry(fs filer.FileSystem) *signature.Registry {
	return signature.NewRegistry(fs.Root())
}

// ProvideFileManager создаёт fileio.Manager с параметрами из FileIOConfig.
func ProvideFileManager(
	cfg *config.Config,
	fs filer.FileSystem,
	platform filer.PlatformFile,
	registry *signature.Registry,
	logger logging.Logger,
	collector metrics.Collector,
) *fileio.Manager {
	opts := []fileio.Option{fileio.WithBaseDir(fs.Root())}
	if cfg != nil && cfg.FileIOConfig != nil {
		fio := cfg.FileIOConfig
		opts = append(opts,
			fileio.WithReadBufferSize(fio.ReadBufferSize),
			fileio.WithWriteBufferSize(fio.WriteBufferSize),
			fileio.WithCopyChunkSize(fio.CopyChunkSize),
			fileio.WithMoveRetry(fio.MoveRetryCount, fio.RetryDelay),
			fileio.WithRelativePathRoots(fio.RootDir, fio.BinariesDir),
		)
	}
	return fileio.NewManager(platform, registry, logger, collector, opts...)
}

// ProvideSigner создаёт Signer и загружает манифест подписей в реестр.
// Отсутствующий манифест не ошибка: реестр остаётся пустым.
func ProvideSigner(cfg *config.Config, manager *fileio.Manager, registry *signature.Registry, logger logging.Logger) (*signature.Signer, error) {
	signer := signature.NewSigner(manager, registry)

	manifest := cfg.SignatureManifestPath()
	if err := signer.LoadManifestFile(manifest); err != nil {
		return nil, fmt.Errorf("загрузка манифеста подписей: %w", err)
	}
	logger.Debug("Манифест подписей загружен",
		slog.String("manifest", manifest),
		slog.Int("signed_files", registry.Len()),
	)
	return signer, nil
}
