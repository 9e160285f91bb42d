package di

import (
	"context"

	"github.com/Kargones/apk-files/internal/config"
	"github.com/Kargones/apk-files/internal/entity/filer"
	"github.com/Kargones/apk-files/internal/entity/signature"
	"github.com/Kargones/apk-files/internal/fileio"
	"github.com/Kargones/apk-files/internal/pkg/logging"
	"github.com/Kargones/apk-files/internal/pkg/metrics"
	"github.com/Kargones/apk-files/internal/pkg/output"
)

// App содержит инициализированные зависимости приложения.
// Создаётся через Wire DI в InitializeApp().
//
// При добавлении новых зависимостей:
// 1. Добавить поле в App struct
// 2. Создать провайдер в providers.go
// 3. Добавить провайдер в ProviderSet в wire.go
// 4. Перегенерировать wire_gen.go: go generate ./internal/di/...
type App struct {
	// Config передаётся извне через InitializeApp().
	Config *config.Config

	// Logger создаётся через ProvideLogger на основе LoggingConfig.
	Logger logging.Logger

	// OutputWriter форматирует результаты команд (BR_OUTPUT_FORMAT).
	OutputWriter output.Writer

	// TraceID - идентификатор для корреляции логов одного запуска.
	TraceID string

	// MetricsCollector - Pushgateway или NopCollector при отключённых метриках.
	MetricsCollector metrics.Collector

	// TracerShutdown завершает OTel TracerProvider; nop при отключённом трейсинге.
	TracerShutdown func(context.Context) error

	// FileSystem - дисковая файловая система с корнем FileIOConfig.Root.
	FileSystem filer.FileSystem

	// PlatformFile - низкоуровневые примитивы поверх FileSystem.
	PlatformFile filer.PlatformFile

	// SignatureRegistry защищает подписанные файлы от записи и удаления.
	SignatureRegistry *signature.Registry

	// FileManager - буферизованный ввод-вывод и файловые операции.
	FileManager *fileio.Manager

	// Signer вычисляет и проверяет подписи; манифест уже загружен в реестр.
	Signer *signature.Signer
}
