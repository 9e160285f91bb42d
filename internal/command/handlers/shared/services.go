// Package shared содержит общие компоненты обработчиков команд:
// доступ к менеджеру файлов и единый вывод результата.
package shared

import (
	"context"
	"fmt"

	"github.com/Kargones/apk-files/internal/config"
	"github.com/Kargones/apk-files/internal/di"
	"github.com/Kargones/apk-files/internal/entity/signature"
	"github.com/Kargones/apk-files/internal/fileio"
	"github.com/Kargones/apk-files/internal/pkg/logging"
	"github.com/Kargones/apk-files/internal/pkg/metrics"
)

// Services - зависимости, с которыми работают обработчики.
type Services struct {
	Logger  logging.Logger
	Manager *fileio.Manager
	Signer  *signature.Signer
}

type servicesKey struct{}

// WithServices сохраняет Services в контексте.
func WithServices(ctx context.Context, s *Services) context.Context {
	return context.WithValue(ctx, servicesKey{}, s)
}

// FromApp берёт Services из инициализированного App.
func FromApp(app *di.App) *Services {
	return &Services{
		Logger:  app.Logger,
		Manager: app.FileManager,
		Signer:  app.Signer,
	}
}

// Resolve возвращает Services из контекста. Если main их не положил
// (например, при прямом вызове обработчика), строит их из cfg без метрик.
func Resolve(ctx context.Context, cfg *config.Config) (*Services, error) {
	if s, ok := ctx.Value(servicesKey{}).(*Services); ok && s != nil {
		return s, nil
	}

	logger := di.ProvideLogger(cfg)
	fs, err := di.ProvideFileSystem(cfg)
	if err != nil {
		return nil, fmt.Errorf("инициализация менеджера файлов: %w", err)
	}
	platform := di.ProvidePlatformFile(fs)
	registry := di.ProvideSignatureRegistry(fs)
	manager := di.ProvideFileManager(cfg, fs, platform, registry, logger, metrics.NewNopCollector())
	signer, err := di.ProvideSigner(cfg, manager, registry, logger)
	if err != nil {
		return nil, err
	}
	return &Services{Logger: logger, Manager: manager, Signer: signer}, nil
}
