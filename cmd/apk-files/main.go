// Package main содержит точку входа приложения apk-files.
// Команда выбирается переменной BR_COMMAND, параметры передаются через BR_*.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kargones/apk-files/internal/command"
	"github.com/Kargones/apk-files/internal/command/handlers"
	"github.com/Kargones/apk-files/internal/command/handlers/shared"
	"github.com/Kargones/apk-files/internal/config"
	"github.com/Kargones/apk-files/internal/constants"
	"github.com/Kargones/apk-files/internal/di"
	"github.com/Kargones/apk-files/internal/fileio"
	"github.com/Kargones/apk-files/internal/pkg/apperrors"
	"github.com/Kargones/apk-files/internal/pkg/tracing"
)

func main() {
	if err := handlers.RegisterAll(); err != nil {
		fmt.Fprintf(os.Stderr, "Не удалось зарегистрировать команды: %v\n", err)
		os.Exit(constants.ExitConfig)
	}
	os.Exit(run())
}

// run содержит основную логику приложения и возвращает exit code.
// Вынесена из main(), чтобы os.Exit() вызывался после отработки всех defer
// (tracerShutdown, span.End).
func run() int {
	cfg, err := config.Load()
	if err != nil || cfg == nil {
		fmt.Fprintf(os.Stderr, "Не удалось загрузить конфигурацию приложения: %v\n", err)
		return constants.ExitConfig
	}

	// Пустая команда → help
	if cfg.Command == "" {
		cfg.Command = constants.ActHelp
	}

	app, err := di.InitializeApp(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Не удалось инициализировать приложение: %v\n", err)
		return constants.ExitConfig
	}
	l := app.Logger.With("trace_id", app.TraceID, "command", cfg.Command)
	l.Debug("Информация о сборке",
		"version", constants.Version,
		"commit_hash", constants.PreCommitHash,
	)

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.TracerShutdown(shutdownCtx); err != nil {
			l.Error("ошибка завершения tracing", "error", err.Error())
		}
	}()

	// Компоненты вне DI-графа получают тот же Manager.
	fileio.SetDefault(app.FileManager)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = tracing.WithTraceID(ctx, app.TraceID)
	// Связываем с OTel span context: все span-ы используют этот trace ID.
	ctx = tracing.ContextWithOTelTraceID(ctx, app.TraceID)
	ctx = shared.WithServices(ctx, shared.FromApp(app))

	ctx, span := tracing.StartCommandSpan(ctx, cfg.Command, cfg.Source, cfg.Dest)
	defer span.End()

	handler, ok := command.Get(cfg.Command)
	if !ok {
		l.Error("неизвестная команда",
			"BR_COMMAND", cfg.Command,
			constants.MsgErrProcessing, constants.MsgAppExit,
		)
		return constants.ExitUnknownCommand
	}

	app.MetricsCollector.RecordCommandStart(cfg.Command)
	start := time.Now()

	execErr := handler.Execute(ctx, cfg)

	app.MetricsCollector.RecordCommandEnd(cfg.Command, time.Since(start), execErr == nil)
	if execErr != nil {
		app.MetricsCollector.RecordCommandError(cfg.Command, apperrors.CodeOf(execErr))
	}
	_ = app.MetricsCollector.Push(ctx) // Ошибки push логируются внутри, не критичны

	if execErr != nil {
		span.RecordError(execErr)
		l.Error("Ошибка выполнения команды",
			"error", execErr.Error(),
			"code", apperrors.CodeOf(execErr),
			constants.MsgErrProcessing, constants.MsgAppExit,
		)
		return constants.ExitCommandFailed
	}
	return constants.ExitOK
}
