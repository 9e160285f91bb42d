// Package movehandler реализует команду move: перемещение файла с повторами.
package movehandler

import (
	"context"
	"fmt"
	"io"

	"github.com/Kargones/apk-files/internal/command"
	"github.com/Kargones/apk-files/internal/command/handlers/shared"
	"github.com/Kargones/apk-files/internal/config"
	"github.com/Kargones/apk-files/internal/constants"
	"github.com/Kargones/apk-files/internal/fileio"
	"github.com/Kargones/apk-files/internal/pkg/dryrun"
	"github.com/Kargones/apk-files/internal/pkg/output"
)

// RegisterCmd регистрирует команду move.
func RegisterCmd() error {
	return command.Register(&Handler{})
}

// Data - результат перемещения.
type Data struct {
	Source   string `json:"source"`
	Dest     string `json:"dest"`
	Replaced bool   `json:"replaced"`
}

// WriteText выводит результат в человекочитаемом формате.
func (d *Data) WriteText(w io.Writer) error {
	suffix := ""
	if d.Replaced {
		suffix = " (заменён)"
	}
	_, err := fmt.Fprintf(w, "%s -> %s%s\n", d.Source, d.Dest, suffix)
	return err
}

// Handler обрабатывает команду move.
type Handler struct{}

// Name возвращает имя команды.
func (h *Handler) Name() string {
	return constants.ActMove
}

// Description возвращает описание команды для вывода в help.
func (h *Handler) Description() string {
	return "Перемещение файла BR_SOURCE в BR_DEST с повторами при ошибке"
}

// Execute перемещает cfg.Source в cfg.Dest.
func (h *Handler) Execute(ctx context.Context, cfg *config.Config) error {
	services, err := shared.Resolve(ctx, cfg)
	if err != nil {
		return shared.NewRun(ctx, cfg, constants.ActMove, nil).Fail(err)
	}
	run := shared.NewRun(ctx, cfg, constants.ActMove, services.Logger)

	if cfg == nil || cfg.Source == "" {
		return run.Fail(shared.MissingParam("BR_SOURCE"))
	}
	if cfg.Dest == "" {
		return run.Fail(shared.MissingParam("BR_DEST"))
	}
	if run.DryRun() {
		return run.Plan(plan(cfg, services))
	}

	replaced := services.Manager.FileExists(cfg.Dest)
	run.Log.Info("Перемещение файла", "source", cfg.Source, "dest", cfg.Dest, "no_retry", cfg.NoRetry)
	err = services.Manager.Move(cfg.Dest, cfg.Source, fileio.MoveOptions{
		Replace:            cfg.Replace,
		EvenIfReadOnly:     cfg.EvenIfReadOnly,
		PreserveAttributes: cfg.PreserveAttributes,
		NoRetry:            cfg.NoRetry,
	})
	if err != nil {
		return run.Fail(fileio.ToAppError("не удалось переместить "+cfg.Source, err))
	}
	return run.Success(&Data{Source: cfg.Source, Dest: cfg.Dest, Replaced: replaced})
}

func plan(cfg *config.Config, services *shared.Services) *output.DryRunPlan {
	manager := services.Manager
	b := dryrun.NewBuilder(constants.ActMove)

	if !manager.FileExists(cfg.Source) {
		return b.Fail("Проверка источника", "источник не существует: "+cfg.Source).Build("")
	}
	if manager.FileExists(cfg.Dest) {
		if !cfg.Replace {
			return b.Fail("Проверка назначения", "файл назначения существует, BR_REPLACE не задан").Build("")
		}
		if _, signed := services.Signer.Registry().Lookup(cfg.Dest); signed {
			return b.Fail("Удаление файла назначения", "файл назначения подписан").Build("")
		}
		b.Step("Удаление файла назначения", map[string]any{"path": cfg.Dest}, cfg.Dest+" будет удалён")
	} else {
		b.Skip("Удаление файла назначения", "файл назначения не существует")
	}

	b.Step("Перемещение", map[string]any{
		"source":   cfg.Source,
		"dest":     cfg.Dest,
		"no_retry": cfg.NoRetry,
	}, cfg.Source+" будет перемещён в "+cfg.Dest)
	return b.Build("1 файл")
}
