// Package deletehandler реализует команду delete. Подписанные файлы не удаляются.
package deletehandler

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

// RegisterCmd регистрирует команду delete.
func RegisterCmd() error {
	return command.Register(&Handler{})
}

// Data - результат удаления.
type Data struct {
	Path    string `json:"path"`
	Existed bool   `json:"existed"`
}

// WriteText выводит результат в человекочитаемом формате.
func (d *Data) WriteText(w io.Writer) error {
	if !d.Existed {
		_, err := fmt.Fprintf(w, "%s: файл не существовал\n", d.Path)
		return err
	}
	_, err := fmt.Fprintf(w, "%s: удалён\n", d.Path)
	return err
}

// Handler обрабатывает команду delete.
type Handler struct{}

// Name возвращает имя команды.
func (h *Handler) Name() string {
	return constants.ActDelete
}

// Description возвращает описание команды для вывода в help.
func (h *Handler) Description() string {
	return "Удаление файла BR_SOURCE"
}

// Execute удаляет cfg.Source.
func (h *Handler) Execute(ctx context.Context, cfg *config.Config) error {
	services, err := shared.Resolve(ctx, cfg)
	if err != nil {
		return shared.NewRun(ctx, cfg, constants.ActDelete, nil).Fail(err)
	}
	run := shared.NewRun(ctx, cfg, constants.ActDelete, services.Logger)

	if cfg == nil || cfg.Source == "" {
		return run.Fail(shared.MissingParam("BR_SOURCE"))
	}
	if run.DryRun() {
		return run.Plan(plan(cfg, services))
	}

	existed := services.Manager.FileExists(cfg.Source)
	err = services.Manager.Delete(cfg.Source, fileio.DeleteOptions{
		RequireExists: cfg.RequireExists,
		EvenReadOnly:  cfg.EvenIfReadOnly,
	})
	if err != nil {
		return run.Fail(fileio.ToAppError("не удалось удалить "+cfg.Source, err))
	}
	run.Log.Info("Файл удалён", "path", cfg.Source, "existed", existed)
	return run.Success(&Data{Path: cfg.Source, Existed: existed})
}

func plan(cfg *config.Config, services *shared.Services) *output.DryRunPlan {
	manager := services.Manager
	b := dryrun.NewBuilder(constants.ActDelete)

	if _, signed := services.Signer.Registry().Lookup(cfg.Source); signed {
		return b.Fail("Удаление файла", "файл подписан").Build("")
	}
	if !manager.FileExists(cfg.Source) {
		if cfg.RequireExists {
			return b.Fail("Удаление файла", "файл не существует").Build("")
		}
		return b.Skip("Удаление файла", "файл не существует").Build("0 файлов")
	}
	if manager.IsReadOnly(cfg.Source) && cfg.EvenIfReadOnly {
		b.Step("Снятие атрибута только для чтения", map[string]any{"path": cfg.Source})
	}
	b.Step("Удаление файла", map[string]any{"path": cfg.Source}, cfg.Source+" будет удалён")
	return b.Build("1 файл")
}
