// Package copyhandler реализует команду copy: копирование файла
// через fileio.Manager с опциональным отображением прогресса.
package copyhandler

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/Kargones/apk-files/internal/command"
	"github.com/Kargones/apk-files/internal/command/handlers/shared"
	"github.com/Kargones/apk-files/internal/config"
	"github.com/Kargones/apk-files/internal/constants"
	"github.com/Kargones/apk-files/internal/fileio"
	"github.com/Kargones/apk-files/internal/pkg/dryrun"
	"github.com/Kargones/apk-files/internal/pkg/output"
	"github.com/Kargones/apk-files/internal/pkg/progress"
)

// RegisterCmd регистрирует команду copy.
func RegisterCmd() error {
	return command.Register(&Handler{})
}

// Data - результат копирования.
type Data struct {
	Source string `json:"source"`
	Dest   string `json:"dest"`
	Bytes  int64  `json:"bytes"`
	Result string `json:"result"`
}

// WriteText выводит результат в человекочитаемом формате.
func (d *Data) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s -> %s: %s (%d байт)\n", d.Source, d.Dest, d.Result, d.Bytes)
	return err
}

// Handler обрабатывает команду copy.
type Handler struct {
	// progressOutput переопределяет вывод прогресса (nil - stderr).
	progressOutput io.Writer
}

// Name возвращает имя команды.
func (h *Handler) Name() string {
	return constants.ActCopy
}

// Description возвращает описание команды для вывода в help.
func (h *Handler) Description() string {
	return "Копирование файла BR_SOURCE в BR_DEST"
}

// Execute копирует cfg.Source в cfg.Dest.
func (h *Handler) Execute(ctx context.Context, cfg *config.Config) error {
	services, err := shared.Resolve(ctx, cfg)
	if err != nil {
		return shared.NewRun(ctx, cfg, constants.ActCopy, nil).Fail(err)
	}
	run := shared.NewRun(ctx, cfg, constants.ActCopy, services.Logger)

	if cfg == nil || cfg.Source == "" {
		return run.Fail(shared.MissingParam("BR_SOURCE"))
	}
	if cfg.Dest == "" {
		return run.Fail(shared.MissingParam("BR_DEST"))
	}

	manager := services.Manager
	if run.DryRun() {
		return run.Plan(h.plan(cfg, services))
	}

	opts := fileio.CopyOptions{
		Replace:            cfg.Replace,
		EvenIfReadOnly:     cfg.EvenIfReadOnly,
		PreserveAttributes: cfg.PreserveAttributes,
	}
	size := manager.FileSize(cfg.Source)
	if cfg.Progress && size >= 0 {
		p := progress.New(progress.Options{Output: h.progressOutput, ShowETA: true, Format: run.Format}, run.Log)
		opts.Progress = progress.CopyPoller(ctx, p, size, cfg.Source)
	}

	_, signed := services.Signer.Registry().Lookup(cfg.Dest)
	protected := signed && manager.FileExists(cfg.Dest)

	run.Log.Info("Копирование файла", "source", cfg.Source, "dest", cfg.Dest, "progress", opts.Progress != nil)
	result, err := manager.Copy(cfg.Dest, cfg.Source, opts)
	if err != nil {
		return run.Fail(fileio.ToAppError("не удалось скопировать "+cfg.Source, err))
	}

	data := &Data{Source: cfg.Source, Dest: cfg.Dest, Bytes: size, Result: result.String()}
	summary := output.NewSummaryInfo()
	if protected {
		data.Bytes = 0
		summary.AddWarning("файл назначения подписан и не был перезаписан")
	}
	summary.AddMetric("Скопировано", strconv.FormatInt(data.Bytes, 10), "байт")
	return run.SuccessWithSummary(data, summary)
}

// plan описывает копирование без выполнения.
func (h *Handler) plan(cfg *config.Config, services *shared.Services) *output.DryRunPlan {
	manager := services.Manager
	b := dryrun.NewBuilder(constants.ActCopy)

	if !manager.FileExists(cfg.Source) {
		return b.Fail("Проверка источника", "источник не существует: "+cfg.Source).Build("")
	}
	if _, signed := services.Signer.Registry().Lookup(cfg.Dest); signed && manager.FileExists(cfg.Dest) {
		return b.Skip("Копирование", "файл назначения подписан").Build("0 файлов")
	}
	if manager.FileExists(cfg.Dest) {
		if !cfg.Replace {
			return b.Fail("Проверка назначения", "файл назначения существует, BR_REPLACE не задан").Build("")
		}
		if manager.IsReadOnly(cfg.Dest) && !cfg.EvenIfReadOnly {
			return b.Fail("Проверка назначения", "файл назначения только для чтения").Build("")
		}
	}

	size := manager.FileSize(cfg.Source)
	b.Step("Копирование", map[string]any{
		"source":              cfg.Source,
		"dest":                cfg.Dest,
		"bytes":               size,
		"replace":             cfg.Replace,
		"preserve_attributes": cfg.PreserveAttributes,
	}, cfg.Dest+" будет записан")
	return b.Build(fmt.Sprintf("1 файл, %d байт", size))
}
