// Package dirhandler реализует команды mkdir и rmdir.
package dirhandler

import (
	"context"
	"errors"
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

// RegisterCmd регистрирует команды mkdir и rmdir.
func RegisterCmd() error {
	return errors.Join(
		command.Register(&MkdirHandler{}),
		command.Register(&RmdirHandler{}),
	)
}

// Data - результат операции с директорией.
type Data struct {
	Path    string `json:"path"`
	Tree    bool   `json:"tree"`
	Existed bool   `json:"existed"`
	Exists  bool   `json:"exists"`
}

// WriteText выводит результат в человекочитаемом формате.
func (d *Data) WriteText(w io.Writer) error {
	state := "удалена"
	if d.Exists {
		state = "существует"
	}
	_, err := fmt.Fprintf(w, "%s: %s\n", d.Path, state)
	return err
}

// MkdirHandler обрабатывает команду mkdir.
type MkdirHandler struct{}

// Name возвращает имя команды.
func (h *MkdirHandler) Name() string {
	return constants.ActMkdir
}

// Description возвращает описание команды для вывода в help.
func (h *MkdirHandler) Description() string {
	return "Создание директории BR_SOURCE (с BR_TREE — вместе с родителями)"
}

// Execute создаёт директорию cfg.Source. Существующая директория не считается ошибкой.
func (h *MkdirHandler) Execute(ctx context.Context, cfg *config.Config) error {
	services, err := shared.Resolve(ctx, cfg)
	if err != nil {
		return shared.NewRun(ctx, cfg, constants.ActMkdir, nil).Fail(err)
	}
	run := shared.NewRun(ctx, cfg, constants.ActMkdir, services.Logger)
	if cfg == nil || cfg.Source == "" {
		return run.Fail(shared.MissingParam("BR_SOURCE"))
	}

	manager := services.Manager
	existed := manager.DirectoryExists(cfg.Source)
	if run.DryRun() {
		b := dryrun.NewBuilder(constants.ActMkdir)
		if existed {
			b.Skip("Создание директории", "директория уже существует")
		} else {
			b.Step("Создание директории", map[string]any{"path": cfg.Source, "tree": cfg.Tree}, cfg.Source+" будет создана")
		}
		return run.Plan(b.Build(""))
	}

	if err := manager.MakeDirectory(cfg.Source, cfg.Tree); err != nil {
		return run.Fail(fileio.ToAppError("не удалось создать директорию "+cfg.Source, err))
	}
	run.Log.Info("Директория создана", "path", cfg.Source, "tree", cfg.Tree)
	return run.Success(&Data{Path: cfg.Source, Tree: cfg.Tree, Existed: existed, Exists: true})
}

// RmdirHandler обрабатывает команду rmdir.
type RmdirHandler struct{}

// Name возвращает имя команды.
func (h *RmdirHandler) Name() string {
	return constants.ActRmdir
}

// Description возвращает описание команды для вывода в help.
func (h *RmdirHandler) Description() string {
	return "Удаление директории BR_SOURCE (с BR_TREE — вместе с содержимым)"
}

// Execute удаляет директорию cfg.Source.
func (h *RmdirHandler) Execute(ctx context.Context, cfg *config.Config) error {
	services, err := shared.Resolve(ctx, cfg)
	if err != nil {
		return shared.NewRun(ctx, cfg, constants.ActRmdir, nil).Fail(err)
	}
	run := shared.NewRun(ctx, cfg, constants.ActRmdir, services.Logger)
	if cfg == nil || cfg.Source == "" {
		return run.Fail(shared.MissingParam("BR_SOURCE"))
	}

	manager := services.Manager
	existed := manager.DirectoryExists(cfg.Source)
	if run.DryRun() {
		return run.Plan(rmdirPlan(cfg, services, existed))
	}

	if err := manager.DeleteDirectory(cfg.Source, cfg.RequireExists, cfg.Tree); err != nil {
		return run.Fail(fileio.ToAppError("не удалось удалить директорию "+cfg.Source, err))
	}
	run.Log.Info("Директория удалена", "path", cfg.Source, "tree", cfg.Tree, "existed", existed)
	return run.Success(&Data{Path: cfg.Source, Tree: cfg.Tree, Existed: existed})
}

func rmdirPlan(cfg *config.Config, services *shared.Services, existed bool) *output.DryRunPlan {
	b := dryrun.NewBuilder(constants.ActRmdir)
	if !existed {
		if cfg.RequireExists {
			return b.Fail("Удаление директории", "директория не существует").Build("")
		}
		return b.Skip("Удаление директории", "директория не существует").Build("")
	}

	entries := 0
	err := services.Manager.IterateDirectoryRecursively(cfg.Source, func(string, bool) bool {
		entries++
		return true
	})
	if err != nil {
		return b.Fail("Чтение директории", err.Error()).Build("")
	}
	if entries > 0 && !cfg.Tree {
		return b.Fail("Удаление директории", "директория не пуста, BR_TREE не задан").Build("")
	}

	b.Step("Удаление директории", map[string]any{"path": cfg.Source, "tree": cfg.Tree},
		fmt.Sprintf("%s будет удалена вместе с %d записями", cfg.Source, entries))
	return b.Build(fmt.Sprintf("%d записей", entries))
}
