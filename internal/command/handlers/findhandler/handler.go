// Package findhandler реализует команду find: поиск файлов и директорий по маске.
package findhandler

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/Kargones/apk-files/internal/command"
	"github.com/Kargones/apk-files/internal/command/handlers/shared"
	"github.com/Kargones/apk-files/internal/config"
	"github.com/Kargones/apk-files/internal/constants"
	"github.com/Kargones/apk-files/internal/pkg/apperrors"
	"github.com/Kargones/apk-files/internal/pkg/output"
)

// Режимы поиска.
const (
	ModePattern   = "pattern"
	ModeExtension = "extension"
	ModeRecursive = "recursive"
)

// RegisterCmd регистрирует команду find.
func RegisterCmd() error {
	return command.Register(&Handler{})
}

// Data - результат поиска.
type Data struct {
	Mode    string   `json:"mode"`
	Pattern string   `json:"pattern"`
	Matches []string `json:"matches"`
}

// WriteText выводит найденные пути по одному на строку.
func (d *Data) WriteText(w io.Writer) error {
	if len(d.Matches) == 0 {
		_, err := fmt.Fprintf(w, "По маске %s ничего не найдено\n", d.Pattern)
		return err
	}
	for _, match := range d.Matches {
		if _, err := fmt.Fprintln(w, match); err != nil {
			return err
		}
	}
	return nil
}

// Handler обрабатывает команду find.
type Handler struct{}

// Name возвращает имя команды.
func (h *Handler) Name() string {
	return constants.ActFind
}

// Description возвращает описание команды для вывода в help.
func (h *Handler) Description() string {
	return "Поиск файлов по маске BR_PATTERN или расширению BR_EXTENSION"
}

// Execute выполняет поиск. Режим выбирается по параметрам:
// BR_EXTENSION ищет по расширению в BR_SOURCE, BR_RECURSIVE обходит дерево BR_SOURCE,
// иначе BR_PATTERN задаёт директорию и маску имени.
func (h *Handler) Execute(ctx context.Context, cfg *config.Config) error {
	services, err := shared.Resolve(ctx, cfg)
	if err != nil {
		return shared.NewRun(ctx, cfg, constants.ActFind, nil).Fail(err)
	}
	run := shared.NewRun(ctx, cfg, constants.ActFind, services.Logger)
	if cfg == nil {
		return run.Fail(shared.MissingParam("BR_PATTERN"))
	}
	if !cfg.FindFiles && !cfg.FindDirs {
		return run.Fail(apperrors.NewAppError(apperrors.ErrConfigValidate,
			"BR_FIND_FILES и BR_FIND_DIRS не могут быть выключены одновременно", nil))
	}

	manager := services.Manager
	data := &Data{}
	switch {
	case cfg.Extension != "":
		data.Mode = ModeExtension
		data.Pattern = cfg.Extension
		data.Matches = manager.FindFilesByExtension(dirOrCurrent(cfg.Source), cfg.Extension)
	case cfg.Recursive:
		if cfg.Pattern == "" {
			return run.Fail(shared.MissingParam("BR_PATTERN"))
		}
		data.Mode = ModeRecursive
		data.Pattern = cfg.Pattern
		data.Matches = manager.FindFilesRecursive(dirOrCurrent(cfg.Source), cfg.Pattern, cfg.FindFiles, cfg.FindDirs)
	default:
		if cfg.Pattern == "" {
			return run.Fail(shared.MissingParam("BR_PATTERN"))
		}
		data.Mode = ModePattern
		data.Pattern = cfg.Pattern
		data.Matches = manager.FindFiles(cfg.Pattern, cfg.FindFiles, cfg.FindDirs)
	}
	if data.Matches == nil {
		data.Matches = []string{}
	}

	run.Log.Debug("Поиск завершён", "mode", data.Mode, "pattern", data.Pattern, "count", len(data.Matches))
	summary := output.NewSummaryInfo()
	summary.AddMetric("Найдено", strconv.Itoa(len(data.Matches)), "")
	return run.SuccessWithSummary(data, summary)
}

func dirOrCurrent(dir string) string {
	if dir == "" {
		return "."
	}
	return dir
}
