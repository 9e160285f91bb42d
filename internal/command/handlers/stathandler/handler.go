// Package stathandler реализует команду stat: сведения о файле или директории.
package stathandler

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/Kargones/apk-files/internal/command"
	"github.com/Kargones/apk-files/internal/command/handlers/shared"
	"github.com/Kargones/apk-files/internal/config"
	"github.com/Kargones/apk-files/internal/constants"
)

// RegisterCmd регистрирует команду stat.
func RegisterCmd() error {
	return command.Register(&Handler{})
}

// Data - сведения о пути.
type Data struct {
	Path         string     `json:"path"`
	FullPath     string     `json:"full_path"`
	RelativePath string     `json:"relative_path"`
	Exists       bool       `json:"exists"`
	IsDirectory  bool       `json:"is_directory"`
	IsReadOnly   bool       `json:"is_read_only"`
	Size         int64      `json:"size"`
	ModTime      *time.Time `json:"mod_time,omitempty"`
	AgeSeconds   float64    `json:"age_seconds"`
	Signed       bool       `json:"signed"`
	Hash         string     `json:"hash,omitempty"`
}

// WriteText выводит сведения в человекочитаемом формате.
func (d *Data) WriteText(w io.Writer) error {
	if !d.Exists {
		_, err := fmt.Fprintf(w, "%s: не существует\n", d.Path)
		return err
	}
	kind := "файл"
	if d.IsDirectory {
		kind = "директория"
	}
	lines := []string{
		fmt.Sprintf("%s (%s)", d.Path, kind),
		fmt.Sprintf("  Полный путь: %s", d.FullPath),
		fmt.Sprintf("  Относительный путь: %s", d.RelativePath),
	}
	if !d.IsDirectory {
		lines = append(lines, fmt.Sprintf("  Размер: %d байт", d.Size))
	}
	if d.ModTime != nil {
		lines = append(lines, fmt.Sprintf("  Изменён: %s (%.0f с назад)", d.ModTime.Format(time.RFC3339), d.AgeSeconds))
	}
	if d.IsReadOnly {
		lines = append(lines, "  Только для чтения")
	}
	if d.Signed {
		lines = append(lines, "  Подпись: "+d.Hash)
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// Handler обрабатывает команду stat.
type Handler struct{}

// Name возвращает имя команды.
func (h *Handler) Name() string {
	return constants.ActStat
}

// Description возвращает описание команды для вывода в help.
func (h *Handler) Description() string {
	return "Сведения о файле или директории BR_SOURCE"
}

// Execute выводит сведения о cfg.Source. Отсутствующий путь не ошибка:
// в ответе exists=false, size=-1 и age_seconds=-1.
func (h *Handler) Execute(ctx context.Context, cfg *config.Config) error {
	services, err := shared.Resolve(ctx, cfg)
	if err != nil {
		return shared.NewRun(ctx, cfg, constants.ActStat, nil).Fail(err)
	}
	run := shared.NewRun(ctx, cfg, constants.ActStat, services.Logger)
	if cfg == nil || cfg.Source == "" {
		return run.Fail(shared.MissingParam("BR_SOURCE"))
	}

	data := describe(services, cfg.Source)
	return run.Success(data)
}

func describe(services *shared.Services, path string) *Data {
	manager := services.Manager
	full := manager.ConvertRelativePathToFull(path)
	stat := manager.GetStatData(path)

	data := &Data{
		Path:         path,
		FullPath:     full,
		RelativePath: manager.ConvertToRelativePath(full),
		Exists:       stat.IsValid,
		IsDirectory:  stat.IsDirectory,
		IsReadOnly:   stat.IsReadOnly,
		Size:         -1,
		AgeSeconds:   -1,
	}
	if !stat.IsValid {
		return data
	}
	data.Size = stat.Size
	modTime := stat.ModTime.UTC()
	data.ModTime = &modTime

	if !stat.IsDirectory {
		data.AgeSeconds = manager.GetFileAgeSeconds(path)
		data.Hash, data.Signed = services.Signer.Registry().Lookup(path)
	}
	return data
}
