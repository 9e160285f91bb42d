// Package signhandler реализует команды sign и verify над реестром подписей.
//
// sign вычисляет SHA-1 файлов BR_SOURCE или файлов по маске BR_PATTERN,
// добавляет их в реестр и сохраняет манифест. verify сверяет файлы с манифестом;
// без BR_SOURCE и BR_PATTERN проверяются все записи реестра.
package signhandler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/Kargones/apk-files/internal/command"
	"github.com/Kargones/apk-files/internal/command/handlers/shared"
	"github.com/Kargones/apk-files/internal/config"
	"github.com/Kargones/apk-files/internal/constants"
	"github.com/Kargones/apk-files/internal/entity/signature"
	"github.com/Kargones/apk-files/internal/pkg/apperrors"
	"github.com/Kargones/apk-files/internal/pkg/dryrun"
	"github.com/Kargones/apk-files/internal/pkg/output"
)

// Результаты проверки файла.
const (
	StatusValid    = "valid"
	StatusMismatch = "mismatch"
	StatusUnsigned = "unsigned"
	StatusError    = "error"
)

// RegisterCmd регистрирует команды sign и verify.
func RegisterCmd() error {
	return errors.Join(
		command.Register(&SignHandler{}),
		command.Register(&VerifyHandler{}),
	)
}

// FileResult - результат по одному файлу.
type FileResult struct {
	Path   string `json:"path"`
	Hash   string `json:"hash,omitempty"`
	Status string `json:"status,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Data - результат sign или verify.
type Data struct {
	Manifest string       `json:"manifest"`
	Files    []FileResult `json:"files"`
}

// WriteText выводит по строке на файл.
func (d *Data) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Манифест: %s\n", d.Manifest); err != nil {
		return err
	}
	for _, f := range d.Files {
		var err error
		switch {
		case f.Status == "":
			_, err = fmt.Fprintf(w, "  %s  %s\n", f.Hash, f.Path)
		case f.Error != "":
			_, err = fmt.Fprintf(w, "  [%s] %s: %s\n", f.Status, f.Path, f.Error)
		default:
			_, err = fmt.Fprintf(w, "  [%s] %s\n", f.Status, f.Path)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// targets возвращает файлы для подписи или проверки: BR_SOURCE или совпадения BR_PATTERN.
// Пустой результат означает, что ни один параметр не задан.
func targets(cfg *config.Config, services *shared.Services) []string {
	if cfg.Source != "" {
		return []string{cfg.Source}
	}
	if cfg.Pattern == "" {
		return nil
	}
	dir := filepath.Dir(filepath.FromSlash(cfg.Pattern))
	var paths []string
	for _, name := range services.Manager.FindFiles(cfg.Pattern, true, false) {
		paths = append(paths, filepath.Join(dir, name))
	}
	return paths
}

// SignHandler обрабатывает команду sign.
type SignHandler struct{}

// Name возвращает имя команды.
func (h *SignHandler) Name() string {
	return constants.ActSign
}

// Description возвращает описание команды для вывода в help.
func (h *SignHandler) Description() string {
	return "Подпись файлов BR_SOURCE или BR_PATTERN и сохранение манифеста"
}

// Execute подписывает файлы и перезаписывает манифест.
func (h *SignHandler) Execute(ctx context.Context, cfg *config.Config) error {
	services, err := shared.Resolve(ctx, cfg)
	if err != nil {
		return shared.NewRun(ctx, cfg, constants.ActSign, nil).Fail(err)
	}
	run := shared.NewRun(ctx, cfg, constants.ActSign, services.Logger)
	if cfg == nil || (cfg.Source == "" && cfg.Pattern == "") {
		return run.Fail(shared.MissingParam("BR_SOURCE"))
	}

	manifest := cfg.SignatureManifestPath()
	paths := targets(cfg, services)
	if len(paths) == 0 {
		return run.Fail(apperrors.NewAppError(apperrors.ErrFileNotFound,
			"по маске "+cfg.Pattern+" не найдено файлов", nil))
	}

	if run.DryRun() {
		b := dryrun.NewBuilder(constants.ActSign)
		for _, path := range paths {
			if !services.Manager.FileExists(path) {
				b.Fail("Подпись "+path, "файл не существует")
				continue
			}
			b.Step("Подпись "+path, map[string]any{"path": path})
		}
		b.Step("Сохранение манифеста", map[string]any{"path": manifest}, manifest+" будет перезаписан")
		return run.Plan(b.Build(strconv.Itoa(len(paths)) + " файлов"))
	}

	entries, err := services.Signer.Sign(paths...)
	if err != nil {
		return run.Fail(signature.ToAppError("не удалось подписать файлы", err))
	}
	if err := services.Signer.SaveManifestFile(manifest); err != nil {
		return run.Fail(signature.ToAppError("не удалось сохранить манифест "+manifest, err))
	}
	run.Log.Info("Файлы подписаны", "count", len(entries), "manifest", manifest)

	data := &Data{Manifest: manifest, Files: make([]FileResult, 0, len(entries))}
	for _, entry := range entries {
		data.Files = append(data.Files, FileResult{Path: entry.Path, Hash: entry.Hash})
	}
	summary := output.NewSummaryInfo()
	summary.AddMetric("Подписано", strconv.Itoa(len(entries)), "файлов")
	summary.AddMetric("Всего в манифесте", strconv.Itoa(services.Signer.Registry().Len()), "файлов")
	return run.SuccessWithSummary(data, summary)
}

// VerifyHandler обрабатывает команду verify.
type VerifyHandler struct{}

// Name возвращает имя команды.
func (h *VerifyHandler) Name() string {
	return constants.ActVerify
}

// Description возвращает описание команды для вывода в help.
func (h *VerifyHandler) Description() string {
	return "Проверка подписей файлов по манифесту"
}

// Execute проверяет подписи. Команда завершается ошибкой SIGNATURE.HASH_MISMATCH,
// если хотя бы один файл не прошёл проверку; результаты по всем файлам выводятся в data.
func (h *VerifyHandler) Execute(ctx context.Context, cfg *config.Config) error {
	services, err := shared.Resolve(ctx, cfg)
	if err != nil {
		return shared.NewRun(ctx, cfg, constants.ActVerify, nil).Fail(err)
	}
	run := shared.NewRun(ctx, cfg, constants.ActVerify, services.Logger)
	if cfg == nil {
		return run.Fail(shared.MissingParam("BR_SOURCE"))
	}

	paths := targets(cfg, services)
	if cfg.Source == "" && cfg.Pattern == "" {
		for _, entry := range services.Signer.Registry().Entries() {
			paths = append(paths, entry.Path)
		}
	}

	data := &Data{Manifest: cfg.SignatureManifestPath(), Files: make([]FileResult, 0, len(paths))}
	var failed []error
	for _, path := range paths {
		result := FileResult{Path: path, Status: StatusValid}
		if err := services.Signer.Verify(path); err != nil {
			failed = append(failed, err)
			result.Status = verifyStatus(err)
			result.Error = err.Error()
		}
		result.Hash, _ = services.Signer.Registry().Lookup(path)
		data.Files = append(data.Files, result)
	}

	if len(failed) > 0 {
		run.Log.Warn("Проверка подписей не пройдена", "failed", len(failed), "total", len(paths))
		return run.FailWithData(signature.ToAppError(
			fmt.Sprintf("проверку не прошли %d из %d файлов", len(failed), len(paths)), errors.Join(failed...)), data)
	}
	run.Log.Info("Подписи проверены", "count", len(paths))
	summary := output.NewSummaryInfo()
	summary.AddMetric("Проверено", strconv.Itoa(len(paths)), "файлов")
	return run.SuccessWithSummary(data, summary)
}

func verifyStatus(err error) string {
	switch {
	case errors.Is(err, signature.ErrHashMismatch):
		return StatusMismatch
	case errors.Is(err, signature.ErrNotSigned):
		return StatusUnsigned
	default:
		return StatusError
	}
}
