// Package version реализует команду version.
package version

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/Kargones/apk-files/internal/command"
	"github.com/Kargones/apk-files/internal/command/handlers/shared"
	"github.com/Kargones/apk-files/internal/config"
	"github.com/Kargones/apk-files/internal/constants"
	"github.com/Kargones/apk-files/internal/pkg/output"
)

// RegisterCmd регистрирует команду version.
func RegisterCmd() error {
	return command.Register(&VersionHandler{})
}

// VersionData - сведения о сборке.
type VersionData struct {
	Version    string   `json:"version"`
	GoVersion  string   `json:"go_version"`
	Commit     string   `json:"commit"`
	APIVersion string   `json:"api_version"` // версия формата JSON-вывода
	Commands   []string `json:"commands"`
}

func (d *VersionData) writeText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s version %s\n  Go:     %s\n  Commit: %s\n  API:    %s\n",
		constants.AppName, d.Version, d.GoVersion, d.Commit, d.APIVersion)
	return err
}

// vcsRevision берёт коммит из метаданных go build, если ldflags его не задали.
func vcsRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			return s.Value
		}
	}
	return ""
}

func buildVersionData(version, commit string) *VersionData {
	data := &VersionData{
		Version:    version,
		GoVersion:  runtime.Version(),
		Commit:     commit,
		APIVersion: constants.APIVersion,
		Commands:   command.Names(),
	}
	if data.Version == "" {
		data.Version = "dev"
	}
	if data.Commit == "" {
		data.Commit = "unknown"
	}
	return data
}

// VersionHandler обрабатывает команду version.
type VersionHandler struct{}

// Name возвращает имя команды.
func (h *VersionHandler) Name() string { return constants.ActVersion }

// Description возвращает описание для help.
func (h *VersionHandler) Description() string {
	return "Вывод информации о версии приложения"
}

// Execute выводит сведения о сборке. Файловая система не нужна.
func (h *VersionHandler) Execute(ctx context.Context, cfg *config.Config) error {
	run := shared.NewRun(ctx, cfg, constants.ActVersion, nil)

	commit := constants.PreCommitHash
	if commit == "" {
		commit = vcsRevision()
	}
	data := buildVersionData(constants.Version, commit)
	if run.Format != output.FormatJSON {
		return data.writeText(run.Out)
	}
	return run.Success(data)
}
