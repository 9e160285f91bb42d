// Package help реализует команду help для вывода списка всех доступных команд и опций.
package help

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Kargones/apk-files/internal/command"
	"github.com/Kargones/apk-files/internal/command/handlers/shared"
	"github.com/Kargones/apk-files/internal/config"
	"github.com/Kargones/apk-files/internal/constants"
	"github.com/Kargones/apk-files/internal/pkg/output"
)

// RegisterCmd регистрирует команду help.
func RegisterCmd() error {
	return command.Register(&Handler{})
}

// Data содержит информацию обо всех доступных командах.
type Data struct {
	Commands []CommandInfo `json:"commands"`
	Options  []OptionInfo  `json:"options"`
}

// CommandInfo описывает одну команду.
type CommandInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// OptionInfo описывает переменную окружения.
type OptionInfo struct {
	Env         string `json:"env"`
	Description string `json:"description"`
}

// options - переменные окружения, общие для команд.
var options = []OptionInfo{
	{constants.EnvOutputFormat, "Формат вывода: text или json"},
	{constants.EnvDryRun, "Dry-run: план операций без выполнения"},
	{constants.EnvConfigFile, "Путь к YAML-файлу конфигурации"},
	{"BR_SOURCE", "Исходный файл или директория"},
	{"BR_DEST", "Файл назначения для copy и move"},
	{"BR_PATTERN", "Маска поиска, например Content/*.pak"},
	{"BR_EXTENSION", "Расширение для find: txt, .txt или *.txt"},
	{"BR_REPLACE", "Заменять существующий файл назначения"},
	{"BR_EVEN_IF_READ_ONLY", "Снимать атрибут только для чтения"},
	{"BR_PRESERVE_ATTRIBUTES", "Сохранять время модификации и атрибуты источника"},
	{"BR_NO_RETRY", "Не повторять неудачное перемещение"},
	{"BR_REQUIRE_EXISTS", "Отсутствие файла или директории считать ошибкой"},
	{"BR_TREE", "mkdir и rmdir работают с деревом директорий"},
	{"BR_RECURSIVE", "find обходит вложенные директории"},
	{"BR_PROGRESS", "copy блоками с отображением прогресса"},
}

// Handler обрабатывает команду help.
type Handler struct{}

// Name возвращает имя команды.
func (h *Handler) Name() string {
	return constants.ActHelp
}

// Description возвращает описание команды для вывода в help.
func (h *Handler) Description() string {
	return "Вывод списка доступных команд"
}

// Execute собирает список команд и выводит результат.
func (h *Handler) Execute(ctx context.Context, cfg *config.Config) error {
	run := shared.NewRun(ctx, cfg, constants.ActHelp, nil)
	helpData := buildData()

	// Текстовый формат - специализированный вывод без metadata (аналогично version).
	if run.Format != output.FormatJSON {
		return helpData.writeText(run.Out)
	}
	return run.Success(helpData)
}

// buildData собирает зарегистрированные команды в порядке имён.
func buildData() *Data {
	data := &Data{Options: options}
	for _, h := range command.Handlers() {
		data.Commands = append(data.Commands, CommandInfo{Name: h.Name(), Description: h.Description()})
	}
	return data
}

// writeText печатает команды и опции двумя выровненными колонками.
func (d *Data) writeText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s — буферизованные файловые операции\n\nКоманды (BR_COMMAND):\n", constants.AppName)
	for _, cmd := range d.Commands {
		fmt.Fprintf(tw, "  %s\t%s\n", cmd.Name, cmd.Description)
	}
	fmt.Fprint(tw, "\nОпции:\n")
	for _, opt := range d.Options {
		fmt.Fprintf(tw, "  %s\t%s\n", opt.Env, opt.Description)
	}
	return tw.Flush()
}
