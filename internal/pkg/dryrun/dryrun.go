// Package dryrun предоставляет функции для работы с dry-run режимом.
// В dry-run режиме изменяющие команды (copy, move, delete, rmdir, sign)
// возвращают план операций без обращения к файловой системе на запись.
package dryrun

import (
	"os"
	"strings"

	"github.com/Kargones/apk-files/internal/constants"
	"github.com/Kargones/apk-files/internal/pkg/output"
)

// IsDryRun проверяет включён ли dry-run режим.
// Возвращает true если BR_DRY_RUN равна "true" (без учёта регистра) или "1".
func IsDryRun() bool {
	val := os.Getenv(constants.EnvDryRun)
	return strings.EqualFold(val, "true") || val == "1"
}

// Builder последовательно собирает шаги плана с автоматической нумерацией.
type Builder struct {
	command string
	steps   []output.PlanStep
	failed  bool
}

// NewBuilder создаёт Builder для команды command.
func NewBuilder(command string) *Builder {
	return &Builder{command: command, steps: make([]output.PlanStep, 0)}
}

// Step добавляет выполняемый шаг.
func (b *Builder) Step(operation string, params map[string]any, changes ...string) *Builder {
	b.steps = append(b.steps, output.PlanStep{
		Order:           len(b.steps) + 1,
		Operation:       operation,
		Parameters:      params,
		ExpectedChanges: changes,
	})
	return b
}

// Skip добавляет шаг, который не будет выполнен.
func (b *Builder) Skip(operation, reason string) *Builder {
	b.steps = append(b.steps, output.PlanStep{
		Order:      len(b.steps) + 1,
		Operation:  operation,
		Skipped:    true,
		SkipReason: reason,
	})
	return b
}

// Fail отмечает, что предварительная проверка не пройдена.
// Шаг с причиной добавляется как пропущенный.
func (b *Builder) Fail(operation, reason string) *Builder {
	b.failed = true
	return b.Skip(operation, reason)
}

// Build возвращает план с кратким описанием summary.
func (b *Builder) Build(summary string) *output.DryRunPlan {
	return &output.DryRunPlan{
		Command:          b.command,
		Steps:            b.steps,
		Summary:          summary,
		ValidationPassed: !b.failed,
	}
}
