package output

import (
	"fmt"
	"io"
	"maps"
	"regexp"
	"slices"
	"strings"
	"time"
)

// DryRunPlan - план файловых операций, который печатается вместо их выполнения.
type DryRunPlan struct {
	Command string     `json:"command"`
	Steps   []PlanStep `json:"steps"`
	Summary string     `json:"summary,omitempty"`
	// ValidationPassed ложно, если хотя бы одна проверка плана не прошла.
	ValidationPassed bool `json:"validation_passed"`
}

// PlanStep - шаг плана. Пропущенный шаг несёт причину вместо параметров.
type PlanStep struct {
	Order           int            `json:"order"`
	Operation       string         `json:"operation"`
	Parameters      map[string]any `json:"parameters"`
	ExpectedChanges []string       `json:"expected_changes,omitempty"`
	Skipped         bool           `json:"skipped,omitempty"`
	SkipReason      string         `json:"skip_reason,omitempty"`
}

// WriteDryRunResult пишет результат-план в формате format.
func WriteDryRunResult(w io.Writer, format, command, traceID, apiVersion string, start time.Time, plan *DryRunPlan) error {
	return NewWriter(format).Write(w, &Result{
		Status:  StatusSuccess,
		Command: command,
		DryRun:  true,
		Plan:    plan,
		Metadata: &Metadata{
			DurationMs: time.Since(start).Milliseconds(),
			TraceID:    traceID,
			APIVersion: apiVersion,
		},
	})
}

// WriteText печатает план. Параметры шагов идут в порядке ключей.
func (p *DryRunPlan) WriteText(w io.Writer) error {
	lw := &lineWriter{w: w}
	lw.printf("\n=== DRY RUN ===\n")
	lw.printf("Команда: %s\n", p.Command)
	if p.ValidationPassed {
		lw.printf("Валидация: ✅ Пройдена\n\n")
	} else {
		lw.printf("Валидация: ❌ Не пройдена\n\n")
	}
	lw.printf("План выполнения:\n")

	for _, step := range p.Steps {
		if step.Skipped {
			lw.printf("  %d. [SKIP] %s — %s\n", step.Order, step.Operation, step.SkipReason)
			continue
		}
		lw.printf("  %d. %s\n", step.Order, step.Operation)

		for _, k := range slices.Sorted(maps.Keys(step.Parameters)) {
			lw.printf("      %s: %s\n", k, sanitizeValue(step.Parameters[k]))
		}
		if len(step.ExpectedChanges) > 0 {
			lw.printf("      Ожидаемые изменения:\n")
			for _, change := range step.ExpectedChanges {
				lw.printf("        - %s\n", change)
			}
		}
	}

	if p.Summary != "" {
		lw.printf("\nИтого: %s\n", p.Summary)
	}
	lw.printf("=== END DRY RUN ===\n")
	return lw.err
}

var ansiSequence = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]`)

// sanitizeValue не даёт путям из окружения управлять терминалом:
// убирает ANSI-последовательности и управляющие символы, переводы строк меняет на пробел.
func sanitizeValue(v any) string {
	s := ansiSequence.ReplaceAllString(fmt.Sprint(v), "")
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return ' '
		case r < 0x20 || r == 0x7f:
			return -1
		}
		return r
	}, s)
}
