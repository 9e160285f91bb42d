package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

const summaryDivider = "══════════════════════════════════════════════════════"

// lineWriter запоминает первую ошибку записи, последующие вызовы ничего не делают.
type lineWriter struct {
	w   io.Writer
	err error
}

func (l *lineWriter) printf(format string, args ...any) {
	if l.err == nil {
		_, l.err = fmt.Fprintf(l.w, format, args...)
	}
}

// TextWriter печатает Result для человека.
type TextWriter struct{}

// NewTextWriter создаёт TextWriter.
func NewTextWriter() *TextWriter {
	return &TextWriter{}
}

// Write печатает строку статуса, ошибку, данные и сводку.
// Для dry-run печатается только план, для ошибок сводка опускается.
func (t *TextWriter) Write(w io.Writer, result *Result) error {
	switch {
	case result == nil:
		return nil
	case result.DryRun && result.Plan != nil:
		return result.Plan.WriteText(w)
	}

	lw := &lineWriter{w: w}
	lw.printf("%s: %s\n", result.Command, result.Status)
	if result.Error != nil {
		lw.printf("Error [%s]: %s\n", result.Error.Code, result.Error.Message)
	}
	if lw.err == nil && result.Data != nil {
		lw.err = writeData(w, result.Data)
	}
	if result.Status != StatusError && result.Summary != nil {
		writeSummary(lw, result)
	}
	return lw.err
}

// writeData отдаёт данные их TextRenderer, иначе печатает JSON с отступами.
func writeData(w io.Writer, data any) error {
	if renderer, ok := data.(TextRenderer); ok {
		return renderer.WriteText(w)
	}
	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("сериализация данных результата: %w", err)
	}
	_, err = fmt.Fprintf(w, "Data: %s\n", encoded)
	return err
}

func writeSummary(lw *lineWriter, result *Result) {
	lw.printf("\n%s\n📊 Сводка\n%s\n", summaryDivider, summaryDivider)
	if result.Metadata != nil && result.Metadata.DurationMs > 0 {
		lw.printf("⏱️  Время выполнения: %s\n", formatDuration(result.Metadata.DurationMs))
	}
	for _, m := range result.Summary.KeyMetrics {
		lw.printf("📈 %s\n", strings.TrimSpace(m.Name+": "+m.Value+" "+m.Unit))
	}
	if n := result.Summary.WarningsCount; n > 0 {
		lw.printf("\n⚠️  Предупреждений: %d\n", n)
		for _, warning := range result.Summary.Warnings {
			lw.printf("   • %s\n", warning)
		}
	}
	lw.printf("%s\n", summaryDivider)
}

// formatDuration: до секунды в мс, до минуты в секундах с десятыми, дальше минуты и секунды.
func formatDuration(ms int64) string {
	switch {
	case ms < 1000:
		return fmt.Sprintf("%dмс", ms)
	case ms < 60_000:
		return fmt.Sprintf("%.1fс", float64(ms)/1000)
	}
	sec := ms / 1000
	return fmt.Sprintf("%dм %dс", sec/60, sec%60)
}
