// Package progress отображает прогресс копирования файлов.
// Реализации: TTY progress bar, лог для non-TTY окружения и JSON-lines поток.
package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
)

// Progress определяет интерфейс для отображения прогресса операций.
type Progress interface {
	// Start инициализирует progress с начальным сообщением.
	Start(message string)
	// Update обновляет текущий прогресс.
	// current - текущее значение, message - опциональное сообщение.
	Update(current int64, message string)
	// Finish завершает progress.
	Finish()
	// SetTotal устанавливает общее количество (если стало известно).
	SetTotal(total int64)
}

// Options конфигурирует progress bar.
type Options struct {
	// Total - общее количество единиц работы, для копирования это байты.
	Total int64
	// Output - куда выводить (обычно os.Stderr).
	Output io.Writer
	// ShowETA - показывать ли расчётное время завершения.
	ShowETA bool
	// ThrottleInterval - минимальный интервал между обновлениями.
	ThrottleInterval time.Duration
	// Format - формат вывода команды: "json" включает JSON-lines поток.
	Format string
}

// Event описывает JSON событие прогресса.
type Event struct {
	Type       string `json:"type"` // progress_start, progress, progress_end
	Percent    *int   `json:"percent,omitempty"`
	ETASeconds *int64 `json:"eta_seconds,omitempty"`
	Message    string `json:"message,omitempty"`
	DurationMs int64  `json:"duration_ms,omitempty"`
}

// IsTTY сообщает, что w - терминал (включая терминалы Cygwin/MSYS).
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// FormatBytes печатает размер в единицах IEC: 512 B, 1.5 KiB, 40.0 MiB.
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// percentOf возвращает долю current от total в процентах, не больше 100.
func percentOf(current, total int64) int {
	if total <= 0 {
		return 0
	}
	percent := int(float64(current) / float64(total) * 100)
	if percent > 100 {
		percent = 100
	}
	return percent
}

// remaining оценивает оставшееся время по прошедшему и выполненной доле работы.
func remaining(elapsed time.Duration, current, total int64) time.Duration {
	if current <= 0 || total <= current {
		return 0
	}
	return time.Duration(float64(elapsed) / float64(current) * float64(total-current))
}

// FormatDuration форматирует duration в читаемый вид (1h 7m 30s, 5m 30s, 45s).
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < 0 {
		return "0s"
	}

	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", seconds)
	case d < time.Hour:
		if seconds == 0 {
			return fmt.Sprintf("%dm", minutes)
		}
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}

	out := fmt.Sprintf("%dh", hours)
	if minutes > 0 {
		out += fmt.Sprintf(" %dm", minutes)
	}
	if seconds > 0 {
		out += fmt.Sprintf(" %ds", seconds)
	}
	return out
}
