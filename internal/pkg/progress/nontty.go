package progress

import (
	"time"

	"github.com/Kargones/apk-files/internal/pkg/logging"
)

// NonTTYProgress пишет прогресс в лог на каждой границе 10% (CI, pipes).
type NonTTYProgress struct {
	opts                Options
	startTime           time.Time
	lastReportedPercent int
	message             string
	log                 logging.Logger
}

// NewNonTTYProgress создаёт non-TTY progress. nil logger заменяется на NopLogger.
func NewNonTTYProgress(opts Options, logger logging.Logger) *NonTTYProgress {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &NonTTYProgress{opts: opts, log: logger}
}

// Start инициализирует progress с начальным сообщением.
func (p *NonTTYProgress) Start(message string) {
	p.startTime = time.Now()
	p.message = message
	p.lastReportedPercent = 0
	p.log.Info("Копирование начато", "message", message, "total_bytes", p.opts.Total)
}

// Update пишет в лог при пересечении очередной границы 10%.
func (p *NonTTYProgress) Update(current int64, message string) {
	if message != "" {
		p.message = message
	}

	threshold := percentOf(current, p.opts.Total) / 10 * 10
	if threshold <= p.lastReportedPercent || threshold >= 100 {
		return
	}
	p.lastReportedPercent = threshold
	p.log.Info("Прогресс копирования",
		"percent", threshold,
		"elapsed", FormatDuration(time.Since(p.startTime)),
		"message", p.message)
}

// SetTotal устанавливает общее количество единиц работы.
func (p *NonTTYProgress) SetTotal(total int64) {
	p.opts.Total = total
}

// Finish пишет итоговую запись.
func (p *NonTTYProgress) Finish() {
	p.log.Info("Копирование завершено", "duration", FormatDuration(time.Since(p.startTime)))
}
