package progress

import (
	"encoding/json"
	"time"
)

// Типы событий JSON-потока.
const (
	EventStart    = "progress_start"
	EventProgress = "progress"
	EventEnd      = "progress_end"
)

// JSONProgress выводит события прогресса в формате JSON-lines.
// Ошибки записи игнорируются: прогресс не должен прерывать копирование.
type JSONProgress struct {
	opts      Options
	encoder   *json.Encoder
	startTime time.Time
	lastEmit  time.Time
}

// NewJSONProgress создаёт JSON progress.
func NewJSONProgress(opts Options) *JSONProgress {
	p := &JSONProgress{opts: opts}
	if opts.Output != nil {
		p.encoder = json.NewEncoder(opts.Output)
	}
	return p
}

func (p *JSONProgress) emit(event Event) {
	if p.encoder == nil {
		return
	}
	_ = p.encoder.Encode(event) //nolint:errcheck // progress best effort
}

// Start выводит событие progress_start.
func (p *JSONProgress) Start(message string) {
	p.startTime = time.Now()
	p.lastEmit = time.Time{}
	p.emit(Event{Type: EventStart, Message: message})
}

// Update выводит событие progress не чаще ThrottleInterval.
func (p *JSONProgress) Update(current int64, message string) {
	if p.opts.ThrottleInterval > 0 && time.Since(p.lastEmit) < p.opts.ThrottleInterval {
		return
	}
	p.lastEmit = time.Now()

	event := Event{Type: EventProgress, Message: message}
	if p.opts.Total > 0 {
		percent := percentOf(current, p.opts.Total)
		event.Percent = &percent
		if eta := int64(remaining(time.Since(p.startTime), current, p.opts.Total).Seconds()); eta > 0 {
			event.ETASeconds = &eta
		}
	}
	p.emit(event)
}

// SetTotal устанавливает общее количество единиц работы.
func (p *JSONProgress) SetTotal(total int64) {
	p.opts.Total = total
}

// Finish выводит событие progress_end.
func (p *JSONProgress) Finish() {
	p.emit(Event{Type: EventEnd, DurationMs: time.Since(p.startTime).Milliseconds()})
}
