// Package metrics считает команды и файловые операции и отправляет
// их в Prometheus Pushgateway по завершении запуска.
package metrics

import (
	"context"
	"time"
)

// Значения label "result" файловых операций.
const (
	ResultOK       = "ok"
	ResultFail     = "fail"
	ResultCanceled = "canceled"
)

// Collector принимает события команд и fileio.Manager.
type Collector interface {
	RecordCommandStart(command string)
	RecordCommandEnd(command string, duration time.Duration, success bool)
	// RecordCommandError учитывает код ошибки (apperrors) неуспешной команды.
	RecordCommandError(command, code string)
	// RecordFileOperation учитывает операцию op (copy, move, delete, ...) с результатом Result*.
	RecordFileOperation(op string, duration time.Duration, result string)
	AddBytes(op string, n int64)
	RecordRetry(op string)
	// Push отправляет накопленное. Ошибки отправки только логируются, результат всегда nil.
	Push(ctx context.Context) error
}

// NopCollector ничего не считает. Используется при выключенных метриках и в тестах.
type NopCollector struct{}

// NewNopCollector создаёт NopCollector.
func NewNopCollector() *NopCollector {
	return &NopCollector{}
}

func (*NopCollector) RecordCommandStart(string)                         {}
func (*NopCollector) RecordCommandEnd(string, time.Duration, bool)      {}
func (*NopCollector) RecordCommandError(string, string)                 {}
func (*NopCollector) RecordFileOperation(string, time.Duration, string) {}
func (*NopCollector) AddBytes(string, int64)                            {}
func (*NopCollector) RecordRetry(string)                                {}
func (*NopCollector) Push(context.Context) error                        { return nil }
