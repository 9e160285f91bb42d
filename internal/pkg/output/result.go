// Package output предоставляет структуры и интерфейсы для форматирования
// результатов команд в JSON и текстовом формате.
package output

import (
	"errors"

	"github.com/Kargones/apk-files/internal/pkg/apperrors"
)

// StatusSuccess и StatusError - возможные значения поля Status в Result.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Result представляет структурированный результат выполнения команды.
// Сериализуется в JSON (BR_OUTPUT_FORMAT=json) или выводится текстом.
type Result struct {
	// Status содержит статус выполнения: "success" или "error".
	Status string `json:"status"`

	// Command содержит имя выполненной команды.
	Command string `json:"command"`

	// Data содержит типизированный результат команды.
	Data any `json:"data,omitempty"`

	// Error заполняется только при status="error".
	Error *ErrorInfo `json:"error,omitempty"`

	Metadata *Metadata `json:"metadata,omitempty"`

	// DryRun - результат является планом, операции не выполнялись.
	DryRun bool `json:"dry_run,omitempty"`

	// Plan содержит план операций для dry-run режима.
	Plan *DryRunPlan `json:"plan,omitempty"`

	// Summary выводится отдельным блоком в тексте и как metadata.summary в JSON.
	Summary *SummaryInfo `json:"-"`
}

// ErrorInfo содержит информацию об ошибке в структурированном виде.
// Code - машиночитаемый код ошибки (например, "FILE.PROTECTED").
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Metadata содержит метаданные выполнения команды.
type Metadata struct {
	// DurationMs - время выполнения команды в миллисекундах.
	DurationMs int64 `json:"duration_ms"`

	// TraceID - идентификатор трассировки для корреляции логов.
	TraceID string `json:"trace_id,omitempty"`

	// APIVersion - версия формата вывода.
	APIVersion string `json:"api_version"`

	// Summary копируется из Result.Summary при сериализации в JSON.
	Summary *SummaryInfo `json:"summary,omitempty"`
}

// CodeUnknown - код ошибки, не связанной с AppError.
const CodeUnknown = "COMMAND.EXEC_FAILED"

// NewErrorInfo строит ErrorInfo из ошибки.
// Код берётся из первого AppError в цепочке, сообщение - из AppError.Message.
func NewErrorInfo(err error) *ErrorInfo {
	if err == nil {
		return nil
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return &ErrorInfo{Code: appErr.Code, Message: appErr.Message}
	}
	return &ErrorInfo{Code: CodeUnknown, Message: err.Error()}
}
