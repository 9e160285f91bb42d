// Package apperrors описывает ошибки с машиночитаемым кодом, которые команды
// отдают в результате (error.code) и в логах.
package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// Коды имеют вид КАТЕГОРИЯ.ОШИБКА.
const (
	ErrConfigLoad     = "CONFIG.LOAD_FAILED"
	ErrConfigParse    = "CONFIG.PARSE_FAILED"
	ErrConfigValidate = "CONFIG.VALIDATION_FAILED"

	ErrCommandNotFound = "COMMAND.NOT_FOUND"
	ErrCommandExec     = "COMMAND.EXEC_FAILED"

	ErrOutputFormat = "OUTPUT.FORMAT_FAILED"

	ErrFileOpen           = "FILE.OPEN_FAILED"
	ErrFileIO             = "FILE.IO_FAILED"
	ErrFileCorrupted      = "FILE.CORRUPTED"
	ErrFileProtected      = "FILE.PROTECTED"
	ErrFileCanceled       = "FILE.CANCELED"
	ErrFileRetryExhausted = "FILE.RETRY_EXHAUSTED"
	ErrFileNotFound       = "FILE.NOT_FOUND"

	ErrSignatureManifest = "SIGNATURE.MANIFEST_INVALID"
	ErrSignatureMismatch = "SIGNATURE.HASH_MISMATCH"
)

// AppError - ошибка с кодом. Message попадает в вывод команды, поэтому
// в нём не должно быть секретов. Cause в JSON не сериализуется.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return e.Code + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Cause)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError создаёт AppError; cause может быть nil.
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{Code: code, Message: message, Cause: cause}
}

// CodeOf возвращает код первого AppError в цепочке err или "".
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// Category возвращает часть кода до точки: "FILE" для "FILE.PROTECTED".
func Category(code string) string {
	category, _, _ := strings.Cut(code, ".")
	return category
}
