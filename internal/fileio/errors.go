// Package fileio реализует буферизованный файловый ввод-вывод (Reader, Writer)
// и менеджер файлов, выполняющий копирование, перемещение, удаление и поиск
// поверх низкоуровневого провайдера filer.PlatformFile.
//
// Ошибки ввода-вывода накапливаются в Reader/Writer как "липкая" ошибка:
// после первой ошибки все последующие операции возвращают её же.
package fileio

import (
	"errors"

	"github.com/Kargones/apk-files/internal/pkg/apperrors"
)

// Классы ошибок файловых операций. Конкретные ошибки оборачивают их через %w.
var (
	// ErrOpen - провайдер не смог открыть файл.
	ErrOpen = errors.New("не удалось открыть файл")

	// ErrIO - ошибка чтения, записи или позиционирования открытого файла.
	ErrIO = errors.New("ошибка ввода-вывода")

	// ErrCorrupted - позиция или размер буфера вне допустимых границ; файл, вероятно, повреждён.
	ErrCorrupted = errors.New("файл, вероятно, повреждён")

	// ErrProtected - попытка изменить подписанный файл.
	ErrProtected = errors.New("файл защищён подписью")

	// ErrCanceled - операция отменена через обратный вызов прогресса.
	ErrCanceled = errors.New("операция отменена")

	// ErrRetryExhausted - исчерпаны повторные попытки.
	ErrRetryExhausted = errors.New("исчерпаны повторные попытки")

	// ErrNotFound - файл не существует.
	ErrNotFound = errors.New("файл не существует")

	// ErrExists - файл назначения уже существует и замена запрещена.
	ErrExists = errors.New("файл назначения уже существует")

	// ErrSamePath - источник и назначение указывают на один файл.
	ErrSamePath = errors.New("источник и назначение совпадают")

	// ErrClosed - операция над закрытым Reader/Writer.
	ErrClosed = errors.New("файл закрыт")
)

// ToAppError преобразует ошибку пакета в apperrors.AppError с кодом категории FILE.
// nil остаётся nil.
func ToAppError(message string, err error) error {
	if err == nil {
		return nil
	}

	code := apperrors.ErrFileIO
	switch {
	case errors.Is(err, ErrOpen):
		code = apperrors.ErrFileOpen
	case errors.Is(err, ErrCorrupted):
		code = apperrors.ErrFileCorrupted
	case errors.Is(err, ErrProtected):
		code = apperrors.ErrFileProtected
	case errors.Is(err, ErrCanceled):
		code = apperrors.ErrFileCanceled
	case errors.Is(err, ErrRetryExhausted):
		code = apperrors.ErrFileRetryExhausted
	case errors.Is(err, ErrNotFound):
		code = apperrors.ErrFileNotFound
	}
	return apperrors.NewAppError(code, message, err)
}
