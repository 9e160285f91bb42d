package filer

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

var (
	ErrInvalidPath          = errors.New("недопустимый путь")
	ErrPathTraversal        = errors.New("путь выходит за корень файловой системы")
	ErrFileClosed           = errors.New("файл закрыт")
	ErrReadOnlyFile         = errors.New("дескриптор открыт только для чтения")
	ErrUnsupportedOperation = errors.New("операция не поддерживается")
	ErrNotDirectory         = errors.New("путь не является директорией")
	ErrDirectoryNotEmpty    = errors.New("директория не пуста")
	ErrInvalidConfig        = errors.New("недопустимая конфигурация файловой системы")
)

// pathError оформляет ошибку так же, как пакет os: op, путь и причина в *fs.PathError.
func pathError(op, path string, err error) error {
	return &fs.PathError{Op: op, Path: path, Err: err}
}

// IsSecurityError сообщает, что путь отклонён проверкой, а не файловой системой.
func IsSecurityError(err error) bool {
	return errors.Is(err, ErrPathTraversal) || errors.Is(err, ErrInvalidPath)
}

// ValidatePath отклоняет пустой путь и пути с управляющими символами.
// Выход за корень проверяется в PathUtils.Resolve.
func ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("%w: пустой путь", ErrInvalidPath)
	}
	if hasControlChars(path) {
		return fmt.Errorf("%w: управляющий символ в %q", ErrInvalidPath, path)
	}
	return nil
}

func hasControlChars(s string) bool {
	return strings.ContainsFunc(s, func(r rune) bool { return r < 0x20 || r == 0x7f })
}
