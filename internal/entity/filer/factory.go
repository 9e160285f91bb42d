package filer

import (
	"fmt"
	"os"
)

// New создает файловую систему по опциям.
func New(options ...Option) (FileSystem, error) {
	config := NewConfig(options...)
	if err := ValidateConfig(config); err != nil {
		return nil, err
	}

	switch config.Type {
	case DiskFS:
		if config.BasePath == "" {
			wd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("не удалось определить рабочую директорию: %w", err)
			}
			config.BasePath = wd
		}
		return NewDiskFileSystem(config)
	case MemoryFS:
		root := config.BasePath
		if root == "" {
			root = MemoryRoot
		}
		return NewMemoryFileSystem(root), nil
	default:
		return nil, fmt.Errorf("%w: неподдерживаемый тип файловой системы: %s", ErrInvalidConfig, config.Type)
	}
}

// ValidateConfig проверяет корректность конфигурации.
func ValidateConfig(config Config) error {
	switch config.Type {
	case DiskFS, MemoryFS:
	default:
		return fmt.Errorf("%w: неподдерживаемый тип файловой системы: %s", ErrInvalidConfig, config.Type)
	}
	if hasControlChars(config.BasePath) {
		return fmt.Errorf("%w: управляющий символ в базовом пути", ErrInvalidConfig)
	}
	return nil
}
