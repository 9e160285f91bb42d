package config

import (
	"fmt"
	"time"

	"github.com/Kargones/apk-files/internal/constants"
)

// FileIOConfig содержит настройки менеджера файлов.
type FileIOConfig struct {
	// Root - корневая директория файловой системы. Пусто - рабочая директория.
	// Относительные пути команд отсчитываются от Root.
	Root string `yaml:"root" env:"BR_FILEIO_ROOT"`

	// ReadBufferSize - ёмкость буфера чтения в байтах.
	ReadBufferSize int `yaml:"readBufferSize" env:"BR_FILEIO_READ_BUFFER_SIZE" env-default:"1024"`

	// WriteBufferSize - ёмкость буфера записи в байтах.
	WriteBufferSize int `yaml:"writeBufferSize" env:"BR_FILEIO_WRITE_BUFFER_SIZE" env-default:"4096"`

	// CopyChunkSize - размер блока копирования с прогрессом.
	CopyChunkSize int `yaml:"copyChunkSize" env:"BR_FILEIO_COPY_CHUNK_SIZE" env-default:"32768"`

	// MoveRetryCount - число повторов перемещения после первой неудачи.
	MoveRetryCount int `yaml:"moveRetryCount" env:"BR_FILEIO_MOVE_RETRY_COUNT" env-default:"10"`

	// RetryDelay - пауза между повторами.
	RetryDelay time.Duration `yaml:"retryDelay" env:"BR_FILEIO_RETRY_DELAY" env-default:"500ms"`

	// RootDir и BinariesDir - опорные директории для преобразования
	// абсолютных путей в относительные. Пусто - преобразование отключено.
	RootDir     string `yaml:"rootDir" env:"BR_FILEIO_ROOT_DIR"`
	BinariesDir string `yaml:"binariesDir" env:"BR_FILEIO_BINARIES_DIR"`

	// SignatureManifest - манифест подписанных файлов относительно Root.
	SignatureManifest string `yaml:"signatureManifest" env:"BR_FILEIO_SIGNATURE_MANIFEST" env-default:".apk-signatures.yaml"`
}

// SignatureManifestPath возвращает путь манифеста подписей.
// Допускает nil Config и nil FileIOConfig.
func (c *Config) SignatureManifestPath() string {
	if c != nil && c.FileIOConfig != nil && c.FileIOConfig.SignatureManifest != "" {
		return c.FileIOConfig.SignatureManifest
	}
	return constants.DefaultSignatureManifest
}

// isFileIOConfigPresent проверяет, задана ли секция fileio в AppConfig.
func isFileIOConfigPresent(cfg *FileIOConfig) bool {
	if cfg == nil {
		return false
	}
	return *cfg != FileIOConfig{}
}

// getDefaultFileIOConfig возвращает настройки по умолчанию.
// Значения совпадают с fileio.Default* и env-default.
func getDefaultFileIOConfig() *FileIOConfig {
	return &FileIOConfig{
		ReadBufferSize:    1024,
		WriteBufferSize:   4096,
		CopyChunkSize:     32 * 1024,
		MoveRetryCount:    10,
		RetryDelay:        500 * time.Millisecond,
		SignatureManifest: constants.DefaultSignatureManifest,
	}
}

// validateFileIOConfig проверяет настройки менеджера файлов.
func validateFileIOConfig(fc *FileIOConfig) error {
	if fc.ReadBufferSize <= 0 {
		return fmt.Errorf("fileio: readBufferSize должен быть положительным, получено: %d", fc.ReadBufferSize)
	}
	if fc.WriteBufferSize <= 0 {
		return fmt.Errorf("fileio: writeBufferSize должен быть положительным, получено: %d", fc.WriteBufferSize)
	}
	if fc.CopyChunkSize <= 0 {
		return fmt.Errorf("fileio: copyChunkSize должен быть положительным, получено: %d", fc.CopyChunkSize)
	}
	if fc.MoveRetryCount < 0 {
		return fmt.Errorf("fileio: moveRetryCount не может быть отрицательным, получено: %d", fc.MoveRetryCount)
	}
	if fc.RetryDelay < 0 {
		return fmt.Errorf("fileio: retryDelay не может быть отрицательным, получено: %s", fc.RetryDelay)
	}
	if fc.BinariesDir != "" && fc.RootDir == "" {
		return fmt.Errorf("fileio: binariesDir задан без rootDir")
	}
	return nil
}
