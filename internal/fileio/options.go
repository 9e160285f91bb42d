package fileio

import (
	"os"
	"time"

	"github.com/Kargones/apk-files/internal/constants"
	"github.com/Kargones/apk-files/internal/pkg/logging"
)

// Значения по умолчанию для Manager.
const (
	// DefaultCopyChunkSize - размер блока копирования с прогрессом.
	DefaultCopyChunkSize = 32 * 1024
	// DefaultMoveRetryCount - число повторов перемещения после первой неудачи.
	DefaultMoveRetryCount = 10
	// DefaultRetryDelay - пауза между повторами перемещения и удаления.
	DefaultRetryDelay = 500 * time.Millisecond
)

// FatalHandler вызывается при неудачном открытии файла с флагом NoFail.
// Обработчик по умолчанию завершает процесс.
type FatalHandler func(msg string, err error)

type managerOptions struct {
	readBufferSize  int
	writeBufferSize int
	copyChunkSize   int
	moveRetryCount  int
	retryDelay      time.Duration

	baseDir     string
	rootDir     string
	binariesDir string

	sleep func(time.Duration)
	now   func() time.Time
	fatal FatalHandler
}

func defaultManagerOptions() managerOptions {
	return managerOptions{
		readBufferSize:  DefaultReadBufferSize,
		writeBufferSize: DefaultWriteBufferSize,
		copyChunkSize:   DefaultCopyChunkSize,
		moveRetryCount:  DefaultMoveRetryCount,
		retryDelay:      DefaultRetryDelay,
		sleep:           time.Sleep,
		now:             time.Now,
	}
}

// Option настраивает Manager.
type Option func(*managerOptions)

// WithReadBufferSize задаёт ёмкость буфера Reader.
func WithReadBufferSize(size int) Option {
	return func(o *managerOptions) {
		if size > 0 {
			o.readBufferSize = size
		}
	}
}

// WithWriteBufferSize задаёт ёмкость буфера Writer.
func WithWriteBufferSize(size int) Option {
	return func(o *managerOptions) {
		if size > 0 {
			o.writeBufferSize = size
		}
	}
}

// WithCopyChunkSize задаёт размер блока копирования с прогрессом.
func WithCopyChunkSize(size int) Option {
	return func(o *managerOptions) {
		if size > 0 {
			o.copyChunkSize = size
		}
	}
}

// WithMoveRetry задаёт число повторов перемещения и паузу между попытками.
func WithMoveRetry(count int, delay time.Duration) Option {
	return func(o *managerOptions) {
		if count >= 0 {
			o.moveRetryCount = count
		}
		if delay >= 0 {
			o.retryDelay = delay
		}
	}
}

// WithBaseDir задаёт директорию, от которой отсчитываются относительные пути
// при сравнении путей и поиске подписей.
func WithBaseDir(dir string) Option {
	return func(o *managerOptions) {
		o.baseDir = dir
	}
}

// WithRelativePathRoots задаёт корневую директорию приложения и директорию
// исполняемых файлов для ConvertToRelativePath.
func WithRelativePathRoots(rootDir, binariesDir string) Option {
	return func(o *managerOptions) {
		o.rootDir = rootDir
		o.binariesDir = binariesDir
	}
}

// WithSleep подменяет функцию ожидания между повторами.
func WithSleep(sleep func(time.Duration)) Option {
	return func(o *managerOptions) {
		if sleep != nil {
			o.sleep = sleep
		}
	}
}

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(o *managerOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// WithFatalHandler подменяет обработчик фатальных ошибок открытия.
func WithFatalHandler(handler FatalHandler) Option {
	return func(o *managerOptions) {
		if handler != nil {
			o.fatal = handler
		}
	}
}

// exitFatalHandler логирует ошибку и завершает процесс.
func exitFatalHandler(logger logging.Logger) FatalHandler {
	return func(msg string, err error) {
		logger.Error(msg, "error", err.Error())
		os.Exit(constants.ExitFatal)
	}
}
