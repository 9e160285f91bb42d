package fileio

import (
	"errors"
	"fmt"
	"io"

	"github.com/Kargones/apk-files/internal/entity/filer"
	"github.com/Kargones/apk-files/internal/pkg/logging"
)

// DefaultReadBufferSize - ёмкость буфера опережающего чтения по умолчанию.
const DefaultReadBufferSize = 1024

// Reader - буферизованное последовательное чтение файла с произвольным позиционированием.
//
// Инвариант: bufferBase <= pos <= bufferBase+bufferCount, пока bufferCount > 0.
// Позиция провайдера всегда равна bufferBase+bufferCount.
type Reader struct {
	name   string
	file   filer.File
	logger logging.Logger

	size        int64
	pos         int64
	bufferBase  int64
	bufferCount int
	buffer      []byte

	err    error
	closed bool
}

// ReaderOption настраивает Reader.
type ReaderOption func(*Reader)

// WithReaderBufferSize задаёт ёмкость буфера. Значения <= 0 игнорируются.
func WithReaderBufferSize(size int) ReaderOption {
	return func(r *Reader) {
		if size > 0 {
			r.buffer = make([]byte, size)
		}
	}
}

// WithReaderLogger задаёт логгер.
func WithReaderLogger(logger logging.Logger) ReaderOption {
	return func(r *Reader) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewReader создаёт Reader поверх открытого дескриптора размера size.
// Reader становится владельцем дескриптора и закрывает его в Close.
func NewReader(file filer.File, name string, size int64, opts ...ReaderOption) *Reader {
	r := &Reader{
		name:   name,
		file:   file,
		size:   size,
		logger: logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.buffer == nil {
		r.buffer = make([]byte, DefaultReadBufferSize)
	}
	return r
}

// Name возвращает имя файла.
func (r *Reader) Name() string { return r.name }

// TotalSize возвращает размер файла.
func (r *Reader) TotalSize() int64 { return r.size }

// Tell возвращает текущую позицию.
func (r *Reader) Tell() int64 { return r.pos }

// IsError сообщает, произошла ли ошибка.
func (r *Reader) IsError() bool { return r.err != nil }

// Err возвращает липкую ошибку Reader.
func (r *Reader) Err() error { return r.err }

func (r *Reader) fail(err error) error {
	if r.err == nil {
		r.err = err
	}
	return r.err
}

// Seek устанавливает позицию чтения и сбрасывает буфер.
// Позиция вне [0, TotalSize] считается признаком повреждения файла:
// ошибка логируется и запоминается, позиция не меняется.
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	if r.err != nil {
		return r.pos, r.err
	}
	if r.closed {
		return r.pos, r.fail(ErrClosed)
	}

	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = r.pos + offset
	case io.SeekEnd:
		target = r.size + offset
	default:
		return r.pos, fmt.Errorf("%w: недопустимый whence %d", ErrIO, whence)
	}

	if target < 0 || target > r.size {
		r.logger.Error("позиционирование за пределы файла, файл, вероятно, повреждён",
			"path", r.name, "offset", target, "size", r.size)
		return r.pos, r.fail(fmt.Errorf("%w: смещение %d/%d: %s", ErrCorrupted, target, r.size, r.name))
	}

	r.pos = target
	r.bufferBase = target
	r.bufferCount = 0

	if _, err := r.file.Seek(target, io.SeekStart); err != nil {
		r.logger.Error("ошибка позиционирования в файле",
			"path", r.name, "offset", target, "error", err.Error())
		return r.pos, r.fail(fmt.Errorf("%w: seek %s: %w", ErrIO, r.name, err))
	}
	return r.pos, nil
}

// Serialize читает ровно len(p) байт с текущей позиции.
// Запросы не меньше ёмкости буфера читаются напрямую из провайдера.
// Чтение за концом файла устанавливает ошибку.
func (r *Reader) Serialize(p []byte) error {
	if r.err != nil {
		return r.err
	}
	if r.closed {
		return r.fail(ErrClosed)
	}

	if int64(len(p)) > r.size-r.pos {
		r.logger.Error("чтение за концом файла",
			"path", r.name, "pos", r.pos, "length", len(p), "size", r.size)
		return r.fail(fmt.Errorf("%w: чтение за концом файла %s", ErrIO, r.name))
	}

	for len(p) > 0 {
		if r.bufferCount > 0 {
			offset := r.pos - r.bufferBase
			if offset < int64(r.bufferCount) {
				n := copy(p, r.buffer[offset:r.bufferCount])
				r.pos += int64(n)
				p = p[n:]
				continue
			}
		}

		if len(p) >= len(r.buffer) {
			if _, err := io.ReadFull(r.file, p); err != nil {
				r.bufferCount = 0
				r.logger.Error("ошибка чтения файла", "path", r.name, "pos", r.pos, "error", err.Error())
				return r.fail(fmt.Errorf("%w: read %s: %w", ErrIO, r.name, err))
			}
			r.pos += int64(len(p))
			r.bufferBase = r.pos
			r.bufferCount = 0
			return nil
		}

		if err := r.precache(); err != nil {
			return err
		}
	}
	return nil
}

// precache заполняет буфер начиная с текущей позиции.
func (r *Reader) precache() error {
	count := min(int64(len(r.buffer)), r.size-r.pos)
	if count <= 0 || count > int64(len(r.buffer)) {
		r.logger.Error("недопустимый размер предзагрузки, файл, вероятно, повреждён",
			"path", r.name, "count", count, "capacity", len(r.buffer))
		return r.fail(fmt.Errorf("%w: размер предзагрузки %d: %s", ErrCorrupted, count, r.name))
	}

	if _, err := io.ReadFull(r.file, r.buffer[:count]); err != nil {
		r.bufferCount = 0
		r.logger.Error("ошибка чтения файла", "path", r.name, "pos", r.pos, "error", err.Error())
		return r.fail(fmt.Errorf("%w: read %s: %w", ErrIO, r.name, err))
	}

	r.bufferBase = r.pos
	r.bufferCount = int(count)
	return nil
}

// Read реализует io.Reader: читает до len(p) байт, на конце файла возвращает io.EOF.
func (r *Reader) Read(p []byte) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	if len(p) == 0 {
		return 0, nil
	}
	remaining := r.size - r.pos
	if remaining <= 0 {
		return 0, io.EOF
	}
	n := int(min(int64(len(p)), remaining))
	if err := r.Serialize(p[:n]); err != nil {
		return 0, err
	}
	return n, nil
}

// Close освобождает дескриптор. Возвращает nil, если за время жизни Reader ошибок не было.
// Повторный вызов возвращает тот же результат.
func (r *Reader) Close() error {
	if r.closed {
		return r.err
	}
	r.closed = true
	r.bufferCount = 0

	if err := r.file.Close(); err != nil && !errors.Is(err, filer.ErrFileClosed) {
		r.logger.Error("ошибка закрытия файла", "path", r.name, "error", err.Error())
		return r.fail(fmt.Errorf("%w: close %s: %w", ErrIO, r.name, err))
	}
	return r.err
}
