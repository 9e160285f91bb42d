package fileio

import (
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/Kargones/apk-files/internal/entity/filer"
	"github.com/Kargones/apk-files/internal/pkg/logging"
)

// DefaultWriteBufferSize - ёмкость буфера записи по умолчанию.
const DefaultWriteBufferSize = 4096

// Archive - контракт записи, который возвращает Manager.CreateWriter.
// Реализации: Writer и DummyWriter.
type Archive interface {
	io.Writer
	io.Seeker
	io.Closer

	// Serialize принимает len(p) байт и сдвигает позицию.
	Serialize(p []byte) error
	// Flush передаёт накопленные байты провайдеру.
	Flush() error
	// Tell возвращает логическую позицию.
	Tell() int64
	// TotalSize возвращает размер файла с учётом ещё не сброшенных данных.
	TotalSize() int64
	// IsError сообщает, произошла ли ошибка.
	IsError() bool
	// Err возвращает липкую ошибку.
	Err() error
}

// Writer - буферизованная последовательная запись в файл.
// Позиция отражает принятые байты, а не сброшенные провайдеру.
type Writer struct {
	name   string
	file   filer.File
	logger logging.Logger

	pos         int64
	buffer      []byte
	bufferCount int

	err    error
	closed bool

	// loggingError защищает от рекурсивного логирования ошибок записи,
	// если сам логгер пишет в файл через Writer.
	loggingError atomic.Bool
}

var _ Archive = (*Writer)(nil)

// WriterOption настраивает Writer.
type WriterOption func(*Writer)

// WithWriterBufferSize задаёт ёмкость буфера. Значения <= 0 игнорируются.
func WithWriterBufferSize(size int) WriterOption {
	return func(w *Writer) {
		if size > 0 {
			w.buffer = make([]byte, size)
		}
	}
}

// WithWriterLogger задаёт логгер.
func WithWriterLogger(logger logging.Logger) WriterOption {
	return func(w *Writer) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewWriter создаёт Writer поверх открытого дескриптора, стоящего на позиции pos.
// Writer становится владельцем дескриптора и закрывает его в Close.
func NewWriter(file filer.File, name string, pos int64, opts ...WriterOption) *Writer {
	w := &Writer{
		name:   name,
		file:   file,
		pos:    pos,
		logger: logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.buffer == nil {
		w.buffer = make([]byte, DefaultWriteBufferSize)
	}
	return w
}

// Name возвращает имя файла.
func (w *Writer) Name() string { return w.name }

// Tell возвращает логическую позицию.
func (w *Writer) Tell() int64 { return w.pos }

// IsError сообщает, произошла ли ошибка.
func (w *Writer) IsError() bool { return w.err != nil }

// Err возвращает липкую ошибку Writer.
func (w *Writer) Err() error { return w.err }

func (w *Writer) fail(err error) error {
	if w.err == nil {
		w.err = err
	}
	return w.err
}

// logWriteError логирует ошибку записи не более одного раза за вложенный вызов.
func (w *Writer) logWriteError(msg string, err error) {
	if !w.loggingError.CompareAndSwap(false, true) {
		return
	}
	defer w.loggingError.Store(false)

	w.logger.Error(msg, "path", w.name, "pos", w.pos, "error", err.Error())
}

// writeLowLevel записывает p в провайдер целиком.
func (w *Writer) writeLowLevel(p []byte) error {
	n, err := w.file.Write(p)
	if err == nil && n != len(p) {
		err = io.ErrShortWrite
	}
	if err != nil {
		w.logWriteError("ошибка записи в файл", err)
		return w.fail(fmt.Errorf("%w: write %s: %w", ErrIO, w.name, err))
	}
	return nil
}

// Serialize принимает len(p) байт. При переполнении буфер сбрасывается;
// данные не меньше ёмкости буфера пишутся напрямую после сброса.
func (w *Writer) Serialize(p []byte) error {
	if w.err != nil {
		return w.err
	}
	if w.closed {
		return w.fail(ErrClosed)
	}

	w.pos += int64(len(p))

	if len(p) >= len(w.buffer) {
		if err := w.Flush(); err != nil {
			return err
		}
		return w.writeLowLevel(p)
	}

	for space := len(w.buffer) - w.bufferCount; len(p) > space; space = len(w.buffer) - w.bufferCount {
		w.bufferCount += copy(w.buffer[w.bufferCount:], p[:space])
		p = p[space:]
		if err := w.Flush(); err != nil {
			return err
		}
	}
	w.bufferCount += copy(w.buffer[w.bufferCount:], p)
	return nil
}

// Write реализует io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	if err := w.Serialize(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Flush передаёт накопленные байты провайдеру одной записью.
// Пустой буфер не вызывает обращения к провайдеру.
func (w *Writer) Flush() error {
	if w.bufferCount == 0 {
		return w.err
	}
	count := w.bufferCount
	w.bufferCount = 0
	return w.writeLowLevel(w.buffer[:count])
}

// Seek сбрасывает буфер и устанавливает позицию провайдера.
func (w *Writer) Seek(offset int64, whence int) (int64, error) {
	if err := w.Flush(); err != nil {
		return w.pos, err
	}
	if w.closed {
		return w.pos, w.fail(ErrClosed)
	}

	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = w.pos + offset
	case io.SeekEnd:
		size := w.TotalSize()
		if size < 0 {
			return w.pos, w.err
		}
		target = size + offset
	default:
		return w.pos, fmt.Errorf("%w: недопустимый whence %d", ErrIO, whence)
	}

	if target < 0 {
		w.logWriteError("позиционирование перед началом файла", ErrCorrupted)
		return w.pos, w.fail(fmt.Errorf("%w: смещение %d: %s", ErrCorrupted, target, w.name))
	}

	if _, err := w.file.Seek(target, io.SeekStart); err != nil {
		w.logWriteError("ошибка позиционирования в файле", err)
		return w.pos, w.fail(fmt.Errorf("%w: seek %s: %w", ErrIO, w.name, err))
	}
	w.pos = target
	return w.pos, nil
}

// TotalSize сбрасывает буфер и возвращает размер файла по данным провайдера.
// При ошибке возвращает -1.
func (w *Writer) TotalSize() int64 {
	if err := w.Flush(); err != nil {
		return -1
	}
	info, err := w.file.Stat()
	if err != nil {
		w.logWriteError("не удалось получить размер файла", err)
		_ = w.fail(fmt.Errorf("%w: stat %s: %w", ErrIO, w.name, err))
		return -1
	}
	return info.Size()
}

// Close сбрасывает буфер и освобождает дескриптор.
// Возвращает nil, если за время жизни Writer ошибок не было.
func (w *Writer) Close() error {
	if w.closed {
		return w.err
	}
	_ = w.Flush()
	w.closed = true

	if err := w.file.Close(); err != nil && !errors.Is(err, filer.ErrFileClosed) {
		w.logWriteError("ошибка закрытия файла", err)
		return w.fail(fmt.Errorf("%w: close %s: %w", ErrIO, w.name, err))
	}
	return w.err
}

// DummyWriter принимает и отбрасывает данные, отслеживая только позицию.
// Используется вместо записи в подписанные файлы.
type DummyWriter struct {
	pos  int64
	size int64
}

var _ Archive = (*DummyWriter)(nil)

// NewDummyWriter создаёт DummyWriter.
func NewDummyWriter() *DummyWriter {
	return &DummyWriter{}
}

// Serialize сдвигает позицию на len(p).
func (d *DummyWriter) Serialize(p []byte) error {
	d.pos += int64(len(p))
	d.size = max(d.size, d.pos)
	return nil
}

// Write реализует io.Writer.
func (d *DummyWriter) Write(p []byte) (int, error) {
	_ = d.Serialize(p)
	return len(p), nil
}

// Seek устанавливает позицию. Отрицательная позиция приводится к нулю.
func (d *DummyWriter) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekCurrent:
		offset += d.pos
	case io.SeekEnd:
		offset += d.size
	}
	d.pos = max(offset, 0)
	return d.pos, nil
}

// Tell возвращает позицию.
func (d *DummyWriter) Tell() int64 { return d.pos }

// TotalSize возвращает максимальную достигнутую позицию.
func (d *DummyWriter) TotalSize() int64 { return d.size }

// Flush ничего не делает.
func (d *DummyWriter) Flush() error { return nil }

// Close ничего не делает.
func (d *DummyWriter) Close() error { return nil }

// IsError всегда false.
func (d *DummyWriter) IsError() bool { return false }

// Err всегда nil.
func (d *DummyWriter) Err() error { return nil }
