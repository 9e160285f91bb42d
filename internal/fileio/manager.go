package fileio

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/Kargones/apk-files/internal/entity/filer"
	"github.com/Kargones/apk-files/internal/pkg/logging"
	"github.com/Kargones/apk-files/internal/pkg/metrics"
)

// SignatureLookup определяет, защищён ли файл подписью.
// Lookup возвращает хэш подписи и true для подписанных файлов.
type SignatureLookup interface {
	Lookup(path string) (string, bool)
}

// noSignatures - реестр без подписанных файлов.
type noSignatures struct{}

func (noSignatures) Lookup(string) (string, bool) { return "", false }

// Manager выполняет файловые операции поверх filer.PlatformFile:
// создание буферизованных Reader/Writer, копирование, перемещение, удаление,
// работу с директориями и поиск по маске.
//
// Manager не хранит состояния между вызовами и не синхронизирует доступ к путям.
type Manager struct {
	platform   filer.PlatformFile
	signatures SignatureLookup
	logger     logging.Logger
	metrics    metrics.Collector
	opts       managerOptions
}

// NewManager создаёт Manager. signatures, logger и collector могут быть nil.
func NewManager(platform filer.PlatformFile, signatures SignatureLookup, logger logging.Logger,
	collector metrics.Collector, opts ...Option) *Manager {
	if signatures == nil {
		signatures = noSignatures{}
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if collector == nil {
		collector = metrics.NewNopCollector()
	}

	o := defaultManagerOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.fatal == nil {
		o.fatal = exitFatalHandler(logger)
	}

	return &Manager{
		platform:   platform,
		signatures: signatures,
		logger:     logger,
		metrics:    collector,
		opts:       o,
	}
}

// Platform возвращает низкоуровневый провайдер.
func (m *Manager) Platform() filer.PlatformFile {
	return m.platform
}

// observe записывает длительность и результат операции.
func (m *Manager) observe(op string, start time.Time, err error) {
	result := metrics.ResultOK
	switch {
	case errors.Is(err, ErrCanceled):
		result = metrics.ResultCanceled
	case err != nil:
		result = metrics.ResultFail
	}
	m.metrics.RecordFileOperation(op, time.Since(start), result)
}

// fullPath приводит путь к абсолютной форме в NFC для сравнения путей.
func (m *Manager) fullPath(path string) string {
	return norm.NFC.String(m.ConvertRelativePathToFull(path))
}

// isSigned сообщает, защищён ли путь подписью.
func (m *Manager) isSigned(path string) bool {
	_, ok := m.signatures.Lookup(m.fullPath(path))
	return ok
}

// CreateReader открывает файл на буферизованное чтение.
// С флагом ReadNoFail неудача открытия передаётся фатальному обработчику.
func (m *Manager) CreateReader(path string, flags filer.ReadFlags) (*Reader, error) {
	file, err := m.platform.OpenRead(path, flags.Has(filer.ReadAllowWrite))
	if err != nil {
		err = fmt.Errorf("%w: %s: %w", ErrOpen, path, err)
		if flags.Has(filer.ReadNoFail) {
			m.opts.fatal("не удалось открыть файл на чтение", err)
		}
		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("%w: stat %s: %w", ErrOpen, path, err)
	}

	return NewReader(file, path, info.Size(),
		WithReaderBufferSize(m.opts.readBufferSize),
		WithReaderLogger(m.logger)), nil
}

// CreateWriter открывает файл на буферизованную запись, создавая родительские директории.
//
// Для существующего подписанного файла возвращается DummyWriter: запись принимается,
// но файл не меняется. С флагом WriteNoReplaceExisting существующий файл даёт ErrExists.
func (m *Manager) CreateWriter(path string, flags filer.WriteFlags) (Archive, error) {
	exists := m.platform.FileExists(path)
	if exists && m.isSigned(path) {
		m.logger.Warn("попытка записи в подписанный файл, запись будет отброшена", "path", path)
		return NewDummyWriter(), nil
	}
	if exists && flags.Has(filer.WriteNoReplaceExisting) {
		return nil, fmt.Errorf("%w: %s", ErrExists, path)
	}

	if err := m.MakeDirectory(filepath.Dir(path), true); err != nil {
		m.logger.Debug("не удалось создать родительскую директорию", "path", path, "error", err.Error())
	}
	if exists && flags.Has(filer.WriteEvenIfReadOnly) {
		if err := m.platform.SetReadOnly(path, false); err != nil {
			m.logger.Warn("не удалось снять атрибут только для чтения", "path", path, "error", err.Error())
		}
	}

	appendMode := flags.Has(filer.WriteAppend)
	file, err := m.platform.OpenWrite(path, appendMode, flags.Has(filer.WriteAllowRead))
	if err != nil {
		err = fmt.Errorf("%w: %s: %w", ErrOpen, path, err)
		if flags.Has(filer.WriteNoFail) {
			m.opts.fatal("не удалось открыть файл на запись", err)
		}
		return nil, err
	}

	var pos int64
	if appendMode {
		if pos, err = file.Seek(0, io.SeekCurrent); err != nil {
			_ = file.Close()
			return nil, fmt.Errorf("%w: tell %s: %w", ErrOpen, path, err)
		}
	}

	return NewWriter(file, path, pos,
		WithWriterBufferSize(m.opts.writeBufferSize),
		WithWriterLogger(m.logger)), nil
}

// DeleteOptions - параметры удаления файла.
type DeleteOptions struct {
	// RequireExists - отсутствие файла считается ошибкой.
	RequireExists bool
	// EvenReadOnly - снять атрибут только для чтения перед удалением.
	EvenReadOnly bool
	// Quiet - не логировать отказ в удалении подписанного файла.
	Quiet bool
}

// Delete удаляет файл. Подписанные файлы не удаляются ни при каких флагах.
// Отсутствующий файл без RequireExists считается успешно удалённым.
func (m *Manager) Delete(path string, opts DeleteOptions) (err error) {
	start := time.Now()
	defer func() { m.observe("delete", start, err) }()

	if m.isSigned(path) {
		if !opts.Quiet {
			m.logger.Warn("удаление подписанного файла запрещено", "path", path)
		}
		return fmt.Errorf("%w: %s", ErrProtected, path)
	}

	if !m.platform.FileExists(path) {
		if opts.RequireExists {
			m.logger.Warn("удаляемый файл не существует", "path", path)
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil
	}

	if opts.EvenReadOnly {
		if err := m.platform.SetReadOnly(path, false); err != nil {
			m.logger.Debug("не удалось снять атрибут только для чтения", "path", path, "error", err.Error())
		}
	}
	if err := m.platform.DeleteFile(path); err != nil {
		if !opts.Quiet {
			m.logger.Warn("не удалось удалить файл", "path", path, "error", err.Error())
		}
		return fmt.Errorf("%w: delete %s: %w", ErrIO, path, err)
	}
	return nil
}

// MoveOptions - параметры перемещения файла.
type MoveOptions struct {
	// Replace разрешает заменить существующий файл назначения.
	Replace bool
	// EvenIfReadOnly снимает атрибут только для чтения с заменяемого файла.
	EvenIfReadOnly bool
	// PreserveAttributes сохраняет атрибуты источника. Переименование сохраняет их всегда.
	PreserveAttributes bool
	// NoRetry отключает повторные попытки.
	NoRetry bool
}

// Move перемещает src в dest, создавая родительскую директорию назначения.
// Существующий файл назначения удаляется; при неудаче удаление повторяется один раз.
// Неудачное перемещение повторяется до WithMoveRetry раз с паузой между попытками.
func (m *Manager) Move(dest, src string, opts MoveOptions) (err error) {
	start := time.Now()
	defer func() { m.observe("move", start, err) }()

	if m.fullPath(dest) == m.fullPath(src) {
		return fmt.Errorf("%w: %s", ErrSamePath, src)
	}
	if !m.platform.FileExists(src) {
		return fmt.Errorf("%w: %s", ErrNotFound, src)
	}

	if err := m.MakeDirectory(filepath.Dir(dest), true); err != nil {
		m.logger.Debug("не удалось создать директорию назначения", "path", dest, "error", err.Error())
	}

	if m.platform.FileExists(dest) {
		if !opts.Replace {
			return fmt.Errorf("%w: %s", ErrExists, dest)
		}
		if err := m.replaceDestination(dest, opts); err != nil {
			return err
		}
	}

	moveErr := m.platform.MoveFile(dest, src)
	if moveErr == nil {
		return nil
	}
	if opts.NoRetry {
		return fmt.Errorf("%w: move %s -> %s: %w", ErrIO, src, dest, moveErr)
	}

	for attempt := 1; attempt <= m.opts.moveRetryCount; attempt++ {
		m.logger.Warn("не удалось переместить файл, повтор",
			"from", src, "to", dest, "attempt", attempt, "error", moveErr.Error())
		m.metrics.RecordRetry("move")
		m.opts.sleep(m.opts.retryDelay)

		if moveErr = m.platform.MoveFile(dest, src); moveErr == nil {
			return nil
		}
	}

	m.logger.Error("перемещение файла не удалось", "from", src, "to", dest, "error", moveErr.Error())
	return fmt.Errorf("%w: move %s -> %s: %w", ErrRetryExhausted, src, dest, moveErr)
}

// replaceDestination удаляет существующий файл назначения перед перемещением.
func (m *Manager) replaceDestination(dest string, opts MoveOptions) error {
	deleteOpts := DeleteOptions{RequireExists: true, EvenReadOnly: opts.EvenIfReadOnly}
	err := m.Delete(dest, deleteOpts)
	if err == nil {
		return nil
	}
	if opts.NoRetry || errors.Is(err, ErrProtected) {
		return err
	}

	m.logger.Warn("не удалось удалить файл назначения, повтор", "path", dest, "error", err.Error())
	m.metrics.RecordRetry("delete")
	m.opts.sleep(m.opts.retryDelay)

	if err := m.Delete(dest, deleteOpts); err != nil {
		return fmt.Errorf("%w: %w", ErrRetryExhausted, err)
	}
	return nil
}

// FileExists сообщает, существует ли файл.
func (m *Manager) FileExists(path string) bool {
	return m.platform.FileExists(path)
}

// DirectoryExists сообщает, существует ли директория.
func (m *Manager) DirectoryExists(path string) bool {
	return m.platform.DirectoryExists(path)
}

// FileSize возвращает размер файла или -1.
func (m *Manager) FileSize(path string) int64 {
	return m.platform.FileSize(path)
}

// IsReadOnly сообщает, установлен ли атрибут только для чтения.
func (m *Manager) IsReadOnly(path string) bool {
	return m.platform.IsReadOnly(path)
}

// GetStatData возвращает сведения о файле или директории.
// Для отсутствующего пути IsValid == false.
func (m *Manager) GetStatData(path string) filer.StatData {
	return m.platform.StatData(path)
}

// MakeDirectory создаёт директорию. С tree создаются все недостающие родители.
func (m *Manager) MakeDirectory(path string, tree bool) error {
	if tree {
		return m.platform.CreateDirectoryTree(path)
	}
	return m.platform.CreateDirectory(path)
}

// DeleteDirectory удаляет директорию; с tree - вместе с содержимым.
// Отсутствующая директория без requireExists считается удалённой.
func (m *Manager) DeleteDirectory(path string, requireExists, tree bool) error {
	if !m.platform.DirectoryExists(path) {
		if requireExists {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil
	}
	if tree {
		return m.platform.DeleteDirectoryRecursively(path)
	}
	return m.platform.DeleteDirectory(path)
}

// GetTimeStamp возвращает время модификации файла.
func (m *Manager) GetTimeStamp(path string) (time.Time, error) {
	if !m.platform.FileExists(path) {
		return time.Time{}, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return m.platform.TimeStamp(path)
}

// SetTimeStamp устанавливает время модификации. Отсутствующий файл даёт ErrNotFound.
func (m *Manager) SetTimeStamp(path string, t time.Time) error {
	if !m.platform.FileExists(path) {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return m.platform.SetTimeStamp(path, t)
}

// GetFileAgeSeconds возвращает возраст файла в секундах по UTC или -1, если файла нет.
func (m *Manager) GetFileAgeSeconds(path string) float64 {
	stamp, err := m.GetTimeStamp(path)
	if err != nil {
		return -1
	}
	return m.opts.now().UTC().Sub(stamp.UTC()).Seconds()
}
