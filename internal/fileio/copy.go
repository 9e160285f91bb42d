package fileio

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/Kargones/apk-files/internal/entity/filer"
)

// CopyResult - итог копирования.
type CopyResult int

const (
	// CopyOK - файл скопирован.
	CopyOK CopyResult = iota
	// CopyFail - копирование не удалось.
	CopyFail
	// CopyCanceled - копирование отменено обратным вызовом прогресса.
	CopyCanceled
)

// String возвращает имя результата.
func (r CopyResult) String() string {
	switch r {
	case CopyOK:
		return "ok"
	case CopyCanceled:
		return "canceled"
	default:
		return "fail"
	}
}

// ProgressFunc получает долю выполненной работы от 0 до 1.
// Возврат false отменяет копирование.
type ProgressFunc func(fraction float64) bool

// CopyOptions - параметры копирования.
type CopyOptions struct {
	// Replace разрешает перезаписать существующий файл назначения.
	Replace bool
	// EvenIfReadOnly разрешает перезаписать файл с атрибутом только для чтения.
	EvenIfReadOnly bool
	// PreserveAttributes переносит атрибут только для чтения с источника.
	PreserveAttributes bool
	// Progress включает поблочное копирование с опросом прогресса.
	Progress ProgressFunc

	ReadFlags  filer.ReadFlags
	WriteFlags filer.WriteFlags
}

// Copy копирует src в dest.
//
// Без Progress используется копирование провайдера. С Progress файл копируется
// блоками через Reader/Writer; прогресс опрашивается до начала, после каждого
// блока и по завершении. Отказ обратного вызова даёт CopyCanceled, частично
// записанный файл назначения удаляется.
func (m *Manager) Copy(dest, src string, opts CopyOptions) (result CopyResult, err error) {
	start := time.Now()
	defer func() { m.observe("copy", start, err) }()

	if m.fullPath(dest) == m.fullPath(src) {
		return CopyFail, fmt.Errorf("%w: %s", ErrSamePath, src)
	}

	if opts.Progress != nil {
		result, err = m.copyWithProgress(dest, src, opts)
	} else {
		result, err = m.copyDirect(dest, src, opts)
	}

	if result == CopyOK && opts.PreserveAttributes {
		if err := m.platform.SetReadOnly(dest, m.platform.IsReadOnly(src)); err != nil {
			m.logger.Warn("не удалось перенести атрибуты файла", "from", src, "to", dest, "error", err.Error())
		}
	}
	return result, err
}

func (m *Manager) copyDirect(dest, src string, opts CopyOptions) (CopyResult, error) {
	if !opts.Replace && m.platform.FileExists(dest) {
		return CopyFail, fmt.Errorf("%w: %s", ErrExists, dest)
	}
	if m.platform.FileExists(dest) && m.isSigned(dest) {
		m.logger.Warn("попытка записи в подписанный файл, копирование пропущено", "path", dest)
		return CopyOK, nil
	}
	if opts.EvenIfReadOnly && m.platform.FileExists(dest) {
		if err := m.platform.SetReadOnly(dest, false); err != nil {
			m.logger.Debug("не удалось снять атрибут только для чтения", "path", dest, "error", err.Error())
		}
	}
	if err := m.MakeDirectory(filepath.Dir(dest), true); err != nil {
		m.logger.Debug("не удалось создать директорию назначения", "path", dest, "error", err.Error())
	}

	if err := m.platform.CopyFile(dest, src, opts.ReadFlags, opts.WriteFlags); err != nil {
		return CopyFail, fmt.Errorf("%w: copy %s -> %s: %w", ErrIO, src, dest, err)
	}
	if size := m.platform.FileSize(dest); size > 0 {
		m.metrics.AddBytes("copy", size)
	}
	return CopyOK, nil
}

func (m *Manager) copyWithProgress(dest, src string, opts CopyOptions) (CopyResult, error) {
	if !opts.Progress(0) {
		return CopyCanceled, ErrCanceled
	}

	reader, err := m.CreateReader(src, opts.ReadFlags)
	if err != nil {
		return CopyFail, err
	}

	writeFlags := opts.WriteFlags
	if !opts.Replace {
		writeFlags |= filer.WriteNoReplaceExisting
	}
	if opts.EvenIfReadOnly {
		writeFlags |= filer.WriteEvenIfReadOnly
	}
	writer, err := m.CreateWriter(dest, writeFlags)
	if err != nil {
		return CopyFail, errors.Join(err, reader.Close())
	}

	result, err := m.copyChunks(writer, reader, opts.Progress)
	if closeErr := reader.Close(); closeErr != nil && result == CopyOK {
		result, err = CopyFail, closeErr
	}
	if closeErr := writer.Close(); closeErr != nil && result == CopyOK {
		result, err = CopyFail, closeErr
	}

	if result == CopyOK && !opts.Progress(1) {
		result, err = CopyCanceled, ErrCanceled
	}
	if result != CopyOK {
		if delErr := m.Delete(dest, DeleteOptions{Quiet: true}); delErr != nil {
			m.logger.Warn("не удалось удалить частично скопированный файл",
				"path", dest, "error", delErr.Error())
		}
	}
	return result, err
}

// copyChunks переносит данные блоками, опрашивая прогресс после каждого блока.
func (m *Manager) copyChunks(writer Archive, reader *Reader, progress ProgressFunc) (CopyResult, error) {
	size := reader.TotalSize()
	buf := make([]byte, min(int64(m.opts.copyChunkSize), max(size, 1)))

	var written int64
	for written < size {
		chunk := buf[:min(int64(len(buf)), size-written)]
		if err := reader.Serialize(chunk); err != nil {
			return CopyFail, err
		}
		if err := writer.Serialize(chunk); err != nil {
			return CopyFail, err
		}
		written += int64(len(chunk))
		m.metrics.AddBytes("copy", int64(len(chunk)))

		if !progress(float64(written) / float64(size)) {
			return CopyCanceled, ErrCanceled
		}
	}

	if err := writer.Flush(); err != nil {
		return CopyFail, err
	}
	if writer.IsError() || reader.IsError() {
		return CopyFail, errors.Join(writer.Err(), reader.Err())
	}
	return CopyOK, nil
}
