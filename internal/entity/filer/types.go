package filer

import (
	"os"
	"time"

	"github.com/Kargones/apk-files/internal/constants"
)

// FSType представляет тип файловой системы.
type FSType int

const (
	// DiskFS представляет файловую систему на диске
	DiskFS FSType = iota + 1
	// MemoryFS представляет файловую систему в памяти
	MemoryFS
)

// String возвращает строковое представление типа файловой системы.
func (t FSType) String() string {
	switch t {
	case DiskFS:
		return "DiskFS"
	case MemoryFS:
		return "MemoryFS"
	default:
		return "Unknown"
	}
}

// Config представляет конфигурацию для создания файловой системы.
type Config struct {
	// Type определяет тип файловой системы (DiskFS или MemoryFS)
	Type FSType

	// BasePath определяет корень файловой системы.
	// Для DiskFS пустое значение означает текущую рабочую директорию.
	BasePath string
}

// DefaultConfig возвращает конфигурацию по умолчанию.
func DefaultConfig() Config {
	return Config{
		Type: DiskFS,
	}
}

// Права доступа по умолчанию.
const (
	// DirMode - права доступа по умолчанию для директорий
	DirMode = constants.DirPermExec

	// FileMode - права доступа по умолчанию для файлов
	FileMode = constants.FilePermReadWrite

	// ownerWrite - бит записи владельца; его отсутствие означает "только чтение"
	ownerWrite os.FileMode = 0200
)

// MemoryRoot - корень файловой системы в памяти по умолчанию.
const MemoryRoot = "/mem"

// StatData описывает метаданные файла или директории.
// IsValid равен false, если путь не существует.
type StatData struct {
	Size        int64
	ModTime     time.Time
	IsDirectory bool
	IsReadOnly  bool
	IsValid     bool
}

// ReadFlags - флаги открытия файла на чтение.
type ReadFlags uint8

const (
	// ReadNone - флаги не заданы.
	ReadNone ReadFlags = 0
	// ReadAllowWrite разрешает параллельную запись в файл другими процессами.
	ReadAllowWrite ReadFlags = 1 << iota
	// ReadNoFail делает ошибку открытия фатальной.
	ReadNoFail
)

// Has сообщает, установлен ли флаг.
func (f ReadFlags) Has(flag ReadFlags) bool { return f&flag != 0 }

// WriteFlags - флаги открытия файла на запись.
type WriteFlags uint8

const (
	// WriteNone - флаги не заданы.
	WriteNone WriteFlags = 0
	// WriteAppend дописывает в конец существующего файла.
	WriteAppend WriteFlags = 1 << iota
	// WriteAllowRead разрешает чтение файла во время записи.
	WriteAllowRead
	// WriteEvenIfReadOnly снимает атрибут "только чтение" перед открытием.
	WriteEvenIfReadOnly
	// WriteNoFail делает ошибку открытия фатальной.
	WriteNoFail
	// WriteNoReplaceExisting запрещает перезапись существующего файла.
	WriteNoReplaceExisting
)

// Has сообщает, установлен ли флаг.
func (f WriteFlags) Has(flag WriteFlags) bool { return f&flag != 0 }
