package filer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// PlatformFile - набор низкоуровневых файловых примитивов, на которых строится
// буферизованный ввод-вывод и менеджер файлов.
type PlatformFile interface {
	OpenRead(name string, allowWrite bool) (File, error)
	OpenWrite(name string, appendMode, allowRead bool) (File, error)

	FileExists(name string) bool
	DirectoryExists(name string) bool
	// FileSize возвращает размер файла или -1, если файл не существует.
	FileSize(name string) int64

	DeleteFile(name string) error
	MoveFile(to, from string) error
	CopyFile(to, from string, readFlags ReadFlags, writeFlags WriteFlags) error

	CreateDirectory(name string) error
	CreateDirectoryTree(name string) error
	DeleteDirectory(name string) error
	DeleteDirectoryRecursively(name string) error

	// IterateDirectory вызывает visitor для каждой записи директории.
	// Возврат false из visitor прекращает обход без ошибки.
	IterateDirectory(dir string, visitor func(path string, isDir bool) bool) error

	StatData(name string) StatData
	TimeStamp(name string) (time.Time, error)
	SetTimeStamp(name string, t time.Time) error
	IsReadOnly(name string) bool
	SetReadOnly(name string, readOnly bool) error
}

// StandardPlatformFile реализует PlatformFile поверх FileSystem.
type StandardPlatformFile struct {
	fs FileSystem
}

var _ PlatformFile = (*StandardPlatformFile)(nil)

// NewPlatformFile создает провайдер поверх файловой системы fs.
func NewPlatformFile(fs FileSystem) *StandardPlatformFile {
	return &StandardPlatformFile{fs: fs}
}

// FileSystem возвращает нижележащую файловую систему.
func (p *StandardPlatformFile) FileSystem() FileSystem {
	return p.fs
}

// OpenRead открывает файл на чтение.
// allowWrite носит рекомендательный характер: POSIX не запрещает совместный доступ.
func (p *StandardPlatformFile) OpenRead(name string, _ bool) (File, error) {
	if p.DirectoryExists(name) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedOperation, name)
	}
	return p.fs.Open(name)
}

// OpenWrite открывает файл на запись, создавая его при отсутствии.
// В режиме дозаписи позиция устанавливается в конец файла, иначе файл обрезается.
func (p *StandardPlatformFile) OpenWrite(name string, appendMode, allowRead bool) (File, error) {
	flag := os.O_WRONLY | os.O_CREATE
	if allowRead {
		flag = os.O_RDWR | os.O_CREATE
	}
	if !appendMode {
		flag |= os.O_TRUNC
	}

	file, err := p.fs.OpenFile(name, flag, FileMode)
	if err != nil {
		return nil, err
	}

	if appendMode {
		if _, err := file.Seek(0, io.SeekEnd); err != nil {
			_ = file.Close()
			return nil, err
		}
	}
	return file, nil
}

// FileExists сообщает, существует ли обычный файл.
func (p *StandardPlatformFile) FileExists(name string) bool {
	info, err := p.fs.Stat(name)
	return err == nil && !info.IsDir()
}

// DirectoryExists сообщает, существует ли директория.
func (p *StandardPlatformFile) DirectoryExists(name string) bool {
	info, err := p.fs.Stat(name)
	return err == nil && info.IsDir()
}

// FileSize возвращает размер файла или -1.
func (p *StandardPlatformFile) FileSize(name string) int64 {
	info, err := p.fs.Stat(name)
	if err != nil || info.IsDir() {
		return -1
	}
	return info.Size()
}

// DeleteFile удаляет файл. Директории не удаляются.
func (p *StandardPlatformFile) DeleteFile(name string) error {
	if p.DirectoryExists(name) {
		return fmt.Errorf("%w: %s", ErrUnsupportedOperation, name)
	}
	return p.fs.Remove(name)
}

// MoveFile перемещает файл from в to.
func (p *StandardPlatformFile) MoveFile(to, from string) error {
	return p.fs.Rename(from, to)
}

// CopyFile копирует содержимое файла from в to целиком.
func (p *StandardPlatformFile) CopyFile(to, from string, readFlags ReadFlags, writeFlags WriteFlags) error {
	src, err := p.OpenRead(from, readFlags.Has(ReadAllowWrite))
	if err != nil {
		return err
	}
	defer src.Close() //nolint:errcheck // источник открыт только на чтение

	dst, err := p.OpenWrite(to, writeFlags.Has(WriteAppend), writeFlags.Has(WriteAllowRead))
	if err != nil {
		return err
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return err
	}
	return dst.Close()
}

// CreateDirectory создает одну директорию. Существующая директория не является ошибкой.
func (p *StandardPlatformFile) CreateDirectory(name string) error {
	err := p.fs.Mkdir(name, DirMode)
	if errors.Is(err, os.ErrExist) && p.DirectoryExists(name) {
		return nil
	}
	return err
}

// CreateDirectoryTree создает директорию вместе с родителями.
func (p *StandardPlatformFile) CreateDirectoryTree(name string) error {
	return p.fs.MkdirAll(name, DirMode)
}

// DeleteDirectory удаляет пустую директорию.
func (p *StandardPlatformFile) DeleteDirectory(name string) error {
	if !p.DirectoryExists(name) {
		return fmt.Errorf("%w: %s", os.ErrNotExist, name)
	}
	return p.fs.Remove(name)
}

// DeleteDirectoryRecursively удаляет директорию вместе с содержимым.
func (p *StandardPlatformFile) DeleteDirectoryRecursively(name string) error {
	if !p.DirectoryExists(name) {
		return fmt.Errorf("%w: %s", os.ErrNotExist, name)
	}
	return p.fs.RemoveAll(name)
}

// IterateDirectory обходит записи директории в порядке имен.
// Путь, передаваемый visitor, составлен как dir/имя.
func (p *StandardPlatformFile) IterateDirectory(dir string, visitor func(path string, isDir bool) bool) error {
	entries, err := p.fs.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if !visitor(filepath.Join(dir, entry.Name()), entry.IsDir()) {
			return nil
		}
	}
	return nil
}

// StatData возвращает метаданные пути.
func (p *StandardPlatformFile) StatData(name string) StatData {
	info, err := p.fs.Stat(name)
	if err != nil {
		return StatData{}
	}
	size := info.Size()
	if info.IsDir() {
		size = -1
	}
	return StatData{
		Size:        size,
		ModTime:     info.ModTime(),
		IsDirectory: info.IsDir(),
		IsReadOnly:  info.Mode().Perm()&ownerWrite == 0,
		IsValid:     true,
	}
}

// TimeStamp возвращает время модификации файла.
func (p *StandardPlatformFile) TimeStamp(name string) (time.Time, error) {
	info, err := p.fs.Stat(name)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

// SetTimeStamp устанавливает время модификации файла.
func (p *StandardPlatformFile) SetTimeStamp(name string, t time.Time) error {
	return p.fs.Chtimes(name, t, t)
}

// IsReadOnly сообщает, снят ли у файла бит записи владельца.
func (p *StandardPlatformFile) IsReadOnly(name string) bool {
	info, err := p.fs.Stat(name)
	if err != nil {
		return false
	}
	return info.Mode().Perm()&ownerWrite == 0
}

// SetReadOnly устанавливает или снимает атрибут "только чтение".
func (p *StandardPlatformFile) SetReadOnly(name string, readOnly bool) error {
	info, err := p.fs.Stat(name)
	if err != nil {
		return err
	}
	mode := info.Mode().Perm()
	if readOnly {
		mode &^= 0222
	} else {
		mode |= ownerWrite
	}
	return p.fs.Chmod(name, mode)
}
